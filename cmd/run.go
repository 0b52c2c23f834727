package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"karnalix/config"
	"karnalix/database"
	"karnalix/domain/interfaces"
	"karnalix/domain/services"
	"karnalix/infrastructure"
	"karnalix/repository"
)

// App bundles the wired ledger services for callers embedding the engine
type App struct {
	Ledger   interfaces.LedgerService
	Betting  interfaces.BettingService
	Payments interfaces.PaymentService
	Accounts interfaces.AccountService
	Audit    interfaces.AuditService
}

// NewApp wires the domain services on top of a unit of work factory
func NewApp(uowFactory interfaces.UnitOfWorkFactory, gameCatalog interfaces.GameCatalog, kycVerifier interfaces.KycVerifier) *App {
	ledgerService := services.NewLedgerService(uowFactory)
	return &App{
		Ledger:   ledgerService,
		Betting:  services.NewBettingService(uowFactory, gameCatalog),
		Payments: services.NewPaymentService(uowFactory, kycVerifier),
		Accounts: services.NewAccountService(uowFactory, ledgerService),
		Audit:    services.NewAuditService(uowFactory),
	}
}

// NewDefaultApp wires the services against a database connection with the
// standard collaborators and the given event publisher factory.
func NewDefaultApp(db *database.DB, newPublisher func() interfaces.TransactionalEventPublisher) *App {
	cfg := config.Get()
	uowFactory := repository.NewUnitOfWorkFactory(db, cfg.LockTimeout.Milliseconds(), newPublisher)
	return NewApp(uowFactory, infrastructure.DefaultGameCatalog(), repository.NewKycVerifier(db))
}

// Run starts the ledger daemon: it owns the NATS event stream and keeps
// a conservation sweep running until ctx is cancelled.
func Run(ctx context.Context) error {
	log.Println("Starting ledger service...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize NATS event publishing
	log.Println("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureLedgerEventStream(); err != nil {
		return fmt.Errorf("failed to ensure ledger event stream: %w", err)
	}
	log.Println("NATS event publishing initialized successfully")

	// Every unit of work opened by the daemon flushes its events to NATS
	// on commit
	uowFactory := repository.NewUnitOfWorkFactory(db, cfg.LockTimeout.Milliseconds(),
		infrastructure.NewTransactionalPublisherFactory(eventPublisher))

	// Periodic conservation sweep over the whole book
	go runInvariantSweep(ctx, uowFactory)

	log.Printf("Ledger service is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down ledger service...")

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
