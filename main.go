package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"karnalix/cmd"
	"karnalix/config"
	"karnalix/database"
	"karnalix/domain/entities"
	"karnalix/domain/interfaces"
	"karnalix/infrastructure"
	"karnalix/repository"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environment takes precedence
	_ = godotenv.Load()

	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
		return
	}

	// Check for admin subcommands
	if len(os.Args) > 1 && os.Args[1] == "create-account" {
		if err := handleCreateAccount(); err != nil {
			log.Fatal("Account creation error:", err)
		}
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "mint" {
		if err := handleMint(); err != nil {
			log.Fatal("Mint error:", err)
		}
		return
	}

	// Normal service operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: karnalix migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// adminApp wires the services for one-shot operator commands. Operator
// writes publish the same ledger events as the daemon; if NATS is not
// reachable the command still runs, with events dropped.
func adminApp(ctx context.Context) (*cmd.App, *database.DB, func(), error) {
	cfg := config.Get()
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), cfg.DBMaxConns)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	newPublisher := func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewNoopEventPublisher()
	}
	if err := natsClient.Connect(ctx); err != nil {
		log.Printf("NATS unavailable, events will not be published: %v", err)
	} else {
		eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
		if err := eventPublisher.EnsureLedgerEventStream(); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("failed to ensure ledger event stream: %w", err)
		}
		newPublisher = infrastructure.NewTransactionalPublisherFactory(eventPublisher)
	}

	cleanup := func() {
		if natsClient.IsConnected() {
			_ = natsClient.Close()
		}
		db.Close()
	}
	return cmd.NewDefaultApp(db, newPublisher), db, cleanup, nil
}

func handleCreateAccount() error {
	if len(os.Args) < 5 {
		return fmt.Errorf("usage: karnalix create-account actor-id username role")
	}
	actorID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid actor id: %w", err)
	}
	username := os.Args[3]
	role := entities.Role(os.Args[4])

	ctx := context.Background()
	app, db, cleanup, err := adminApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	actor, err := resolveActor(ctx, db, actorID)
	if err != nil {
		return err
	}

	user, err := app.Accounts.CreateAccount(ctx, actor, username, role, nil)
	if err != nil {
		return err
	}
	log.Printf("Created user %d (%s) with role %s", user.ID, user.Username, user.Role)
	return nil
}

func handleMint() error {
	if len(os.Args) < 5 {
		return fmt.Errorf("usage: karnalix mint actor-id user-id amount")
	}
	actorID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid actor id: %w", err)
	}
	userID, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	amount, err := strconv.ParseInt(os.Args[4], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	ctx := context.Background()
	app, db, cleanup, err := adminApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	actor, err := resolveActor(ctx, db, actorID)
	if err != nil {
		return err
	}

	result, err := app.Ledger.Mint(ctx, actor, userID, amount, "operator mint")
	if err != nil {
		return err
	}
	log.Printf("Minted %d to user %d, new balance %d", amount, userID, result.NewBalance)
	return nil
}

// resolveActor loads the acting user so role checks run against the
// stored role rather than operator input.
func resolveActor(ctx context.Context, db *database.DB, actorID int64) (entities.Principal, error) {
	user, err := repository.NewUserRepository(db).GetByID(ctx, actorID)
	if err != nil {
		return entities.Principal{}, err
	}
	if user == nil {
		return entities.Principal{}, fmt.Errorf("actor %d not found", actorID)
	}
	return user.Principal(), nil
}
