package cmd

import (
	"context"
	"time"

	"karnalix/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const sweepInterval = 5 * time.Minute

// runInvariantSweep periodically checks conservation across the whole
// book: the sum of all wallet balances plus funds held by pending
// withdrawals must equal the net of system issuance and destruction in
// the ledger. A mismatch means a mutation escaped the entry write path.
func runInvariantSweep(ctx context.Context, uowFactory interfaces.UnitOfWorkFactory) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := checkConservation(ctx, uowFactory); err != nil {
				log.WithError(err).Error("Conservation sweep failed")
			}
		}
	}
}

// checkConservation reads all three aggregates inside one unit of work
// so they come from a single snapshot and cannot tear against writers.
func checkConservation(ctx context.Context, uowFactory interfaces.UnitOfWorkFactory) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	walletTotal, err := uow.WalletRepository().SumBalances(ctx)
	if err != nil {
		return err
	}

	pendingHolds, err := uow.WithdrawalRepository().SumPendingHolds(ctx)
	if err != nil {
		return err
	}

	issuanceNet, err := uow.LedgerEntryRepository().SumIssuanceNet(ctx)
	if err != nil {
		return err
	}

	if walletTotal+pendingHolds != issuanceNet {
		log.WithFields(log.Fields{
			"walletTotal":  walletTotal,
			"pendingHolds": pendingHolds,
			"issuanceNet":  issuanceNet,
		}).Error("Conservation violated: wallet totals diverge from ledger")
	} else {
		log.WithFields(log.Fields{
			"walletTotal": walletTotal,
		}).Debug("Conservation sweep passed")
	}

	return nil
}
