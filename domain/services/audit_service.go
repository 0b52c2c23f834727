package services

import (
	"context"

	"karnalix/domain"
	"karnalix/domain/entities"
	"karnalix/domain/interfaces"
	"karnalix/domain/utils"

	log "github.com/sirupsen/logrus"
)

type auditService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewAuditService creates a new audit service
func NewAuditService(uowFactory interfaces.UnitOfWorkFactory) interfaces.AuditService {
	return &auditService{uowFactory: uowFactory}
}

func (s *auditService) ListEntries(ctx context.Context, principal entities.Principal, filter entities.EntryFilter) ([]*entities.LedgerEntry, error) {
	var entries []*entities.LedgerEntry

	err := runOnce(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		visible, err := visibleUserIDs(ctx, uow.UserRepository(), principal)
		if err != nil {
			return err
		}
		entries, err = uow.LedgerEntryRepository().List(ctx, filter, visible)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *auditService) GetEntry(ctx context.Context, principal entities.Principal, entryID int64) (*entities.LedgerEntry, error) {
	var entry *entities.LedgerEntry

	err := runOnce(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		var err error
		entry, err = uow.LedgerEntryRepository().GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.NewError(domain.CodeNotFound, "entry %d not found", entryID)
		}

		visible, err := visibleUserIDs(ctx, uow.UserRepository(), principal)
		if err != nil {
			return err
		}
		if visible == nil {
			return nil
		}
		for _, id := range visible {
			if entry.Touches(id) {
				return nil
			}
		}
		// Out-of-scope entries are indistinguishable from missing ones
		return domain.NewError(domain.CodeNotFound, "entry %d not found", entryID)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *auditService) ReverseEntry(ctx context.Context, actor entities.Principal, entryID int64, reason string) (*entities.ReverseResult, error) {
	if err := canReverse(actor); err != nil {
		return nil, err
	}

	var result *entities.ReverseResult

	err := execute(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		original, err := uow.LedgerEntryRepository().GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.NewError(domain.CodeNotFound, "entry %d not found", entryID)
		}
		if original.Status == entities.EntryStatusReversed {
			return domain.NewError(domain.CodeAlreadySettled, "entry %d already reversed", entryID)
		}

		var refs []entities.AccountRef
		if original.From != nil {
			refs = append(refs, *original.From)
		}
		if original.To != nil {
			refs = append(refs, *original.To)
		}
		if len(refs) > 0 {
			if _, err := lockWallets(ctx, uow.WalletRepository(), refs...); err != nil {
				return err
			}
		}

		// MarkReversed carries its own status guard, so a concurrent
		// reversal that slipped past the read above still fails cleanly.
		if err := uow.LedgerEntryRepository().MarkReversed(ctx, original.ID); err != nil {
			return err
		}
		original.Status = entities.EntryStatusReversed

		// Undo the wallet effects: credit the original source, debit the
		// original destination. A destination that already spent the
		// funds makes the reversal fail with insufficient funds.
		if original.To != nil {
			if _, err := uow.WalletRepository().ApplyDelta(ctx, original.To.UserID, original.To.Kind, -original.Amount); err != nil {
				if domain.CodeOf(err) == domain.CodeInsufficientFunds {
					return domain.NewError(domain.CodeInsufficientFunds,
						"account %s cannot return %d", original.To, original.Amount)
				}
				return err
			}
		}
		if original.From != nil {
			if _, err := uow.WalletRepository().ApplyDelta(ctx, original.From.UserID, original.From.Kind, original.Amount); err != nil {
				return err
			}
		}

		compensating := utils.NewEntry(original.Kind, original.To, original.From, original.Amount, reason, &actor.UserID)
		compensating.Metadata = map[string]any{"reverses_entry_id": original.ID}
		if err := utils.RecordEntry(ctx, uow.LedgerEntryRepository(), uow.EventBus(), compensating); err != nil {
			return err
		}

		result = &entities.ReverseResult{Original: original, Compensating: compensating}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"entryID":        entryID,
		"compensatingID": result.Compensating.ID,
		"actorID":        actor.UserID,
	}).Info("Reversed ledger entry")
	return result, nil
}

func (s *auditService) GetBalances(ctx context.Context, principal entities.Principal, userID int64) (*entities.BalanceSummary, error) {
	var balances *entities.BalanceSummary

	err := runOnce(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		ok, err := canSeeUser(ctx, uow.UserRepository(), principal, userID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewError(domain.CodePermissionDenied,
				"user %d may not view balances of user %d", principal.UserID, userID)
		}

		balances, err = uow.WalletRepository().GetBalances(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return balances, nil
}
