package services

import (
	"context"

	"karnalix/domain"
	"karnalix/domain/entities"
	"karnalix/domain/interfaces"
	"karnalix/domain/utils"

	log "github.com/sirupsen/logrus"
)

type ledgerService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory interfaces.UnitOfWorkFactory) interfaces.LedgerService {
	return &ledgerService{uowFactory: uowFactory}
}

func (s *ledgerService) Mint(ctx context.Context, actor entities.Principal, toUserID int64, amount int64, description string) (*entities.MintResult, error) {
	if err := canMint(actor); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	result, err := s.issue(ctx, actor, toUserID, entities.WalletMain, amount, entities.EntryKindMint, description, nil)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"actorID": actor.UserID,
		"toUser":  toUserID,
		"amount":  amount,
	}).Info("Minted coins")
	return result, nil
}

func (s *ledgerService) GrantBonus(ctx context.Context, actor entities.Principal, toUserID int64, amount int64, description string) (*entities.MintResult, error) {
	if err := canGrantBonus(actor); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	result, err := s.issue(ctx, actor, toUserID, entities.WalletBonus, amount, entities.EntryKindBonus, description, nil)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"actorID": actor.UserID,
		"toUser":  toUserID,
		"amount":  amount,
	}).Info("Granted bonus")
	return result, nil
}

func (s *ledgerService) GrantReferralReward(ctx context.Context, referrerID, newUserID int64, amount int64) (*entities.MintResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	metadata := map[string]any{"referred_user_id": newUserID}
	result, err := s.issue(ctx, entities.Principal{UserID: referrerID}, referrerID, entities.WalletBonus,
		amount, entities.EntryKindReferral, "referral reward", metadata)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"referrerID": referrerID,
		"newUserID":  newUserID,
		"amount":     amount,
	}).Info("Granted referral reward")
	return result, nil
}

// issue credits a single wallet from system issuance and records the entry
func (s *ledgerService) issue(ctx context.Context, actor entities.Principal, toUserID int64, kind entities.WalletKind, amount int64, entryKind entities.EntryKind, description string, metadata map[string]any) (*entities.MintResult, error) {
	var result *entities.MintResult

	err := execute(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		target, err := uow.UserRepository().GetByID(ctx, toUserID)
		if err != nil {
			return err
		}
		if target == nil {
			return domain.NewError(domain.CodeNotFound, "user %d not found", toUserID)
		}

		to := entities.AccountRef{UserID: toUserID, Kind: kind}
		if _, err := lockWallets(ctx, uow.WalletRepository(), to); err != nil {
			return err
		}

		newBalance, err := uow.WalletRepository().ApplyDelta(ctx, to.UserID, to.Kind, amount)
		if err != nil {
			return err
		}

		entry := utils.NewEntry(entryKind, nil, &to, amount, description, &actor.UserID)
		entry.Metadata = metadata
		if err := utils.RecordEntry(ctx, uow.LedgerEntryRepository(), uow.EventBus(), entry); err != nil {
			return err
		}

		result = &entities.MintResult{Entry: entry, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *ledgerService) Transfer(ctx context.Context, actor entities.Principal, toUserID int64, amount int64, kind entities.WalletKind, description string) (*entities.TransferResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	// The locked wallet is escrow owned by the bet state machine, so a
	// transfer naming it is malformed input rather than a rank failure
	if !kind.IsValid() || kind == entities.WalletLocked {
		return nil, domain.NewError(domain.CodeInvalidAmount, "cannot transfer via %s wallet", kind)
	}

	var result *entities.TransferResult

	err := execute(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		target, err := uow.UserRepository().GetByID(ctx, toUserID)
		if err != nil {
			return err
		}
		if target == nil {
			return domain.NewError(domain.CodeNotFound, "user %d not found", toUserID)
		}

		if err := canTransfer(actor, target); err != nil {
			return err
		}

		from := entities.AccountRef{UserID: actor.UserID, Kind: kind}
		to := entities.AccountRef{UserID: toUserID, Kind: kind}
		if _, err := lockWallets(ctx, uow.WalletRepository(), from, to); err != nil {
			return err
		}

		fromBalance, toBalance, err := moveFunds(ctx, uow.WalletRepository(), from, to, amount)
		if err != nil {
			return err
		}

		entry := utils.NewEntry(entities.EntryKindTransfer, &from, &to, amount, description, &actor.UserID)
		if err := utils.RecordEntry(ctx, uow.LedgerEntryRepository(), uow.EventBus(), entry); err != nil {
			return err
		}

		result = &entities.TransferResult{
			Entry:       entry,
			FromBalance: fromBalance,
			ToBalance:   toBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"actorID": actor.UserID,
		"toUser":  toUserID,
		"amount":  amount,
		"wallet":  kind,
	}).Info("Transferred coins")
	return result, nil
}
