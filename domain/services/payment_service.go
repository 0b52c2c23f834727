package services

import (
	"context"

	"karnalix/config"
	"karnalix/domain"
	"karnalix/domain/entities"
	"karnalix/domain/events"
	"karnalix/domain/interfaces"
	"karnalix/domain/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type paymentService struct {
	uowFactory  interfaces.UnitOfWorkFactory
	kycVerifier interfaces.KycVerifier
}

// NewPaymentService creates a new payment service
func NewPaymentService(uowFactory interfaces.UnitOfWorkFactory, kycVerifier interfaces.KycVerifier) interfaces.PaymentService {
	return &paymentService{
		uowFactory:  uowFactory,
		kycVerifier: kycVerifier,
	}
}

func (s *paymentService) RequestDeposit(ctx context.Context, principal entities.Principal, amount int64, paymentMethod, notes string) (*entities.Deposit, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	deposit := &entities.Deposit{
		Reference:     uuid.New(),
		UserID:        principal.UserID,
		Amount:        amount,
		PaymentMethod: paymentMethod,
		Notes:         notes,
		Status:        entities.ReviewStatusPending,
	}

	err := runOnce(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		return uow.DepositRepository().Create(ctx, deposit)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"depositID": deposit.ID,
		"userID":    principal.UserID,
		"amount":    amount,
	}).Info("Deposit requested")
	return deposit, nil
}

func (s *paymentService) ApproveDeposit(ctx context.Context, actor entities.Principal, depositID int64, notes string) (*entities.DepositDecisionResult, error) {
	if err := canReview(actor); err != nil {
		return nil, err
	}

	commissionRate := config.Get().CommissionRateBPS
	var result *entities.DepositDecisionResult

	err := execute(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		deposit, err := uow.DepositRepository().GetByIDForUpdate(ctx, depositID)
		if err != nil {
			return err
		}
		if deposit == nil {
			return domain.NewError(domain.CodeNotFound, "deposit %d not found", depositID)
		}
		if deposit.Status != entities.ReviewStatusPending {
			return domain.NewError(domain.CodeAlreadySettled, "deposit %d already reviewed", depositID)
		}

		depositor, err := uow.UserRepository().GetByID(ctx, deposit.UserID)
		if err != nil {
			return err
		}
		if depositor == nil {
			return domain.NewError(domain.CodeNotFound, "user %d not found", deposit.UserID)
		}

		// Commission goes to the agent who created the depositor, when configured
		var agent *entities.User
		commission := deposit.Amount * commissionRate / 10000
		if commission > 0 && depositor.CreatedBy != nil {
			creator, err := uow.UserRepository().GetByID(ctx, *depositor.CreatedBy)
			if err != nil {
				return err
			}
			if creator != nil && creator.Role == entities.RoleAgent {
				agent = creator
			}
		}

		main := entities.AccountRef{UserID: deposit.UserID, Kind: entities.WalletMain}
		refs := []entities.AccountRef{main}
		var agentMain entities.AccountRef
		if agent != nil {
			agentMain = entities.AccountRef{UserID: agent.ID, Kind: entities.WalletMain}
			refs = append(refs, agentMain)
		}
		if _, err := lockWallets(ctx, uow.WalletRepository(), refs...); err != nil {
			return err
		}

		if err := uow.DepositRepository().Review(ctx, depositID, entities.ReviewStatusApproved, actor.UserID, notes); err != nil {
			return err
		}
		deposit.Status = entities.ReviewStatusApproved
		deposit.ReviewedBy = &actor.UserID
		deposit.ReviewNotes = notes

		newBalance, err := uow.WalletRepository().ApplyDelta(ctx, main.UserID, main.Kind, deposit.Amount)
		if err != nil {
			return err
		}

		entry := utils.NewEntry(entities.EntryKindDeposit, nil, &main, deposit.Amount, "deposit approved", &actor.UserID)
		entry.Metadata = map[string]any{"deposit_id": deposit.ID, "reference": deposit.Reference.String()}
		if err := utils.RecordEntry(ctx, uow.LedgerEntryRepository(), uow.EventBus(), entry); err != nil {
			return err
		}

		if agent != nil {
			if _, err := uow.WalletRepository().ApplyDelta(ctx, agentMain.UserID, agentMain.Kind, commission); err != nil {
				return err
			}
			commissionEntry := utils.NewEntry(entities.EntryKindCommission, nil, &agentMain, commission, "deposit commission", &actor.UserID)
			commissionEntry.Metadata = map[string]any{"deposit_id": deposit.ID, "depositor_id": deposit.UserID}
			if err := utils.RecordEntry(ctx, uow.LedgerEntryRepository(), uow.EventBus(), commissionEntry); err != nil {
				return err
			}
		}

		result = &entities.DepositDecisionResult{
			Deposit:        deposit,
			Entry:          entry,
			NewMainBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"depositID": depositID,
		"actorID":   actor.UserID,
		"amount":    result.Deposit.Amount,
	}).Info("Deposit approved")
	return result, nil
}

func (s *paymentService) RejectDeposit(ctx context.Context, actor entities.Principal, depositID int64, notes string) (*entities.Deposit, error) {
	if err := canReview(actor); err != nil {
		return nil, err
	}

	var deposit *entities.Deposit

	err := execute(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		var err error
		deposit, err = uow.DepositRepository().GetByIDForUpdate(ctx, depositID)
		if err != nil {
			return err
		}
		if deposit == nil {
			return domain.NewError(domain.CodeNotFound, "deposit %d not found", depositID)
		}
		if deposit.Status != entities.ReviewStatusPending {
			return domain.NewError(domain.CodeAlreadySettled, "deposit %d already reviewed", depositID)
		}

		if err := uow.DepositRepository().Review(ctx, depositID, entities.ReviewStatusRejected, actor.UserID, notes); err != nil {
			return err
		}
		deposit.Status = entities.ReviewStatusRejected
		deposit.ReviewedBy = &actor.UserID
		deposit.ReviewNotes = notes
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"depositID": depositID,
		"actorID":   actor.UserID,
	}).Info("Deposit rejected")
	return deposit, nil
}

func (s *paymentService) RequestWithdrawal(ctx context.Context, principal entities.Principal, amount int64, paymentMethod, accountDetails string) (*entities.WithdrawalRequestResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	eligible, err := s.kycVerifier.IsWithdrawalEligible(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domain.NewError(domain.CodeKycRequired, "user %d has not cleared kyc review", principal.UserID)
	}

	var result *entities.WithdrawalRequestResult

	err = execute(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		main := entities.AccountRef{UserID: principal.UserID, Kind: entities.WalletMain}
		if _, err := lockWallets(ctx, uow.WalletRepository(), main); err != nil {
			return err
		}

		// The hold: funds leave main now and come back only on rejection
		newBalance, err := uow.WalletRepository().ApplyDelta(ctx, main.UserID, main.Kind, -amount)
		if err != nil {
			if domain.CodeOf(err) == domain.CodeInsufficientFunds {
				return domain.NewError(domain.CodeInsufficientFunds,
					"main balance cannot cover withdrawal of %d", amount)
			}
			return err
		}

		withdrawal := &entities.Withdrawal{
			Reference:      uuid.New(),
			UserID:         principal.UserID,
			Amount:         amount,
			PaymentMethod:  paymentMethod,
			AccountDetails: accountDetails,
			Status:         entities.ReviewStatusPending,
		}
		if err := uow.WithdrawalRepository().Create(ctx, withdrawal); err != nil {
			return err
		}

		result = &entities.WithdrawalRequestResult{
			Withdrawal:     withdrawal,
			NewMainBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"withdrawalID": result.Withdrawal.ID,
		"userID":       principal.UserID,
		"amount":       amount,
	}).Info("Withdrawal requested")
	return result, nil
}

func (s *paymentService) DecideWithdrawal(ctx context.Context, actor entities.Principal, withdrawalID int64, approve bool, notes string) (*entities.WithdrawalDecisionResult, error) {
	if err := canReview(actor); err != nil {
		return nil, err
	}

	var result *entities.WithdrawalDecisionResult

	err := execute(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		withdrawal, err := uow.WithdrawalRepository().GetByIDForUpdate(ctx, withdrawalID)
		if err != nil {
			return err
		}
		if withdrawal == nil {
			return domain.NewError(domain.CodeNotFound, "withdrawal %d not found", withdrawalID)
		}
		if withdrawal.Status != entities.ReviewStatusPending {
			return domain.NewError(domain.CodeAlreadySettled, "withdrawal %d already reviewed", withdrawalID)
		}

		main := entities.AccountRef{UserID: withdrawal.UserID, Kind: entities.WalletMain}
		if _, err := lockWallets(ctx, uow.WalletRepository(), main); err != nil {
			return err
		}

		var entry *entities.LedgerEntry
		var newBalance int64

		if approve {
			if err := uow.WithdrawalRepository().Review(ctx, withdrawalID, entities.ReviewStatusApproved, actor.UserID, notes); err != nil {
				return err
			}
			withdrawal.Status = entities.ReviewStatusApproved

			// The held funds leave the system; main was already debited
			// at request time, so no wallet delta here.
			entry = utils.NewEntry(entities.EntryKindWithdrawal, &main, nil, withdrawal.Amount, "withdrawal approved", &actor.UserID)
			entry.Metadata = map[string]any{"withdrawal_id": withdrawal.ID, "reference": withdrawal.Reference.String()}
			if err := utils.RecordEntry(ctx, uow.LedgerEntryRepository(), uow.EventBus(), entry); err != nil {
				return err
			}

			wallet, err := uow.WalletRepository().Get(ctx, main.UserID, main.Kind)
			if err != nil {
				return err
			}
			newBalance = wallet.Balance
		} else {
			if err := uow.WithdrawalRepository().Review(ctx, withdrawalID, entities.ReviewStatusRejected, actor.UserID, notes); err != nil {
				return err
			}
			withdrawal.Status = entities.ReviewStatusRejected

			// Refund the hold placed at request time
			newBalance, err = uow.WalletRepository().ApplyDelta(ctx, main.UserID, main.Kind, withdrawal.Amount)
			if err != nil {
				return err
			}
		}
		withdrawal.ReviewedBy = &actor.UserID
		withdrawal.ReviewNotes = notes

		if err := uow.EventBus().Publish(events.WithdrawalDecidedEvent{
			WithdrawalID: withdrawal.ID,
			UserID:       withdrawal.UserID,
			Amount:       withdrawal.Amount,
			Approved:     approve,
		}); err != nil {
			log.WithError(err).Error("Failed to publish withdrawal decided event")
		}

		result = &entities.WithdrawalDecisionResult{
			Withdrawal:     withdrawal,
			Entry:          entry,
			NewMainBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"withdrawalID": withdrawalID,
		"approved":     approve,
		"actorID":      actor.UserID,
	}).Info("Withdrawal decided")
	return result, nil
}

func (s *paymentService) ListDeposits(ctx context.Context, principal entities.Principal, status *entities.ReviewStatus, limit int) ([]*entities.Deposit, error) {
	var deposits []*entities.Deposit

	err := runOnce(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		visible, err := visibleUserIDs(ctx, uow.UserRepository(), principal)
		if err != nil {
			return err
		}
		deposits, err = uow.DepositRepository().ListByUsers(ctx, visible, status, limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	return deposits, nil
}

func (s *paymentService) ListWithdrawals(ctx context.Context, principal entities.Principal, status *entities.ReviewStatus, limit int) ([]*entities.Withdrawal, error) {
	var withdrawals []*entities.Withdrawal

	err := runOnce(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		visible, err := visibleUserIDs(ctx, uow.UserRepository(), principal)
		if err != nil {
			return err
		}
		withdrawals, err = uow.WithdrawalRepository().ListByUsers(ctx, visible, status, limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	return withdrawals, nil
}
