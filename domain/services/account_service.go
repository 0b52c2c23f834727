package services

import (
	"context"
	"fmt"

	"karnalix/config"
	"karnalix/domain"
	"karnalix/domain/entities"
	"karnalix/domain/events"
	"karnalix/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type accountService struct {
	uowFactory    interfaces.UnitOfWorkFactory
	ledgerService interfaces.LedgerService
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory interfaces.UnitOfWorkFactory, ledgerService interfaces.LedgerService) interfaces.AccountService {
	return &accountService{
		uowFactory:    uowFactory,
		ledgerService: ledgerService,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, actor entities.Principal, username string, role entities.Role, referrerID *int64) (*entities.User, error) {
	if err := canCreateRole(actor, role); err != nil {
		return nil, err
	}
	if username == "" {
		return nil, fmt.Errorf("username must not be empty")
	}

	var user *entities.User

	err := execute(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		if referrerID != nil {
			referrer, err := uow.UserRepository().GetByID(ctx, *referrerID)
			if err != nil {
				return err
			}
			if referrer == nil {
				return domain.NewError(domain.CodeNotFound, "referrer %d not found", *referrerID)
			}
		}

		var err error
		user, err = uow.UserRepository().Create(ctx, username, role, &actor.UserID)
		if err != nil {
			return err
		}

		if err := uow.WalletRepository().CreateSet(ctx, user.ID); err != nil {
			return err
		}

		if err := uow.EventBus().Publish(events.AccountCreatedEvent{
			UserID:    user.ID,
			Username:  user.Username,
			Role:      user.Role,
			CreatedBy: user.CreatedBy,
		}); err != nil {
			log.WithError(err).Error("Failed to publish account created event")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":   user.ID,
		"username": username,
		"role":     role,
		"actorID":  actor.UserID,
	}).Info("Account created")

	// The referral reward is a separate ledger operation. A failure here
	// leaves the account intact and is only logged.
	reward := config.Get().ReferralReward
	if referrerID != nil && reward > 0 {
		if _, err := s.ledgerService.GrantReferralReward(ctx, *referrerID, user.ID, reward); err != nil {
			log.WithFields(log.Fields{
				"referrerID": *referrerID,
				"newUserID":  user.ID,
				"error":      err,
			}).Error("Failed to grant referral reward")
		}
	}

	return user, nil
}
