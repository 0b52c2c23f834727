package services

import (
	"context"

	"karnalix/domain"
	"karnalix/domain/entities"
	"karnalix/domain/events"
	"karnalix/domain/interfaces"
	"karnalix/domain/utils"

	log "github.com/sirupsen/logrus"
)

type bettingService struct {
	uowFactory  interfaces.UnitOfWorkFactory
	gameCatalog interfaces.GameCatalog
}

// NewBettingService creates a new betting service
func NewBettingService(uowFactory interfaces.UnitOfWorkFactory, gameCatalog interfaces.GameCatalog) interfaces.BettingService {
	return &bettingService{
		uowFactory:  uowFactory,
		gameCatalog: gameCatalog,
	}
}

func (s *bettingService) PlaceBet(ctx context.Context, principal entities.Principal, gameID string, stake, potentialWin int64) (*entities.PlaceBetResult, error) {
	if err := validateAmount(stake); err != nil {
		return nil, err
	}
	if potentialWin <= 0 {
		return nil, domain.NewError(domain.CodeInvalidAmount, "potential win must be positive, got %d", potentialWin)
	}

	game, err := s.gameCatalog.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil || !game.Active {
		return nil, domain.NewError(domain.CodeNotFound, "game %q not found", gameID)
	}
	if !game.AllowsStake(stake) {
		return nil, domain.NewError(domain.CodeInvalidAmount,
			"stake %d outside game bounds [%d, %d]", stake, game.MinBet, game.MaxBet)
	}

	var result *entities.PlaceBetResult

	err = execute(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		from := entities.AccountRef{UserID: principal.UserID, Kind: entities.WalletMain}
		to := entities.AccountRef{UserID: principal.UserID, Kind: entities.WalletLocked}
		if _, err := lockWallets(ctx, uow.WalletRepository(), from, to); err != nil {
			return err
		}

		if _, _, err := moveFunds(ctx, uow.WalletRepository(), from, to, stake); err != nil {
			return err
		}

		bet := &entities.Bet{
			UserID:       principal.UserID,
			GameID:       gameID,
			Stake:        stake,
			PotentialWin: potentialWin,
			Status:       entities.BetStatusPending,
		}
		if err := uow.BetRepository().Create(ctx, bet); err != nil {
			return err
		}

		entry := utils.NewEntry(entities.EntryKindBetStake, &from, &to, stake, "bet stake escrow", &principal.UserID)
		entry.Metadata = map[string]any{"bet_id": bet.ID, "game_id": gameID}
		if err := utils.RecordEntry(ctx, uow.LedgerEntryRepository(), uow.EventBus(), entry); err != nil {
			return err
		}

		if err := uow.EventBus().Publish(events.BetPlacedEvent{
			BetID:        bet.ID,
			UserID:       principal.UserID,
			GameID:       gameID,
			Stake:        stake,
			PotentialWin: potentialWin,
		}); err != nil {
			log.WithError(err).Error("Failed to publish bet placed event")
		}

		balances, err := uow.WalletRepository().GetBalances(ctx, principal.UserID)
		if err != nil {
			return err
		}

		result = &entities.PlaceBetResult{Bet: bet, Entry: entry, Balances: balances}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"betID":  result.Bet.ID,
		"userID": principal.UserID,
		"gameID": gameID,
		"stake":  stake,
	}).Info("Placed bet")
	return result, nil
}

func (s *bettingService) SettleBet(ctx context.Context, actor entities.Principal, betID int64, outcome entities.BetOutcome, winAmount int64) (*entities.SettleBetResult, error) {
	if err := canReview(actor); err != nil {
		return nil, err
	}
	switch outcome {
	case entities.BetOutcomeWon:
		if winAmount <= 0 {
			return nil, domain.NewError(domain.CodeInvalidAmount, "win amount must be positive, got %d", winAmount)
		}
	case entities.BetOutcomeLost:
		if winAmount != 0 {
			return nil, domain.NewError(domain.CodeInvalidAmount, "lost bet cannot carry a win amount")
		}
	default:
		return nil, domain.NewError(domain.CodeNotFound, "unknown outcome %q", outcome)
	}

	var result *entities.SettleBetResult

	err := execute(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		bet, err := uow.BetRepository().GetByIDForUpdate(ctx, betID)
		if err != nil {
			return err
		}
		if bet == nil {
			return domain.NewError(domain.CodeNotFound, "bet %d not found", betID)
		}
		if bet.IsSettled() {
			return domain.NewError(domain.CodeAlreadySettled, "bet %d already settled as %s", betID, bet.Status)
		}

		locked := entities.AccountRef{UserID: bet.UserID, Kind: entities.WalletLocked}
		main := entities.AccountRef{UserID: bet.UserID, Kind: entities.WalletMain}
		if _, err := lockWallets(ctx, uow.WalletRepository(), locked, main); err != nil {
			return err
		}

		var entry *entities.LedgerEntry
		betMeta := map[string]any{"bet_id": bet.ID, "game_id": bet.GameID}

		switch outcome {
		case entities.BetOutcomeWon:
			if err := uow.BetRepository().Settle(ctx, betID, entities.BetStatusWon, winAmount); err != nil {
				return err
			}
			bet.Status = entities.BetStatusWon
			bet.ActualWin = winAmount

			// Release the escrowed stake back to main, then issue the winnings
			if _, _, err := moveFunds(ctx, uow.WalletRepository(), locked, main, bet.Stake); err != nil {
				return err
			}
			release := utils.NewEntry(entities.EntryKindBetRefund, &locked, &main, bet.Stake, "stake release on win", &actor.UserID)
			release.Metadata = betMeta
			if err := utils.RecordEntry(ctx, uow.LedgerEntryRepository(), uow.EventBus(), release); err != nil {
				return err
			}

			if _, err := uow.WalletRepository().ApplyDelta(ctx, main.UserID, main.Kind, winAmount); err != nil {
				return err
			}
			entry = utils.NewEntry(entities.EntryKindBetWin, nil, &main, winAmount, "bet winnings", &actor.UserID)
			entry.Metadata = betMeta
			if err := utils.RecordEntry(ctx, uow.LedgerEntryRepository(), uow.EventBus(), entry); err != nil {
				return err
			}

		case entities.BetOutcomeLost:
			if err := uow.BetRepository().Settle(ctx, betID, entities.BetStatusLost, 0); err != nil {
				return err
			}
			bet.Status = entities.BetStatusLost
			bet.ActualWin = 0

			// The escrowed stake leaves the user's holdings
			if _, err := uow.WalletRepository().ApplyDelta(ctx, locked.UserID, locked.Kind, -bet.Stake); err != nil {
				return err
			}
			entry = utils.NewEntry(entities.EntryKindBetLoss, &locked, nil, bet.Stake, "bet stake lost", &actor.UserID)
			entry.Metadata = betMeta
			if err := utils.RecordEntry(ctx, uow.LedgerEntryRepository(), uow.EventBus(), entry); err != nil {
				return err
			}
		}

		if err := uow.EventBus().Publish(events.BetSettledEvent{
			BetID:     bet.ID,
			UserID:    bet.UserID,
			Status:    bet.Status,
			Stake:     bet.Stake,
			ActualWin: bet.ActualWin,
		}); err != nil {
			log.WithError(err).Error("Failed to publish bet settled event")
		}

		balances, err := uow.WalletRepository().GetBalances(ctx, bet.UserID)
		if err != nil {
			return err
		}

		result = &entities.SettleBetResult{Bet: bet, Entry: entry, Balances: balances}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"betID":   betID,
		"outcome": outcome,
		"actorID": actor.UserID,
	}).Info("Settled bet")
	return result, nil
}

func (s *bettingService) CancelBet(ctx context.Context, actor entities.Principal, betID int64, reason string) (*entities.SettleBetResult, error) {
	if err := canReview(actor); err != nil {
		return nil, err
	}

	var result *entities.SettleBetResult

	err := execute(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		bet, err := uow.BetRepository().GetByIDForUpdate(ctx, betID)
		if err != nil {
			return err
		}
		if bet == nil {
			return domain.NewError(domain.CodeNotFound, "bet %d not found", betID)
		}
		if bet.IsSettled() {
			return domain.NewError(domain.CodeAlreadySettled, "bet %d already settled as %s", betID, bet.Status)
		}

		locked := entities.AccountRef{UserID: bet.UserID, Kind: entities.WalletLocked}
		main := entities.AccountRef{UserID: bet.UserID, Kind: entities.WalletMain}
		if _, err := lockWallets(ctx, uow.WalletRepository(), locked, main); err != nil {
			return err
		}

		if err := uow.BetRepository().Settle(ctx, betID, entities.BetStatusCancelled, 0); err != nil {
			return err
		}
		bet.Status = entities.BetStatusCancelled

		if _, _, err := moveFunds(ctx, uow.WalletRepository(), locked, main, bet.Stake); err != nil {
			return err
		}

		entry := utils.NewEntry(entities.EntryKindBetRefund, &locked, &main, bet.Stake, reason, &actor.UserID)
		entry.Metadata = map[string]any{"bet_id": bet.ID, "game_id": bet.GameID}
		if err := utils.RecordEntry(ctx, uow.LedgerEntryRepository(), uow.EventBus(), entry); err != nil {
			return err
		}

		if err := uow.EventBus().Publish(events.BetSettledEvent{
			BetID:  bet.ID,
			UserID: bet.UserID,
			Status: bet.Status,
			Stake:  bet.Stake,
		}); err != nil {
			log.WithError(err).Error("Failed to publish bet settled event")
		}

		balances, err := uow.WalletRepository().GetBalances(ctx, bet.UserID)
		if err != nil {
			return err
		}

		result = &entities.SettleBetResult{Bet: bet, Entry: entry, Balances: balances}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"betID":   betID,
		"actorID": actor.UserID,
	}).Info("Cancelled bet")
	return result, nil
}

func (s *bettingService) ListBets(ctx context.Context, principal entities.Principal, status *entities.BetStatus, limit int) ([]*entities.Bet, error) {
	var bets []*entities.Bet

	err := runOnce(ctx, s.uowFactory, func(uow interfaces.UnitOfWork) error {
		visible, err := visibleUserIDs(ctx, uow.UserRepository(), principal)
		if err != nil {
			return err
		}
		bets, err = uow.BetRepository().ListByUsers(ctx, visible, status, limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	return bets, nil
}
