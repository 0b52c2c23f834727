package interfaces

import (
	"context"

	"karnalix/domain/entities"
)

// GameCatalog supplies per-game bet bounds. Catalog management is owned
// by an external collaborator; the ledger only reads it.
type GameCatalog interface {
	// GetGame returns the game configuration, or NotFound for unknown
	// or inactive games
	GetGame(ctx context.Context, gameID string) (*entities.Game, error)
}

// KycVerifier reports whether a user has cleared KYC review. Document
// review itself is owned by an external collaborator.
type KycVerifier interface {
	IsWithdrawalEligible(ctx context.Context, userID int64) (bool, error)
}
