package infrastructure

import (
	"context"

	"karnalix/domain/entities"
)

// StaticGameCatalog serves game definitions from an in-memory table.
// The betting service only needs stake limits and an active flag per
// game, so a fixed catalog loaded at startup is sufficient until games
// are managed externally.
type StaticGameCatalog struct {
	games map[string]*entities.Game
}

// NewStaticGameCatalog creates a catalog from the given games
func NewStaticGameCatalog(games []entities.Game) *StaticGameCatalog {
	byID := make(map[string]*entities.Game, len(games))
	for i := range games {
		byID[games[i].ID] = &games[i]
	}
	return &StaticGameCatalog{games: byID}
}

// DefaultGameCatalog returns a catalog with the built-in game set
func DefaultGameCatalog() *StaticGameCatalog {
	return NewStaticGameCatalog([]entities.Game{
		{ID: "dice", Name: "Dice", MinBet: 100, MaxBet: 1_000_000, Active: true},
		{ID: "crash", Name: "Crash", MinBet: 100, MaxBet: 5_000_000, Active: true},
		{ID: "roulette", Name: "Roulette", MinBet: 500, MaxBet: 10_000_000, Active: true},
	})
}

// GetGame returns the game with the given ID, or nil if unknown
func (c *StaticGameCatalog) GetGame(ctx context.Context, gameID string) (*entities.Game, error) {
	game, ok := c.games[gameID]
	if !ok {
		return nil, nil
	}
	return game, nil
}
