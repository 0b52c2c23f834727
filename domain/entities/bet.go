package entities

import (
	"time"
)

// BetStatus represents the lifecycle state of a bet
type BetStatus string

const (
	BetStatusPending   BetStatus = "pending"
	BetStatusWon       BetStatus = "won"
	BetStatusLost      BetStatus = "lost"
	BetStatusCancelled BetStatus = "cancelled"
	BetStatusRefunded  BetStatus = "refunded"
)

// IsTerminal returns true if no further transitions may leave this state
func (s BetStatus) IsTerminal() bool {
	return s != BetStatusPending
}

// BetOutcome is the result an admin assigns when settling a bet
type BetOutcome string

const (
	BetOutcomeWon  BetOutcome = "won"
	BetOutcomeLost BetOutcome = "lost"
)

// Bet represents a stake escrowed against a game round.
// Created in pending with the stake moved from main to locked; the three
// terminal transitions (won, lost, cancelled) release the escrow.
type Bet struct {
	ID           int64      `db:"id"`
	UserID       int64      `db:"user_id"`
	GameID       string     `db:"game_id"`
	Stake        int64      `db:"stake"`
	PotentialWin int64      `db:"potential_win"`
	ActualWin    int64      `db:"actual_win"`
	Status       BetStatus  `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	SettledAt    *time.Time `db:"settled_at"`
}

// IsSettled returns true if the bet has reached a terminal state
func (b *Bet) IsSettled() bool {
	return b.Status.IsTerminal()
}

// NetProfit returns the net effect of a settled bet on the user
func (b *Bet) NetProfit() int64 {
	switch b.Status {
	case BetStatusWon:
		return b.ActualWin
	case BetStatusLost:
		return -b.Stake
	default:
		return 0
	}
}

// Game is the per-game configuration supplied by the external game catalog
type Game struct {
	ID     string
	Name   string
	MinBet int64
	MaxBet int64
	Active bool
}

// AllowsStake returns true if stake is within the game's configured bounds
func (g *Game) AllowsStake(stake int64) bool {
	return stake >= g.MinBet && stake <= g.MaxBet
}
