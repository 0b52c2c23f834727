package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBetStatus_IsTerminal(t *testing.T) {
	assert.False(t, BetStatusPending.IsTerminal())
	for _, status := range []BetStatus{BetStatusWon, BetStatusLost, BetStatusCancelled, BetStatusRefunded} {
		assert.True(t, status.IsTerminal(), "status %s should be terminal", status)
	}
}

func TestBet_NetProfit(t *testing.T) {
	won := &Bet{Stake: 100, ActualWin: 250, Status: BetStatusWon}
	assert.Equal(t, int64(250), won.NetProfit())

	lost := &Bet{Stake: 100, Status: BetStatusLost}
	assert.Equal(t, int64(-100), lost.NetProfit())

	cancelled := &Bet{Stake: 100, Status: BetStatusCancelled}
	assert.Equal(t, int64(0), cancelled.NetProfit())
}

func TestGame_AllowsStake(t *testing.T) {
	game := &Game{ID: "dice", MinBet: 100, MaxBet: 1000}
	assert.True(t, game.AllowsStake(100))
	assert.True(t, game.AllowsStake(1000))
	assert.False(t, game.AllowsStake(99))
	assert.False(t, game.AllowsStake(1001))
}
