package events

import (
	"karnalix/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeEntryRecorded     EventType = "entry_recorded"
	EventTypeAccountCreated    EventType = "account_created"
	EventTypeBetPlaced         EventType = "bet_placed"
	EventTypeBetSettled        EventType = "bet_settled"
	EventTypeWithdrawalDecided EventType = "withdrawal_decided"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// EntryRecordedEvent is emitted for every committed ledger entry
type EntryRecordedEvent struct {
	EntryID   int64
	Reference string
	Kind      entities.EntryKind
	Amount    int64
	From      *entities.AccountRef
	To        *entities.AccountRef
}

func (e EntryRecordedEvent) Type() EventType {
	return EventTypeEntryRecorded
}

// AccountCreatedEvent is emitted when a user and its wallet set are created
type AccountCreatedEvent struct {
	UserID    int64
	Username  string
	Role      entities.Role
	CreatedBy *int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// BetPlacedEvent is emitted when a stake has been escrowed
type BetPlacedEvent struct {
	BetID        int64
	UserID       int64
	GameID       string
	Stake        int64
	PotentialWin int64
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// BetSettledEvent is emitted when a bet reaches a terminal state
type BetSettledEvent struct {
	BetID     int64
	UserID    int64
	Status    entities.BetStatus
	Stake     int64
	ActualWin int64
}

func (e BetSettledEvent) Type() EventType {
	return EventTypeBetSettled
}

// WithdrawalDecidedEvent is emitted when an admin approves or rejects a withdrawal
type WithdrawalDecidedEvent struct {
	WithdrawalID int64
	UserID       int64
	Amount       int64
	Approved     bool
}

func (e WithdrawalDecidedEvent) Type() EventType {
	return EventTypeWithdrawalDecided
}
