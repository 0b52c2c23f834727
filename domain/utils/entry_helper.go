package utils

import (
	"context"
	"fmt"

	"karnalix/domain/entities"
	"karnalix/domain/events"
	"karnalix/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// NewEntry builds a ledger entry with a fresh reference. All fields the
// repository fills in (ID, CreatedAt) are left zero.
func NewEntry(kind entities.EntryKind, from, to *entities.AccountRef, amount int64, description string, createdBy *int64) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		Reference:   uuid.New(),
		From:        from,
		To:          to,
		Amount:      amount,
		Kind:        kind,
		Status:      entities.EntryStatusCompleted,
		Description: description,
		CreatedBy:   createdBy,
	}
}

// RecordEntry appends a ledger entry and emits the entry-recorded event.
// This is the single write path into the audit trail: every value
// movement in the system flows through here.
func RecordEntry(ctx context.Context, entryRepo interfaces.LedgerEntryRepository, eventPublisher interfaces.EventPublisher, entry *entities.LedgerEntry) error {
	if err := entryRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	event := events.EntryRecordedEvent{
		EntryID:   entry.ID,
		Reference: entry.Reference.String(),
		Kind:      entry.Kind,
		Amount:    entry.Amount,
		From:      entry.From,
		To:        entry.To,
	}
	log.WithFields(log.Fields{
		"entryID": event.EntryID,
		"kind":    event.Kind,
		"amount":  event.Amount,
		"from":    refString(entry.From),
		"to":      refString(entry.To),
	}).Debug("Publishing EntryRecordedEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish entry recorded event")
	}

	return nil
}

func refString(ref *entities.AccountRef) string {
	if ref == nil {
		return "system"
	}
	return ref.String()
}
