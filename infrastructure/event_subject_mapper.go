package infrastructure

import (
	"fmt"

	"karnalix/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeEntryRecorded:
		return "ledger.entry.recorded"
	case events.EventTypeAccountCreated:
		return "accounts.created"
	case events.EventTypeBetPlaced:
		return "betting.placed"
	case events.EventTypeBetSettled:
		return "betting.settled"
	case events.EventTypeWithdrawalDecided:
		return "payments.withdrawal.decided"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "ledger.entry.recorded":
		return events.EventTypeEntryRecorded
	case "accounts.created":
		return events.EventTypeAccountCreated
	case "betting.placed":
		return events.EventTypeBetPlaced
	case "betting.settled":
		return events.EventTypeBetSettled
	case "payments.withdrawal.decided":
		return events.EventTypeWithdrawalDecided
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"ledger.entry.recorded",
		"accounts.created",
		"betting.placed",
		"betting.settled",
		"payments.withdrawal.decided",
	}
}
