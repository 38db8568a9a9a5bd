// Package events publishes domain events to the message bus.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	AppointmentBooked        = "appointment.booked"
	AppointmentStatusChanged = "appointment.status_changed"
	AppointmentReminder      = "appointment.reminder"
	LeadCreated              = "lead.created"
	CVReceived               = "cv.received"
)

// Event is the envelope written to the bus as JSON.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	AggregateID string    `json:"aggregateId"`
	OccurredAt  time.Time `json:"occurredAt"`
	Payload     any       `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType, aggregateID string, payload any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}

// Publisher ships domain events. Callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}
