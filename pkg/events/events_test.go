package events

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewFillsEnvelope(t *testing.T) {
	e := New(AppointmentBooked, "42", map[string]int{"typeId": 1})
	if e.ID == "" || e.Type != AppointmentBooked || e.AggregateID != "42" || e.OccurredAt.IsZero() {
		t.Fatalf("incomplete envelope: %+v", e)
	}
	if New(AppointmentBooked, "42", nil).ID == e.ID {
		t.Fatalf("event ids must be unique")
	}
}

func TestLogPublisherWritesStructuredEntry(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))
	if err := p.Publish(context.Background(), New(LeadCreated, "7", nil)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	entries := logs.FilterField(zap.String("type", LeadCreated)).All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
}
