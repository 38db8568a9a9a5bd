package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	log *zap.Logger
}

// NewLogPublisher writes events to log.
func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.log.Info("domain event",
		zap.String("id", e.ID),
		zap.String("type", e.Type),
		zap.String("aggregate_id", e.AggregateID),
		zap.Any("payload", e.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

var _ Publisher = (*LogPublisher)(nil)
