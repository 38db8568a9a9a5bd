package services

import (
	"context"
	"strconv"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/pkg/events"

	"go.uber.org/zap"
)

// publish never fails the caller: the database row is the source of truth.
func publish(ctx context.Context, publisher events.Publisher, eventType string, id uint, payload any) {
	if publisher == nil {
		return
	}
	e := events.New(eventType, strconv.FormatUint(uint64(id), 10), payload)
	if err := publisher.Publish(ctx, e); err != nil {
		configslog.Log.Warn("Event publish failed",
			zap.String("type", eventType), zap.Uint("aggregateID", id), zap.Error(err))
	}
}
