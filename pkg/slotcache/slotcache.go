// Package slotcache memoizes generated slot lists for a few seconds. It is a
// load shedder for the public booking widget, not a source of truth: writers
// invalidate the affected day and a miss always recomputes.
package slotcache

import (
	"context"
	"fmt"
	"strings"

	"acenumerik.fr/models"
)

const keyPrefix = "slots:"

// Cache stores generated slots by Key. Failures degrade to misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.TimeSlot, bool)
	Set(ctx context.Context, key string, slots []models.TimeSlot)
	// InvalidateDate drops every entry of the given YYYY-MM-DD day.
	InvalidateDate(ctx context.Context, date string)
}

// Key identifies the slots of one appointment type on one day.
func Key(date string, typeID uint) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, date, typeID)
}

func datePrefix(date string) string {
	return keyPrefix + date + ":"
}

func hasDate(key, date string) bool {
	return strings.HasPrefix(key, datePrefix(date))
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]models.TimeSlot, bool) { return nil, false }
func (Noop) Set(context.Context, string, []models.TimeSlot)        {}
func (Noop) InvalidateDate(context.Context, string)                {}

var _ Cache = Noop{}
