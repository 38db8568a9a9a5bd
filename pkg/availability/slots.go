package availability

import (
	"fmt"
	"time"

	"acenumerik.fr/models"
)

// Interval is a half-open occupied range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) on(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, day.Location())
}

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// BusinessHours is the daily bookable window and the grid candidate starts are placed on.
type BusinessHours struct {
	Open  Clock
	Close Clock
	Step  time.Duration
}

// DefaultBusinessHours is 09:00-17:00 on a 30 minute grid.
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{Open: Clock{Hour: 9}, Close: Clock{Hour: 17}, Step: 30 * time.Minute}
}

// NewBusinessHours parses "HH:MM" bounds.
func NewBusinessHours(open, closing string, step time.Duration) (BusinessHours, error) {
	o, err := ParseClock(open)
	if err != nil {
		return BusinessHours{}, err
	}
	c, err := ParseClock(closing)
	if err != nil {
		return BusinessHours{}, err
	}
	if step <= 0 {
		return BusinessHours{}, fmt.Errorf("slot step must be positive, got %s", step)
	}
	if c.Hour*60+c.Minute <= o.Hour*60+o.Minute {
		return BusinessHours{}, fmt.Errorf("closing time %s must be after opening time %s", c, o)
	}
	return BusinessHours{Open: o, Close: c, Step: step}, nil
}

// Window returns the open and close instants on the calendar day of day,
// interpreted in day's location.
func (h BusinessHours) Window(day time.Time) (time.Time, time.Time) {
	return h.Open.on(day), h.Close.on(day)
}

// Generate lists every candidate slot of the given duration on day, in
// chronological order. Starts are placed on the grid from opening time; a
// candidate whose end falls after closing time is dropped. A slot is
// unavailable iff it overlaps one of busy; touching endpoints do not overlap.
// The result is never nil, so it always encodes as a JSON array.
func Generate(day time.Time, duration time.Duration, hours BusinessHours, busy []Interval) []models.TimeSlot {
	slots := []models.TimeSlot{}
	if duration <= 0 || hours.Step <= 0 {
		return slots
	}
	open, closing := hours.Window(day)

	for start := open; !start.Add(duration).After(closing); start = start.Add(hours.Step) {
		end := start.Add(duration)
		slots = append(slots, models.TimeSlot{
			ID:        SlotID(start),
			StartTime: start,
			EndTime:   end,
			Available: !overlapsAny(start, end, busy),
		})
	}
	return slots
}

// SlotID is stable for a given start instant.
func SlotID(start time.Time) string {
	return start.Format("20060102-1504")
}

// Overlaps reports strict intersection of [aStart,aEnd) and [bStart,bEnd).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
