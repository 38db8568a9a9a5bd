package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/availability"
	"acenumerik.fr/pkg/slotcache"
	"acenumerik.fr/repositories"
	"acenumerik.fr/utils"

	"go.uber.org/zap"
)

// AvailabilityServiceError is the error family of slot generation.
type AvailabilityServiceError string

func (e AvailabilityServiceError) Error() string { return string(e) }

const (
	ErrAppointmentTypeNotFound AvailabilityServiceError = "type de rendez-vous introuvable"
	ErrInvalidDate             AvailabilityServiceError = "date invalide, format attendu AAAA-MM-JJ"
	ErrAvailabilityFailed      AvailabilityServiceError = "les disponibilités n'ont pas pu être calculées"
)

// IAvailabilityService lists the bookable slots of a day.
type IAvailabilityService interface {
	// GenerateSlots returns every candidate slot of the type on date
	// (YYYY-MM-DD), unavailable ones included.
	GenerateSlots(ctx context.Context, date string, typeID uint) ([]models.TimeSlot, error)
	// SlotsFor is GenerateSlots with an already resolved type. It reads the
	// database directly and never touches the cache.
	SlotsFor(ctx context.Context, day time.Time, appointmentType models.AppointmentType) ([]models.TimeSlot, error)
	BusinessHours() availability.BusinessHours
	Location() *time.Location
	// Invalidate drops the memoized slots of date (YYYY-MM-DD).
	Invalidate(ctx context.Context, date string)
}

var _ IAvailabilityService = (*AvailabilityService)(nil)

// AvailabilityService computes slots from the appointment table and
// memoizes them for a few seconds.
type AvailabilityService struct {
	types        repositories.IBaseRepository[models.AppointmentType]
	appointments repositories.IAppointmentRepository
	hours        availability.BusinessHours
	loc          *time.Location
	cache        slotcache.Cache
	now          func() time.Time
}

// NewAvailabilityService wires the service. A nil loc means UTC and a nil
// cache disables memoization.
func NewAvailabilityService(
	types repositories.IBaseRepository[models.AppointmentType],
	appointments repositories.IAppointmentRepository,
	hours availability.BusinessHours,
	loc *time.Location,
	cache slotcache.Cache,
) *AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	if cache == nil {
		cache = slotcache.Noop{}
	}
	return &AvailabilityService{types: types, appointments: appointments, hours: hours, loc: loc, cache: cache, now: time.Now}
}

// WithClock replaces time.Now, for tests.
func (s *AvailabilityService) WithClock(now func() time.Time) *AvailabilityService {
	s.now = now
	return s
}

// BusinessHours returns the configured opening window and grid step.
func (s *AvailabilityService) BusinessHours() availability.BusinessHours { return s.hours }

// Location returns the business timezone dates are interpreted in.
func (s *AvailabilityService) Location() *time.Location { return s.loc }

// GenerateSlots returns ErrInvalidDate for a malformed date and
// ErrAppointmentTypeNotFound for an unknown or inactive type.
func (s *AvailabilityService) GenerateSlots(ctx context.Context, date string, typeID uint) ([]models.TimeSlot, error) {
	day, err := utils.ParseDate(date, s.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}
	// The type is resolved on every call so a deactivated or deleted type
	// stops answering at once, cached or not.
	appointmentType, err := s.resolveType(ctx, typeID)
	if err != nil {
		return nil, err
	}

	key := slotcache.Key(day.Format(utils.DateLayout), typeID)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return s.markStarted(append([]models.TimeSlot(nil), cached...)), nil
	}
	slots, err := s.SlotsFor(ctx, day, *appointmentType)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, slots)
	return slots, nil
}

// SlotsFor marks a slot unavailable when it overlaps an occupying
// appointment or has already started.
func (s *AvailabilityService) SlotsFor(ctx context.Context, day time.Time, appointmentType models.AppointmentType) ([]models.TimeSlot, error) {
	from, to := utils.DayBounds(day, s.loc)
	occupying, err := s.appointments.FindOccupying(ctx, from, to)
	if err != nil {
		configslog.Log.Error("Availability lookup failed",
			zap.Time("day", from), zap.Uint("typeID", appointmentType.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityFailed, err)
	}
	busy := make([]availability.Interval, 0, len(occupying))
	for _, a := range occupying {
		if !a.Status.OccupiesSlot() {
			continue
		}
		busy = append(busy, availability.Interval{Start: a.StartTime, End: a.EndTime})
	}
	return s.markStarted(availability.Generate(from, appointmentType.Duration(), s.hours, busy)), nil
}

// markStarted runs on cache hits too, since a memoized grid ages.
func (s *AvailabilityService) markStarted(slots []models.TimeSlot) []models.TimeSlot {
	now := s.now()
	for i := range slots {
		if !slots[i].StartTime.After(now) {
			slots[i].Available = false
		}
	}
	return slots
}

// Invalidate drops the memoized slots of every type on date.
func (s *AvailabilityService) Invalidate(ctx context.Context, date string) {
	s.cache.InvalidateDate(ctx, date)
}

func (s *AvailabilityService) resolveType(ctx context.Context, typeID uint) (*models.AppointmentType, error) {
	if typeID == 0 {
		return nil, ErrAppointmentTypeNotFound
	}
	appointmentType, err := s.types.FindByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentTypeNotFound
		}
		configslog.Log.Error("Appointment type lookup failed", zap.Uint("typeID", typeID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityFailed, err)
	}
	if !appointmentType.IsActive {
		return nil, ErrAppointmentTypeNotFound
	}
	return appointmentType, nil
}
