package services

import (
	"context"
	"fmt"
	"time"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/events"
	"acenumerik.fr/repositories"
	"acenumerik.fr/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// IReminderService announces the next day's confirmed appointments.
type IReminderService interface {
	SendNextDayReminders(ctx context.Context, now time.Time) (int, error)
	Schedule(c *cron.Cron, spec string) (cron.EntryID, error)
}

// ReminderService sends the day-before reminders.
type ReminderService struct {
	repo      repositories.IAppointmentRepository
	publisher events.Publisher
	loc       *time.Location
}

// NewReminderService computes "tomorrow" in loc. publisher may be nil.
func NewReminderService(repo repositories.IAppointmentRepository, publisher events.Publisher, loc *time.Location) IReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{repo: repo, publisher: publisher, loc: loc}
}

// SendNextDayReminders publishes one reminder per confirmed appointment of
// the calendar day after now. Appointments already reminded are skipped, so
// running it twice is harmless.
func (s *ReminderService) SendNextDayReminders(ctx context.Context, now time.Time) (int, error) {
	_, from := utils.DayBounds(now, s.loc)
	to := from.AddDate(0, 0, 1)

	appointments, err := s.repo.FindByStatusBetween(ctx, models.AppointmentConfirmed, from, to)
	if err != nil {
		return 0, fmt.Errorf("load confirmed appointments: %w", err)
	}

	sent := 0
	for _, a := range appointments {
		if a.ReminderSentAt != nil {
			continue
		}
		e := events.New(events.AppointmentReminder, fmt.Sprint(a.ID), bookingPayload(a))
		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, e); err != nil {
				configslog.Log.Warn("Reminder publish failed", zap.Uint("appointmentID", a.ID), zap.Error(err))
				continue
			}
		}
		if err := s.repo.MarkReminderSent(ctx, a.ID, now.UTC()); err != nil {
			configslog.Log.Error("Reminder flag update failed", zap.Uint("appointmentID", a.ID), zap.Error(err))
			continue
		}
		sent++
	}
	configslog.SLog.Infof("Reminders sent for %s: %d/%d", from.Format(utils.DateLayout), sent, len(appointments))
	return sent, nil
}

// Schedule registers the reminder sweep on c with a cron expression.
func (s *ReminderService) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.SendNextDayReminders(ctx, time.Now()); err != nil {
			configslog.Log.Error("Reminder job failed", zap.Error(err))
		}
	})
}
