package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"acenumerik.fr/models"
	"acenumerik.fr/pkg/availability"
	"acenumerik.fr/pkg/events"
	"acenumerik.fr/pkg/slotcache"
)

var testNow = time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

type bookingFixture struct {
	types        *fakeRepo[models.AppointmentType, *models.AppointmentType]
	appointments *fakeAppointmentRepo
	leads        *fakeLeadRepo
	publisher    *fakePublisher
	tx           *fakeTransactor
	availability IAvailabilityService
	service      *AppointmentService
}

func newBookingFixture(t *testing.T, existing ...models.Appointment) *bookingFixture {
	t.Helper()
	f := &bookingFixture{
		types: newFakeRepo[models.AppointmentType](models.AppointmentType{
			Name: "Audit", DurationMinutes: 60, IsActive: true,
		}),
		appointments: newFakeAppointmentRepo(existing...),
		leads:        &fakeLeadRepo{},
		publisher:    &fakePublisher{},
		tx:           &fakeTransactor{},
	}
	f.availability = NewAvailabilityService(f.types, f.appointments, availability.DefaultBusinessHours(), time.UTC,
		slotcache.NewMemoryCache(16, time.Minute)).
		WithClock(func() time.Time { return testNow })
	f.service = NewAppointmentService(f.appointments, f.types, f.availability, f.tx,
		NewLeadService(f.leads, f.publisher), f.publisher).
		WithClock(func() time.Time { return testNow })
	return f
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 15, hour, minute, 0, 0, time.UTC)
}

func confirmedAt(hour int) models.Appointment {
	return models.Appointment{
		Name: "Existing", Email: "existing@example.com", TypeID: 1,
		StartTime: at(hour, 0), EndTime: at(hour+1, 0), Status: models.AppointmentConfirmed,
	}
}

func request(start string) BookingRequest {
	return BookingRequest{TypeID: 1, Date: "2024-03-15", StartTime: start, Name: "Camille", Email: "Camille@Example.com"}
}

func TestGenerateSlotsExampleScenario(t *testing.T) {
	f := newBookingFixture(t, confirmedAt(10))

	slots, err := f.availability.GenerateSlots(context.Background(), "2024-03-15", 1)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) != 15 {
		t.Fatalf("got %d slots, want 15", len(slots))
	}
	byStart := map[string]bool{}
	for _, s := range slots {
		byStart[s.StartTime.Format("15:04")] = s.Available
	}
	want := map[string]bool{"09:00": true, "09:30": false, "10:00": false, "10:30": false, "11:00": true, "16:00": true}
	for start, available := range want {
		got, ok := byStart[start]
		if !ok {
			t.Fatalf("missing slot %s", start)
		}
		if got != available {
			t.Errorf("slot %s available = %v, want %v", start, got, available)
		}
	}
	if _, ok := byStart["16:30"]; ok {
		t.Error("slot at 16:30 would end after closing")
	}
}

func TestGenerateSlotsUnknownType(t *testing.T) {
	f := newBookingFixture(t)
	if _, err := f.availability.GenerateSlots(context.Background(), "2024-03-15", 42); !errors.Is(err, ErrAppointmentTypeNotFound) {
		t.Fatalf("err = %v, want ErrAppointmentTypeNotFound", err)
	}
	if _, err := f.availability.GenerateSlots(context.Background(), "15/03/2024", 1); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
}

func deactivateType(t *testing.T, f *bookingFixture, id uint) {
	t.Helper()
	appointmentType, err := f.types.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find type %d: %v", id, err)
	}
	appointmentType.IsActive = false
	if err := f.types.Update(context.Background(), appointmentType); err != nil {
		t.Fatalf("deactivate type %d: %v", id, err)
	}
}

func TestGenerateSlotsInactiveTypeIsNotFound(t *testing.T) {
	f := newBookingFixture(t)
	deactivateType(t, f, 1)

	slots, err := f.availability.GenerateSlots(context.Background(), "2024-03-15", 1)
	if !errors.Is(err, ErrAppointmentTypeNotFound) {
		t.Fatalf("err = %v, want ErrAppointmentTypeNotFound", err)
	}
	if slots != nil {
		t.Fatalf("inactive type returned %d slots", len(slots))
	}
	if _, err := f.service.Book(context.Background(), request("09:00")); !errors.Is(err, ErrAppointmentTypeNotFound) {
		t.Fatalf("Book err = %v, want ErrAppointmentTypeNotFound", err)
	}
}

func TestGenerateSlotsCacheDoesNotOutliveDeactivation(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	if _, err := f.availability.GenerateSlots(ctx, "2024-03-15", 1); err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	deactivateType(t, f, 1)
	if _, err := f.availability.GenerateSlots(ctx, "2024-03-15", 1); !errors.Is(err, ErrAppointmentTypeNotFound) {
		t.Fatalf("memoized slots served for a deactivated type: err = %v", err)
	}
	if f.appointments.occupyingHits != 1 {
		t.Fatalf("database hit %d times, want 1", f.appointments.occupyingHits)
	}
}

func TestGenerateSlotsMarksStartedSlotsUnavailable(t *testing.T) {
	f := newBookingFixture(t)
	f.availability.(*AvailabilityService).WithClock(func() time.Time { return at(10, 15) })

	slots, err := f.availability.GenerateSlots(context.Background(), "2024-03-15", 1)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	for _, s := range slots {
		started := !s.StartTime.After(at(10, 15))
		if s.Available == started {
			t.Errorf("slot %s available = %v, started = %v", s.StartTime.Format("15:04"), s.Available, started)
		}
	}
	if len(slots) != 15 {
		t.Fatalf("got %d slots, want 15 with past ones kept as unavailable", len(slots))
	}
}

func TestGenerateSlotsCachedGridFollowsClock(t *testing.T) {
	f := newBookingFixture(t)
	now := at(8, 0)
	f.availability.(*AvailabilityService).WithClock(func() time.Time { return now })

	first, err := f.availability.GenerateSlots(context.Background(), "2024-03-15", 1)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	for _, s := range first {
		if !s.Available {
			t.Fatalf("slot %s unavailable before opening", s.StartTime.Format("15:04"))
		}
	}

	now = at(10, 15)
	second, err := f.availability.GenerateSlots(context.Background(), "2024-03-15", 1)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if f.appointments.occupyingHits != 1 {
		t.Fatalf("database hit %d times, want 1", f.appointments.occupyingHits)
	}
	for _, s := range second {
		if started := !s.StartTime.After(now); s.Available == started {
			t.Errorf("cached slot %s available = %v, started = %v", s.StartTime.Format("15:04"), s.Available, started)
		}
	}
	if !first[0].Available {
		t.Fatal("earlier result was modified through the cache")
	}
}

func TestGenerateSlotsIgnoresCanceled(t *testing.T) {
	canceled := confirmedAt(10)
	canceled.Status = models.AppointmentCanceled
	f := newBookingFixture(t, canceled)

	slots, err := f.availability.GenerateSlots(context.Background(), "2024-03-15", 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range slots {
		if !s.Available {
			t.Fatalf("slot %s blocked by a canceled appointment", s.ID)
		}
	}
}

func TestGenerateSlotsUsesCacheUntilInvalidated(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first, _ := f.availability.GenerateSlots(ctx, "2024-03-15", 1)
	second, _ := f.availability.GenerateSlots(ctx, "2024-03-15", 1)
	if f.appointments.occupyingHits != 1 {
		t.Fatalf("database hit %d times, want 1", f.appointments.occupyingHits)
	}
	if len(first) != len(second) {
		t.Fatalf("cached result differs: %d vs %d", len(first), len(second))
	}

	f.availability.Invalidate(ctx, "2024-03-15")
	_, _ = f.availability.GenerateSlots(ctx, "2024-03-15", 1)
	if f.appointments.occupyingHits != 2 {
		t.Fatalf("database hit %d times after invalidation, want 2", f.appointments.occupyingHits)
	}
}

func TestBookCreatesPendingAppointment(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointment, err := f.service.Book(ctx, request("11:00"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appointment.Status != models.AppointmentPending {
		t.Errorf("status = %s, want pending", appointment.Status)
	}
	if !appointment.StartTime.Equal(at(11, 0)) || !appointment.EndTime.Equal(at(12, 0)) {
		t.Errorf("range = %s-%s", appointment.StartTime, appointment.EndTime)
	}
	if appointment.Email != "camille@example.com" {
		t.Errorf("email not normalized: %q", appointment.Email)
	}
	if f.appointments.locks != 1 || f.tx.calls != 1 {
		t.Errorf("locks = %d, transactions = %d", f.appointments.locks, f.tx.calls)
	}
	if len(f.leads.leads) != 1 || f.leads.leads[0].Source != models.LeadSourceBooking {
		t.Errorf("booking lead not captured: %+v", f.leads.leads)
	}
	got := f.publisher.types()
	if len(got) != 2 || got[0] != events.AppointmentBooked || got[1] != events.LeadCreated {
		t.Errorf("events = %v", got)
	}

	slots, _ := f.availability.GenerateSlots(ctx, "2024-03-15", 1)
	for _, s := range slots {
		if s.StartTime.Equal(at(11, 0)) && s.Available {
			t.Error("booked slot still reported available")
		}
	}
}

func TestBookRejectsTakenSlot(t *testing.T) {
	f := newBookingFixture(t, confirmedAt(10))

	for _, start := range []string{"09:30", "10:00", "10:30"} {
		if _, err := f.service.Book(context.Background(), request(start)); !errors.Is(err, ErrSlotUnavailable) {
			t.Errorf("Book(%s) err = %v, want ErrSlotUnavailable", start, err)
		}
	}
	if _, err := f.service.Book(context.Background(), request("09:00")); err != nil {
		t.Errorf("adjacent slot should be bookable: %v", err)
	}
}

func TestBookRejectsOffGridAndPast(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	if _, err := f.service.Book(ctx, request("09:10")); !errors.Is(err, ErrSlotUnavailable) {
		t.Errorf("off grid err = %v", err)
	}
	if _, err := f.service.Book(ctx, request("16:30")); !errors.Is(err, ErrSlotUnavailable) {
		t.Errorf("past closing err = %v", err)
	}
	past := request("10:00")
	past.Date = "2024-03-13"
	if _, err := f.service.Book(ctx, past); !errors.Is(err, ErrSlotInPast) {
		t.Errorf("past err = %v", err)
	}
	missing := request("10:00")
	missing.Email = "nope"
	if _, err := f.service.Book(ctx, missing); !errors.Is(err, ErrAppInvalidInput) {
		t.Errorf("invalid e-mail err = %v", err)
	}
	unknown := request("10:00")
	unknown.TypeID = 9
	if _, err := f.service.Book(ctx, unknown); !errors.Is(err, ErrAppointmentTypeNotFound) {
		t.Errorf("unknown type err = %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	appointment, err := f.service.Book(ctx, request("14:00"))
	if err != nil {
		t.Fatal(err)
	}

	confirmed, err := f.service.Confirm(ctx, 7, appointment.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if confirmed.Status != models.AppointmentConfirmed || !confirmed.UpdatedAt.Equal(testNow) {
		t.Errorf("confirmed = %s at %s", confirmed.Status, confirmed.UpdatedAt)
	}
	if _, err := f.service.Confirm(ctx, 7, appointment.ID); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("double confirm err = %v", err)
	}
	if _, err := f.service.Complete(ctx, 7, appointment.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	for _, next := range []models.AppointmentStatus{models.AppointmentCanceled, models.AppointmentConfirmed, models.AppointmentPending} {
		if _, err := f.service.ChangeStatus(ctx, 7, appointment.ID, next); !errors.Is(err, ErrInvalidStatusTransition) {
			t.Errorf("completed -> %s err = %v", next, err)
		}
	}
	stored, _ := f.service.Get(ctx, appointment.ID)
	if stored.Status != models.AppointmentCompleted {
		t.Errorf("terminal appointment changed to %s", stored.Status)
	}
}

func TestCancelFreesSlot(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	appointment, err := f.service.Book(ctx, request("15:00"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.Cancel(ctx, 1, appointment.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := f.service.Cancel(ctx, 1, appointment.ID); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("cancel twice err = %v", err)
	}
	if _, err := f.service.Book(ctx, request("15:00")); err != nil {
		t.Errorf("slot not freed after cancel: %v", err)
	}
}

func TestChangeStatusErrors(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	if _, err := f.service.Confirm(ctx, 1, 99); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("unknown id err = %v", err)
	}
	if _, err := f.service.ChangeStatus(ctx, 1, 1, "archived"); !errors.Is(err, ErrAppInvalidInput) {
		t.Errorf("unknown status err = %v", err)
	}

	appointment, _ := f.service.Book(ctx, request("13:00"))
	f.appointments.updateErr = errors.New("connection reset")
	if _, err := f.service.Confirm(ctx, 1, appointment.ID); !errors.Is(err, ErrAppointmentUpdateFailed) {
		t.Errorf("persistence err = %v", err)
	}
}

func TestReminderService(t *testing.T) {
	reminded := confirmedAt(9)
	sent := testNow
	reminded.ReminderSentAt = &sent
	pending := confirmedAt(11)
	pending.Status = models.AppointmentPending
	otherDay := confirmedAt(13)
	otherDay.StartTime = otherDay.StartTime.AddDate(0, 0, 1)
	otherDay.EndTime = otherDay.EndTime.AddDate(0, 0, 1)

	repo := newFakeAppointmentRepo(confirmedAt(10), reminded, pending, otherDay, confirmedAt(15))
	publisher := &fakePublisher{}
	svc := NewReminderService(repo, publisher, time.UTC)

	n, err := svc.SendNextDayReminders(context.Background(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("sent %d reminders, want 2", n)
	}
	for _, e := range publisher.events {
		if e.Type != events.AppointmentReminder {
			t.Errorf("event type %s", e.Type)
		}
	}

	n, _ = svc.SendNextDayReminders(context.Background(), testNow)
	if n != 0 {
		t.Fatalf("second run sent %d reminders, want 0", n)
	}
}
