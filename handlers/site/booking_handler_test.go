package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"acenumerik.fr/models"
	"acenumerik.fr/pkg/availability"
	"acenumerik.fr/pkg/queryparams"
	"acenumerik.fr/repositories"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
)

type stubAvailability struct{}

func (stubAvailability) GenerateSlots(_ context.Context, date string, typeID uint) ([]models.TimeSlot, error) {
	if typeID != 1 {
		return nil, services.ErrAppointmentTypeNotFound
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, services.ErrInvalidDate
	}
	return availability.Generate(day, time.Hour, availability.DefaultBusinessHours(), nil), nil
}

func (s stubAvailability) SlotsFor(ctx context.Context, day time.Time, _ models.AppointmentType) ([]models.TimeSlot, error) {
	return s.GenerateSlots(ctx, day.Format("2006-01-02"), 1)
}

func (stubAvailability) BusinessHours() availability.BusinessHours { return availability.DefaultBusinessHours() }
func (stubAvailability) Location() *time.Location                  { return time.UTC }
func (stubAvailability) Invalidate(context.Context, string)        {}

type stubAppointments struct {
	booked []services.BookingRequest
}

func (s *stubAppointments) Book(_ context.Context, req services.BookingRequest) (*models.Appointment, error) {
	if req.StartTime == "10:00" {
		return nil, services.ErrSlotUnavailable
	}
	s.booked = append(s.booked, req)
	return &models.Appointment{Name: req.Name, Status: models.AppointmentPending}, nil
}

func (s *stubAppointments) Get(context.Context, uint) (*models.Appointment, error) {
	return nil, services.ErrAppointmentNotFound
}

func (s *stubAppointments) List(context.Context, repositories.AppointmentFilter, queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	return &queryparams.PaginatedResult{}, nil
}

func (s *stubAppointments) Confirm(context.Context, uint, uint) (*models.Appointment, error) {
	return nil, services.ErrInvalidStatusTransition
}

func (s *stubAppointments) Complete(context.Context, uint, uint) (*models.Appointment, error) {
	return nil, services.ErrInvalidStatusTransition
}

func (s *stubAppointments) Cancel(context.Context, uint, uint) (*models.Appointment, error) {
	return nil, services.ErrInvalidStatusTransition
}

func (s *stubAppointments) ChangeStatus(context.Context, uint, uint, models.AppointmentStatus) (*models.Appointment, error) {
	return nil, services.ErrInvalidStatusTransition
}

func newBookingApp(appointments *stubAppointments) *fiber.App {
	h := NewBookingHandler(nil, stubAvailability{}, appointments)
	app := fiber.New()
	app.Get("/booking/slots", h.Slots)
	app.Post("/booking", h.Book)
	return app
}

func TestSlotsEndpoint(t *testing.T) {
	app := newBookingApp(&stubAppointments{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/booking/slots?date=2024-03-15&type=1", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Slots []models.TimeSlot `json:"slots"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Slots) != 15 {
		t.Errorf("slots = %d, want 15", len(body.Slots))
	}

	cases := map[string]int{
		"/booking/slots?date=2024-03-15&type=2": http.StatusNotFound,
		"/booking/slots?date=tomorrow&type=1":   http.StatusBadRequest,
	}
	for path, want := range cases {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if resp.StatusCode != want {
			t.Errorf("%s status = %d, want %d", path, resp.StatusCode, want)
		}
	}
}

func TestBookJSON(t *testing.T) {
	appointments := &stubAppointments{}
	app := newBookingApp(appointments)

	post := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/booking", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp.StatusCode
	}

	if got := post(`{"typeId":1,"date":"2024-03-15","startTime":"11:00","name":"Lou","email":"lou@example.com"}`); got != http.StatusCreated {
		t.Errorf("booking status = %d", got)
	}
	if got := post(`{"typeId":1,"date":"2024-03-15","startTime":"10:00","name":"Lou","email":"lou@example.com"}`); got != http.StatusConflict {
		t.Errorf("taken slot status = %d", got)
	}
	if len(appointments.booked) != 1 || appointments.booked[0].TypeID != 1 {
		t.Errorf("booked = %+v", appointments.booked)
	}
}
