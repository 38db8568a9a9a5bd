package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/availability"
	"acenumerik.fr/pkg/events"
	"acenumerik.fr/pkg/queryparams"
	"acenumerik.fr/repositories"
	"acenumerik.fr/utils"

	"go.uber.org/zap"
)

// AppointmentServiceError is the error family of booking and status changes.
type AppointmentServiceError string

func (e AppointmentServiceError) Error() string { return string(e) }

const (
	ErrAppointmentNotFound       AppointmentServiceError = "rendez-vous introuvable"
	ErrInvalidStatusTransition   AppointmentServiceError = "changement de statut non autorisé"
	ErrSlotUnavailable           AppointmentServiceError = "ce créneau n'est plus disponible"
	ErrSlotInPast                AppointmentServiceError = "ce créneau est déjà passé"
	ErrAppInvalidInput           AppointmentServiceError = "données de réservation invalides"
	ErrAppointmentCreationFailed AppointmentServiceError = "le rendez-vous n'a pas pu être créé"
	ErrAppointmentUpdateFailed   AppointmentServiceError = "le rendez-vous n'a pas pu être mis à jour"
)

// BookingRequest is what a visitor submits from the booking page.
type BookingRequest struct {
	TypeID    uint   `form:"typeId" json:"typeId"`
	Date      string `form:"date" json:"date"`
	StartTime string `form:"startTime" json:"startTime"`
	Name      string `form:"name" json:"name"`
	Email     string `form:"email" json:"email"`
	Phone     string `form:"phone" json:"phone"`
	Company   string `form:"company" json:"company"`
	Notes     string `form:"notes" json:"notes"`
	UserID    *uint  `form:"-" json:"-"`
}

func (r BookingRequest) validate() error {
	if r.TypeID == 0 {
		return fmt.Errorf("%w: type de rendez-vous manquant", ErrAppInvalidInput)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: le nom est obligatoire", ErrAppInvalidInput)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		return fmt.Errorf("%w: adresse e-mail invalide", ErrAppInvalidInput)
	}
	return nil
}

// IAppointmentService books appointments and moves them through their lifecycle.
type IAppointmentService interface {
	Book(ctx context.Context, req BookingRequest) (*models.Appointment, error)
	Get(ctx context.Context, id uint) (*models.Appointment, error)
	List(ctx context.Context, filter repositories.AppointmentFilter, params queryparams.ListParams) (*queryparams.PaginatedResult, error)

	Confirm(ctx context.Context, userID, id uint) (*models.Appointment, error)
	Complete(ctx context.Context, userID, id uint) (*models.Appointment, error)
	Cancel(ctx context.Context, userID, id uint) (*models.Appointment, error)
	ChangeStatus(ctx context.Context, userID, id uint, next models.AppointmentStatus) (*models.Appointment, error)
}

// AppointmentService implements IAppointmentService.
type AppointmentService struct {
	repo         repositories.IAppointmentRepository
	types        repositories.IBaseRepository[models.AppointmentType]
	availability IAvailabilityService
	tx           repositories.ITransactor
	leads        ILeadService
	publisher    events.Publisher
	now          func() time.Time
}

// NewAppointmentService wires the service. leads and publisher may be nil.
func NewAppointmentService(
	repo repositories.IAppointmentRepository,
	types repositories.IBaseRepository[models.AppointmentType],
	availability IAvailabilityService,
	tx repositories.ITransactor,
	leads ILeadService,
	publisher events.Publisher,
) *AppointmentService {
	return &AppointmentService{
		repo:         repo,
		types:        types,
		availability: availability,
		tx:           tx,
		leads:        leads,
		publisher:    publisher,
		now:          time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *AppointmentService) WithClock(now func() time.Time) *AppointmentService {
	s.now = now
	return s
}

// Book creates a pending appointment on a free slot. Bookings of one day are
// serialized so two visitors cannot take the same slot.
func (s *AppointmentService) Book(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	loc := s.availability.Location()
	day, err := utils.ParseDate(req.Date, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}
	clock, err := availability.ParseClock(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: heure de début invalide", ErrAppInvalidInput)
	}
	y, m, d := day.Date()
	start := time.Date(y, m, d, clock.Hour, clock.Minute, 0, 0, loc)
	if !start.After(s.now()) {
		return nil, ErrSlotInPast
	}

	appointmentType, err := s.types.FindByID(ctx, req.TypeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentTypeNotFound
		}
		return nil, err
	}
	if !appointmentType.IsActive {
		return nil, ErrAppointmentTypeNotFound
	}

	appointment := models.Appointment{
		UserID:    req.UserID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Company:   strings.TrimSpace(req.Company),
		Date:      day,
		StartTime: start,
		EndTime:   start.Add(appointmentType.Duration()),
		TypeID:    appointmentType.ID,
		Status:    models.AppointmentPending,
		Notes:     strings.TrimSpace(req.Notes),
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.LockDay(txCtx, day); err != nil {
			return err
		}
		slots, err := s.availability.SlotsFor(txCtx, day, *appointmentType)
		if err != nil {
			return err
		}
		if !slotFree(slots, start) {
			return ErrSlotUnavailable
		}
		return s.repo.Create(txCtx, &appointment)
	})
	if err != nil {
		var svcErr AppointmentServiceError
		var availErr AvailabilityServiceError
		if errors.As(err, &svcErr) || errors.As(err, &availErr) {
			return nil, err
		}
		configslog.Log.Error("Booking failed", zap.Uint("typeID", req.TypeID), zap.Time("start", start), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAppointmentCreationFailed, err)
	}
	appointment.Type = *appointmentType

	s.availability.Invalidate(ctx, day.Format(utils.DateLayout))
	configslog.SLog.Infof("Appointment booked: ID %d, %s at %s", appointment.ID, appointmentType.Name, start.Format(time.RFC3339))
	publish(ctx, s.publisher, events.AppointmentBooked, appointment.ID, bookingPayload(appointment))

	if s.leads != nil {
		if _, err := s.leads.CaptureFromBooking(ctx, appointment); err != nil {
			configslog.Log.Warn("Lead capture from booking failed", zap.Uint("appointmentID", appointment.ID), zap.Error(err))
		}
	}
	return &appointment, nil
}

func slotFree(slots []models.TimeSlot, start time.Time) bool {
	for _, slot := range slots {
		if slot.StartTime.Equal(start) {
			return slot.Available
		}
	}
	return false
}

// Get returns ErrAppointmentNotFound for unknown ids.
func (s *AppointmentService) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return appointment, nil
}

// List returns one page of appointments matching filter.
func (s *AppointmentService) List(ctx context.Context, filter repositories.AppointmentFilter, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	appointments, total, err := s.repo.FindAll(ctx, filter, params)
	if err != nil {
		configslog.Log.Error("Appointment list failed", zap.Error(err))
		return nil, err
	}
	return queryparams.NewPaginatedResult(appointments, total, params), nil
}

// Confirm moves a pending appointment to confirmed.
func (s *AppointmentService) Confirm(ctx context.Context, userID, id uint) (*models.Appointment, error) {
	return s.ChangeStatus(ctx, userID, id, models.AppointmentConfirmed)
}

// Complete moves a confirmed appointment to completed.
func (s *AppointmentService) Complete(ctx context.Context, userID, id uint) (*models.Appointment, error) {
	return s.ChangeStatus(ctx, userID, id, models.AppointmentCompleted)
}

// Cancel cancels a pending or confirmed appointment and frees its slot.
func (s *AppointmentService) Cancel(ctx context.Context, userID, id uint) (*models.Appointment, error) {
	return s.ChangeStatus(ctx, userID, id, models.AppointmentCanceled)
}

// ChangeStatus applies one edge of the status machine under a row lock.
// Completed and canceled appointments reject every change.
func (s *AppointmentService) ChangeStatus(ctx context.Context, userID, id uint, next models.AppointmentStatus) (*models.Appointment, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: statut inconnu %q", ErrAppInvalidInput, next)
	}
	var updated *models.Appointment
	var previous models.AppointmentStatus
	err := s.tx.WithinTransaction(models.WithUserID(ctx, userID), func(txCtx context.Context) error {
		appointment, err := s.repo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}
		previous = appointment.Status
		if !appointment.TransitionTo(next, s.now().UTC()) {
			configslog.Log.Warn("Rejected appointment status change",
				zap.Uint("id", id), zap.String("from", string(previous)), zap.String("next", string(next)),
				zap.Bool("terminal", previous.IsTerminal()))
			return ErrInvalidStatusTransition
		}
		if err := s.repo.Update(txCtx, appointment); err != nil {
			return fmt.Errorf("%w: %v", ErrAppointmentUpdateFailed, err)
		}
		updated = appointment
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAppointmentUpdateFailed) || !isAppointmentError(err) {
			configslog.Log.Error("Appointment status change failed",
				zap.Uint("id", id), zap.String("next", string(next)), zap.Error(err))
		}
		if !isAppointmentError(err) {
			return nil, fmt.Errorf("%w: %v", ErrAppointmentUpdateFailed, err)
		}
		return nil, err
	}

	if !next.OccupiesSlot() {
		s.availability.Invalidate(ctx, updated.StartTime.In(s.availability.Location()).Format(utils.DateLayout))
	}
	publish(ctx, s.publisher, events.AppointmentStatusChanged, updated.ID, map[string]any{
		"from": previous,
		"to":   next,
		"by":   userID,
	})
	return updated, nil
}

func isAppointmentError(err error) bool {
	var svcErr AppointmentServiceError
	return errors.As(err, &svcErr)
}

func bookingPayload(a models.Appointment) map[string]any {
	return map[string]any{
		"typeId":    a.TypeID,
		"type":      a.Type.Name,
		"name":      a.Name,
		"email":     a.Email,
		"startTime": a.StartTime,
		"endTime":   a.EndTime,
		"status":    a.Status,
	}
}

var _ IAppointmentService = (*AppointmentService)(nil)
