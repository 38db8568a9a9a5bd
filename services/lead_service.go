package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/events"
	"acenumerik.fr/pkg/queryparams"
	"acenumerik.fr/repositories"

	"go.uber.org/zap"
)

// LeadServiceError is the error family of the lead pipeline.
type LeadServiceError string

func (e LeadServiceError) Error() string { return string(e) }

const (
	ErrLeadNotFound          LeadServiceError = "prospect introuvable"
	ErrLeadInvalidInput      LeadServiceError = "données du prospect invalides"
	ErrLeadInvalidTransition LeadServiceError = "changement de statut du prospect non autorisé"
	ErrLeadCreationFailed    LeadServiceError = "le prospect n'a pas pu être créé"
	ErrLeadUpdateFailed      LeadServiceError = "le prospect n'a pas pu être mis à jour"
	ErrLeadDeletionFailed    LeadServiceError = "le prospect n'a pas pu être supprimé"
)

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Phone   string `form:"phone" json:"phone"`
	Company string `form:"company" json:"company"`
	Message string `form:"message" json:"message"`
}

// ILeadService runs the small CRM behind the contact form and bookings.
type ILeadService interface {
	List(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	Get(ctx context.Context, id uint) (*models.Lead, error)
	CreateFromContact(ctx context.Context, req ContactRequest) (*models.Lead, error)
	// CaptureFromBooking records the booker as a lead unless an open lead
	// with the same e-mail already exists.
	CaptureFromBooking(ctx context.Context, appointment models.Appointment) (*models.Lead, error)
	CreateManual(ctx context.Context, userID uint, lead models.Lead) (*models.Lead, error)
	ChangeStatus(ctx context.Context, id uint, status models.LeadStatus) (*models.Lead, error)
	AddNote(ctx context.Context, userID, id uint, body string) (*models.LeadNote, error)
	Delete(ctx context.Context, id uint) error
}

// LeadService implements ILeadService.
type LeadService struct {
	repo      repositories.ILeadRepository
	publisher events.Publisher
}

// NewLeadService wires the service. publisher may be nil.
func NewLeadService(repo repositories.ILeadRepository, publisher events.Publisher) ILeadService {
	return &LeadService{repo: repo, publisher: publisher}
}

// List returns one page of leads.
func (s *LeadService) List(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	leads, total, err := s.repo.FindAll(ctx, params)
	if err != nil {
		configslog.Log.Error("Lead list failed", zap.Error(err))
		return nil, err
	}
	return queryparams.NewPaginatedResult(leads, total, params), nil
}

// Get returns ErrLeadNotFound for unknown ids.
func (s *LeadService) Get(ctx context.Context, id uint) (*models.Lead, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

// CreateFromContact records a contact form submission as a new lead.
func (s *LeadService) CreateFromContact(ctx context.Context, req ContactRequest) (*models.Lead, error) {
	lead := models.Lead{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Company: strings.TrimSpace(req.Company),
		Message: strings.TrimSpace(req.Message),
		Source:  models.LeadSourceContactForm,
	}
	return s.create(ctx, lead)
}

// CaptureFromBooking reuses an open lead with the same email, if any.
func (s *LeadService) CaptureFromBooking(ctx context.Context, appointment models.Appointment) (*models.Lead, error) {
	email := strings.ToLower(strings.TrimSpace(appointment.Email))
	existing, err := s.repo.FindOpenByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return s.create(ctx, models.Lead{
		Name:    appointment.Name,
		Email:   email,
		Phone:   appointment.Phone,
		Company: appointment.Company,
		Message: appointment.Notes,
		Source:  models.LeadSourceBooking,
	})
}

// CreateManual records a lead entered from the back office.
func (s *LeadService) CreateManual(ctx context.Context, userID uint, lead models.Lead) (*models.Lead, error) {
	lead.ID = 0
	lead.Notes = nil
	lead.Email = strings.ToLower(strings.TrimSpace(lead.Email))
	lead.Source = models.LeadSourceManual
	return s.create(models.WithUserID(ctx, userID), lead)
}

func (s *LeadService) create(ctx context.Context, lead models.Lead) (*models.Lead, error) {
	lead.Status = models.LeadNew
	if err := lead.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLeadInvalidInput, err)
	}
	if err := s.repo.Create(ctx, &lead); err != nil {
		configslog.Log.Error("Lead create failed", zap.String("source", string(lead.Source)), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrLeadCreationFailed, err)
	}
	publish(ctx, s.publisher, events.LeadCreated, lead.ID, map[string]any{
		"source": lead.Source,
		"email":  lead.Email,
	})
	return &lead, nil
}

// ChangeStatus returns ErrLeadInvalidTransition when the pipeline forbids the move.
func (s *LeadService) ChangeStatus(ctx context.Context, id uint, status models.LeadStatus) (*models.Lead, error) {
	if !status.Valid() {
		return nil, ErrLeadInvalidInput
	}
	lead, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lead.Status.CanTransitionTo(status) {
		return nil, ErrLeadInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		configslog.Log.Error("Lead status update failed", zap.Uint("id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrLeadUpdateFailed, err)
	}
	lead.Status = status
	return lead, nil
}

// AddNote appends a note signed by userID.
func (s *LeadService) AddNote(ctx context.Context, userID, id uint, body string) (*models.LeadNote, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrLeadInvalidInput
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	note := &models.LeadNote{LeadID: id, Body: body}
	if err := s.repo.AddNote(models.WithUserID(ctx, userID), note); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLeadUpdateFailed, err)
	}
	return note, nil
}

// Delete soft-deletes a lead.
func (s *LeadService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("%w: %v", ErrLeadDeletionFailed, err)
	}
	return nil
}
