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

// CVServiceError is the error family of the CV library.
type CVServiceError string

func (e CVServiceError) Error() string { return string(e) }

const (
	ErrCVNotFound       CVServiceError = "candidature introuvable"
	ErrCVInvalidInput   CVServiceError = "données de candidature invalides"
	ErrCVJobClosed      CVServiceError = "cette offre n'est plus ouverte"
	ErrCVCreationFailed CVServiceError = "la candidature n'a pas pu être enregistrée"
	ErrCVUpdateFailed   CVServiceError = "la candidature n'a pas pu être mise à jour"
)

// Application is a candidate submission from the careers page.
type Application struct {
	CandidateName string `form:"candidateName" json:"candidateName"`
	Email         string `form:"email" json:"email"`
	Phone         string `form:"phone" json:"phone"`
	Headline      string `form:"headline" json:"headline"`
	Skills        string `form:"skills" json:"skills"`
	ResumeURL     string `form:"resumeUrl" json:"resumeUrl"`
	CoverLetter   string `form:"coverLetter" json:"coverLetter"`
}

// ICVService files and reviews job applications.
type ICVService interface {
	List(ctx context.Context, filter repositories.CVFilter, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	Get(ctx context.Context, id uint) (*models.CV, error)
	// Apply files a CV; job may be nil for a spontaneous application.
	Apply(ctx context.Context, job *models.Job, app Application) (*models.CV, error)
	UpdateStatus(ctx context.Context, userID, id uint, status models.CVStatus) error
	UpdateNotes(ctx context.Context, userID, id uint, notes string) error
	Delete(ctx context.Context, id uint) error
}

// CVService implements ICVService.
type CVService struct {
	repo      repositories.ICVRepository
	publisher events.Publisher
}

// NewCVService wires the service. publisher may be nil.
func NewCVService(repo repositories.ICVRepository, publisher events.Publisher) ICVService {
	return &CVService{repo: repo, publisher: publisher}
}

// List returns one page of CVs matching filter.
func (s *CVService) List(ctx context.Context, filter repositories.CVFilter, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	cvs, total, err := s.repo.FindAll(ctx, filter, params)
	if err != nil {
		configslog.Log.Error("CV list failed", zap.Error(err))
		return nil, err
	}
	return queryparams.NewPaginatedResult(cvs, total, params), nil
}

// Get returns ErrCVNotFound for unknown ids.
func (s *CVService) Get(ctx context.Context, id uint) (*models.CV, error) {
	cv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCVNotFound
		}
		return nil, err
	}
	return cv, nil
}

// Apply files an application. A nil job is a spontaneous application; a
// non-nil job must be published.
func (s *CVService) Apply(ctx context.Context, job *models.Job, app Application) (*models.CV, error) {
	cv := models.CV{
		CandidateName: strings.TrimSpace(app.CandidateName),
		Email:         strings.ToLower(strings.TrimSpace(app.Email)),
		Phone:         strings.TrimSpace(app.Phone),
		Headline:      strings.TrimSpace(app.Headline),
		Skills:        ParseSkills(app.Skills),
		ResumeURL:     strings.TrimSpace(app.ResumeURL),
		CoverLetter:   strings.TrimSpace(app.CoverLetter),
		Status:        models.CVReceived,
	}
	if job != nil {
		if !job.Published {
			return nil, ErrCVJobClosed
		}
		cv.JobID = &job.ID
	}
	if err := cv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCVInvalidInput, err)
	}
	if err := s.repo.Create(ctx, &cv); err != nil {
		configslog.Log.Error("CV create failed", zap.String("email", cv.Email), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCVCreationFailed, err)
	}
	publish(ctx, s.publisher, events.CVReceived, cv.ID, map[string]any{
		"jobId":  cv.JobID,
		"email":  cv.Email,
		"skills": cv.Skills,
	})
	return &cv, nil
}

// ParseSkills splits a comma separated list into lower-case, de-duplicated skills.
func ParseSkills(raw string) []string {
	seen := make(map[string]struct{})
	skills := []string{}
	for _, part := range strings.Split(raw, ",") {
		skill := strings.ToLower(strings.TrimSpace(part))
		if skill == "" {
			continue
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		seen[skill] = struct{}{}
		skills = append(skills, skill)
	}
	return skills
}

// UpdateStatus moves a CV to another review state.
func (s *CVService) UpdateStatus(ctx context.Context, userID, id uint, status models.CVStatus) error {
	if !status.Valid() {
		return ErrCVInvalidInput
	}
	return s.update(ctx, userID, id, map[string]any{"status": status, "updated_by": userID})
}

// UpdateNotes replaces the reviewer notes of a CV.
func (s *CVService) UpdateNotes(ctx context.Context, userID, id uint, notes string) error {
	return s.update(ctx, userID, id, map[string]any{"notes": strings.TrimSpace(notes), "updated_by": userID})
}

func (s *CVService) update(ctx context.Context, userID, id uint, fields map[string]any) error {
	if err := s.repo.UpdateFields(models.WithUserID(ctx, userID), id, fields); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCVNotFound
		}
		configslog.Log.Error("CV update failed", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrCVUpdateFailed, err)
	}
	return nil
}

// Delete removes a CV.
func (s *CVService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCVNotFound
		}
		return fmt.Errorf("%w: %v", ErrCVUpdateFailed, err)
	}
	return nil
}
