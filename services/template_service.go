package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/repositories"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// TemplateServiceError is the error family of site templates.
type TemplateServiceError string

func (e TemplateServiceError) Error() string { return string(e) }

const (
	ErrTemplateNotFound       TemplateServiceError = "modèle introuvable"
	ErrTemplateNameRequired   TemplateServiceError = "le nom du modèle est obligatoire"
	ErrTemplateNameTaken      TemplateServiceError = "un modèle porte déjà ce nom"
	ErrTemplateCreationFailed TemplateServiceError = "le modèle n'a pas pu être créé"
	ErrTemplateCorrupt        TemplateServiceError = "le contenu du modèle est illisible"
	ErrTemplateDeletionFailed TemplateServiceError = "le modèle n'a pas pu être supprimé"
)

// ITemplateService stores and applies named section configurations.
type ITemplateService interface {
	List(ctx context.Context) ([]models.SiteTemplate, error)
	CreateFromCurrent(ctx context.Context, userID uint, name, description string) (*models.SiteTemplate, error)
	// Apply replaces the live configuration and saves it. On a save failure
	// the applied configuration stays live and ErrSectionsPersistFailed is returned.
	Apply(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

// TemplateService implements ITemplateService.
type TemplateService struct {
	repo     repositories.ITemplateRepository
	sections ISectionService
}

// NewTemplateService snapshots and restores through sections.
func NewTemplateService(repo repositories.ITemplateRepository, sections ISectionService) ITemplateService {
	return &TemplateService{repo: repo, sections: sections}
}

// List returns every template by name.
func (s *TemplateService) List(ctx context.Context) ([]models.SiteTemplate, error) {
	return s.repo.FindAll(ctx)
}

// CreateFromCurrent snapshots the live configuration under a unique name.
func (s *TemplateService) CreateFromCurrent(ctx context.Context, userID uint, name, description string) (*models.SiteTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTemplateNameRequired
	}
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, ErrTemplateNameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrTemplateCreationFailed, err)
	}

	snap, err := s.sections.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateCreationFailed, err)
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateCreationFailed, err)
	}

	tpl := &models.SiteTemplate{Name: name, Description: strings.TrimSpace(description), Snapshot: datatypes.JSON(raw)}
	if err := s.repo.Create(models.WithUserID(ctx, userID), tpl); err != nil {
		configslog.Log.Error("Template create failed", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrTemplateCreationFailed, err)
	}
	configslog.SLog.Infof("Template %q created from %d sections", name, len(snap.Sections))
	return tpl, nil
}

// Apply restores a snapshot and saves it.
func (s *TemplateService) Apply(ctx context.Context, id uint) error {
	tpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	var snap models.TemplateSnapshot
	if err := json.Unmarshal(tpl.Snapshot, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateCorrupt, err)
	}
	if err := s.sections.Restore(snap); err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateCorrupt, err)
	}
	return s.sections.Save(ctx)
}

// Delete removes a template. The live configuration is untouched.
func (s *TemplateService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("%w: %v", ErrTemplateDeletionFailed, err)
	}
	return nil
}

var _ ITemplateService = (*TemplateService)(nil)
