package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/accesscontrol"
	"acenumerik.fr/pkg/sectionconfig"
	"acenumerik.fr/repositories"

	"go.uber.org/zap"
)

// SectionServiceError is the error family of the section store.
type SectionServiceError string

func (e SectionServiceError) Error() string { return string(e) }

const (
	ErrSectionsLoadFailed    SectionServiceError = "la configuration des sections n'a pas pu être chargée"
	ErrSectionsPersistFailed SectionServiceError = "la configuration des sections n'a pas pu être enregistrée"
	ErrSectionInvalidInput   SectionServiceError = "données de section invalides"
)

// ISectionService owns the live section configuration. Mutations apply in
// memory only; Save persists them. A failed Save keeps the in-memory state.
type ISectionService interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error
	Dirty() bool

	Sections() []models.Section
	VisibleSections(role accesscontrol.Role) []models.Section
	Section(id string) (models.Section, bool)
	Data(id string) (models.SectionPayload, bool)

	Add(sectionType models.SectionType, title string, opts models.SectionOptions) (models.Section, error)
	Remove(id string) bool
	Reorder(orderedIDs []string) []models.Section
	UpdateVisibility(id string, visible bool) bool
	UpdateTitle(id, title string) bool
	UpdateData(id string, raw json.RawMessage) (bool, error)

	Snapshot() (models.TemplateSnapshot, error)
	Restore(snapshot models.TemplateSnapshot) error
}

// SectionService is the single in-memory owner of the homepage configuration.
type SectionService struct {
	repo repositories.ISectionRepository

	mu           sync.RWMutex
	cfg          *sectionconfig.Config
	version      uint64
	savedVersion uint64
}

// NewSectionService starts empty; call Load before serving.
func NewSectionService(repo repositories.ISectionRepository) ISectionService {
	return &SectionService{
		repo: repo,
		cfg:  sectionconfig.New(nil, nil),
	}
}

// Load replaces memory with the stored configuration and marks it clean.
func (s *SectionService) Load(ctx context.Context) error {
	sections, rows, err := s.repo.LoadAll(ctx)
	if err != nil {
		configslog.Log.Error("Section configuration load failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSectionsLoadFailed, err)
	}

	types := make(map[string]models.SectionType, len(sections))
	for _, sec := range sections {
		types[sec.ID] = sec.Type
	}
	data := make(map[string]models.SectionPayload, len(rows))
	for _, row := range rows {
		t, ok := types[row.SectionID]
		if !ok {
			continue
		}
		p, err := models.DecodeSectionPayload(t, row.Payload)
		if err != nil {
			configslog.Log.Warn("Section payload unreadable, using empty payload", zap.String("section", row.SectionID), zap.Error(err))
			p, _ = models.DecodeSectionPayload(t, nil)
		}
		data[row.SectionID] = p
	}

	s.mu.Lock()
	s.cfg = sectionconfig.New(sections, data)
	s.version++
	s.savedVersion = s.version
	s.mu.Unlock()

	configslog.SLog.Infof("Section configuration loaded (%d sections)", len(sections))
	return nil
}

// Save persists a snapshot. On failure memory is kept and stays dirty.
func (s *SectionService) Save(ctx context.Context) error {
	s.mu.RLock()
	sections := s.cfg.Sections()
	payloads := s.cfg.AllData()
	version := s.version
	s.mu.RUnlock()

	rows := make([]models.SectionData, 0, len(payloads))
	for _, sec := range sections {
		p, ok := payloads[sec.ID]
		if !ok {
			continue
		}
		raw, err := models.EncodeSectionPayload(p)
		if err != nil {
			return fmt.Errorf("%w: section %s: %v", ErrSectionsPersistFailed, sec.ID, err)
		}
		rows = append(rows, models.SectionData{SectionID: sec.ID, Type: sec.Type, Payload: raw})
	}

	if err := s.repo.ReplaceAll(ctx, sections, rows); err != nil {
		configslog.Log.Error("Section configuration save failed", zap.Int("sections", len(sections)), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSectionsPersistFailed, err)
	}

	s.mu.Lock()
	if version > s.savedVersion {
		s.savedVersion = version
	}
	s.mu.Unlock()
	configslog.SLog.Infof("Section configuration saved (%d sections)", len(sections))
	return nil
}

// Dirty reports unsaved in-memory changes.
func (s *SectionService) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version != s.savedVersion
}

// Sections returns a copy of every section in order.
func (s *SectionService) Sections() []models.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Sections()
}

// VisibleSections is the ordered sequence the site renders for role. Gated
// external links are dropped for roles that may not see them.
func (s *SectionService) VisibleSections(role accesscontrol.Role) []models.Section {
	s.mu.RLock()
	visible := s.cfg.Visible()
	s.mu.RUnlock()

	out := visible[:0]
	for _, sec := range visible {
		if sec.Type == models.SectionExternalLink && !accesscontrol.CanView(sec.RequiresAuth, sec.AllowedRoles, role) {
			continue
		}
		out = append(out, sec)
	}
	return out
}

// Section returns a copy of section id.
func (s *SectionService) Section(id string) (models.Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Section(id)
}

// Data returns the payload of section id.
func (s *SectionService) Data(id string) (models.SectionPayload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Data(id)
}

// Add appends a section; see sectionconfig.Config.Add.
func (s *SectionService) Add(sectionType models.SectionType, title string, opts models.SectionOptions) (models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, err := s.cfg.Add(sectionType, title, opts)
	if err != nil {
		return models.Section{}, fmt.Errorf("%w: %v", ErrSectionInvalidInput, err)
	}
	s.version++
	return sec, nil
}

// Remove hides a standard section or deletes any other. It reports whether anything changed.
func (s *SectionService) Remove(id string) bool {
	return s.mutate(func(c *sectionconfig.Config) bool { return c.Remove(id) })
}

// Reorder applies a full or partial order and returns the result.
func (s *SectionService) Reorder(orderedIDs []string) []models.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.Reorder(orderedIDs) {
		s.version++
	}
	return s.cfg.Sections()
}

// UpdateVisibility reports false for unknown ids and unchanged values.
func (s *SectionService) UpdateVisibility(id string, visible bool) bool {
	return s.mutate(func(c *sectionconfig.Config) bool { return c.UpdateVisibility(id, visible) })
}

// UpdateTitle reports false for unknown ids and unchanged titles.
func (s *SectionService) UpdateTitle(id, title string) bool {
	return s.mutate(func(c *sectionconfig.Config) bool { return c.UpdateTitle(id, title) })
}

// UpdateData decodes raw as the payload variant of the section's type.
func (s *SectionService) UpdateData(id string, raw json.RawMessage) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, ok := s.cfg.Section(id)
	if !ok {
		return false, nil
	}
	payload, err := models.DecodeSectionPayload(sec.Type, raw)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrSectionInvalidInput, err)
	}
	applied, err := s.cfg.UpdateData(id, payload)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrSectionInvalidInput, err)
	}
	if applied {
		s.version++
	}
	return applied, nil
}

// Snapshot captures the current configuration for templates.
func (s *SectionService) Snapshot() (models.TemplateSnapshot, error) {
	s.mu.RLock()
	sections := s.cfg.Sections()
	payloads := s.cfg.AllData()
	s.mu.RUnlock()

	snap := models.TemplateSnapshot{Sections: sections, Data: make(map[string]json.RawMessage, len(payloads))}
	ids := make([]string, 0, len(payloads))
	for id := range payloads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		raw, err := models.EncodeSectionPayload(payloads[id])
		if err != nil {
			return models.TemplateSnapshot{}, err
		}
		snap.Data[id] = json.RawMessage(raw)
	}
	return snap, nil
}

// Restore replaces the in-memory configuration with snapshot. Nothing is
// persisted until Save.
func (s *SectionService) Restore(snapshot models.TemplateSnapshot) error {
	data := make(map[string]models.SectionPayload, len(snapshot.Data))
	for _, sec := range snapshot.Sections {
		if !sec.Type.Valid() {
			return fmt.Errorf("%w: unknown section type %q", ErrSectionInvalidInput, sec.Type)
		}
		raw, ok := snapshot.Data[sec.ID]
		if !ok {
			continue
		}
		p, err := models.DecodeSectionPayload(sec.Type, raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSectionInvalidInput, err)
		}
		data[sec.ID] = p
	}

	s.mu.Lock()
	s.cfg = sectionconfig.New(snapshot.Sections, data)
	s.version++
	s.mu.Unlock()
	return nil
}

func (s *SectionService) mutate(fn func(*sectionconfig.Config) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !fn(s.cfg) {
		return false
	}
	s.version++
	return true
}

// IsSectionInputError reports errors caused by the caller's input.
func IsSectionInputError(err error) bool {
	return errors.Is(err, ErrSectionInvalidInput)
}

var _ ISectionService = (*SectionService)(nil)
