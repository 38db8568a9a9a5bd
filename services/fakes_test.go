package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"acenumerik.fr/models"
	"acenumerik.fr/pkg/events"
	"acenumerik.fr/pkg/queryparams"
	"acenumerik.fr/repositories"
)

// fakeRepo is an in-memory IBaseRepository. Scopes are ignored.
type fakeRepo[T any, P CatalogModel[T]] struct {
	mu     sync.Mutex
	rows   map[uint]T
	nextID uint
	finds  int
}

func newFakeRepo[T any, P CatalogModel[T]](seed ...T) *fakeRepo[T, P] {
	r := &fakeRepo[T, P]{rows: map[uint]T{}}
	for i := range seed {
		_ = r.Create(context.Background(), &seed[i])
	}
	return r
}

func (r *fakeRepo[T, P]) FindAll(_ context.Context, params queryparams.ListParams, _ ...repositories.Scope) ([]T, int64, error) {
	all, _ := r.FindAllUnpaginated(context.Background(), "")
	return all, int64(len(all)), nil
}

func (r *fakeRepo[T, P]) FindAllUnpaginated(context.Context, string, ...repositories.Scope) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.rows[uint(id)])
	}
	return out, nil
}

func (r *fakeRepo[T, P]) FindByID(_ context.Context, id uint, _ ...repositories.Scope) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	row, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &row, nil
}

func (r *fakeRepo[T, P]) FindOne(context.Context, ...repositories.Scope) (*T, error) {
	all, _ := r.FindAllUnpaginated(context.Background(), "")
	if len(all) == 0 {
		return nil, repositories.ErrNotFound
	}
	return &all[0], nil
}

func (r *fakeRepo[T, P]) Create(_ context.Context, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	base := P(entity).Base()
	base.ID = r.nextID
	base.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.rows[base.ID] = *entity
	return nil
}

func (r *fakeRepo[T, P]) Update(_ context.Context, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := P(entity).Base().ID
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	r.rows[id] = *entity
	return nil
}

func (r *fakeRepo[T, P]) UpdateFields(context.Context, uint, map[string]any) error {
	return errors.New("not supported by fake")
}

func (r *fakeRepo[T, P]) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeRepo[T, P]) Count(context.Context, ...repositories.Scope) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *fakeRepo[T, P]) SetAllowedSortColumns(map[string]string, string) {}
func (r *fakeRepo[T, P]) SetSearchColumns(...string)                     {}

type fakeSectionRepo struct {
	sections []models.Section
	data     []models.SectionData
	saveErr  error
	saves    int
}

func (r *fakeSectionRepo) LoadAll(context.Context) ([]models.Section, []models.SectionData, error) {
	return r.sections, r.data, nil
}

func (r *fakeSectionRepo) ReplaceAll(_ context.Context, sections []models.Section, data []models.SectionData) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.sections = sections
	r.data = data
	return nil
}

type fakeAppointmentRepo struct {
	mu            sync.Mutex
	rows          map[uint]*models.Appointment
	nextID        uint
	occupyingHits int
	locks         int
	updateErr     error
}

func newFakeAppointmentRepo(seed ...models.Appointment) *fakeAppointmentRepo {
	r := &fakeAppointmentRepo{rows: map[uint]*models.Appointment{}}
	for i := range seed {
		_ = r.Create(context.Background(), &seed[i])
	}
	return r
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	copied := *a
	r.rows[a.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) FindByID(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeAppointmentRepo) FindOccupying(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.occupyingHits++
	var out []models.Appointment
	for _, a := range r.sorted() {
		if a.Status != models.AppointmentCanceled && a.StartTime.Before(to) && a.EndTime.After(from) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindByStatusBetween(_ context.Context, status models.AppointmentStatus, from, to time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.sorted() {
		if a.Status == status && !a.StartTime.Before(from) && a.StartTime.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindAll(context.Context, repositories.AppointmentFilter, queryparams.ListParams) ([]models.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted()
	return all, int64(len(all)), nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *models.Appointment) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *a
	r.rows[a.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) MarkReminderSent(_ context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.ReminderSentAt = &at
	return nil
}

func (r *fakeAppointmentRepo) LockDay(context.Context, time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locks++
	return nil
}

func (r *fakeAppointmentRepo) sorted() []models.Appointment {
	out := make([]models.Appointment, 0, len(r.rows))
	for _, a := range r.rows {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeLeadRepo struct {
	leads  []models.Lead
	notes  []models.LeadNote
	nextID uint
}

func (r *fakeLeadRepo) FindAll(context.Context, queryparams.ListParams) ([]models.Lead, int64, error) {
	return r.leads, int64(len(r.leads)), nil
}

func (r *fakeLeadRepo) FindByID(_ context.Context, id uint) (*models.Lead, error) {
	for i := range r.leads {
		if r.leads[i].ID == id {
			l := r.leads[i]
			return &l, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeLeadRepo) FindOpenByEmail(_ context.Context, email string) (*models.Lead, error) {
	for i := len(r.leads) - 1; i >= 0; i-- {
		if r.leads[i].Email == email && r.leads[i].Status != models.LeadWon {
			l := r.leads[i]
			return &l, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeLeadRepo) Create(_ context.Context, lead *models.Lead) error {
	r.nextID++
	lead.ID = r.nextID
	r.leads = append(r.leads, *lead)
	return nil
}

func (r *fakeLeadRepo) UpdateStatus(_ context.Context, id uint, status models.LeadStatus) error {
	for i := range r.leads {
		if r.leads[i].ID == id {
			r.leads[i].Status = status
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeLeadRepo) AddNote(_ context.Context, note *models.LeadNote) error {
	r.notes = append(r.notes, *note)
	return nil
}

func (r *fakeLeadRepo) Delete(_ context.Context, id uint) error {
	for i := range r.leads {
		if r.leads[i].ID == id {
			r.leads = append(r.leads[:i], r.leads[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// fakeTransactor runs fn inline; an error from fn is returned as is.
type fakeTransactor struct{ calls int }

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeTemplateRepo struct {
	rows   []models.SiteTemplate
	nextID uint
}

func (r *fakeTemplateRepo) FindAll(context.Context) ([]models.SiteTemplate, error) {
	return r.rows, nil
}

func (r *fakeTemplateRepo) FindByID(_ context.Context, id uint) (*models.SiteTemplate, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			tpl := r.rows[i]
			return &tpl, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeTemplateRepo) FindByName(_ context.Context, name string) (*models.SiteTemplate, error) {
	for i := range r.rows {
		if r.rows[i].Name == name {
			tpl := r.rows[i]
			return &tpl, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeTemplateRepo) Create(_ context.Context, t *models.SiteTemplate) error {
	r.nextID++
	t.ID = r.nextID
	r.rows = append(r.rows, *t)
	return nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, id uint) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}
