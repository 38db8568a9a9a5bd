package repositories

import (
	"context"
	"strings"

	"acenumerik.fr/configs"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/queryparams"

	"gorm.io/gorm"
)

// ILeadRepository stores leads and their notes.
type ILeadRepository interface {
	FindAll(ctx context.Context, params queryparams.ListParams) ([]models.Lead, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Lead, error)
	FindOpenByEmail(ctx context.Context, email string) (*models.Lead, error)
	Create(ctx context.Context, lead *models.Lead) error
	UpdateStatus(ctx context.Context, id uint, status models.LeadStatus) error
	AddNote(ctx context.Context, note *models.LeadNote) error
	Delete(ctx context.Context, id uint) error
}

// LeadRepository implements ILeadRepository with gorm.
type LeadRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Lead]
}

// NewLeadRepository uses the shared connection.
func NewLeadRepository() ILeadRepository {
	return NewLeadRepositoryTx(configs.GetDB())
}

// NewLeadRepositoryTx binds the repository to tx.
func NewLeadRepositoryTx(tx *gorm.DB) ILeadRepository {
	base := NewBaseRepository[models.Lead](tx)
	base.SetAllowedSortColumns(map[string]string{
		"id": "id", "name": "name", "status": "status", "source": "source", "created_at": "created_at",
	}, "created_at")
	base.SetSearchColumns("name", "email", "company")
	return &LeadRepository{db: tx, base: base}
}

// FindAll lists leads, paginated, with status and search filters.
func (r *LeadRepository) FindAll(ctx context.Context, params queryparams.ListParams) ([]models.Lead, int64, error) {
	var scopes []Scope
	if params.Status != "" {
		scopes = append(scopes, WhereEq("status", params.Status))
	}
	return r.base.FindAll(ctx, params, scopes...)
}

// FindByID loads a lead with its notes, newest first.
func (r *LeadRepository) FindByID(ctx context.Context, id uint) (*models.Lead, error) {
	return r.base.FindByID(ctx, id, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") })
	})
}

// FindOpenByEmail returns the most recent lead for email that is not won.
func (r *LeadRepository) FindOpenByEmail(ctx context.Context, email string) (*models.Lead, error) {
	return r.base.FindOne(ctx,
		WhereEq("LOWER(email)", strings.ToLower(strings.TrimSpace(email))),
		func(db *gorm.DB) *gorm.DB { return db.Where("status <> ?", models.LeadWon).Order("created_at desc") },
	)
}

// Create inserts a new lead.
func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	return r.base.Create(ctx, lead)
}

// UpdateStatus sets the pipeline stage of lead id.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id uint, status models.LeadStatus) error {
	return r.base.UpdateFields(ctx, id, map[string]any{"status": status})
}

// AddNote appends a note to an existing lead.
func (r *LeadRepository) AddNote(ctx context.Context, note *models.LeadNote) error {
	return dbFromContext(ctx, r.db).Create(note).Error
}

// Delete soft-deletes lead id.
func (r *LeadRepository) Delete(ctx context.Context, id uint) error {
	return r.base.Delete(ctx, id)
}

var _ ILeadRepository = (*LeadRepository)(nil)
