package repositories

import (
	"context"
	"encoding/json"
	"strings"

	"acenumerik.fr/configs"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/queryparams"

	"gorm.io/gorm"
)

// CVFilter narrows the CV library listing.
type CVFilter struct {
	JobID  uint
	Status models.CVStatus
	Skill  string
}

// ICVRepository stores job applications.
type ICVRepository interface {
	FindAll(ctx context.Context, filter CVFilter, params queryparams.ListParams) ([]models.CV, int64, error)
	FindByID(ctx context.Context, id uint) (*models.CV, error)
	Create(ctx context.Context, cv *models.CV) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

// CVRepository implements ICVRepository with gorm.
type CVRepository struct {
	base IBaseRepository[models.CV]
}

// NewCVRepository uses the shared connection.
func NewCVRepository() ICVRepository {
	return NewCVRepositoryTx(configs.GetDB())
}

// NewCVRepositoryTx binds the repository to tx.
func NewCVRepositoryTx(tx *gorm.DB) ICVRepository {
	base := NewBaseRepository[models.CV](tx)
	base.SetAllowedSortColumns(map[string]string{
		"id": "id", "candidate_name": "candidate_name", "status": "status", "created_at": "created_at",
	}, "created_at")
	base.SetSearchColumns("candidate_name", "email", "headline")
	return &CVRepository{base: base}
}

// FindAll lists CVs matching filter, newest first by default.
func (r *CVRepository) FindAll(ctx context.Context, filter CVFilter, params queryparams.ListParams) ([]models.CV, int64, error) {
	scopes := []Scope{Preload("Job")}
	if filter.JobID != 0 {
		scopes = append(scopes, WhereEq("job_id", filter.JobID))
	}
	if filter.Status != "" {
		scopes = append(scopes, WhereEq("status", filter.Status))
	}
	if skill := strings.ToLower(strings.TrimSpace(filter.Skill)); skill != "" {
		needle, _ := json.Marshal([]string{skill})
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("LOWER(skills::text)::jsonb @> ?::jsonb", string(needle))
		})
	}
	return r.base.FindAll(ctx, params, scopes...)
}

// FindByID loads a CV with its job.
func (r *CVRepository) FindByID(ctx context.Context, id uint) (*models.CV, error) {
	return r.base.FindByID(ctx, id, Preload("Job"))
}

// Create inserts a new CV.
func (r *CVRepository) Create(ctx context.Context, cv *models.CV) error {
	return r.base.Create(ctx, cv)
}

// UpdateFields updates only the given columns of CV id.
func (r *CVRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	return r.base.UpdateFields(ctx, id, fields)
}

// Delete removes CV id.
func (r *CVRepository) Delete(ctx context.Context, id uint) error {
	return r.base.Delete(ctx, id)
}

var _ ICVRepository = (*CVRepository)(nil)
