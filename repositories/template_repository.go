package repositories

import (
	"context"

	"acenumerik.fr/configs"
	"acenumerik.fr/models"

	"gorm.io/gorm"
)

// ITemplateRepository stores named section snapshots.
type ITemplateRepository interface {
	FindAll(ctx context.Context) ([]models.SiteTemplate, error)
	FindByID(ctx context.Context, id uint) (*models.SiteTemplate, error)
	FindByName(ctx context.Context, name string) (*models.SiteTemplate, error)
	Create(ctx context.Context, t *models.SiteTemplate) error
	Delete(ctx context.Context, id uint) error
}

// TemplateRepository implements ITemplateRepository with gorm.
type TemplateRepository struct {
	base IBaseRepository[models.SiteTemplate]
}

// NewTemplateRepository uses the shared connection.
func NewTemplateRepository() ITemplateRepository {
	return NewTemplateRepositoryTx(configs.GetDB())
}

// NewTemplateRepositoryTx binds the repository to tx.
func NewTemplateRepositoryTx(tx *gorm.DB) ITemplateRepository {
	return &TemplateRepository{base: NewBaseRepository[models.SiteTemplate](tx)}
}

// FindAll lists templates by name.
func (r *TemplateRepository) FindAll(ctx context.Context) ([]models.SiteTemplate, error) {
	return r.base.FindAllUnpaginated(ctx, "name asc")
}

// FindByID returns ErrNotFound for unknown ids.
func (r *TemplateRepository) FindByID(ctx context.Context, id uint) (*models.SiteTemplate, error) {
	return r.base.FindByID(ctx, id)
}

// FindByName is used to keep template names unique.
func (r *TemplateRepository) FindByName(ctx context.Context, name string) (*models.SiteTemplate, error) {
	return r.base.FindOne(ctx, WhereEq("name", name))
}

// Create inserts a new template.
func (r *TemplateRepository) Create(ctx context.Context, t *models.SiteTemplate) error {
	return r.base.Create(ctx, t)
}

// Delete removes template id.
func (r *TemplateRepository) Delete(ctx context.Context, id uint) error {
	return r.base.Delete(ctx, id)
}

var _ ITemplateRepository = (*TemplateRepository)(nil)
