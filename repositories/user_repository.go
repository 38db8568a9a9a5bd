package repositories

import (
	"context"
	"strings"

	"acenumerik.fr/configs"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/queryparams"

	"gorm.io/gorm"
)

// IUserRepository stores back-office accounts.
type IUserRepository interface {
	FindAll(ctx context.Context, params queryparams.ListParams) ([]models.User, int64, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// UserRepository implements IUserRepository with gorm.
type UserRepository struct {
	base IBaseRepository[models.User]
}

// NewUserRepository uses the shared connection.
func NewUserRepository() IUserRepository {
	return NewUserRepositoryTx(configs.GetDB())
}

// NewUserRepositoryTx binds the repository to tx.
func NewUserRepositoryTx(tx *gorm.DB) IUserRepository {
	base := NewBaseRepository[models.User](tx)
	base.SetAllowedSortColumns(map[string]string{
		"id": "id", "name": "name", "email": "email", "role": "role", "created_at": "created_at",
	}, "created_at")
	base.SetSearchColumns("name", "email")
	return &UserRepository{base: base}
}

// FindAll lists users, paginated.
func (r *UserRepository) FindAll(ctx context.Context, params queryparams.ListParams) ([]models.User, int64, error) {
	var scopes []Scope
	if params.Status != "" {
		scopes = append(scopes, WhereEq("role", params.Status))
	}
	return r.base.FindAll(ctx, params, scopes...)
}

// FindByID returns ErrNotFound for unknown ids.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.base.FindByID(ctx, id)
}

// FindByEmail normalizes email to lower case before matching.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.base.FindOne(ctx, WhereEq("email", strings.ToLower(strings.TrimSpace(email))))
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.base.Create(ctx, user)
}

// Update saves every column of user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.base.Update(ctx, user)
}

var _ IUserRepository = (*UserRepository)(nil)
