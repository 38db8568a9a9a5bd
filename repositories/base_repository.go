package repositories

import (
	"context"
	"errors"
	"strings"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned for gorm.ErrRecordNotFound.
var ErrNotFound = errors.New("enregistrement introuvable")

type txKey struct{}

// WithTx makes repositories built without an explicit tx join the transaction.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

// Scope narrows a query; scopes compose in order.
type Scope = func(*gorm.DB) *gorm.DB

// IBaseRepository is the CRUD surface shared by simple tables.
type IBaseRepository[T any] interface {
	FindAll(ctx context.Context, params queryparams.ListParams, scopes ...Scope) ([]T, int64, error)
	FindAllUnpaginated(ctx context.Context, order string, scopes ...Scope) ([]T, error)
	FindByID(ctx context.Context, id uint, scopes ...Scope) (*T, error)
	FindOne(ctx context.Context, scopes ...Scope) (*T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, scopes ...Scope) (int64, error)
	SetAllowedSortColumns(columns map[string]string, fallback string)
	SetSearchColumns(columns ...string)
}

// BaseRepository implements IBaseRepository with gorm.
type BaseRepository[T any] struct {
	db                 *gorm.DB
	allowedSortColumns map[string]string
	defaultSort        string
	searchColumns      []string
}

// NewBaseRepository returns a repository sorting by created_at until SetAllowedSortColumns is called.
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{
		db:                 db,
		allowedSortColumns: map[string]string{"id": "id", "created_at": "created_at"},
		defaultSort:        "created_at",
	}
}

func (r *BaseRepository[T]) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// SetAllowedSortColumns sets the sortable columns and the fallback order.
func (r *BaseRepository[T]) SetAllowedSortColumns(columns map[string]string, fallback string) {
	r.allowedSortColumns = columns
	r.defaultSort = fallback
}

// SetSearchColumns lists the columns matched case-insensitively by ListParams.Search.
func (r *BaseRepository[T]) SetSearchColumns(columns ...string) {
	r.searchColumns = columns
}

func (r *BaseRepository[T]) searchScope(term string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(r.searchColumns) == 0 {
			return db
		}
		like := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(r.searchColumns))
		args := make([]any, len(r.searchColumns))
		for i, col := range r.searchColumns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = like
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// FindAll returns one page of rows and the total count.
func (r *BaseRepository[T]) FindAll(ctx context.Context, params queryparams.ListParams, scopes ...Scope) ([]T, int64, error) {
	params.Validate()
	var results []T
	var total int64

	query := r.getDB(ctx).Model(new(T)).Scopes(scopes...).Scopes(r.searchScope(params.Search))
	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("BaseRepository.FindAll count failed", zap.Error(err))
		return nil, 0, err
	}
	if total == 0 {
		return []T{}, 0, nil
	}

	fallback := r.defaultSort
	if col, ok := r.allowedSortColumns[fallback]; ok {
		fallback = col
	}
	err := query.
		Order(params.OrderClause(r.allowedSortColumns, fallback)).
		Limit(params.PerPage).
		Offset(params.CalculateOffset()).
		Find(&results).Error
	if err != nil {
		configslog.Log.Error("BaseRepository.FindAll failed", zap.Error(err))
		return nil, total, err
	}
	return results, total, nil
}

// FindAllUnpaginated returns every matching row in order.
func (r *BaseRepository[T]) FindAllUnpaginated(ctx context.Context, order string, scopes ...Scope) ([]T, error) {
	var results []T
	query := r.getDB(ctx).Scopes(scopes...)
	if order != "" {
		query = query.Order(order)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// FindByID returns ErrNotFound when no row matches.
func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint, scopes ...Scope) (*T, error) {
	var entity T
	err := r.getDB(ctx).Scopes(scopes...).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindOne returns the first row matching scopes.
func (r *BaseRepository[T]) FindOne(ctx context.Context, scopes ...Scope) (*T, error) {
	var entity T
	err := r.getDB(ctx).Scopes(scopes...).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// Create inserts entity and fills its primary key.
func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.getDB(ctx).Create(entity).Error
}

// Update saves every column of entity.
func (r *BaseRepository[T]) Update(ctx context.Context, entity *T) error {
	return r.getDB(ctx).Save(entity).Error
}

// UpdateFields updates only the given columns of row id.
func (r *BaseRepository[T]) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	result := r.getDB(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft-deletes row id.
func (r *BaseRepository[T]) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of rows matching scopes.
func (r *BaseRepository[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var total int64
	err := r.getDB(ctx).Model(new(T)).Scopes(scopes...).Count(&total).Error
	return total, err
}

// Common scopes.

// WhereEq filters on column = value.
func WhereEq(column string, value any) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where(column+" = ?", value) }
}

// Preload loads an association.
func Preload(assoc string) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Preload(assoc) }
}
