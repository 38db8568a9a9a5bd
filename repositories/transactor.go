package repositories

import (
	"context"

	"acenumerik.fr/configs"

	"gorm.io/gorm"
)

// ITransactor runs fn in one database transaction. Repositories called with
// the context passed to fn join that transaction.
type ITransactor interface {
	WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

// GormTransactor implements ITransactor on the shared connection.
type GormTransactor struct {
	db *gorm.DB
}

// NewTransactor uses the shared connection.
func NewTransactor() ITransactor {
	return &GormTransactor{db: configs.GetDB()}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return dbFromContext(ctx, t.db).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}

var _ ITransactor = (*GormTransactor)(nil)
