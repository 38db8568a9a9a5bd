package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type contextKey string

// ContextUserIDKey carries the acting user id so hooks can fill the audit columns.
const ContextUserIDKey contextKey = "user_id"

// BaseModel is embedded by every uint-keyed table.
type BaseModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedBy *uint          `gorm:"index" json:"-"`
	UpdatedBy *uint          `gorm:"index" json:"-"`
}

// WithUserID returns a context carrying the acting user id.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, ContextUserIDKey, userID)
}

func userIDFromContext(ctx context.Context) *uint {
	if ctx == nil {
		return nil
	}
	if id, ok := ctx.Value(ContextUserIDKey).(uint); ok && id != 0 {
		return &id
	}
	return nil
}

// BeforeCreate stamps CreatedBy and UpdatedBy from the context user.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if id := userIDFromContext(tx.Statement.Context); id != nil {
		b.CreatedBy = id
		b.UpdatedBy = id
	}
	return nil
}

// BeforeUpdate stamps UpdatedBy from the context user.
func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if id := userIDFromContext(tx.Statement.Context); id != nil {
		b.UpdatedBy = id
	}
	return nil
}

// Base exposes the embedded audit columns to generic code.
func (b *BaseModel) Base() *BaseModel { return b }
