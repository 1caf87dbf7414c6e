package persistence

import (
	"context"

	"github.com/gestionale/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txContextKey struct{}

// GormUnitOfWork runs application-level use cases inside a single database
// transaction. The transactional handle travels in the context so every
// repository touched by the callback joins the same transaction.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a unit of work bound to the given connection
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithinTransaction executes fn inside a transaction. Nested calls reuse the
// transaction already present in the context.
func (u *GormUnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := txFromContext(ctx); tx != nil {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// conn returns the transactional handle from the context when present, the
// base connection otherwise. Every repository goes through this so writes
// issued inside a unit of work stay atomic.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

var _ shared.UnitOfWork = (*GormUnitOfWork)(nil)
