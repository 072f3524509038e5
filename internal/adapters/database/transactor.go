package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type txKey struct{}

// Transactor پیاده‌سازی ports/tx با تراکنش gorm
type Transactor struct {
	DB *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{DB: db}
}

// WithinTransaction runs fn inside db.Transaction. Repositories pick the
// transaction up from ctx; nested calls join the outer transaction.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, or db bound to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// forUpdate adds SELECT ... FOR UPDATE when ctx carries a transaction, so
// concurrent transitions on the same row serialize.
func forUpdate(ctx context.Context, q *gorm.DB) *gorm.DB {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// first runs q.First and maps a missing row to (false, nil).
func first(q *gorm.DB, dest interface{}) (bool, error) {
	err := q.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
