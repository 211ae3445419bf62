package tx

import (
	"context"
	"database/sql"
	"fmt"
)

// Manager wraps transactional boundaries for multi-adapter operations.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// DBTX is the subset of *sql.DB and *sql.Tx the store adapters use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// SQLManager runs fn inside a database transaction carried by the context.
// Nested calls join the outer transaction.
type SQLManager struct {
	DB *sql.DB
}

func (m SQLManager) Within(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	sqlTx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, sqlTx)); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Executor returns the transaction stored in ctx, or db when there is none.
func Executor(ctx context.Context, db *sql.DB) DBTX {
	if sqlTx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return sqlTx
	}
	return db
}

// Active reports whether ctx carries a transaction.
func Active(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok
}
