package repository

import (
	"context"
	"database/sql"
)

// dbtx is the subset of *sql.DB and *sql.Tx used by repositories, so a
// query can run either on the pool or inside a transaction carried in
// the context.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// WithTx runs fn inside a database transaction.  The transaction is
// stored in the context passed to fn, and every repository method
// called with that context joins it.  When fn returns an error the
// transaction is rolled back, otherwise it is committed.  Nested calls
// reuse the transaction already in flight.
func WithTx(ctx context.Context, db *sql.DB, fn func(context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// q returns the executor for the current context: the transaction when
// one is in flight, the pool otherwise.
func q(ctx context.Context, db *sql.DB) dbtx {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}
