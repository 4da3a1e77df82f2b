// Package dbx holds the handle type shared by the postgres and sqlite
// repositories and the transaction helper the services run them under.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zeebo/errs"
)

// DBTX is satisfied by *sql.DB and *sql.Tx. In-memory repositories accept a
// nil DBTX and ignore it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Conn returns db as a DBTX. A nil db stays a nil interface so memory
// backends can tell the two apart.
func Conn(db *sql.DB) DBTX {
	if db == nil {
		return nil
	}
	return db
}

// WithTx runs fn inside a transaction on db. It commits when fn returns nil
// and rolls back otherwise; a panic in fn rolls back and is re-raised.
//
// With a nil db fn runs directly with a nil handle, which is how the
// memory repository manager is driven.
//
// Errors from fn are returned as is. A failed rollback is combined with
// the error from fn.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	if db == nil {
		return fn(ctx, nil)
	}

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			err = errs.Combine(err, rollback(tx))
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}

func rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback tx: %w", err)
	}
	return nil
}
