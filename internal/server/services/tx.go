package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bridgekeeper/internal/dbx"
)

// withTx runs fn in a transaction when db is set and directly otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, db, nil, fn)
}

func conn(db *sql.DB) dbx.DBTX { return dbx.Conn(db) }
