// Package repositories opens the local key ring database and groups the
// repositories built on it. Two backends exist: SQLite (migrated with goose)
// and bbolt.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/migrations"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/repositories/secrets"
	"github.com/dmitrijs2005/bridgekeeper/internal/dbx"
	"github.com/pressly/goose/v3"
	"go.etcd.io/bbolt"

	_ "modernc.org/sqlite"
)

const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Repositories is the set of repositories sharing one database.
type Repositories struct {
	Metadata metadata.Repository
	Secrets  secrets.Repository

	withTx func(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error
	close  func() error
}

// WithTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (r *Repositories) WithTx(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
	return r.withTx(ctx, fn)
}

func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open opens the database of the given backend at path.
func Open(ctx context.Context, backend, path string) (*Repositories, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(ctx, path)
	case BackendBolt:
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("unknown key ring backend %q", backend)
	}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenSQLite opens the SQLite database at dsn and brings its schema up to
// date.
func OpenSQLite(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// a single connection keeps :memory: databases and transactions consistent
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}

	return newSQLite(db), nil
}

func newSQLite(db *sql.DB) *Repositories {
	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		Secrets:  secrets.NewSQLiteRepository(db),
		withTx: func(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
			return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
				return fn(ctx, &Repositories{
					Metadata: metadata.NewSQLiteRepository(tx),
					Secrets:  secrets.NewSQLiteRepository(tx),
					withTx: func(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
						return fmt.Errorf("nested transactions are not supported")
					},
				})
			})
		},
		close: db.Close,
	}
}

// OpenBolt opens (creating if needed) the bbolt database at path.
func OpenBolt(path string) (*Repositories, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{metadata.BucketName, secrets.BucketName} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create buckets in %s: %w", path, err)
	}

	return &Repositories{
		Metadata: metadata.NewBoltRepository(db, nil),
		Secrets:  secrets.NewBoltRepository(db, nil),
		withTx: func(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
			return db.Update(func(tx *bbolt.Tx) error {
				return fn(ctx, &Repositories{
					Metadata: metadata.NewBoltRepository(db, tx),
					Secrets:  secrets.NewBoltRepository(db, tx),
					withTx: func(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
						return fmt.Errorf("nested transactions are not supported")
					},
				})
			})
		},
		close: db.Close,
	}, nil
}
