// Package server wires the dev bridge together: repositories, blob storage,
// services and the HTTP API.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/auth"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/config"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/services"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/storage"
	"github.com/zeebo/errs"
)

// Error is the error class for this package.
var Error = errs.Class("server")

var (
	openDB     = sql.Open
	newS3Store = storage.NewS3Store
	newManager = func() repomanager.RepositoryManager { return repomanager.NewPostgresRepositoryManager() }
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

// NewApp builds every component named by c and binds the listen address.
// With the postgres backend the database is migrated before NewApp returns.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	m, err := app.repositories(ctx)
	if err != nil {
		return nil, err
	}

	blobs, err := app.blobStore(ctx)
	if err != nil {
		app.closeDB()
		return nil, err
	}

	secret := []byte(c.SecretKey)
	// a used token is remembered for as long as it could still verify
	usedTokens := auth.NewReplayCache(c.TokenTTL)

	handler := httpapi.NewHandler(
		services.NewUserService(app.db, m),
		services.NewKeyService(app.db, m),
		services.NewBucketService(app.db, m, blobs, services.BucketOptions{
			DefaultStorage:  c.DefaultStorage,
			DefaultTransfer: c.DefaultTransfer,
			SecretKey:       secret,
			TokenTTL:        c.TokenTTL,
		}, logger),
		services.NewFileService(app.db, m, blobs, secret, usedTokens, os.TempDir(), logger),
		auth.NewReplayCache(c.NonceTTL),
		logger,
	)

	app.server, err = httpapi.NewServer(c.ListenAddr, handler, logger)
	if err != nil {
		app.closeDB()
		return nil, Error.Wrap(err)
	}
	return app, nil
}

func (app *App) repositories(ctx context.Context) (repomanager.RepositoryManager, error) {
	switch app.config.RepositoryBackend {
	case config.BackendMemory:
		return repomanager.NewMemoryRepositoryManager(), nil
	case config.BackendPostgres:
		db, err := openDB("pgx", app.config.DatabaseDSN)
		if err != nil {
			return nil, Error.Wrap(fmt.Errorf("db init error: %w", err))
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, Error.Wrap(fmt.Errorf("db ping error: %w", err))
		}
		m := newManager()
		if err := m.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, Error.Wrap(fmt.Errorf("migrations: %w", err))
		}
		app.db = db
		return m, nil
	default:
		return nil, Error.Wrap(fmt.Errorf("unknown repository backend %q", app.config.RepositoryBackend))
	}
}

func (app *App) blobStore(ctx context.Context) (storage.BlobStore, error) {
	switch app.config.BlobBackend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil
	case config.BackendS3:
		s, err := newS3Store(ctx, storage.S3Config{
			User:         app.config.S3RootUser,
			Password:     app.config.S3RootPassword,
			Bucket:       app.config.S3Bucket,
			Region:       app.config.S3Region,
			BaseEndpoint: app.config.S3BaseEndpoint,
		})
		if err != nil {
			return nil, Error.Wrap(fmt.Errorf("s3 init error: %w", err))
		}
		return s, nil
	default:
		return nil, Error.Wrap(fmt.Errorf("unknown blob backend %q", app.config.BlobBackend))
	}
}

// Addr is the bound listen address.
func (app *App) Addr() string {
	return app.server.Addr()
}

// Run serves until ctx is canceled, then shuts down and closes the database.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "starting dev bridge",
		"addr", app.server.Addr(),
		"repository", app.config.RepositoryBackend,
		"blobs", app.config.BlobBackend)

	err := app.server.Run(ctx)
	if cerr := app.closeDB(); cerr != nil {
		err = errs.Combine(err, cerr)
	}
	if err != nil {
		return Error.Wrap(err)
	}
	app.logger.Info(ctx, "dev bridge stopped")
	return nil
}

func (app *App) closeDB() error {
	if app.db == nil {
		return nil
	}
	err := app.db.Close()
	app.db = nil
	return err
}
