package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/dbx"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
)

const columns = `id, bucket_id, filename, mimetype, size, blob_key, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*models.File, error) {
	f := &models.File{}
	err := s.Scan(&f.ID, &f.BucketID, &f.Filename, &f.Mimetype, &f.Size, &f.BlobKey, &f.Created)
	return f, err
}

func (r *PostgresRepository) Create(ctx context.Context, f *models.File) (*models.File, error) {
	query :=
		`INSERT INTO files (bucket_id, filename, mimetype, size, blob_key)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING ` + columns

	created, err := scanFile(r.db.QueryRowContext(ctx, query, f.BucketID, f.Filename, f.Mimetype, f.Size, f.BlobKey))
	if err != nil {
		if dbx.PgCode(err) == dbx.PgForeignKeyViolation {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) ListByBucket(ctx context.Context, bucketID string) ([]models.File, error) {
	query :=
		`SELECT ` + columns + ` FROM files
		 WHERE bucket_id = $1
		 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, bucketID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, bucketID, id string) (*models.File, error) {
	query := `SELECT ` + columns + ` FROM files WHERE bucket_id = $1 AND id = $2`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, bucketID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.PgCode(err) == dbx.PgInvalidTextRepr {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, bucketID, id string) error {
	query := `DELETE FROM files WHERE bucket_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, bucketID, id)
	if err != nil {
		if dbx.PgCode(err) == dbx.PgInvalidTextRepr {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
