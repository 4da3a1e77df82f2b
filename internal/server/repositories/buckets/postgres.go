package buckets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/dbx"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
)

const columns = `id, user_id, name, storage, transfer, used, status, created_at`

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

func scanBucket(s scanner) (*models.Bucket, error) {
	b := &models.Bucket{PubKeys: []string{}}
	err := s.Scan(&b.ID, &b.UserID, &b.Name, &b.Storage, &b.Transfer, &b.Used, &b.Status, &b.Created)
	return b, err
}

func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || dbx.PgCode(err) == dbx.PgInvalidTextRepr
}

func (r *PostgresRepository) Create(ctx context.Context, b *models.Bucket) (*models.Bucket, error) {
	query :=
		`INSERT INTO buckets (user_id, name, storage, transfer, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING ` + columns

	created, err := scanBucket(r.db.QueryRowContext(ctx, query, b.UserID, b.Name, b.Storage, b.Transfer, b.Status))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Bucket, error) {
	query :=
		`SELECT ` + columns + ` FROM buckets
		 WHERE user_id = $1
		 ORDER BY created_at, name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Bucket{}
	for rows.Next() {
		b, err := scanBucket(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Bucket, error) {
	query := `SELECT ` + columns + ` FROM buckets WHERE id = $1`

	b, err := scanBucket(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM buckets WHERE id = $1`
	return r.execOne(ctx, query, common.ErrNotFound, id)
}

func (r *PostgresRepository) AddUsage(ctx context.Context, id string, delta int64) error {
	query :=
		`UPDATE buckets SET used = used + $2
		 WHERE id = $1 AND used + $2 <= storage AND used + $2 >= 0`
	return r.execOne(ctx, query, common.ErrQuotaExceeded, id, delta)
}

// execOne runs a statement expected to touch exactly one row and returns
// noRows when it touched none.
func (r *PostgresRepository) execOne(ctx context.Context, query string, noRows error, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if notFound(err) {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return noRows
	}
	return nil
}
