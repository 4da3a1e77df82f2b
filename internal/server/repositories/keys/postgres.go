package keys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/dbx"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, userID, key string) error {
	query := `INSERT INTO public_keys (key, user_id) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, key, userID); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.PublicKey, error) {
	query :=
		`SELECT key, user_id FROM public_keys
		 WHERE user_id = $1
		 ORDER BY created_at, key`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.PublicKey{}
	for rows.Next() {
		var k models.PublicKey
		if err := rows.Scan(&k.Key, &k.UserID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, key string) (*models.PublicKey, error) {
	query := `SELECT key, user_id FROM public_keys WHERE key = $1`

	k := &models.PublicKey{}
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&k.Key, &k.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return k, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, key string) error {
	query := `DELETE FROM public_keys WHERE user_id = $1 AND key = $2`

	res, err := r.db.ExecContext(ctx, query, userID, key)
	if err != nil {
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
