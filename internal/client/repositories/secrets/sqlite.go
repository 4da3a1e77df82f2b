package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, rec *models.KeyRingRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO keyring (file_id, ciphertext, nonce) VALUES (?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET ciphertext = excluded.ciphertext, nonce = excluded.nonce
	`, rec.FileID, rec.Ciphertext, rec.Nonce)
	if err != nil {
		return fmt.Errorf("failed to put secret[%s]: %w", rec.FileID, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, fileID string) (*models.KeyRingRecord, error) {
	rec := &models.KeyRingRecord{FileID: fileID}
	err := r.db.QueryRowContext(ctx, `SELECT ciphertext, nonce FROM keyring WHERE file_id = ?`, fileID).
		Scan(&rec.Ciphertext, &rec.Nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret[%s]: %w", fileID, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, fileID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM keyring WHERE file_id = ?`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete secret[%s]: %w", fileID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete secret[%s]: %w", fileID, err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT file_id FROM keyring ORDER BY file_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan secret row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate secret rows: %w", err)
	}
	return ids, nil
}
