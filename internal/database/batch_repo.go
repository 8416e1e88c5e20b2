package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/planitlabs/placecache/internal/models"
)

// BatchRepo memoizes the full resolved result set for one external
// video, independent of the per-place cache. Repeat requests for the
// same batch id skip per-candidate work entirely.
type BatchRepo struct {
	db *DB
}

func NewBatchRepo(db *DB) *BatchRepo {
	return &BatchRepo{db: db}
}

// GetBatch returns the memoized results for a batch id, or (nil, nil)
// when the batch has never been resolved. No TTL check happens here;
// stale batches are removed only by Cleanup.
func (r *BatchRepo) GetBatch(ctx context.Context, batchID string) ([]models.ResolvedPlace, error) {
	var data string
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT extraction_data FROM batch_cache WHERE batch_id = ?`, batchID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query batch: %w", err)
	}

	var places []models.ResolvedPlace
	if err := json.Unmarshal([]byte(data), &places); err != nil {
		return nil, fmt.Errorf("failed to unmarshal batch: %w", err)
	}
	return places, nil
}

// SaveBatch upserts the resolved result set for a batch id.
func (r *BatchRepo) SaveBatch(ctx context.Context, batchID string, places []models.ResolvedPlace) error {
	data, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}

	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO batch_cache (batch_id, extraction_data, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)`,
		batchID, string(data)); err != nil {
		return fmt.Errorf("failed to save batch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}
