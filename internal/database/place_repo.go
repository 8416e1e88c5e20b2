package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/planitlabs/placecache/internal/models"
)

// PlaceRepo stores resolved places keyed by normalized name, plus the
// alias table that redirects near-duplicate keys to canonical ones.
type PlaceRepo struct {
	db *DB
}

func NewPlaceRepo(db *DB) *PlaceRepo {
	return &PlaceRepo{db: db}
}

// GetPlace returns the cached place for a normalized key, or (nil, nil)
// on a miss. A direct hit bumps access bookkeeping in the same
// transaction; an alias hit follows exactly one hop to the canonical
// record and does not touch bookkeeping.
func (r *PlaceRepo) GetPlace(ctx context.Context, key string) (*models.Place, error) {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT place_data FROM places_cache WHERE normalized_key = ?`, key).Scan(&data)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx,
			`UPDATE places_cache
			 SET accessed_at = CURRENT_TIMESTAMP,
			     access_count = access_count + 1
			 WHERE normalized_key = ?`, key); err != nil {
			return nil, fmt.Errorf("failed to update access stats: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit access update: %w", err)
		}
		return unmarshalPlace(data)

	case errors.Is(err, sql.ErrNoRows):
		err = tx.QueryRowContext(ctx,
			`SELECT p.place_data
			 FROM place_aliases a
			 JOIN places_cache p ON a.canonical_key = p.normalized_key
			 WHERE a.alias = ?`, key).Scan(&data)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query alias: %w", err)
		}
		return unmarshalPlace(data)

	default:
		return nil, fmt.Errorf("failed to query place: %w", err)
	}
}

// SavePlace upserts a place under its normalized key. Last writer wins;
// concurrent misses for the same new venue both resolve and the later
// write simply replaces the earlier identical one.
func (r *PlaceRepo) SavePlace(ctx context.Context, key string, place *models.Place) error {
	data, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("failed to marshal place: %w", err)
	}

	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO places_cache
		 (normalized_key, place_data, created_at, accessed_at, access_count)
		 VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, 1)`,
		key, string(data)); err != nil {
		return fmt.Errorf("failed to save place: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit place: %w", err)
	}
	return nil
}

// AddAlias upserts a redirect from a near-duplicate key to a canonical
// one. Aliases never own a record and resolution is a single hop, so a
// canonical key must never itself be recorded as an alias.
func (r *PlaceRepo) AddAlias(ctx context.Context, alias, canonical string, score float64) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO place_aliases
		 (alias, canonical_key, similarity_score, created_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		alias, canonical, score); err != nil {
		return fmt.Errorf("failed to save alias: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit alias: %w", err)
	}
	return nil
}

// KnownKeys returns every normalized key currently in the place cache.
func (r *PlaceRepo) KnownKeys(ctx context.Context) ([]string, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT normalized_key FROM places_cache`)
	if err != nil {
		return nil, fmt.Errorf("failed to query known keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keys: %w", err)
	}

	return keys, nil
}

func unmarshalPlace(data string) (*models.Place, error) {
	place := &models.Place{}
	if err := json.Unmarshal([]byte(data), place); err != nil {
		return nil, fmt.Errorf("failed to unmarshal place: %w", err)
	}
	return place, nil
}
