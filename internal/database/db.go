// Package database implements the persistent place cache on SQLite:
// resolved places, name aliases, and whole-batch extraction results.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	conn *sql.DB
}

// NewDB opens (or creates) the cache database at the given path and
// ensures the schema exists.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=10000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

func (db *DB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS places_cache (
		normalized_key TEXT PRIMARY KEY,
		place_data     TEXT NOT NULL,
		created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		accessed_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		access_count   INTEGER DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS place_aliases (
		alias            TEXT PRIMARY KEY,
		canonical_key    TEXT NOT NULL,
		similarity_score REAL NOT NULL,
		created_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS batch_cache (
		batch_id        TEXT PRIMARY KEY,
		extraction_data TEXT NOT NULL,
		created_at      TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_places_accessed ON places_cache(accessed_at);
	CREATE INDEX IF NOT EXISTS idx_aliases_canonical ON place_aliases(canonical_key);
	`

	_, err := db.conn.Exec(schema)
	return err
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Conn() *sql.DB {
	return db.conn
}

// CleanupResult reports how many rows a cleanup pass removed.
type CleanupResult struct {
	PlacesDeleted  int64 `json:"places_deleted"`
	BatchesDeleted int64 `json:"batches_deleted"`
}

// Cleanup deletes place rows not accessed within maxAgeDays and batch
// rows created before the same cutoff. Alias rows are left alone; an
// alias pointing at a deleted canonical key simply stops resolving.
func (db *DB) Cleanup(ctx context.Context, maxAgeDays int) (*CleanupResult, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cutoff := fmt.Sprintf("-%d days", maxAgeDays)

	placesRes, err := tx.ExecContext(ctx,
		`DELETE FROM places_cache WHERE accessed_at < datetime('now', ?)`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to delete old places: %w", err)
	}

	batchesRes, err := tx.ExecContext(ctx,
		`DELETE FROM batch_cache WHERE created_at < datetime('now', ?)`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to delete old batches: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cleanup: %w", err)
	}

	result := &CleanupResult{}
	result.PlacesDeleted, _ = placesRes.RowsAffected()
	result.BatchesDeleted, _ = batchesRes.RowsAffected()
	return result, nil
}

// CacheStats summarizes cache contents for monitoring.
type CacheStats struct {
	TotalPlaces       int `json:"total_cached_places"`
	TotalBatches      int `json:"total_batch_caches"`
	TotalAliases      int `json:"total_aliases"`
	RecentAccesses24h int `json:"recent_accesses_24h"`
}

// Stats counts cached places, batches, aliases, and places accessed in
// the last 24 hours.
func (db *DB) Stats(ctx context.Context) (*CacheStats, error) {
	st := &CacheStats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{`SELECT COUNT(*) FROM places_cache`, &st.TotalPlaces},
		{`SELECT COUNT(*) FROM batch_cache`, &st.TotalBatches},
		{`SELECT COUNT(*) FROM place_aliases`, &st.TotalAliases},
		{`SELECT COUNT(*) FROM places_cache WHERE accessed_at > datetime('now', '-1 day')`, &st.RecentAccesses24h},
	}

	for _, q := range queries {
		if err := db.conn.QueryRowContext(ctx, q.sql).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("failed to gather cache stats: %w", err)
		}
	}

	return st, nil
}
