// Package archive keeps a SQLite history of every listing the pipeline has
// handled, plus per-run counters. The archive is reporting only; the dedup
// ledger remains the source of truth.
package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/cejezed/kavelarchitect/models"
)

type DB struct {
	*sql.DB
	path string
}

// Open opens or creates the archive database at the configured path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create archive dir: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	db := &DB{DB: sqlDB, path: path}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}
	return db, nil
}

func (db *DB) Path() string {
	return db.path
}

// Record upserts the terminal state of one listing, keyed by source URL.
func (db *DB) Record(entry models.ArchiveEntry) error {
	_, err := db.Exec(`
		INSERT INTO listings (
			listing_id, source_url, status, address, postal_code, place,
			province, price, surface, seo_title, seo_summary, article,
			map_path, lat, lon
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			listing_id = excluded.listing_id,
			status = excluded.status,
			address = excluded.address,
			postal_code = excluded.postal_code,
			place = excluded.place,
			province = excluded.province,
			price = excluded.price,
			surface = excluded.surface,
			seo_title = excluded.seo_title,
			seo_summary = excluded.seo_summary,
			article = excluded.article,
			map_path = excluded.map_path,
			lat = excluded.lat,
			lon = excluded.lon,
			updated_at = CURRENT_TIMESTAMP
	`, entry.ListingID, entry.SourceURL, entry.Status, entry.Address,
		entry.PostalCode, entry.Place, entry.Province, entry.Price,
		entry.Surface, entry.SEOTitle, entry.SEOSummary, entry.Article,
		entry.MapPath, entry.Lat, entry.Lon)
	if err != nil {
		return fmt.Errorf("failed to record listing: %w", err)
	}
	return nil
}

// List returns the most recently updated listings, optionally filtered by
// status. A limit of 0 means no limit.
func (db *DB) List(status string, limit int) ([]models.ArchiveEntry, error) {
	query := `
		SELECT listing_id, source_url, status, address, postal_code, place,
		       province, price, surface, seo_title, seo_summary, article,
		       map_path, lat, lon
		FROM listings`
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY updated_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var entries []models.ArchiveEntry
	for rows.Next() {
		var e models.ArchiveEntry
		if err := rows.Scan(&e.ListingID, &e.SourceURL, &e.Status, &e.Address,
			&e.PostalCode, &e.Place, &e.Province, &e.Price, &e.Surface,
			&e.SEOTitle, &e.SEOSummary, &e.Article, &e.MapPath,
			&e.Lat, &e.Lon); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats returns listing counts per status.
func (db *DB) Stats() (map[string]int, error) {
	rows, err := db.Query("SELECT status, COUNT(*) FROM listings GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}
	defer rows.Close()

	stats := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// StartRun opens a run row and returns its id.
func (db *DB) StartRun() (int64, error) {
	result, err := db.Exec("INSERT INTO runs DEFAULT VALUES")
	if err != nil {
		return 0, fmt.Errorf("failed to start run: %w", err)
	}
	return result.LastInsertId()
}

// FinishRun closes a run row with its outcome counters.
func (db *DB) FinishRun(runID int64, published, duplicates, skipped, failed int) error {
	_, err := db.Exec(`
		UPDATE runs
		SET finished_at = CURRENT_TIMESTAMP,
		    published = ?, duplicates = ?, skipped = ?, failed = ?
		WHERE run_id = ?
	`, published, duplicates, skipped, failed, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RunCount returns the number of recorded runs.
func (db *DB) RunCount() (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}
