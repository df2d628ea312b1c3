// Package store caches built metrics tables in SQLite, keyed by the
// fingerprint of the dataset they were built from.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"worldmap/internal/geom"
)

const schema = `
CREATE TABLE IF NOT EXISTS datasets (
	fingerprint TEXT PRIMARY KEY,
	row_count   INTEGER NOT NULL,
	built_at    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS metrics (
	fingerprint TEXT    NOT NULL,
	seq         INTEGER NOT NULL,
	id          TEXT    NOT NULL,
	x           REAL    NOT NULL,
	y           REAL    NOT NULL,
	area        REAL    NOT NULL,
	width       REAL    NOT NULL,
	height      REAL    NOT NULL,
	PRIMARY KEY (fingerprint, seq)
);`

type Store struct {
	db *sql.DB
}

// Open creates the database file and its directory when missing.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir cache dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Get returns the table stored under fp in its original order. ok is false
// when nothing was stored; an empty stored table is still a hit.
func (s *Store) Get(ctx context.Context, fp string) (table []geom.FeatureMetric, ok bool, err error) {
	var n int
	err = s.db.QueryRowContext(ctx, `SELECT row_count FROM datasets WHERE fingerprint = ?`, fp).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup %s: %w", fp, err)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, x, y, area, width, height
		FROM metrics
		WHERE fingerprint = ?
		ORDER BY seq`, fp)
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", fp, err)
	}
	defer rows.Close()
	table = make([]geom.FeatureMetric, 0, n)
	for rows.Next() {
		var m geom.FeatureMetric
		if err := rows.Scan(&m.ID, &m.X, &m.Y, &m.Area, &m.Width, &m.Height); err != nil {
			return nil, false, fmt.Errorf("load %s: %w", fp, err)
		}
		table = append(table, m)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("load %s: %w", fp, err)
	}
	return table, true, nil
}

// Put replaces whatever was stored under fp.
func (s *Store) Put(ctx context.Context, fp string, table []geom.FeatureMetric) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM metrics WHERE fingerprint = ?`, fp); err != nil {
		return fmt.Errorf("clear %s: %w", fp, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO datasets (fingerprint, row_count, built_at) VALUES (?, ?, ?)
		ON CONFLICT (fingerprint) DO UPDATE SET row_count = excluded.row_count, built_at = excluded.built_at`,
		fp, len(table), time.Now().Unix()); err != nil {
		return fmt.Errorf("save %s: %w", fp, err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO metrics (fingerprint, seq, id, x, y, area, width, height)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, m := range table {
		if _, err := stmt.ExecContext(ctx, fp, i, m.ID, m.X, m.Y, m.Area, m.Width, m.Height); err != nil {
			return fmt.Errorf("save %s row %d: %w", fp, i, err)
		}
	}
	return tx.Commit()
}

// Metrics returns the table for records, building and storing it on a miss.
// hit reports whether the cache served it.
func (s *Store) Metrics(ctx context.Context, records []geom.PathRecord) (table []geom.FeatureMetric, hit bool, err error) {
	fp := geom.Fingerprint(records)
	table, hit, err = s.Get(ctx, fp)
	if err != nil || hit {
		return table, hit, err
	}
	table = geom.MetricsFromPaths(records)
	if err := s.Put(ctx, fp, table); err != nil {
		return nil, false, err
	}
	return table, false, nil
}
