// Package store persists classification verdicts keyed by username, the
// server-side counterpart of the browser cache the web UI keeps. A stale or
// missing row just means the analysis is recomputed.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"toxicheck/internal/model"
)

// Cache wraps a SQLite database holding one verdict per username.
type Cache struct {
	sql *sql.DB
	ttl time.Duration
}

// Open opens (creating if needed) the cache at path. ttl <= 0 disables
// expiry.
func Open(path string, ttl time.Duration) (*Cache, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		return nil, err
	}
	c := &Cache{sql: d, ttl: ttl}
	if err := c.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) Close() error { return c.sql.Close() }

func (c *Cache) migrate() error {
	_, err := c.sql.Exec(`
	CREATE TABLE IF NOT EXISTS verdicts (
	  username TEXT PRIMARY KEY,
	  report TEXT NOT NULL,
	  created_at INTEGER NOT NULL
	);
	`)
	return err
}

// Get returns the cached verdict for username, if present and fresh.
func (c *Cache) Get(ctx context.Context, username string) (*model.Report, bool, error) {
	row := c.sql.QueryRowContext(ctx, `SELECT report, created_at FROM verdicts WHERE username=?`, username)
	var raw string
	var created int64
	if err := row.Scan(&raw, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if c.ttl > 0 && time.Since(time.Unix(created, 0)) > c.ttl {
		return nil, false, nil
	}
	var report model.Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, false, err
	}
	return &report, true, nil
}

// Put stores or replaces the verdict for username.
func (c *Cache) Put(ctx context.Context, username string, report model.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	_, err = c.sql.ExecContext(ctx,
		`INSERT INTO verdicts(username, report, created_at) VALUES(?,?,?)
		 ON CONFLICT(username) DO UPDATE SET report=excluded.report, created_at=excluded.created_at`,
		username, string(raw), time.Now().Unix())
	return err
}
