/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "scriptpress/internal/log"
	"scriptpress/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	HistoryFileName = "history.sqlite"

	// schemaVersion tracks the local SQLite schema.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// Export statuses.
const (
	StatusOK       = "ok"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
)

// ExportRecord is one export run.
type ExportRecord struct {
	ID        int64
	Source    string
	Output    string
	Format    string
	Profile   string
	Pages     int
	Status    string
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

// History is the export history database.
type History struct {
	db   *sql.DB
	path string
}

// HistoryPath returns the database file inside dir.
func HistoryPath(dir string) string {
	return filepath.Join(dir, HistoryFileName)
}

// OpenHistory ensures that the history database exists in dir, opens it,
// enables WAL mode and brings the schema up to date.
func OpenHistory(dir string) (*History, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "history_open").With(
		slog.String("dir", dir),
	)
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("history directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.Error("create history dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	path := HistoryPath(dir)
	// Convert to forward slashes for the SQLite URI.
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure history schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Debug("history ready", slog.String("path", path))
	return &History{db: db, path: path}, nil
}

// Close closes the database.
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// Path is the database file path.
func (h *History) Path() string { return h.path }

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// keep the stored schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS exports (
			id          INTEGER PRIMARY KEY,
			source      TEXT    NOT NULL,
			output      TEXT    NOT NULL,
			format      TEXT    NOT NULL,
			profile     TEXT    NOT NULL,
			pages       INTEGER NOT NULL DEFAULT 0,
			status      TEXT    NOT NULL,
			error       TEXT,
			started_at  TEXT    NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure history schema: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// never downgrade
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_exports_started ON exports(started_at);`,
				`CREATE INDEX IF NOT EXISTS idx_exports_source ON exports(source);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
		}
		cur = next
	}
	return nil
}

// RecordExport stores one export run and sets rec.ID on success.
func (h *History) RecordExport(ctx context.Context, rec *ExportRecord) error {
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	if rec.Status == "" {
		rec.Status = StatusOK
	}
	res, err := h.db.ExecContext(ctx,
		`INSERT INTO exports(source, output, format, profile, pages, status, error, started_at, duration_ms)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Source, rec.Output, rec.Format, rec.Profile, rec.Pages, rec.Status, rec.Error,
		rec.StartedAt.UTC().Format(time.RFC3339Nano), rec.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert export: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("export id: %w", err)
	}
	rec.ID = id
	return nil
}

// ListExports returns up to limit runs, newest first. limit <= 0 returns all.
func (h *History) ListExports(ctx context.Context, limit int) ([]ExportRecord, error) {
	q := `SELECT id, source, output, format, profile, pages, status, COALESCE(error, ''), started_at, duration_ms
		FROM exports ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return h.query(ctx, q, args...)
}

// LastExport returns the newest run for source.
func (h *History) LastExport(ctx context.Context, source string) (ExportRecord, bool, error) {
	recs, err := h.query(ctx, `SELECT id, source, output, format, profile, pages, status, COALESCE(error, ''), started_at, duration_ms
		FROM exports WHERE source = ? ORDER BY started_at DESC, id DESC LIMIT 1`, source)
	if err != nil || len(recs) == 0 {
		return ExportRecord{}, false, err
	}
	return recs[0], true, nil
}

// Prune keeps the newest keep runs and deletes the rest.
func (h *History) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := h.db.ExecContext(ctx,
		`DELETE FROM exports WHERE id NOT IN (SELECT id FROM exports ORDER BY started_at DESC, id DESC LIMIT ?)`, max(keep, 0))
	if err != nil {
		return 0, fmt.Errorf("prune exports: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (h *History) query(ctx context.Context, q string, args ...any) ([]ExportRecord, error) {
	rows, err := h.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()
	var out []ExportRecord
	for rows.Next() {
		var (
			rec     ExportRecord
			started string
			ms      int64
		)
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Output, &rec.Format, &rec.Profile, &rec.Pages,
			&rec.Status, &rec.Error, &started, &ms); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			rec.StartedAt = t
		}
		rec.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return out, nil
}

// CheckAndRepair runs an integrity check on the history in dir. A database
// that cannot be opened or fails the check is backed up and recreated. It
// reports whether a rebuild happened.
func CheckAndRepair(ctx context.Context, dir string) (bool, error) {
	path := HistoryPath(dir)
	h, err := OpenHistory(dir)
	if err == nil {
		var chk string
		qerr := h.db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk)
		_ = h.Close()
		if qerr == nil && strings.Contains(strings.ToLower(chk), "ok") {
			return false, nil
		}
	}
	backupFile(path)
	_ = os.Remove(path)
	_ = os.Remove(path + "-wal")
	_ = os.Remove(path + "-shm")
	h, err = OpenHistory(dir)
	if err != nil {
		return false, fmt.Errorf("recreate history: %w", err)
	}
	return true, h.Close()
}

// backupFile copies a database file into a timestamped backup next to it.
func backupFile(path string) {
	bdir := filepath.Join(filepath.Dir(path), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(path), stamp))
	if data, err := os.ReadFile(path); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}
