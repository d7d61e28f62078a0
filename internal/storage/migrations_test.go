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
	"os"
	"testing"
	"time"
)

// TestMigrations_UpgradeV1ToV2 ensures that a schema=1 history gains the export indexes.
func TestMigrations_UpgradeV1ToV2(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	db := openRaw(t, dir)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT NOT NULL);`,
		`CREATE TABLE IF NOT EXISTS version (id INTEGER PRIMARY KEY CHECK(id=1), schema INTEGER NOT NULL, app TEXT, created_at TEXT NOT NULL, updated_at TEXT NOT NULL);`,
		`INSERT INTO version(id, schema, app, created_at, updated_at) VALUES(1, 1, 'test', '2020-01-01T00:00:00Z', '2020-01-01T00:00:00Z');`,
		`CREATE TABLE IF NOT EXISTS exports (id INTEGER PRIMARY KEY, source TEXT NOT NULL, output TEXT NOT NULL, format TEXT NOT NULL, profile TEXT NOT NULL, pages INTEGER NOT NULL DEFAULT 0, status TEXT NOT NULL, error TEXT, started_at TEXT NOT NULL, duration_ms INTEGER NOT NULL DEFAULT 0);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			t.Fatalf("seed v1 schema: %v (q=%s)", err, q)
		}
	}
	db.Close()

	h, err := OpenHistory(dir)
	if err != nil {
		t.Fatalf("OpenHistory after v1 seed: %v", err)
	}
	defer h.Close()
	var schema int
	if err := h.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("expected schema %d, got %d", schemaVersion, schema)
	}
	var cnt int
	if err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name IN ('idx_exports_started','idx_exports_source')`).Scan(&cnt); err != nil {
		t.Fatalf("query indexes: %v", err)
	}
	if cnt != 2 {
		t.Fatalf("expected 2 indexes after migration, got %d", cnt)
	}
}
