/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lastJSONLine(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var last string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log %q: %v", last, err)
	}
	return m
}

func TestInitWritesRotatedJSONFile(t *testing.T) {
	t.Cleanup(func() { Init(Options{Output: &bytes.Buffer{}}) })
	fpath := filepath.Join(t.TempDir(), "scriptpress.log")
	var console bytes.Buffer
	Init(Options{Level: "debug", Format: "json", File: fpath, Output: &console})

	l := WithOperation(WithComponent("export"), "render")
	l.Info("rendered", slog.String("format", "pdf"))

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	m := lastJSONLine(t, b)
	if m["app"] != "scriptpress" {
		t.Fatalf("missing app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "export" || m["op"] != "render" || m["format"] != "pdf" {
		t.Fatalf("attrs mismatch: %v", m)
	}
	// the stream handler gets the same record
	if c := lastJSONLine(t, console.Bytes()); c["msg"] != "rendered" {
		t.Fatalf("console stream mismatch: %v", c)
	}
}

func TestInitConsoleFiltersLevel(t *testing.T) {
	t.Cleanup(func() { Init(Options{Output: &bytes.Buffer{}}) })
	var buf bytes.Buffer
	Init(Options{Level: "warning", Output: &buf})
	WithComponent("paginate").Info("hidden")
	WithComponent("paginate").Warn("block could not be kept together", slog.Int("index", 7))
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "WRN [paginate] block could not be kept together index=7") {
		t.Fatalf("unexpected console line: %q", out)
	}
	if strings.Contains(out, "app=") {
		t.Fatalf("static attrs should not reach the console: %q", out)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvSource, "TRUE")
	t.Setenv(EnvFile, "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if v := getenv("SPR_SURELY_UNSET_VAR", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback failed: %q", v)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConsoleHandlerFormatting(t *testing.T) {
	var buf bytes.Buffer
	var h slog.Handler = newConsoleHandler(&buf, slog.LevelWarn, true)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should not be enabled at warn level")
	}

	h = h.WithAttrs([]slog.Attr{slog.String("component", "typeset"), slog.String("k", "v")})
	h = h.WithGroup("grp")
	r := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	r.AddAttrs(slog.Int("n", 42), slog.Float64("pi", 3.14), slog.String("text", "two words"))
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ERR [typeset] boom", " k=v", "grp.n=42", "grp.pi=3.14", `grp.text="two words"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %q", want, out)
		}
	}
}

func TestDocumentFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(documentHandler{next: newConsoleHandler(&buf, slog.LevelDebug, false)})
	ctx := ContextWithDocument(context.Background(), "pilot.fountain")
	l.InfoContext(ctx, "composed", slog.Int("spans", 12))
	out := buf.String()
	if !strings.Contains(out, "doc=pilot.fountain") || !strings.Contains(out, "spans=12") {
		t.Fatalf("expected doc attribute from context: %q", out)
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	l := Discard()
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("discard logger should not be enabled")
	}
	l.Error("ignored")
}
