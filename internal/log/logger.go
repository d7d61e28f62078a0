/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log configures the process-wide slog logger for scriptpress:
// a human console handler or JSON on stderr, an optional rotating JSON file,
// and helpers that tag records with component, operation and document.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"scriptpress/internal/version"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Environment variables read by FromEnv.
const (
	EnvLevel  = "SPR_LOG_LEVEL"  // debug|info|warn|error
	EnvFormat = "SPR_LOG_FORMAT" // console|json
	EnvSource = "SPR_LOG_SOURCE" // true|false
	EnvFile   = "SPR_LOG_FILE"   // path of a rotated JSON log
)

// Options controls logger initialization. The zero value logs INFO and above
// to stderr in console format.
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string // optional rotated JSON log file

	// Output replaces stderr for the console/JSON stream.
	Output io.Writer
	// MaxSizeMB caps one log file before rotation (default 10).
	MaxSizeMB int
}

var current atomic.Pointer[slog.Logger]

// L returns the application logger, initializing it from the environment on
// first use.
func L() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return current.Load()
}

// Init replaces the application logger and slog.Default.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var stream slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		stream = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})
	} else {
		stream = newConsoleHandler(out, lvl, opts.AddSource)
	}
	handlers := []slog.Handler{stream}

	if file := strings.TrimSpace(opts.File); file != "" {
		size := opts.MaxSizeMB
		if size <= 0 {
			size = 10
		}
		w := &lj.Logger{Filename: file, MaxSize: size, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = fanout(handlers)
	}
	logger := slog.New(documentHandler{next: h}).With(
		slog.String("app", "scriptpress"),
		slog.String("ver", version.Version),
	)
	current.Store(logger)
	slog.SetDefault(logger)
}

// FromEnv builds Options from the SPR_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv(EnvLevel, "info"),
		Format:    getenv(EnvFormat, "console"),
		AddSource: strings.EqualFold(getenv(EnvSource, "false"), "true"),
		File:      os.Getenv(EnvFile),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseLevel accepts slog level names plus "warning"; anything else is INFO.
func parseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// WithComponent returns the application logger tagged with a component.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation tags l with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

// WithDocument tags l with the script being processed.
func WithDocument(l *slog.Logger, path string) *slog.Logger {
	return l.With(slog.String("doc", path))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

type docKey struct{}

// ContextWithDocument stores a document path in ctx. Records logged through
// the *Context methods with that ctx carry a doc attribute.
func ContextWithDocument(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, docKey{}, path)
}

func documentFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	doc, _ := ctx.Value(docKey{}).(string)
	return doc
}
