/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns an unrecovered panic in the CLI into a logged error, a
// crash report file and exit code 2.
package crash

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "scriptpress/internal/log"
	"scriptpress/internal/storage"
	"scriptpress/internal/version"
)

// ExitCode is the process status after a recovered panic.
const ExitCode = 2

// exitFn is swapped in tests.
var exitFn = os.Exit

// Info describes what the process was doing when it crashed.
type Info struct {
	// Dir receives the report; empty means os.TempDir.
	Dir     string
	Command string
	Input   string
	// Stderr receives the user notice; nil means os.Stderr.
	Stderr io.Writer
}

// Report is the content of a crash report file.
type Report struct {
	Info
	Time  time.Time
	Panic any
	Stack []byte
}

// WriteTo writes the report in its plain text file format.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	fmt.Fprintln(cw, "ScriptPress Crash Report")
	fmt.Fprintf(cw, "Timestamp: %s\n", r.Time.Format(time.RFC3339))
	fmt.Fprintf(cw, "Version: %s\n", version.String())
	fmt.Fprintf(cw, "OS/Arch: %s/%s (%s)\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
	if r.Command != "" {
		fmt.Fprintf(cw, "Command: %s\n", r.Command)
	}
	if r.Input != "" {
		fmt.Fprintf(cw, "Input: %s\n", r.Input)
	}
	fmt.Fprintf(cw, "\nPanic: %v\n\nStack:\n%s\n", r.Panic, r.Stack)
	return cw.n, cw.err
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

// Recover handles a panic in the calling goroutine. It must be deferred
// directly:
//
//	defer crash.Recover(crash.Info{Command: "export"})
func Recover(info Info) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	rep := Report{Info: info, Time: time.Now(), Panic: r, Stack: debug.Stack()}
	l.Error("panic recovered", slog.Any("panic", r), slog.String("cmd", info.Command), slog.String("stack", string(rep.Stack)))

	path, err := rep.Save()
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	stderr := info.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	if path != "" && err == nil {
		fmt.Fprintf(stderr, "A fatal error occurred. A crash report was saved to: %s\n", path)
	} else {
		fmt.Fprintln(stderr, "A fatal error occurred and no crash report could be written.")
	}
	fmt.Fprintf(stderr, "Version: %s\n", version.String())
	exitFn(ExitCode)
}

// Save writes the report to Dir, falling back to the temp dir when Dir
// cannot be created, and returns the file path.
func (r Report) Save() (string, error) {
	dir := r.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		dir = os.TempDir()
	}
	name := fmt.Sprintf("crash-%s-%d.log", r.Time.Format("20060102-150405"), os.Getpid())
	path := filepath.Join(dir, name)
	err := storage.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := r.WriteTo(w)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("crash report: %w", err)
	}
	return path, nil
}
