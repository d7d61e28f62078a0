/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReportFormat(t *testing.T) {
	rep := Report{
		Info:  Info{Command: "export", Input: "film.fountain"},
		Time:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Panic: "kaboom",
		Stack: []byte("goroutine 1"),
	}
	var buf bytes.Buffer
	n, err := rep.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("WriteTo reported %d bytes, wrote %d", n, buf.Len())
	}
	s := buf.String()
	for _, want := range []string{
		"ScriptPress Crash Report\n",
		"Timestamp: 2025-03-01T12:00:00Z\n",
		"Command: export\n",
		"Input: film.fountain\n",
		"Panic: kaboom\n",
		"Stack:\ngoroutine 1",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("report missing %q:\n%s", want, s)
		}
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestReportWriteError(t *testing.T) {
	if _, err := (Report{Panic: "x"}).WriteTo(failWriter{}); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestSaveInDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "crash")
	path, err := Report{Info: Info{Dir: dir}, Time: time.Now(), Panic: "boom"}.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "crash-") {
		t.Fatalf("unexpected report path %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	if !strings.Contains(string(b), "Panic: boom") {
		t.Fatalf("panic content missing: %s", b)
	}
}

func TestRecoverPanicking(t *testing.T) {
	code := 0
	oldExit := exitFn
	exitFn = func(c int) { code = c }
	defer func() { exitFn = oldExit }()

	dir := t.TempDir()
	var stderr bytes.Buffer
	func() {
		defer Recover(Info{Dir: dir, Command: "export", Stderr: &stderr})
		panic("boom")
	}()

	if code != ExitCode {
		t.Fatalf("expected exit code %d, got %d", ExitCode, code)
	}
	files, _ := filepath.Glob(filepath.Join(dir, "crash-*.log"))
	if len(files) != 1 {
		t.Fatalf("expected one crash report under %s, got %v", dir, files)
	}
	if !strings.Contains(stderr.String(), files[0]) {
		t.Fatalf("notice should name the report: %q", stderr.String())
	}
	b, _ := os.ReadFile(files[0])
	if !bytes.Contains(b, []byte("Panic: boom")) || !bytes.Contains(b, []byte("Command: export")) {
		t.Fatalf("unexpected report: %s", b)
	}
}

func TestRecoverNoPanic(t *testing.T) {
	called := false
	oldExit := exitFn
	exitFn = func(int) { called = true }
	defer func() { exitFn = oldExit }()
	func() {
		defer Recover(Info{Dir: t.TempDir()})
	}()
	if called {
		t.Fatalf("exit must not be called without a panic")
	}
}
