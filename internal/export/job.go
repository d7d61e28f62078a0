/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	applog "scriptpress/internal/log"
	"scriptpress/internal/paginate"
	"scriptpress/internal/profile"
	"scriptpress/internal/screenplay"
	"scriptpress/internal/storage"
	"scriptpress/internal/typeset"
)

// Composer turns tokens into composed spans.
type Composer interface {
	Compose(tokens []screenplay.Token, cfg screenplay.Config, prof profile.Profile) []screenplay.Span
}

// Paginator inserts page breaks into composed spans.
type Paginator interface {
	BreakAcrossPages(spans []screenplay.Span, cfg screenplay.Config, prof profile.Profile) []screenplay.Span
}

// Recorder stores finished export runs.
type Recorder interface {
	RecordExport(ctx context.Context, rec *storage.ExportRecord) error
}

// Stage names a pipeline step reported through Job.OnProgress.
type Stage string

const (
	StageCompose  Stage = "compose"
	StagePaginate Stage = "paginate"
	StageRender   Stage = "render"
)

// Job runs compose, paginate and render for one document. Collaborators are
// injected; NewJob wires the defaults.
type Job struct {
	Composer  Composer
	Paginator Paginator
	Renderer  Renderer
	History   Recorder // optional

	Config  screenplay.Config
	Profile profile.Profile
	Title   string

	Log *slog.Logger
	// OnProgress, when set, is called as stages advance. Compose reports per
	// token, the other stages report 0 of 1 and 1 of 1.
	OnProgress func(stage Stage, done, total int)
}

// Result summarizes a finished run.
type Result struct {
	Spans []screenplay.Span
	Pages int
}

// NewJob returns a Job using the typeset composer and the page breaker.
func NewJob(r Renderer, cfg screenplay.Config, prof profile.Profile) *Job {
	j := &Job{
		Renderer:  r,
		Config:    cfg,
		Profile:   prof,
		Paginator: &paginate.Breaker{},
	}
	j.Composer = &typeset.Composer{OnProgress: func(done, total int) {
		j.progress(StageCompose, done, total)
	}}
	return j
}

func (j *Job) logger() *slog.Logger {
	if j.Log != nil {
		return j.Log
	}
	return applog.WithComponent("export")
}

func (j *Job) progress(s Stage, done, total int) {
	if j.OnProgress != nil {
		j.OnProgress(s, done, total)
	}
}

// Layout composes and paginates tokens. The context is checked before each
// stage; a stage that started runs to completion.
func (j *Job) Layout(ctx context.Context, tokens []screenplay.Token) ([]screenplay.Span, error) {
	if j.Composer == nil || j.Paginator == nil {
		return nil, errors.New("export job: composer and paginator are required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spans := j.Composer.Compose(tokens, j.Config, j.Profile)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	j.progress(StagePaginate, 0, 1)
	spans = j.Paginator.BreakAcrossPages(spans, j.Config, j.Profile)
	j.progress(StagePaginate, 1, 1)
	return spans, nil
}

// Run lays out tokens and renders them to w.
func (j *Job) Run(ctx context.Context, tokens []screenplay.Token, w io.Writer) (Result, error) {
	if j.Renderer == nil {
		return Result{}, errors.New("export job: renderer is required")
	}
	l := applog.WithOperation(j.logger(), "export")
	spans, err := j.Layout(ctx, tokens)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	pages, _ := paginate.Paginate(spans)
	res := Result{Spans: spans, Pages: len(pages)}
	j.progress(StageRender, 0, 1)
	doc := Document{Spans: spans, Config: j.Config, Profile: j.Profile, Title: j.Title}
	if err := j.Renderer.Render(w, doc); err != nil {
		return res, fmt.Errorf("render %s: %w", j.Renderer.Format(), err)
	}
	j.progress(StageRender, 1, 1)
	l.DebugContext(ctx, "export finished", slog.String("format", string(j.Renderer.Format())), slog.Int("pages", res.Pages))
	return res, nil
}

// RunFile renders to outPath atomically and, when History is set, records
// the run whatever its outcome. source names the input for the history.
func (j *Job) RunFile(ctx context.Context, source string, tokens []screenplay.Token, outPath string) (Result, error) {
	start := time.Now()
	var res Result
	err := storage.WriteFileAtomic(outPath, func(w io.Writer) error {
		var err error
		res, err = j.Run(ctx, tokens, w)
		return err
	})
	j.record(ctx, source, outPath, res, start, err)
	return res, err
}

func (j *Job) record(ctx context.Context, source, outPath string, res Result, start time.Time, runErr error) {
	if j.History == nil {
		return
	}
	rec := &storage.ExportRecord{
		Source:    source,
		Output:    outPath,
		Profile:   j.Profile.Name,
		Pages:     res.Pages,
		Status:    storage.StatusOK,
		StartedAt: start,
		Duration:  time.Since(start),
	}
	if j.Renderer != nil {
		rec.Format = string(j.Renderer.Format())
	}
	switch {
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		rec.Status = storage.StatusCanceled
		rec.Error = runErr.Error()
	case runErr != nil:
		rec.Status = storage.StatusFailed
		rec.Error = runErr.Error()
	}
	// a canceled run is still recorded
	if err := j.History.RecordExport(context.WithoutCancel(ctx), rec); err != nil {
		j.logger().WarnContext(ctx, "record export failed", slog.Any("err", err))
	}
}
