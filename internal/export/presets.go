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
	"fmt"
	"path/filepath"
	"strings"

	"scriptpress/internal/profile"
	"scriptpress/internal/screenplay"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetPrint PresetName = "print"
	PresetWeb   PresetName = "web"
	PresetData  PresetName = "data"
)

// presetDefaultFormats returns the formats a preset exports when none are
// given.
func presetDefaultFormats(p PresetName) []Format {
	switch p {
	case PresetWeb:
		return []Format{FormatHTML}
	case PresetData:
		return []Format{FormatCSV}
	case PresetPrint:
		return []Format{FormatPDF}
	}
	return Formats()
}

// BatchOptions controls a batch export of one document in several formats.
//
// Path semantics:
//   - Outputs go to OutDir/<preset>/<BaseName>.<ext>; an empty preset writes
//     to OutDir directly.
//   - BaseName defaults to the source file name without extension.
type BatchOptions struct {
	Preset   PresetName
	Formats  []string // empty means preset defaults
	OutDir   string
	BaseName string
	Config   screenplay.Config
	Profile  profile.Profile
	History  Recorder
	Font     *Font // nil keeps Courier
	// Configure, when set, is applied to every job before it runs.
	Configure func(*Job)
}

// BatchExport renders tokens once per format and returns the written paths.
// It stops at the first failure.
func BatchExport(ctx context.Context, source string, tokens []screenplay.Token, opt BatchOptions) ([]string, error) {
	var formats []Format
	if len(opt.Formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	} else {
		for _, s := range opt.Formats {
			f, err := ParseFormat(s)
			if err != nil {
				return nil, err
			}
			formats = append(formats, f)
		}
	}

	base := opt.BaseName
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	if base == "" || base == "." {
		base = "screenplay"
	}
	dir := opt.OutDir
	if opt.Preset != "" {
		dir = filepath.Join(dir, string(opt.Preset))
	}

	var written []string
	for _, f := range formats {
		r, err := NewRenderer(f)
		if err != nil {
			return written, err
		}
		job := NewJob(WithFont(r, opt.Font), opt.Config, opt.Profile)
		job.History = opt.History
		if opt.Configure != nil {
			opt.Configure(job)
		}
		out := filepath.Join(dir, base+"."+string(f))
		if _, err := job.RunFile(ctx, source, tokens, out); err != nil {
			return written, fmt.Errorf("%s export: %w", f, err)
		}
		written = append(written, out)
	}
	return written, nil
}
