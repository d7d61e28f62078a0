/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders composed and paginated screenplays to PDF, HTML and
// CSV, and runs the compose, paginate and render pipeline as a Job.
package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"scriptpress/internal/profile"
	"scriptpress/internal/screenplay"
)

// Format names an output format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported formats.
func Formats() []Format { return []Format{FormatPDF, FormatHTML, FormatCSV} }

// ParseFormat maps a format name (case-insensitive, leading dot allowed) to a
// Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	switch f {
	case FormatPDF, FormatHTML, FormatCSV:
		return f, nil
	case "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatForPath guesses the format from the extension of path.
func FormatForPath(path string) (Format, bool) {
	f, err := ParseFormat(filepath.Ext(path))
	return f, err == nil
}

// Document is what a Renderer draws: a paginated span list plus the settings
// it was laid out with.
type Document struct {
	Spans     []screenplay.Span
	Config    screenplay.Config
	Profile   profile.Profile
	Title     string
	CreatedAt time.Time // zero leaves the renderer's default
}

// Renderer writes a Document in one output format.
type Renderer interface {
	Format() Format
	Render(w io.Writer, doc Document) error
}

// NewRenderer returns the default renderer for f.
func NewRenderer(f Format) (Renderer, error) {
	switch f {
	case FormatPDF:
		return &PDFRenderer{}, nil
	case FormatHTML:
		return &HTMLRenderer{}, nil
	case FormatCSV:
		return &CSVRenderer{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// WithFont hands font to the renderers that draw pages and returns r.
// A nil font keeps the built-in Courier.
func WithFont(r Renderer, font *Font) Renderer {
	switch v := r.(type) {
	case *PDFRenderer:
		v.Font = font
	case *HTMLRenderer:
		v.Font = font
	}
	return r
}

// DocumentTitle returns the first title line of the metadata, if any.
func DocumentTitle(spans []screenplay.Span) string {
	_, meta := screenplay.Body(spans)
	if meta == nil {
		return ""
	}
	for _, pos := range screenplay.PagePositions {
		for _, l := range meta.Positions[pos] {
			if l.Tag == screenplay.TagTitle {
				return strings.TrimSpace(l.Text())
			}
		}
	}
	return ""
}

// lineAlign is the alignment of a line: its first run's, else fallback.
func lineAlign(l screenplay.Line, fallback screenplay.Align) screenplay.Align {
	if len(l.Content) > 0 && l.Content[0].Align != screenplay.AlignNone {
		return l.Content[0].Align
	}
	return fallback
}

// titlePagePositions are the title page regions in drawing order.
var titlePagePositions = []screenplay.Position{
	screenplay.PosTopLeft, screenplay.PosTopCenter, screenplay.PosTopRight,
	screenplay.PosCenter, screenplay.PosBotLeft, screenplay.PosBotRight,
}

func printsTitlePage(doc Document, meta *screenplay.MetaLayout) bool {
	return meta != nil && doc.Config.PrintTitlePage && meta.HasTitlePage()
}

// parseHexColor parses #rgb or #rrggbb.
func parseHexColor(s string) (r, g, b int, ok bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
