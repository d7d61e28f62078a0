/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import "strings"

// Align is the horizontal alignment of a run or line.
type Align string

const (
	AlignNone   Align = ""
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// StyledRun is a piece of text sharing one set of style attributes.
type StyledRun struct {
	Text           string `json:"text"`
	Bold           bool   `json:"bold,omitempty"`
	Italic         bool   `json:"italic,omitempty"`
	Underline      bool   `json:"underline,omitempty"`
	Strike         bool   `json:"strike,omitempty"`
	Align          Align  `json:"align,omitempty"`
	Color          string `json:"color,omitempty"`
	Highlight      bool   `json:"highlight,omitempty"`
	HighlightColor string `json:"highlightColor,omitempty"`
	Font           string `json:"font,omitempty"`
}

// SameStyle reports whether r and o carry identical style attributes.
func (r StyledRun) SameStyle(o StyledRun) bool {
	r.Text, o.Text = "", ""
	return r == o
}

// Consolidate merges adjacent runs with identical styles and drops empty runs.
// The input slice is not modified.
func Consolidate(runs []StyledRun) []StyledRun {
	out := make([]StyledRun, 0, len(runs))
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].SameStyle(r) {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// PlainText concatenates the text of runs.
func PlainText(runs []StyledRun) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Span is one unit of composed output: a Line, a SplitLayout or a MetaLayout.
// Consumers switch on the concrete type.
type Span interface {
	SpanTag() Tag
	// LineCount is the number of printed rows the span occupies on a page.
	LineCount() int
}

// Line is one printable row.
type Line struct {
	Tag      Tag         `json:"tag"`
	Content  []StyledRun `json:"content"`
	Scene    string      `json:"scene,omitempty"`
	Level    int         `json:"level,omitempty"`
	Position Position    `json:"position,omitempty"`
}

func (l Line) SpanTag() Tag   { return l.Tag }
func (l Line) LineCount() int { return 1 }

// Text returns the unstyled content of the line.
func (l Line) Text() string { return PlainText(l.Content) }

// Clone returns a copy of l that shares no run storage with it.
func (l Line) Clone() Line {
	l.Content = append([]StyledRun(nil), l.Content...)
	return l
}

// SplitLayout is a dual dialogue block printed in two synchronized columns.
type SplitLayout struct {
	Left  []Line `json:"l,omitempty"`
	Right []Line `json:"r,omitempty"`
}

func (s SplitLayout) SpanTag() Tag { return TagSplit }

func (s SplitLayout) LineCount() int {
	return max(len(s.Left), len(s.Right), 1)
}

// Column returns the lines of one side.
func (s SplitLayout) Column(p Position) []Line {
	if p == PosRight {
		return s.Right
	}
	return s.Left
}

// MetaLayout carries title page, header, footer and watermark lines keyed by
// page position. When present it is always the first span of a list.
type MetaLayout struct {
	Positions map[Position][]Line `json:"positions"`
}

func (m MetaLayout) SpanTag() Tag   { return TagMeta }
func (m MetaLayout) LineCount() int { return 0 }

// Has reports whether any line is stored at p.
func (m MetaLayout) Has(p Position) bool { return len(m.Positions[p]) > 0 }

// HasTitlePage reports whether any title page region is populated.
func (m MetaLayout) HasTitlePage() bool {
	for p, lines := range m.Positions {
		if p.IsTitlePage() && len(lines) > 0 {
			return true
		}
	}
	return false
}

// NewSeparator returns a blank spacer line.
func NewSeparator() Line { return Line{Tag: TagSeparator} }

// NewPageBreak returns a page break marker.
func NewPageBreak() Line { return Line{Tag: TagPageBreak} }

// IsTag reports whether s is a Line with the given tag.
func IsTag(s Span, tag Tag) bool {
	l, ok := s.(Line)
	return ok && l.Tag == tag
}
