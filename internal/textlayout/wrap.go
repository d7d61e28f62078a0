/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"strings"
	"unicode"

	"github.com/go-text/typesetting/segmenter"

	"scriptpress/internal/screenplay"
)

// BoxStyle is the container style runs inherit from when they do not set
// their own font.
type BoxStyle struct {
	Font       string
	FontSize   float64
	LineHeight float64 // 0 derives it from the measurer or the font size
	Align      screenplay.Align
}

// Line is one wrapped visual line.
type Line struct {
	Runs       []screenplay.StyledRun
	Width      float64
	LineHeight float64
	Align      screenplay.Align
}

// Text returns the unstyled content of the line.
func (l Line) Text() string { return screenplay.PlainText(l.Runs) }

// Box is the result of laying out runs into a width.
type Box struct {
	Lines  []Line
	Width  float64
	Height float64
}

// Wrapper performs greedy width-constrained line wrapping on UAX #14 line
// break opportunities.
type Wrapper struct {
	Measurer Measurer
	// KeepLongWords leaves a chunk wider than the box whole on a line of its
	// own. When false such a chunk is split between grapheme clusters.
	KeepLongWords bool
}

// NewWrapper returns a Wrapper measuring with m (CharMeasurer when nil).
func NewWrapper(m Measurer) *Wrapper {
	if m == nil {
		m = CharMeasurer{}
	}
	return &Wrapper{Measurer: m}
}

// piece is a normalized run: its font is resolved and newLine marks a forced
// break before it.
type piece struct {
	run        screenplay.StyledRun
	spec       FontSpec
	lineHeight float64
	newLine    bool
}

// Wrap lays runs out into lines no wider than width. A width <= 0 disables
// wrapping; only forced breaks split lines then.
func (w *Wrapper) Wrap(runs []screenplay.StyledRun, width float64, style BoxStyle) []Line {
	var lines []Line
	for _, para := range paragraphs(w.normalize(runs, style)) {
		lines = append(lines, w.wrapParagraph(para, width, style)...)
	}
	return lines
}

// Layout wraps runs and reports the box extent.
func (w *Wrapper) Layout(runs []screenplay.StyledRun, width float64, style BoxStyle) Box {
	lines := w.Wrap(runs, width, style)
	box := Box{Lines: lines, Height: HeightOfLines(lines)}
	for _, l := range lines {
		box.Width = max(box.Width, l.Width)
	}
	return box
}

// HeightOfLines sums line heights.
func HeightOfLines(lines []Line) float64 {
	var h float64
	for _, l := range lines {
		h += l.LineHeight
	}
	return h
}

func (w *Wrapper) measurer() Measurer {
	if w.Measurer == nil {
		return CharMeasurer{}
	}
	return w.Measurer
}

func (w *Wrapper) styleLineHeight(style BoxStyle, spec FontSpec) float64 {
	if style.LineHeight > 0 {
		return style.LineHeight
	}
	if mm, ok := w.measurer().(MetricsMeasurer); ok {
		if h := mm.LineMetrics(spec).Height(); h > 0 {
			return h
		}
	}
	if style.FontSize > 0 {
		return style.FontSize
	}
	return 1
}

func (w *Wrapper) normalize(runs []screenplay.StyledRun, style BoxStyle) []piece {
	out := make([]piece, 0, len(runs))
	for _, r := range runs {
		if r.Font == "" {
			r.Font = style.Font
		}
		spec := FontSpec{Family: r.Font, SizePt: style.FontSize, Weight: 400, Italic: r.Italic}
		if r.Bold {
			spec.Weight = 700
		}
		lh := w.styleLineHeight(style, spec)
		text := strings.ReplaceAll(r.Text, "\r\n", "\n")
		for i, part := range strings.Split(text, "\n") {
			p := r
			p.Text = part
			out = append(out, piece{run: p, spec: spec, lineHeight: lh, newLine: i > 0})
		}
	}
	return out
}

func paragraphs(ps []piece) [][]piece {
	var out [][]piece
	var cur []piece
	for i, p := range ps {
		if p.newLine && i > 0 {
			out = append(out, cur)
			cur = nil
		}
		cur = append(cur, p)
	}
	return append(out, cur)
}

func (w *Wrapper) measure(ps []piece) float64 {
	var total float64
	m := w.measurer()
	for _, p := range ps {
		if p.run.Text != "" {
			total += m.MeasureString(p.run.Text, p.spec)
		}
	}
	return total
}

func (w *Wrapper) wrapParagraph(ps []piece, width float64, style BoxStyle) []Line {
	lh := 0.0
	var runes []rune
	var owner []int
	for i, p := range ps {
		lh = max(lh, p.lineHeight)
		for _, r := range p.run.Text {
			runes = append(runes, r)
			owner = append(owner, i)
		}
	}
	if lh == 0 {
		lh = w.styleLineHeight(style, FontSpec{Family: style.Font, SizePt: style.FontSize, Weight: 400})
	}
	if len(runes) == 0 || width <= 0 || w.measure(ps) <= width {
		return []Line{w.finish(ps, lh, style)}
	}

	var lines []Line
	var cur []piece
	var curW float64
	flush := func() {
		// spaces that hung past the edge are not part of the line
		if curW > width {
			cur = trimTrailingSpace(cur)
		}
		lines = append(lines, w.finish(cur, lh, style))
		cur, curW = nil, 0
	}
	add := func(chunk []piece, cw float64) {
		cur = append(cur, chunk...)
		curW += cw
	}

	var seg segmenter.Segmenter
	seg.Init(runes)
	it := seg.LineIterator()
	for it.Next() {
		ln := it.Line()
		chunk := slicePieces(ps, owner, runes, ln.Offset, ln.Offset+len(ln.Text))
		cw := w.measure(chunk)
		// trailing spaces do not count toward the fit
		fit := w.measure(trimTrailingSpace(chunk))
		if len(cur) > 0 && curW+fit > width {
			flush()
		}
		if len(cur) > 0 || fit <= width || w.KeepLongWords {
			add(chunk, cw)
			continue
		}
		for _, g := range splitGraphemes(chunk) {
			gw := w.measure(g)
			if len(cur) > 0 && curW+gw > width && !isSpace(g) {
				flush()
			}
			add(g, gw)
		}
	}
	if len(cur) > 0 {
		flush()
	}
	return lines
}

// finish turns pieces into a consolidated line. Lines that are not left
// aligned lose one trailing space and are measured again.
func (w *Wrapper) finish(ps []piece, lh float64, style BoxStyle) Line {
	align := style.Align
	for _, p := range ps {
		if p.run.Text != "" && p.run.Align != screenplay.AlignNone {
			align = p.run.Align
			break
		}
	}
	if align != screenplay.AlignNone && align != screenplay.AlignLeft {
		ps = stripOneTrailingSpace(ps)
	}
	runs := make([]screenplay.StyledRun, 0, len(ps))
	for _, p := range ps {
		runs = append(runs, p.run)
	}
	return Line{
		Runs:       screenplay.Consolidate(runs),
		Width:      w.measure(ps),
		LineHeight: lh,
		Align:      align,
	}
}

func slicePieces(ps []piece, owner []int, runes []rune, start, end int) []piece {
	var out []piece
	for k := start; k < end; {
		j := k
		for j < end && owner[j] == owner[k] {
			j++
		}
		p := ps[owner[k]]
		p.run.Text = string(runes[k:j])
		p.newLine = false
		out = append(out, p)
		k = j
	}
	return out
}

func trimTrailingSpace(ps []piece) []piece {
	out := append([]piece(nil), ps...)
	for len(out) > 0 {
		last := &out[len(out)-1]
		last.run.Text = strings.TrimRightFunc(last.run.Text, unicode.IsSpace)
		if last.run.Text != "" {
			break
		}
		out = out[:len(out)-1]
	}
	return out
}

func stripOneTrailingSpace(ps []piece) []piece {
	out := append([]piece(nil), ps...)
	for i := len(out) - 1; i >= 0; i-- {
		t := out[i].run.Text
		if t == "" {
			continue
		}
		if strings.HasSuffix(t, " ") {
			out[i].run.Text = t[:len(t)-1]
		}
		break
	}
	return out
}

func splitGraphemes(ps []piece) [][]piece {
	var out [][]piece
	for _, p := range ps {
		for _, g := range Graphemes(p.run.Text) {
			q := p
			q.run.Text = g
			out = append(out, []piece{q})
		}
	}
	return out
}

func isSpace(ps []piece) bool {
	for _, p := range ps {
		if strings.TrimFunc(p.run.Text, unicode.IsSpace) != "" {
			return false
		}
	}
	return true
}

// Graphemes splits s into extended grapheme clusters.
func Graphemes(s string) []string {
	if s == "" {
		return nil
	}
	var seg segmenter.Segmenter
	seg.Init([]rune(s))
	it := seg.GraphemeIterator()
	var out []string
	for it.Next() {
		out = append(out, string(it.Grapheme().Text))
	}
	return out
}

// GraphemeCount returns the number of extended grapheme clusters in s.
func GraphemeCount(s string) int {
	if s == "" {
		return 0
	}
	var seg segmenter.Segmenter
	seg.Init([]rune(s))
	it := seg.GraphemeIterator()
	n := 0
	for it.Next() {
		n++
	}
	return n
}
