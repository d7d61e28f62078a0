/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package markup parses inline emphasis markup into styled runs.
//
// Markers toggle state: single-character markers | * _ and double-character
// markers ~~ ::. Runs of asterisks up to three long form one marker, so *, **
// and *** are distinct. A marker that matches one already open closes it along
// with every marker opened after it. A backslash escapes the next character and
// <control> or <control:arg> sequences are dropped from the output.
//
//	*italic*  **bold**  ***bold italic***  _underline_  |centered|  ~~strike~~  ::highlight::
package markup

import (
	"regexp"
	"strings"

	"github.com/go-text/typesetting/segmenter"
	"golang.org/x/text/unicode/norm"

	"scriptpress/internal/screenplay"
)

type mark string

const (
	markItalic     mark = "*"
	markBold       mark = "**"
	markBoldItalic mark = "***"
	markUnderline  mark = "_"
	markCenter     mark = "|"
	markStrike     mark = "~~"
	markHighlight  mark = "::"
)

// markStack holds the currently open markers, innermost last.
type markStack []mark

// toggle closes m (and everything opened after it) if it is open, otherwise
// opens it.
func (s *markStack) toggle(m mark) {
	if i := s.lastIndex(m); i >= 0 {
		*s = (*s)[:i]
		return
	}
	*s = append(*s, m)
}

func (s markStack) lastIndex(m mark) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == m {
			return i
		}
	}
	return -1
}

func (s markStack) has(m mark) bool { return s.lastIndex(m) >= 0 }

func (s markStack) run(text string) screenplay.StyledRun {
	r := screenplay.StyledRun{
		Text:      text,
		Bold:      s.has(markBold) || s.has(markBoldItalic),
		Italic:    s.has(markItalic) || s.has(markBoldItalic),
		Underline: s.has(markUnderline),
		Strike:    s.has(markStrike),
		Highlight: s.has(markHighlight),
	}
	if s.has(markCenter) {
		r.Align = screenplay.AlignCenter
	}
	return r
}

var controlRe = regexp.MustCompile(`^<[A-Za-z_][A-Za-z0-9_.\-]*(?::[^<>\n]*)?>`)

// Style splits text into one run per grapheme cluster carrying the style active
// at that point. Options are applied last and always win. The result is not
// consolidated; see screenplay.Consolidate.
func Style(text string, opts ...Option) []screenplay.StyledRun {
	text = norm.NFC.String(text)
	gs, offs := graphemes(text)
	var st markStack
	runs := make([]screenplay.StyledRun, 0, len(gs))
	emit := func(g string) {
		r := st.run(g)
		for _, o := range opts {
			o(&r)
		}
		runs = append(runs, r)
	}
	for i := 0; i < len(gs); {
		g := gs[i]
		if g == `\` {
			if i+1 < len(gs) {
				emit(gs[i+1])
				i += 2
			} else {
				emit(g)
				i++
			}
			continue
		}
		if g == "<" {
			if m := controlRe.FindString(text[offs[i]:]); m != "" {
				end := offs[i] + len(m)
				for i < len(gs) && offs[i] < end {
					i++
				}
				continue
			}
		}
		if n := markerLen(gs, i); n > 0 {
			st.toggle(mark(strings.Join(gs[i:i+n], "")))
			i += n
			continue
		}
		emit(g)
		i++
	}
	return runs
}

// StyleConsolidated is Style followed by screenplay.Consolidate.
func StyleConsolidated(text string, opts ...Option) []screenplay.StyledRun {
	return screenplay.Consolidate(Style(text, opts...))
}

// Strip returns text with markup and control sequences removed.
func Strip(text string) string {
	return screenplay.PlainText(Style(text))
}

func markerLen(gs []string, i int) int {
	switch gs[i] {
	case "*":
		n := 1
		for n < 3 && i+n < len(gs) && gs[i+n] == "*" {
			n++
		}
		return n
	case "_", "|":
		return 1
	case "~", ":":
		if i+1 < len(gs) && gs[i+1] == gs[i] {
			return 2
		}
	}
	return 0
}

// graphemes splits text into extended grapheme clusters and returns the byte
// offset of each cluster.
func graphemes(text string) ([]string, []int) {
	if text == "" {
		return nil, nil
	}
	var seg segmenter.Segmenter
	seg.Init([]rune(text))
	it := seg.GraphemeIterator()
	var gs []string
	var offs []int
	off := 0
	for it.Next() {
		g := string(it.Grapheme().Text)
		gs = append(gs, g)
		offs = append(offs, off)
		off += len(g)
	}
	return gs, offs
}
