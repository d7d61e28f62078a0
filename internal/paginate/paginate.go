/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package paginate splits composed spans into pages of a fixed line budget,
// keeping screenplay blocks together and continuing split dialogue with
// MORE/CONT'D markers.
package paginate

import (
	"log/slog"
	"strings"

	applog "scriptpress/internal/log"
	"scriptpress/internal/profile"
	"scriptpress/internal/screenplay"
)

// Breaker inserts page breaks. The zero value is ready to use.
type Breaker struct {
	Log *slog.Logger
}

// BreakAcrossPages paginates with a zero Breaker.
func BreakAcrossPages(spans []screenplay.Span, cfg screenplay.Config, prof profile.Profile) []screenplay.Span {
	var b Breaker
	return b.BreakAcrossPages(spans, cfg, prof)
}

// BreakAcrossPages returns a new span list in which no page holds more than
// prof.LinesPerPage lines, except where a single block could not be kept
// together. With LinesPerPage <= 0 the input is returned as a copy.
func (bk *Breaker) BreakAcrossPages(spans []screenplay.Span, cfg screenplay.Config, prof profile.Profile) []screenplay.Span {
	if prof.LinesPerPage <= 0 {
		return append([]screenplay.Span(nil), spans...)
	}
	l := bk.Log
	if l == nil {
		l = applog.WithComponent("paginate")
	}
	body, meta := screenplay.Body(spans)
	p := &pager{
		body:  body,
		lpp:   prof.LinesPerPage,
		split: cfg.PrintDialogueSplitAcrossPages,
		more:  cfg.MoreText(),
		contd: cfg.ContdText(),
		log:   l,
	}
	out := p.run()

	res := make([]screenplay.Span, 0, len(out)+1)
	if meta != nil {
		res = append(res, *meta)
	}
	res = screenplay.Trim(append(res, out...))
	l.Debug("paginated", slog.Int("spans", len(body)), slog.Int("pages", countPages(res)))
	return res
}

// mark remembers the output state right after an input span was placed.
type mark struct {
	outLen int
	count  int
}

type pager struct {
	body  []screenplay.Span
	lpp   int
	split bool
	more  string
	contd string
	log   *slog.Logger

	out       []screenplay.Span
	count     int // lines on the current page
	pageStart int // first input index of the current page
	placed    int // input spans placed on the current page
	marks     map[int]mark
}

func (p *pager) run() []screenplay.Span {
	p.marks = map[int]mark{}
	for i := 0; i < len(p.body); i++ {
		s := p.body[i]
		switch {
		case screenplay.IsTag(s, screenplay.TagPageBreak):
			p.dropTrailingSeparators()
			// a page that just ended needs no second break
			if n := len(p.out); n == 0 || !screenplay.IsTag(p.out[n-1], screenplay.TagPageBreak) {
				p.out = append(p.out, s)
			}
			p.newPage(i+1, 0)
			continue
		case screenplay.IsTag(s, screenplay.TagSeparator) && p.count == 0:
			p.marks[i] = mark{outLen: len(p.out)}
			continue
		}
		n := s.LineCount()
		if p.count+n <= p.lpp || p.placed == 0 {
			p.place(i, s, n)
			continue
		}
		i = p.breakBefore(i)
	}
	return p.out
}

func (p *pager) place(i int, s screenplay.Span, n int) {
	p.out = append(p.out, s)
	p.count += n
	p.placed++
	p.marks[i] = mark{outLen: len(p.out), count: p.count}
}

func (p *pager) newPage(start, count int) {
	p.pageStart = start
	p.count = count
	p.placed = 0
	clear(p.marks)
}

// breakBefore ends the page because body[i] does not fit and returns the
// index of the last input span kept on it.
func (p *pager) breakBefore(i int) int {
	b := i - 1
	for b >= p.pageStart && !p.breakOK(b) {
		b--
	}
	forced := b < p.pageStart
	if forced {
		b = i - 1
		p.log.Debug("block could not be kept together", slog.Int("index", b))
	}
	m := p.marks[b]
	p.out = p.out[:m.outLen]
	p.dropTrailingSeparators()

	if p.needsMore(b) {
		p.out = append(p.out, moreLine(p.more), screenplay.NewPageBreak())
		if cue, ok := p.cueBefore(b); ok {
			p.out = append(p.out, withContd(cue, p.contd))
			p.newPage(b+1, 1)
			return b
		}
		p.newPage(b+1, 0)
		return b
	}
	p.out = append(p.out, screenplay.NewPageBreak())
	p.newPage(b+1, 0)
	return b
}

// breakOK is canBreakAfter plus room for a MORE line when one is needed.
// A span with nothing above it on the page (a skipped top separator) is never
// a break point, since the page would be left empty.
func (p *pager) breakOK(b int) bool {
	if m, ok := p.marks[b]; !ok || m.count == 0 {
		return false
	}
	if !p.canBreakAfter(b) {
		return false
	}
	if p.needsMore(b) && p.marks[b].count+1 > p.lpp {
		return false
	}
	return true
}

// needsMore reports whether a break after b splits a speech.
func (p *pager) needsMore(b int) bool {
	if !p.split || p.tagAt(b) != screenplay.TagDialogue {
		return false
	}
	next := p.nextContentful(b)
	return next == screenplay.TagDialogue || next == screenplay.TagParenthetical
}

// cueBefore finds the character line that opened the speech containing b.
func (p *pager) cueBefore(b int) (screenplay.Line, bool) {
	for j := b; j >= 0; j-- {
		l, ok := p.body[j].(screenplay.Line)
		if !ok {
			return screenplay.Line{}, false
		}
		switch l.Tag {
		case screenplay.TagCharacter:
			return l, true
		case screenplay.TagDialogue, screenplay.TagParenthetical:
			continue
		}
		return screenplay.Line{}, false
	}
	return screenplay.Line{}, false
}

func (p *pager) dropTrailingSeparators() {
	for n := len(p.out); n > 0 && screenplay.IsTag(p.out[n-1], screenplay.TagSeparator); n-- {
		p.out = p.out[:n-1]
	}
}

func moreLine(text string) screenplay.Line {
	return screenplay.Line{
		Tag:     screenplay.TagMore,
		Content: []screenplay.StyledRun{{Text: text}},
	}
}

// withContd copies a character cue and appends the continuation marker
// unless the cue already ends with it.
func withContd(cue screenplay.Line, contd string) screenplay.Line {
	c := cue.Clone()
	if strings.HasSuffix(strings.TrimSpace(c.Text()), contd) {
		return c
	}
	if n := len(c.Content); n > 0 {
		c.Content[n-1].Text += " " + contd
	} else {
		c.Content = []screenplay.StyledRun{{Text: contd}}
	}
	return c
}

func countPages(spans []screenplay.Span) int {
	body, _ := screenplay.Body(spans)
	if len(body) == 0 {
		return 0
	}
	n := 1
	for _, s := range body {
		if screenplay.IsTag(s, screenplay.TagPageBreak) {
			n++
		}
	}
	return n
}
