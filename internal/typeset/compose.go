/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package typeset turns screenplay tokens into composed spans: styled,
// wrapped lines, dual dialogue columns and the metadata layout.
package typeset

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	applog "scriptpress/internal/log"
	"scriptpress/internal/markup"
	"scriptpress/internal/profile"
	"scriptpress/internal/screenplay"
	"scriptpress/internal/textlayout"
)

// Composer composes token streams. The zero value is ready to use.
type Composer struct {
	Log *slog.Logger
	// OnProgress, when set, is called after each token with the number of
	// tokens done and the total.
	OnProgress func(done, total int)
}

// Compose composes tokens with a zero Composer.
func Compose(tokens []screenplay.Token, cfg screenplay.Config, prof profile.Profile) []screenplay.Span {
	var c Composer
	return c.Compose(tokens, cfg, prof)
}

// Compose returns the span list for tokens. A MetaLayout, if any metadata
// was present, comes first. Leading and trailing separators and page breaks
// are trimmed. The result is a fresh slice on every call.
func (c *Composer) Compose(tokens []screenplay.Token, cfg screenplay.Config, prof profile.Profile) []screenplay.Span {
	l := c.Log
	if l == nil {
		l = applog.WithComponent("typeset")
	}
	st := &state{
		cfg:   cfg,
		prof:  prof,
		wrap:  &textlayout.Wrapper{Measurer: textlayout.CharMeasurer{}, KeepLongWords: true},
		meta:  map[screenplay.Position][]screenplay.Line{},
		split: -1,
		log:   l,
	}
	for i, tok := range tokens {
		st.add(tok)
		if c.OnProgress != nil {
			c.OnProgress(i+1, len(tokens))
		}
	}
	spans := st.finish()
	l.Debug("composed", slog.Int("tokens", len(tokens)), slog.Int("spans", len(spans)))
	return spans
}

type state struct {
	cfg  screenplay.Config
	prof profile.Profile
	wrap *textlayout.Wrapper
	log  *slog.Logger

	out   []screenplay.Span
	meta  map[screenplay.Position][]screenplay.Line
	prev  screenplay.Tag // tag of the last emitted block
	split int            // index of the open SplitLayout in out, or -1
	scene int
}

func (s *state) add(tok screenplay.Token) {
	if pos, ok := screenplay.MetaPosition(tok.Tag); ok {
		s.addMeta(tok, pos)
		return
	}
	if !tok.IsDual() {
		s.split = -1
	}
	switch tok.Tag {
	case screenplay.TagPageBreak:
		s.pageBreak()
	case screenplay.TagSeparator:
		s.separator()
	case screenplay.TagKnot, screenplay.TagStitch:
		if !s.cfg.PrintSections {
			return
		}
		level := 0
		if tok.Tag == screenplay.TagStitch {
			level = 1
		}
		lines := s.lines(tok)
		for i := range lines {
			lines[i].Level = level
		}
		s.block(tok.Tag, lines)
	case screenplay.TagScene:
		s.scene++
		lines := s.lines(tok, s.sceneOptions()...)
		if len(lines) > 0 {
			lines[0].Scene = tok.Scene
			if lines[0].Scene == "" {
				lines[0].Scene = strconv.Itoa(s.scene)
			}
		}
		s.block(tok.Tag, lines)
	case screenplay.TagTransition:
		s.block(tok.Tag, s.lines(tok, markup.WithAlign(screenplay.AlignRight)))
	default:
		if tok.IsDual() && tok.Tag.IsDialogue() {
			s.dual(tok)
			return
		}
		if !bodyTags[tok.Tag] {
			s.log.Debug("unknown tag composed as plain content", slog.String("tag", string(tok.Tag)))
		}
		s.block(tok.Tag, s.lines(tok))
	}
}

var bodyTags = map[screenplay.Tag]bool{
	screenplay.TagAction:        true,
	screenplay.TagCharacter:     true,
	screenplay.TagParenthetical: true,
	screenplay.TagDialogue:      true,
	screenplay.TagChoice:        true,
	screenplay.TagMore:          true,
}

func (s *state) sceneOptions() []markup.Option {
	if s.cfg.PrintSceneHeadersBold {
		return []markup.Option{markup.Bold()}
	}
	return nil
}

// lines styles and wraps the token content against its tag's width.
func (s *state) lines(tok screenplay.Token, extra ...markup.Option) []screenplay.Line {
	set := s.prof.Resolve(tok.Tag)
	var opts []markup.Option
	if set.IsItalic() {
		opts = append(opts, markup.Italic())
	}
	if set.Color != "" {
		opts = append(opts, markup.WithColor(set.Color))
	}
	if set.Align != screenplay.AlignNone {
		opts = append(opts, markup.WithAlign(set.Align))
	}
	opts = append(opts, extra...)

	runs := markup.Style(tok.Content(), opts...)
	width := s.prof.WrapWidth(tok.Tag, tok.IsDual())
	wrapped := s.wrap.Wrap(runs, float64(width), textlayout.BoxStyle{})
	out := make([]screenplay.Line, 0, len(wrapped))
	for _, w := range wrapped {
		ln := screenplay.Line{Tag: tok.Tag, Content: trimRight(w.Runs)}
		if tok.IsDual() {
			ln.Position = tok.Position
		}
		out = append(out, ln)
	}
	return out
}

// block appends lines as one content block, preceded by a separator unless
// it continues the previous block.
func (s *state) block(tag screenplay.Tag, lines []screenplay.Line) {
	if !continues(s.prev, tag) {
		s.separator()
	}
	for _, ln := range lines {
		s.out = append(s.out, ln)
	}
	s.prev = tag
}

func (s *state) dual(tok screenplay.Token) {
	lines := s.lines(tok)
	if s.split < 0 || (tok.Position == screenplay.PosLeft && tok.Tag == screenplay.TagCharacter) {
		s.separator()
		s.out = append(s.out, screenplay.SplitLayout{})
		s.split = len(s.out) - 1
	}
	sl := s.out[s.split].(screenplay.SplitLayout)
	if tok.Position == screenplay.PosRight {
		sl.Right = append(sl.Right, lines...)
	} else {
		sl.Left = append(sl.Left, lines...)
	}
	s.out[s.split] = sl
	s.prev = screenplay.TagSplit
}

// separator requests a blank line. Requests collapse and nothing is added
// at the start or right after a page break.
func (s *state) separator() {
	if len(s.out) == 0 {
		return
	}
	switch last := s.out[len(s.out)-1]; {
	case screenplay.IsTag(last, screenplay.TagSeparator), screenplay.IsTag(last, screenplay.TagPageBreak):
		return
	}
	s.out = append(s.out, screenplay.NewSeparator())
	s.prev = screenplay.TagSeparator
}

func (s *state) pageBreak() {
	if n := len(s.out); n > 0 && screenplay.IsTag(s.out[n-1], screenplay.TagSeparator) {
		s.out = s.out[:n-1]
	}
	s.out = append(s.out, screenplay.NewPageBreak())
	s.prev = screenplay.TagPageBreak
}

func (s *state) addMeta(tok screenplay.Token, pos screenplay.Position) {
	if pos.IsTitlePage() && !s.cfg.PrintTitlePage {
		return
	}
	align := metaAlign(pos)
	for _, part := range strings.Split(strings.ReplaceAll(tok.Content(), "\r\n", "\n"), "\n") {
		s.meta[pos] = append(s.meta[pos], screenplay.Line{
			Tag:     tok.Tag,
			Content: markup.StyleConsolidated(part, markup.WithAlign(align)),
		})
	}
}

func metaAlign(pos screenplay.Position) screenplay.Align {
	switch pos {
	case screenplay.PosTopLeft, screenplay.PosBotLeft, screenplay.PosLeft:
		return screenplay.AlignLeft
	case screenplay.PosTopRight, screenplay.PosBotRight, screenplay.PosRight:
		return screenplay.AlignRight
	}
	return screenplay.AlignCenter
}

func (s *state) finish() []screenplay.Span {
	out := make([]screenplay.Span, 0, len(s.out)+1)
	if len(s.meta) > 0 {
		out = append(out, screenplay.MetaLayout{Positions: s.meta})
	}
	return screenplay.Trim(append(out, s.out...))
}

// continues reports whether cur belongs to the same block as prev, so no
// separator goes between them.
func continues(prev, cur screenplay.Tag) bool {
	switch prev {
	case screenplay.TagCharacter:
		return cur == screenplay.TagParenthetical || cur == screenplay.TagDialogue
	case screenplay.TagParenthetical, screenplay.TagDialogue:
		return cur == screenplay.TagParenthetical || cur == screenplay.TagDialogue
	}
	return false
}

// trimRight drops trailing whitespace of a wrapped line.
func trimRight(runs []screenplay.StyledRun) []screenplay.StyledRun {
	out := append([]screenplay.StyledRun(nil), runs...)
	for len(out) > 0 {
		last := &out[len(out)-1]
		last.Text = strings.TrimRightFunc(last.Text, unicode.IsSpace)
		if last.Text != "" {
			break
		}
		out = out[:len(out)-1]
	}
	return screenplay.Consolidate(out)
}
