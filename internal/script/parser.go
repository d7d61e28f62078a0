/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script reads screenplay sources into token streams: a
// Fountain-style plain text parser and a JSON token loader.
package script

import (
	"bufio"
	"regexp"
	"strings"
	"unicode"

	"scriptpress/internal/screenplay"
)

var (
	reTitleKey   = regexp.MustCompile(`^([A-Za-z][A-Za-z ]*?)\s*:\s*(.*)$`)
	reScene      = regexp.MustCompile(`^(?i)(INT\./EXT|INT/EXT|I/E|INT|EXT|EST)[\. ]`)
	reSceneNum   = regexp.MustCompile(`\s*#([\w.\-]+)#\s*$`)
	reSection    = regexp.MustCompile(`^(#+)\s*(.*)$`)
	reTransition = regexp.MustCompile(`^[A-Z0-9 .'\-]+TO:$`)
	reCentered   = regexp.MustCompile(`^>\s*(.*?)\s*<$`)
	reChoice     = regexp.MustCompile(`^[+*]\s+(.*)$`)
	reCue        = regexp.MustCompile(`^(.*?)\s*(\([^()]*\))?\s*(\^)?$`)
	rePageBreak  = regexp.MustCompile(`^={3,}$`)
)

// Parse parses Fountain-style screenplay text into tokens.
// Supported syntax:
//   - Title page: "Key: value" lines at the very top (Title, Credit, Author,
//     Source, Notes, Draft date, Contact, Revision, Copyright and the page
//     positions tl, tc, tr, cc, bl, br, header, footer, watermark). Indented
//     lines continue the previous value.
//   - Scene headings: INT./EXT./EST./I/E lines, or any line forced with a
//     leading ".". A trailing "#n#" sets the scene number.
//   - Transitions: upper case lines ending in "TO:", or forced with ">".
//   - Centered text: ">text<".
//   - Dialogue: an upper case cue (or one forced with "@") directly followed
//     by lines of speech; "(...)" lines are parentheticals. A cue ending in
//     "^" is the second half of dual dialogue.
//   - Sections: "#" and "##" headings.
//   - Choices: "+ text" or "* text" lines.
//   - Page breaks: "===".
//   - Lines starting with ";" are comments and dropped.
//
// Everything else is action; its lines are kept together with line breaks.
func Parse(input string) ([]screenplay.Token, []Error) {
	var errs []Error
	paras, err := split(input)
	if err != nil {
		errs = append(errs, Error{Line: 1, Column: 1, Message: err.Error()})
	}

	p := &parser{speech: -1}
	for i, para := range paras {
		if i == 0 && p.titlePage(para) {
			continue
		}
		if e, ok := p.paragraph(para); !ok {
			errs = append(errs, e)
		}
	}
	return p.tokens, errs
}

// split groups source lines into paragraphs, dropping comment lines.
func split(input string) ([]paragraph, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var out []paragraph
	var cur *paragraph
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.HasPrefix(strings.TrimSpace(line), ";") {
			continue
		}
		if strings.TrimSpace(line) == "" {
			cur = nil
			continue
		}
		if cur == nil {
			out = append(out, paragraph{lineNo: lineNo})
			cur = &out[len(out)-1]
		}
		cur.lines = append(cur.lines, line)
	}
	return out, scanner.Err()
}

type parser struct {
	tokens []screenplay.Token
	// speech is the index of the cue token of the dialogue block that ended
	// the previous paragraph, or -1.
	speech int
}

func (p *parser) emit(t screenplay.Token) { p.tokens = append(p.tokens, t) }

// titlePage parses the leading key/value block. It reports false when the
// paragraph does not start with a known key.
func (p *parser) titlePage(para paragraph) bool {
	m := reTitleKey.FindStringSubmatch(strings.TrimSpace(para.lines[0]))
	if m == nil {
		return false
	}
	if _, ok := titleKeys[strings.ToLower(m[1])]; !ok {
		return false
	}
	var cur *screenplay.Token
	for _, line := range para.lines {
		indented := strings.HasPrefix(line, "   ") || strings.HasPrefix(line, "\t")
		if m := reTitleKey.FindStringSubmatch(strings.TrimSpace(line)); m != nil && !indented {
			if tag, ok := titleKeys[strings.ToLower(m[1])]; ok {
				p.emit(screenplay.Token{Tag: screenplay.Tag(tag), Text: strings.TrimSpace(m[2])})
				cur = &p.tokens[len(p.tokens)-1]
				continue
			}
		}
		if cur == nil {
			continue
		}
		if cur.Text == "" {
			cur.Text = strings.TrimSpace(line)
		} else {
			cur.Text += "\n" + strings.TrimSpace(line)
		}
	}
	p.speech = -1
	return true
}

// paragraph classifies one paragraph. A non-nil Error is returned with ok
// false when the paragraph was parsed with a problem.
func (p *parser) paragraph(para paragraph) (Error, bool) {
	first := strings.TrimSpace(para.lines[0])
	rest := para.lines[1:]
	prevSpeech := p.speech
	p.speech = -1

	switch {
	case rePageBreak.MatchString(first):
		p.emit(screenplay.Token{Tag: screenplay.TagPageBreak})
		p.action(rest)
		return Error{}, true

	case strings.HasPrefix(first, "#"):
		m := reSection.FindStringSubmatch(first)
		tag := screenplay.TagKnot
		if len(m[1]) > 1 {
			tag = screenplay.TagStitch
		}
		p.emit(screenplay.Token{Tag: tag, Text: strings.TrimSpace(m[2])})
		p.action(rest)
		return Error{}, true

	case isScene(first):
		p.scene(first)
		p.action(rest)
		return Error{}, true

	case reChoice.MatchString(first):
		for _, line := range para.lines {
			line = strings.TrimSpace(line)
			if m := reChoice.FindStringSubmatch(line); m != nil {
				p.emit(screenplay.Token{Tag: screenplay.TagChoice, Text: m[1]})
				continue
			}
			p.emit(screenplay.Token{Tag: screenplay.TagAction, Text: line})
		}
		return Error{}, true

	case len(para.lines) == 1 && isTransition(first):
		p.emit(screenplay.Token{Tag: screenplay.TagTransition, Text: strings.TrimSpace(strings.TrimPrefix(first, ">"))})
		return Error{}, true

	case len(para.lines) > 1 && isCue(first):
		return p.dialogue(para, prevSpeech)
	}
	p.action(para.lines)
	return Error{}, true
}

func isScene(line string) bool {
	if strings.HasPrefix(line, ".") && !strings.HasPrefix(line, "..") {
		return true
	}
	return reScene.MatchString(line)
}

func isTransition(line string) bool {
	if strings.HasPrefix(line, ">") && !strings.HasSuffix(line, "<") {
		return true
	}
	return reTransition.MatchString(line)
}

func isCue(line string) bool {
	if strings.HasPrefix(line, "@") {
		return true
	}
	name := reCue.FindStringSubmatch(line)[1]
	hasLetter := false
	for _, r := range name {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func (p *parser) scene(line string) {
	text := strings.TrimPrefix(line, ".")
	tok := screenplay.Token{Tag: screenplay.TagScene}
	if m := reSceneNum.FindStringSubmatchIndex(text); m != nil {
		tok.Scene = text[m[2]:m[3]]
		text = text[:m[0]]
	}
	tok.Text = strings.TrimSpace(text)
	p.emit(tok)
}

// action emits lines as one action token. Centered lines become "|text|".
func (p *parser) action(lines []string) {
	if len(lines) == 0 {
		return
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if m := reCentered.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			line = "|" + m[1] + "|"
		}
		out = append(out, strings.TrimPrefix(line, "!"))
	}
	p.emit(screenplay.Token{Tag: screenplay.TagAction, Text: strings.Join(out, "\n")})
}

func (p *parser) dialogue(para paragraph, prevSpeech int) (Error, bool) {
	m := reCue.FindStringSubmatch(strings.TrimPrefix(strings.TrimSpace(para.lines[0]), "@"))
	cue := screenplay.Token{Tag: screenplay.TagCharacter, Text: strings.TrimSpace(m[1])}
	if m[2] != "" {
		cue.Suffix = " " + m[2]
	}
	dual := m[3] != ""
	e, ok := Error{}, true
	if dual {
		if prevSpeech < 0 {
			e, ok = Error{Line: para.lineNo, Column: len(para.lines[0]), Message: "dual dialogue marker without preceding dialogue"}, false
			dual = false
		} else {
			for i := prevSpeech; i < len(p.tokens); i++ {
				p.tokens[i].Position = screenplay.PosLeft
			}
		}
	}
	pos := screenplay.PosNone
	if dual {
		pos = screenplay.PosRight
	}
	cue.Position = pos
	start := len(p.tokens)
	p.emit(cue)

	var speech []string
	flush := func() {
		if len(speech) > 0 {
			p.emit(screenplay.Token{Tag: screenplay.TagDialogue, Text: strings.Join(speech, "\n"), Position: pos})
			speech = nil
		}
	}
	for _, line := range para.lines[1:] {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")") {
			flush()
			p.emit(screenplay.Token{Tag: screenplay.TagParenthetical, Text: line, Position: pos})
			continue
		}
		speech = append(speech, line)
	}
	flush()
	if !dual {
		p.speech = start
	}
	return e, ok
}
