/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scriptpress/internal/screenplay"
)

func tagsOf(tokens []screenplay.Token) []screenplay.Tag {
	out := make([]screenplay.Tag, len(tokens))
	for i, t := range tokens {
		out[i] = t.Tag
	}
	return out
}

func sameTags(got []screenplay.Token, want ...screenplay.Tag) bool {
	tags := tagsOf(got)
	if len(tags) != len(want) {
		return false
	}
	for i := range tags {
		if tags[i] != want[i] {
			return false
		}
	}
	return true
}

func TestParseBasicScreenplay(t *testing.T) {
	input := `Title: Big Fish
Credit: written by
Author: Jane Doe
Contact:
    Jane Doe
    555-0100

INT. HOUSE - DAY #1A#

Rain hammers the window.
Bob paces.

BOB (V.O.)
(quietly)
Is anyone there?
Hello?

CUT TO:

; a comment that never shows
.FLASHBACK

> THE END <`

	tokens, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if !sameTags(tokens,
		"title", "credit", "author", "contact",
		"scene", "action", "dialogue_character", "parenthetical", "dialogue",
		"transition", "scene", "action") {
		t.Fatalf("unexpected tags: %v", tagsOf(tokens))
	}
	if tokens[3].Text != "Jane Doe\n555-0100" {
		t.Fatalf("contact = %q", tokens[3].Text)
	}
	if tokens[4].Text != "INT. HOUSE - DAY" || tokens[4].Scene != "1A" {
		t.Fatalf("scene = %+v", tokens[4])
	}
	if tokens[5].Text != "Rain hammers the window.\nBob paces." {
		t.Fatalf("action = %q", tokens[5].Text)
	}
	if tokens[6].Text != "BOB" || tokens[6].Suffix != " (V.O.)" || tokens[6].Content() != "BOB (V.O.)" {
		t.Fatalf("cue = %+v", tokens[6])
	}
	if tokens[8].Text != "Is anyone there?\nHello?" {
		t.Fatalf("dialogue = %q", tokens[8].Text)
	}
	if tokens[9].Text != "CUT TO:" {
		t.Fatalf("transition = %q", tokens[9].Text)
	}
	if tokens[10].Text != "FLASHBACK" {
		t.Fatalf("forced scene = %q", tokens[10].Text)
	}
	if tokens[11].Text != "|THE END|" {
		t.Fatalf("centered = %q", tokens[11].Text)
	}
}

func TestParseDualDialogue(t *testing.T) {
	input := `BOB
Stop!

ALICE ^
No, you stop.

CAROL
Quiet.`
	tokens, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	want := []screenplay.Position{"l", "l", "r", "r", "", ""}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), tagsOf(tokens))
	}
	for i, p := range want {
		if tokens[i].Position != p {
			t.Fatalf("token %d (%s %q) position = %q, want %q", i, tokens[i].Tag, tokens[i].Text, tokens[i].Position, p)
		}
	}
	if tokens[2].Text != "ALICE" {
		t.Fatalf("dual cue = %q", tokens[2].Text)
	}
}

func TestParseDualWithoutPartner(t *testing.T) {
	tokens, errs := Parse("Some action.\n\nALICE ^\nHi.")
	if len(errs) != 1 || errs[0].Line != 3 {
		t.Fatalf("expected one error on line 3, got %+v", errs)
	}
	if tokens[1].Tag != screenplay.TagCharacter || tokens[1].Position != screenplay.PosNone {
		t.Fatalf("cue should fall back to a normal one: %+v", tokens[1])
	}
}

func TestParseSectionsChoicesAndBreaks(t *testing.T) {
	input := `# Act One

## The Door

+ Open it
* Walk away

===

@McCLANE
Yippee.

BOOM.`
	tokens, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if !sameTags(tokens, "knot", "stitch", "choice", "choice", "page_break", "dialogue_character", "dialogue", "action") {
		t.Fatalf("unexpected tags: %v", tagsOf(tokens))
	}
	if tokens[0].Text != "Act One" || tokens[1].Text != "The Door" {
		t.Fatalf("sections = %q, %q", tokens[0].Text, tokens[1].Text)
	}
	if tokens[3].Text != "Walk away" {
		t.Fatalf("choice = %q", tokens[3].Text)
	}
	if tokens[5].Text != "McCLANE" {
		t.Fatalf("forced cue = %q", tokens[5].Text)
	}
}

func TestParseNoTitlePage(t *testing.T) {
	tokens, _ := Parse("Note: this is action, not a title key.\n\nEXT. FIELD - DAY")
	if !sameTags(tokens, "action", "scene") {
		t.Fatalf("unexpected tags: %v", tagsOf(tokens))
	}
}

func TestParseWindowsLineEndings(t *testing.T) {
	tokens, _ := Parse("INT. ROOM - DAY\r\n\r\nBOB\r\nHi.\r\n")
	if !sameTags(tokens, "scene", "dialogue_character", "dialogue") {
		t.Fatalf("unexpected tags: %v", tagsOf(tokens))
	}
	if tokens[2].Text != "Hi." {
		t.Fatalf("dialogue = %q", tokens[2].Text)
	}
}

func TestLoadTokensRoundTrip(t *testing.T) {
	in, _ := Parse("INT. ROOM - DAY #4#\n\nBOB\nHi.")
	var buf bytes.Buffer
	if err := WriteTokens(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := LoadTokens(&buf)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != len(in) || out[0] != in[0] || out[2] != in[2] {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestLoadTokensNumericScene(t *testing.T) {
	out, err := LoadTokens(strings.NewReader(`[{"tag":"scene","text":"INT. A","scene":12}]`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out[0].Scene != "12" {
		t.Fatalf("scene = %q", out[0].Scene)
	}
}

func TestLoadTokensRejectsInvalid(t *testing.T) {
	cases := []string{
		`{"tag":"scene"}`,
		`[{"text":"no tag"}]`,
		`[{"tag":"dialogue","position":"middle"}]`,
		`[{"tag":"action","bogus":true}]`,
		`[{"tag":"Bad Tag"}]`,
		`not json`,
	}
	for _, c := range cases {
		if _, err := LoadTokens(strings.NewReader(c)); !errors.Is(err, ErrInvalidTokens) {
			t.Fatalf("LoadTokens(%s) err = %v, want ErrInvalidTokens", c, err)
		}
	}
}

func TestReadFileByExtension(t *testing.T) {
	dir := t.TempDir()
	fountain := filepath.Join(dir, "a.fountain")
	if err := os.WriteFile(fountain, []byte("INT. HOUSE - DAY\n\nBOB\nHi.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	toks, errs, err := ReadFile(fountain)
	if err != nil || len(errs) != 0 {
		t.Fatalf("ReadFile: %v %v", err, errs)
	}
	if !sameTags(toks, screenplay.TagScene, screenplay.TagCharacter, screenplay.TagDialogue) {
		t.Fatalf("unexpected tags: %v", tagsOf(toks))
	}

	js := filepath.Join(dir, "a.JSON")
	if err := os.WriteFile(js, []byte(`[{"tag":"action","text":"Rain."}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	toks, _, err = ReadFile(js)
	if err != nil || len(toks) != 1 || toks[0].Tag != screenplay.TagAction {
		t.Fatalf("ReadFile json: %v %+v", err, toks)
	}

	if _, _, err := ReadFile(filepath.Join(dir, "missing.fountain")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
