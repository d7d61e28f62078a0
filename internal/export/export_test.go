/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"testing"

	"scriptpress/internal/screenplay"
)

// sampleTokens is a short screenplay with a title page, a scene, action,
// dialogue and a dual dialogue block.
func sampleTokens() []screenplay.Token {
	return []screenplay.Token{
		{Tag: screenplay.TagTitle, Text: "My Film"},
		{Tag: screenplay.TagAuthor, Text: "Jane Doe"},
		{Tag: screenplay.TagDate, Text: "2025-01-01"},
		{Tag: screenplay.TagScene, Text: "INT. HOUSE - DAY", Scene: "1"},
		{Tag: screenplay.TagAction, Text: "Rain."},
		{Tag: screenplay.TagCharacter, Text: "BOB"},
		{Tag: screenplay.TagDialogue, Text: "Hi **there**."},
		{Tag: screenplay.TagCharacter, Text: "ANN", Position: screenplay.PosLeft},
		{Tag: screenplay.TagDialogue, Text: "Left.", Position: screenplay.PosLeft},
		{Tag: screenplay.TagCharacter, Text: "CARL", Position: screenplay.PosRight},
		{Tag: screenplay.TagDialogue, Text: "Right.", Position: screenplay.PosRight},
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"pdf": FormatPDF, ".PDF": FormatPDF, " html ": FormatHTML, "htm": FormatHTML, "csv": FormatCSV}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if f, ok := FormatForPath("out/script.html"); !ok || f != FormatHTML {
		t.Fatalf("FormatForPath = %q, %v", f, ok)
	}
	if _, ok := FormatForPath("script"); ok {
		t.Fatalf("no extension should not resolve")
	}
}

func TestNewRenderer(t *testing.T) {
	for _, f := range Formats() {
		r, err := NewRenderer(f)
		if err != nil {
			t.Fatalf("NewRenderer(%s): %v", f, err)
		}
		if r.Format() != f {
			t.Fatalf("renderer for %s reports %s", f, r.Format())
		}
	}
	if _, err := NewRenderer("svg"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestDocumentTitle(t *testing.T) {
	spans := []screenplay.Span{
		screenplay.MetaLayout{Positions: map[screenplay.Position][]screenplay.Line{
			screenplay.PosCenter: {
				{Tag: screenplay.TagTitle, Content: []screenplay.StyledRun{{Text: " My Film "}}},
			},
		}},
	}
	if got := DocumentTitle(spans); got != "My Film" {
		t.Fatalf("DocumentTitle = %q", got)
	}
	if got := DocumentTitle(nil); got != "" {
		t.Fatalf("DocumentTitle(nil) = %q", got)
	}
}

func TestParseHexColor(t *testing.T) {
	r, g, b, ok := parseHexColor("#555555")
	if !ok || r != 0x55 || g != 0x55 || b != 0x55 {
		t.Fatalf("#555555 = %d %d %d %v", r, g, b, ok)
	}
	r, g, b, ok = parseHexColor("#f80")
	if !ok || r != 0xff || g != 0x88 || b != 0 {
		t.Fatalf("#f80 = %d %d %d %v", r, g, b, ok)
	}
	for _, bad := range []string{"", "red", "#12345", "#gggggg"} {
		if _, _, _, ok := parseHexColor(bad); ok {
			t.Fatalf("%q should not parse", bad)
		}
	}
}
