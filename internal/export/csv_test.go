/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"

	"scriptpress/internal/profile"
	"scriptpress/internal/screenplay"
)

func TestCSVRendererRows(t *testing.T) {
	cfg := screenplay.DefaultConfig()
	prof := profile.USLetter()
	toks := []screenplay.Token{
		{Tag: screenplay.TagTitle, Text: "My Film"},
		{Tag: screenplay.TagScene, Text: "INT. HOUSE - DAY", Scene: "1"},
		{Tag: screenplay.TagAction, Text: "Rain, again."},
		{Tag: screenplay.TagCharacter, Text: "BOB"},
		{Tag: screenplay.TagDialogue, Text: "Hi."},
		{Tag: screenplay.TagCharacter, Text: "ANN", Position: screenplay.PosLeft},
		{Tag: screenplay.TagCharacter, Text: "CARL", Position: screenplay.PosRight},
	}
	var buf bytes.Buffer
	if err := (&CSVRenderer{}).Render(&buf, Document{Spans: layout(toks, cfg, prof), Config: cfg, Profile: prof}); err != nil {
		t.Fatalf("render csv: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := [][]string{
		{"page", "line", "tag", "scene", "position", "text"},
		{"0", "1", "title", "", "cc", "My Film"},
		{"1", "1", "scene", "1", "", "INT. HOUSE - DAY"},
		{"1", "3", "action", "", "", "Rain, again."},
		{"1", "5", "dialogue_character", "", "", "BOB"},
		{"1", "6", "dialogue", "", "", "Hi."},
		{"1", "8", "dialogue_character", "", "l", "ANN"},
		{"1", "8", "dialogue_character", "", "r", "CARL"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows =\n%v\nwant\n%v", rows, want)
	}
}

func TestCSVRendererEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&CSVRenderer{}).Render(&buf, Document{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := buf.String(); got != "page,line,tag,scene,position,text\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
