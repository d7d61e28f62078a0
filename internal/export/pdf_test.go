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
	"strings"
	"testing"
	"time"

	"scriptpress/internal/paginate"
	"scriptpress/internal/profile"
	"scriptpress/internal/screenplay"
	"scriptpress/internal/textlayout"
	"scriptpress/internal/typeset"

	"github.com/jung-kurt/gofpdf"
)

func layout(tokens []screenplay.Token, cfg screenplay.Config, prof profile.Profile) []screenplay.Span {
	return paginate.BreakAcrossPages(typeset.Compose(tokens, cfg, prof), cfg, prof)
}

func renderPDF(t *testing.T, doc Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	r := &PDFRenderer{NoCompression: true}
	if err := r.Render(&buf, doc); err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	return buf.Bytes()
}

func pageCount(pdf []byte) int { return bytes.Count(pdf, []byte("<</Type /Page\n")) }

func TestPDFRendererWritesTitleAndBody(t *testing.T) {
	cfg := screenplay.DefaultConfig()
	cfg.PrintSceneNumbers = screenplay.SceneNumbersBoth
	prof := profile.USLetter()
	out := renderPDF(t, Document{
		Spans:     layout(sampleTokens(), cfg, prof),
		Config:    cfg,
		Profile:   prof,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("missing PDF header")
	}
	if n := pageCount(out); n != 2 {
		t.Fatalf("expected title page plus one page, got %d pages", n)
	}
	for _, want := range []string{"(BOB)", "(ANN)", "(CARL)", "(My Film)", "(INT. HOUSE - DAY)", "/Outlines"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Fatalf("pdf does not contain %s", want)
		}
	}
}

func TestPDFRendererWithoutTitlePage(t *testing.T) {
	cfg := screenplay.DefaultConfig()
	cfg.PrintTitlePage = false
	prof := profile.USLetter()
	out := renderPDF(t, Document{Spans: layout(sampleTokens(), cfg, prof), Config: cfg, Profile: prof})
	if n := pageCount(out); n != 1 {
		t.Fatalf("expected 1 page, got %d", n)
	}
}

func TestPDFRendererPageNumbers(t *testing.T) {
	cfg := screenplay.DefaultConfig()
	prof := profile.USLetter()
	prof.LinesPerPage = 5
	var toks []screenplay.Token
	for i := 0; i < 6; i++ {
		toks = append(toks, screenplay.Token{Tag: screenplay.TagAction, Text: "Something happens."})
	}
	out := renderPDF(t, Document{Spans: layout(toks, cfg, prof), Config: cfg, Profile: prof})
	if n := pageCount(out); n < 2 {
		t.Fatalf("expected several pages, got %d", n)
	}
	if bytes.Contains(out, []byte("(1.)")) {
		t.Fatalf("first page must not be numbered")
	}
	if !bytes.Contains(out, []byte("(2.)")) {
		t.Fatalf("second page number missing")
	}
}

func TestPDFRendererMetaRegions(t *testing.T) {
	cfg := screenplay.DefaultConfig()
	prof := profile.A4()
	toks := []screenplay.Token{
		{Tag: "header", Text: "DRAFT HEADER"},
		{Tag: "footer", Text: "FOOTER TEXT"},
		{Tag: "watermark", Text: "CONFIDENTIAL"},
		{Tag: screenplay.TagAction, Text: "~~Struck~~ and __under__ and ::marked::"},
	}
	out := renderPDF(t, Document{Spans: layout(toks, cfg, prof), Config: cfg, Profile: prof})
	for _, want := range []string{"(DRAFT HEADER)", "(FOOTER TEXT)", "(CONFIDENTIAL)", "(Struck)"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Fatalf("pdf does not contain %s", want)
		}
	}
}

func TestPDFRendererEmptyDocument(t *testing.T) {
	out := renderPDF(t, Document{Config: screenplay.DefaultConfig(), Profile: profile.USLetter()})
	if n := pageCount(out); n != 1 {
		t.Fatalf("empty document should still have one page, got %d", n)
	}
}

func TestPDFRendererRejectsBadProfile(t *testing.T) {
	prof := profile.USLetter()
	prof.PageWidth = 0
	var buf bytes.Buffer
	if err := (&PDFRenderer{}).Render(&buf, Document{Profile: prof}); err == nil {
		t.Fatalf("expected error for invalid profile")
	}
}

func TestPDFMeasurer(t *testing.T) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "in", Size: gofpdf.SizeType{Wd: 8.5, Ht: 11}})
	m := NewPDFMeasurer(pdf, "Courier")
	spec := textlayout.FontSpec{Family: "Courier", SizePt: 12}
	// Courier advances 600/1000 em: ten characters at 12pt are 1 inch
	if w := m.MeasureString("ABCDEFGHIJ", spec); w < 0.99 || w > 1.01 {
		t.Fatalf("width = %v, want 1in", w)
	}
	unknown := textlayout.FontSpec{Family: "NoSuchFont", SizePt: 12}
	if w := m.MeasureString("ABCDEFGHIJ", unknown); w < 0.99 || w > 1.01 {
		t.Fatalf("unknown family should fall back to Courier, got %v", w)
	}
	met := m.LineMetrics(spec)
	if met.Height() <= 0 {
		t.Fatalf("line metrics height = %v", met.Height())
	}
	if pdf.Err() {
		t.Fatalf("measuring left an error: %v", pdf.Error())
	}

	w := textlayout.NewWrapper(m)
	lines := w.Wrap([]screenplay.StyledRun{{Text: "AAAA BBBB"}}, 0.5, textlayout.BoxStyle{Font: "Courier", FontSize: 12})
	if len(lines) != 2 || strings.TrimSpace(lines[0].Text()) != "AAAA" {
		t.Fatalf("unexpected wrap: %+v", lines)
	}
}
