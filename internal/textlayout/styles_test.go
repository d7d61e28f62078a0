/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"math"
	"strings"
	"testing"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"

	"scriptpress/internal/screenplay"
)

func TestStyleForPosition(t *testing.T) {
	if st := StyleFor(screenplay.PosBotLeft); st.Align != screenplay.AlignLeft {
		t.Fatalf("bl align = %q", st.Align)
	}
	if st := StyleFor(screenplay.PosBotRight); st.Align != screenplay.AlignRight {
		t.Fatalf("br align = %q", st.Align)
	}
	if st := StyleFor(screenplay.PosCenter); st.Align != screenplay.AlignCenter {
		t.Fatalf("cc align = %q", st.Align)
	}
	if st := StyleFor(screenplay.PosWatermark); st.FontSize != 72 {
		t.Fatalf("watermark size = %v", st.FontSize)
	}
	if st := StyleFor(screenplay.PosNone); st.Align != screenplay.AlignLeft || st.FontSize != 12 {
		t.Fatalf("body style = %+v", st)
	}
	if st := StyleFor(screenplay.PosHeader); st.Align != screenplay.AlignCenter {
		t.Fatalf("header align = %q", st.Align)
	}
}

func TestFitSizeShrinksToWidth(t *testing.T) {
	st := StyleFor(screenplay.PosWatermark)
	if got := FitSize(CharMeasurer{}, "DRAFT", 10, st); got != 72 {
		t.Fatalf("short text should keep its size, got %v", got)
	}
	// CharMeasurer ignores the size, so 20 graphemes in 10 units halves it
	if got := FitSize(CharMeasurer{}, strings.Repeat("x", 20), 10, st); got != 36 {
		t.Fatalf("size = %v, want 36", got)
	}
	if got := FitSize(CharMeasurer{}, "", 10, st); got != 72 {
		t.Fatalf("empty text size = %v", got)
	}
}

func TestScaledConvertsUnits(t *testing.T) {
	lib := NewFontLibrary()
	if err := lib.LoadBytes("Go", 400, false, goregular.TTF); err != nil {
		t.Fatalf("load: %v", err)
	}
	pt := FaceMeasurer{Provider: OTProvider{Lib: lib}}
	in := Scaled{Base: pt, Factor: 1.0 / 72}
	spec := FontSpec{Family: "Go", SizePt: 12}
	if a, b := pt.MeasureString("Hello", spec), in.MeasureString("Hello", spec); math.Abs(a/72-b) > 1e-9 {
		t.Fatalf("points %v, inches %v", a, b)
	}
	if h := in.LineMetrics(spec).Height(); h <= 0 || h >= 1 {
		t.Fatalf("12pt line height in inches = %v", h)
	}
	if m := (Scaled{Base: CharMeasurer{}, Factor: 2}).LineMetrics(spec); m != (Metrics{}) {
		t.Fatalf("measurer without metrics should report none, got %+v", m)
	}
}

func TestOTProvider_Fallback(t *testing.T) {
	otp := OTProvider{Lib: NewFontLibrary()}
	face, m := otp.Resolve(FontSpec{Family: "Nonexistent", SizePt: 12})
	if face != basicfont.Face7x13 {
		t.Fatalf("expected basicfont fallback")
	}
	if m.Height() <= 0 {
		t.Fatalf("expected positive metrics: %+v", m)
	}
}

func TestFontLibraryLoadBytes(t *testing.T) {
	lib := NewFontLibrary()
	if err := lib.LoadBytes("Go", 400, false, goregular.TTF); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(lib.fonts) != 1 {
		t.Fatalf("loaded %d faces", len(lib.fonts))
	}
	otp := OTProvider{Lib: lib}
	// family lookup ignores case and falls back to the closest weight
	face, m := otp.Resolve(FontSpec{Family: "go", SizePt: 12, Weight: 700})
	if face == basicfont.Face7x13 {
		t.Fatalf("expected Go font face, got fallback")
	}
	if m.Ascent <= 0 {
		t.Fatalf("metrics = %+v", m)
	}
	fm := FaceMeasurer{Provider: otp}
	narrow := fm.MeasureString("iii", FontSpec{Family: "Go", SizePt: 12})
	wide := fm.MeasureString("WWW", FontSpec{Family: "Go", SizePt: 12})
	if !(wide > narrow && narrow > 0) {
		t.Fatalf("expected proportional widths: iii=%v WWW=%v", narrow, wide)
	}
}

func TestFontLibraryErrors(t *testing.T) {
	lib := NewFontLibrary()
	if err := lib.LoadBytes("bad", 400, false, []byte("not a font")); err == nil {
		t.Fatalf("expected parse error")
	}
}
