/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"scriptpress/internal/textlayout"
)

// coreFamilies are the gofpdf standard fonts usable without embedding.
var coreFamilies = map[string]string{
	"courier":   "Courier",
	"helvetica": "Helvetica",
	"arial":     "Helvetica",
	"times":     "Times",
}

// PDFMeasurer measures text with the font metrics of a gofpdf document, in
// the document's user unit. Measuring changes the document's current font.
type PDFMeasurer struct {
	PDF    *gofpdf.Fpdf
	Family string
	// Embedded names a UTF-8 font registered on PDF. It stands in for every
	// family that is not a core font.
	Embedded string
	tr       func(string) string
}

// NewPDFMeasurer returns a measurer for pdf that falls back to family for
// fonts gofpdf does not know.
func NewPDFMeasurer(pdf *gofpdf.Fpdf, family string) *PDFMeasurer {
	return &PDFMeasurer{PDF: pdf, Family: family, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (m *PDFMeasurer) MeasureString(text string, spec textlayout.FontSpec) float64 {
	family := m.apply(spec)
	if family == m.Embedded {
		return m.PDF.GetStringWidth(text)
	}
	return m.PDF.GetStringWidth(m.tr(text))
}

func (m *PDFMeasurer) LineMetrics(spec textlayout.FontSpec) textlayout.Metrics {
	m.apply(spec)
	_, size := m.PDF.GetFontSize()
	// core fonts carry no descriptor
	asc, desc := 0.8, 0.2
	if d := m.PDF.GetFontDesc("", ""); d.Ascent > 0 {
		asc = float64(d.Ascent) / 1000
		desc = math.Abs(float64(d.Descent)) / 1000
	}
	return textlayout.Metrics{Ascent: asc * size, Descent: desc * size}
}

func (m *PDFMeasurer) apply(spec textlayout.FontSpec) string {
	size := spec.SizePt
	if size <= 0 {
		size = 12
	}
	family := m.family(spec.Family)
	m.PDF.SetFont(family, fontStyle(spec.Bold(), spec.Italic, false, false), size)
	return family
}

func (m *PDFMeasurer) family(name string) string {
	if m.Embedded != "" && strings.EqualFold(name, m.Embedded) {
		return m.Embedded
	}
	if f, ok := coreFamilies[strings.ToLower(name)]; ok {
		return f
	}
	if m.Embedded != "" {
		return m.Embedded
	}
	if f, ok := coreFamilies[strings.ToLower(m.Family)]; ok {
		return f
	}
	return "Courier"
}

func fontStyle(bold, italic, underline, strike bool) string {
	var b strings.Builder
	if bold {
		b.WriteByte('B')
	}
	if italic {
		b.WriteByte('I')
	}
	if underline {
		b.WriteByte('U')
	}
	if strike {
		b.WriteByte('S')
	}
	return b.String()
}
