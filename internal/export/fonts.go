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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"scriptpress/internal/textlayout"
)

// Font is a TrueType face supplied by the user. The PDF renderer embeds it
// and both page renderers fit title page and watermark text with its
// advances.
type Font struct {
	Family string
	data   []byte
	lib    *textlayout.FontLibrary
}

// LoadFont reads a TrueType file. The family is the file name without its
// extension.
func LoadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return NewFont(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), data)
}

// NewFont parses data as a TrueType font named family.
func NewFont(family string, data []byte) (*Font, error) {
	if strings.TrimSpace(family) == "" {
		return nil, errors.New("font: empty family name")
	}
	lib := textlayout.NewFontLibrary()
	if err := lib.LoadBytes(family, 400, false, data); err != nil {
		return nil, err
	}
	return &Font{Family: family, data: data, lib: lib}, nil
}

// Measurer measures with the font's own advances, in inches.
func (f *Font) Measurer() textlayout.Measurer {
	return textlayout.Scaled{
		Base:   textlayout.FaceMeasurer{Provider: textlayout.OTProvider{Lib: f.lib}},
		Factor: 1.0 / 72,
	}
}

// register embeds the font under every style the renderer asks for. There
// is one face, so bold and italic text is set upright and regular.
func (f *Font) register(pdf *gofpdf.Fpdf) {
	for _, style := range []string{"", "B", "I", "BI"} {
		pdf.AddUTF8FontFromBytes(f.Family, style, f.data)
	}
}

// courierMeasurer approximates the layout of the built-in monospaced font in
// inches: every grapheme advances 0.6 em.
func courierMeasurer() textlayout.Measurer {
	return courier{}
}

type courier struct{}

func (courier) MeasureString(text string, spec textlayout.FontSpec) float64 {
	size := spec.SizePt
	if size <= 0 {
		size = 12
	}
	return float64(textlayout.GraphemeCount(text)) * 0.6 * size / 72
}
