/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// FontLibrary holds parsed OpenType fonts keyed by family, weight and slant.
// Family names are matched case-insensitively.
type FontLibrary struct {
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	weight int
	italic bool
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)} }

// LoadBytes parses an in-memory TrueType/OpenType font.
func (fl *FontLibrary) LoadBytes(family string, weight int, italic bool, data []byte) error {
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}
	fl.fonts[fontKey{family: strings.ToLower(family), weight: weight, italic: italic}] = f
	return nil
}

func (fl *FontLibrary) find(spec FontSpec) *opentype.Font {
	if fl == nil || fl.fonts == nil {
		return nil
	}
	family := strings.ToLower(spec.Family)
	if f, ok := fl.fonts[fontKey{family: family, weight: spec.Weight, italic: spec.Italic}]; ok {
		return f
	}
	// same family and slant with the closest weight, then anything in the family
	var best *opentype.Font
	bestDist := -1
	for k, f := range fl.fonts {
		if k.family != family || k.italic != spec.Italic {
			continue
		}
		d := k.weight - spec.Weight
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = f, d
		}
	}
	if best != nil {
		return best
	}
	for k, f := range fl.fonts {
		if k.family == family {
			return f
		}
	}
	return nil
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another Provider.
// Kerning comes from opentype.Face through font.Drawer.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64 // default 72 if zero
	Fallback Provider
}

func (p OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePt <= 0 {
		spec.SizePt = 12
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}

	if p.Lib != nil {
		if f := p.Lib.find(spec); f != nil {
			face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: spec.SizePt, DPI: dpi, Hinting: font.HintingNone})
			if err == nil {
				return face, faceMetrics(face)
			}
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}
