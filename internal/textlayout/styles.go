/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "scriptpress/internal/screenplay"

// Sizes of the page regions a renderer fills, in points. LineHeight is left
// at 0 so the measurer decides.
const (
	bodySize      = 12
	watermarkSize = 72
)

// StyleFor picks the box style for a page position. Title page regions take
// the alignment of the side they sit on; everything else on the title page,
// the header and the footer is centered.
func StyleFor(pos screenplay.Position) BoxStyle {
	st := BoxStyle{Font: "Courier", FontSize: bodySize, Align: screenplay.AlignCenter}
	switch pos {
	case screenplay.PosHeader, screenplay.PosFooter:
		return st
	case screenplay.PosWatermark:
		st.FontSize = watermarkSize
		return st
	case screenplay.PosTopLeft, screenplay.PosBotLeft, screenplay.PosLeft:
		st.Align = screenplay.AlignLeft
	case screenplay.PosTopRight, screenplay.PosBotRight, screenplay.PosRight:
		st.Align = screenplay.AlignRight
	}
	if !pos.IsTitlePage() {
		st.Align = screenplay.AlignLeft
	}
	return st
}

// FitSize returns the largest font size, at most the style's own, at which
// text set with m fits in width. Sizes scale advances linearly, so one
// measurement suffices.
func FitSize(m Measurer, text string, width float64, style BoxStyle) float64 {
	size := style.FontSize
	if size <= 0 || width <= 0 || text == "" {
		return size
	}
	w := m.MeasureString(text, FontSpec{Family: style.Font, SizePt: size, Weight: 700})
	if w <= width {
		return size
	}
	return size * width / w
}
