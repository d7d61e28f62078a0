/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures styled runs and wraps them into lines.
//
// Text measurement sits behind the Measurer interface so the same wrapping
// algorithm serves character-count layout (CharMeasurer), font-face metrics
// (FaceMeasurer over golang.org/x/image faces) and renderer-provided metrics.
package textlayout

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name
	SizePt float64
	Weight int // 100..900
	Italic bool
}

// Bold reports whether the weight is bold.
func (s FontSpec) Bold() bool { return s.Weight >= 600 }

// Metrics provides vertical font metrics in the measurer's unit.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// Height is the distance between two baselines.
func (m Metrics) Height() float64 { return m.Ascent + m.Descent + m.LineGap }

// Measurer reports the advance width of text set in a font.
type Measurer interface {
	MeasureString(text string, spec FontSpec) float64
}

// MetricsMeasurer is implemented by measurers that know the vertical metrics
// of a font. Wrapper uses it for line height when the style does not set one.
type MetricsMeasurer interface {
	LineMetrics(spec FontSpec) Metrics
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
type BasicProvider struct{}

func (BasicProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, faceMetrics(f)
}

func faceMetrics(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// FaceMeasurer measures text with font faces resolved by a Provider. Widths
// are in pixels at the provider's DPI (points at 72 DPI).
type FaceMeasurer struct{ Provider Provider }

func (m FaceMeasurer) provider() Provider {
	if m.Provider == nil {
		return BasicProvider{}
	}
	return m.Provider
}

func (m FaceMeasurer) MeasureString(text string, spec FontSpec) float64 {
	face, _ := m.provider().Resolve(spec)
	return fixedToFloat(font.MeasureString(face, text))
}

func (m FaceMeasurer) LineMetrics(spec FontSpec) Metrics {
	_, met := m.provider().Resolve(spec)
	return met
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// CharMeasurer measures text in grapheme clusters: every user-perceived
// character is one unit wide regardless of font.
type CharMeasurer struct{}

func (CharMeasurer) MeasureString(text string, _ FontSpec) float64 {
	return float64(GraphemeCount(text))
}

// Scaled converts the unit of another measurer, e.g. points to inches with
// Factor 1.0/72.
type Scaled struct {
	Base   Measurer
	Factor float64
}

func (s Scaled) MeasureString(text string, spec FontSpec) float64 {
	return s.Base.MeasureString(text, spec) * s.Factor
}

func (s Scaled) LineMetrics(spec FontSpec) Metrics {
	mm, ok := s.Base.(MetricsMeasurer)
	if !ok {
		return Metrics{}
	}
	m := mm.LineMetrics(spec)
	return Metrics{Ascent: m.Ascent * s.Factor, Descent: m.Descent * s.Factor, LineGap: m.LineGap * s.Factor}
}
