/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package profile holds print profiles: page geometry in inches plus per-tag
// margins, widths and styling used by the composer, the page breaker and the
// renderers.
package profile

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"scriptpress/internal/screenplay"
)

// ErrUnknownProfile is returned when a profile name is not builtin.
var ErrUnknownProfile = errors.New("unknown print profile")

// DefaultDualMaxFactor shrinks wrap widths for dual dialogue columns.
const DefaultDualMaxFactor = 0.75

// TokenSettings are print settings for one tag. Zero lengths, empty strings
// and nil pointers inherit from the next layer down (see Resolve). Max and
// Italic are pointers so that an explicit 0 or false is kept: a Max of 0 or
// less disables wrapping.
type TokenSettings struct {
	LeftMargin            float64          `yaml:"left_margin,omitempty" json:"left_margin,omitempty"`
	RightMargin           float64          `yaml:"right_margin,omitempty" json:"right_margin,omitempty"`
	DualFirstLeftMargin   float64          `yaml:"dual_first_left_margin,omitempty" json:"dual_first_left_margin,omitempty"`
	DualFirstRightMargin  float64          `yaml:"dual_first_right_margin,omitempty" json:"dual_first_right_margin,omitempty"`
	DualSecondLeftMargin  float64          `yaml:"dual_second_left_margin,omitempty" json:"dual_second_left_margin,omitempty"`
	DualSecondRightMargin float64          `yaml:"dual_second_right_margin,omitempty" json:"dual_second_right_margin,omitempty"`
	LevelIndent           float64          `yaml:"level_indent,omitempty" json:"level_indent,omitempty"`
	Color                 string           `yaml:"color,omitempty" json:"color,omitempty"`
	Italic                *bool            `yaml:"italic,omitempty" json:"italic,omitempty"`
	Align                 screenplay.Align `yaml:"align,omitempty" json:"align,omitempty"`
	Max                   *int             `yaml:"max,omitempty" json:"max,omitempty"`
}

// Chars returns a Max value.
func Chars(n int) *int { return &n }

// Flag returns an Italic value.
func Flag(b bool) *bool { return &b }

// WrapChars is the resolved Max; 0 when unset or disabled.
func (s TokenSettings) WrapChars() int {
	if s.Max == nil || *s.Max < 0 {
		return 0
	}
	return *s.Max
}

// IsItalic reports the resolved Italic flag.
func (s TokenSettings) IsItalic() bool { return s.Italic != nil && *s.Italic }

// Profile is a print profile. Lengths are inches, FontSize is points.
type Profile struct {
	Name                   string  `yaml:"name"`
	PageWidth              float64 `yaml:"page_width"`
	PageHeight             float64 `yaml:"page_height"`
	TopMargin              float64 `yaml:"top_margin"`
	BottomMargin           float64 `yaml:"bottom_margin"`
	LeftMargin             float64 `yaml:"left_margin"`
	RightMargin            float64 `yaml:"right_margin"`
	FontSize               float64 `yaml:"font_size"`
	LineSpacing            float64 `yaml:"line_spacing"`
	PageNumberTopMargin    float64 `yaml:"page_number_top_margin"`
	PageFooterBottomMargin float64 `yaml:"page_footer_bottom_margin"`
	LinesPerPage           int     `yaml:"lines_per_page"`
	DualMaxFactor          float64 `yaml:"dual_max_factor"`

	Settings map[screenplay.Tag]TokenSettings `yaml:"settings"`
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	p.Settings = maps.Clone(p.Settings)
	return p
}

// LineHeight is the height of one printed line in inches.
func (p Profile) LineHeight() float64 {
	spacing := p.LineSpacing
	if spacing <= 0 {
		spacing = 1
	}
	return p.FontSize / 72 * spacing
}

// DualFactor returns DualMaxFactor or its default.
func (p Profile) DualFactor() float64 {
	if p.DualMaxFactor > 0 {
		return p.DualMaxFactor
	}
	return DefaultDualMaxFactor
}

// WrapWidth is the wrap width in characters for tag; 0 means no wrapping.
func (p Profile) WrapWidth(tag screenplay.Tag, dual bool) int {
	m := p.Resolve(tag).WrapChars()
	if m == 0 {
		return 0
	}
	if dual {
		m = int(math.Floor(float64(m) * p.DualFactor()))
	}
	return max(m, 1)
}

// Margins returns the left and right margins for tag in the given column.
// Dual margins fall back to the single column ones.
func (p Profile) Margins(tag screenplay.Tag, pos screenplay.Position) (left, right float64) {
	s := p.Resolve(tag)
	left, right = s.LeftMargin, s.RightMargin
	switch pos {
	case screenplay.PosLeft:
		left = pick(s.DualFirstLeftMargin, left)
		right = pick(s.DualFirstRightMargin, right)
	case screenplay.PosRight:
		left = pick(s.DualSecondLeftMargin, left)
		right = pick(s.DualSecondRightMargin, right)
	}
	return left, right
}

func pick(v, fallback float64) float64 {
	if v != 0 {
		return v
	}
	return fallback
}

// Validate checks the page geometry.
func (p Profile) Validate() error {
	if p.PageWidth <= 0 || p.PageHeight <= 0 {
		return fmt.Errorf("profile %q: page size must be positive", p.Name)
	}
	if p.LeftMargin+p.RightMargin >= p.PageWidth {
		return fmt.Errorf("profile %q: horizontal margins exceed page width", p.Name)
	}
	if p.TopMargin+p.BottomMargin >= p.PageHeight {
		return fmt.Errorf("profile %q: vertical margins exceed page height", p.Name)
	}
	if p.FontSize <= 0 {
		return fmt.Errorf("profile %q: font_size must be positive", p.Name)
	}
	return nil
}

// Names lists the builtin profiles.
func Names() []string {
	return slices.Sorted(maps.Keys(builtins))
}

// ByName returns a copy of a builtin profile.
func ByName(name string) (Profile, error) {
	p, ok := builtins[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p.Clone(), nil
}

// USLetter returns a copy of the builtin usletter profile.
func USLetter() Profile { return builtins["usletter"].Clone() }

// A4 returns a copy of the builtin a4 profile.
func A4() Profile { return builtins["a4"].Clone() }
