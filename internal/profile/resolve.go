/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package profile

import "scriptpress/internal/screenplay"

// tagDefaults are the conventions a tag keeps even when a profile says
// nothing about it.
var tagDefaults = map[screenplay.Tag]TokenSettings{
	screenplay.TagTransition: {Align: screenplay.AlignRight},
	screenplay.TagKnot:       {LevelIndent: 0.2},
	screenplay.TagStitch:     {LevelIndent: 0.2},
}

// Resolve returns the effective settings for tag. Layers are applied in
// order, later ones winning field by field:
//
//  1. builtin tag default
//  2. profile "default" settings
//  3. profile settings for tag
//  4. overrides, in argument order
func (p Profile) Resolve(tag screenplay.Tag, overrides ...TokenSettings) TokenSettings {
	var out TokenSettings
	merge(&out, tagDefaults[tag])
	if d, ok := p.Settings[screenplay.TagDefault]; ok {
		merge(&out, d)
	}
	if tag != screenplay.TagDefault {
		if s, ok := p.Settings[tag]; ok {
			merge(&out, s)
		}
	}
	for _, o := range overrides {
		merge(&out, o)
	}
	return out
}

func merge(dst *TokenSettings, src TokenSettings) {
	set := func(d *float64, v float64) {
		if v != 0 {
			*d = v
		}
	}
	set(&dst.LeftMargin, src.LeftMargin)
	set(&dst.RightMargin, src.RightMargin)
	set(&dst.DualFirstLeftMargin, src.DualFirstLeftMargin)
	set(&dst.DualFirstRightMargin, src.DualFirstRightMargin)
	set(&dst.DualSecondLeftMargin, src.DualSecondLeftMargin)
	set(&dst.DualSecondRightMargin, src.DualSecondRightMargin)
	set(&dst.LevelIndent, src.LevelIndent)
	if src.Color != "" {
		dst.Color = src.Color
	}
	if src.Italic != nil {
		dst.Italic = src.Italic
	}
	if src.Align != screenplay.AlignNone {
		dst.Align = src.Align
	}
	if src.Max != nil {
		dst.Max = src.Max
	}
}
