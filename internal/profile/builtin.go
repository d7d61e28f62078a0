/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package profile

import "scriptpress/internal/screenplay"

// standardSettings is shared by both builtin paper sizes; only the page
// geometry differs.
func standardSettings() map[screenplay.Tag]TokenSettings {
	return map[screenplay.Tag]TokenSettings{
		screenplay.TagDefault: {LeftMargin: 1.5, RightMargin: 1, Max: Chars(61)},
		screenplay.TagScene:   {LeftMargin: 1.5, RightMargin: 1, Max: Chars(57)},
		screenplay.TagAction:  {LeftMargin: 1.5, RightMargin: 1, Max: Chars(61)},
		screenplay.TagChoice:  {LeftMargin: 1.5, RightMargin: 1, Max: Chars(61)},
		screenplay.TagCharacter: {
			LeftMargin: 3.7, RightMargin: 1,
			DualFirstLeftMargin: 2.75, DualFirstRightMargin: 4.45,
			DualSecondLeftMargin: 5.75, DualSecondRightMargin: 1,
			Max: Chars(33),
		},
		screenplay.TagMore: {
			LeftMargin: 3.7, RightMargin: 1,
			DualFirstLeftMargin: 2.75, DualFirstRightMargin: 4.45,
			DualSecondLeftMargin: 5.75, DualSecondRightMargin: 1,
			Max: Chars(33),
		},
		screenplay.TagParenthetical: {
			LeftMargin: 3.1, RightMargin: 2.9,
			DualFirstLeftMargin: 2.1, DualFirstRightMargin: 4.45,
			DualSecondLeftMargin: 5.1, DualSecondRightMargin: 1,
			Max: Chars(26),
		},
		screenplay.TagDialogue: {
			LeftMargin: 2.5, RightMargin: 2.5,
			DualFirstLeftMargin: 1.5, DualFirstRightMargin: 4.45,
			DualSecondLeftMargin: 4.5, DualSecondRightMargin: 1,
			Max: Chars(35),
		},
		screenplay.TagTransition: {LeftMargin: 1.5, RightMargin: 1, Align: screenplay.AlignRight, Max: Chars(61)},
		screenplay.TagKnot:       {LeftMargin: 1, RightMargin: 1, LevelIndent: 0.2, Color: "#555555", Max: Chars(61)},
		screenplay.TagStitch:     {LeftMargin: 1, RightMargin: 1, LevelIndent: 0.2, Color: "#555555", Max: Chars(61)},
	}
}

var builtins = map[string]Profile{
	"usletter": {
		Name:                   "usletter",
		PageWidth:              8.5,
		PageHeight:             11,
		TopMargin:              1,
		BottomMargin:           1,
		LeftMargin:             1.5,
		RightMargin:            1,
		FontSize:               12,
		LineSpacing:            1,
		PageNumberTopMargin:    0.5,
		PageFooterBottomMargin: 0.5,
		LinesPerPage:           55,
		DualMaxFactor:          DefaultDualMaxFactor,
		Settings:               standardSettings(),
	},
	"a4": {
		Name:                   "a4",
		PageWidth:              8.27,
		PageHeight:             11.7,
		TopMargin:              1,
		BottomMargin:           1,
		LeftMargin:             1.5,
		RightMargin:            1,
		FontSize:               12,
		LineSpacing:            1,
		PageNumberTopMargin:    0.5,
		PageFooterBottomMargin: 0.5,
		LinesPerPage:           59,
		DualMaxFactor:          DefaultDualMaxFactor,
		Settings:               standardSettings(),
	},
}
