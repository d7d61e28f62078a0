/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

// SceneNumbers selects where scene numbers are printed.
type SceneNumbers string

const (
	SceneNumbersNone  SceneNumbers = "none"
	SceneNumbersLeft  SceneNumbers = "left"
	SceneNumbersRight SceneNumbers = "right"
	SceneNumbersBoth  SceneNumbers = "both"
)

// Default continuation markers.
const (
	DefaultMore  = "(MORE)"
	DefaultContd = "(CONT'D)"
)

// Config holds the feature flags consumed by composition and pagination.
type Config struct {
	PrintSections                 bool         `yaml:"screenplay_print_sections" json:"screenplay_print_sections"`
	PrintSceneHeadersBold         bool         `yaml:"screenplay_print_scene_headers_bold" json:"screenplay_print_scene_headers_bold"`
	PrintDialogueSplitAcrossPages bool         `yaml:"screenplay_print_dialogue_split_across_pages" json:"screenplay_print_dialogue_split_across_pages"`
	PrintDialogueMore             string       `yaml:"screenplay_print_dialogue_more" json:"screenplay_print_dialogue_more"`
	PrintDialogueContd            string       `yaml:"screenplay_print_dialogue_contd" json:"screenplay_print_dialogue_contd"`
	PrintBookmarks                bool         `yaml:"screenplay_print_bookmarks" json:"screenplay_print_bookmarks"`
	PrintSceneNumbers             SceneNumbers `yaml:"screenplay_print_scene_numbers" json:"screenplay_print_scene_numbers"`
	PrintTitlePage                bool         `yaml:"screenplay_print_title_page" json:"screenplay_print_title_page"`
}

// DefaultConfig returns the flags used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		PrintSections:                 false,
		PrintSceneHeadersBold:         false,
		PrintDialogueSplitAcrossPages: true,
		PrintDialogueMore:             DefaultMore,
		PrintDialogueContd:            DefaultContd,
		PrintBookmarks:                true,
		PrintSceneNumbers:             SceneNumbersNone,
		PrintTitlePage:                true,
	}
}

// MoreText returns the configured "(MORE)" marker or its default.
func (c Config) MoreText() string {
	if c.PrintDialogueMore == "" {
		return DefaultMore
	}
	return c.PrintDialogueMore
}

// ContdText returns the configured "(CONT'D)" marker or its default.
func (c Config) ContdText() string {
	if c.PrintDialogueContd == "" {
		return DefaultContd
	}
	return c.PrintDialogueContd
}

// SceneNumbersLeft reports whether scene numbers go in the left margin.
func (c Config) SceneNumbersLeft() bool {
	return c.PrintSceneNumbers == SceneNumbersLeft || c.PrintSceneNumbers == SceneNumbersBoth
}

// SceneNumbersRight reports whether scene numbers go in the right margin.
func (c Config) SceneNumbersRight() bool {
	return c.PrintSceneNumbers == SceneNumbersRight || c.PrintSceneNumbers == SceneNumbersBoth
}
