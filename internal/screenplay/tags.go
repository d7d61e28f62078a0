/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package screenplay holds the data model shared by the composition and
// pagination engine: the input token stream, the composed span list and the
// feature flags that steer both.
package screenplay

// Tag names the semantic kind of a token or a composed line.
type Tag string

// Body and structure tags.
const (
	TagPageBreak     Tag = "page_break"
	TagKnot          Tag = "knot"
	TagStitch        Tag = "stitch"
	TagScene         Tag = "scene"
	TagTransition    Tag = "transition"
	TagAction        Tag = "action"
	TagCharacter     Tag = "dialogue_character"
	TagParenthetical Tag = "parenthetical"
	TagDialogue      Tag = "dialogue"
	TagChoice        Tag = "choice"
)

// Tags that only exist in composed output.
const (
	TagSeparator Tag = "separator"
	TagSplit     Tag = "split"
	TagMeta      Tag = "meta"
	TagMore      Tag = "more"
	TagDefault   Tag = "default"
)

// Metadata (title page) tags.
const (
	TagTitle     Tag = "title"
	TagCredit    Tag = "credit"
	TagAuthor    Tag = "author"
	TagSource    Tag = "source"
	TagNotes     Tag = "notes"
	TagDate      Tag = "date"
	TagContact   Tag = "contact"
	TagRevision  Tag = "revision"
	TagCopyright Tag = "copyright"
)

// Position is a page region for metadata, or a column for dual dialogue.
type Position string

const (
	PosNone      Position = ""
	PosTopLeft   Position = "tl"
	PosTopCenter Position = "tc"
	PosTopRight  Position = "tr"
	PosCenter    Position = "cc"
	PosBotLeft   Position = "bl"
	PosBotRight  Position = "br"
	PosHeader    Position = "header"
	PosFooter    Position = "footer"
	PosWatermark Position = "watermark"
	PosLeft      Position = "l"
	PosRight     Position = "r"
)

// PagePositions lists every metadata position in render order.
var PagePositions = []Position{
	PosTopLeft, PosTopCenter, PosTopRight, PosCenter, PosBotLeft, PosBotRight,
	PosHeader, PosFooter, PosWatermark, PosLeft, PosRight,
}

// metaDefaults maps title page keys to the region they are printed in.
var metaDefaults = map[Tag]Position{
	TagTitle:     PosCenter,
	TagCredit:    PosCenter,
	TagAuthor:    PosCenter,
	TagSource:    PosCenter,
	TagNotes:     PosBotLeft,
	TagCopyright: PosBotLeft,
	TagDate:      PosBotRight,
	TagContact:   PosBotRight,
	TagRevision:  PosBotRight,
}

// MetaPosition reports the page position a metadata tag belongs to. Explicit
// position keys (tl, header, watermark, ...) map to themselves.
func MetaPosition(tag Tag) (Position, bool) {
	if p, ok := metaDefaults[tag]; ok {
		return p, true
	}
	switch p := Position(tag); p {
	case PosTopLeft, PosTopCenter, PosTopRight, PosCenter, PosBotLeft, PosBotRight,
		PosHeader, PosFooter, PosWatermark:
		return p, true
	}
	return PosNone, false
}

// IsTitlePage reports whether p is printed on the title page rather than on
// every page.
func (p Position) IsTitlePage() bool {
	switch p {
	case PosHeader, PosFooter, PosWatermark, PosNone:
		return false
	}
	return true
}

// IsDialogue reports whether the tag belongs to a dialogue block.
func (t Tag) IsDialogue() bool {
	return t == TagCharacter || t == TagParenthetical || t == TagDialogue
}

// IsCue reports whether the tag introduces dialogue (character or parenthetical).
func (t Tag) IsCue() bool {
	return t == TagCharacter || t == TagParenthetical
}
