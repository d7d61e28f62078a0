/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// Error represents a parse problem with position context. Parsing carries on
// past errors; they are reported alongside the tokens.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) String() string { return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message) }

// paragraph is a run of non-blank source lines.
type paragraph struct {
	lines  []string
	lineNo int // 1-based line number of the first line
}

// titleKeys maps title page keys (lower case) to token tags.
var titleKeys = map[string]string{
	"title":      "title",
	"credit":     "credit",
	"author":     "author",
	"authors":    "author",
	"source":     "source",
	"notes":      "notes",
	"date":       "date",
	"draft date": "date",
	"contact":    "contact",
	"revision":   "revision",
	"copyright":  "copyright",
	"tl":         "tl",
	"tc":         "tc",
	"tr":         "tr",
	"cc":         "cc",
	"bl":         "bl",
	"br":         "br",
	"header":     "header",
	"footer":     "footer",
	"watermark":  "watermark",
}
