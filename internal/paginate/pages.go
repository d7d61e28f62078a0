/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package paginate

import "scriptpress/internal/screenplay"

// Page is one printed page of a paginated span list.
type Page struct {
	Number int
	Spans  []screenplay.Span
}

// Lines is the page's line cost.
func (p Page) Lines() int { return screenplay.CountLines(p.Spans) }

// Paginate groups a paginated span list into pages at page_break spans and
// returns the leading MetaLayout separately. Page breaks themselves are not
// part of any page.
func Paginate(spans []screenplay.Span) ([]Page, *screenplay.MetaLayout) {
	body, meta := screenplay.Body(spans)
	if len(body) == 0 {
		return nil, meta
	}
	pages := []Page{{Number: 1}}
	for _, s := range body {
		if screenplay.IsTag(s, screenplay.TagPageBreak) {
			pages = append(pages, Page{Number: len(pages) + 1})
			continue
		}
		cur := &pages[len(pages)-1]
		cur.Spans = append(cur.Spans, s)
	}
	return pages, meta
}
