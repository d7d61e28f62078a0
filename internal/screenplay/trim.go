/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

// Trim returns spans without leading or trailing separators and page breaks.
// A leading MetaLayout is kept in front. Applying Trim twice yields the same
// result as applying it once.
func Trim(spans []Span) []Span {
	var head []Span
	body := spans
	if len(body) > 0 {
		if _, ok := body[0].(MetaLayout); ok {
			head, body = body[:1], body[1:]
		}
	}
	start, end := 0, len(body)
	for start < end && isFiller(body[start]) {
		start++
	}
	for end > start && isFiller(body[end-1]) {
		end--
	}
	out := make([]Span, 0, len(head)+end-start)
	out = append(out, head...)
	return append(out, body[start:end]...)
}

func isFiller(s Span) bool {
	return IsTag(s, TagSeparator) || IsTag(s, TagPageBreak)
}

// Body returns spans without the leading MetaLayout, and the meta layout if
// one was present.
func Body(spans []Span) ([]Span, *MetaLayout) {
	if len(spans) > 0 {
		if m, ok := spans[0].(MetaLayout); ok {
			return spans[1:], &m
		}
	}
	return spans, nil
}

// CountLines sums the page cost of spans.
func CountLines(spans []Span) int {
	n := 0
	for _, s := range spans {
		n += s.LineCount()
	}
	return n
}
