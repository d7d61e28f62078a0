/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package paginate

import "scriptpress/internal/screenplay"

// canBreakAfter reports whether a page may end after body[i].
func (p *pager) canBreakAfter(i int) bool {
	if i < 0 {
		return true
	}
	tag := p.tagAt(i)
	if tag == screenplay.TagSeparator {
		return p.canBreakAfter(p.prevContentful(i))
	}
	next := p.nextContentful(i)
	prev := p.tagAt(i - 1)

	switch {
	// scene heading last on the page
	case tag == screenplay.TagScene && next != screenplay.TagScene:
		return false
	// transition alone at the top of the next page
	case next == screenplay.TagTransition && tag != screenplay.TagTransition:
		return false
	case tag == screenplay.TagAction && !p.actionBreakOK(i):
		return false
	case tag == screenplay.TagCharacter, tag == screenplay.TagParenthetical:
		return false
	// mid-dialogue when splitting is disabled
	case !p.split && tag == screenplay.TagDialogue &&
		(next == screenplay.TagDialogue || next == screenplay.TagParenthetical):
		return false
	// first dialogue line right under its cue
	case p.split && prev.IsCue() && tag == screenplay.TagDialogue &&
		(next == screenplay.TagDialogue || next == screenplay.TagParenthetical):
		return false
	}
	return true
}

// actionBreakOK applies the short action block rules with fixed window
// lookups around i. For runs of five or more lines only the first and the
// penultimate line are protected.
func (p *pager) actionBreakOK(i int) bool {
	act := func(k int) bool { return p.tagAt(i+k) == screenplay.TagAction }
	switch {
	// 1 of 2
	case !act(-1) && act(1) && !act(2):
		return false
	// 1 of 3
	case !act(-1) && act(1) && act(2) && !act(3):
		return false
	// 2 of 3
	case act(-1) && !act(-2) && act(1) && !act(2):
		return false
	// 1 of 4+
	case !act(-1) && act(1) && act(2) && act(3):
		return false
	// penultimate of 4+
	case act(-1) && act(-2) && act(1) && !act(2):
		return false
	}
	return true
}

// tagAt returns the tag of body[i], or "" outside the list.
func (p *pager) tagAt(i int) screenplay.Tag {
	if i < 0 || i >= len(p.body) {
		return ""
	}
	return p.body[i].SpanTag()
}

func (p *pager) nextContentful(i int) screenplay.Tag {
	for j := i + 1; j < len(p.body); j++ {
		if t := p.tagAt(j); t != screenplay.TagSeparator {
			return t
		}
	}
	return ""
}

func (p *pager) prevContentful(i int) int {
	for j := i - 1; j >= 0; j-- {
		if p.tagAt(j) != screenplay.TagSeparator {
			return j
		}
	}
	return -1
}
