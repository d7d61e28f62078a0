/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"scriptpress/internal/profile"
	"scriptpress/internal/screenplay"
)

func renderHTML(t *testing.T, doc Document) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	if err := (&HTMLRenderer{}).Render(&buf, doc); err != nil {
		t.Fatalf("render html: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "<!DOCTYPE html>") {
		t.Fatalf("missing doctype: %.40s", buf.String())
	}
	root, err := html.Parse(&buf)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return root
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func TestHTMLRendererStructure(t *testing.T) {
	cfg := screenplay.DefaultConfig()
	cfg.PrintSceneNumbers = screenplay.SceneNumbersLeft
	prof := profile.USLetter()
	root := renderHTML(t, Document{Spans: layout(sampleTokens(), cfg, prof), Config: cfg, Profile: prof})

	titles := findAll(root, func(n *html.Node) bool { return n.Data == "title" })
	if len(titles) != 1 || textOf(titles[0]) != "My Film" {
		t.Fatalf("unexpected <title>: %d", len(titles))
	}

	tp := findAll(root, func(n *html.Node) bool { return n.Data == "section" && hasClass(n, "title-page") })
	if len(tp) != 1 || !strings.Contains(textOf(tp[0]), "Jane Doe") {
		t.Fatalf("title page missing")
	}
	if len(findAll(tp[0], func(n *html.Node) bool { return hasClass(n, "br") })) != 1 {
		t.Fatalf("date region missing")
	}

	pages := findAll(root, func(n *html.Node) bool { return n.Data == "section" && hasClass(n, "page") })
	if len(pages) != 1 || attr(pages[0], "data-page") != "1" {
		t.Fatalf("expected one page section, got %d", len(pages))
	}

	scenes := findAll(pages[0], func(n *html.Node) bool { return hasClass(n, "scene") })
	if len(scenes) != 1 || attr(scenes[0], "data-scene") != "1" {
		t.Fatalf("scene line missing")
	}
	if len(findAll(scenes[0], func(n *html.Node) bool { return hasClass(n, "scene-number") })) != 1 {
		t.Fatalf("left scene number missing")
	}

	cues := findAll(pages[0], func(n *html.Node) bool { return hasClass(n, "dialogue_character") })
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}
	if !strings.Contains(attr(cues[0], "style"), "margin-left:3.7in") {
		t.Fatalf("cue margin not applied: %q", attr(cues[0], "style"))
	}

	bold := findAll(pages[0], func(n *html.Node) bool { return n.Data == "b" })
	if len(bold) != 1 || textOf(bold[0]) != "there" {
		t.Fatalf("bold run missing")
	}

	splits := findAll(pages[0], func(n *html.Node) bool { return hasClass(n, "split") })
	if len(splits) != 1 {
		t.Fatalf("expected one split block, got %d", len(splits))
	}
	right := findAll(splits[0], func(n *html.Node) bool { return hasClass(n, "col") && hasClass(n, "r") })
	if len(right) != 1 || !strings.Contains(textOf(right[0]), "CARL") {
		t.Fatalf("right column missing")
	}
	rightCue := findAll(right[0], func(n *html.Node) bool { return hasClass(n, "dialogue_character") })
	if !strings.Contains(attr(rightCue[0], "style"), "margin-left:5.75in") {
		t.Fatalf("dual margin not applied: %q", attr(rightCue[0], "style"))
	}
}

func TestHTMLRendererPagesAndRuns(t *testing.T) {
	cfg := screenplay.DefaultConfig()
	prof := profile.USLetter()
	prof.LinesPerPage = 3
	toks := []screenplay.Token{
		{Tag: "header", Text: "HEAD"},
		{Tag: screenplay.TagAction, Text: "One."},
		{Tag: screenplay.TagAction, Text: "Two."},
		{Tag: screenplay.TagAction, Text: "<b>not a tag</b> ~~gone~~"},
		{Tag: screenplay.TagTransition, Text: "CUT TO:"},
	}
	root := renderHTML(t, Document{Spans: layout(toks, cfg, prof), Config: cfg, Profile: prof})
	pages := findAll(root, func(n *html.Node) bool { return n.Data == "section" && hasClass(n, "page") })
	if len(pages) < 2 {
		t.Fatalf("expected several pages, got %d", len(pages))
	}
	for _, pg := range pages {
		if len(findAll(pg, func(n *html.Node) bool { return n.Data == "header" })) != 1 {
			t.Fatalf("every page carries the header")
		}
	}
	if len(findAll(pages[0], func(n *html.Node) bool { return hasClass(n, "page-number") })) != 0 {
		t.Fatalf("first page is not numbered")
	}
	if pn := findAll(pages[1], func(n *html.Node) bool { return hasClass(n, "page-number") }); len(pn) != 1 || textOf(pn[0]) != "2." {
		t.Fatalf("second page number missing")
	}
	// markup-looking text is escaped, not parsed
	if len(findAll(root, func(n *html.Node) bool { return n.Data == "b" })) != 0 {
		t.Fatalf("raw text became an element")
	}
	if s := findAll(root, func(n *html.Node) bool { return n.Data == "s" }); len(s) != 1 || textOf(s[0]) != "gone" {
		t.Fatalf("strike run missing")
	}
	tr := findAll(root, func(n *html.Node) bool { return hasClass(n, "transition") })
	if len(tr) != 1 || !strings.Contains(attr(tr[0], "style"), "text-align:right") {
		t.Fatalf("transition alignment missing")
	}
}
