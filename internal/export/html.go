/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	applog "scriptpress/internal/log"
	"scriptpress/internal/paginate"
	"scriptpress/internal/profile"
	"scriptpress/internal/screenplay"
	"scriptpress/internal/textlayout"
)

// HTMLRenderer writes a standalone HTML page per document with one
// <section class="page"> per paginated page. Lines keep their profile
// margins as inline styles so the browser reproduces the print layout.
// Title page lines are wrapped here, measured with Font when set and as
// Courier otherwise; a Font is inlined as an @font-face.
type HTMLRenderer struct {
	Log  *slog.Logger
	Font *Font
}

func (r *HTMLRenderer) Format() Format { return FormatHTML }

func (r *HTMLRenderer) Render(w io.Writer, doc Document) error {
	l := r.Log
	if l == nil {
		l = applog.WithComponent("export")
	}
	h := &htmlDoc{cfg: doc.Config, prof: doc.Profile, font: r.Font, fit: courierMeasurer()}
	if r.Font != nil {
		h.fit = r.Font.Measurer()
	}
	pages, meta := paginate.Paginate(doc.Spans)

	title := doc.Title
	if title == "" {
		title = DocumentTitle(doc.Spans)
	}
	if title == "" {
		title = "Screenplay"
	}

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	htmlEl := elem(atom.Html, "lang", "en")
	root.AppendChild(htmlEl)
	head := elem(atom.Head)
	head.AppendChild(elem(atom.Meta, "charset", "utf-8"))
	t := elem(atom.Title)
	t.AppendChild(text(title))
	head.AppendChild(t)
	st := elem(atom.Style)
	st.AppendChild(text(h.css()))
	head.AppendChild(st)
	htmlEl.AppendChild(head)

	body := elem(atom.Body)
	htmlEl.AppendChild(body)
	if printsTitlePage(doc, meta) {
		body.AppendChild(h.titlePage(meta))
	}
	for _, pg := range pages {
		body.AppendChild(h.page(pg, meta))
	}
	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	l.Debug("rendered html", slog.Int("pages", len(pages)))
	return nil
}

type htmlDoc struct {
	cfg  screenplay.Config
	prof profile.Profile
	font *Font
	fit  textlayout.Measurer
}

func (h *htmlDoc) family() string {
	if h.font != nil {
		return h.font.Family
	}
	return "Courier"
}

func (h *htmlDoc) css() string {
	p := h.prof
	var face string
	if h.font != nil {
		face = fmt.Sprintf("@font-face{font-family:%s;src:url(data:font/ttf;base64,%s)}\n",
			strconv.Quote(h.font.Family), base64.StdEncoding.EncodeToString(h.font.data))
	}
	return face + fmt.Sprintf(`body{background:#eee;margin:0}
section{background:#fff;width:%[1]sin;min-height:%[2]sin;margin:0.25in auto;box-sizing:border-box;padding-top:%[3]sin;position:relative;font:%[4]spt %[11]s,monospace;line-height:%[5]sin}
.line{white-space:pre;min-height:%[5]sin}
.split{display:grid}
.split>.col{grid-area:1/1}
.scene-number{position:absolute}
.scene-number.left{left:0.5in}
.scene-number.right{right:0.5in}
.page-number{position:absolute;top:%[6]sin;right:%[7]sin}
header{position:absolute;top:%[6]sin;left:%[8]sin;right:%[7]sin;text-align:center}
footer{position:absolute;bottom:%[9]sin;left:%[8]sin;right:%[7]sin;text-align:center}
.watermark{position:absolute;top:45%%;width:100%%;text-align:center;font-size:72pt;color:rgba(128,128,128,0.15);transform:rotate(-45deg)}
.title-page .region{position:absolute;left:%[8]sin;right:%[7]sin}
.title-page .tl,.title-page .tc,.title-page .tr{top:%[3]sin}
.title-page .cc{top:40%%;text-align:center}
.title-page .bl,.title-page .br{bottom:%[10]sin}
.title-page .tl,.title-page .bl{right:50%%}
.title-page .tr,.title-page .br{left:50%%;text-align:right}
.title-page .tc{text-align:center}
`,
		inch(p.PageWidth), inch(p.PageHeight), inch(p.TopMargin), inch(p.FontSize),
		inch(p.LineHeight()), inch(p.PageNumberTopMargin), inch(p.RightMargin), inch(p.LeftMargin),
		inch(p.PageFooterBottomMargin), inch(p.BottomMargin), strconv.Quote(h.family()))
}

func (h *htmlDoc) titlePage(meta *screenplay.MetaLayout) *html.Node {
	sec := elem(atom.Section, "class", "title-page")
	for _, pos := range titlePagePositions {
		lines := meta.Positions[pos]
		if len(lines) == 0 {
			continue
		}
		box := elem(atom.Div, "class", "region "+string(pos))
		_, width := region(h.prof, pos)
		style := textlayout.StyleFor(pos)
		style.Font, style.FontSize = h.family(), h.prof.FontSize
		w := textlayout.NewWrapper(h.fit)
		for _, ln := range lines {
			for _, wl := range w.Wrap(ln.Content, width, style) {
				box.AppendChild(h.metaLine(screenplay.Line{Tag: ln.Tag, Content: wl.Runs}))
			}
		}
		sec.AppendChild(box)
	}
	return sec
}

// watermark sizes the text to fit the rotated box.
func (h *htmlDoc) watermark(lines []screenplay.Line) *html.Node {
	var parts []string
	for _, l := range lines {
		if t := strings.TrimSpace(l.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	st := textlayout.StyleFor(screenplay.PosWatermark)
	st.Font = h.family()
	size := textlayout.FitSize(h.fit, strings.Join(parts, " "), watermarkWidth(h.prof), st)
	wm := elem(atom.Div, "class", "watermark", "style", "font-size:"+inch(math.Round(size*10)/10)+"pt")
	for _, ln := range lines {
		wm.AppendChild(h.metaLine(ln))
	}
	return wm
}

func (h *htmlDoc) metaLine(ln screenplay.Line) *html.Node {
	div := elem(atom.Div, "class", "line "+string(ln.Tag))
	appendRuns(div, ln.Content)
	return div
}

func (h *htmlDoc) page(pg paginate.Page, meta *screenplay.MetaLayout) *html.Node {
	sec := elem(atom.Section, "class", "page", "data-page", strconv.Itoa(pg.Number))
	if meta != nil {
		if lines := meta.Positions[screenplay.PosWatermark]; len(lines) > 0 {
			sec.AppendChild(h.watermark(lines))
		}
		if lines := meta.Positions[screenplay.PosHeader]; len(lines) > 0 {
			hd := elem(atom.Header)
			for _, ln := range lines {
				hd.AppendChild(h.metaLine(ln))
			}
			sec.AppendChild(hd)
		}
	}
	if pg.Number > 1 {
		pn := elem(atom.Div, "class", "page-number")
		pn.AppendChild(text(strconv.Itoa(pg.Number) + "."))
		sec.AppendChild(pn)
	}
	for _, s := range pg.Spans {
		switch v := s.(type) {
		case screenplay.Line:
			sec.AppendChild(h.line(v, screenplay.PosNone))
		case screenplay.SplitLayout:
			split := elem(atom.Div, "class", "split")
			for _, side := range []screenplay.Position{screenplay.PosLeft, screenplay.PosRight} {
				col := elem(atom.Div, "class", "col "+string(side))
				for _, ln := range v.Column(side) {
					col.AppendChild(h.line(ln, side))
				}
				split.AppendChild(col)
			}
			sec.AppendChild(split)
		}
	}
	if meta != nil {
		if lines := meta.Positions[screenplay.PosFooter]; len(lines) > 0 {
			ft := elem(atom.Footer)
			for _, ln := range lines {
				ft.AppendChild(h.metaLine(ln))
			}
			sec.AppendChild(ft)
		}
	}
	return sec
}

func (h *htmlDoc) line(l screenplay.Line, side screenplay.Position) *html.Node {
	tag := l.Tag
	if tag == "" {
		tag = screenplay.TagDefault
	}
	set := h.prof.Resolve(l.Tag)
	left, right := h.prof.Margins(l.Tag, side)
	left += set.LevelIndent * float64(l.Level)
	style := fmt.Sprintf("margin-left:%sin;margin-right:%sin", inch(left), inch(right))
	if a := lineAlign(l, set.Align); a != screenplay.AlignNone && a != screenplay.AlignLeft {
		style += ";text-align:" + string(a)
	}
	div := elem(atom.Div, "class", "line "+string(tag), "style", style)
	if l.Scene != "" {
		div.Attr = append(div.Attr, html.Attribute{Key: "data-scene", Val: l.Scene})
		if h.cfg.SceneNumbersLeft() {
			div.AppendChild(sceneNumber(l.Scene, "left"))
		}
		if h.cfg.SceneNumbersRight() {
			div.AppendChild(sceneNumber(l.Scene, "right"))
		}
	}
	appendRuns(div, l.Content)
	return div
}

func sceneNumber(num, side string) *html.Node {
	n := elem(atom.Span, "class", "scene-number "+side)
	n.AppendChild(text(num))
	return n
}

// appendRuns adds one nested element chain per run.
func appendRuns(parent *html.Node, runs []screenplay.StyledRun) {
	for _, r := range runs {
		n := text(r.Text)
		if r.Strike {
			n = wrapIn(atom.S, n)
		}
		if r.Underline {
			n = wrapIn(atom.U, n)
		}
		if r.Italic {
			n = wrapIn(atom.I, n)
		}
		if r.Bold {
			n = wrapIn(atom.B, n)
		}
		if r.Highlight {
			n = wrapIn(atom.Mark, n)
			if c, ok := cssColor(r.HighlightColor); ok {
				n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: "background:" + c})
			}
		}
		var style []string
		if c, ok := cssColor(r.Color); ok {
			style = append(style, "color:"+c)
		}
		if r.Font != "" {
			style = append(style, "font-family:"+strconv.Quote(r.Font))
		}
		if len(style) > 0 {
			n = wrapIn(atom.Span, n)
			n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: strings.Join(style, ";")})
		}
		parent.AppendChild(n)
	}
}

func cssColor(s string) (string, bool) {
	r, g, b, ok := parseHexColor(s)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b), true
}

func elem(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node { return &html.Node{Type: html.TextNode, Data: s} }

func wrapIn(a atom.Atom, child *html.Node) *html.Node {
	n := elem(a)
	n.AppendChild(child)
	return n
}

func inch(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
