/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"

	applog "scriptpress/internal/log"
	"scriptpress/internal/paginate"
	"scriptpress/internal/profile"
	"scriptpress/internal/screenplay"
	"scriptpress/internal/textlayout"
	"scriptpress/internal/version"
)

// PDFRenderer draws documents with gofpdf. Text is set in a standard font
// unless Font supplies one to embed. Units are inches, matching the print
// profile.
type PDFRenderer struct {
	Log        *slog.Logger
	FontFamily string // Courier when empty
	Font       *Font
	Author     string
	// NoCompression writes page content streams uncompressed.
	NoCompression bool
}

func (r *PDFRenderer) Format() Format { return FormatPDF }

// Render writes doc as a multi-page PDF: an optional title page followed by
// one page per paginated page.
func (r *PDFRenderer) Render(w io.Writer, doc Document) error {
	prof := doc.Profile
	if err := prof.Validate(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	l := r.Log
	if l == nil {
		l = applog.WithComponent("export")
	}
	family := "Courier"
	if f, ok := coreFamilies[strings.ToLower(r.FontFamily)]; ok {
		family = f
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "in",
		Size:    gofpdf.SizeType{Wd: prof.PageWidth, Ht: prof.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(!r.NoCompression)
	var embedded string
	if r.Font != nil {
		r.Font.register(pdf)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("pdf font %s: %w", r.Font.Family, err)
		}
		family, embedded = r.Font.Family, r.Font.Family
	}
	title := doc.Title
	if title == "" {
		title = DocumentTitle(doc.Spans)
	}
	if title != "" {
		pdf.SetTitle(title, true)
	}
	if r.Author != "" {
		pdf.SetAuthor(r.Author, true)
	}
	pdf.SetCreator("scriptpress "+version.String(), true)
	if !doc.CreatedAt.IsZero() {
		pdf.SetCreationDate(doc.CreatedAt)
		pdf.SetModificationDate(doc.CreatedAt)
	}
	pdf.SetFont(family, "", prof.FontSize)

	meas := NewPDFMeasurer(pdf, family)
	meas.Embedded = embedded
	d := &pdfDoc{
		pdf:       pdf,
		cfg:       doc.Config,
		prof:      prof,
		family:    family,
		embedded:  embedded,
		tr:        pdf.UnicodeTranslatorFromDescriptor(""),
		wrap:      textlayout.NewWrapper(meas),
		fit:       meas,
		lastLevel: -1,
		section:   -1,
	}
	if r.Font != nil {
		d.fit = r.Font.Measurer()
		d.wrapMeta = textlayout.NewWrapper(d.fit)
	}
	pages, meta := paginate.Paginate(doc.Spans)
	if printsTitlePage(doc, meta) {
		d.titlePage(meta)
	}
	for _, pg := range pages {
		d.page(pg, meta)
	}
	if pdf.PageNo() == 0 {
		pdf.AddPage()
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	l.Debug("rendered pdf", slog.Int("pages", pdf.PageNo()))
	return nil
}

type pdfDoc struct {
	pdf      *gofpdf.Fpdf
	cfg      screenplay.Config
	prof     profile.Profile
	family   string
	embedded string // UTF-8 family; its text skips the cp1252 translator
	tr       func(string) string
	wrap     *textlayout.Wrapper
	wrapMeta *textlayout.Wrapper // title page, header and footer; wrap when nil
	fit      textlayout.Measurer // watermark sizing

	prevTag   screenplay.Tag
	section   int // outline level of the last section heading
	lastLevel int // outline level of the last bookmark
}

func (d *pdfDoc) ascent() float64 { return d.prof.FontSize / 72 * 0.8 }

func (d *pdfDoc) text(family, s string) string {
	if family == d.embedded {
		return s
	}
	return d.tr(s)
}

func (d *pdfDoc) titlePage(meta *screenplay.MetaLayout) {
	d.pdf.AddPage()
	for _, pos := range titlePagePositions {
		lines := meta.Positions[pos]
		if len(lines) == 0 {
			continue
		}
		x, width := d.region(pos)
		box := d.wrapLines(lines, pos, width)
		h := box.Height
		var y float64
		switch pos {
		case screenplay.PosTopLeft, screenplay.PosTopCenter, screenplay.PosTopRight:
			y = d.prof.TopMargin
		case screenplay.PosCenter:
			y = (d.prof.PageHeight - h) / 2
		default:
			y = d.prof.PageHeight - d.prof.BottomMargin - h
		}
		d.drawWrapped(box.Lines, x, width, y)
	}
}

func (d *pdfDoc) region(pos screenplay.Position) (x, width float64) { return region(d.prof, pos) }

// region returns the left edge and width of a title page region. Corner
// regions take half the text width.
func region(prof profile.Profile, pos screenplay.Position) (x, width float64) {
	full := prof.PageWidth - prof.LeftMargin - prof.RightMargin
	half := full / 2
	switch pos {
	case screenplay.PosTopLeft, screenplay.PosBotLeft:
		return prof.LeftMargin, half
	case screenplay.PosTopRight, screenplay.PosBotRight:
		return prof.LeftMargin + half, half
	}
	return prof.LeftMargin, full
}

// watermarkWidth is the room a rotated watermark gets: the page diagonal
// less a fifth.
func watermarkWidth(prof profile.Profile) float64 {
	return 0.8 * math.Hypot(prof.PageWidth, prof.PageHeight)
}

// wrapLines lays the lines of a page region out as one box.
func (d *pdfDoc) wrapLines(lines []screenplay.Line, pos screenplay.Position, width float64) textlayout.Box {
	style := textlayout.StyleFor(pos)
	style.Font = d.family
	style.FontSize = d.prof.FontSize
	style.LineHeight = d.prof.LineHeight()
	w := d.wrapMeta
	if w == nil {
		w = d.wrap
	}
	var box textlayout.Box
	for _, ln := range lines {
		b := w.Layout(ln.Content, width, style)
		box.Lines = append(box.Lines, b.Lines...)
		box.Width = max(box.Width, b.Width)
		box.Height += b.Height
	}
	return box
}

func (d *pdfDoc) drawWrapped(lines []textlayout.Line, x, width, y float64) {
	for _, wl := range lines {
		d.runs(wl.Runs, x, width, y, wl.Align)
		y += wl.LineHeight
	}
}

func (d *pdfDoc) page(pg paginate.Page, meta *screenplay.MetaLayout) {
	d.pdf.AddPage()
	if meta != nil {
		d.watermark(meta.Positions[screenplay.PosWatermark])
		d.header(meta.Positions[screenplay.PosHeader])
		d.footer(meta.Positions[screenplay.PosFooter])
	}
	if pg.Number > 1 {
		d.pageNumber(pg.Number)
	}
	lh := d.prof.LineHeight()
	y := d.prof.TopMargin
	for _, s := range pg.Spans {
		switch v := s.(type) {
		case screenplay.Line:
			d.line(v, screenplay.PosNone, y)
		case screenplay.SplitLayout:
			for _, side := range []screenplay.Position{screenplay.PosLeft, screenplay.PosRight} {
				for i, ln := range v.Column(side) {
					d.line(ln, side, y+float64(i)*lh)
				}
			}
		}
		y += float64(s.LineCount()) * lh
	}
}

func (d *pdfDoc) header(lines []screenplay.Line) {
	if len(lines) == 0 {
		return
	}
	x, width := d.region(screenplay.PosHeader)
	y := d.prof.PageNumberTopMargin
	if y <= 0 {
		y = d.prof.TopMargin / 2
	}
	d.drawWrapped(d.wrapLines(lines, screenplay.PosHeader, width).Lines, x, width, y)
}

func (d *pdfDoc) footer(lines []screenplay.Line) {
	if len(lines) == 0 {
		return
	}
	x, width := d.region(screenplay.PosFooter)
	box := d.wrapLines(lines, screenplay.PosFooter, width)
	bottom := d.prof.PageFooterBottomMargin
	if bottom <= 0 {
		bottom = d.prof.BottomMargin / 2
	}
	d.drawWrapped(box.Lines, x, width, d.prof.PageHeight-bottom-box.Height)
}

func (d *pdfDoc) watermark(lines []screenplay.Line) {
	var parts []string
	for _, l := range lines {
		if t := strings.TrimSpace(l.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return
	}
	st := textlayout.StyleFor(screenplay.PosWatermark)
	st.Font = d.family
	raw := strings.Join(parts, " ")
	size := textlayout.FitSize(d.fit, raw, watermarkWidth(d.prof), st)
	text := d.text(d.family, raw)
	d.pdf.SetFont(d.family, "B", size)
	tw := d.pdf.GetStringWidth(text)
	cx, cy := d.prof.PageWidth/2, d.prof.PageHeight/2
	d.pdf.SetAlpha(0.15, "Normal")
	d.pdf.SetTextColor(128, 128, 128)
	d.pdf.TransformBegin()
	d.pdf.TransformRotate(45, cx, cy)
	d.pdf.Text(cx-tw/2, cy, text)
	d.pdf.TransformEnd()
	d.pdf.SetAlpha(1, "Normal")
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *pdfDoc) pageNumber(n int) {
	d.pdf.SetFont(d.family, "", d.prof.FontSize)
	s := fmt.Sprintf("%d.", n)
	w := d.pdf.GetStringWidth(s)
	d.pdf.Text(d.prof.PageWidth-d.prof.RightMargin-w, d.prof.PageNumberTopMargin+d.ascent(), s)
}

// line draws one composed line whose top edge is at y.
func (d *pdfDoc) line(l screenplay.Line, side screenplay.Position, y float64) {
	defer func() { d.prevTag = l.Tag }()
	if l.Tag == screenplay.TagSeparator || l.Tag == screenplay.TagPageBreak {
		return
	}
	set := d.prof.Resolve(l.Tag)
	left, right := d.prof.Margins(l.Tag, side)
	x := left + set.LevelIndent*float64(l.Level)
	width := d.prof.PageWidth - right - x
	if l.Tag != d.prevTag {
		d.bookmark(l, y)
	}
	if l.Tag == screenplay.TagScene && l.Scene != "" {
		d.sceneNumber(l.Scene, left, y)
	}
	d.runs(l.Content, x, width, y, lineAlign(l, set.Align))
}

func (d *pdfDoc) bookmark(l screenplay.Line, y float64) {
	if !d.cfg.PrintBookmarks {
		return
	}
	var level int
	switch l.Tag {
	case screenplay.TagKnot:
		level, d.section = 0, 0
	case screenplay.TagStitch:
		level, d.section = 1, 1
	case screenplay.TagScene:
		level = d.section + 1
	default:
		return
	}
	// outline levels may not skip a step
	level = min(level, d.lastLevel+1)
	d.lastLevel = level
	d.pdf.Bookmark(strings.TrimSpace(l.Text()), level, y)
}

func (d *pdfDoc) sceneNumber(num string, left, y float64) {
	if !d.cfg.SceneNumbersLeft() && !d.cfg.SceneNumbersRight() {
		return
	}
	d.pdf.SetFont(d.family, "", d.prof.FontSize)
	s := d.text(d.family, num)
	base := y + d.ascent()
	if d.cfg.SceneNumbersLeft() {
		w := d.pdf.GetStringWidth(s)
		d.pdf.Text(max(0.25, left-0.5-w), base, s)
	}
	if d.cfg.SceneNumbersRight() {
		d.pdf.Text(d.prof.PageWidth-d.prof.RightMargin+0.5, base, s)
	}
}

// runs draws styled runs on one line inside [x, x+width] with the given
// alignment.
func (d *pdfDoc) runs(runs []screenplay.StyledRun, x, width, y float64, align screenplay.Align) {
	if len(runs) == 0 {
		return
	}
	widths := make([]float64, len(runs))
	var total float64
	for i, r := range runs {
		widths[i] = d.pdf.GetStringWidth(d.text(d.setRunFont(r), r.Text))
		total += widths[i]
	}
	switch align {
	case screenplay.AlignCenter:
		x += (width - total) / 2
	case screenplay.AlignRight:
		x += width - total
	}
	lh := d.prof.LineHeight()
	base := y + d.ascent()
	for i, r := range runs {
		if r.Highlight {
			rr, gg, bb, ok := parseHexColor(r.HighlightColor)
			if !ok {
				rr, gg, bb = 255, 255, 0
			}
			d.pdf.SetFillColor(rr, gg, bb)
			d.pdf.Rect(x, y, widths[i], lh, "F")
		}
		if rr, gg, bb, ok := parseHexColor(r.Color); ok {
			d.pdf.SetTextColor(rr, gg, bb)
		} else {
			d.pdf.SetTextColor(0, 0, 0)
		}
		d.pdf.Text(x, base, d.text(d.setRunFont(r), r.Text))
		x += widths[i]
	}
	d.pdf.SetTextColor(0, 0, 0)
}

// setRunFont selects the font of r and returns its family.
func (d *pdfDoc) setRunFont(r screenplay.StyledRun) string {
	family := d.family
	if f, ok := coreFamilies[strings.ToLower(r.Font)]; ok {
		family = f
	}
	d.pdf.SetFont(family, fontStyle(r.Bold, r.Italic, r.Underline, r.Strike), d.prof.FontSize)
	return family
}
