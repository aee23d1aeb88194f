package render

import (
	"firewatch/layout"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	blockGap    = 7.2
	sectionGap  = 14.4
	cellPadding = 4.0
	imagePad    = 5.0

	headerHeight = 36.0
	logoWidth    = 72.0
	dateHeight   = 12.0
	infoRowH     = 20.0
	coordHeadH   = 16.0
	coordRowH    = 15.0
	imageCellW   = 126.0
	imageRowH    = 96.4
	noteLineH    = 12.0
	noteGap      = 3.0
)

var (
	infoWidths  = []float64{72, 216, 72, 144}
	coordWidths = []float64{108, 162, 162}
)

// Renderer paginates blocks. It owns an fpdf instance used only to measure text.
type Renderer struct {
	measure *fpdf.Fpdf
	encode  func(string) string
}

// NewRenderer creates a renderer for the core Helvetica fonts.
func NewRenderer() *Renderer {
	m := fpdf.New("P", "pt", "Letter", "")
	return &Renderer{measure: m, encode: m.UnicodeTranslatorFromDescriptor("")}
}

// flow tracks the cursor while blocks are laid out and buffers finished pages.
type flow struct {
	pages []Page
	cur   Page
	y     float64
}

func newFlow() *flow {
	return &flow{cur: Page{Index: 1}, y: MarginTop}
}

func (f *flow) add(ops ...Op) { f.cur.Ops = append(f.cur.Ops, ops...) }

func (f *flow) empty() bool { return len(f.cur.Ops) == 0 }

func (f *flow) remaining() float64 { return ContentBottom - f.y }

// newPage snapshots the current page and starts a blank one. A blank page is never snapshotted.
func (f *flow) newPage() {
	if f.empty() {
		return
	}
	f.pages = append(f.pages, f.cur)
	f.cur = Page{Index: len(f.pages) + 1}
	f.y = MarginTop
}

// ensure starts a new page when h points do not fit below the cursor.
func (f *flow) ensure(h float64) {
	if h > f.remaining() {
		f.newPage()
	}
}

func (f *flow) finish() []Page {
	if !f.empty() || len(f.pages) == 0 {
		f.pages = append(f.pages, f.cur)
	}
	return f.pages
}

// Paginate lays the blocks out top to bottom and returns the recorded pages, without footers.
func (r *Renderer) Paginate(blocks []layout.Block) []Page {
	f := newFlow()
	for _, b := range blocks {
		switch b := b.(type) {
		case layout.Header:
			r.header(f, b)
		case layout.DateLine:
			r.dateLine(f, b)
		case layout.InfoTable:
			r.infoTable(f, b)
		case layout.CoordinateTable:
			r.coordinateTable(f, b)
		case layout.ImageGrid:
			r.imageGrid(f, b)
		case layout.PageBreak:
			f.newPage()
		case layout.Notes:
			r.notes(f, b)
		}
	}
	return f.finish()
}

func (r *Renderer) header(f *flow, b layout.Header) {
	f.ensure(headerHeight)
	titleW := ContentWidth
	if b.Logo != nil {
		titleW -= logoWidth
		box := fitImage(Box{X: MarginLeft + ContentWidth - logoWidth, Y: f.y, W: logoWidth, H: headerHeight}, b.Logo.Width, b.Logo.Height)
		box.X = MarginLeft + ContentWidth - box.W
		if box.W > 0 {
			f.add(ImageOp{Box: box, Name: b.Logo.Name, Data: b.Logo.Data})
		}
	}
	font := helveticaBold(16)
	f.add(TextOp{
		Box:   Box{X: MarginLeft, Y: f.y, W: titleW, H: headerHeight},
		S:     r.fit(b.Title, font, titleW),
		Font:  font,
		Color: darkBlue,
		Align: "LM",
	})
	f.y += headerHeight + blockGap
}

func (r *Renderer) dateLine(f *flow, b layout.DateLine) {
	f.ensure(dateHeight)
	font := helvetica(8)
	f.add(TextOp{
		Box:   Box{X: MarginLeft, Y: f.y, W: ContentWidth, H: dateHeight},
		S:     r.fit(b.Text, font, ContentWidth),
		Font:  font,
		Color: darkGrey,
		Align: "RM",
	})
	f.y += dateHeight + blockGap
}

// heading draws a section title. Callers ensure room for the title and the first row beneath it.
func (r *Renderer) heading(f *flow, title string, font Font, color RGB) {
	h := headingHeight(font)
	f.add(TextOp{
		Box:   Box{X: MarginLeft, Y: f.y, W: ContentWidth, H: h},
		S:     r.fit(title, font, ContentWidth),
		Font:  font,
		Color: color,
		Align: "LM",
	})
	f.y += h
}

func headingHeight(font Font) float64 { return font.Size + 6 }

func (r *Renderer) infoTable(f *flow, b layout.InfoTable) {
	title := helveticaBold(14)
	f.ensure(headingHeight(title) + infoRowH)
	r.heading(f, b.Title, title, red)

	x0 := tableX(infoWidths)
	for _, row := range b.Rows {
		f.ensure(infoRowH)
		x := x0
		for i, s := range row {
			w := infoWidths[i]
			label := i%2 == 0
			font := helvetica(9)
			rect := RectOp{Box: Box{X: x, Y: f.y, W: w, H: infoRowH}, Stroke: &grey, Width: 0.5}
			if label {
				font = helveticaBold(9)
				rect.Fill = &labelFill
			}
			f.add(rect, r.cellText(s, font, Box{X: x, Y: f.y, W: w, H: infoRowH}, "LM", black))
			x += w
		}
		f.y += infoRowH
	}
	f.y += sectionGap
}

func (r *Renderer) coordinateTable(f *flow, b layout.CoordinateTable) {
	title := helveticaBold(12)
	f.ensure(headingHeight(title) + coordHeadH + coordRowH)
	r.heading(f, b.Title, title, darkBlue)

	x0 := tableX(coordWidths)
	r.coordinateRow(f, x0, b.Header[:], coordHeadH, helveticaBold(9), &headFill)
	for i, row := range b.Rows {
		f.ensure(coordRowH)
		fill := &white
		if i%2 == 1 {
			fill = &stripe
		}
		r.coordinateRow(f, x0, row[:], coordRowH, helvetica(9), fill)
	}
	f.y += sectionGap
}

func (r *Renderer) coordinateRow(f *flow, x float64, cells []string, h float64, font Font, fill *RGB) {
	for i, s := range cells {
		w := coordWidths[i]
		box := Box{X: x, Y: f.y, W: w, H: h}
		f.add(RectOp{Box: box, Fill: fill, Stroke: &grey, Width: 0.5}, r.cellText(s, font, box, "CM", black))
		x += w
	}
	f.y += h
}

// imageGrid keeps the whole grid on one page, shrinking the rows when it cannot fit on a fresh page.
func (r *Renderer) imageGrid(f *flow, b layout.ImageGrid) {
	if len(b.Rows) == 0 {
		return
	}
	title := helveticaBold(12)
	headH := headingHeight(title)
	rows := float64(len(b.Rows))
	f.ensure(headH + rows*imageRowH)

	rowH := imageRowH
	if avail := f.remaining() - headH; rows*rowH > avail {
		rowH = avail / rows
	}
	r.heading(f, b.Title, title, darkBlue)

	pad := min(imagePad, rowH/10)
	x0 := tableX([]float64{imageCellW, imageCellW, imageCellW, imageCellW})
	for _, row := range b.Rows {
		x := x0
		for _, c := range row {
			cell := Box{X: x, Y: f.y, W: imageCellW, H: rowH}
			f.add(RectOp{Box: cell, Stroke: &lightGrey, Width: 0.5})
			switch c.Kind {
			case layout.CellImage:
				inner := Box{X: x + pad, Y: f.y + pad, W: imageCellW - 2*pad, H: rowH - 2*pad}
				if box := fitImage(inner, c.Image.Width, c.Image.Height); box.W > 0 {
					f.add(ImageOp{Box: box, Name: c.Image.Name, Data: c.Image.Data})
				}
			case layout.CellError:
				font := helvetica(min(10, rowH*0.6))
				f.add(r.cellText("Image Error", font, cell, "CM", red))
			}
			x += imageCellW
		}
		f.y += rowH
	}
	f.y += sectionGap
}

func (r *Renderer) notes(f *flow, b layout.Notes) {
	title := helveticaBold(12)
	f.ensure(headingHeight(title) + noteLineH)
	r.heading(f, b.Title, title, darkBlue)

	font := helvetica(10)
	for _, note := range b.Lines {
		for _, line := range r.wrap(note, font, ContentWidth) {
			f.ensure(noteLineH)
			f.add(TextOp{
				Box:   Box{X: MarginLeft, Y: f.y, W: ContentWidth, H: noteLineH},
				S:     line,
				Font:  font,
				Color: black,
				Align: "LM",
			})
			f.y += noteLineH
		}
		f.y += noteGap
	}
}

func (r *Renderer) cellText(s string, font Font, box Box, align string, color RGB) TextOp {
	inner := Box{X: box.X + cellPadding, Y: box.Y, W: box.W - 2*cellPadding, H: box.H}
	return TextOp{Box: inner, S: r.fit(s, font, inner.W), Font: font, Color: color, Align: align}
}

// fit encodes s and truncates it with an ellipsis so it is no wider than w.
// Encoded text is single-byte, so it is measured and cut byte by byte.
func (r *Renderer) fit(s string, font Font, w float64) string {
	r.measure.SetFont(font.Family, font.Style, font.Size)
	enc := r.encode(s)
	if r.width(enc) <= w {
		return enc
	}
	for n := len(enc) - 1; n > 0; n-- {
		if cand := enc[:n] + "..."; r.width(cand) <= w {
			return cand
		}
	}
	return ""
}

// wrap encodes s and breaks it into lines no wider than w, at spaces where possible. Explicit newlines
// start a new line; a word wider than w is cut.
func (r *Renderer) wrap(s string, font Font, w float64) []string {
	r.measure.SetFont(font.Family, font.Style, font.Size)

	var lines []string
	for _, para := range strings.Split(r.encode(strings.TrimSpace(s)), "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			for r.width(word) > w {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				n := r.prefixWithin(word, w)
				lines = append(lines, word[:n])
				word = word[n:]
			}
			if word == "" {
				continue
			}
			switch cand := line + " " + word; {
			case line == "":
				line = word
			case r.width(cand) <= w:
				line = cand
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// prefixWithin returns how many leading bytes of enc fit in w, at least one.
func (r *Renderer) prefixWithin(enc string, w float64) int {
	n := 1
	for n < len(enc) && r.width(enc[:n+1]) <= w {
		n++
	}
	return n
}

func (r *Renderer) width(enc string) float64 { return r.measure.GetStringWidth(enc) }

func tableX(widths []float64) float64 {
	var total float64
	for _, w := range widths {
		total += w
	}
	return MarginLeft + (ContentWidth-total)/2
}

// fitImage scales a w x h pixel image into box keeping its aspect ratio, centred.
func fitImage(box Box, w, h int) Box {
	if w <= 0 || h <= 0 || box.W <= 0 || box.H <= 0 {
		return Box{X: box.X, Y: box.Y}
	}
	scale := min(box.W/float64(w), box.H/float64(h))
	iw, ih := float64(w)*scale, float64(h)*scale
	return Box{X: box.X + (box.W-iw)/2, Y: box.Y + (box.H-ih)/2, W: iw, H: ih}
}
