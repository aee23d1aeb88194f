// Package render flows layout blocks onto Letter pages and writes them out as PDF.
//
// Rendering runs in two passes. Paginate records every page as a list of draw operations, Finalize then
// stamps each page with the footer once the total page count is known, and Flush replays the operations
// through fpdf.
package render

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

// Page geometry in points on US Letter.
const (
	PageWidth     = 612.0
	PageHeight    = 792.0
	MarginLeft    = 36.0
	MarginRight   = 36.0
	MarginTop     = 36.0
	MarginBottom  = 54.0
	ContentWidth  = PageWidth - MarginLeft - MarginRight
	ContentBottom = PageHeight - MarginBottom
)

// RGB is a colour with 0-255 channels.
type RGB struct{ R, G, B int }

var (
	black     = RGB{0, 0, 0}
	white     = RGB{255, 255, 255}
	red       = RGB{255, 0, 0}
	darkBlue  = RGB{0, 0, 139}
	darkGrey  = RGB{169, 169, 169}
	grey      = RGB{128, 128, 128}
	lightGrey = RGB{211, 211, 211}
	labelFill = RGB{230, 230, 230}
	headFill  = RGB{204, 204, 204}
	stripe    = RGB{242, 242, 242}
)

// Font selects one of the PDF core fonts.
type Font struct {
	Family string
	Style  string
	Size   float64
}

func helvetica(size float64) Font     { return Font{Family: "Helvetica", Size: size} }
func helveticaBold(size float64) Font { return Font{Family: "Helvetica", Style: "B", Size: size} }

// Box is an axis-aligned rectangle with its origin at the top left.
type Box struct {
	X, Y, W, H float64
}

// Bottom is the lowest y coordinate the box covers.
func (b Box) Bottom() float64 { return b.Y + b.H }

// Op is a single recorded drawing operation.
type Op interface {
	Bounds() Box
	draw(pdf *fpdf.Fpdf, images map[string]bool)
}

// TextOp draws a single line of text aligned inside a box. S is already encoded for the core fonts.
type TextOp struct {
	Box
	S     string
	Font  Font
	Color RGB
	// Align is fpdf's alignment string, e.g. "LM", "CM" or "RM".
	Align string
}

// LineOp draws a straight line.
type LineOp struct {
	X1, Y1, X2, Y2 float64
	Color          RGB
	Width          float64
}

// RectOp draws a filled and/or stroked rectangle.
type RectOp struct {
	Box
	Fill   *RGB
	Stroke *RGB
	Width  float64
}

// ImageOp places a JPEG inside a box.
type ImageOp struct {
	Box
	Name string
	Data []byte
}

func (o TextOp) Bounds() Box  { return o.Box }
func (o RectOp) Bounds() Box  { return o.Box }
func (o ImageOp) Bounds() Box { return o.Box }

func (o LineOp) Bounds() Box {
	return Box{X: min(o.X1, o.X2), Y: min(o.Y1, o.Y2), W: abs(o.X2 - o.X1), H: abs(o.Y2 - o.Y1)}
}

func (o TextOp) draw(pdf *fpdf.Fpdf, _ map[string]bool) {
	pdf.SetFont(o.Font.Family, o.Font.Style, o.Font.Size)
	pdf.SetTextColor(o.Color.R, o.Color.G, o.Color.B)
	pdf.SetXY(o.X, o.Y)
	pdf.CellFormat(o.W, o.H, o.S, "", 0, o.Align, false, 0, "")
}

func (o LineOp) draw(pdf *fpdf.Fpdf, _ map[string]bool) {
	pdf.SetDrawColor(o.Color.R, o.Color.G, o.Color.B)
	pdf.SetLineWidth(o.Width)
	pdf.Line(o.X1, o.Y1, o.X2, o.Y2)
}

func (o RectOp) draw(pdf *fpdf.Fpdf, _ map[string]bool) {
	style := ""
	if o.Fill != nil {
		pdf.SetFillColor(o.Fill.R, o.Fill.G, o.Fill.B)
		style += "F"
	}
	if o.Stroke != nil {
		pdf.SetDrawColor(o.Stroke.R, o.Stroke.G, o.Stroke.B)
		pdf.SetLineWidth(o.Width)
		style += "D"
	}
	if style == "" {
		return
	}
	pdf.Rect(o.X, o.Y, o.W, o.H, style)
}

func (o ImageOp) draw(pdf *fpdf.Fpdf, images map[string]bool) {
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	if !images[o.Name] {
		pdf.RegisterImageOptionsReader(o.Name, opts, bytes.NewReader(o.Data))
		images[o.Name] = true
	}
	pdf.ImageOptions(o.Name, o.X, o.Y, o.W, o.H, false, opts, 0, "")
}

// Page is the recorded content of one page. Index is 1-based.
type Page struct {
	Index int
	Ops   []Op
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
