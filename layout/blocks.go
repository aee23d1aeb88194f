// Package layout turns a report model and a directory of photos into the ordered content blocks of a patrol report.
package layout

// Block is one self-contained unit of report content. Blocks are emitted in a fixed order and
// the renderer flows them onto pages.
type Block interface {
	block()
}

// Header is the report title with an optional logo on the right.
type Header struct {
	Title string
	Logo  *Image
}

// DateLine is the right-aligned "Report Generated" line.
type DateLine struct {
	Text string
}

// InfoTable is the combined site/officer table: label, value, label, value per row.
type InfoTable struct {
	Title string
	Rows  [][4]string
}

// CoordinateTable lists GPS fixes under a Time/Latitude/Longitude header row.
type CoordinateTable struct {
	Title  string
	Header [3]string
	Rows   [][3]string
}

// ImageGrid is a grid of photos, always ImagesPerRow cells wide. A grid is never split across pages.
type ImageGrid struct {
	Title string
	Rows  [][ImagesPerRow]Cell
}

// PageBreak forces the following blocks onto a new page.
type PageBreak struct{}

// Notes is the officer's free-text notes, one paragraph per note.
type Notes struct {
	Title string
	Lines []string
}

func (Header) block()          {}
func (DateLine) block()        {}
func (InfoTable) block()       {}
func (CoordinateTable) block() {}
func (ImageGrid) block()       {}
func (PageBreak) block()       {}
func (Notes) block()           {}

// CellKind describes what an image grid cell holds.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellImage
	CellError
)

// Cell is one slot of an image grid.
type Cell struct {
	Kind  CellKind
	Image *Image
	// Source is the file the cell was built from; empty for padding cells.
	Source string
}
