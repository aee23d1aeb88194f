package layout

import (
	"errors"
	"firewatch/report"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

const (
	// MaxCoordinateRows is how many GPS fixes are listed before the table is cut off with an ellipsis row.
	MaxCoordinateRows = 6
	// ImagesPerRow is the width of every image grid.
	ImagesPerRow = 4
	// FirstPageImages is how many photos go in the first image grid; the rest follow on a new page.
	FirstPageImages = 12
	// NotesBudget is the exclusive upper bound on the space-joined length of the notes for them to be printed.
	NotesBudget = 300
)

// Section titles.
const (
	ReportTitle       = "REDLINE FIREWATCH PATROL REPORT"
	InfoTitle         = "Patrol Information"
	CoordinatesTitle  = "Patrol Coordinates"
	ImagesTitle       = "Patrol Images"
	ImagesMoreTitle   = "Patrol Images (Continued)"
	NotesTitle        = "Patrol Notes"
	generatedDatePref = "Report Generated: "
)

// Options configures an Engine.
type Options struct {
	ImagesDir      string
	LogoCandidates []string
	MaxImagePixels int
}

// Engine builds the block sequence for a report.
type Engine struct {
	opts   Options
	loader *ImageLoader
	log    logrus.FieldLogger
}

// NewEngine creates a layout engine. A nil logger discards diagnostics.
func NewEngine(opts Options, log logrus.FieldLogger) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Engine{opts: opts, loader: NewImageLoader(opts.MaxImagePixels), log: log}
}

// Build returns the report's blocks in reading order. Missing images or logo never fail a build.
func (e *Engine) Build(m report.Model) []Block {
	blocks := []Block{
		Header{Title: ReportTitle, Logo: e.logo()},
		DateLine{Text: generatedDatePref + m.GeneratedDate},
		InfoBlock(m),
	}
	if len(m.Coordinates) > 0 {
		blocks = append(blocks, CoordinateBlock(m.Coordinates))
	}
	blocks = append(blocks, e.imageBlocks()...)
	if notes, ok := NotesBlock(m.Notes); ok {
		blocks = append(blocks, notes)
	}
	return blocks
}

// InfoBlock lays out the site and officer details side by side.
func InfoBlock(m report.Model) InfoTable {
	return InfoTable{
		Title: InfoTitle,
		Rows: [][4]string{
			{"Property:", m.PropertyName, "Patrol Officer:", m.OfficerName},
			{"Address:", m.PropertyAddress, "Date & Time:", m.StartTime},
			{"Building No:", m.BuildingNo, "Status:", m.Status},
			{"Manager:", m.ManagerName, "Steps Taken:", m.Steps},
			{"Contact:", m.ManagerPhone, "", ""},
		},
	}
}

// CoordinateBlock lists at most MaxCoordinateRows fixes, followed by an ellipsis row when there are more.
func CoordinateBlock(rows []report.CoordinateRow) CoordinateTable {
	t := CoordinateTable{Title: CoordinatesTitle, Header: [3]string{"Time", "Latitude", "Longitude"}}
	for i, r := range rows {
		if i == MaxCoordinateRows {
			t.Rows = append(t.Rows, [3]string{"...", "...", "..."})
			break
		}
		t.Rows = append(t.Rows, [3]string{r.Time, r.Latitude, r.Longitude})
	}
	return t
}

// NotesBlock returns the notes section, or false when there are no notes or they are too long to print.
func NotesBlock(notes []string) (Notes, bool) {
	if len(notes) == 0 {
		return Notes{}, false
	}
	if utf8.RuneCountInString(strings.Join(notes, " ")) >= NotesBudget {
		return Notes{}, false
	}
	return Notes{Title: NotesTitle, Lines: append([]string(nil), notes...)}, true
}

func (e *Engine) imageBlocks() []Block {
	paths, err := ListImages(e.opts.ImagesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.log.WithField("dir", e.opts.ImagesDir).Warn("⚠️  Images directory not found, skipping photos")
		} else {
			e.log.WithError(err).Warn("⚠️  Failed to list images, skipping photos")
		}
		return nil
	}
	if len(paths) == 0 {
		return nil
	}
	e.log.WithField("count", len(paths)).Info("🔎 Found patrol images")

	cells := make([]Cell, len(paths))
	for i, p := range paths {
		cells[i] = e.cell(p)
	}
	return ImageBlocks(cells)
}

// ImageBlocks splits cells into the first-page grid and, when needed, a page break plus a continuation grid.
func ImageBlocks(cells []Cell) []Block {
	if len(cells) == 0 {
		return nil
	}
	first := cells[:min(len(cells), FirstPageImages)]
	blocks := []Block{ImageGrid{Title: ImagesTitle, Rows: gridRows(first)}}
	if len(cells) > FirstPageImages {
		blocks = append(blocks,
			PageBreak{},
			ImageGrid{Title: ImagesMoreTitle, Rows: gridRows(cells[FirstPageImages:])},
		)
	}
	return blocks
}

func gridRows(cells []Cell) [][ImagesPerRow]Cell {
	var rows [][ImagesPerRow]Cell
	for i := 0; i < len(cells); i += ImagesPerRow {
		var row [ImagesPerRow]Cell
		copy(row[:], cells[i:min(i+ImagesPerRow, len(cells))])
		rows = append(rows, row)
	}
	return rows
}

func (e *Engine) cell(path string) Cell {
	img, err := e.loader.Load(path)
	if err != nil {
		e.log.WithError(err).Warn("⚠️  Failed to load image")
		return Cell{Kind: CellError, Source: path}
	}
	return Cell{Kind: CellImage, Image: img, Source: path}
}

// logo returns the first candidate that exists and decodes.
func (e *Engine) logo() *Image {
	for _, p := range e.opts.LogoCandidates {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			continue
		}
		img, err := e.loader.Load(p)
		if err != nil {
			e.log.WithError(err).WithField("path", p).Warn("⚠️  Logo could not be loaded")
			return nil
		}
		return img
	}
	e.log.Debug("No logo found, header will be text only")
	return nil
}
