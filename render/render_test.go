package render

import (
	"bytes"
	"firewatch/layout"
	"firewatch/report"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-6

func testImage(t *testing.T) *layout.Image {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 30)), nil))
	return &layout.Image{Name: "photo.jpg", Data: buf.Bytes(), Width: 40, Height: 30}
}

func cells(img *layout.Image, n int) []layout.Cell {
	out := make([]layout.Cell, n)
	for i := range out {
		if img != nil && i%3 != 2 {
			out[i] = layout.Cell{Kind: layout.CellImage, Image: img}
		} else {
			out[i] = layout.Cell{Kind: layout.CellError}
		}
	}
	return out
}

func reportBlocks(coords, images int, notes []string, img *layout.Image) []layout.Block {
	m := report.Model{
		PropertyName:    "Harbor View",
		PropertyAddress: "1 Pier Rd",
		OfficerName:     "Jane",
		GeneratedDate:   "March 04, 2025",
	}
	for i := 0; i < coords; i++ {
		m.Coordinates = append(m.Coordinates, report.CoordinateRow{Time: "10:00:00 AM", Latitude: "1.000000", Longitude: "2.000000"})
	}
	blocks := []layout.Block{
		layout.Header{Title: layout.ReportTitle, Logo: img},
		layout.DateLine{Text: "Report Generated: " + m.GeneratedDate},
		layout.InfoBlock(m),
	}
	if coords > 0 {
		blocks = append(blocks, layout.CoordinateBlock(m.Coordinates))
	}
	blocks = append(blocks, layout.ImageBlocks(cells(img, images))...)
	if n, ok := layout.NotesBlock(notes); ok {
		blocks = append(blocks, n)
	}
	return blocks
}

func assertWithinContent(t *testing.T, pages []Page) {
	t.Helper()
	for _, p := range pages {
		for _, op := range p.Ops {
			b := op.Bounds()
			assert.GreaterOrEqual(t, b.Y, MarginTop-epsilon, "page %d op %T starts above the margin", p.Index, op)
			assert.LessOrEqual(t, b.Bottom(), ContentBottom+epsilon, "page %d op %T crosses the footer", p.Index, op)
			assert.GreaterOrEqual(t, b.X, MarginLeft-epsilon)
			assert.LessOrEqual(t, b.X+b.W, PageWidth-MarginRight+epsilon)
		}
	}
}

func countImages(p Page) int {
	n := 0
	for _, op := range p.Ops {
		if _, ok := op.(ImageOp); ok {
			n++
		}
	}
	return n
}

func TestPaginateSyntheticReportIsOnePage(t *testing.T) {
	pages := NewRenderer().Paginate(reportBlocks(2, 0, nil, nil))
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Index)
	assertWithinContent(t, pages)
}

func TestPaginateImagePages(t *testing.T) {
	img := testImage(t)
	tests := []struct {
		images int
		coords int
		pages  int
	}{
		{images: 0, coords: 40, pages: 1},
		{images: 12, coords: 40, pages: 1},
		{images: 13, coords: 3, pages: 2},
		{images: 60, coords: 40, pages: 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d images", tt.images), func(t *testing.T) {
			pages := NewRenderer().Paginate(reportBlocks(tt.coords, tt.images, nil, nil))
			assert.Len(t, pages, tt.pages)
			assertWithinContent(t, pages)

			pages = NewRenderer().Paginate(reportBlocks(tt.coords, tt.images, nil, img))
			assert.Len(t, pages, tt.pages)
			assertWithinContent(t, pages)
		})
	}
}

func TestPaginateContinuationGridHoldsTheRest(t *testing.T) {
	img := testImage(t)
	pages := NewRenderer().Paginate(reportBlocks(0, 40, nil, img))
	require.Len(t, pages, 2)

	// Header logo plus two of every three photos.
	want := func(n int) int { return n - n/3 }
	assert.Equal(t, 1+want(12), countImages(pages[0]))
	all := countImages(pages[0]) + countImages(pages[1])
	assert.Equal(t, 1+want(40), all)
}

func TestPaginateLongNotesFlowAcrossPages(t *testing.T) {
	lines := make([]string, 120)
	for i := range lines {
		lines[i] = "Checked stairwell and confirmed the sprinkler valve was open"
	}
	blocks := []layout.Block{layout.Notes{Title: layout.NotesTitle, Lines: lines}}
	pages := NewRenderer().Paginate(blocks)
	assert.Greater(t, len(pages), 1)
	assertWithinContent(t, pages)
}

func TestPaginateSkipsBlankPages(t *testing.T) {
	blocks := []layout.Block{
		layout.PageBreak{},
		layout.DateLine{Text: "x"},
		layout.PageBreak{},
		layout.PageBreak{},
	}
	pages := NewRenderer().Paginate(blocks)
	require.Len(t, pages, 1)
	assert.NotEmpty(t, pages[0].Ops)

	pages = NewRenderer().Paginate(nil)
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0].Ops)
}

func TestTruncatesWideCells(t *testing.T) {
	r := NewRenderer()
	got := r.fit(strings.Repeat("W", 200), helvetica(9), 100)
	assert.True(t, strings.HasSuffix(got, "..."))
	r.measure.SetFont("Helvetica", "", 9)
	assert.LessOrEqual(t, r.measure.GetStringWidth(got), 100.0)

	assert.Equal(t, "short", r.fit("short", helvetica(9), 100))
}

func TestFinalizeStampsEveryPage(t *testing.T) {
	pages := NewRenderer().Paginate(reportBlocks(6, 30, nil, nil))
	require.Len(t, pages, 2)
	before := make([]Page, len(pages))
	for i, p := range pages {
		before[i] = Page{Index: p.Index, Ops: append([]Op(nil), p.Ops...)}
	}

	out := Finalize(pages, "RedLine FireWatch")
	require.Len(t, out, 2)
	assert.Empty(t, cmp.Diff(before, pages), "input pages must not change")

	for i, p := range out {
		assert.Equal(t, i+1, p.Index)
		added := p.Ops[len(pages[i].Ops):]
		require.Len(t, added, 3)

		var labels []string
		for _, op := range added {
			assert.GreaterOrEqual(t, op.Bounds().Y, ContentBottom, "footer must stay in the bottom margin")
			assert.LessOrEqual(t, op.Bounds().Bottom(), PageHeight)
			if txt, ok := op.(TextOp); ok {
				labels = append(labels, txt.S)
			}
		}
		assert.Equal(t, []string{"RedLine FireWatch", PageLabel(i+1, 2)}, labels)
	}
}

func TestFinalizeEmptyDocument(t *testing.T) {
	assert.Empty(t, Finalize(nil, "brand"))
}

func TestRenderWritesPDF(t *testing.T) {
	img := testImage(t)
	var buf bytes.Buffer
	n, err := NewRenderer().Render(&buf, reportBlocks(8, 14, []string{"All quiet", "Café door locked"}, img), "RedLine FireWatch", Meta{
		Title:   "Patrol Report",
		Author:  "RedLine FireWatch",
		Created: time.Date(2025, 3, 4, 9, 15, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestFlushReportsBadImages(t *testing.T) {
	pages := []Page{{Index: 1, Ops: []Op{ImageOp{Box: Box{X: 40, Y: 40, W: 10, H: 10}, Name: "bad", Data: []byte("nope")}}}}
	err := Flush(&bytes.Buffer{}, pages, Meta{})
	assert.Error(t, err)
}

func TestFitHandlesNonASCII(t *testing.T) {
	r := NewRenderer()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "latin-1", in: "Müller", want: "M\xfcller"},
		{name: "cp1252 punctuation", in: "Officer’s note", want: "Officer\x92s note"},
		{name: "cjk", in: "巡逻", want: ".."},
		{name: "emoji", in: "ok 🔥", want: "ok ."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.fit(tt.in, helvetica(9), 200))
		})
	}

	got := r.fit(strings.Repeat("é", 100), helvetica(9), 60)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, r.width(got), 60.0)
}

func TestWrapHandlesNonASCII(t *testing.T) {
	r := NewRenderer()
	tests := []struct {
		name  string
		in    string
		width float64
	}{
		{name: "latin-1", in: "Señor Müller at gate, café entrance checked", width: 80},
		{name: "cp1252 quotes", in: "“Door” was propped – closed it", width: 60},
		{name: "cjk", in: "巡逻完成 一切正常 没有问题", width: 20},
		{name: "emoji", in: "🔥 alarm panel 🔥 normal", width: 50},
		{name: "one long word", in: strings.Repeat("ü", 80), width: 40},
		{name: "newlines", in: "first line\nsecond line", width: ContentWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			font := helvetica(10)
			var lines []string
			require.NotPanics(t, func() { lines = r.wrap(tt.in, font, tt.width) })
			require.NotEmpty(t, lines)

			r.measure.SetFont(font.Family, font.Style, font.Size)
			var total int
			for _, line := range lines {
				assert.LessOrEqual(t, r.width(line), tt.width, "line %q", line)
				total += len(strings.ReplaceAll(line, " ", ""))
			}
			// Every non-space character survives, one byte each.
			want := 0
			for _, c := range tt.in {
				if c != ' ' && c != '\n' {
					want++
				}
			}
			assert.Equal(t, want, total)
		})
	}

	assert.Equal(t, []string{"first line", "second line"}, r.wrap("first line\nsecond line", helvetica(10), ContentWidth))
	assert.Equal(t, []string{""}, r.wrap("   ", helvetica(10), ContentWidth))
}

func TestRenderNonASCIIEverywhere(t *testing.T) {
	m := report.Model{
		PropertyName:    "Château Résidences",
		PropertyAddress: "12 Straße am Fluß",
		OfficerName:     "José Müller",
		ManagerName:     "王小明",
		Status:          "Terminé ✅",
		GeneratedDate:   "March 04, 2025",
	}
	blocks := []layout.Block{
		layout.Header{Title: "Rapport de patrouille – Île"},
		layout.DateLine{Text: "Report Generated: " + m.GeneratedDate},
		layout.InfoBlock(m),
		layout.CoordinateBlock([]report.CoordinateRow{{Time: "10:00:00 AM", Latitude: "45.5°", Longitude: "−73.6°"}}),
		layout.Notes{Title: layout.NotesTitle, Lines: []string{"Checked café entrance, all clear", "Señor Müller at gate", "巡逻完成 🔥"}},
	}

	var buf bytes.Buffer
	var n int
	var err error
	require.NotPanics(t, func() {
		n, err = NewRenderer().Render(&buf, blocks, "RedLine FireWatch · Montréal", Meta{Title: "Patrouille – Île"})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
