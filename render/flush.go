package render

import (
	"firewatch/layout"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// Meta is the document information written into the PDF.
type Meta struct {
	Title   string
	Author  string
	Created time.Time
}

// Flush replays the recorded pages through fpdf and writes the PDF to w.
func Flush(w io.Writer, pages []Page, meta Meta) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetCreator(meta.Author, true)
	if !meta.Created.IsZero() {
		pdf.SetCreationDate(meta.Created)
	}

	images := make(map[string]bool)
	for _, p := range pages {
		pdf.AddPage()
		for _, op := range p.Ops {
			op.draw(pdf, images)
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("failed to draw page %d: %w", p.Index, err)
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// Render paginates blocks, stamps the footers and writes the document. It returns the page count.
func (r *Renderer) Render(w io.Writer, blocks []layout.Block, brand string, meta Meta) (int, error) {
	pages := Finalize(r.Paginate(blocks), r.encode(brand))
	if err := Flush(w, pages, meta); err != nil {
		return 0, err
	}
	return len(pages), nil
}
