package render

import (
	"fmt"
	"slices"
)

// Footer geometry. Everything sits below ContentBottom.
const (
	FooterRuleY  = ContentBottom + 4
	FooterTextY  = ContentBottom + 12
	footerTextH  = 12.0
	footerHalf   = ContentWidth / 2
	footerSize   = 9.0
	footerStroke = 0.75
)

// Finalize returns a copy of pages with each page stamped with the footer rule, the brand and
// "Page i of N". It does not modify its input.
func Finalize(pages []Page, brand string) []Page {
	total := len(pages)
	out := make([]Page, total)
	for i, p := range pages {
		ops := append(slices.Clone(p.Ops), footer(i+1, total, brand)...)
		out[i] = Page{Index: i + 1, Ops: ops}
	}
	return out
}

func footer(page, total int, brand string) []Op {
	font := helvetica(footerSize)
	return []Op{
		LineOp{X1: MarginLeft, Y1: FooterRuleY, X2: PageWidth - MarginRight, Y2: FooterRuleY, Color: red, Width: footerStroke},
		TextOp{
			Box:   Box{X: MarginLeft, Y: FooterTextY, W: footerHalf, H: footerTextH},
			S:     brand,
			Font:  font,
			Color: grey,
			Align: "LM",
		},
		TextOp{
			Box:   Box{X: MarginLeft + footerHalf, Y: FooterTextY, W: footerHalf, H: footerTextH},
			S:     PageLabel(page, total),
			Font:  font,
			Color: grey,
			Align: "RM",
		},
	}
}

// PageLabel formats the page counter printed in the footer.
func PageLabel(page, total int) string {
	return fmt.Sprintf("Page %d of %d", page, total)
}
