package printer

import (
	"fmt"
	"io"

	"github.com/mozilla-ai/mcpcat/internal/cmd/output"
	"github.com/mozilla-ai/mcpcat/internal/search"
)

var _ output.Printer[search.Facets] = (*FacetsPrinter)(nil)

// FacetsPrinter prints how many servers carry each technology and category.
type FacetsPrinter struct {
	frame[search.Facets]
}

func NewFacetsPrinter() *FacetsPrinter {
	return &FacetsPrinter{}
}

func (p *FacetsPrinter) Item(w io.Writer, f search.Facets) error {
	printCounts(w, "🔧 By technology:", f.Technologies)
	printCounts(w, "🗂️ By category:", f.Categories)
	return nil
}

func printCounts(w io.Writer, title string, counts []search.FacetCount) {
	if len(counts) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintf(w, "  %s\n", title)
	for _, c := range counts {
		_, _ = fmt.Fprintf(w, "\t%s%d\n", padRight(c.Name, alignWidth), c.Count)
	}
}
