package printer

import (
	"fmt"
	"io"

	"github.com/mozilla-ai/mcpcat/internal/cmd/output"
	"github.com/mozilla-ai/mcpcat/internal/search"
)

var _ output.Printer[search.Stats] = (*StatsPrinter)(nil)

// StatsPrinter prints catalog totals and the per-facet breakdown.
type StatsPrinter struct {
	frame[search.Stats]
	facets *FacetsPrinter
}

func NewStatsPrinter() *StatsPrinter {
	return &StatsPrinter{facets: NewFacetsPrinter()}
}

func (p *StatsPrinter) Item(w io.Writer, s search.Stats) error {
	_, _ = fmt.Fprintln(w, "📊 Catalog statistics")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintf(w, "  %s%d\n", padRight("Servers:", alignWidth), s.Total)
	_, _ = fmt.Fprintf(w, "  %s%d\n", padRight("Technologies:", alignWidth), s.Technologies)
	_, _ = fmt.Fprintf(w, "  %s%d\n", padRight("Categories:", alignWidth), s.Categories)
	_, _ = fmt.Fprintf(w, "  %s%d\n", padRight("Updated in 30 days:", alignWidth), s.RecentlyUpdated)

	return p.facets.Item(w, s.Facets)
}
