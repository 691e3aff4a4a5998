package printer

import (
	"fmt"
	"io"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/cmd/output"
)

var _ output.Printer[catalog.ServerSummary] = (*ServerResultsPrinter)(nil)

// ServerResultsPrinter frames a collection of servers, delegating each item to an inner printer.
type ServerResultsPrinter struct {
	frame[catalog.ServerSummary]
	ServerPrinter output.Printer[catalog.ServerSummary]
}

func NewServerResultsPrinter(prn output.Printer[catalog.ServerSummary]) *ServerResultsPrinter {
	p := &ServerResultsPrinter{ServerPrinter: prn}
	p.SetHeader(DefaultResultsHeader())
	p.SetFooter(DefaultResultsFooter())
	return p
}

func (p *ServerResultsPrinter) Item(w io.Writer, s catalog.ServerSummary) error {
	p.ServerPrinter.Header(w, 0)

	if err := p.ServerPrinter.Item(w, s); err != nil {
		return err
	}

	p.ServerPrinter.Footer(w, 0)

	return nil
}

func DefaultResultsHeader() output.WriteFunc[catalog.ServerSummary] {
	return func(w io.Writer, _ int) {
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "🔎 Catalog search results...")
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, separator)
		_, _ = fmt.Fprintln(w, "")
	}
}

func DefaultResultsFooter() output.WriteFunc[catalog.ServerSummary] {
	return func(w io.Writer, count int) {
		_, _ = fmt.Fprintf(w, "📦 Found %s\n", plural(count, "server"))
		_, _ = fmt.Fprintln(w, "")
	}
}
