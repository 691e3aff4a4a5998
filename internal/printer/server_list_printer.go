package printer

import (
	"fmt"
	"io"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/cmd/output"
)

var _ output.Printer[catalog.ServerListResult] = (*ServerListPrinter)(nil)

// ServerListPrinter prints a page of servers followed by paging hints.
type ServerListPrinter struct {
	frame[catalog.ServerListResult]
	ServerPrinter output.Printer[catalog.ServerSummary]
}

func NewServerListPrinter(prn output.Printer[catalog.ServerSummary]) *ServerListPrinter {
	return &ServerListPrinter{ServerPrinter: prn}
}

func (p *ServerListPrinter) Item(w io.Writer, list catalog.ServerListResult) error {
	if len(list.Servers) == 0 {
		_, _ = fmt.Fprintln(w, "No servers found")
		return nil
	}

	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "📚 Catalog servers...")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, separator)
	_, _ = fmt.Fprintln(w, "")

	for _, s := range list.Servers {
		p.ServerPrinter.Header(w, 0)
		if err := p.ServerPrinter.Item(w, s); err != nil {
			return err
		}
		p.ServerPrinter.Footer(w, 0)
	}

	shown := plural(len(list.Servers), "server")
	if list.Metadata != nil && list.Metadata.Total != nil {
		_, _ = fmt.Fprintf(w, "📦 Showing %s of %d\n", shown, *list.Metadata.Total)
	} else {
		_, _ = fmt.Fprintf(w, "📦 Showing %s\n", shown)
	}

	if next := list.NextCursor(); next != "" {
		_, _ = fmt.Fprintf(w, "➡️  More results available, continue with: --cursor %s\n", next)
	}
	_, _ = fmt.Fprintln(w, "")

	return nil
}
