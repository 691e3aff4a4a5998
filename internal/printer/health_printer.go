package printer

import (
	"fmt"
	"io"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/cmd/output"
)

var _ output.Printer[catalog.Health] = (*HealthPrinter)(nil)

// HealthPrinter prints the catalog's status on one line.
type HealthPrinter struct {
	frame[catalog.Health]
}

func NewHealthPrinter() *HealthPrinter {
	return &HealthPrinter{}
}

func (p *HealthPrinter) Item(w io.Writer, h catalog.Health) error {
	auth := "disabled"
	if h.AuthEnabled {
		auth = "enabled"
	}

	switch h.Status {
	case catalog.HealthStatusUnknown, "":
		_, _ = fmt.Fprintln(w, "❓ Catalog status: unknown")
	case "ok", "healthy":
		_, _ = fmt.Fprintf(w, "✅ Catalog status: %s (auth %s)\n", h.Status, auth)
	default:
		_, _ = fmt.Fprintf(w, "⚠️ Catalog status: %s (auth %s)\n", h.Status, auth)
	}

	return nil
}
