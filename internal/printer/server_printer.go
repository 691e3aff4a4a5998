package printer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/cmd/output"
	"github.com/mozilla-ai/mcpcat/internal/facets"
)

var _ output.Printer[catalog.ServerSummary] = (*ServerPrinter)(nil)

// ServerPrinter prints a single server summary with its derived technology and category.
type ServerPrinter struct {
	frame[catalog.ServerSummary]
	now func() time.Time
}

func NewServerPrinter(opts ...Option) (*ServerPrinter, error) {
	o, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	p := &ServerPrinter{now: o.now}
	p.SetFooter(SeparatorFooter[catalog.ServerSummary]())

	return p, nil
}

// Item outputs a single server entry.
func (p *ServerPrinter) Item(w io.Writer, s catalog.ServerSummary) error {
	tech := facets.ExtractTechnology(s.Name)
	category := facets.ExtractCategory(s.Name, s.Description)

	header := fmt.Sprintf("  🆔 %s", s.ID)
	if s.Name != "" && s.Name != s.ID {
		header += fmt.Sprintf(" (%s)", s.Name)
	}
	_, _ = fmt.Fprintln(w, header)

	if strings.TrimSpace(s.Description) != "" {
		_, _ = fmt.Fprintf(w, "  Description: %s\n", s.Description)
	}

	_, _ = fmt.Fprintf(w, "  %sCategory: %s\n", padRight("Technology: "+tech, alignWidth), category)

	if v := p.version(s.VersionDetail); v != "" {
		_, _ = fmt.Fprintf(w, "  Version: %s\n", v)
	}

	if s.Repository.URL != "" {
		repo := s.Repository.URL
		if gh, ok := facets.GitHubInfo(s.Repository.URL); ok {
			repo = fmt.Sprintf("%s/%s (%s)", gh.Owner, gh.Repo, gh.URL)
		}
		if s.Repository.Source != "" {
			repo += fmt.Sprintf(" [%s]", s.Repository.Source)
		}
		_, _ = fmt.Fprintf(w, "  Repository: %s\n", repo)
	}

	return nil
}

func (p *ServerPrinter) version(v catalog.VersionDetail) string {
	if v.Version == "" && v.ReleaseDate == "" {
		return ""
	}

	parts := make([]string, 0, 3)
	if v.Version != "" {
		parts = append(parts, v.Version)
	}
	if v.IsLatest {
		parts = append(parts, "(latest)")
	}
	if v.ReleaseDate != "" {
		parts = append(parts, fmt.Sprintf(
			"released %s, %s",
			facets.FormatDate(v.ReleaseDate),
			facets.FormatRelativeTimeAt(v.ReleaseDate, p.now()),
		))
	}

	return strings.Join(parts, " ")
}
