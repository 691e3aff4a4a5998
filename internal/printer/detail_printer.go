package printer

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/cmd/output"
)

var _ output.Printer[catalog.ServerDetail] = (*DetailPrinter)(nil)

// DetailPrinter prints a server with its packages and remotes.
type DetailPrinter struct {
	frame[catalog.ServerDetail]
	summary *ServerPrinter
}

func NewDetailPrinter(opts ...Option) (*DetailPrinter, error) {
	summary, err := NewServerPrinter(opts...)
	if err != nil {
		return nil, err
	}

	return &DetailPrinter{summary: summary}, nil
}

func (p *DetailPrinter) Item(w io.Writer, d catalog.ServerDetail) error {
	if err := p.summary.Item(w, d.ServerSummary); err != nil {
		return err
	}

	if len(d.Packages) == 0 && len(d.Remotes) == 0 {
		_, _ = fmt.Fprintln(w, "  ⚠️ Warning: No packages or remotes found")
		return nil
	}

	for _, pkg := range d.Packages {
		p.printPackage(w, pkg)
	}

	if len(d.Remotes) > 0 {
		_, _ = fmt.Fprintln(w, "  🌐 Remotes:")
		for _, r := range d.Remotes {
			_, _ = fmt.Fprintf(w, "\t%s%s\n", padRight(r.TransportType, alignWidth), r.URL)
			for _, h := range r.Headers {
				_, _ = fmt.Fprintf(w, "\t  header: %s\n", describeInput(h))
			}
		}
	}

	return nil
}

func (p *DetailPrinter) printPackage(w io.Writer, pkg catalog.Package) {
	name := pkg.Name
	if pkg.Version != "" {
		name += "@" + pkg.Version
	}
	_, _ = fmt.Fprintf(w, "  📦 Package: %s (%s)\n", name, pkg.RegistryName)

	if pkg.RuntimeHint != "" {
		_, _ = fmt.Fprintf(w, "\tRuntime: %s\n", pkg.RuntimeHint)
	}

	printArguments(w, "Runtime arguments", pkg.RuntimeArguments)
	printArguments(w, "Package arguments", pkg.PackageArguments)

	if len(pkg.EnvironmentVariables) > 0 {
		envs := slices.Clone(pkg.EnvironmentVariables)
		slices.SortFunc(envs, func(a, b catalog.KeyValueInput) int {
			return cmp.Compare(a.Name, b.Name)
		})

		_, _ = fmt.Fprintln(w, "\t🌍 Environment variables:")
		for _, env := range envs {
			_, _ = fmt.Fprintf(w, "\t  %s%s\n", padRight(requiredMark(env.Name, env.IsRequired), alignWidth), describeInput(env.Input))
		}
	}
}

func printArguments(w io.Writer, title string, args []catalog.Argument) {
	if len(args) == 0 {
		return
	}

	_, _ = fmt.Fprintf(w, "\t%s:\n", title)
	for i, arg := range args {
		label := arg.Name
		switch {
		case arg.Type == catalog.ArgumentPositional && label == "":
			label = fmt.Sprintf("(%d) %s", i+1, cmp.Or(arg.ValueHint, arg.Value, "<value>"))
		case arg.Type == catalog.ArgumentPositional:
			label = fmt.Sprintf("(%d) %s", i+1, label)
		}
		if arg.IsRepeated {
			label += "..."
		}
		_, _ = fmt.Fprintf(w, "\t  %s%s\n", padRight(requiredMark(label, arg.IsRequired), alignWidth), describeInput(arg.Input))
	}
}

func requiredMark(label string, required bool) string {
	if required {
		return label + " ❗"
	}
	return label
}

// describeInput summarizes an input on one line.
func describeInput(in catalog.Input) string {
	parts := make([]string, 0, 4)
	if in.Description != "" {
		parts = append(parts, in.Description)
	}
	if in.Format != "" && in.Format != catalog.FormatString {
		parts = append(parts, fmt.Sprintf("format: %s", in.Format))
	}
	if in.Default != "" && !in.IsSecret {
		parts = append(parts, fmt.Sprintf("default: %s", in.Default))
	}
	if len(in.Choices) > 0 {
		parts = append(parts, fmt.Sprintf("choices: %s", strings.Join(in.Choices, "|")))
	}
	if in.IsSecret {
		parts = append(parts, "secret")
	}
	if len(in.Properties) > 0 {
		parts = append(parts, fmt.Sprintf("properties: %s", strings.Join(slices.Sorted(maps.Keys(in.Properties)), ", ")))
	}
	return strings.Join(parts, "; ")
}
