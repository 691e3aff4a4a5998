// Package printer renders catalog data as human-readable text for the CLI.
package printer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mozilla-ai/mcpcat/internal/cmd/output"
)

const separator = "────────────────────────────────────────────"

// alignWidth is the label column width used across printers.
const alignWidth = 24

// frame holds the optional header and footer of a printer.
type frame[T any] struct {
	headerFunc output.WriteFunc[T]
	footerFunc output.WriteFunc[T]
}

func (f *frame[T]) Header(w io.Writer, count int) {
	if f.headerFunc != nil {
		f.headerFunc(w, count)
	}
}

func (f *frame[T]) SetHeader(fn output.WriteFunc[T]) {
	f.headerFunc = fn
}

func (f *frame[T]) Footer(w io.Writer, count int) {
	if f.footerFunc != nil {
		f.footerFunc(w, count)
	}
}

func (f *frame[T]) SetFooter(fn output.WriteFunc[T]) {
	f.footerFunc = fn
}

// Options configure the text printers.
type Options struct {
	now func() time.Time
}

type Option func(*Options) error

func defaultOptions() Options {
	return Options{now: time.Now}
}

// NewOptions applies opts over the defaults, skipping nil options.
func NewOptions(opts ...Option) (Options, error) {
	options := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}
	return options, nil
}

// WithClock sets the time relative ages are computed against.
func WithClock(now func() time.Time) Option {
	return func(o *Options) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		o.now = now
		return nil
	}
}

// SeparatorFooter writes a blank line, a rule and another blank line.
func SeparatorFooter[T any]() output.WriteFunc[T] {
	return func(w io.Writer, _ int) {
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, separator)
		_, _ = fmt.Fprintln(w, "")
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func plural(count int, singular string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %ss", count, singular)
}
