// Package diag reports ledger rows that no catalog entry matched.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/cleared-dev/bfxledger/internal/model"
)

// Prefixes of the two lines written per unmatched row.
const (
	RowPrefix         = "Unable to parse:"
	DescriptionPrefix = "!!"
)

// Reporter writes every unmatched row to a human-readable stream and,
// optionally, to a CSV sink.
type Reporter struct {
	w     io.Writer
	sink  *CSVSink
	row   *color.Color
	desc  *color.Color
	count int
	err   error
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithColor forces colored prefixes on or off. Without it prefixes are
// colored only when the reporter's own writer is a terminal.
func WithColor(enabled bool) Option {
	return func(r *Reporter) { r.setColor(enabled) }
}

// WithCSV also appends each unmatched row to sink.
func WithCSV(sink *CSVSink) Option {
	return func(r *Reporter) { r.sink = sink }
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		w:    w,
		row:  color.New(color.FgRed, color.Bold),
		desc: color.New(color.FgYellow),
	}
	r.setColor(isTerminal(w))
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reporter) setColor(enabled bool) {
	for _, c := range []*color.Color{r.row, r.desc} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// isTerminal reports whether w is a terminal that takes color. NO_COLOR and
// TERM=dumb turn color off as they do for fatih/color.
func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Report writes u. It matches ledger.UnmatchedFunc. Write failures are kept
// and returned by Err; reporting continues for the remaining rows.
func (r *Reporter) Report(u model.Unmatched) {
	r.count++

	where := ""
	if u.Line > 0 {
		where = fmt.Sprintf(" line %d:", u.Line)
	}
	fields := u.Fields
	if fields == nil {
		fields = []string{}
	}

	if _, err := fmt.Fprintf(r.w, "%s%s %q\n", r.row.Sprint(RowPrefix), where, fields); err != nil {
		r.keep(fmt.Errorf("writing diagnostics: %w", err))
	}
	if _, err := fmt.Fprintf(r.w, "%s %s\n", r.desc.Sprint(DescriptionPrefix), u.Description); err != nil {
		r.keep(fmt.Errorf("writing diagnostics: %w", err))
	}

	if r.sink != nil {
		if err := r.sink.Write(u); err != nil {
			r.keep(err)
		}
	}
}

// Count returns how many rows were reported.
func (r *Reporter) Count() int {
	return r.count
}

// Err returns the first write failure.
func (r *Reporter) Err() error {
	return r.err
}

func (r *Reporter) keep(err error) {
	if r.err == nil {
		r.err = err
	}
}
