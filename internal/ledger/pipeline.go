package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cleared-dev/bfxledger/internal/catalog"
	"github.com/cleared-dev/bfxledger/internal/model"
)

// RowReader yields tokenized rows. *csv.Reader satisfies it.
type RowReader interface {
	Read() ([]string, error)
}

// positioner is implemented by readers that know where a row starts, such as
// *csv.Reader.
type positioner interface {
	FieldPos(field int) (line, column int)
}

// NewCSVReader returns a csv.Reader configured for ledger exports: rows may
// differ in length and stray quotes inside unquoted fields are kept.
func NewCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// UnmatchedFunc receives every row no catalog entry matched.
type UnmatchedFunc func(model.Unmatched)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithUnmatched routes unmatched rows to fn instead of the default warning log.
func WithUnmatched(fn UnmatchedFunc) Option {
	return func(p *Pipeline) { p.onUnmatched = fn }
}

// Pipeline normalizes and classifies rows against a catalog.
type Pipeline struct {
	cat         *catalog.Catalog
	onUnmatched UnmatchedFunc
}

// NewPipeline creates a Pipeline over cat.
func NewPipeline(cat *catalog.Catalog, opts ...Option) *Pipeline {
	p := &Pipeline{cat: cat, onUnmatched: logUnmatched}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func logUnmatched(u model.Unmatched) {
	slog.Warn("unmatched ledger row", "line", u.Line, "description", u.Description)
}

// Run starts a single pass over rows. The first row is the header. Nothing is
// read until the returned cursor's Next is called.
func (p *Pipeline) Run(rows RowReader) *Cursor {
	return &Cursor{p: p, rows: rows}
}

// Load runs the pipeline over a CSV stream.
func Load(r io.Reader, cat *catalog.Catalog, opts ...Option) *Cursor {
	return NewPipeline(cat, opts...).Run(NewCSVReader(r))
}

// Stats counts the data rows a cursor has consumed so far.
type Stats struct {
	Rows      int
	Matched   int
	Unmatched int
}

// Cursor is a forward-only stream of classified records. It cannot be
// rewound; run the pipeline again over a fresh reader to start over.
type Cursor struct {
	p       *Pipeline
	rows    RowReader
	header  []string
	columns []string
	started bool
	done    bool
	ordinal int
	cur     model.Classified
	err     error
	stats   Stats
}

// Next advances to the next classified record. Unmatched rows met on the way
// are handed to the pipeline's UnmatchedFunc, in input order, before Next
// returns. It returns false at the end of input or on a read error.
func (c *Cursor) Next() bool {
	if c.done {
		return false
	}

	if !c.started {
		c.started = true
		row, err := c.read()
		if err != nil {
			c.finish(err)
			return false
		}
		c.header = NormalizeHeader(row)
		c.columns = columns(c.header, len(c.header))
	}

	for {
		row, err := c.read()
		if err != nil {
			c.finish(err)
			return false
		}
		c.stats.Rows++

		res := Classify(c.p.cat, Normalize(c.header, row))
		if res.Matched() {
			c.stats.Matched++
			c.cur = *res.Classified
			c.cur.Columns = c.columns
			if len(row) < len(c.header) {
				c.cur.Columns = columns(c.header, len(row))
			}
			return true
		}

		c.stats.Unmatched++
		if c.p.onUnmatched != nil {
			u := *res.Unmatched
			u.Header = c.header
			u.Fields = row
			u.Line = c.line()
			c.p.onUnmatched(u)
		}
	}
}

// Record returns the record Next advanced to.
func (c *Cursor) Record() model.Classified {
	return c.cur
}

// Err returns the first read error. End of input is not an error.
func (c *Cursor) Err() error {
	return c.err
}

// Header returns the normalized header, nil before the first call to Next.
func (c *Cursor) Header() []string {
	return c.header
}

// Stats returns the counts so far.
func (c *Cursor) Stats() Stats {
	return c.stats
}

func (c *Cursor) read() ([]string, error) {
	row, err := c.rows.Read()
	if err != nil {
		return nil, err
	}
	c.ordinal++
	return row, nil
}

// line is the input line the current row starts on when the reader tracks
// positions, else its 1-based row number.
func (c *Cursor) line() int {
	if p, ok := c.rows.(positioner); ok {
		line, _ := p.FieldPos(0)
		return line
	}
	return c.ordinal
}

func (c *Cursor) finish(err error) {
	c.done = true
	c.cur = model.Classified{}
	if !errors.Is(err, io.EOF) {
		c.err = fmt.Errorf("reading row %d: %w", c.ordinal+1, err)
	}
}

// Collect drains c into a slice.
func Collect(c *Cursor) ([]model.Classified, error) {
	var out []model.Classified
	for c.Next() {
		out = append(out, c.Record())
	}
	return out, c.Err()
}
