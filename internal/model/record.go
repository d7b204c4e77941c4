package model

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Well-known record keys.
const (
	KeyDate        = "date"
	KeyDescription = "description"
	KeyType        = "type"
	KeyMeta        = "meta"
)

// DateLayout is the layout of a normalized ledger date ("2023-06-01 10:00:00").
const DateLayout = "2006-01-02 15:04:05"

// Record is a normalized ledger row: header name -> field value.
type Record map[string]string

// Description returns the description field, or "" when the row has none.
func (r Record) Description() string {
	return r[KeyDescription]
}

// Meta holds the named groups captured from a description.
// A nil value means the group did not participate in the match.
type Meta map[string]*string

// Get returns the captured value for name. ok is false when the group is
// unknown or did not participate.
func (m Meta) Get(name string) (value string, ok bool) {
	v, found := m[name]
	if !found || v == nil {
		return "", false
	}
	return *v, true
}

// Decimal parses the captured value for name as a decimal number.
func (m Meta) Decimal(name string) (decimal.Decimal, error) {
	v, ok := m.Get(name)
	if !ok {
		return decimal.Zero, fmt.Errorf("meta %q: no value", name)
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing meta %q: %w", name, err)
	}
	return d, nil
}

// Classified is a normalized record tagged with the catalog entry that matched
// its description.
type Classified struct {
	Fields Record
	Type   string
	Meta   Meta

	// Columns is the input order of Fields and Groups the pattern order of
	// Meta. Keys missing from them are written after, sorted.
	Columns []string
	Groups  []string
}

// Description returns the description the record was classified by.
func (c Classified) Description() string {
	return c.Fields.Description()
}

// Time parses the normalized date field in UTC.
func (c Classified) Time() (time.Time, error) {
	t, err := time.Parse(DateLayout, c.Fields[KeyDate])
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", c.Fields[KeyDate], err)
	}
	return t, nil
}

// keys returns the serialized key order: the input columns, then type and
// meta. A column named type or meta keeps its place and carries the
// classification instead.
func (c Classified) keys() []string {
	keys := ordered(c.Columns, sortedKeys(c.Fields))
	for _, k := range []string{KeyType, KeyMeta} {
		if _, ok := c.Fields[k]; !ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// metaKeys returns the meta names in pattern order.
func (c Classified) metaKeys() []string {
	return ordered(c.Groups, sortedKeys(c.Meta))
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ordered returns every name in present once: first in the order given by
// order, then the rest as they come.
func ordered(order, present []string) []string {
	want := make(map[string]bool, len(present))
	for _, k := range present {
		want[k] = true
	}
	out := make([]string, 0, len(present))
	for _, k := range order {
		if want[k] {
			want[k] = false
			out = append(out, k)
		}
	}
	for _, k := range present {
		if want[k] {
			want[k] = false
			out = append(out, k)
		}
	}
	return out
}

// Unmatched is a row whose description no catalog entry matched.
type Unmatched struct {
	Record      Record
	Description string

	// Set by the ingestion pipeline; zero when classifying a bare record.
	Header []string
	Fields []string
	Line   int
}
