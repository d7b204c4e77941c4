package ledger

import (
	"strings"

	"github.com/cleared-dev/bfxledger/internal/model"
)

// datePrefix turns the export's two-digit year into four digits.
// Valid through 2099.
const datePrefix = "20"

const bom = "\ufeff"

// NormalizeHeader lower-cases the column names of a header row. A byte order
// mark in front of the first name is dropped.
func NormalizeHeader(row []string) []string {
	header := make([]string, len(row))
	for i, name := range row {
		if i == 0 {
			name = strings.TrimPrefix(name, bom)
		}
		header[i] = strings.ToLower(name)
	}
	return header
}

// Normalize zips header with row. Columns past the shorter of the two are
// dropped: a short row leaves trailing header names absent, a long row loses
// its extra values. The date field, when present, gets its century prepended.
func Normalize(header, row []string) model.Record {
	n := min(len(header), len(row))
	rec := make(model.Record, n)
	for i := 0; i < n; i++ {
		rec[header[i]] = row[i]
	}
	if d, ok := rec[model.KeyDate]; ok {
		rec[model.KeyDate] = datePrefix + d
	}
	return rec
}

// columns returns the keys Normalize fills for a row of n fields, in header
// order. A repeated name keeps its first position.
func columns(header []string, n int) []string {
	n = min(len(header), n)
	out := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for _, name := range header[:n] {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
