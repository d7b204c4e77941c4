// Package ledger turns raw ledger export rows into classified records: rows are
// zipped with the header, then matched against a pattern catalog.
package ledger

import (
	"github.com/cleared-dev/bfxledger/internal/catalog"
	"github.com/cleared-dev/bfxledger/internal/model"
)

// Result is the outcome of classifying one record. Exactly one of Classified
// and Unmatched is set.
type Result struct {
	Classified *model.Classified
	Unmatched  *model.Unmatched
}

// Matched reports whether a catalog entry matched.
func (r Result) Matched() bool {
	return r.Classified != nil
}

// Classify matches the record's description against cat in registration order
// and stops at the first entry that matches. Every named group of that entry
// is put in Meta, nil when the group took no part in the match, and Groups
// lists them in pattern order.
func Classify(cat *catalog.Catalog, rec model.Record) Result {
	desc := rec.Description()

	var out *model.Classified
	cat.Each(func(e catalog.Entry) bool {
		loc := e.Pattern.FindStringSubmatchIndex(desc)
		if loc == nil {
			return true
		}
		out = &model.Classified{
			Fields: rec,
			Type:   e.Type,
			Meta:   extract(e, desc, loc),
			Groups: e.Groups(),
		}
		return false
	})

	if out == nil {
		return Result{Unmatched: &model.Unmatched{Record: rec, Description: desc}}
	}
	return Result{Classified: out}
}

func extract(e catalog.Entry, desc string, loc []int) model.Meta {
	meta := make(model.Meta)
	for i, name := range e.Pattern.SubexpNames() {
		if name == "" {
			continue
		}
		start, end := loc[2*i], loc[2*i+1]
		if start < 0 {
			meta[name] = nil
			continue
		}
		v := desc[start:end]
		meta[name] = &v
	}
	return meta
}
