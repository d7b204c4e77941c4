// Package encoding writes classified records as a single list document and
// reads such documents back.
package encoding

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cleared-dev/bfxledger/internal/model"
)

// ErrUnknownFormat is returned by Lookup for formats nobody registered.
var ErrUnknownFormat = errors.New("unknown output format")

// Source is a forward-only stream of classified records. *ledger.Cursor
// satisfies it.
type Source interface {
	Next() bool
	Record() model.Classified
	Err() error
}

// Codec converts between a list of classified records and one document.
type Codec interface {
	Format() string
	// Encode drains src into w as a list and returns how many records it wrote.
	Encode(w io.Writer, src Source) (int, error)
	Decode(r io.Reader) ([]model.Classified, error)
}

// Registry holds codecs by format name.
type Registry struct {
	codecs map[string]Codec
}

// NewRegistry creates an empty codec registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// Register adds a codec. Panics on duplicate format.
func (r *Registry) Register(c Codec) {
	key := strings.ToLower(c.Format())
	if _, ok := r.codecs[key]; ok {
		panic("duplicate codec format: " + key)
	}
	r.codecs[key] = c
}

// Get returns the codec for format, or nil.
func (r *Registry) Get(format string) Codec {
	return r.codecs[strings.ToLower(format)]
}

// Lookup is Get with an error naming the supported formats.
func (r *Registry) Lookup(format string) (Codec, error) {
	if c := r.Get(format); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, format, strings.Join(r.Formats(), ", "))
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with the yaml and json codecs.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(YAML{})
	r.Register(JSON{})
	return r
}

// Slice adapts an in-memory list to a Source.
func Slice(recs []model.Classified) Source {
	return &sliceSource{recs: recs, i: -1}
}

type sliceSource struct {
	recs []model.Classified
	i    int
}

func (s *sliceSource) Next() bool {
	if s.i+1 >= len(s.recs) {
		s.i = len(s.recs)
		return false
	}
	s.i++
	return true
}

func (s *sliceSource) Record() model.Classified { return s.recs[s.i] }

func (s *sliceSource) Err() error { return nil }
