// Package catalog holds the ordered set of description patterns used to
// classify ledger rows. Entries are evaluated in registration order and the
// first match wins, so narrower shapes must be registered before broader ones.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyType is returned when registering an entry without a type name.
var ErrEmptyType = errors.New("empty type name")

// DuplicateTypeError reports a type name registered twice.
type DuplicateTypeError struct {
	Type string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("duplicate type %q", e.Type)
}

// PatternSyntaxError reports a pattern that failed to compile.
type PatternSyntaxError struct {
	Type   string
	Source string
	Err    error
}

func (e *PatternSyntaxError) Error() string {
	return fmt.Sprintf("compiling pattern for %q: %v", e.Type, e.Err)
}

func (e *PatternSyntaxError) Unwrap() error { return e.Err }

// Entry is one named pattern.
type Entry struct {
	Type    string
	Source  string // as registered, before anchoring
	Pattern *regexp.Regexp
}

// Groups returns the named capture groups of the entry's pattern in the order
// they appear.
func (e Entry) Groups() []string {
	var names []string
	for _, n := range e.Pattern.SubexpNames() {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Shadow marks an entry that can never match because an earlier entry has the
// same pattern source.
type Shadow struct {
	Type string
	By   string
}

// Catalog is an ordered list of entries with unique type names.
// Build it once, then share it: lookups never mutate.
type Catalog struct {
	entries []Entry
	byType  map[string]int
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{byType: make(map[string]int)}
}

// Register compiles source and appends it under typeName. The pattern is
// matched case-insensitively and anchored at the start of the description.
// \w, \d and \s cover Unicode letters, digits and spaces, and $ also matches
// before a final newline.
func (c *Catalog) Register(typeName, source string) error {
	if typeName == "" {
		return ErrEmptyType
	}
	if _, ok := c.byType[typeName]; ok {
		return &DuplicateTypeError{Type: typeName}
	}

	re, err := regexp.Compile(`(?i)^(?:` + widen(source) + `)`)
	if err != nil {
		return &PatternSyntaxError{Type: typeName, Source: source, Err: err}
	}

	c.byType[typeName] = len(c.entries)
	c.entries = append(c.entries, Entry{Type: typeName, Source: source, Pattern: re})
	return nil
}

// MustRegister is Register for static tables. Panics on error.
func (c *Catalog) MustRegister(typeName, source string) {
	if err := c.Register(typeName, source); err != nil {
		panic(err)
	}
}

// Entries returns the entries in registration order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the entry registered under typeName.
func (c *Catalog) Lookup(typeName string) (Entry, bool) {
	i, ok := c.byType[typeName]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Shadowed returns entries whose pattern source repeats an earlier entry's.
// Under first-match-wins such entries are unreachable.
func (c *Catalog) Shadowed() []Shadow {
	first := make(map[string]string, len(c.entries))
	var out []Shadow
	for _, e := range c.entries {
		if by, ok := first[e.Source]; ok {
			out = append(out, Shadow{Type: e.Type, By: by})
			continue
		}
		first[e.Source] = e.Type
	}
	return out
}

// Each calls fn for every entry in registration order until fn returns false.
func (c *Catalog) Each(fn func(Entry) bool) {
	for _, e := range c.entries {
		if !fn(e) {
			return
		}
	}
}

// widen rewrites the ASCII-only class escapes of RE2 into Unicode classes and
// turns $ into \n?$. Escapes inside a bracket expression are spliced in
// without their own brackets.
func widen(source string) string {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(source); i++ {
		ch := source[i]
		switch {
		case ch == '\\' && i+1 < len(source):
			i++
			if w, ok := widenEscape(source[i], inClass); ok {
				b.WriteString(w)
			} else {
				b.WriteString(source[i-1 : i+1])
			}
		case inClass:
			if ch == ']' {
				inClass = false
			}
			b.WriteByte(ch)
		case ch == '[':
			inClass = true
			b.WriteByte(ch)
			if i+1 < len(source) && source[i+1] == '^' {
				i++
				b.WriteByte('^')
			}
			if i+1 < len(source) && source[i+1] == ']' {
				i++
				b.WriteByte(']')
			}
		case ch == '$':
			b.WriteString(`\n?$`)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func widenEscape(esc byte, inClass bool) (string, bool) {
	var class string
	switch esc {
	case 'w':
		class = `\p{L}\p{N}_`
	case 's':
		class = `\s\v\p{Z}`
	case 'd':
		return `\p{Nd}`, true
	case 'D':
		return `\P{Nd}`, true
	case 'W':
		if inClass {
			return "", false
		}
		return `[^\p{L}\p{N}_]`, true
	default:
		return "", false
	}
	if inClass {
		return class, true
	}
	return "[" + class + "]", true
}
