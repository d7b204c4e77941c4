package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cleared-dev/bfxledger/internal/model"
)

// JSON writes a two-space indented array, one record at a time.
type JSON struct{}

// Format returns the codec name.
func (JSON) Format() string { return "json" }

// Encode streams src into w as a JSON array.
func (JSON) Encode(w io.Writer, src Source) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("  ", "  ")

	if _, err := io.WriteString(w, "["); err != nil {
		return 0, fmt.Errorf("writing json: %w", err)
	}

	n := 0
	for src.Next() {
		buf.Reset()
		if err := enc.Encode(src.Record()); err != nil {
			return n, fmt.Errorf("encoding record %d: %w", n+1, err)
		}
		sep := "\n  "
		if n > 0 {
			sep = ",\n  "
		}
		if _, err := io.WriteString(w, sep); err != nil {
			return n, fmt.Errorf("writing json: %w", err)
		}
		if _, err := w.Write(bytes.TrimRight(buf.Bytes(), "\n")); err != nil {
			return n, fmt.Errorf("writing json: %w", err)
		}
		n++
	}
	if err := src.Err(); err != nil {
		return n, err
	}

	tail := "]\n"
	if n > 0 {
		tail = "\n]\n"
	}
	if _, err := io.WriteString(w, tail); err != nil {
		return n, fmt.Errorf("writing json: %w", err)
	}
	return n, nil
}

// Decode reads a JSON array of records.
func (JSON) Decode(r io.Reader) ([]model.Classified, error) {
	var recs []model.Classified
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	return recs, nil
}
