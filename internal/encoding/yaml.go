package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/bfxledger/internal/model"
)

// YAML writes a block sequence at the document root. Each record is emitted as
// its own one-item sequence; concatenated they form a single list.
type YAML struct{}

// Format returns the codec name.
func (YAML) Format() string { return "yaml" }

// Encode streams src into w as one YAML document holding a list.
func (YAML) Encode(w io.Writer, src Source) (int, error) {
	var buf bytes.Buffer
	n := 0
	for src.Next() {
		buf.Reset()
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode([]model.Classified{src.Record()}); err != nil {
			return n, fmt.Errorf("encoding record %d: %w", n+1, err)
		}
		if err := enc.Close(); err != nil {
			return n, fmt.Errorf("encoding record %d: %w", n+1, err)
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return n, fmt.Errorf("writing yaml: %w", err)
		}
		n++
	}
	if err := src.Err(); err != nil {
		return n, err
	}

	if n == 0 {
		if _, err := io.WriteString(w, "[]\n"); err != nil {
			return 0, fmt.Errorf("writing yaml: %w", err)
		}
	}
	return n, nil
}

// Decode reads a YAML list of records. An empty document is an empty list.
func (YAML) Decode(r io.Reader) ([]model.Classified, error) {
	var recs []model.Classified
	if err := yaml.NewDecoder(r).Decode(&recs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return recs, nil
}
