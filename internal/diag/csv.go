package diag

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/cleared-dev/bfxledger/internal/model"
)

// CSVSink collects unmatched rows in the ledger's own CSV shape, header first,
// so the file can be run through bfxledger again once patterns are added.
type CSVSink struct {
	cw          *csv.Writer
	closer      io.Closer
	needsHeader bool
}

// NewCSVSink writes to w. The header is written before the first row.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{cw: csv.NewWriter(w), needsHeader: true}
}

// OpenCSV appends to the file at path, creating it if needed. The header is
// written only when the file is empty.
func OpenCSV(path string) (*CSVSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening unmatched log: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat unmatched log: %w", err)
	}
	return &CSVSink{cw: csv.NewWriter(f), closer: f, needsHeader: info.Size() == 0}, nil
}

// Write appends the raw fields of u.
func (s *CSVSink) Write(u model.Unmatched) error {
	if s.needsHeader && len(u.Header) > 0 {
		if err := s.cw.Write(u.Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		s.needsHeader = false
	}
	if err := s.cw.Write(u.Fields); err != nil {
		return fmt.Errorf("writing line %d: %w", u.Line, err)
	}
	return nil
}

// Close flushes buffered rows and closes the file opened by OpenCSV.
func (s *CSVSink) Close() error {
	s.cw.Flush()
	err := s.cw.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("closing unmatched log: %w", err)
	}
	return nil
}
