package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/bfxledger/internal/model"
)

func TestNormalizeHeader(t *testing.T) {
	got := NormalizeHeader([]string{"\ufeff#", "Description", "DATE", "Wallet"})
	assert.Equal(t, []string{"#", "description", "date", "wallet"}, got)
}

func TestNormalize_DateFixup(t *testing.T) {
	rec := Normalize([]string{"date", "description"}, []string{"23-06-01 10:00:00", "x"})
	assert.Equal(t, "2023-06-01 10:00:00", rec["date"])
	assert.Equal(t, "x", rec["description"])
}

func TestNormalize_DateFixupAnyYear(t *testing.T) {
	for _, tt := range []struct{ in, want string }{
		{"00-01-01 00:00:00", "2000-01-01 00:00:00"},
		{"99-12-31 23:59:59", "2099-12-31 23:59:59"},
		{"", "20"},
	} {
		rec := Normalize([]string{"date"}, []string{tt.in})
		assert.Equal(t, tt.want, rec["date"], "date %q", tt.in)
	}
}

func TestNormalize_NoDateColumn(t *testing.T) {
	rec := Normalize([]string{"description"}, []string{"x"})
	_, ok := rec["date"]
	assert.False(t, ok, "no date key is invented")
}

func TestNormalize_ShortRow(t *testing.T) {
	header := []string{"a", "b", "c", "d", "e"}
	rec := Normalize(header, []string{"1", "2", "3"})
	assert.Len(t, rec, 3)
	assert.Equal(t, model.Record{"a": "1", "b": "2", "c": "3"}, rec)
}

func TestNormalize_LongRow(t *testing.T) {
	header := []string{"a", "b", "c", "d", "e"}
	rec := Normalize(header, []string{"1", "2", "3", "4", "5", "6", "7"})
	assert.Len(t, rec, 5)
	assert.Equal(t, "5", rec["e"])
}

func TestNormalize_DateBeyondRow(t *testing.T) {
	rec := Normalize([]string{"description", "date"}, []string{"x"})
	assert.Equal(t, model.Record{"description": "x"}, rec)
}

func TestNormalize_DuplicateHeaderLastWins(t *testing.T) {
	rec := Normalize([]string{"a", "a"}, []string{"1", "2"})
	assert.Equal(t, model.Record{"a": "2"}, rec)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	header := []string{"date"}
	row := []string{"23-01-01 00:00:00"}
	Normalize(header, row)
	assert.Equal(t, "23-01-01 00:00:00", row[0])
}
