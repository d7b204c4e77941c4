package encoding

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/bfxledger/internal/catalog"
	"github.com/cleared-dev/bfxledger/internal/ledger"
	"github.com/cleared-dev/bfxledger/internal/model"
)

func fixture(t *testing.T) []model.Classified {
	t.Helper()
	f, err := os.Open("../../testdata/ledger.csv")
	require.NoError(t, err)
	defer f.Close()

	recs, err := ledger.Collect(ledger.Load(f, catalog.Default()))
	require.NoError(t, err)
	require.Len(t, recs, 8)
	return recs
}

func TestRoundTrip(t *testing.T) {
	recs := fixture(t)

	for _, format := range []string{"yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			codec := DefaultRegistry().Get(format)
			require.NotNil(t, codec)

			var buf bytes.Buffer
			n, err := codec.Encode(&buf, Slice(recs))
			require.NoError(t, err)
			assert.Equal(t, len(recs), n)

			got, err := codec.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, recs, got)
		})
	}
}

func TestEncode_StreamsCursor(t *testing.T) {
	in := "date,description\n23-01-15 00:00:00,Deposit (BTC) #12345 on wallet exchange\n23-01-16 00:00:00,nope\n"
	cur := ledger.Load(strings.NewReader(in), catalog.Default())

	var buf bytes.Buffer
	n, err := JSON{}.Encode(&buf, cur)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "deposit", raw[0]["type"])
	assert.Equal(t, "2023-01-15 00:00:00", raw[0]["date"])
	assert.Equal(t, map[string]any{"coin": "BTC", "id": "12345", "wallet": "exchange"}, raw[0]["meta"])
}

func TestJSON_Layout(t *testing.T) {
	recs := []model.Classified{{
		Fields: model.Record{"description": "P&L <x>"},
		Type:   "t",
		Meta:   model.Meta{"a": nil},
	}}

	var buf bytes.Buffer
	_, err := JSON{}.Encode(&buf, Slice(recs))
	require.NoError(t, err)

	want := "[\n" +
		"  {\n" +
		"    \"description\": \"P&L <x>\",\n" +
		"    \"type\": \"t\",\n" +
		"    \"meta\": {\n" +
		"      \"a\": null\n" +
		"    }\n" +
		"  }\n" +
		"]\n"
	assert.Equal(t, want, buf.String())
}

func TestEncode_KeepsColumnOrder(t *testing.T) {
	in := "Wallet,Description,Date\nexchange,Deposit (BTC) #12345 on wallet exchange,23-01-15 00:00:00\n"
	recs, err := ledger.Collect(ledger.Load(strings.NewReader(in), catalog.Default()))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = JSON{}.Encode(&buf, Slice(recs))
	require.NoError(t, err)
	assert.Equal(t, "[\n"+
		"  {\n"+
		"    \"wallet\": \"exchange\",\n"+
		"    \"description\": \"Deposit (BTC) #12345 on wallet exchange\",\n"+
		"    \"date\": \"2023-01-15 00:00:00\",\n"+
		"    \"type\": \"deposit\",\n"+
		"    \"meta\": {\n"+
		"      \"coin\": \"BTC\",\n"+
		"      \"id\": \"12345\",\n"+
		"      \"wallet\": \"exchange\"\n"+
		"    }\n"+
		"  }\n"+
		"]\n", buf.String())

	buf.Reset()
	_, err = YAML{}.Encode(&buf, Slice(recs))
	require.NoError(t, err)

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	rec := doc.Content[0].Content[0]
	assert.Equal(t, []string{"wallet", "description", "date", "type", "meta"}, mappingKeys(rec))
	assert.Equal(t, []string{"coin", "id", "wallet"}, mappingKeys(rec.Content[9]))
}

func mappingKeys(n *yaml.Node) []string {
	var keys []string
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys
}

func TestYAML_RootIsList(t *testing.T) {
	recs := fixture(t)

	var buf bytes.Buffer
	_, err := YAML{}.Encode(&buf, Slice(recs))
	require.NoError(t, err)

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &node))
	require.Len(t, node.Content, 1)
	assert.Equal(t, yaml.SequenceNode, node.Content[0].Kind)
	assert.Len(t, node.Content[0].Content, len(recs))

	assert.True(t, strings.HasPrefix(buf.String(), "- "))
	assert.Contains(t, buf.String(), "type: deposit")
	assert.NotContains(t, buf.String(), "---", "one document only")
}

func TestEncode_Empty(t *testing.T) {
	for _, codec := range []Codec{YAML{}, JSON{}} {
		var buf bytes.Buffer
		n, err := codec.Encode(&buf, Slice(nil))
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, "[]\n", buf.String(), codec.Format())

		got, err := codec.Decode(&buf)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

type failingSource struct{ err error }

func (s failingSource) Next() bool               { return false }
func (s failingSource) Record() model.Classified { return model.Classified{} }
func (s failingSource) Err() error               { return s.err }

func TestEncode_SourceError(t *testing.T) {
	boom := errors.New("boom")
	for _, codec := range []Codec{YAML{}, JSON{}} {
		_, err := codec.Encode(&bytes.Buffer{}, failingSource{err: boom})
		assert.ErrorIs(t, err, boom, codec.Format())
	}
}

func TestDecode_Garbage(t *testing.T) {
	_, err := JSON{}.Decode(strings.NewReader("{not json"))
	assert.Error(t, err)

	_, err = YAML{}.Decode(strings.NewReader("- just\n- strings\n"))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"json", "yaml"}, r.Formats())
	assert.NotNil(t, r.Get("JSON"))
	assert.Nil(t, r.Get("xml"))

	_, err := r.Lookup("xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Contains(t, err.Error(), "json, yaml")

	c, err := r.Lookup("yaml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Format())

	assert.Panics(t, func() { r.Register(JSON{}) })
}
