package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON writes the record as one flat object: the input columns in
// order, then type and meta. Descriptions are written as-is, without HTML
// escaping.
func (c Classified) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')

		var err error
		switch k {
		case KeyType:
			err = writeJSON(&buf, c.Type)
		case KeyMeta:
			err = c.writeMetaJSON(&buf)
		default:
			err = writeJSON(&buf, c.Fields[k])
		}
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c Classified) writeMetaJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, k := range c.metaKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeJSON(buf, c.Meta[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON reads the flat object written by MarshalJSON. Key order is
// kept in Columns and Groups.
func (c *Classified) UnmarshalJSON(data []byte) error {
	keys, vals, err := splitObject(data)
	if err != nil {
		return err
	}

	out := Classified{Fields: make(Record, len(keys))}
	for i, k := range keys {
		v := vals[i]
		switch k {
		case KeyType:
			if err := json.Unmarshal(v, &out.Type); err != nil {
				return fmt.Errorf("decoding %s: %w", k, err)
			}
		case KeyMeta:
			if err := out.decodeMetaJSON(v); err != nil {
				return fmt.Errorf("decoding %s: %w", k, err)
			}
		default:
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("decoding field %q: %w", k, err)
			}
			if _, dup := out.Fields[k]; !dup {
				out.Columns = append(out.Columns, k)
			}
			out.Fields[k] = s
		}
	}
	*c = out
	return nil
}

func (c *Classified) decodeMetaJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		c.Meta = nil
		return nil
	}
	keys, vals, err := splitObject(data)
	if err != nil {
		return err
	}
	c.Meta = make(Meta, len(keys))
	for i, k := range keys {
		var v *string
		if err := json.Unmarshal(vals[i], &v); err != nil {
			return fmt.Errorf("group %q: %w", k, err)
		}
		if _, dup := c.Meta[k]; !dup {
			c.Groups = append(c.Groups, k)
		}
		c.Meta[k] = v
	}
	return nil
}

// splitObject returns the keys and raw values of a JSON object in document
// order.
func splitObject(data []byte) ([]string, []json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected an object, got %v", tok)
	}

	var keys []string
	var vals []json.RawMessage
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("value of %q: %w", key, err)
		}
		keys = append(keys, key)
		vals = append(vals, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, vals, nil
}

// MarshalYAML writes the record as one flat mapping in the same key order as
// MarshalJSON.
func (c Classified) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range c.keys() {
		var val *yaml.Node
		var err error
		switch k {
		case KeyType:
			val, err = scalar(c.Type)
		case KeyMeta:
			val, err = c.metaNode()
		default:
			val, err = scalar(c.Fields[k])
		}
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", k, err)
		}
		key, err := scalar(k)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

func (c Classified) metaNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range c.metaKeys() {
		key, err := scalar(k)
		if err != nil {
			return nil, err
		}
		val, err := scalar(c.Meta[k])
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// scalar encodes v the way yaml.Marshal would, quoting strings that would
// otherwise read back as another type.
func scalar(v any) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return &n, nil
}

// UnmarshalYAML reads the flat mapping written by MarshalYAML. Key order is
// kept in Columns and Groups.
func (c *Classified) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping for a classified record", value.Line)
	}

	out := Classified{Fields: make(Record, len(value.Content)/2)}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, node := value.Content[i].Value, value.Content[i+1]
		switch key {
		case KeyType:
			if err := node.Decode(&out.Type); err != nil {
				return fmt.Errorf("decoding %s: %w", key, err)
			}
		case KeyMeta:
			if err := out.decodeMetaYAML(node); err != nil {
				return fmt.Errorf("decoding %s: %w", key, err)
			}
		default:
			var s string
			if err := node.Decode(&s); err != nil {
				return fmt.Errorf("decoding field %q: %w", key, err)
			}
			if _, dup := out.Fields[key]; !dup {
				out.Columns = append(out.Columns, key)
			}
			out.Fields[key] = s
		}
	}
	*c = out
	return nil
}

func (c *Classified) decodeMetaYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return node.Decode(&c.Meta)
	}
	c.Meta = make(Meta, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i].Value
		var v *string
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("group %q: %w", k, err)
		}
		if _, dup := c.Meta[k]; !dup {
			c.Groups = append(c.Groups, k)
		}
		c.Meta[k] = v
	}
	return nil
}
