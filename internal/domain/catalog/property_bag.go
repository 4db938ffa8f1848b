package catalog

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// Property is one key/value entry of a PropertyBag.
type Property struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// PropertyBag is an insertion-ordered set of product properties.
//
// It decodes from a JSON object, from an array of [key, value] pairs, or from
// an array of {"key","value"} objects, and always encodes as a JSON object.
// Numbers decode as float64.
type PropertyBag []Property

// NewPropertyBag builds a bag from a plain map. Keys are sorted so the result
// is deterministic.
func NewPropertyBag(m map[string]any) PropertyBag {
	if len(m) == 0 {
		return PropertyBag{}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(PropertyBag, 0, len(keys))
	for _, k := range keys {
		out = append(out, Property{Key: k, Value: m[k]})
	}
	return out
}

// Get looks up a key exactly as stored.
func (b PropertyBag) Get(key string) (any, bool) {
	for _, p := range b {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Set overwrites the value of an existing key in place, or appends it.
func (b *PropertyBag) Set(key string, value any) {
	for i := range *b {
		if (*b)[i].Key == key {
			(*b)[i].Value = value
			return
		}
	}
	*b = append(*b, Property{Key: key, Value: value})
}

func (b PropertyBag) Len() int { return len(b) }

func (b PropertyBag) Keys() []string {
	out := make([]string, 0, len(b))
	for _, p := range b {
		out = append(out, p.Key)
	}
	return out
}

// Map copies the bag into a plain map.
func (b PropertyBag) Map() map[string]any {
	out := make(map[string]any, len(b))
	for _, p := range b {
		out[p.Key] = p.Value
	}
	return out
}

func (b PropertyBag) Clone() PropertyBag {
	if b == nil {
		return nil
	}
	out := make(PropertyBag, len(b))
	copy(out, b)
	return out
}

func (b PropertyBag) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *PropertyBag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*b = nil
		return nil
	}
	switch trimmed[0] {
	case '{':
		out, err := decodeObject(trimmed)
		if err != nil {
			return err
		}
		*b = out
		return nil
	case '[':
		out, err := decodeEntries(trimmed)
		if err != nil {
			return err
		}
		*b = out
		return nil
	default:
		return fmt.Errorf("property bag: expected object or array, got %q", trimmed[0])
	}
}

func decodeObject(data []byte) (PropertyBag, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	out := PropertyBag{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("property bag: non-string key %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeEntries(data []byte) (PropertyBag, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := PropertyBag{}
	for i, entry := range raw {
		entry = bytes.TrimSpace(entry)
		if len(entry) > 0 && entry[0] == '[' {
			var pair []any
			if err := json.Unmarshal(entry, &pair); err != nil {
				return nil, fmt.Errorf("property entry %d: %w", i, err)
			}
			key, ok := pair0(pair)
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf("property entry %d: want [key, value]", i)
			}
			out.Set(key, pair[1])
			continue
		}
		var p Property
		if err := json.Unmarshal(entry, &p); err != nil {
			return nil, fmt.Errorf("property entry %d: %w", i, err)
		}
		out.Set(p.Key, p.Value)
	}
	return out, nil
}

func pair0(pair []any) (string, bool) {
	if len(pair) == 0 {
		return "", false
	}
	s, ok := pair[0].(string)
	return s, ok
}

// Scan implements sql.Scanner for json/jsonb columns.
func (b *PropertyBag) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*b = nil
		return nil
	case []byte:
		return b.UnmarshalJSON(v)
	case string:
		return b.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("property bag: unsupported scan type %T", value)
	}
}

// Value implements driver.Valuer.
func (b PropertyBag) Value() (driver.Value, error) {
	if b == nil {
		return "{}", nil
	}
	raw, err := b.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
