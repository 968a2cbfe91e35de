package querysql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DecodeObject decodes a JSON object column. Numbers stay json.Number so that
// int64 identifiers embedded in payloads are not rounded through float64.
// Empty input and JSON null decode to an empty map.
func DecodeObject(raw []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode json object: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// EncodeObject encodes m for a JSON column; nil encodes as {}.
func EncodeObject(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode json object: %w", err)
	}
	return b, nil
}

// IDArray renders ids as a JSON array literal such as [1,2,3].
func IDArray(ids []int64) string {
	b := make([]byte, 0, 2+len(ids)*8)
	b = append(b, '[')
	for i, id := range ids {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, id, 10)
	}
	return string(append(b, ']'))
}
