// Package serializer turns hydrated event contexts into plain JSON-ready
// values.
package serializer

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"time"
)

// Model is a fetched object that can appear in an event context. Fields
// returns its attributes with related objects in place of raw foreign keys.
type Model interface {
	Fields() map[string]any
}

// Serialize returns a copy of v made only of maps, slices, strings, numbers,
// booleans and nil. Models are expanded through Fields, strings that start
// with '{' or '[' are decoded as JSON when valid (numbers as json.Number), and slices and maps are
// walked recursively. The input is never modified.
func Serialize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case Model:
		if isNilPointer(x) {
			return nil
		}
		return Serialize(x.Fields())
	case string:
		return decodeJSONString(x)
	case json.Number, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.UTC().Format(time.RFC3339Nano)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = Serialize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Serialize(val)
		}
		return out
	}
	return serializeReflect(reflect.ValueOf(v))
}

// decodeJSONString keeps numbers as json.Number so large identifiers survive,
// and serializes the decoded value in turn.
func decodeJSONString(s string) any {
	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		return s
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return s
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return s
	}
	return Serialize(decoded)
}

// serializeReflect covers typed slices, string-keyed maps and pointers that
// the fast path does not list.
func serializeReflect(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Serialize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Serialize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return rv.Interface()
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Serialize(iter.Value().Interface())
		}
		return out
	case reflect.String:
		return decodeJSONString(rv.String())
	}
	return rv.Interface()
}

func isNilPointer(m Model) bool {
	rv := reflect.ValueOf(m)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
