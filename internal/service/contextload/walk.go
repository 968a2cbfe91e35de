package contextload

import (
	"encoding/json"
	"math"
	"strconv"
)

// Node is one value of a context tree together with the container that
// holds it. Key is a string when Parent is a map and an int when Parent is
// a slice.
type Node struct {
	Parent any
	Key    any
	Value  any
}

// Set replaces the node's value in its parent container.
func (n Node) Set(v any) {
	switch p := n.Parent.(type) {
	case map[string]any:
		p[n.Key.(string)] = v
	case []any:
		p[n.Key.(int)] = v
	}
}

// Walk visits every value below tree depth first, parents before children.
// When visit returns false the children of that node are skipped.
func Walk(tree map[string]any, visit func(Node) bool) {
	walkValue(tree, visit)
}

func walkValue(v any, visit func(Node) bool) {
	switch c := v.(type) {
	case map[string]any:
		for k, child := range c {
			if visit(Node{Parent: c, Key: k, Value: child}) {
				walkValue(child, visit)
			}
		}
	case []any:
		for i, child := range c {
			if visit(Node{Parent: c, Key: i, Value: child}) {
				walkValue(child, visit)
			}
		}
	}
}

// clone deep-copies the maps and slices of a context tree. Leaves are shared.
func clone(v any) any {
	switch c := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(c))
		for k, child := range c {
			out[k] = clone(child)
		}
		return out
	case []any:
		out := make([]any, len(c))
		for i, child := range c {
			out[i] = clone(child)
		}
		return out
	}
	return v
}

// numericID reports whether v looks like an object ID: a non-negative
// integer in any numeric type, or a string of decimal digits.
func numericID(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return signedID(int64(n))
	case int8:
		return signedID(int64(n))
	case int16:
		return signedID(int64(n))
	case int32:
		return signedID(int64(n))
	case int64:
		return signedID(n)
	case uint:
		return uint64ID(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uint64ID(n)
	case float32:
		return floatID(float64(n))
	case float64:
		return floatID(n)
	case json.Number:
		id, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return signedID(id)
	case string:
		if n == "" {
			return 0, false
		}
		for _, r := range n {
			if r < '0' || r > '9' {
				return 0, false
			}
		}
		id, err := strconv.ParseInt(n, 10, 64)
		return id, err == nil
	}
	return 0, false
}

func uint64ID(n uint64) (int64, bool) {
	if n > math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}

// floatID rejects 2^63 itself: float64(math.MaxInt64) rounds up to it.
func floatID(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func signedID(n int64) (int64, bool) {
	if n < 0 {
		return 0, false
	}
	return n, true
}
