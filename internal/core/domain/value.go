package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToNumber converts numeric values to float64. ok is false for anything that
// is not a Go number.
func ToNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// coerceNumber also accepts numeric strings.
func coerceNumber(v any) (float64, bool) {
	if n, ok := ToNumber(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && strings.TrimSpace(s) != "" {
			return f, true
		}
	}
	return 0, false
}

// LooseEqual compares two scalar values the way the query language does:
// numbers compare numerically, a number equals a numeric string with the same
// value, and everything else must match in type and value.
func LooseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	_, aNum := ToNumber(a)
	_, bNum := ToNumber(b)
	if aNum || bNum {
		x, okA := coerceNumber(a)
		y, okB := coerceNumber(b)
		return okA && okB && x == y
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	return false
}

// StrictEqual requires both values to share a kind; numbers still compare by
// value so int64 timestamps match decoded float64 literals.
func StrictEqual(a, b any) bool {
	x, aNum := ToNumber(a)
	y, bNum := ToNumber(b)
	if aNum || bNum {
		return aNum && bNum && x == y
	}
	return LooseEqual(a, b)
}

// Compare orders two values numerically when both coerce to numbers and
// lexicographically when both are strings. ok is false otherwise.
func Compare(a, b any) (int, bool) {
	_, aNum := ToNumber(a)
	_, bNum := ToNumber(b)
	if aNum || bNum {
		x, okA := coerceNumber(a)
		y, okB := coerceNumber(b)
		if !okA || !okB {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	x, okA := a.(string)
	y, okB := b.(string)
	if !okA || !okB {
		return 0, false
	}
	return strings.Compare(x, y), true
}

// Truthy applies JavaScript-style truthiness: false, 0, "", and null are
// falsy, every other value is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	if n, ok := ToNumber(v); ok {
		return n != 0 && !math.IsNaN(n)
	}
	return true
}

// String renders a scalar for keys and collation; nil renders as "".
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
