package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrTypeMismatch is returned when a value cannot be converted to the requested kind
// without loss or ambiguity.
var ErrTypeMismatch = errors.New("type mismatch")

// maxExactFloatInt is the largest integer magnitude a float64 represents exactly.
const maxExactFloatInt = 1 << 53

// Coerce converts v to the target kind. For lists, elem selects the kind every
// element is converted to; KindInvalid leaves elements untouched.
//
// The same input always produces the same output or the same error.
func Coerce(v Value, target Kind, elem Kind) (Value, error) {
	if !v.IsValid() {
		return Value{}, mismatch(v, target, "no value")
	}

	switch target {
	case KindString:
		return toString(v)
	case KindInteger:
		return toInteger(v)
	case KindFloat:
		return toFloat(v)
	case KindBool:
		return toBool(v)
	case KindList:
		return toList(v, elem)
	case KindSection:
		if v.kind == KindSection {
			return v, nil
		}

		return Value{}, mismatch(v, target, "")
	case KindInvalid:
		return Value{}, mismatch(v, target, "invalid target type")
	}

	return Value{}, mismatch(v, target, "unknown target type")
}

// ParseBool parses the boolean spellings accepted in configuration files:
// yes, no, true and false, case-insensitively.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true":
		return true, nil
	case "no", "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q is not one of yes, no, true, false", ErrTypeMismatch, s)
	}
}

func toString(v Value) (Value, error) {
	switch v.kind {
	case KindString:
		return v, nil
	case KindInteger, KindFloat, KindBool:
		return String(v.String()), nil
	case KindInvalid, KindList, KindSection:
		return Value{}, mismatch(v, KindString, "")
	}

	return Value{}, mismatch(v, KindString, "")
}

func toInteger(v Value) (Value, error) {
	switch v.kind {
	case KindInteger:
		return v, nil
	case KindString:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v.str), 10, 64)
		if err != nil {
			return Value{}, mismatch(v, KindInteger, "")
		}

		return Int(parsed), nil
	case KindFloat:
		if v.flt != math.Trunc(v.flt) || v.flt < math.MinInt64 || v.flt >= math.MaxInt64 {
			return Value{}, mismatch(v, KindInteger, "not an integral value")
		}

		return Int(int64(v.flt)), nil
	case KindInvalid, KindBool, KindList, KindSection:
		return Value{}, mismatch(v, KindInteger, "")
	}

	return Value{}, mismatch(v, KindInteger, "")
}

func toFloat(v Value) (Value, error) {
	switch v.kind {
	case KindFloat:
		return v, nil
	case KindInteger:
		if v.num > maxExactFloatInt || v.num < -maxExactFloatInt {
			return Value{}, mismatch(v, KindFloat, "integer too large to convert exactly")
		}

		return Float(float64(v.num)), nil
	case KindString:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
			return Value{}, mismatch(v, KindFloat, "")
		}

		return Float(parsed), nil
	case KindInvalid, KindBool, KindList, KindSection:
		return Value{}, mismatch(v, KindFloat, "")
	}

	return Value{}, mismatch(v, KindFloat, "")
}

func toBool(v Value) (Value, error) {
	switch v.kind {
	case KindBool:
		return v, nil
	case KindString:
		parsed, err := ParseBool(v.str)
		if err != nil {
			return Value{}, mismatch(v, KindBool, "expected yes, no, true or false")
		}

		return Bool(parsed), nil
	case KindInvalid, KindInteger, KindFloat, KindList, KindSection:
		return Value{}, mismatch(v, KindBool, "")
	}

	return Value{}, mismatch(v, KindBool, "")
}

func toList(v Value, elem Kind) (Value, error) {
	var items []Value

	switch v.kind {
	case KindList:
		items = v.list
	case KindString:
		items = splitList(v.str)
	case KindInteger, KindFloat, KindBool:
		items = []Value{v}
	case KindInvalid, KindSection:
		return Value{}, mismatch(v, KindList, "")
	}

	if elem == KindInvalid {
		return List(items...), nil
	}

	converted := make([]Value, 0, len(items))

	for i, item := range items {
		c, err := Coerce(item, elem, KindInvalid)
		if err != nil {
			return Value{}, fmt.Errorf("list item %d: %w", i, err)
		}

		converted = append(converted, c)
	}

	return Value{kind: KindList, list: converted}, nil
}

// splitList splits "[a, b, c]" into string values. Text without brackets
// becomes a single-element list.
func splitList(text string) []Value {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 2 || trimmed[0] != '[' || trimmed[len(trimmed)-1] != ']' {
		return []Value{String(trimmed)}
	}

	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if inner == "" {
		return []Value{}
	}

	parts := strings.Split(inner, ",")
	items := make([]Value, 0, len(parts))

	for _, part := range parts {
		items = append(items, String(strings.TrimSpace(part)))
	}

	return items
}

func mismatch(v Value, target Kind, reason string) error {
	if reason == "" {
		return fmt.Errorf("%w: expected %s, got %s %s", ErrTypeMismatch, target, v.kind, v.Quote())
	}

	return fmt.Errorf("%w: expected %s, got %s %s (%s)", ErrTypeMismatch, target, v.kind, v.Quote(), reason)
}
