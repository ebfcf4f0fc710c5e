package model

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ErrUnsupportedValue is returned by FromAny for Go values with no Value counterpart.
var ErrUnsupportedValue = errors.New("unsupported value")

// Kind is the tag of a Value.
type Kind uint8

// Value kinds.
const (
	KindInvalid Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBool
	KindList
	KindSection
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindSection:
		return "section"
	case KindInvalid:
		return "invalid"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Scalar reports whether values of the kind are single strings, numbers or booleans.
func (k Kind) Scalar() bool {
	return k == KindString || k == KindInteger || k == KindFloat || k == KindBool
}

// ParseKind parses a type name as used in template description files.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str":
		return KindString, nil
	case "integer", "int":
		return KindInteger, nil
	case "float":
		return KindFloat, nil
	case "bool", "boolean":
		return KindBool, nil
	case "list":
		return KindList, nil
	case "section":
		return KindSection, nil
	default:
		return KindInvalid, fmt.Errorf("unknown type %q", name)
	}
}

// Value is an immutable tagged configuration value.
// The zero Value has KindInvalid and represents "no value".
type Value struct {
	kind    Kind
	str     string
	num     int64
	flt     float64
	flag    bool
	list    []Value
	section *Section
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Int returns an integer Value.
func Int(i int64) Value {
	return Value{kind: KindInteger, num: i}
}

// Float returns a float Value.
func Float(f float64) Value {
	return Value{kind: KindFloat, flt: f}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// List returns a list Value holding a copy of items.
func List(items ...Value) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

// Nested returns a section Value holding a copy of section.
func Nested(section *Section) Value {
	if section == nil {
		section = NewSection("")
	}

	return Value{kind: KindSection, section: section.Clone()}
}

// FromAny converts a decoded Go value into a Value.
// Maps are converted with their keys sorted so the result is deterministic.
func FromAny(raw any) (Value, error) {
	switch val := raw.(type) {
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return fromUint(uint64(val))
	case uint8:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint32:
		return Int(int64(val)), nil
	case uint64:
		return fromUint(val)
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case []string:
		items := make([]Value, 0, len(val))
		for _, item := range val {
			items = append(items, String(item))
		}

		return Value{kind: KindList, list: items}, nil
	case []any:
		items := make([]Value, 0, len(val))

		for i, item := range val {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("list item %d: %w", i, err)
			}

			items = append(items, converted)
		}

		return Value{kind: KindList, list: items}, nil
	case map[string]any:
		section := NewSection("")
		keys := make([]string, 0, len(val))

		for key := range val {
			keys = append(keys, key)
		}

		slices.Sort(keys)

		for _, key := range keys {
			converted, err := FromAny(val[key])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}

			section.Set(key, converted)
		}

		return Value{kind: KindSection, section: section}, nil
	case *Section:
		return Nested(val), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
	}
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: integer %d overflows int64", ErrUnsupportedValue, u)
	}

	return Int(int64(u)), nil
}

// Kind returns the tag of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) {
	return v.num, v.kind == KindInteger
}

// AsFloat returns the float payload.
func (v Value) AsFloat() (float64, bool) {
	return v.flt, v.kind == KindFloat
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// AsList returns a copy of the list payload.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}

	return slices.Clone(v.list), true
}

// AsSection returns a copy of the nested section payload.
func (v Value) AsSection() (*Section, bool) {
	if v.kind != KindSection {
		return nil, false
	}

	return v.section.Clone(), true
}

// Len returns the length of a string or list value and 0 for everything else.
func (v Value) Len() int {
	switch v.kind {
	case KindString:
		return len([]rune(v.str))
	case KindList:
		return len(v.list)
	case KindSection:
		return v.section.Len()
	case KindInvalid, KindInteger, KindFloat, KindBool:
		return 0
	}

	return 0
}

// Number returns the numeric payload of an integer or float value.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.num), true
	case KindFloat:
		return v.flt, true
	case KindInvalid, KindString, KindBool, KindList, KindSection:
		return 0, false
	}

	return 0, false
}

// Raw converts v back to a plain Go value: string, int64, float64, bool,
// []any or map[string]any. The zero Value converts to nil.
func (v Value) Raw() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.flag
	case KindList:
		items := make([]any, 0, len(v.list))
		for _, item := range v.list {
			items = append(items, item.Raw())
		}

		return items
	case KindSection:
		return v.section.Raw()
	case KindInvalid:
		return nil
	}

	return nil
}

// Equal reports whether v and other have the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindInteger:
		return v.num == other.num
	case KindFloat:
		return v.flt == other.flt || (math.IsNaN(v.flt) && math.IsNaN(other.flt))
	case KindBool:
		return v.flag == other.flag
	case KindList:
		return slices.EqualFunc(v.list, other.list, Value.Equal)
	case KindSection:
		return v.section.Equal(other.section)
	case KindInvalid:
		return true
	}

	return false
}

// String renders v in its canonical text form.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return FormatFloat(v.flt)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindList:
		parts := make([]string, 0, len(v.list))
		for _, item := range v.list {
			parts = append(parts, item.String())
		}

		return "[" + strings.Join(parts, ", ") + "]"
	case KindSection:
		parts := make([]string, 0, v.section.Len())
		for _, entry := range v.section.Entries() {
			parts = append(parts, entry.Name+": "+entry.Value.String())
		}

		return "{" + strings.Join(parts, ", ") + "}"
	case KindInvalid:
		return ""
	}

	return ""
}

// Quote renders v for messages: strings are quoted, everything else uses String.
func (v Value) Quote() string {
	if v.kind == KindString {
		return strconv.Quote(v.str)
	}

	return v.String()
}

// FormatFloat renders a float with the shortest exact representation,
// always keeping a decimal point so it reads back as a float.
func FormatFloat(f float64) string {
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(text, ".eEnN") {
		return text
	}

	return text + ".0"
}
