package template

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/0xalexb/gconfig/config/diag"
	"github.com/0xalexb/gconfig/config/model"
)

// ValidationRule is a per-parameter constraint. The set of rules is closed:
// Range, Pattern, OneOf, Custom and CustomFunc.
type ValidationRule interface {
	// Kind is the diagnostic kind reported when the rule fails.
	Kind() diag.Kind
	// RuleName identifies the rule in diagnostics. Custom rules use their declared name.
	RuleName() string
	// Describe returns a human-readable constraint, e.g. "must be one of: a, b".
	Describe() string
	// Check returns a non-nil error describing the violation when v fails the rule.
	// v has already been coerced to the parameter type.
	Check(v model.Value) error

	prepare(spec ParameterSpec) (ValidationRule, error)
}

// Range bounds numbers by value and strings and lists by length.
// Use math.Inf for an open bound.
type Range struct {
	Min float64
	Max float64
}

// AtLeast returns a Range with only a lower bound.
func AtLeast(minimum float64) Range {
	return Range{Min: minimum, Max: math.Inf(1)}
}

// AtMost returns a Range with only an upper bound.
func AtMost(maximum float64) Range {
	return Range{Min: math.Inf(-1), Max: maximum}
}

// Kind implements ValidationRule.
func (r Range) Kind() diag.Kind { return diag.KindRange }

// RuleName implements ValidationRule.
func (r Range) RuleName() string { return string(diag.KindRange) }

// Describe implements ValidationRule.
func (r Range) Describe() string {
	switch {
	case math.IsInf(r.Min, -1) && math.IsInf(r.Max, 1):
		return "any value"
	case math.IsInf(r.Min, -1):
		return "must be at most " + formatBound(r.Max)
	case math.IsInf(r.Max, 1):
		return "must be at least " + formatBound(r.Min)
	default:
		return fmt.Sprintf("must be between %s and %s", formatBound(r.Min), formatBound(r.Max))
	}
}

// Check implements ValidationRule.
func (r Range) Check(v model.Value) error {
	if n, ok := v.Number(); ok {
		if n < r.Min || n > r.Max {
			return fmt.Errorf("value %s is out of range: %s", v.Quote(), r.Describe())
		}

		return nil
	}

	length := float64(v.Len())
	if length < r.Min || length > r.Max {
		return fmt.Errorf("length %d of %s is out of range: %s", v.Len(), v.Quote(), r.Describe())
	}

	return nil
}

func (r Range) prepare(spec ParameterSpec) (ValidationRule, error) {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return nil, errors.New("range bounds must be numbers")
	}

	if r.Min > r.Max {
		return nil, fmt.Errorf("range minimum %s is greater than maximum %s", formatBound(r.Min), formatBound(r.Max))
	}

	if spec.Type == model.KindBool || spec.Type == model.KindSection {
		return nil, fmt.Errorf("range cannot apply to %s parameters", spec.Type)
	}

	return r, nil
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Pattern requires the text of a value to match a regular expression.
// List values are checked element by element.
type Pattern struct {
	Expr string

	re *regexp.Regexp
}

// Matches returns a Pattern rule for expr. The expression is compiled when the
// template is built.
func Matches(expr string) Pattern {
	return Pattern{Expr: expr}
}

// Kind implements ValidationRule.
func (p Pattern) Kind() diag.Kind { return diag.KindPattern }

// RuleName implements ValidationRule.
func (p Pattern) RuleName() string { return string(diag.KindPattern) }

// Describe implements ValidationRule.
func (p Pattern) Describe() string {
	return "must match pattern " + p.Expr
}

// Check implements ValidationRule.
func (p Pattern) Check(v model.Value) error {
	re := p.re
	if re == nil {
		compiled, err := regexp.Compile(p.Expr)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", p.Expr, err)
		}

		re = compiled
	}

	for _, item := range elements(v) {
		if !re.MatchString(item.String()) {
			return fmt.Errorf("value %s does not match pattern %s", item.Quote(), p.Expr)
		}
	}

	return nil
}

func (p Pattern) prepare(spec ParameterSpec) (ValidationRule, error) {
	if spec.Type == model.KindSection {
		return nil, errors.New("pattern cannot apply to section parameters")
	}

	re, err := regexp.Compile(p.Expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", p.Expr, err)
	}

	return Pattern{Expr: p.Expr, re: re}, nil
}

// OneOf restricts a value to an enumerated set. List values are checked
// element by element.
type OneOf struct {
	Values []model.Value
}

// AnyOf returns a OneOf rule over the given raw values.
// Values that cannot be represented make the rule malformed when the template is built.
func AnyOf(values ...any) OneOf {
	converted := make([]model.Value, 0, len(values))

	for _, raw := range values {
		v, err := model.FromAny(raw)
		if err != nil {
			converted = append(converted, model.Value{})

			continue
		}

		converted = append(converted, v)
	}

	return OneOf{Values: converted}
}

// Kind implements ValidationRule.
func (o OneOf) Kind() diag.Kind { return diag.KindOneOf }

// RuleName implements ValidationRule.
func (o OneOf) RuleName() string { return string(diag.KindOneOf) }

// Describe implements ValidationRule.
func (o OneOf) Describe() string {
	names := make([]string, 0, len(o.Values))
	for _, v := range o.Values {
		names = append(names, v.String())
	}

	return "must be one of: " + strings.Join(names, ", ")
}

// Check implements ValidationRule.
func (o OneOf) Check(v model.Value) error {
	for _, item := range elements(v) {
		if !o.allows(item) {
			return fmt.Errorf("value %s is not allowed: %s", item.Quote(), o.Describe())
		}
	}

	return nil
}

func (o OneOf) allows(v model.Value) bool {
	for _, allowed := range o.Values {
		if allowed.Equal(v) {
			return true
		}
	}

	return false
}

func (o OneOf) prepare(spec ParameterSpec) (ValidationRule, error) {
	if len(o.Values) == 0 {
		return nil, errors.New("one_of needs at least one value")
	}

	target := spec.Type
	if spec.Type == model.KindList {
		target = spec.ElemType
	}

	if target == model.KindSection {
		return nil, errors.New("one_of cannot apply to section parameters")
	}

	values := make([]model.Value, 0, len(o.Values))

	for i, raw := range o.Values {
		if target == model.KindInvalid {
			if !raw.IsValid() {
				return nil, fmt.Errorf("one_of value %d is empty", i)
			}

			values = append(values, raw)

			continue
		}

		v, err := model.Coerce(raw, target, model.KindInvalid)
		if err != nil {
			return nil, fmt.Errorf("one_of value %d: %w", i, err)
		}

		values = append(values, v)
	}

	return OneOf{Values: values}, nil
}

// Custom is a named predicate written as a Starlark expression over `value`.
// The value satisfies the rule when the expression is truthy.
//
//	template.Custom{Name: "even", Expr: "value % 2 == 0"}
type Custom struct {
	Name string
	Expr string
}

// Predicate returns a Custom rule.
func Predicate(name, expr string) Custom {
	return Custom{Name: name, Expr: expr}
}

// Kind implements ValidationRule.
func (c Custom) Kind() diag.Kind { return diag.KindCustom }

// RuleName implements ValidationRule.
func (c Custom) RuleName() string { return c.Name }

// Describe implements ValidationRule.
func (c Custom) Describe() string {
	return fmt.Sprintf("must satisfy %s (%s)", c.Name, c.Expr)
}

// Check implements ValidationRule.
func (c Custom) Check(v model.Value) error {
	ok, err := evalPredicate(c.Name, c.Expr, v)
	if err != nil {
		return fmt.Errorf("rule %q violated: %w", c.Name, err)
	}

	if !ok {
		return fmt.Errorf("rule %q violated", c.Name)
	}

	return nil
}

func (c Custom) prepare(ParameterSpec) (ValidationRule, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, errors.New("custom rule needs a name")
	}

	if err := compilePredicate(c.Name, c.Expr); err != nil {
		return nil, fmt.Errorf("custom rule %q: %w", c.Name, err)
	}

	return c, nil
}

// CustomFunc is a named predicate implemented in Go. Func must be pure.
type CustomFunc struct {
	Name string
	Func func(model.Value) bool
}

// Kind implements ValidationRule.
func (c CustomFunc) Kind() diag.Kind { return diag.KindCustom }

// RuleName implements ValidationRule.
func (c CustomFunc) RuleName() string { return c.Name }

// Describe implements ValidationRule.
func (c CustomFunc) Describe() string {
	return "must satisfy " + c.Name
}

// Check implements ValidationRule.
func (c CustomFunc) Check(v model.Value) error {
	if !c.Func(v) {
		return fmt.Errorf("rule %q violated", c.Name)
	}

	return nil
}

func (c CustomFunc) prepare(ParameterSpec) (ValidationRule, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, errors.New("custom rule needs a name")
	}

	if c.Func == nil {
		return nil, fmt.Errorf("custom rule %q has no function", c.Name)
	}

	return c, nil
}

// elements returns the items of a list value, or the value itself.
func elements(v model.Value) []model.Value {
	if items, ok := v.AsList(); ok {
		return items
	}

	return []model.Value{v}
}
