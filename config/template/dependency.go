package template

import (
	"fmt"

	"github.com/0xalexb/gconfig/config/diag"
	"github.com/0xalexb/gconfig/config/model"
)

// Ref is a fully-qualified parameter reference.
type Ref struct {
	Section string
	Name    string
}

func (r Ref) String() string {
	return model.Path(r.Section, r.Name)
}

// Lookup returns the final value of a referenced parameter and whether it is set.
type Lookup func(ref Ref) (model.Value, bool)

// DependencyRule relates the parameter it is declared on (A) to another
// parameter (B). The set of rules is closed: Requires, ConflictsWith and
// RequiresValue.
//
// B is written as a bare name for a parameter of the same section, or as
// section.name for a parameter of another section.
type DependencyRule interface {
	Kind() diag.Kind
	// Other returns the unresolved reference to B.
	Other() string
	// Describe returns a human-readable constraint, e.g. "requires db.host".
	Describe() string
	// Check reports a violation between from (A) and to (B) given the final values.
	Check(from, to Ref, lookup Lookup) error

	prepare(to ParameterSpec) (DependencyRule, error)
}

// Requires fails when A is set and B is not.
type Requires struct {
	Param string
}

// Kind implements DependencyRule.
func (r Requires) Kind() diag.Kind { return diag.KindRequires }

// Other implements DependencyRule.
func (r Requires) Other() string { return r.Param }

// Describe implements DependencyRule.
func (r Requires) Describe() string { return "requires " + r.Param }

// Check implements DependencyRule.
func (r Requires) Check(from, to Ref, lookup Lookup) error {
	_, fromSet := lookup(from)
	_, toSet := lookup(to)

	if fromSet && !toSet {
		return fmt.Errorf("%s requires %s to be set", from, to)
	}

	return nil
}

func (r Requires) prepare(ParameterSpec) (DependencyRule, error) {
	return r, nil
}

// ConflictsWith fails when both A and B are set.
type ConflictsWith struct {
	Param string
}

// Kind implements DependencyRule.
func (c ConflictsWith) Kind() diag.Kind { return diag.KindConflictsWith }

// Other implements DependencyRule.
func (c ConflictsWith) Other() string { return c.Param }

// Describe implements DependencyRule.
func (c ConflictsWith) Describe() string { return "conflicts with " + c.Param }

// Check implements DependencyRule.
func (c ConflictsWith) Check(from, to Ref, lookup Lookup) error {
	_, fromSet := lookup(from)
	_, toSet := lookup(to)

	if fromSet && toSet {
		return fmt.Errorf("%s conflicts with %s: both are set", from, to)
	}

	return nil
}

func (c ConflictsWith) prepare(ParameterSpec) (DependencyRule, error) {
	return c, nil
}

// RequiresValue fails when A is set and B does not hold Value.
// An unset B never holds the value.
type RequiresValue struct {
	Param string
	Value model.Value
}

// Kind implements DependencyRule.
func (r RequiresValue) Kind() diag.Kind { return diag.KindRequiresValue }

// Other implements DependencyRule.
func (r RequiresValue) Other() string { return r.Param }

// Describe implements DependencyRule.
func (r RequiresValue) Describe() string {
	return fmt.Sprintf("requires %s to be %s", r.Param, r.Value.Quote())
}

// Check implements DependencyRule.
func (r RequiresValue) Check(from, to Ref, lookup Lookup) error {
	if _, fromSet := lookup(from); !fromSet {
		return nil
	}

	actual, toSet := lookup(to)
	if !toSet {
		return fmt.Errorf("%s requires %s to be %s, but %s is not set", from, to, r.Value.Quote(), to)
	}

	if !actual.Equal(r.Value) {
		return fmt.Errorf("%s requires %s to be %s, got %s", from, to, r.Value.Quote(), actual.Quote())
	}

	return nil
}

func (r RequiresValue) prepare(to ParameterSpec) (DependencyRule, error) {
	if !r.Value.IsValid() {
		return nil, fmt.Errorf("requires_value on %s needs a value", r.Param)
	}

	expected, err := model.Coerce(r.Value, to.Type, to.ElemType)
	if err != nil {
		return nil, fmt.Errorf("requires_value on %s: %w", r.Param, err)
	}

	return RequiresValue{Param: r.Param, Value: expected}, nil
}

// Dependency is a DependencyRule bound to the fully-qualified parameters it relates.
type Dependency struct {
	Rule DependencyRule
	From Ref
	To   Ref
}

// Check evaluates the bound rule.
func (d Dependency) Check(lookup Lookup) error {
	return d.Rule.Check(d.From, d.To, lookup)
}
