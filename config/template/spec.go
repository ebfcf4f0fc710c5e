package template

import (
	"slices"

	"github.com/0xalexb/gconfig/config/model"
)

// ParameterSpec describes a single configuration parameter.
type ParameterSpec struct {
	Name string
	Type model.Kind
	// ElemType converts list elements. Only valid when Type is model.KindList;
	// model.KindInvalid leaves elements as parsed.
	ElemType model.Kind
	Required bool
	// Default is substituted when the parameter is absent. Required parameters
	// cannot have one.
	Default      *model.Value
	Description  string
	Rules        []ValidationRule
	Dependencies []DependencyRule
}

// HasDefault reports whether a default value is declared.
func (p ParameterSpec) HasDefault() bool {
	return p.Default != nil
}

func (p ParameterSpec) clone() ParameterSpec {
	out := p
	out.Rules = slices.Clone(p.Rules)
	out.Dependencies = slices.Clone(p.Dependencies)

	if p.Default != nil {
		def := *p.Default
		out.Default = &def
	}

	return out
}

// SectionSpec groups the parameters of one section.
type SectionSpec struct {
	Name        string
	Description string
	Parameters  []ParameterSpec
	// Optional sections are only checked and defaulted when they are present.
	Optional bool
	// RequiredIf names a parameter (name or section.name). When set, the section
	// is active as soon as that parameter is set, and optional otherwise.
	RequiredIf string
	// Variable, when not nil, accepts any key in the section and validates it
	// against this spec. Variable specs are never required and have no default.
	Variable *ParameterSpec
	// Names turns the spec into a section set: New declares one section per
	// name, each a copy of this spec checked like any other section. Name is
	// then only the label of the set.
	Names []string
	// Set is the label of the section set a section was declared by. It is
	// filled in by New and empty for plain sections.
	Set string
}

// IsSet reports whether the spec declares a section set.
func (s SectionSpec) IsSet() bool {
	return len(s.Names) > 0
}

// Conditional reports whether the section presence depends on another parameter.
func (s SectionSpec) Conditional() bool {
	return s.RequiredIf != ""
}

// Parameter returns the declared parameter called name.
func (s SectionSpec) Parameter(name string) (ParameterSpec, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p.clone(), true
		}
	}

	return ParameterSpec{}, false
}

func (s SectionSpec) clone() SectionSpec {
	out := s
	out.Names = slices.Clone(s.Names)
	out.Parameters = make([]ParameterSpec, 0, len(s.Parameters))

	for _, p := range s.Parameters {
		out.Parameters = append(out.Parameters, p.clone())
	}

	if s.Variable != nil {
		v := s.Variable.clone()
		out.Variable = &v
	}

	return out
}

// Param is shorthand for building a ParameterSpec in Go code.
func Param(name string, kind model.Kind) ParameterSpec {
	return ParameterSpec{Name: name, Type: kind}
}

// WithDefault returns a copy of p with the given default. Values that cannot be
// represented make the template invalid when it is built.
func (p ParameterSpec) WithDefault(raw any) ParameterSpec {
	v, err := model.FromAny(raw)
	if err != nil {
		v = model.Value{}
	}

	out := p.clone()
	out.Default = &v

	return out
}

// AsRequired returns a copy of p marked as required.
func (p ParameterSpec) AsRequired() ParameterSpec {
	out := p.clone()
	out.Required = true

	return out
}

// WithDescription returns a copy of p with a description.
func (p ParameterSpec) WithDescription(description string) ParameterSpec {
	out := p.clone()
	out.Description = description

	return out
}

// WithRules returns a copy of p with additional rules.
func (p ParameterSpec) WithRules(rules ...ValidationRule) ParameterSpec {
	out := p.clone()
	out.Rules = append(out.Rules, rules...)

	return out
}

// WithDependencies returns a copy of p with additional dependency rules.
func (p ParameterSpec) WithDependencies(rules ...DependencyRule) ParameterSpec {
	out := p.clone()
	out.Dependencies = append(out.Dependencies, rules...)

	return out
}
