package template

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/0xalexb/gconfig/config/model"
)

// Template is an immutable, validated registry of section and parameter specs.
// It is safe for concurrent use.
type Template struct {
	sections []SectionSpec
	index    map[string]int
	deps     []Dependency
}

// New validates the given sections and builds a Template. Every authoring
// problem is collected; the returned error joins all of them and matches
// ErrInvalidTemplate.
func New(sections ...SectionSpec) (*Template, error) {
	tmpl := &Template{
		sections: make([]SectionSpec, 0, len(sections)),
		index:    make(map[string]int, len(sections)),
	}

	expanded, errs := expandSets(sections)

	for _, section := range expanded {
		if _, dup := tmpl.index[section.Name]; dup {
			errs = append(errs, authoring(section.Name, ErrDuplicateName, "section declared more than once"))

			continue
		}

		prepared, sectionErrs := prepareSection(section)
		errs = append(errs, sectionErrs...)

		tmpl.index[section.Name] = len(tmpl.sections)
		tmpl.sections = append(tmpl.sections, prepared)
	}

	errs = append(errs, tmpl.bind()...)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return tmpl, nil
}

// MustNew is like New but panics on error. It is meant for templates declared
// as package variables.
func MustNew(sections ...SectionSpec) *Template {
	tmpl, err := New(sections...)
	if err != nil {
		panic(err)
	}

	return tmpl
}

// expandSets replaces every section set by one section per member name, in
// the order the names are listed.
func expandSets(sections []SectionSpec) ([]SectionSpec, []error) {
	var errs []error

	out := make([]SectionSpec, 0, len(sections))

	for _, section := range sections {
		if !section.IsSet() {
			section.Set = ""
			out = append(out, section)

			continue
		}

		for _, name := range section.Names {
			if name == model.RootSection {
				errs = append(errs, authoring(section.Name, ErrInvalidName, "section set member without a name"))

				continue
			}

			member := section.clone()
			member.Name = name
			member.Names = nil
			member.Set = section.Name
			out = append(out, member)
		}
	}

	return out, errs
}

func prepareSection(section SectionSpec) (SectionSpec, []error) {
	var errs []error

	if strings.TrimSpace(section.Name) != section.Name || strings.ContainsAny(section.Name, "[]") {
		errs = append(errs, authoring(section.Name, ErrInvalidName, "section name %q", section.Name))
	}

	out := section
	out.Parameters = make([]ParameterSpec, 0, len(section.Parameters))
	seen := make(map[string]struct{}, len(section.Parameters))

	for _, param := range section.Parameters {
		location := model.Path(section.Name, param.Name)

		if _, dup := seen[param.Name]; dup {
			errs = append(errs, authoring(location, ErrDuplicateName, "parameter declared more than once"))

			continue
		}

		seen[param.Name] = struct{}{}

		prepared, paramErrs := prepareParameter(location, param)
		errs = append(errs, paramErrs...)

		out.Parameters = append(out.Parameters, prepared)
	}

	if section.Variable != nil {
		location := model.Path(section.Name, "*")
		variable := section.Variable.clone()

		if variable.Required || variable.Default != nil {
			errs = append(errs, authoring(location, ErrInvalidDefault, "variable parameters cannot be required or defaulted"))
		}

		if len(variable.Dependencies) > 0 {
			errs = append(errs, authoring(location, ErrMalformedRule, "variable parameters cannot declare dependencies"))
		}

		variable.Name = ""

		prepared, paramErrs := prepareType(location, variable)
		errs = append(errs, paramErrs...)

		prepared, paramErrs = prepareRules(location, prepared)
		errs = append(errs, paramErrs...)

		out.Variable = &prepared
	}

	return out, errs
}

func prepareParameter(location string, param ParameterSpec) (ParameterSpec, []error) {
	var errs []error

	if param.Name == "" || strings.ContainsAny(param.Name, ". \t=[]#") {
		errs = append(errs, authoring(location, ErrInvalidName, "parameter name %q", param.Name))
	}

	out, typeErrs := prepareType(location, param.clone())
	errs = append(errs, typeErrs...)

	out, ruleErrs := prepareRules(location, out)
	errs = append(errs, ruleErrs...)

	if out.Default == nil {
		return out, errs
	}

	if out.Required {
		errs = append(errs, authoring(location, ErrInvalidDefault, "required parameters cannot have a default"))

		return out, errs
	}

	// A broken type or rule already produced an error; checking the default
	// against it would only repeat that.
	if len(typeErrs) > 0 || len(ruleErrs) > 0 {
		return out, errs
	}

	def, err := model.Coerce(*out.Default, out.Type, out.ElemType)
	if err != nil {
		errs = append(errs, authoring(location, ErrInvalidDefault, "%v", err))

		return out, errs
	}

	for _, rule := range out.Rules {
		if err := rule.Check(def); err != nil {
			errs = append(errs, authoring(location, ErrInvalidDefault, "%v", err))
		}
	}

	out.Default = &def

	return out, errs
}

func prepareType(location string, param ParameterSpec) (ParameterSpec, []error) {
	var errs []error

	if !param.Type.Scalar() && param.Type != model.KindList && param.Type != model.KindSection {
		errs = append(errs, authoring(location, ErrInvalidType, "parameter has no valid type (%s)", param.Type))
	}

	if param.ElemType != model.KindInvalid {
		switch {
		case param.Type != model.KindList:
			errs = append(errs, authoring(location, ErrInvalidType, "element type on a %s parameter", param.Type))
		case !param.ElemType.Scalar():
			errs = append(errs, authoring(location, ErrInvalidType, "list elements must be scalar, got %s", param.ElemType))
		}
	}

	return param, errs
}

func prepareRules(location string, param ParameterSpec) (ParameterSpec, []error) {
	var errs []error

	rules := make([]ValidationRule, 0, len(param.Rules))

	for i, rule := range param.Rules {
		if rule == nil {
			errs = append(errs, authoring(location, ErrMalformedRule, "rule %d is empty", i))

			continue
		}

		prepared, err := rule.prepare(param)
		if err != nil {
			errs = append(errs, authoring(location, ErrMalformedRule, "%v", err))

			continue
		}

		rules = append(rules, prepared)
	}

	param.Rules = rules

	return param, errs
}

// bind resolves dependency and RequiredIf references once every section is known.
func (t *Template) bind() []error {
	var errs []error

	for si := range t.sections {
		section := &t.sections[si]

		if section.RequiredIf != "" {
			if _, ok := t.resolve(section.Name, section.RequiredIf); !ok {
				errs = append(errs, authoring(section.Name, ErrDanglingReference,
					"required_if names unknown parameter %q", section.RequiredIf))
			}
		}

		for pi := range section.Parameters {
			param := &section.Parameters[pi]
			from := Ref{Section: section.Name, Name: param.Name}
			bound := make([]DependencyRule, 0, len(param.Dependencies))

			for _, rule := range param.Dependencies {
				if rule == nil {
					errs = append(errs, authoring(from.String(), ErrMalformedRule, "empty dependency"))

					continue
				}

				to, ok := t.resolve(section.Name, rule.Other())
				if !ok {
					errs = append(errs, authoring(from.String(), ErrDanglingReference,
						"%s names unknown parameter %q", rule.Kind(), rule.Other()))

					continue
				}

				if to == from {
					errs = append(errs, authoring(from.String(), ErrDanglingReference,
						"%s refers to the parameter itself", rule.Kind()))

					continue
				}

				target, _ := t.LookupIn(to.Section, to.Name)

				prepared, err := rule.prepare(target)
				if err != nil {
					errs = append(errs, authoring(from.String(), ErrMalformedRule, "%v", err))

					continue
				}

				bound = append(bound, prepared)
				t.deps = append(t.deps, Dependency{Rule: prepared, From: from, To: to})
			}

			param.Dependencies = bound
		}
	}

	return errs
}

// resolve turns a reference written inside section into a fully-qualified Ref.
// A bare name prefers the same section; otherwise the reference is split at
// its last dot. Only declared parameters can be referenced.
func (t *Template) resolve(section, ref string) (Ref, bool) {
	if ref == "" {
		return Ref{}, false
	}

	if t.declared(section, ref) {
		return Ref{Section: section, Name: ref}, true
	}

	sectionName, name := model.SplitPath(ref)
	if t.declared(sectionName, name) {
		return Ref{Section: sectionName, Name: name}, true
	}

	return Ref{}, false
}

func (t *Template) declared(section, name string) bool {
	pos, ok := t.index[section]
	if !ok {
		return false
	}

	for _, p := range t.sections[pos].Parameters {
		if p.Name == name {
			return true
		}
	}

	return false
}

// Resolve returns the fully-qualified form of a reference written inside section.
func (t *Template) Resolve(section, ref string) (Ref, bool) {
	return t.resolve(section, ref)
}

// Section returns the spec of the named section.
func (t *Template) Section(name string) (SectionSpec, bool) {
	pos, ok := t.index[name]
	if !ok {
		return SectionSpec{}, false
	}

	return t.sections[pos].clone(), true
}

// HasSection reports whether the section is declared.
func (t *Template) HasSection(name string) bool {
	_, ok := t.index[name]

	return ok
}

// Sections returns the section specs in declaration order.
func (t *Template) Sections() []SectionSpec {
	out := make([]SectionSpec, 0, len(t.sections))
	for _, s := range t.sections {
		out = append(out, s.clone())
	}

	return out
}

// Lookup returns the spec for a section.name path. Keys of variable sections
// resolve to the variable spec carrying the key as its name.
func (t *Template) Lookup(path string) (ParameterSpec, bool) {
	section, name := model.SplitPath(path)

	return t.LookupIn(section, name)
}

// LookupIn returns the spec of name inside section.
func (t *Template) LookupIn(section, name string) (ParameterSpec, bool) {
	pos, ok := t.index[section]
	if !ok {
		return ParameterSpec{}, false
	}

	spec := t.sections[pos]
	if p, ok := spec.Parameter(name); ok {
		return p, true
	}

	if spec.Variable == nil {
		return ParameterSpec{}, false
	}

	variable := spec.Variable.clone()
	variable.Name = name

	return variable, true
}

// Parameters iterates over every declared parameter, grouped by section in
// declaration order. Variable specs are not included.
func (t *Template) Parameters() iter.Seq2[SectionSpec, ParameterSpec] {
	return func(yield func(SectionSpec, ParameterSpec) bool) {
		for _, section := range t.sections {
			for _, param := range section.Parameters {
				if !yield(section, param.clone()) {
					return
				}
			}
		}
	}
}

// Dependencies returns every bound dependency in declaration order.
func (t *Template) Dependencies() []Dependency {
	out := make([]Dependency, len(t.deps))
	copy(out, t.deps)

	return out
}

// IsActive reports whether the required-parameter checks and default
// substitution apply to the section for the given tree.
//
// A section present in the tree is always active. An absent section is active
// when its RequiredIf parameter is set, or when it is neither optional nor
// conditional.
func (t *Template) IsActive(section string, tree *model.Tree) bool {
	pos, ok := t.index[section]
	if !ok {
		return false
	}

	if tree != nil && tree.HasSection(section) {
		return true
	}

	spec := t.sections[pos]

	if spec.Conditional() {
		ref, ok := t.resolve(spec.Name, spec.RequiredIf)
		if !ok || tree == nil {
			return false
		}

		return tree.Has(ref.Section, ref.Name)
	}

	return !spec.Optional
}

// String renders a short summary, e.g. for logs.
func (t *Template) String() string {
	params := 0
	for _, s := range t.sections {
		params += len(s.Parameters)
	}

	return fmt.Sprintf("template(%d sections, %d parameters)", len(t.sections), params)
}
