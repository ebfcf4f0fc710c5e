package rules

import (
	"github.com/0xalexb/gconfig/config/diag"
	"github.com/0xalexb/gconfig/config/model"
	"github.com/0xalexb/gconfig/config/template"
)

// Engine evaluates configuration trees against a Template.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	tmpl    *template.Template
	options Options
}

// Outcome is the result of a full evaluation.
type Outcome struct {
	Diagnostics diag.List
	// Tree is a copy of the input with every declared parameter converted to
	// its declared type. Parameters that failed conversion keep their parsed
	// value; unknown parameters are carried over untouched.
	Tree *model.Tree
	// Defaulted lists the section.name paths that received a default, in
	// substitution order.
	Defaulted []string
}

// checked is a parameter that passed type conversion.
type checked struct {
	ref   template.Ref
	spec  template.ParameterSpec
	value model.Value
}

// NewEngine creates an Engine for tmpl.
func NewEngine(tmpl *template.Template, opts ...Option) *Engine {
	options := Options{UnknownSeverity: diag.SeverityWarning}

	for _, apply := range opts {
		apply(&options)
	}

	return &Engine{
		tmpl:    tmpl,
		options: options,
	}
}

// Evaluate is a shorthand for NewEngine(tmpl, opts...).Evaluate(tree).
func Evaluate(tree *model.Tree, tmpl *template.Template, opts ...Option) diag.List {
	return NewEngine(tmpl, opts...).Evaluate(tree)
}

// Evaluate returns every diagnostic for tree, in pass order.
func (e *Engine) Evaluate(tree *model.Tree) diag.List {
	return e.Check(tree).Diagnostics
}

// Check substitutes defaults into a copy of tree, then runs every pass to
// completion and never stops at the first problem. Diagnostics are ordered by
// pass: unknown parameters, missing required parameters, type mismatches,
// rule violations, then dependency violations. A nil tree is treated as
// empty. The input tree is never modified.
func (e *Engine) Check(tree *model.Tree) Outcome {
	out := model.NewTree()
	if tree != nil {
		out = tree.Clone()
	}

	defaulted := e.ApplyDefaults(out)
	failed := make(map[template.Ref]struct{})

	var list diag.List

	list = append(list, e.unknownParameters(out)...)
	list = append(list, e.missingRequired(out)...)

	converted, mismatches := e.convert(out, failed)
	list = append(list, mismatches...)
	list = append(list, e.validate(converted)...)
	list = append(list, e.dependencies(out, failed)...)

	return Outcome{
		Diagnostics: list,
		Tree:        out,
		Defaulted:   defaulted,
	}
}

// ApplyDefaults sets the default of every absent parameter of the active
// sections of tree, in place, and returns the paths it set.
//
// Unconditional sections are defaulted first so that a default can activate a
// conditional section. Conditional sections are repeated until no new one
// becomes active.
func (e *Engine) ApplyDefaults(tree *model.Tree) []string {
	var (
		defaulted   []string
		conditional []template.SectionSpec
	)

	for _, section := range e.tmpl.Sections() {
		if section.Conditional() {
			conditional = append(conditional, section)

			continue
		}

		defaulted = append(defaulted, e.fill(tree, section)...)
	}

	for len(conditional) > 0 {
		var pending []template.SectionSpec

		for _, section := range conditional {
			if !e.tmpl.IsActive(section.Name, tree) {
				pending = append(pending, section)

				continue
			}

			defaulted = append(defaulted, e.fill(tree, section)...)
		}

		if len(pending) == len(conditional) {
			break
		}

		conditional = pending
	}

	return defaulted
}

func (e *Engine) fill(tree *model.Tree, section template.SectionSpec) []string {
	if !e.tmpl.IsActive(section.Name, tree) {
		return nil
	}

	var defaulted []string

	for _, param := range section.Parameters {
		if !param.HasDefault() || tree.Has(section.Name, param.Name) {
			continue
		}

		tree.Set(section.Name, param.Name, *param.Default)
		defaulted = append(defaulted, model.Path(section.Name, param.Name))
	}

	return defaulted
}

func (e *Engine) unknownParameters(tree *model.Tree) diag.List {
	var list diag.List

	for _, section := range tree.Sections() {
		name := section.Name()

		if !e.tmpl.HasSection(name) && section.Len() == 0 && name != model.RootSection {
			list = append(list, diag.Diagnostic{
				Severity: e.options.UnknownSeverity,
				Location: name,
				Message:  "unknown section",
				Kind:     diag.KindUnknownParameter,
			})

			continue
		}

		for _, entry := range section.Entries() {
			if _, ok := e.tmpl.LookupIn(name, entry.Name); ok {
				continue
			}

			list = append(list, diag.Diagnostic{
				Severity: e.options.UnknownSeverity,
				Location: model.Path(name, entry.Name),
				Message:  "unknown parameter",
				Kind:     diag.KindUnknownParameter,
			})
		}
	}

	return list
}

func (e *Engine) missingRequired(tree *model.Tree) diag.List {
	var list diag.List

	active := make(map[string]bool)

	for section, param := range e.tmpl.Parameters() {
		if !param.Required {
			continue
		}

		isActive, seen := active[section.Name]
		if !seen {
			isActive = e.tmpl.IsActive(section.Name, tree)
			active[section.Name] = isActive
		}

		if !isActive || tree.Has(section.Name, param.Name) {
			continue
		}

		list = append(list, diag.Diagnostic{
			Severity: diag.SeverityError,
			Location: model.Path(section.Name, param.Name),
			Message:  "missing required parameter",
			Kind:     diag.KindMissingRequired,
		})
	}

	return list
}

// convert coerces every known parameter of out in place, declared parameters
// in template order first, then variable keys in tree order.
func (e *Engine) convert(out *model.Tree, failed map[template.Ref]struct{}) ([]checked, diag.List) {
	var (
		list      diag.List
		converted []checked
	)

	coerce := func(ref template.Ref, spec template.ParameterSpec, raw model.Value) {
		v, err := model.Coerce(raw, spec.Type, spec.ElemType)
		if err != nil {
			failed[ref] = struct{}{}
			list = append(list, diag.Diagnostic{
				Severity: diag.SeverityError,
				Location: ref.String(),
				Message:  err.Error(),
				Kind:     diag.KindTypeMismatch,
			})

			return
		}

		out.Set(ref.Section, ref.Name, v)
		converted = append(converted, checked{ref: ref, spec: spec, value: v})
	}

	for _, spec := range e.tmpl.Sections() {
		section, ok := out.Section(spec.Name)
		if !ok {
			continue
		}

		for _, param := range spec.Parameters {
			if raw, ok := section.Get(param.Name); ok {
				coerce(template.Ref{Section: spec.Name, Name: param.Name}, param, raw)
			}
		}

		if spec.Variable == nil {
			continue
		}

		for _, entry := range section.Entries() {
			if _, declared := spec.Parameter(entry.Name); declared {
				continue
			}

			variable := *spec.Variable
			variable.Name = entry.Name
			coerce(template.Ref{Section: spec.Name, Name: entry.Name}, variable, entry.Value)
		}
	}

	return converted, list
}

func (e *Engine) validate(converted []checked) diag.List {
	var list diag.List

	for _, c := range converted {
		for _, rule := range c.spec.Rules {
			err := rule.Check(c.value)
			if err == nil {
				continue
			}

			d := diag.Diagnostic{
				Severity: diag.SeverityError,
				Location: c.ref.String(),
				Message:  err.Error(),
				Kind:     rule.Kind(),
			}

			if rule.Kind() == diag.KindCustom {
				d.Rule = rule.RuleName()
			}

			list = append(list, d)
		}
	}

	return list
}

// dependencies checks bound dependencies on the final values. A dependency
// touching a parameter that failed conversion is skipped: its value is not
// meaningful.
func (e *Engine) dependencies(out *model.Tree, failed map[template.Ref]struct{}) diag.List {
	var list diag.List

	lookup := func(ref template.Ref) (model.Value, bool) {
		return out.Get(ref.Section, ref.Name)
	}

	for _, dep := range e.tmpl.Dependencies() {
		if _, skip := failed[dep.From]; skip {
			continue
		}

		if _, skip := failed[dep.To]; skip {
			continue
		}

		if err := dep.Check(lookup); err != nil {
			list = append(list, diag.Diagnostic{
				Severity: diag.SeverityError,
				Location: dep.From.String(),
				Message:  err.Error(),
				Kind:     dep.Rule.Kind(),
			})
		}
	}

	return list
}
