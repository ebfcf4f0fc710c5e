package sample

import (
	"fmt"
	"strings"

	"github.com/0xalexb/gconfig/config/model"
	"github.com/0xalexb/gconfig/config/template"
)

// RequiredPlaceholder is written for required string parameters.
const RequiredPlaceholder = "<required>"

// Mode selects what a generated sample contains.
type Mode uint8

const (
	// ModeDefaultsOnly emits defaults for optional parameters and placeholders
	// for required ones.
	ModeDefaultsOnly Mode = iota
	// ModeAnnotated additionally attaches a comment to every section and entry.
	ModeAnnotated
)

func (m Mode) String() string {
	switch m {
	case ModeDefaultsOnly:
		return "defaults"
	case ModeAnnotated:
		return "annotated"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Generator produces sample configurations from a Template.
type Generator struct {
	tmpl *template.Template
}

// New creates a Generator for tmpl.
func New(tmpl *template.Template) *Generator {
	return &Generator{tmpl: tmpl}
}

// Generate is a shorthand for New(tmpl).Generate(mode).
func Generate(tmpl *template.Template, mode Mode) *model.Tree {
	return New(tmpl).Generate(mode)
}

// Placeholder returns the sentinel written for a required parameter of the
// given kind.
func Placeholder(kind model.Kind) model.Value {
	switch kind {
	case model.KindInteger:
		return model.Int(0)
	case model.KindFloat:
		return model.Float(0)
	case model.KindBool:
		return model.Bool(false)
	case model.KindList:
		return model.List()
	case model.KindSection:
		return model.Nested(model.NewSection(""))
	case model.KindString, model.KindInvalid:
		return model.String(RequiredPlaceholder)
	}

	return model.String(RequiredPlaceholder)
}

// Generate builds a sample tree with every section of the template in
// declaration order. Optional parameters without a default are left out.
func (g *Generator) Generate(mode Mode) *model.Tree {
	tree := model.NewTree()

	for _, spec := range g.tmpl.Sections() {
		section := tree.EnsureSection(spec.Name)

		var omitted []string

		for _, param := range spec.Parameters {
			var value model.Value

			switch {
			case param.Required:
				value = Placeholder(param.Type)
			case param.HasDefault():
				value = *param.Default
			default:
				omitted = append(omitted, param.Name)

				continue
			}

			section.Set(param.Name, value)

			if mode == ModeAnnotated {
				section.SetComment(param.Name, parameterComment(param))
			}
		}

		if mode == ModeAnnotated {
			section.Comment = g.sectionComment(spec, omitted)
		}
	}

	return tree
}

func parameterComment(param template.ParameterSpec) string {
	var lines []string

	if param.Description != "" {
		lines = append(lines, param.Description)
	}

	lines = append(lines, "type: "+typeName(param))

	switch {
	case param.Required:
		lines = append(lines, "required: must be filled in")
	case param.HasDefault():
		lines = append(lines, "default: "+param.Default.String())
	}

	for _, rule := range param.Rules {
		lines = append(lines, rule.Describe())
	}

	for _, dep := range param.Dependencies {
		lines = append(lines, dep.Describe())
	}

	return strings.Join(lines, "\n")
}

func (g *Generator) sectionComment(spec template.SectionSpec, omitted []string) string {
	var lines []string

	if spec.Description != "" {
		lines = append(lines, spec.Description)
	}

	if spec.Set != "" {
		lines = append(lines, "one of the "+spec.Set+" sections")
	}

	switch {
	case spec.Conditional():
		lines = append(lines, fmt.Sprintf("required only if %s is set", spec.RequiredIf))
	case spec.Optional:
		lines = append(lines, "optional section")
	}

	if spec.Variable != nil {
		variable := "accepts any key of type " + typeName(*spec.Variable)

		rules := make([]string, 0, len(spec.Variable.Rules))
		for _, rule := range spec.Variable.Rules {
			rules = append(rules, rule.Describe())
		}

		if len(rules) > 0 {
			variable += " (" + strings.Join(rules, "; ") + ")"
		}

		if spec.Variable.Description != "" {
			variable += ": " + spec.Variable.Description
		}

		lines = append(lines, variable)
	}

	if len(omitted) > 0 {
		lines = append(lines, "optional parameters without default: "+strings.Join(omitted, ", "))
	}

	return strings.Join(lines, "\n")
}

func typeName(param template.ParameterSpec) string {
	if param.Type == model.KindList && param.ElemType != model.KindInvalid {
		return "list of " + param.ElemType.String()
	}

	return param.Type.String()
}
