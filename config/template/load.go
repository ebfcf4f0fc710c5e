package template

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/0xalexb/gconfig/config/fetcher/file"
	"github.com/0xalexb/gconfig/config/model"
)

// fileTemplate is the YAML template description format:
//
//	sections:
//	  - name: server
//	    parameters:
//	      - name: host
//	        type: string
//	        required: true
//	      - name: port
//	        type: integer
//	        default: 8080
//	        rules:
//	          - range: {min: 1, max: 65535}
//	        requires: [host]
type fileTemplate struct {
	Sections []fileSection `yaml:"sections" validate:"dive"`
}

type fileSection struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Optional    bool            `yaml:"optional"`
	RequiredIf  string          `yaml:"required_if"`
	Parameters  []fileParameter `yaml:"parameters" validate:"dive"`
	Variable    *fileVariable   `yaml:"variable"`
	Names       []string        `yaml:"names" validate:"dive,required"`
}

type fileParameter struct {
	Name          string              `yaml:"name" validate:"required"`
	Type          string              `yaml:"type" validate:"required,oneof=string str integer int float bool boolean list section"`
	Elem          string              `yaml:"elem" validate:"omitempty,oneof=string str integer int float bool boolean"`
	Required      bool                `yaml:"required"`
	Default       any                 `yaml:"default"`
	Description   string              `yaml:"description"`
	Rules         []fileRule          `yaml:"rules" validate:"dive"`
	Requires      []string            `yaml:"requires" validate:"dive,required"`
	ConflictsWith []string            `yaml:"conflicts_with" validate:"dive,required"`
	RequiresValue []fileRequiresValue `yaml:"requires_value" validate:"dive"`
}

type fileVariable struct {
	Type        string     `yaml:"type" validate:"required,oneof=string str integer int float bool boolean list section"`
	Elem        string     `yaml:"elem" validate:"omitempty,oneof=string str integer int float bool boolean"`
	Description string     `yaml:"description"`
	Rules       []fileRule `yaml:"rules" validate:"dive"`
}

type fileRule struct {
	Range   *fileRange  `yaml:"range"`
	Pattern string      `yaml:"pattern"`
	OneOf   []any       `yaml:"one_of"`
	Custom  *fileCustom `yaml:"custom"`
}

type fileRange struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

type fileCustom struct {
	Name string `yaml:"name" validate:"required"`
	Expr string `yaml:"expr" validate:"required"`
}

type fileRequiresValue struct {
	Param string `yaml:"param" validate:"required"`
	Value any    `yaml:"value"`
}

// LoadYAML builds a Template from a YAML template description.
func LoadYAML(data []byte) (*Template, error) {
	var doc fileTemplate

	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: decoding template: %w", ErrInvalidTemplate, err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}

	sections := make([]SectionSpec, 0, len(doc.Sections))

	var errs []error

	for _, fs := range doc.Sections {
		section, sectionErrs := fs.spec()
		errs = append(errs, sectionErrs...)
		sections = append(sections, section)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return New(sections...)
}

// LoadFile reads and builds a Template from a YAML template description file.
func LoadFile(path string) (*Template, error) {
	fetcher, err := file.NewFetcher(path)()
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}

	data, err := fetcher.Fetch()
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}

	return LoadYAML(data)
}

func (fs fileSection) spec() (SectionSpec, []error) {
	section := SectionSpec{
		Name:        fs.Name,
		Description: fs.Description,
		Optional:    fs.Optional,
		RequiredIf:  fs.RequiredIf,
		Parameters:  make([]ParameterSpec, 0, len(fs.Parameters)),
		Names:       fs.Names,
	}

	var errs []error

	for _, fp := range fs.Parameters {
		param, paramErrs := fp.spec(model.Path(fs.Name, fp.Name))
		errs = append(errs, paramErrs...)
		section.Parameters = append(section.Parameters, param)
	}

	if fs.Variable != nil {
		location := model.Path(fs.Name, "*")

		kind, elem, typeErrs := parseTypes(location, fs.Variable.Type, fs.Variable.Elem)
		errs = append(errs, typeErrs...)

		rules, ruleErrs := parseRules(location, fs.Variable.Rules)
		errs = append(errs, ruleErrs...)

		section.Variable = &ParameterSpec{
			Type:        kind,
			ElemType:    elem,
			Description: fs.Variable.Description,
			Rules:       rules,
		}
	}

	return section, errs
}

func (fp fileParameter) spec(location string) (ParameterSpec, []error) {
	kind, elem, errs := parseTypes(location, fp.Type, fp.Elem)

	rules, ruleErrs := parseRules(location, fp.Rules)
	errs = append(errs, ruleErrs...)

	param := ParameterSpec{
		Name:        fp.Name,
		Type:        kind,
		ElemType:    elem,
		Required:    fp.Required,
		Description: fp.Description,
		Rules:       rules,
	}

	if fp.Default != nil {
		def, err := model.FromAny(fp.Default)
		if err != nil {
			errs = append(errs, authoring(location, ErrInvalidDefault, "%v", err))
		} else {
			param.Default = &def
		}
	}

	for _, other := range fp.Requires {
		param.Dependencies = append(param.Dependencies, Requires{Param: other})
	}

	for _, other := range fp.ConflictsWith {
		param.Dependencies = append(param.Dependencies, ConflictsWith{Param: other})
	}

	for _, rv := range fp.RequiresValue {
		var expected model.Value

		if rv.Value != nil {
			v, err := model.FromAny(rv.Value)
			if err != nil {
				errs = append(errs, authoring(location, ErrMalformedRule, "requires_value on %s: %v", rv.Param, err))

				continue
			}

			expected = v
		}

		param.Dependencies = append(param.Dependencies, RequiresValue{Param: rv.Param, Value: expected})
	}

	return param, errs
}

func parseTypes(location, typeName, elemName string) (model.Kind, model.Kind, []error) {
	var errs []error

	kind, err := model.ParseKind(typeName)
	if err != nil {
		errs = append(errs, authoring(location, ErrInvalidType, "%v", err))
	}

	var elem model.Kind

	if elemName != "" {
		elem, err = model.ParseKind(elemName)
		if err != nil {
			errs = append(errs, authoring(location, ErrInvalidType, "%v", err))
		}
	}

	return kind, elem, errs
}

func parseRules(location string, fileRules []fileRule) ([]ValidationRule, []error) {
	rules := make([]ValidationRule, 0, len(fileRules))

	var errs []error

	for i, fr := range fileRules {
		rule, err := fr.rule()
		if err != nil {
			errs = append(errs, authoring(location, ErrMalformedRule, "rule %d: %v", i, err))

			continue
		}

		rules = append(rules, rule)
	}

	return rules, errs
}

func (fr fileRule) rule() (ValidationRule, error) {
	var (
		rule  ValidationRule
		count int
	)

	if fr.Range != nil {
		count++

		r := Range{Min: math.Inf(-1), Max: math.Inf(1)}
		if fr.Range.Min != nil {
			r.Min = *fr.Range.Min
		}

		if fr.Range.Max != nil {
			r.Max = *fr.Range.Max
		}

		if fr.Range.Min == nil && fr.Range.Max == nil {
			return nil, errors.New("range needs min or max")
		}

		rule = r
	}

	if fr.Pattern != "" {
		count++
		rule = Matches(fr.Pattern)
	}

	if fr.OneOf != nil {
		count++
		rule = AnyOf(fr.OneOf...)
	}

	if fr.Custom != nil {
		count++
		rule = Predicate(fr.Custom.Name, fr.Custom.Expr)
	}

	if count != 1 {
		return nil, fmt.Errorf("exactly one of range, pattern, one_of, custom must be set, got %d", count)
	}

	return rule, nil
}
