// Package template provides the parameter registry that configurations are
// checked against.
//
// A Template declares, per section, the parameters a configuration may
// contain: their type, whether they are required, an optional default value,
// per-parameter validation rules and dependencies between parameters.
//
//	tmpl, err := template.New(
//	    template.SectionSpec{
//	        Name: "database",
//	        Parameters: []template.ParameterSpec{
//	            template.Param("db_server", model.KindString).AsRequired(),
//	            template.Param("log_days_to_keep", model.KindInteger).
//	                WithDefault(30).
//	                WithRules(template.Range{Min: 1, Max: 365}),
//	        },
//	    },
//	)
//
// Templates can also be described in YAML and loaded with LoadYAML or LoadFile;
// a section entry with a `names` list declares a section set.
//
// # Authoring errors
//
// New rejects a template as a whole when any declaration is inconsistent:
// duplicate names, invalid types, defaults on required parameters, defaults
// that fail their own rules, malformed rules and references to parameters
// that do not exist. All problems are reported together; every one of them
// matches ErrInvalidTemplate.
//
// # Sections
//
// A section is active when it is present in the configuration, or when it is
// neither Optional nor conditional, or when the parameter named by RequiredIf
// is set. Required checks and default substitution only apply to active
// sections. A section with a Variable spec accepts any key and checks each one
// against that spec.
//
// A section set applies one spec to a list of section names. Each name becomes
// a section of its own with the usual presence, default and dependency rules;
// bare references inside the spec point at the member's own parameters:
//
//	template.SectionSpec{
//	    Name:     "replica",
//	    Names:    []string{"replica1", "replica2"},
//	    Optional: true,
//	    Parameters: []template.ParameterSpec{
//	        template.Param("host", model.KindString).AsRequired(),
//	    },
//	}
//
// # Custom rules
//
// Custom rules are Starlark expressions evaluated with the parameter value
// bound to `value`; the rule holds when the result is truthy:
//
//	template.Predicate("even", "value % 2 == 0")
//
// Rules written in Go use CustomFunc instead.
package template
