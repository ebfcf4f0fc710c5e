// Package diag defines the diagnostics produced when a configuration tree is
// checked against a template.
//
// Diagnostics are plain values: they are created fresh for every evaluation
// and never modified afterwards. A List is ordered; the order is part of the
// contract so that the same input always yields the same report.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is matched by the error returned from List.Err.
var ErrInvalidConfig = errors.New("invalid configuration")

// Severity of a diagnostic.
type Severity uint8

// Severities. The zero value is a warning.
const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}

	return "warning"
}

// ParseSeverity parses "warning"/"warn" or "error".
func ParseSeverity(text string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityWarning, fmt.Errorf("unknown severity %q", text)
	}
}

// Kind names the check that produced a diagnostic.
type Kind string

// Diagnostic kinds.
const (
	KindUnknownParameter Kind = "unknown-parameter"
	KindMissingRequired  Kind = "missing-required-parameter"
	KindTypeMismatch     Kind = "type-mismatch"
	KindRange            Kind = "range"
	KindPattern          Kind = "pattern"
	KindOneOf            Kind = "one-of"
	KindCustom           Kind = "custom"
	KindRequires         Kind = "requires"
	KindConflictsWith    Kind = "conflicts-with"
	KindRequiresValue    Kind = "requires-value"
)

// Category groups kinds into the error taxonomy.
type Category string

// Categories.
const (
	CategoryUnknownParameter   Category = "UnknownParameter"
	CategoryMissingRequired    Category = "MissingRequiredParameter"
	CategoryTypeMismatch       Category = "TypeMismatch"
	CategoryValidationRule     Category = "ValidationRuleViolation"
	CategoryDependency         Category = "DependencyViolation"
	CategoryUncategorizedCheck Category = "Unknown"
)

// Category returns the taxonomy group of k.
func (k Kind) Category() Category {
	switch k {
	case KindUnknownParameter:
		return CategoryUnknownParameter
	case KindMissingRequired:
		return CategoryMissingRequired
	case KindTypeMismatch:
		return CategoryTypeMismatch
	case KindRange, KindPattern, KindOneOf, KindCustom:
		return CategoryValidationRule
	case KindRequires, KindConflictsWith, KindRequiresValue:
		return CategoryDependency
	default:
		return CategoryUncategorizedCheck
	}
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	// Location is section.name, or just the section for section-level problems.
	Location string `json:"location"`
	Message  string `json:"message"`
	Kind     Kind   `json:"kind"`
	// Rule is the declared name of a custom rule, empty otherwise.
	Rule string `json:"rule,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Location == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}

	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Location, d.Message)
}

// List is an ordered sequence of diagnostics.
type List []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Errors returns the error diagnostics in order.
func (l List) Errors() List {
	return l.filter(SeverityError)
}

// Warnings returns the warning diagnostics in order.
func (l List) Warnings() List {
	return l.filter(SeverityWarning)
}

// ByKind returns the diagnostics of one kind in order.
func (l List) ByKind(kind Kind) List {
	var out List

	for _, d := range l {
		if d.Kind == kind {
			out = append(out, d)
		}
	}

	return out
}

func (l List) filter(severity Severity) List {
	var out List

	for _, d := range l {
		if d.Severity == severity {
			out = append(out, d)
		}
	}

	return out
}

func (l List) String() string {
	lines := make([]string, 0, len(l))
	for _, d := range l {
		lines = append(lines, d.String())
	}

	return strings.Join(lines, "\n")
}

// Err returns an *Error carrying the whole list when it contains at least one
// error, nil otherwise.
func (l List) Err() error {
	if !l.HasErrors() {
		return nil
	}

	return &Error{Diagnostics: l}
}

// Error wraps a failing diagnostic list.
type Error struct {
	Diagnostics List
}

func (e *Error) Error() string {
	errs := e.Diagnostics.Errors()
	lines := make([]string, 0, len(errs))

	for _, d := range errs {
		lines = append(lines, strings.TrimPrefix(d.String(), "error: "))
	}

	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(lines, "\n  - "))
}

// Is makes errors.Is(err, ErrInvalidConfig) succeed.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidConfig
}
