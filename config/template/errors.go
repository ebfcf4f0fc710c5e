package template

import (
	"errors"
	"fmt"
)

// ErrInvalidTemplate is matched by every template authoring error.
var ErrInvalidTemplate = errors.New("invalid template")

// Authoring error causes.
var (
	ErrDuplicateName     = errors.New("duplicate name")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidType       = errors.New("invalid type")
	ErrInvalidDefault    = errors.New("invalid default")
	ErrMalformedRule     = errors.New("malformed rule")
	ErrDanglingReference = errors.New("dangling reference")
)

// AuthoringError reports one problem found while loading a template.
// A template with problems is rejected as a whole; New joins all of them.
type AuthoringError struct {
	// Location is the section or section.name the problem belongs to.
	Location string
	// Err is one of the authoring error causes.
	Err    error
	Detail string
}

func (e *AuthoringError) Error() string {
	location := e.Location
	if location == "" {
		location = "<root>"
	}

	if e.Detail == "" {
		return fmt.Sprintf("template %s: %v", location, e.Err)
	}

	return fmt.Sprintf("template %s: %v: %s", location, e.Err, e.Detail)
}

// Unwrap returns the cause.
func (e *AuthoringError) Unwrap() error {
	return e.Err
}

// Is makes every AuthoringError match ErrInvalidTemplate.
func (e *AuthoringError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

func authoring(location string, cause error, format string, args ...any) error {
	return &AuthoringError{
		Location: location,
		Err:      cause,
		Detail:   fmt.Sprintf(format, args...),
	}
}
