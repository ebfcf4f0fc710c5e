// Package sample generates example configuration trees from a template.
//
// In ModeDefaultsOnly every optional parameter carries its declared default
// and every required parameter a type-appropriate placeholder (see
// Placeholder). ModeAnnotated produces the same values and attaches comments
// describing each section and parameter; format adapters render them as
// comments or drop them.
package sample
