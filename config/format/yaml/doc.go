// Package yaml provides the YAML format adapter.
//
// This package uses github.com/goccy/go-yaml with ordered maps, so sections
// and keys keep the order of the document. Top-level mappings become
// sections and other top-level keys belong to the root section.
//
// Usage:
//
//	f := yaml.New(yaml.WithPath("services:reporter"))
//	tree, err := f.Parse(data)
//
// Path Conversion:
//   - Empty path "" -> the whole document
//   - Single key "key" -> "$.key"
//   - Nested path "api:permissions" -> "$.api.permissions"
package yaml
