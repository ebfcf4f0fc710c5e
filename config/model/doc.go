// Package model provides the in-memory configuration model shared by every
// other package: a tagged Value union and the two-level ordered Tree.
//
// A parsed configuration file and the output of resolution are both Trees:
//
//	tree := model.NewTree()
//	tree.Set("database", "db_server", model.String("db1.example.com"))
//	tree.Set("database", "log_days_to_keep", model.Int(30))
//
// # Values
//
// A Value carries exactly one of string, integer, float, boolean, list of
// Values or nested Section. Its kind is fixed at construction; conversions go
// through Coerce, which is total and deterministic:
//
//	v, err := model.Coerce(model.String("YES"), model.KindBool, model.KindInvalid)
//	// v == model.Bool(true)
//
// Booleans accept yes/no/true/false in any case and nothing else.
//
// # Ordering
//
// Sections and the entries inside them keep insertion order so that format
// adapters can write a file back in the order it was read. Overwriting an
// existing key keeps its original position.
//
// # Annotations
//
// Sections and entries carry an optional comment. Comments are auxiliary
// metadata for format adapters (rendered as comments or dropped); they never
// take part in equality.
package model
