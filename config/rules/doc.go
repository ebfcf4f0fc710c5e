// Package rules checks a configuration tree against a template.
//
// Evaluation first substitutes declared defaults into a copy of the tree, so
// every pass sees the final values. It then runs five passes, always to
// completion:
//  1. unknown parameters (tree order), reported as warnings by default
//  2. missing required parameters of active sections (template order)
//  3. type conversion (template order, then variable keys in tree order)
//  4. per-parameter validation rules, in declaration order
//  5. dependencies between parameters, on the converted values
//
// Parameters that fail conversion are excluded from passes 4 and 5.
package rules
