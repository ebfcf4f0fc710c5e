// Package resolve merges a parsed configuration tree with a template.
//
// Resolution copies the input, substitutes declared defaults for absent
// optional parameters of active sections, converts every value to its declared
// type and runs the rule engine. On success the Result carries the resolved
// tree; otherwise it carries the full, ordered list of diagnostics.
//
//	result := resolve.Resolve(parsed, tmpl)
//	if err := result.Err(); err != nil {
//	    return err
//	}
//	days, _ := result.Tree.Get("database", "log_days_to_keep")
//
// Resolution is deterministic and idempotent: resolving a resolved tree
// returns an equal tree with the same diagnostics.
package resolve
