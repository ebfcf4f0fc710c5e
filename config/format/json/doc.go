// Package json provides the JSON format adapter. Input may contain comments
// and trailing commas (handled by github.com/tidwall/jsonc); member order is
// preserved in both directions.
package json
