package template

import (
	"fmt"

	"github.com/0xalexb/gconfig/config/model"

	"go.starlark.net/starlark"
)

// maxPredicateSteps bounds the work a single custom predicate may do.
const maxPredicateSteps = 100_000

// predicateEnv declares the names a predicate may use besides the universe
// builtins. Only the keys matter when compiling.
//nolint:gochecknoglobals // read-only.
var predicateEnv = starlark.StringDict{"value": starlark.None}

// compilePredicate parses expr and resolves every name it uses, so malformed
// predicates and undefined names are rejected when the template is built
// rather than during resolution.
func compilePredicate(name, expr string) error {
	if _, err := starlark.ExprFunc(name, expr, predicateEnv); err != nil {
		return fmt.Errorf("compiling predicate: %w", err)
	}

	return nil
}

// evalPredicate evaluates expr with `value` bound to v. A fresh thread is
// used for every call so templates can be shared between goroutines.
func evalPredicate(name, expr string, v model.Value) (bool, error) {
	thread := &starlark.Thread{
		Name:  "predicate:" + name,
		Print: func(*starlark.Thread, string) {},
	}
	thread.SetMaxExecutionSteps(maxPredicateSteps)

	converted, err := toStarlark(v)
	if err != nil {
		return false, err
	}

	result, err := starlark.Eval(thread, name, expr, starlark.StringDict{"value": converted})
	if err != nil {
		return false, fmt.Errorf("evaluating predicate: %w", err)
	}

	return bool(result.Truth()), nil
}

func toStarlark(v model.Value) (starlark.Value, error) {
	switch v.Kind() {
	case model.KindString:
		s, _ := v.AsString()

		return starlark.String(s), nil
	case model.KindInteger:
		i, _ := v.AsInt()

		return starlark.MakeInt64(i), nil
	case model.KindFloat:
		f, _ := v.AsFloat()

		return starlark.Float(f), nil
	case model.KindBool:
		b, _ := v.AsBool()

		return starlark.Bool(b), nil
	case model.KindList:
		items, _ := v.AsList()
		converted := make([]starlark.Value, 0, len(items))

		for _, item := range items {
			c, err := toStarlark(item)
			if err != nil {
				return nil, err
			}

			converted = append(converted, c)
		}

		return starlark.NewList(converted), nil
	case model.KindSection:
		section, _ := v.AsSection()
		dict := starlark.NewDict(section.Len())

		for _, entry := range section.Entries() {
			c, err := toStarlark(entry.Value)
			if err != nil {
				return nil, err
			}

			if err := dict.SetKey(starlark.String(entry.Name), c); err != nil {
				return nil, fmt.Errorf("converting key %q: %w", entry.Name, err)
			}
		}

		return dict, nil
	case model.KindInvalid:
		return starlark.None, nil
	}

	return nil, fmt.Errorf("cannot convert %s value", v.Kind())
}
