package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/0xalexb/gconfig/config/model"
	"github.com/0xalexb/gconfig/config/resolve"
)

// ErrSectionNotFound is returned by Provider when the resolved tree has no such section.
var ErrSectionNotFound = errors.New("section not found")

// Parser turns raw configuration data into a tree. Every format.Format satisfies it.
type Parser interface {
	Parse(data []byte) (*model.Tree, error)
}

// DataFetcher defines an interface for reading configuration data.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// Validator defines an interface for validating configuration structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Load fetches, parses and resolves a configuration. With a nil resolver the
// parsed tree is returned as is. Warnings are logged; errors are returned as
// a *diag.Error.
func Load(fetcher DataFetcher, parser Parser, resolver *resolve.Resolver, logger *slog.Logger) (*model.Tree, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := fetcher.Fetch()
	if err != nil {
		return nil, fmt.Errorf("reading data error: %w", err)
	}

	tree, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}

	if resolver == nil {
		return tree, nil
	}

	result := resolver.Resolve(tree)

	for _, warning := range result.Diagnostics.Warnings() {
		logger.Warn(warning.Message,
			slog.String("kind", string(warning.Kind)),
			slog.String("location", warning.Location))
	}

	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("validating error: %w", err)
	}

	return result.Tree, nil
}

// Provider returns a function that binds one section of a resolved tree to
// target, then applies Defaulter and Validator when target implements them.
// Fields are matched through their yaml struct tags.
func Provider[T any](target *T, section string) func(*model.Tree) (*T, error) {
	return func(tree *model.Tree) (*T, error) {
		s, ok := tree.Section(section)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, section)
		}

		if err := Decode(s, target); err != nil {
			return nil, fmt.Errorf("parsing error: %w", err)
		}

		targetDefaulter, isDefaulter := any(target).(Defaulter)
		if isDefaulter {
			changed := targetDefaulter.SetDefaults()
			if changed {
				slog.Info("defaults applied", slog.String("section", section))
			}
		}

		targetValidatable, isValidatable := any(target).(Validator)
		if isValidatable {
			err := targetValidatable.Validate()
			if err != nil {
				return nil, fmt.Errorf("validating error: %w", err)
			}
		}

		return target, nil
	}
}

// Decode copies the entries of section into target.
func Decode(section *model.Section, target any) error {
	data, err := yaml.Marshal(section.Raw())
	if err != nil {
		return fmt.Errorf("encoding section %q: %w", section.Name(), err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding section %q: %w", section.Name(), err)
	}

	return nil
}
