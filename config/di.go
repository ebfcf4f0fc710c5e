package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"go.uber.org/fx"

	"github.com/0xalexb/gconfig/config/fetcher/file"
	"github.com/0xalexb/gconfig/config/format/builtin"
	"github.com/0xalexb/gconfig/config/model"
	"github.com/0xalexb/gconfig/config/resolve"
	"github.com/0xalexb/gconfig/config/template"
)

// ErrEmptyName is returned when the configuration module name is empty.
var ErrEmptyName = errors.New("config module name must not be empty")

// NewModule creates an Fx module providing a resolved *model.Tree tagged
// `name:"<name>"`. The file is located with WithFile / WithDiscovery, its
// format picked by extension unless WithFormat is given, and, when a template
// is configured, resolved against it. An optional *slog.Logger from the
// container receives warnings.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	return fx.Module(name, fx.Provide(
		fx.Annotate(
			func(logger *slog.Logger) (*model.Tree, error) {
				tree, err := options.load(logger)
				if err != nil {
					return nil, fmt.Errorf("configuration %q: %w", name, err)
				}

				return tree, nil
			},
			fx.ParamTags(`optional:"true"`),
			fx.ResultTags(fmt.Sprintf(`name:"%s"`, name)),
		),
	))
}

// Bind creates an Fx provider binding section of the configuration named
// name into a *T, tagged with the same name. See Provider.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Bind[T any](name, section string) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(tree *model.Tree) (*T, error) {
				return Provider(new(T), section)(tree)
			},
			fx.ParamTags(fmt.Sprintf(`name:"%s"`, name)),
			fx.ResultTags(fmt.Sprintf(`name:"%s"`, name)),
		),
	)
}

func (o Options) load(logger *slog.Logger) (*model.Tree, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fetcher, err := file.Discover(o.Discovery)
	if err != nil {
		return nil, err
	}

	registry, err := builtin.NewRegistry(o.Formats...)
	if err != nil {
		return nil, err
	}

	parser, err := registry.Resolve(o.Format, fetcher.Path())
	if err != nil {
		return nil, err
	}

	tmpl := o.Template
	if tmpl == nil && o.TemplatePath != "" {
		tmpl, err = template.LoadFile(o.TemplatePath)
		if err != nil {
			return nil, err
		}
	}

	var resolver *resolve.Resolver
	if tmpl != nil {
		resolver = resolve.New(tmpl, append(slices.Clone(o.Resolve), resolve.WithLogger(logger))...)
	}

	logger.Debug("loading configuration",
		slog.String("path", fetcher.Path()),
		slog.String("format", parser.Name()))

	return Load(fetcher, parser, resolver, logger)
}
