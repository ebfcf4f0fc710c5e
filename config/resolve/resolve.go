package resolve

import (
	"log/slog"

	"github.com/0xalexb/gconfig/config/diag"
	"github.com/0xalexb/gconfig/config/model"
	"github.com/0xalexb/gconfig/config/rules"
	"github.com/0xalexb/gconfig/config/template"
)

// Options holds configuration settings for the Resolver.
type Options struct {
	UnknownSeverity diag.Severity
	Logger          *slog.Logger
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithUnknownSeverity sets the severity of unknown-parameter diagnostics.
func WithUnknownSeverity(severity diag.Severity) Option {
	return func(opts *Options) {
		opts.UnknownSeverity = severity
	}
}

// WithLogger sets the logger that substituted defaults are reported to.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// Result is the outcome of a resolution.
type Result struct {
	// Tree is the resolved configuration: parsed values converted to their
	// declared types plus substituted defaults. Nil when Diagnostics has errors.
	Tree *model.Tree
	// Diagnostics holds every problem found, warnings included.
	Diagnostics diag.List
	// Defaulted lists the section.name paths that received a default, in
	// substitution order.
	Defaulted []string
}

// OK reports whether resolution succeeded.
func (r Result) OK() bool {
	return !r.Diagnostics.HasErrors()
}

// Err returns a *diag.Error when resolution failed, nil otherwise.
func (r Result) Err() error {
	return r.Diagnostics.Err()
}

// Resolver merges parsed configurations with a Template.
// It is safe for concurrent use.
type Resolver struct {
	engine *rules.Engine
	logger *slog.Logger
}

// New creates a Resolver for tmpl.
func New(tmpl *template.Template, opts ...Option) *Resolver {
	options := Options{UnknownSeverity: diag.SeverityWarning}

	for _, apply := range opts {
		apply(&options)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		engine: rules.NewEngine(tmpl, rules.WithUnknownSeverity(options.UnknownSeverity)),
		logger: logger,
	}
}

// Resolve is a shorthand for New(tmpl, opts...).Resolve(tree).
func Resolve(tree *model.Tree, tmpl *template.Template, opts ...Option) Result {
	return New(tmpl, opts...).Resolve(tree)
}

// Resolve fills in defaults for absent optional parameters of active sections,
// then evaluates the result. The input tree is never modified.
func (r *Resolver) Resolve(tree *model.Tree) Result {
	outcome := r.engine.Check(tree)
	result := Result{
		Diagnostics: outcome.Diagnostics,
		Defaulted:   outcome.Defaulted,
	}

	for _, path := range outcome.Defaulted {
		v, _ := outcome.Tree.Get(model.SplitPath(path))

		r.logger.Debug("default applied",
			slog.String("parameter", path),
			slog.String("value", v.String()),
		)
	}

	if len(outcome.Defaulted) > 0 {
		r.logger.Info("defaults applied", slog.Int("count", len(outcome.Defaulted)))
	}

	if outcome.Diagnostics.HasErrors() {
		r.logger.Debug("configuration rejected", slog.Int("errors", len(outcome.Diagnostics.Errors())))

		return result
	}

	result.Tree = outcome.Tree

	return result
}
