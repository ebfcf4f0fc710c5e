package gconfig

import (
	"io"

	"github.com/0xalexb/gconfig/config"

	"go.uber.org/fx"
)

// Options holds configuration settings for the application.
type Options struct {
	Modules   []fx.Option
	LogLevel  string
	LogFormat string
	// LogOutput receives every log record. NewApp uses os.Stderr when unset.
	LogOutput io.Writer
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithModules adds Fx modules to the application.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}

// WithConfig adds a named configuration module to the application.
// The resolved *model.Tree is provided under the `name:"<name>"` tag; use
// config.Bind with the same name to inject typed sections.
// Call multiple times with different names to load several files.
func WithConfig(name string, opts ...config.Option) Option {
	return func(o *Options) {
		o.Modules = append(o.Modules, config.NewModule(name, opts...))
	}
}

// WithLogLevel sets the log level for the application.
// Valid levels are: "debug", "info", "warn", "error".
// If not set or invalid, defaults to "info".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithLogFormat selects "json" (the default) or "text" log records.
func WithLogFormat(format string) Option {
	return func(opts *Options) {
		opts.LogFormat = format
	}
}

// WithLogOutput sends log records to w instead of os.Stderr.
func WithLogOutput(w io.Writer) Option {
	return func(opts *Options) {
		if w != nil {
			opts.LogOutput = w
		}
	}
}
