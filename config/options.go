package config

import (
	"github.com/0xalexb/gconfig/config/diag"
	"github.com/0xalexb/gconfig/config/fetcher/file"
	"github.com/0xalexb/gconfig/config/format"
	"github.com/0xalexb/gconfig/config/resolve"
	"github.com/0xalexb/gconfig/config/template"
)

// Options holds the settings of a configuration module.
type Options struct {
	Discovery    file.Discovery
	Template     *template.Template
	TemplatePath string
	Formats      []format.Format
	Format       string
	Resolve      []resolve.Option
}

// Option defines a function type for configuring a configuration module.
type Option func(*Options)

// WithFile reads the configuration from path.
func WithFile(path string) Option {
	return func(opts *Options) {
		opts.Discovery.Path = path
	}
}

// WithDiscovery looks for the configuration file in the path named by envVar,
// then in defaults. An explicit WithFile path is still tried first.
func WithDiscovery(envVar string, defaults ...string) Option {
	return func(opts *Options) {
		opts.Discovery.EnvVar = envVar
		opts.Discovery.Defaults = append(opts.Discovery.Defaults, defaults...)
	}
}

// WithTemplate resolves the configuration against tmpl.
func WithTemplate(tmpl *template.Template) Option {
	return func(opts *Options) {
		opts.Template = tmpl
	}
}

// WithTemplateFile resolves the configuration against the YAML template
// description at path. WithTemplate takes precedence.
func WithTemplateFile(path string) Option {
	return func(opts *Options) {
		opts.TemplatePath = path
	}
}

// WithFormats registers extra format adapters next to the builtin ones.
func WithFormats(formats ...format.Format) Option {
	return func(opts *Options) {
		opts.Formats = append(opts.Formats, formats...)
	}
}

// WithFormat forces the format by name instead of picking it by file extension.
func WithFormat(name string) Option {
	return func(opts *Options) {
		opts.Format = name
	}
}

// WithUnknownSeverity sets the severity of parameters the template does not declare.
func WithUnknownSeverity(severity diag.Severity) Option {
	return func(opts *Options) {
		opts.Resolve = append(opts.Resolve, resolve.WithUnknownSeverity(severity))
	}
}
