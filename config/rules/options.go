package rules

import "github.com/0xalexb/gconfig/config/diag"

// Options holds configuration settings for the Engine.
type Options struct {
	UnknownSeverity diag.Severity
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithUnknownSeverity sets the severity reported for parameters the template
// does not declare. Defaults to diag.SeverityWarning.
func WithUnknownSeverity(severity diag.Severity) Option {
	return func(opts *Options) {
		opts.UnknownSeverity = severity
	}
}
