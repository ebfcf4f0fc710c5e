// Package logging builds the log/slog loggers used by gconfig applications
// and the gconfctl CLI: JSON records by default, plain text on request.
package logging
