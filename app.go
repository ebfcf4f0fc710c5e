package gconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/0xalexb/gconfig/logging"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var errAppNotInitialized = errors.New("app not initialized")

// App is an Fx application whose configuration modules are loaded and
// resolved before any module that depends on them starts.
type App struct {
	app    *fx.App
	logger *slog.Logger
}

// NewApp builds the application. Configuration problems do not panic: they
// are recorded by Fx and reported by Err and Start.
func NewApp(opts ...Option) *App {
	options := Options{LogOutput: os.Stderr}

	for _, apply := range opts {
		apply(&options)
	}

	config := logging.LoggerConfig{Level: options.LogLevel, Format: options.LogFormat}
	logger := logging.NewLogger(config, options.LogOutput)
	slog.SetDefault(logger)

	return &App{
		app: fx.New(
			fx.WithLogger(func() fxevent.Logger {
				return &fxevent.SlogLogger{Logger: logger}
			}),
			fx.Supply(config, logger),
			fx.Options(options.Modules...),
		),
		logger: logger,
	}
}

func (app *App) ready() bool {
	return app != nil && app.app != nil
}

// Logger returns the logger shared with every module, or slog.Default() for
// an uninitialized App.
func (app *App) Logger() *slog.Logger {
	if !app.ready() {
		return slog.Default()
	}

	return app.logger
}

// Err returns the error Fx recorded while building the application, such as
// a configuration that failed to resolve.
func (app *App) Err() error {
	if !app.ready() {
		return errAppNotInitialized
	}

	return app.app.Err()
}

// Start runs the OnStart hooks of every module.
func (app *App) Start() error {
	if !app.ready() {
		return errAppNotInitialized
	}

	if err := app.app.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start app: %w", err)
	}

	return nil
}

// Run starts the application and blocks until an OS signal is received, then shuts down gracefully.
func (app *App) Run() {
	if !app.ready() {
		slog.Error("attempted to run an uninitialized app")

		return
	}

	app.app.Run()
}

// Stop runs the OnStop hooks of every module.
func (app *App) Stop() error {
	if !app.ready() {
		return errAppNotInitialized
	}

	if err := app.app.Stop(context.Background()); err != nil {
		return fmt.Errorf("failed to stop app: %w", err)
	}

	return nil
}
