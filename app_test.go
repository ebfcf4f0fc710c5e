package gconfig_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xalexb/gconfig"
	"github.com/0xalexb/gconfig/config"
	"github.com/0xalexb/gconfig/config/model"
	"github.com/0xalexb/gconfig/config/template"
	"github.com/0xalexb/gconfig/logging"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestNewApp_WithLogLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		level string
	}{
		{"default level", ""},
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			app := gconfig.NewApp(gconfig.WithLogLevel(tc.level))
			require.NotNil(t, app)
			require.NoError(t, app.Err())
		})
	}
}

func TestNewApp_WithModules(t *testing.T) {
	t.Parallel()

	var invoked bool

	module := fx.Module("test",
		fx.Invoke(func() {
			invoked = true
		}),
	)

	app := gconfig.NewApp(gconfig.WithModules(module))
	require.NotNil(t, app)

	err := app.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Stop() })
	require.True(t, invoked)
}

func TestNewApp_LoggerIsAvailableInFxContainer(t *testing.T) {
	t.Parallel()

	var (
		capturedLogger *slog.Logger
		capturedConfig logging.LoggerConfig
	)

	module := fx.Module("test",
		fx.Invoke(func(logger *slog.Logger, config logging.LoggerConfig) {
			capturedLogger = logger
			capturedConfig = config
		}),
	)

	app := gconfig.NewApp(
		gconfig.WithLogLevel("warn"),
		gconfig.WithLogFormat("text"),
		gconfig.WithModules(module),
	)

	err := app.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Stop() })
	require.NotNil(t, capturedLogger)
	require.Equal(t, logging.LoggerConfig{Level: "warn", Format: "text"}, capturedConfig)
	require.False(t, capturedLogger.Enabled(context.Background(), slog.LevelInfo))
}

func TestNewApp_WithConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "service.toml")
	require.NoError(t, os.WriteFile(path, []byte("[database]\nport = 5432\n"), 0o600))

	var tree *model.Tree

	app := gconfig.NewApp(
		gconfig.WithLogLevel("error"),
		gconfig.WithConfig("service", config.WithFile(path)),
		gconfig.WithModules(fx.Invoke(fx.Annotate(func(resolved *model.Tree) {
			tree = resolved
		}, fx.ParamTags(`name:"service"`)))),
	)

	require.NoError(t, app.Start())
	t.Cleanup(func() { _ = app.Stop() })

	port, ok := tree.Get("database", "port")
	require.True(t, ok)
	require.True(t, port.Equal(model.Int(5432)))
}

func TestNewApp_ConfigLogsThroughAppLogger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "service.cfg")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nhost = api\nstray = 1\n"), 0o600))

	tmpl, err := template.New(template.SectionSpec{
		Name: "server",
		Parameters: []template.ParameterSpec{
			template.Param("host", model.KindString).AsRequired(),
			template.Param("port", model.KindInteger).WithDefault(9000),
		},
	})
	require.NoError(t, err)

	var buf bytes.Buffer

	app := gconfig.NewApp(
		gconfig.WithLogLevel("info"),
		gconfig.WithLogFormat("text"),
		gconfig.WithLogOutput(&buf),
		gconfig.WithConfig("service", config.WithFile(path), config.WithTemplate(tmpl)),
		gconfig.WithModules(fx.Invoke(fx.Annotate(func(*model.Tree) {}, fx.ParamTags(`name:"service"`)))),
	)

	require.NoError(t, app.Err())
	require.Same(t, app.Logger(), app.Logger())

	logs := buf.String()
	require.Contains(t, logs, `msg="defaults applied" count=1`)
	require.Contains(t, logs, `msg="unknown parameter"`)
	require.Contains(t, logs, "location=server.stray")
}

func TestNewApp_WithConfigError(t *testing.T) {
	t.Parallel()

	app := gconfig.NewApp(
		gconfig.WithLogLevel("error"),
		gconfig.WithConfig("service", config.WithFile("/nonexistent/service.cfg")),
		gconfig.WithModules(fx.Invoke(fx.Annotate(func(*model.Tree) {}, fx.ParamTags(`name:"service"`)))),
	)

	require.ErrorIs(t, app.Err(), os.ErrNotExist)
	require.Error(t, app.Start())
}

func TestApp_Stop(t *testing.T) {
	t.Parallel()

	var stopCalled bool

	module := fx.Module("test",
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					stopCalled = true

					return nil
				},
			})
		}),
	)

	app := gconfig.NewApp(gconfig.WithModules(module))
	require.NotNil(t, app)

	err := app.Start()
	require.NoError(t, err)

	err = app.Stop()
	require.NoError(t, err)
	require.True(t, stopCalled, "OnStop hook should be called")
}

func TestApp_NilApp(t *testing.T) {
	t.Parallel()

	var app *gconfig.App

	require.Error(t, app.Start())
	require.Error(t, app.Stop())
	require.Error(t, app.Err())
	require.NotNil(t, app.Logger())
	require.NotPanics(t, func() {
		app.Run()
	})
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	module := fx.Module("test",
		fx.Invoke(func(shutdowner fx.Shutdowner) {
			go func() {
				_ = shutdowner.Shutdown()
			}()
		}),
	)

	app := gconfig.NewApp(gconfig.WithModules(module))
	require.NotNil(t, app)

	require.NotPanics(t, func() {
		app.Run()
	})
}
