package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xalexb/gconfig"
	"github.com/0xalexb/gconfig/logging"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	logLevel     string
	format       string
	templatePath string
	logger       *slog.Logger
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		return err
	}

	return nil
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "gconfctl",
		Short: "Validate, resolve and convert configuration files",
		Long: `gconfctl checks configuration files against a template, fills in defaults,
generates sample files and converts between the cfg, yaml, json, toml and hcl formats.

Templates are YAML documents declaring sections, typed parameters, defaults,
validation rules and cross-parameter dependencies.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.logger = newLogger(opts.logLevel, cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "", "input format (cfg, yaml, json, toml, hcl); default from file extension")
	rootCmd.PersistentFlags().StringVarP(&opts.templatePath, "template", "t", "", "path to the YAML template description")

	rootCmd.AddCommand(
		newValidateCommand(opts),
		newResolveCommand(opts),
		newSampleCommand(opts),
		newLsCommand(opts),
		newCpCommand(opts),
		newRmCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gconfctl %s\n", gconfig.Version)
			fmt.Fprintf(out, "  commit:  %s\n", gconfig.Commit)
			fmt.Fprintf(out, "  built:   %s\n", gconfig.CompiledAt)
		},
	}
}

func newLogger(level string, w io.Writer) *slog.Logger {
	return logging.NewLogger(logging.LoggerConfig{Level: level, Format: logging.FormatText}, w)
}
