package cmd

import (
	"github.com/spf13/cobra"

	"github.com/0xalexb/gconfig/config/format/cfg"
	"github.com/0xalexb/gconfig/config/sample"
)

func newSampleCommand(opts *globalOptions) *cobra.Command {
	var (
		to       string
		out      string
		force    bool
		annotate bool
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a sample configuration from a template",
		Long: `Writes a configuration containing every section of the template, each
optional parameter with its default and each required parameter with a
placeholder. With --annotate every entry carries a comment describing its
type, default, rules and dependencies.`,
		Example: `  gconfctl sample -t service.template.yaml --annotate
  gconfctl sample -t service.template.yaml --out service.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tmpl, err := opts.requireTemplate()
			if err != nil {
				return err
			}

			mode := sample.ModeDefaultsOnly
			if annotate {
				mode = sample.ModeAnnotated
			}

			f, err := outputFormat(to, out, cfg.New())
			if err != nil {
				return err
			}

			data, err := f.Serialize(sample.Generate(tmpl, mode))
			if err != nil {
				return err
			}

			opts.logger.Debug("sample generated", "format", f.Name(), "mode", mode.String())

			return writeOutput(cmd, out, data, force)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "output format; default from --out, else cfg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file; default stdout")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing output file")
	cmd.Flags().BoolVar(&annotate, "annotate", false, "describe every entry in comments")

	return cmd
}
