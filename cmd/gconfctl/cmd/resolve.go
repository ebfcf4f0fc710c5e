package cmd

import (
	"github.com/spf13/cobra"
)

func newResolveCommand(opts *globalOptions) *cobra.Command {
	var (
		to    string
		out   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <file>",
		Short: "Write a configuration with defaults filled in",
		Long: `Validates the file like "validate" and writes the resolved configuration:
values converted to their declared types plus every substituted default.
Diagnostics go to stderr.`,
		Example: `  # Print the resolved configuration as YAML
  gconfctl resolve service.cfg -t service.template.yaml --to yaml

  # Write it next to the original
  gconfctl resolve service.cfg -t service.template.yaml --out service.resolved.cfg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := opts.requireTemplate()
			if err != nil {
				return err
			}

			tree, in, err := opts.readTree(args[0])
			if err != nil {
				return err
			}

			result, err := opts.resolveTree(cmd.ErrOrStderr(), tree, tmpl)
			if err != nil {
				return err
			}

			f, err := outputFormat(to, out, in)
			if err != nil {
				return err
			}

			data, err := f.Serialize(result.Tree)
			if err != nil {
				return err
			}

			return writeOutput(cmd, out, data, force)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "output format; default from --out or the input format")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file; default stdout")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing output file")

	return cmd
}
