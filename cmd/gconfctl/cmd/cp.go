package cmd

import (
	"github.com/spf13/cobra"
)

func newCpCommand(opts *globalOptions) *cobra.Command {
	var (
		to    string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "cp <source> <dest>",
		Short: "Copy a configuration, converting between formats",
		Long: `Reads source and writes it to dest in the format matching dest's extension
(or --to). With a template the configuration is validated and resolved before
it is written. An existing dest is only replaced with --force.`,
		Example: `  gconfctl cp service.cfg service.yaml
  gconfctl cp service.cfg service.json -t service.template.yaml --force`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, _, err := opts.readTree(args[0])
			if err != nil {
				return err
			}

			tmpl, err := opts.loadTemplate()
			if err != nil {
				return err
			}

			if tmpl != nil {
				result, err := opts.resolveTree(cmd.ErrOrStderr(), tree, tmpl)
				if err != nil {
					return err
				}

				tree = result.Tree
			}

			f, err := outputFormat(to, args[1], nil)
			if err != nil {
				return err
			}

			data, err := f.Serialize(tree)
			if err != nil {
				return err
			}

			opts.logger.Info("configuration copied", "source", args[0], "dest", args[1], "format", f.Name())

			return writeOutput(cmd, args[1], data, force)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "output format; default from dest's extension")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing dest")

	return cmd
}
