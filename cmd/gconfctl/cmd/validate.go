package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a configuration file against a template",
		Long: `Parses the file, converts every value to its declared type and runs the
template's rules and dependencies. Every problem is printed, warnings included.
Exits non-zero when at least one error is found.`,
		Example: `  gconfctl validate service.cfg --template service.template.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := opts.requireTemplate()
			if err != nil {
				return err
			}

			tree, _, err := opts.readTree(args[0])
			if err != nil {
				return err
			}

			result, err := opts.resolveTree(cmd.OutOrStdout(), tree, tmpl)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d parameters, %d defaults, %d warnings)\n",
				args[0], result.Tree.Len(), len(result.Defaulted), len(result.Diagnostics.Warnings()))

			return nil
		},
	}
}
