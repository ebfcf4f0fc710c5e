package cmd

import (
	"github.com/spf13/cobra"
)

func newLsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <file> [section|section.name]",
		Short: "List configuration content",
		Long: `Prints every parameter of the file as "section.name = value". With a
template the configuration is resolved first, so defaults are listed too.
The optional second argument narrows the listing to one section (and the
sections nested under it) or one parameter.`,
		Args: cobra.RangeArgs(1, 2),
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

			filter := ""
			if len(args) == 2 {
				filter = args[1]
			}

			printTree(cmd.OutOrStdout(), tree, filter)

			return nil
		},
	}
}
