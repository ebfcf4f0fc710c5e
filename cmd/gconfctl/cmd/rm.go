package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

func newRmCommand(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <file>",
		Short: "Remove a configuration file",
		Long: `Removes a configuration file. Without --force the file must exist and parse
in a known format, so rm never deletes a file it does not recognise. With
--force the file is removed as is and a missing file is not an error.`,
		Example: `  gconfctl rm old-service.cfg
  gconfctl rm notes.txt --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if !force {
				if _, _, err := opts.readTree(path); err != nil {
					return fmt.Errorf("refusing to remove %s: %w", path, err)
				}
			}

			err := os.Remove(path)
			switch {
			case err == nil:
			case force && errors.Is(err, fs.ErrNotExist):
				return nil
			default:
				return fmt.Errorf("removing configuration: %w", err)
			}

			opts.logger.Info("configuration removed", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "remove without checking the file, ignore a missing file")

	return cmd
}
