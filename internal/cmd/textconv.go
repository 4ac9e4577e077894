package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/dircomp/internal/extract"
)

// NewTextconvCommand creates the hidden textconv command. It is the content
// hook the git engine installs for binary document formats: git runs
// `dircomp textconv <file>` per file and diffs whatever lands on stdout.
// Extraction failures print nothing rather than failing, so one unparseable
// file never aborts the surrounding comparison.
func NewTextconvCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "textconv <file>",
		Short:  "Print the best-effort textual content of one file",
		Args:   cobra.ExactArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := extract.NewRegistry(nil)

			text, err := registry.Text(args[0])
			if err != nil {
				return fmt.Errorf("textconv failed: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
