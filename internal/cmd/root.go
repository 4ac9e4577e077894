package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for dircomp.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dircomp",
		Short: "Compare two directory trees, office documents and PDFs included",
		Long: `Dircomp compares two directory trees and reports, per file, whether it
was added, removed, renamed, modified, renamed-and-modified, or left
unchanged, with a content hunk attached to every changed entry.

Binary document formats (Word, Excel, PowerPoint, PDF) are compared by
their extracted text, so content changes inside them show up as readable
hunks.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text.
		SilenceUsage: true,
	}

	cmd.AddCommand(NewCompareCommand())
	cmd.AddCommand(NewTextconvCommand())

	return cmd
}
