package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for confport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confport",
		Short: "Export Confluence pages into BookStack",
		Long: `confport recursively exports pages from a Confluence wiki, normalizes
their intra- and inter-document references, inlines images as data URIs,
sanitizes the markup, and writes the result to disk or publishes it to a
BookStack instance.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. Unrecovered errors print one diagnostic
// line and set a non-zero exit status.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
