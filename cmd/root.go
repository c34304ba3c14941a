// Package cmd wires up the CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "prwatch",
		Short: "Review-status tracker for open pull requests",
		Long: `A CLI tool that fetches open pull requests across your watched
repositories and classifies each one by your reviewing obligation:
pending, re-review, stagnant, or reviewed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add list flags to root command so `prwatch` and `prwatch list` work identically
	addListFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdList(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit())

	return rootCmd
}
