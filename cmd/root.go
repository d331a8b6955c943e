package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	dryRun     bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "fleetpatch",
	Short: "Organization-wide dependency pin patcher",
	Long: `A CLI tool that walks every repository of an organization, finds a pinned
dependency in the repository's manifest, decides whether the pin qualifies for
an update under a versioning policy, rewrites it, and lands the change —
either by pushing straight to the working branch or by opening a reviewable
pull request.

Built for fleet-scale security patching where a human would otherwise repeat
"clone, grep, edit, diff, commit, push" dozens of times.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: auto-detect)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without making changes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
