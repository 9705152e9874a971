package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prepub",
	Short: "Pre-publish verification for npm packages",
	Long: `prepub verifies an npm package is ready to publish.

It checks that the built CLI/server artifact starts and answers --help
and --version, that required build outputs and documentation files
exist, that package.json declares the fields npm needs, and runs
auxiliary checks (pack dry-run, dependency audit, license compliance,
bundle size). The run exits 1 at the first mandatory failure.`,
	// Zero-argument invocation runs the verification pipeline.
	RunE:          runVerify,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("format", "text", "output format (text, json, yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().StringP("dir", "C", ".", "package directory to verify")
	rootCmd.PersistentFlags().String("config", "", "config file (default is <dir>/.prepub.yaml)")
	rootCmd.PersistentFlags().Int("timeout", 0, "per-check timeout in seconds (overrides config)")
}
