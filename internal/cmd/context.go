package cmd

import (
	"github.com/spf13/cobra"
)

// CommandContext holds the command-line flags shared by all commands,
// extracted once per invocation instead of living in globals.
type CommandContext struct {
	// Output control
	Verbose bool
	Quiet   bool
	Format  string
	NoColor bool

	// Run configuration
	Dir            string
	ConfigFile     string
	TimeoutSeconds int
}

// NewCommandContext extracts command context from cobra.Command flags.
// Commands should call this in their RunE function to get their configuration.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return nil, err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}

	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	timeoutSeconds, err := cmd.Flags().GetInt("timeout")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Verbose:        verbose,
		Quiet:          quiet,
		Format:         format,
		NoColor:        noColor,
		Dir:            dir,
		ConfigFile:     configFile,
		TimeoutSeconds: timeoutSeconds,
	}, nil
}
