package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/prepub/internal/check"
	"github.com/felixgeelhaar/prepub/internal/config"
	"github.com/felixgeelhaar/prepub/internal/log"
	"github.com/felixgeelhaar/prepub/internal/report"
	"github.com/felixgeelhaar/prepub/internal/ux"
	"github.com/felixgeelhaar/prepub/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run all pre-publish checks",
	Long: `Run the full pre-publish verification pipeline against the package
in the current (or --dir) directory.

Checks run strictly in order:
  1. build-output         required build files exist
  2. manifest             package.json has name, version, bin, main
  3. docs                 LICENSE and README.md exist
  4. cli-version          entrypoint answers --version
  5. cli-help             entrypoint answers --help
  6. server-start         entrypoint starts without crashing
  7. framework-mode       startup with the framework env var injected
  8. pack-dry-run         npm pack --dry-run succeeds (mandatory)
  9. audit                npm audit (advisory)
 10. license-compliance   license-checker summary (advisory)
 11. bundle-size          main artifact within the size limit

Examples:
  # Verify the package in the current directory
  prepub verify

  # Machine-readable report for CI
  prepub verify --format json
`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	logger := newLogger(cmdCtx)
	log.SetDefaultLogger(logger)

	cfg, err := loadConfig(cmdCtx)
	if err != nil {
		return err
	}

	// Structured formats render the report at the end; the per-check
	// status lines only belong to text output.
	var statusOut io.Writer = os.Stdout
	if cmdCtx.Format != "text" && cmdCtx.Format != "" {
		statusOut = io.Discard
	}

	reporter := check.NewReporter(statusOut, cmdCtx.NoColor)
	pipeline := verify.New(cmdCtx.Dir, cfg, logger)

	fmt.Fprintf(statusOut, "Verifying package in %s\n\n", cmdCtx.Dir)
	results := pipeline.Run(cmd.Context(), reporter)

	rep := newReport(pipeline, results)
	if path, werr := rep.Write(filepath.Join(cmdCtx.Dir, cfg.ReportDir)); werr != nil {
		logger.WithError(werr).Warn("could not persist run report")
	} else {
		logger.Debug("run report written", "path", path, "run_id", rep.RunID)
	}

	if cmdCtx.Format != "text" && cmdCtx.Format != "" {
		formatter, ferr := ux.NewFormatter(cmdCtx.Format, &ux.FormatterOptions{NoColor: cmdCtx.NoColor})
		if ferr != nil {
			return ferr
		}
		if ferr := formatter.Format(rep); ferr != nil {
			return ferr
		}
		if rep.Status == report.StatusFailed {
			return fmt.Errorf("verification failed")
		}
		return nil
	}

	return reporter.Summary()
}

// newLogger builds the run logger from the output flags.
func newLogger(cmdCtx *CommandContext) *log.Logger {
	cfg := log.DefaultConfig()
	if cmdCtx.Verbose {
		cfg.Level = log.LevelDebug
	}
	if cmdCtx.Quiet {
		cfg.Level = log.LevelError
	}
	return log.New(cfg)
}

// loadConfig resolves the run configuration from --config or the
// package directory.
func loadConfig(cmdCtx *CommandContext) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if cmdCtx.ConfigFile != "" {
		cfg, err = config.LoadFile(cmdCtx.ConfigFile)
	} else {
		cfg, err = config.Load(cmdCtx.Dir)
	}
	if err != nil {
		return cfg, err
	}
	if cmdCtx.TimeoutSeconds > 0 {
		cfg.TimeoutSeconds = cmdCtx.TimeoutSeconds
	}
	return cfg, nil
}

// newReport assembles the persisted run report from pipeline state.
func newReport(pipeline *verify.Pipeline, results []*check.Result) *report.Report {
	pkg, version := "unknown", "unknown"
	if m := pipeline.Manifest(); m != nil {
		pkg, version = m.Name, m.Version
	}

	rep := report.New(pkg, version)
	rep.ArtifactDigest = pipeline.ArtifactDigest()
	rep.Finish(results)
	return rep
}
