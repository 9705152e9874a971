package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/prepub/internal/check"
	"github.com/felixgeelhaar/prepub/internal/config"
	"github.com/felixgeelhaar/prepub/internal/log"
	"github.com/felixgeelhaar/prepub/internal/report"
	"github.com/felixgeelhaar/prepub/internal/verify"
)

func TestNewCommandContext(t *testing.T) {
	require.NoError(t, rootCmd.ParseFlags([]string{"--format", "json", "--no-color", "--dir", "/tmp/pkg"}))
	defer func() {
		_ = rootCmd.ParseFlags([]string{"--format", "text", "--no-color=false", "--dir", "."})
	}()

	cmdCtx, err := NewCommandContext(rootCmd)
	require.NoError(t, err)

	assert.Equal(t, "json", cmdCtx.Format)
	assert.True(t, cmdCtx.NoColor)
	assert.Equal(t, "/tmp/pkg", cmdCtx.Dir)
	assert.False(t, cmdCtx.Verbose)
}

func TestVerifyCommandRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["verify"], "verify command should be registered")
	assert.True(t, names["version"], "version command should be registered")
}

func TestRootRunsVerifyByDefault(t *testing.T) {
	assert.NotNil(t, rootCmd.RunE, "bare prepub invocation must run the pipeline")
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name string
		ctx  *CommandContext
		want log.Level
	}{
		{"default", &CommandContext{}, log.LevelInfo},
		{"verbose", &CommandContext{Verbose: true}, log.LevelDebug},
		{"quiet", &CommandContext{Quiet: true}, log.LevelError},
		{"quiet wins over verbose", &CommandContext{Verbose: true, Quiet: true}, log.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := newLogger(tt.ctx)
			assert.Equal(t, tt.want, logger.Config().Level)
		})
	}
}

func TestLoadConfigExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout_seconds: 9\n"), 0o644))

	cfg, err := loadConfig(&CommandContext{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.TimeoutSeconds)
}

func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("size_limit_kb: 250\n"), 0o644))

	cfg, err := loadConfig(&CommandContext{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, int64(250), cfg.SizeLimitKB)
}

func TestLoadConfigTimeoutFlagOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("timeout_seconds: 9\n"), 0o644))

	cfg, err := loadConfig(&CommandContext{Dir: dir, TimeoutSeconds: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TimeoutSeconds)
}

func TestNewReportWithoutManifest(t *testing.T) {
	pipeline := verify.New(t.TempDir(), config.Default(), nil)
	results := []*check.Result{check.Failed("build-output", "missing")}

	rep := newReport(pipeline, results)

	assert.Equal(t, "unknown", rep.Package)
	assert.Equal(t, report.StatusFailed, rep.Status)
	require.Len(t, rep.Results, 1)
}
