package verify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/prepub/internal/check"
	"github.com/felixgeelhaar/prepub/internal/config"
	"github.com/felixgeelhaar/prepub/internal/exec"
)

const testManifest = `{
	"name": "test-server",
	"version": "1.0.0",
	"main": "dist/index.js",
	"bin": {"test-server": "dist/index.js"}
}`

// writePackage lays out a publishable fixture package.
func writePackage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist"), 0o755))
	files := map[string]string{
		"dist/index.js": "#!/usr/bin/env node\nconsole.log('server');\n",
		"package.json":  testManifest,
		"LICENSE":       "MIT\n",
		"README.md":     "# test-server\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

// fakeRunner records invocations and replays canned outcomes.
type fakeRunner struct {
	calls    []exec.Invocation
	outcomes map[string]exec.Outcome
	fallback exec.Outcome
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outcomes: make(map[string]exec.Outcome),
		fallback: exec.Outcome{State: exec.StateCompleted, ExitCode: 0, Output: "ok\n", Duration: 10 * time.Millisecond},
	}
}

func (f *fakeRunner) key(inv exec.Invocation) string {
	return strings.Join(append([]string{inv.Command}, inv.Args...), " ")
}

func (f *fakeRunner) set(key string, outcome exec.Outcome) {
	f.outcomes[key] = outcome
}

func (f *fakeRunner) run(ctx context.Context, inv exec.Invocation) exec.Outcome {
	f.calls = append(f.calls, inv)
	if outcome, ok := f.outcomes[f.key(inv)]; ok {
		return outcome
	}
	return f.fallback
}

func runPipeline(t *testing.T, dir string, runner *fakeRunner) (*Pipeline, []*check.Result) {
	t.Helper()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	pipeline := New(dir, cfg, nil).WithRunFunc(runner.run)
	reporter := check.NewReporter(&bytes.Buffer{}, true)
	results := pipeline.Run(context.Background(), reporter)
	return pipeline, results
}

func names(results []*check.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Name
	}
	return out
}

func TestRunAllChecksPass(t *testing.T) {
	dir := writePackage(t)
	runner := newFakeRunner()
	// The bare server invocations block on stdio until the deadline.
	runner.set("node dist/index.js", exec.Outcome{State: exec.StateTimedOut})

	pipeline, results := runPipeline(t, dir, runner)

	assert.Equal(t, []string{
		"build-output", "manifest", "docs",
		"cli-version", "cli-help", "server-start", "framework-mode",
		"pack-dry-run", "audit", "license-compliance", "bundle-size",
	}, names(results))

	for _, result := range results {
		assert.Equal(t, check.OutcomePassed, result.Outcome, "check %s: %s", result.Name, result.Message)
	}

	require.NotNil(t, pipeline.Manifest())
	assert.Equal(t, "test-server", pipeline.Manifest().Name)
	assert.Len(t, pipeline.ArtifactDigest(), 64, "blake3 digest should be recorded")
}

func TestRunMissingBuildOutputFailsFast(t *testing.T) {
	dir := writePackage(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "dist", "index.js")))

	runner := newFakeRunner()
	_, results := runPipeline(t, dir, runner)

	require.Len(t, results, 1, "run must stop at the first failed check")
	assert.Equal(t, "build-output", results[0].Name)
	assert.Equal(t, check.OutcomeFailed, results[0].Outcome)
	assert.Contains(t, results[0].Message, "dist/index.js")

	assert.Empty(t, runner.calls, "no process may be spawned after a fatal filesystem check")
}

func TestRunManifestMissingFieldFailsFast(t *testing.T) {
	dir := writePackage(t)
	manifest := `{"name":"test-server","version":"1.0.0","main":"dist/index.js"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0o644))

	runner := newFakeRunner()
	_, results := runPipeline(t, dir, runner)

	require.Len(t, results, 2)
	assert.Equal(t, "manifest", results[1].Name)
	assert.Equal(t, check.OutcomeFailed, results[1].Outcome)
	assert.Contains(t, results[1].Message, "bin")
	assert.Empty(t, runner.calls)
}

func TestRunVersionTimeoutIsAdvisory(t *testing.T) {
	dir := writePackage(t)
	runner := newFakeRunner()
	runner.set("node dist/index.js --version", exec.Outcome{State: exec.StateTimedOut})
	runner.set("node dist/index.js", exec.Outcome{State: exec.StateTimedOut})

	_, results := runPipeline(t, dir, runner)

	require.Len(t, results, 11, "a timeout must not stop the run")
	assert.Equal(t, check.OutcomeWarned, results[3].Outcome)
	assert.Equal(t, "cli-version", results[3].Name)
}

func TestRunVersionNonZeroExitIsFatal(t *testing.T) {
	dir := writePackage(t)
	runner := newFakeRunner()
	runner.set("node dist/index.js --version", exec.Outcome{
		State: exec.StateCompleted, ExitCode: 1, Output: "TypeError: boom\n",
	})

	_, results := runPipeline(t, dir, runner)

	require.Len(t, results, 4)
	last := results[len(results)-1]
	assert.Equal(t, "cli-version", last.Name)
	assert.Equal(t, check.OutcomeFailed, last.Outcome)
}

func TestRunStartFailureIsFatal(t *testing.T) {
	dir := writePackage(t)
	runner := newFakeRunner()
	runner.fallback = exec.Outcome{State: exec.StateStartFailed, Err: errors.New("exec: \"node\": executable file not found in $PATH")}

	_, results := runPipeline(t, dir, runner)

	last := results[len(results)-1]
	assert.Equal(t, "cli-version", last.Name)
	assert.Equal(t, check.OutcomeFailed, last.Outcome)
	assert.Contains(t, last.Message, "could not start")
}

func TestRunServerTimeoutPasses(t *testing.T) {
	dir := writePackage(t)
	runner := newFakeRunner()
	runner.set("node dist/index.js", exec.Outcome{State: exec.StateTimedOut})

	_, results := runPipeline(t, dir, runner)

	assert.Equal(t, check.OutcomePassed, results[5].Outcome)
	assert.Contains(t, results[5].Message, "still running")
}

func TestRunServerCrashIsFatal(t *testing.T) {
	dir := writePackage(t)
	runner := newFakeRunner()
	runner.set("node dist/index.js", exec.Outcome{
		State: exec.StateCompleted, ExitCode: 2, Output: "Error: missing dependency\n",
	})

	_, results := runPipeline(t, dir, runner)

	last := results[len(results)-1]
	assert.Equal(t, "server-start", last.Name)
	assert.Equal(t, check.OutcomeFailed, last.Outcome)
}

func TestRunFrameworkModeEnvScopedToOneInvocation(t *testing.T) {
	dir := writePackage(t)
	runner := newFakeRunner()
	runner.set("node dist/index.js", exec.Outcome{State: exec.StateTimedOut})

	runPipeline(t, dir, runner)

	var withEnv, withoutEnv int
	for _, call := range runner.calls {
		if call.Env["FRAMEWORK"] == "vue" {
			withEnv++
		} else {
			withoutEnv++
		}
	}
	assert.Equal(t, 1, withEnv, "exactly one invocation carries the framework env var")
	assert.Greater(t, withoutEnv, 0)
}

func TestRunPackFailureIsFatal(t *testing.T) {
	dir := writePackage(t)
	runner := newFakeRunner()
	runner.set("node dist/index.js", exec.Outcome{State: exec.StateTimedOut})
	runner.set("npm pack --dry-run", exec.Outcome{
		State: exec.StateCompleted, ExitCode: 1, Output: "npm ERR! missing script\n",
	})

	_, results := runPipeline(t, dir, runner)

	require.Len(t, results, 8, "run must stop at the failed pack check")
	last := results[len(results)-1]
	assert.Equal(t, "pack-dry-run", last.Name)
	assert.Equal(t, check.OutcomeFailed, last.Outcome)
}

func TestRunAuditFindingsAreAdvisory(t *testing.T) {
	dir := writePackage(t)
	runner := newFakeRunner()
	runner.set("node dist/index.js", exec.Outcome{State: exec.StateTimedOut})
	runner.set("npm audit --audit-level=high", exec.Outcome{
		State: exec.StateCompleted, ExitCode: 1, Output: "3 high severity vulnerabilities\n",
	})

	_, results := runPipeline(t, dir, runner)

	require.Len(t, results, 11, "audit findings must not stop the run")
	assert.Equal(t, check.OutcomeWarned, results[8].Outcome)
}

func TestRunLicenseToolMissingIsSkipped(t *testing.T) {
	dir := writePackage(t)
	runner := newFakeRunner()
	runner.set("node dist/index.js", exec.Outcome{State: exec.StateTimedOut})
	runner.set("npx --no-install license-checker --summary", exec.Outcome{
		State: exec.StateStartFailed, Err: errors.New("npx not found"),
	})

	_, results := runPipeline(t, dir, runner)

	require.Len(t, results, 11)
	assert.Equal(t, check.OutcomeSkipped, results[9].Outcome)
}

func TestRunRecordsLatency(t *testing.T) {
	dir := writePackage(t)
	runner := newFakeRunner()
	runner.set("node dist/index.js", exec.Outcome{State: exec.StateTimedOut})

	_, results := runPipeline(t, dir, runner)

	for _, result := range results {
		assert.Greater(t, result.Latency, time.Duration(0), "check %s should record latency", result.Name)
	}
}
