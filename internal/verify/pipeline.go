// Package verify runs the pre-publish verification pipeline.
//
// A pipeline is a fixed, ordered list of checks executed strictly
// sequentially: a check's result is recorded before the next check
// starts, and the run stops at the first failed result. External
// commands all go through the bounded runner in internal/exec, so no
// check can block the run past its deadline.
package verify

import (
	"context"
	"time"

	"github.com/felixgeelhaar/prepub/internal/check"
	"github.com/felixgeelhaar/prepub/internal/config"
	"github.com/felixgeelhaar/prepub/internal/exec"
	"github.com/felixgeelhaar/prepub/internal/log"
	"github.com/felixgeelhaar/prepub/internal/npm"
)

// RunFunc executes one bounded invocation. It exists so tests can
// substitute the real process runner.
type RunFunc func(ctx context.Context, inv exec.Invocation) exec.Outcome

// Pipeline owns one verification run over a package directory.
type Pipeline struct {
	dir    string
	cfg    config.Config
	logger *log.Logger
	run    RunFunc

	// populated by the manifest check
	manifest *npm.Manifest
	// populated by the bundle-size check
	digest string
}

// New creates a pipeline for the package rooted at dir.
func New(dir string, cfg config.Config, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Pipeline{
		dir:    dir,
		cfg:    cfg,
		logger: logger,
		run:    exec.Run,
	}
}

// WithRunFunc overrides the process runner. Used in tests.
func (p *Pipeline) WithRunFunc(run RunFunc) *Pipeline {
	p.run = run
	return p
}

// Manifest returns the parsed manifest, or nil if the manifest check
// has not passed yet.
func (p *Pipeline) Manifest() *npm.Manifest {
	return p.manifest
}

// ArtifactDigest returns the blake3 digest of the main artifact, or ""
// if the bundle-size check has not run.
func (p *Pipeline) ArtifactDigest() string {
	return p.digest
}

// checkers returns the checks in publish-verification order. Checks
// that execute the package artifact come after the checks that prove
// the artifact set and manifest exist, so they never run against a
// half-built package.
func (p *Pipeline) checkers() []check.Checker {
	timeout := p.cfg.Timeout()

	return []check.Checker{
		&fileChecker{name: "build-output", dir: p.dir, paths: p.cfg.RequiredFiles, kind: "build output"},
		&manifestChecker{pipeline: p},
		&fileChecker{name: "docs", dir: p.dir, paths: p.cfg.DocFiles, kind: "documentation file"},
		&cliFlagChecker{name: "cli-version", flag: "--version", pipeline: p, timeout: timeout},
		&cliFlagChecker{name: "cli-help", flag: "--help", pipeline: p, timeout: timeout},
		&serverStartChecker{name: "server-start", pipeline: p, timeout: timeout},
		&serverStartChecker{
			name:     "framework-mode",
			pipeline: p,
			timeout:  timeout,
			env:      map[string]string{p.cfg.FrameworkEnvVar: p.cfg.FrameworkEnvValue},
		},
		&packChecker{pipeline: p, timeout: packTimeoutFactor * timeout},
		&auditChecker{pipeline: p, timeout: packTimeoutFactor * timeout},
		&licenseChecker{pipeline: p, timeout: packTimeoutFactor * timeout},
		&sizeChecker{pipeline: p},
	}
}

// packTimeoutFactor widens the deadline for package-manager commands,
// which do real work compared to a bare artifact startup.
const packTimeoutFactor = 6

// Run executes all checks in order, recording each result with the
// reporter before the next check starts. The run stops at the first
// failed result. Results are returned in run order.
func (p *Pipeline) Run(ctx context.Context, reporter *check.Reporter) []*check.Result {
	for _, checker := range p.checkers() {
		start := time.Now()
		result := checker.Check(ctx)
		if result.Latency == 0 {
			result.WithLatency(time.Since(start))
		}

		reporter.Record(result)
		p.logger.Debug("check finished",
			"check", checker.Name(),
			"outcome", result.Outcome.String(),
			"latency", result.Latency.String(),
		)

		if result.Outcome == check.OutcomeFailed {
			p.logger.Error("mandatory check failed", "check", checker.Name(), "message", result.Message)
			break
		}
	}

	return reporter.Results()
}

// entrypoint resolves the script under test: explicit config override,
// then the manifest bin entry, then the default required file.
func (p *Pipeline) entrypoint() string {
	if p.cfg.Entrypoint != "" {
		return p.cfg.Entrypoint
	}
	if p.manifest != nil {
		if entry := p.manifest.EntryPoint(); entry != "" {
			return entry
		}
	}
	return "dist/index.js"
}
