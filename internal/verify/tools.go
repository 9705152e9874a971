package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/prepub/internal/check"
	"github.com/felixgeelhaar/prepub/internal/exec"
)

// packChecker runs the package-manager dry-run pack. This is the one
// mandatory external-tool check: npm refusing to pack means the
// published archive would be broken, so any failure here aborts the
// run. Audit and license findings below stay advisory.
type packChecker struct {
	pipeline *Pipeline
	timeout  time.Duration
}

func (c *packChecker) Name() string {
	return "pack-dry-run"
}

func (c *packChecker) Check(ctx context.Context) *check.Result {
	outcome := c.pipeline.run(ctx, exec.Invocation{
		Command: "npm",
		Args:    []string{"pack", "--dry-run"},
		Dir:     c.pipeline.dir,
		Timeout: c.timeout,
	})

	switch {
	case outcome.StartFailed():
		return check.Failed(c.Name(), fmt.Sprintf("could not start npm: %v", outcome.Err))
	case outcome.TimedOut():
		return check.Failed(c.Name(), fmt.Sprintf("npm pack --dry-run did not finish within %s", c.timeout))
	case outcome.ExitCode != 0:
		return check.Failed(c.Name(), fmt.Sprintf("npm pack --dry-run exited with code %d", outcome.ExitCode)).
			WithDetail("exit_code", outcome.ExitCode).
			WithDetail("output", tail(outcome.Output, 8))
	default:
		return check.Passed(c.Name(), "npm pack --dry-run succeeded").
			WithDetail("output", tail(outcome.Output, 3))
	}
}

// auditChecker runs the dependency audit. Advisory only: findings and
// tool failures downgrade to warnings.
type auditChecker struct {
	pipeline *Pipeline
	timeout  time.Duration
}

func (c *auditChecker) Name() string {
	return "audit"
}

func (c *auditChecker) Check(ctx context.Context) *check.Result {
	outcome := c.pipeline.run(ctx, exec.Invocation{
		Command: "npm",
		Args:    []string{"audit", "--audit-level=high"},
		Dir:     c.pipeline.dir,
		Timeout: c.timeout,
	})

	switch {
	case outcome.StartFailed():
		return check.Warned(c.Name(), fmt.Sprintf("could not start npm audit: %v", outcome.Err))
	case outcome.TimedOut():
		return check.Warned(c.Name(), fmt.Sprintf("npm audit did not finish within %s", c.timeout))
	case outcome.ExitCode != 0:
		return check.Warned(c.Name(), "npm audit reported high severity advisories").
			WithDetail("exit_code", outcome.ExitCode).
			WithDetail("output", tail(outcome.Output, 8))
	default:
		return check.Passed(c.Name(), "no high severity advisories")
	}
}

// licenseChecker runs the optional license-compliance tool. A missing
// tool is informational, findings are advisory.
type licenseChecker struct {
	pipeline *Pipeline
	timeout  time.Duration
}

func (c *licenseChecker) Name() string {
	return "license-compliance"
}

func (c *licenseChecker) Check(ctx context.Context) *check.Result {
	outcome := c.pipeline.run(ctx, exec.Invocation{
		Command: "npx",
		Args:    []string{"--no-install", "license-checker", "--summary"},
		Dir:     c.pipeline.dir,
		Timeout: c.timeout,
	})

	switch {
	case outcome.StartFailed():
		return check.Skipped(c.Name(), "license-checker not available")
	case outcome.TimedOut():
		return check.Skipped(c.Name(), fmt.Sprintf("license-checker did not finish within %s", c.timeout))
	case outcome.ExitCode != 0:
		return check.Warned(c.Name(), "license-checker reported findings").
			WithDetail("exit_code", outcome.ExitCode).
			WithDetail("output", tail(outcome.Output, 8))
	default:
		return check.Passed(c.Name(), "dependency licenses look compliant").
			WithDetail("summary", tail(outcome.Output, 5))
	}
}
