package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/prepub/internal/check"
	"github.com/felixgeelhaar/prepub/internal/exec"
)

// cliFlagChecker runs the package entrypoint with a single flag
// (--version or --help) and expects a clean exit within the deadline.
// A timeout is only advisory: server-style entrypoints ignore the flag
// and wait on stdio instead of exiting.
type cliFlagChecker struct {
	name     string
	flag     string
	pipeline *Pipeline
	timeout  time.Duration
}

func (c *cliFlagChecker) Name() string {
	return c.name
}

func (c *cliFlagChecker) Check(ctx context.Context) *check.Result {
	entry := c.pipeline.entrypoint()

	outcome := c.pipeline.run(ctx, exec.Invocation{
		Command: c.pipeline.cfg.Node,
		Args:    []string{entry, c.flag},
		Dir:     c.pipeline.dir,
		Timeout: c.timeout,
	})

	switch {
	case outcome.StartFailed():
		return check.Failed(c.name, fmt.Sprintf("could not start %s %s: %v", c.pipeline.cfg.Node, entry, outcome.Err)).
			WithDetail("command", c.pipeline.cfg.Node)
	case outcome.TimedOut():
		return check.Warned(c.name, fmt.Sprintf("no response to %s within %s (entrypoint may be waiting on stdio)", c.flag, c.timeout)).
			WithDetail("timeout", c.timeout.String())
	case outcome.ExitCode != 0:
		return check.Failed(c.name, fmt.Sprintf("%s exited with code %d", c.flag, outcome.ExitCode)).
			WithDetail("exit_code", outcome.ExitCode).
			WithDetail("output", tail(outcome.Output, 5))
	default:
		return check.Passed(c.name, fmt.Sprintf("%s responded in %s", c.flag, outcome.Duration.Round(time.Millisecond))).
			WithDetail("output", firstLine(outcome.Output))
	}
}

// serverStartChecker runs the entrypoint bare, optionally with an
// operating-mode environment variable injected into that invocation
// only. A stdio server is expected to still be serving at the deadline,
// so a timeout counts as a pass; an immediate non-zero exit is a
// startup crash and fails the run.
type serverStartChecker struct {
	name     string
	pipeline *Pipeline
	timeout  time.Duration
	env      map[string]string
}

func (c *serverStartChecker) Name() string {
	return c.name
}

func (c *serverStartChecker) Check(ctx context.Context) *check.Result {
	entry := c.pipeline.entrypoint()

	outcome := c.pipeline.run(ctx, exec.Invocation{
		Command: c.pipeline.cfg.Node,
		Args:    []string{entry},
		Env:     c.env,
		Dir:     c.pipeline.dir,
		Timeout: c.timeout,
	})

	result := func() *check.Result {
		switch {
		case outcome.StartFailed():
			return check.Failed(c.name, fmt.Sprintf("could not start %s %s: %v", c.pipeline.cfg.Node, entry, outcome.Err))
		case outcome.TimedOut():
			return check.Passed(c.name, fmt.Sprintf("server still running at %s deadline (waiting on stdio)", c.timeout))
		case outcome.ExitCode != 0:
			return check.Failed(c.name, fmt.Sprintf("server exited with code %d during startup", outcome.ExitCode)).
				WithDetail("exit_code", outcome.ExitCode).
				WithDetail("output", tail(outcome.Output, 5))
		default:
			return check.Passed(c.name, "server started and exited cleanly")
		}
	}()

	for k, v := range c.env {
		result.WithDetail("env", k+"="+v)
	}
	return result
}

// firstLine returns the first non-empty line of command output.
func firstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// tail returns the last n non-empty lines of command output.
func tail(output string, n int) string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
