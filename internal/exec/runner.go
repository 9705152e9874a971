// Package exec provides bounded execution of external commands.
//
// Every external invocation made during a verification run goes through
// Run, which starts the process, waits up to a deadline, and reports one
// of three outcomes: the process completed (with exit code and combined
// output), it timed out (and was killed), or it could not be started at
// all. Callers decide what each outcome means for their check.
package exec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	osexec "os/exec"
	"time"
)

// DefaultTimeout is the per-invocation deadline when none is configured.
const DefaultTimeout = 5 * time.Second

// killGrace is how long Wait may linger after the deadline before the
// process handle is abandoned outright.
const killGrace = 2 * time.Second

// Invocation describes a single external command to run.
type Invocation struct {
	// Command is the executable path or name (resolved via PATH).
	Command string
	// Args are the command-line arguments.
	Args []string
	// Env holds extra environment variables merged over os.Environ
	// for this invocation only. The ambient environment is never
	// mutated, so nothing leaks into later invocations.
	Env map[string]string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// Timeout bounds the total wall time. Zero means DefaultTimeout.
	Timeout time.Duration
}

// State classifies how an invocation ended.
type State int

const (
	// StateCompleted means the process exited before the deadline.
	StateCompleted State = iota
	// StateTimedOut means the deadline elapsed and the process was
	// forcibly terminated. Partial output is discarded.
	StateTimedOut
	// StateStartFailed means the process could not be launched
	// (missing binary, permission error).
	StateStartFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateTimedOut:
		return "timed-out"
	case StateStartFailed:
		return "start-failed"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of a bounded invocation.
type Outcome struct {
	State    State
	ExitCode int    // valid only when State is StateCompleted
	Output   string // combined stdout+stderr, empty unless completed
	Duration time.Duration
	Err      error // set when State is StateStartFailed
}

// Completed reports whether the process exited before the deadline.
func (o Outcome) Completed() bool { return o.State == StateCompleted }

// TimedOut reports whether the deadline elapsed first.
func (o Outcome) TimedOut() bool { return o.State == StateTimedOut }

// StartFailed reports whether the process never launched.
func (o Outcome) StartFailed() bool { return o.State == StateStartFailed }

// Succeeded reports a completed run with exit code zero.
func (o Outcome) Succeeded() bool { return o.Completed() && o.ExitCode == 0 }

// Run executes the invocation and blocks until it completes, times out,
// or fails to start. The spawned process is the only child in flight;
// its handle is reclaimed before Run returns.
func Run(ctx context.Context, inv Invocation) Outcome {
	timeout := inv.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := osexec.CommandContext(runCtx, inv.Command, inv.Args...)
	cmd.Dir = inv.Dir
	if inv.Stdin != nil {
		cmd.Stdin = inv.Stdin
	}
	// WaitDelay keeps Wait from blocking forever on descendants that
	// inherited the output pipes after the process itself was killed.
	cmd.WaitDelay = killGrace

	if len(inv.Env) > 0 {
		env := os.Environ()
		for k, v := range inv.Env {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Outcome{
			State:    StateStartFailed,
			Err:      err,
			Duration: time.Since(start),
		}
	}

	waitErr := cmd.Wait()
	duration := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		return Outcome{
			State:    StateTimedOut,
			Duration: duration,
		}
	}

	if waitErr != nil {
		var exitErr *osexec.ExitError
		if errors.As(waitErr, &exitErr) {
			return Outcome{
				State:    StateCompleted,
				ExitCode: exitErr.ExitCode(),
				Output:   output.String(),
				Duration: duration,
			}
		}
		// Wait failed for a reason other than a non-zero exit, e.g.
		// an I/O error on the pipes. Treat it like a launch failure.
		return Outcome{
			State:    StateStartFailed,
			Err:      waitErr,
			Duration: duration,
		}
	}

	return Outcome{
		State:    StateCompleted,
		ExitCode: 0,
		Output:   output.String(),
		Duration: duration,
	}
}
