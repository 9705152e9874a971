// Package check defines the verification check model.
//
// The package follows a simple pattern:
//   - Checker interface for pluggable verification steps
//   - Result type with outcome, message, and details
//   - Outcome enum (Passed, Failed, Warned, Skipped)
//   - Reporter that records results in run order and prints them
//
// Example usage:
//
//	reporter := check.NewReporter(os.Stdout, false)
//	for _, checker := range checkers {
//	    result := checker.Check(ctx)
//	    reporter.Record(result)
//	    if result.Outcome == check.OutcomeFailed {
//	        break
//	    }
//	}
package check

import (
	"context"
	"time"
)

// Checker defines the interface for verification checks.
// Each checker verifies one publish requirement and runs exactly once.
type Checker interface {
	// Name returns the unique name of this check.
	// Should be lowercase with hyphens (e.g., "build-output", "pack-dry-run").
	Name() string

	// Check performs the verification and returns the result.
	// It should respect the context deadline and return quickly.
	Check(ctx context.Context) *Result
}

// Outcome represents the verification check outcome.
type Outcome string

const (
	// OutcomePassed indicates the requirement is satisfied.
	OutcomePassed Outcome = "passed"

	// OutcomeFailed indicates a mandatory requirement is not satisfied.
	// The run terminates at the first failed result.
	OutcomeFailed Outcome = "failed"

	// OutcomeWarned indicates an advisory finding.
	// The run continues past warned results.
	OutcomeWarned Outcome = "warned"

	// OutcomeSkipped indicates the check could not run (e.g. an
	// optional tool is not installed). Informational only.
	OutcomeSkipped Outcome = "skipped"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// Result represents the result of a single verification check.
// The outcome is set exactly once, at construction.
type Result struct {
	// Name is the check identifier.
	Name string `json:"name" yaml:"name"`

	// Outcome is the check outcome (passed, failed, warned, skipped).
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// Message is a human-readable description of the outcome.
	Message string `json:"message" yaml:"message"`

	// Details contains additional structured information about the
	// check: byte sizes, exit codes, digests, command output tails.
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`

	// Latency is how long the check took to complete.
	Latency time.Duration `json:"latency_ns" yaml:"latency_ns"`
}

// NewResult creates a new check result with the given outcome and message.
func NewResult(name string, outcome Outcome, message string) *Result {
	return &Result{
		Name:    name,
		Outcome: outcome,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the result and returns the result for chaining.
func (r *Result) WithDetail(key string, value interface{}) *Result {
	r.Details[key] = value
	return r
}

// WithLatency sets the latency and returns the result for chaining.
func (r *Result) WithLatency(latency time.Duration) *Result {
	r.Latency = latency
	return r
}

// Passed creates a passed result with the given message.
func Passed(name, message string) *Result {
	return NewResult(name, OutcomePassed, message)
}

// Failed creates a failed result with the given message.
func Failed(name, message string) *Result {
	return NewResult(name, OutcomeFailed, message)
}

// Warned creates a warned result with the given message.
func Warned(name, message string) *Result {
	return NewResult(name, OutcomeWarned, message)
}

// Skipped creates a skipped result with the given message.
func Skipped(name, message string) *Result {
	return NewResult(name, OutcomeSkipped, message)
}
