// Package report persists verification run reports.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/prepub/internal/check"
	"github.com/felixgeelhaar/prepub/internal/errors"
)

// Status is the overall run status.
type Status string

const (
	// StatusPassed means no mandatory check failed.
	StatusPassed Status = "passed"
	// StatusFailed means at least one mandatory check failed.
	StatusFailed Status = "failed"
)

// Report is the audit record of one verification run.
type Report struct {
	RunID          string          `json:"run_id" yaml:"run_id"`
	Package        string          `json:"package" yaml:"package"`
	Version        string          `json:"version" yaml:"version"`
	StartedAt      time.Time       `json:"started_at" yaml:"started_at"`
	FinishedAt     time.Time       `json:"finished_at" yaml:"finished_at"`
	Status         Status          `json:"status" yaml:"status"`
	ArtifactDigest string          `json:"artifact_digest,omitempty" yaml:"artifact_digest,omitempty"`
	Results        []*check.Result `json:"results" yaml:"results"`
}

// New starts a report for the named package version.
func New(pkg, version string) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Package:   pkg,
		Version:   version,
		StartedAt: time.Now().UTC(),
	}
}

// Finish records the results and derives the overall status.
// Warned and skipped results do not fail the run.
func (r *Report) Finish(results []*check.Result) {
	r.FinishedAt = time.Now().UTC()
	r.Results = results
	r.Status = StatusPassed
	for _, result := range results {
		if result.Outcome == check.OutcomeFailed {
			r.Status = StatusFailed
			break
		}
	}
}

// Write stores the report as JSON under dir and returns the file path.
func (r *Report) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to create report directory: "+dir, err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to encode report", err)
	}

	path := filepath.Join(dir, r.RunID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write report: "+path, err)
	}

	return path, nil
}

// String renders the report for the text formatter.
func (r *Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s\n", r.RunID)
	fmt.Fprintf(&b, "Package: %s@%s\n", r.Package, r.Version)
	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	fmt.Fprintf(&b, "Duration: %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	for _, result := range r.Results {
		fmt.Fprintf(&b, "  [%s] %s: %s\n", result.Outcome, result.Name, result.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}
