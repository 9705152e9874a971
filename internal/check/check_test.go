package check

import (
	"testing"
	"time"
)

func TestNewResult(t *testing.T) {
	result := NewResult("build-output", OutcomePassed, "all files present")

	if result.Name != "build-output" {
		t.Errorf("Name = %q, want %q", result.Name, "build-output")
	}
	if result.Outcome != OutcomePassed {
		t.Errorf("Outcome = %v, want %v", result.Outcome, OutcomePassed)
	}
	if result.Message != "all files present" {
		t.Errorf("Message = %q, want %q", result.Message, "all files present")
	}
	if result.Details == nil {
		t.Error("Details should be initialized")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		result  *Result
		outcome Outcome
	}{
		{"passed", Passed("a", "ok"), OutcomePassed},
		{"failed", Failed("b", "bad"), OutcomeFailed},
		{"warned", Warned("c", "careful"), OutcomeWarned},
		{"skipped", Skipped("d", "tool missing"), OutcomeSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.Outcome != tt.outcome {
				t.Errorf("Outcome = %v, want %v", tt.result.Outcome, tt.outcome)
			}
		})
	}
}

func TestWithDetail(t *testing.T) {
	result := Passed("bundle-size", "within limit").
		WithDetail("bytes", 2048).
		WithDetail("path", "dist/index.js")

	if result.Details["bytes"] != 2048 {
		t.Errorf("Details[bytes] = %v, want 2048", result.Details["bytes"])
	}
	if result.Details["path"] != "dist/index.js" {
		t.Errorf("Details[path] = %v, want dist/index.js", result.Details["path"])
	}
}

func TestWithLatency(t *testing.T) {
	result := Passed("cli-version", "ok").WithLatency(1500 * time.Millisecond)

	if result.Latency != 1500*time.Millisecond {
		t.Errorf("Latency = %v, want 1.5s", result.Latency)
	}
}

func TestOutcomeString(t *testing.T) {
	if OutcomeFailed.String() != "failed" {
		t.Errorf("String() = %q, want failed", OutcomeFailed.String())
	}
}
