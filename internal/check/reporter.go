package check

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Reporter accumulates check results in the order performed and prints
// one status line per result. It never halts the run itself; callers
// consult Failed after recording each result.
type Reporter struct {
	w       io.Writer
	noColor bool
	results []*Result
	failed  bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, noColor bool) *Reporter {
	return &Reporter{
		w:       w,
		noColor: noColor,
		results: make([]*Result, 0),
	}
}

// Record stores a result and prints its status line.
func (r *Reporter) Record(result *Result) {
	r.results = append(r.results, result)
	if result.Outcome == OutcomeFailed {
		r.failed = true
	}
	fmt.Fprintf(r.w, "  %s %s: %s\n", r.icon(result.Outcome), result.Name, result.Message)
}

// Failed reports whether any recorded result failed.
func (r *Reporter) Failed() bool {
	return r.failed
}

// Results returns all recorded results in run order.
func (r *Reporter) Results() []*Result {
	out := make([]*Result, len(r.results))
	copy(out, r.results)
	return out
}

// Count returns how many results of the given outcome were recorded.
func (r *Reporter) Count(outcome Outcome) int {
	n := 0
	for _, result := range r.results {
		if result.Outcome == outcome {
			n++
		}
	}
	return n
}

// Summary prints the final run summary. It returns an error when any
// mandatory check failed so callers can surface a non-zero exit.
func (r *Reporter) Summary() error {
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "Checks: %d passed, %d warned, %d skipped, %d failed\n",
		r.Count(OutcomePassed), r.Count(OutcomeWarned), r.Count(OutcomeSkipped), r.Count(OutcomeFailed))

	if r.failed {
		fmt.Fprintln(r.w, r.render(failStyle, "✗ Package is not ready to publish"))
		return fmt.Errorf("verification failed: %d mandatory check(s) did not pass", r.Count(OutcomeFailed))
	}

	fmt.Fprintln(r.w, r.render(passStyle, "✓ Package is ready to publish"))
	return nil
}

func (r *Reporter) icon(outcome Outcome) string {
	switch outcome {
	case OutcomePassed:
		return r.render(passStyle, "✓")
	case OutcomeFailed:
		return r.render(failStyle, "✗")
	case OutcomeWarned:
		return r.render(warnStyle, "⚠")
	case OutcomeSkipped:
		return r.render(skipStyle, "○")
	default:
		return " "
	}
}

func (r *Reporter) render(style lipgloss.Style, s string) string {
	if r.noColor {
		return s
	}
	return style.Render(s)
}
