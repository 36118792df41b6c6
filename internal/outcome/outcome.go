// Package outcome decides the run's success or failure from the
// aggregated result and configured policy.
package outcome

import (
	"github.com/gitauditor/scan-action/pkg/domain/issue"
)

// Outcome is the failure-policy decision for a run. It depends only on
// the result and the policy, never on which formats were rendered.
type Outcome struct {
	ExitFailure    bool
	AboveThreshold int
}

// Evaluate counts the issues at or above the severity threshold and
// applies the fail-on-issues policy. The result is never mutated.
func Evaluate(res *issue.Result, threshold issue.Severity, failOnIssues bool) Outcome {
	above := 0
	for _, is := range res.Issues {
		if is.Severity.Rank() >= threshold.Rank() {
			above++
		}
	}

	return Outcome{
		ExitFailure:    failOnIssues && above > 0,
		AboveThreshold: above,
	}
}
