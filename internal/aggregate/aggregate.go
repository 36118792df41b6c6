// Package aggregate normalizes raw service findings into the canonical
// issue collection.
package aggregate

import (
	"fmt"

	"github.com/gitauditor/scan-action/internal/gitauditor"
	"github.com/gitauditor/scan-action/pkg/domain/issue"
	"github.com/gitauditor/scan-action/pkg/domain/scan"
	"github.com/gitauditor/scan-action/pkg/domain/shared"
)

// Build maps the raw finding records into a Result. The mapping is
// deterministic and order-preserving: issues keep the order the service
// returned them in, so renderings are reproducible across runs.
//
// A finding with a severity outside the four-level enum fails the run;
// findings must never silently disappear from the result.
func Build(scanID string, status scan.Status, raw []gitauditor.RawIssue) (*issue.Result, error) {
	issues := make([]issue.Issue, 0, len(raw))
	for i, r := range raw {
		sev, err := issue.ParseSeverity(r.Severity)
		if err != nil {
			return nil, shared.NewDomainError("BAD_FINDING",
				fmt.Sprintf("finding %s (index %d)", identify(r), i), err)
		}
		issues = append(issues, issue.Issue{
			ID:        identify(r),
			CheckType: checkType(r),
			Severity:  sev,
			Message:   message(r),
			Resource:  r.Repository,
			Location:  location(r),
		})
	}

	return &issue.Result{
		ScanID: scanID,
		Status: status.String(),
		Issues: issues,
	}, nil
}

func identify(r gitauditor.RawIssue) string {
	if r.ID != "" {
		return r.ID
	}
	return r.IssueID
}

func checkType(r gitauditor.RawIssue) string {
	if r.CheckType != "" {
		return r.CheckType
	}
	// Older API versions carried the rule identity in issue_id only.
	return r.IssueID
}

func message(r gitauditor.RawIssue) string {
	if r.Context.Description != "" {
		return r.Context.Description
	}
	if r.Title != "" {
		return r.Title
	}
	return fmt.Sprintf("Issue detected: %s", identify(r))
}

func location(r gitauditor.RawIssue) *issue.Location {
	if r.Context.FilePath == "" {
		return nil
	}
	return &issue.Location{
		Path: r.Context.FilePath,
		Line: r.Context.Line,
	}
}
