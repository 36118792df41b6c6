package report

import (
	"encoding/json"
	"fmt"

	"github.com/gitauditor/scan-action/pkg/domain/issue"
)

// JSONReport is the machine-readable rendering contract. The field set
// is stable: adding fields is backward compatible, removing or renaming
// one is a breaking change for downstream tooling.
type JSONReport struct {
	ScanID         string        `json:"scan_id"`
	Status         string        `json:"status"`
	ScanURL        string        `json:"scan_url,omitempty"`
	IssuesFound    int           `json:"issues_found"`
	CriticalIssues int           `json:"critical_issues"`
	HighIssues     int           `json:"high_issues"`
	MediumIssues   int           `json:"medium_issues"`
	LowIssues      int           `json:"low_issues"`
	Issues         []issue.Issue `json:"issues"`
}

// NewJSONReport builds the JSON rendering structure from a result.
func NewJSONReport(res *issue.Result, meta Meta) JSONReport {
	c := res.Counts()
	issues := res.Issues
	if issues == nil {
		issues = []issue.Issue{}
	}
	return JSONReport{
		ScanID:         res.ScanID,
		Status:         res.Status,
		ScanURL:        meta.ScanURL,
		IssuesFound:    c.Total(),
		CriticalIssues: c.Critical,
		HighIssues:     c.High,
		MediumIssues:   c.Medium,
		LowIssues:      c.Low,
		Issues:         issues,
	}
}

// JSON renders the result as indented JSON.
func JSON(res *issue.Result, meta Meta) (string, error) {
	data, err := json.MarshalIndent(NewJSONReport(res, meta), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json report: %w", err)
	}
	return string(data) + "\n", nil
}
