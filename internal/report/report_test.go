package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitauditor/scan-action/pkg/domain/issue"
)

func sampleResult() *issue.Result {
	return &issue.Result{
		ScanID: "scan-42",
		Status: "completed",
		Issues: []issue.Issue{
			{
				ID:        "inst-1",
				CheckType: "secrets",
				Severity:  issue.SeverityMedium,
				Message:   "Hardcoded API key",
				Resource:  "acme/widgets",
				Location:  &issue.Location{Path: "config/app.yml", Line: 12},
			},
			{
				ID:        "inst-2",
				CheckType: "branch_protection",
				Severity:  issue.SeverityCritical,
				Message:   "Force pushes allowed",
				Resource:  "acme/widgets",
			},
			{
				ID:        "inst-3",
				CheckType: "secrets",
				Severity:  issue.SeverityLow,
				Message:   "Token in test fixture",
				Resource:  "acme/widgets",
			},
		},
	}
}

func sampleMeta() Meta {
	return Meta{
		ToolName:    "GitAuditor",
		ToolVersion: "1.2.3",
		ScanURL:     "https://app.gitauditor.io/scans/scan-42",
	}
}

func TestTableGroupsBySeverityDescending(t *testing.T) {
	out := Table(sampleResult())

	critical := strings.Index(out, "Force pushes allowed")
	medium := strings.Index(out, "Hardcoded API key")
	low := strings.Index(out, "Token in test fixture")

	require.Positive(t, critical)
	assert.Less(t, critical, medium)
	assert.Less(t, medium, low)

	assert.Contains(t, out, "SEVERITY")
	assert.Contains(t, out, "3 issues found (critical: 1, high: 0, medium: 1, low: 1)")
}

func TestTableEmptyResult(t *testing.T) {
	out := Table(&issue.Result{ScanID: "scan-1", Status: "completed"})
	assert.Contains(t, out, "no issues found")
	assert.Contains(t, out, "0 issues found")
}

func TestTableDeterministic(t *testing.T) {
	res := sampleResult()
	assert.Equal(t, Table(res), Table(res))
}

func TestJSONRoundTrip(t *testing.T) {
	res := sampleResult()
	doc, err := JSON(res, sampleMeta())
	require.NoError(t, err)

	var parsed JSONReport
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	assert.Equal(t, "scan-42", parsed.ScanID)
	assert.Equal(t, "completed", parsed.Status)
	assert.Equal(t, 3, parsed.IssuesFound)
	assert.Equal(t, 1, parsed.CriticalIssues)
	assert.Equal(t, 0, parsed.HighIssues)
	assert.Equal(t, 1, parsed.MediumIssues)
	assert.Equal(t, 1, parsed.LowIssues)
	assert.Equal(t, res.Issues, parsed.Issues)
}

func TestJSONCountsNeverDrift(t *testing.T) {
	res := sampleResult()
	rep := NewJSONReport(res, sampleMeta())

	assert.Equal(t, len(rep.Issues), rep.IssuesFound)
	assert.Equal(t, rep.IssuesFound,
		rep.CriticalIssues+rep.HighIssues+rep.MediumIssues+rep.LowIssues)
}

func TestJSONEmptyResultHasIssueArray(t *testing.T) {
	doc, err := JSON(&issue.Result{ScanID: "s"}, sampleMeta())
	require.NoError(t, err)
	assert.Contains(t, doc, `"issues": []`)
}

func TestSummaryListsIssues(t *testing.T) {
	out := Summary(sampleResult(), sampleMeta())
	assert.Contains(t, out, "**Scan ID:** scan-42")
	assert.Contains(t, out, "| Critical | 1 |")
	assert.Contains(t, out, "**inst-1** (medium)")
}

func TestSummaryTruncatesLongIssueLists(t *testing.T) {
	res := &issue.Result{ScanID: "scan-1", Status: "completed"}
	for i := 0; i < 14; i++ {
		res.Issues = append(res.Issues, issue.Issue{
			ID:       "inst",
			Severity: issue.SeverityLow,
		})
	}

	out := Summary(res, sampleMeta())
	assert.Contains(t, out, "... and 4 more issues")
}

func TestSummaryCleanResult(t *testing.T) {
	out := Summary(&issue.Result{ScanID: "scan-1", Status: "completed"}, sampleMeta())
	assert.Contains(t, out, "No security issues found")
	assert.NotContains(t, out, "Issue Summary")
}
