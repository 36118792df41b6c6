package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitauditor/scan-action/internal/gitauditor"
	"github.com/gitauditor/scan-action/pkg/domain/issue"
	"github.com/gitauditor/scan-action/pkg/domain/scan"
	"github.com/gitauditor/scan-action/pkg/domain/shared"
)

func TestBuild(t *testing.T) {
	raw := []gitauditor.RawIssue{
		{
			ID:         "inst-1",
			IssueID:    "branch_protection",
			CheckType:  "branch_protection",
			Severity:   "critical",
			Repository: "acme/widgets",
			Context: gitauditor.IssueContext{
				Description: "default branch allows force pushes",
			},
		},
		{
			ID:        "inst-2",
			IssueID:   "secrets",
			CheckType: "secrets",
			Severity:  "Medium",
			Title:     "Hardcoded credential",
			Context: gitauditor.IssueContext{
				FilePath: "config/app.yml",
				Line:     12,
			},
		},
	}

	res, err := Build("scan-7", scan.StatusCompleted, raw)
	require.NoError(t, err)

	assert.Equal(t, "scan-7", res.ScanID)
	assert.Equal(t, "completed", res.Status)
	require.Len(t, res.Issues, 2)

	first := res.Issues[0]
	assert.Equal(t, "inst-1", first.ID)
	assert.Equal(t, "branch_protection", first.CheckType)
	assert.Equal(t, issue.SeverityCritical, first.Severity)
	assert.Equal(t, "default branch allows force pushes", first.Message)
	assert.Equal(t, "acme/widgets", first.Resource)
	assert.Nil(t, first.Location)

	second := res.Issues[1]
	assert.Equal(t, issue.SeverityMedium, second.Severity)
	assert.Equal(t, "Hardcoded credential", second.Message)
	require.NotNil(t, second.Location)
	assert.Equal(t, "config/app.yml", second.Location.Path)
	assert.Equal(t, 12, second.Location.Line)
}

func TestBuildPreservesReceivedOrder(t *testing.T) {
	raw := []gitauditor.RawIssue{
		{ID: "z", Severity: "low"},
		{ID: "a", Severity: "critical"},
		{ID: "m", Severity: "medium"},
	}

	res, err := Build("scan-1", scan.StatusCompleted, raw)
	require.NoError(t, err)

	got := make([]string, 0, len(res.Issues))
	for _, is := range res.Issues {
		got = append(got, is.ID)
	}
	assert.Equal(t, []string{"z", "a", "m"}, got, "issues must not be re-sorted")
}

func TestBuildRejectsUnknownSeverity(t *testing.T) {
	raw := []gitauditor.RawIssue{
		{ID: "ok", Severity: "high"},
		{ID: "bad", Severity: "blocker"},
	}

	res, err := Build("scan-1", scan.StatusCompleted, raw)
	require.Error(t, err)
	assert.Nil(t, res, "findings must not silently disappear from a partial result")
	assert.True(t, shared.IsDataFormat(err))
	assert.Contains(t, err.Error(), "bad")
}

func TestBuildFallbackFields(t *testing.T) {
	raw := []gitauditor.RawIssue{
		// Older API records carry only issue_id.
		{IssueID: "admin_rights", Severity: "high"},
	}

	res, err := Build("scan-1", scan.StatusCompleted, raw)
	require.NoError(t, err)

	is := res.Issues[0]
	assert.Equal(t, "admin_rights", is.ID)
	assert.Equal(t, "admin_rights", is.CheckType)
	assert.Equal(t, "Issue detected: admin_rights", is.Message)
}

func TestBuildEmpty(t *testing.T) {
	res, err := Build("scan-1", scan.StatusCompleted, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Total())
	assert.NotNil(t, res.Issues)
}
