package report

import (
	"fmt"
	"strings"

	"github.com/gitauditor/scan-action/pkg/domain/issue"
)

// summaryIssueLimit caps how many individual issues the job summary
// lists before collapsing the remainder into one line.
const summaryIssueLimit = 10

// Summary renders a Markdown job summary suitable for the CI run page.
func Summary(res *issue.Result, meta Meta) string {
	var sb strings.Builder

	sb.WriteString("# GitAuditor Scan Results\n\n")
	sb.WriteString(fmt.Sprintf("**Scan ID:** %s\n", orUnknown(res.ScanID)))
	sb.WriteString(fmt.Sprintf("**Status:** %s\n", orUnknown(res.Status)))
	if meta.ScanURL != "" {
		sb.WriteString(fmt.Sprintf("**Details:** %s\n", meta.ScanURL))
	}
	sb.WriteString("\n")

	if res.Total() == 0 {
		sb.WriteString("✅ No security issues found!\n")
		return sb.String()
	}

	c := res.Counts()
	sb.WriteString("## Issue Summary\n\n")
	sb.WriteString("| Severity | Count |\n")
	sb.WriteString("|----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Critical | %d |\n", c.Critical))
	sb.WriteString(fmt.Sprintf("| High | %d |\n", c.High))
	sb.WriteString(fmt.Sprintf("| Medium | %d |\n", c.Medium))
	sb.WriteString(fmt.Sprintf("| Low | %d |\n", c.Low))
	sb.WriteString("\n## Issues Found\n\n")

	for i, is := range res.Issues {
		if i == summaryIssueLimit {
			sb.WriteString(fmt.Sprintf("\n... and %d more issues\n", res.Total()-summaryIssueLimit))
			break
		}
		sb.WriteString(fmt.Sprintf("- **%s** (%s)\n", is.ID, is.Severity))
		if is.Message != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", is.Message))
		}
	}

	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
