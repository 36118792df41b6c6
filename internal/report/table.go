package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/gitauditor/scan-action/pkg/domain/issue"
)

// severityOrder lists severities from most to least severe for grouped
// rendering.
var severityOrder = []issue.Severity{
	issue.SeverityCritical,
	issue.SeverityHigh,
	issue.SeverityMedium,
	issue.SeverityLow,
}

// Table renders the result as a human-readable grid grouped by severity
// descending. An empty result renders a single "no issues found" row so
// the table is never silently blank.
func Table(res *issue.Result) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join([]string{"SEVERITY", "CHECK", "RESOURCE", "MESSAGE"}, "\t"))

	if res.Total() == 0 {
		fmt.Fprintln(w, "-\t-\t-\tno issues found")
	} else {
		for _, sev := range severityOrder {
			for _, is := range res.BySeverity(sev) {
				fmt.Fprintln(w, strings.Join([]string{
					sev.String(),
					orDash(is.CheckType),
					orDash(is.Resource),
					orDash(is.Message),
				}, "\t"))
			}
		}
	}
	w.Flush()

	c := res.Counts()
	fmt.Fprintf(&buf, "\n%d issues found (critical: %d, high: %d, medium: %d, low: %d)\n",
		c.Total(), c.Critical, c.High, c.Medium, c.Low)

	return buf.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
