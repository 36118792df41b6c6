// Package issue defines the Issue domain entity and aggregated scan results.
package issue

import (
	"fmt"
	"strings"

	"github.com/gitauditor/scan-action/pkg/domain/shared"
)

// Severity represents a finding severity level.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AllSeverities returns all valid severities ordered from lowest to highest.
func AllSeverities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

// IsValid checks if the severity is a valid severity value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Rank returns the ordering of the severity: low=1 .. critical=4.
// Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity normalizes a raw severity string to the fixed four-level
// enum. Findings with severities outside the enum must not be silently
// dropped, so unrecognized values return ErrDataFormat.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", shared.NewDomainError("UNKNOWN_SEVERITY",
			fmt.Sprintf("unrecognized severity %q", raw), shared.ErrDataFormat)
	}
	return s, nil
}

// Location is an optional file position attached to a finding. It is
// only consumed by the SARIF rendering.
type Location struct {
	Path string `json:"path"`
	Line int    `json:"line,omitempty"`
}

// Issue represents one finding returned by the scanning service.
// Issues are immutable once received.
type Issue struct {
	ID        string    `json:"id"`
	CheckType string    `json:"check_type"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Resource  string    `json:"resource"`
	Location  *Location `json:"location,omitempty"`
}

// Counts holds per-severity issue totals.
type Counts struct {
	Critical int `json:"critical_issues"`
	High     int `json:"high_issues"`
	Medium   int `json:"medium_issues"`
	Low      int `json:"low_issues"`
}

// Total returns the sum across all severities.
func (c Counts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low
}

// Result is the aggregated outcome of one completed scan. The issue
// order preserves the order received from the service so renderings are
// reproducible for the same input.
type Result struct {
	ScanID string  `json:"scan_id"`
	Status string  `json:"status"`
	Issues []Issue `json:"issues"`
}

// Counts derives per-severity totals from the issue collection. Counts
// are never tracked independently of the collection, so they cannot
// drift from it.
func (r *Result) Counts() Counts {
	var c Counts
	for _, is := range r.Issues {
		switch is.Severity {
		case SeverityCritical:
			c.Critical++
		case SeverityHigh:
			c.High++
		case SeverityMedium:
			c.Medium++
		case SeverityLow:
			c.Low++
		}
	}
	return c
}

// Total returns the number of issues in the result.
func (r *Result) Total() int {
	return len(r.Issues)
}

// BySeverity returns the issues carrying the given severity, preserving
// their received order.
func (r *Result) BySeverity(s Severity) []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Severity == s {
			out = append(out, is)
		}
	}
	return out
}
