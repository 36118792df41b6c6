package report

import (
	"encoding/json"
	"fmt"

	"github.com/gitauditor/scan-action/pkg/domain/issue"
)

// SARIF schema constants (version 2.1.0).
const (
	sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	sarifVersion   = "2.1.0"

	toolInformationURI = "https://gitauditor.io"
)

// SARIF document structure, trimmed to the fields this tool emits.

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string             `json:"id"`
	ShortDescription     sarifMessage       `json:"shortDescription"`
	DefaultConfiguration sarifConfiguration `json:"defaultConfiguration"`
}

type sarifConfiguration struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// SARIF renders the result as a SARIF 2.1.0 document with one run. The
// rule catalog holds the distinct check types in insertion order and
// each result maps its severity to the SARIF level. Equal inputs yield
// byte-identical output, which CI diffing relies on.
func SARIF(res *issue.Result, meta Meta) (string, error) {
	rules := make([]sarifRule, 0)
	seen := make(map[string]bool)
	results := make([]sarifResult, 0, res.Total())

	for _, is := range res.Issues {
		ruleID := is.CheckType
		if ruleID == "" {
			ruleID = is.ID
		}

		if !seen[ruleID] {
			seen[ruleID] = true
			rules = append(rules, sarifRule{
				ID:               ruleID,
				ShortDescription: sarifMessage{Text: ruleID},
				DefaultConfiguration: sarifConfiguration{
					Level: sarifLevel(is.Severity),
				},
			})
		}

		results = append(results, sarifResult{
			RuleID:    ruleID,
			Level:     sarifLevel(is.Severity),
			Message:   sarifMessage{Text: is.Message},
			Locations: []sarifLocation{sarifLocationFor(is)},
		})
	}

	doc := sarifLog{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:           meta.ToolName,
					Version:        meta.ToolVersion,
					InformationURI: toolInformationURI,
					Rules:          rules,
				},
			},
			Results: results,
		}},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sarif report: %w", err)
	}
	return string(data) + "\n", nil
}

// sarifLevel maps finding severity to a SARIF level.
func sarifLevel(s issue.Severity) string {
	switch s {
	case issue.SeverityCritical, issue.SeverityHigh:
		return "error"
	case issue.SeverityMedium:
		return "warning"
	case issue.SeverityLow:
		return "note"
	}
	return "warning"
}

// sarifLocationFor uses the issue's file position when present and a
// repository-level pseudo-location otherwise.
func sarifLocationFor(is issue.Issue) sarifLocation {
	loc := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: "."},
		},
	}
	if is.Location != nil {
		loc.PhysicalLocation.ArtifactLocation.URI = is.Location.Path
		if is.Location.Line > 0 {
			loc.PhysicalLocation.Region = &sarifRegion{StartLine: is.Location.Line}
		}
	}
	return loc
}
