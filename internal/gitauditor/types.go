package gitauditor

import "github.com/gitauditor/scan-action/pkg/domain/scan"

// Request/response types matching the GitAuditor API schema.

type scanConfiguration struct {
	CheckTypes []scan.CheckType `json:"check_types"`
}

type repositoryScanRequest struct {
	RepositoryID  string            `json:"repository_id"`
	Configuration scanConfiguration `json:"configuration"`
}

type organizationScanRequest struct {
	OrganizationID   string            `json:"organization_id"`
	Configuration    scanConfiguration `json:"configuration"`
	VisibilityFilter []scan.Visibility `json:"visibility_filter"`
}

type enterpriseScanRequest struct {
	EnterpriseID     string            `json:"enterprise_id"`
	Configuration    scanConfiguration `json:"configuration"`
	VisibilityFilter []scan.Visibility `json:"visibility_filter"`
}

type submitResponse struct {
	ScanID string `json:"scan_id"`
}

// JobStatus is one observation of a scan job's server-side state.
type JobStatus struct {
	ScanID string      `json:"scan_id"`
	Status scan.Status `json:"status"`
	Scope  string      `json:"scope,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// IssueContext carries the finding detail block.
type IssueContext struct {
	Description string `json:"description,omitempty"`
	FilePath    string `json:"file_path,omitempty"`
	Line        int    `json:"line,omitempty"`
}

// RawIssue is one finding exactly as the service returns it. The
// aggregator normalizes these into domain issues.
type RawIssue struct {
	ID         string       `json:"id"`
	IssueID    string       `json:"issue_id"`
	CheckType  string       `json:"check_type"`
	Severity   string       `json:"severity"`
	Title      string       `json:"title,omitempty"`
	Repository string       `json:"repository,omitempty"`
	Context    IssueContext `json:"context"`
}

// Organization is a GitAuditor organization record.
type Organization struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
}

type apiErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}
