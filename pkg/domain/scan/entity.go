// Package scan defines the scan request entity and its enumerations.
package scan

import (
	"fmt"
	"time"

	"github.com/gitauditor/scan-action/pkg/domain/issue"
	"github.com/gitauditor/scan-action/pkg/domain/shared"
)

// Options holds raw, unvalidated configuration collected at the process
// boundary. Struct tags drive the boundary-level validator; NewRequest
// re-checks the same constraints so the entity is safe standalone.
type Options struct {
	Scope             string   `validate:"required,scan_scope"`
	OrganizationID    string   `validate:"-"`
	EnterpriseID      string   `validate:"-"`
	Repository        string   `validate:"-"`
	CheckTypes        []string `validate:"min=1,dive,check_type"`
	VisibilityFilter  []string `validate:"dive,repo_visibility"`
	SeverityThreshold string   `validate:"required,severity_level"`
	Formats           []string `validate:"min=1,dive,report_format"`
	FailOnIssues      bool
	Wait              bool
	Timeout           time.Duration
}

// Request is the immutable scan request built once per run.
type Request struct {
	Scope             Scope
	OrganizationID    string
	EnterpriseID      string
	Repository        string
	CheckTypes        []CheckType
	VisibilityFilter  []Visibility
	SeverityThreshold issue.Severity
	Formats           []Format
	FailOnIssues      bool
	Wait              bool
	Timeout           time.Duration
}

// Identifier returns the scope identifier the request targets.
func (r *Request) Identifier() string {
	switch r.Scope {
	case ScopeOrganization:
		return r.OrganizationID
	case ScopeEnterprise:
		return r.EnterpriseID
	}
	return r.Repository
}

// WantsFormat reports whether the given output format was requested.
func (r *Request) WantsFormat(f Format) bool {
	for _, got := range r.Formats {
		if got == f {
			return true
		}
	}
	return false
}

func invalid(field, message string) error {
	return shared.NewDomainError("VALIDATION", field+": "+message, shared.ErrValidation)
}

// NewRequest validates options and assembles an immutable Request.
// It fails fast on the first offending field and never partially
// constructs a request. No side effects, no network.
func NewRequest(opts Options) (*Request, error) {
	scope := Scope(opts.Scope)
	if !scope.IsValid() {
		return nil, invalid("scope", fmt.Sprintf("must be one of %v, got %q", AllScopes(), opts.Scope))
	}

	switch scope {
	case ScopeOrganization:
		if opts.OrganizationID == "" {
			return nil, invalid("organization_id", "required for organization scans")
		}
	case ScopeEnterprise:
		if opts.EnterpriseID == "" {
			return nil, invalid("enterprise_id", "required for enterprise scans")
		}
	case ScopeRepository:
		if opts.Repository == "" {
			return nil, invalid("repository", "required for repository scans")
		}
	}

	if len(opts.CheckTypes) == 0 {
		return nil, invalid("check_types", "at least one check type is required")
	}
	checks := make([]CheckType, 0, len(opts.CheckTypes))
	for _, raw := range opts.CheckTypes {
		ct := CheckType(raw)
		if !ct.IsValid() {
			return nil, invalid("check_types", fmt.Sprintf("unknown check type %q", raw))
		}
		checks = append(checks, ct)
	}

	visibilities := make([]Visibility, 0, len(opts.VisibilityFilter))
	for _, raw := range opts.VisibilityFilter {
		v := Visibility(raw)
		if !v.IsValid() {
			return nil, invalid("visibility_filter", fmt.Sprintf("unknown visibility %q", raw))
		}
		visibilities = append(visibilities, v)
	}

	threshold := issue.Severity(opts.SeverityThreshold)
	if !threshold.IsValid() {
		return nil, invalid("severity_threshold", fmt.Sprintf("unknown severity %q", opts.SeverityThreshold))
	}

	if len(opts.Formats) == 0 {
		return nil, invalid("output_format", "at least one output format is required")
	}
	formats := make([]Format, 0, len(opts.Formats))
	for _, raw := range opts.Formats {
		f := Format(raw)
		if !f.IsValid() {
			return nil, invalid("output_format", fmt.Sprintf("unknown format %q", raw))
		}
		formats = append(formats, f)
	}

	if opts.Timeout <= 0 {
		return nil, invalid("timeout", "must be greater than zero")
	}

	return &Request{
		Scope:             scope,
		OrganizationID:    opts.OrganizationID,
		EnterpriseID:      opts.EnterpriseID,
		Repository:        opts.Repository,
		CheckTypes:        checks,
		VisibilityFilter:  visibilities,
		SeverityThreshold: threshold,
		Formats:           formats,
		FailOnIssues:      opts.FailOnIssues,
		Wait:              opts.Wait,
		Timeout:           opts.Timeout,
	}, nil
}
