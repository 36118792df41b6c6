package scan

// Scope represents the target scope of a scan.
type Scope string

const (
	ScopeRepository   Scope = "repository"
	ScopeOrganization Scope = "organization"
	ScopeEnterprise   Scope = "enterprise"
)

// AllScopes returns all valid scopes.
func AllScopes() []Scope {
	return []Scope{ScopeRepository, ScopeOrganization, ScopeEnterprise}
}

// IsValid checks if the scope is a valid scope value.
func (s Scope) IsValid() bool {
	switch s {
	case ScopeRepository, ScopeOrganization, ScopeEnterprise:
		return true
	}
	return false
}

// RequiresIdentifier returns true if the scope needs an explicit
// organization or enterprise identifier.
func (s Scope) RequiresIdentifier() bool {
	return s == ScopeOrganization || s == ScopeEnterprise
}

// String returns the string representation of the scope.
func (s Scope) String() string {
	return string(s)
}

// CheckType represents a named category of posture rule.
type CheckType string

const (
	CheckBranchProtection CheckType = "branch_protection"
	CheckAdminRights      CheckType = "admin_rights"
	CheckDependabot       CheckType = "dependabot"
	CheckSecrets          CheckType = "secrets"
	CheckSecretScanning   CheckType = "secret_scanning"
	CheckIAMReview        CheckType = "iam_review"
	CheckWebhooks         CheckType = "webhooks"
)

// AllCheckTypes returns all valid check types.
func AllCheckTypes() []CheckType {
	return []CheckType{
		CheckBranchProtection,
		CheckAdminRights,
		CheckDependabot,
		CheckSecrets,
		CheckSecretScanning,
		CheckIAMReview,
		CheckWebhooks,
	}
}

// DefaultCheckTypes returns the check types used when none are configured.
func DefaultCheckTypes() []CheckType {
	return []CheckType{
		CheckBranchProtection,
		CheckAdminRights,
		CheckDependabot,
		CheckSecrets,
		CheckSecretScanning,
	}
}

// IsValid checks if the check type belongs to the known set.
func (c CheckType) IsValid() bool {
	switch c {
	case CheckBranchProtection, CheckAdminRights, CheckDependabot,
		CheckSecrets, CheckSecretScanning, CheckIAMReview, CheckWebhooks:
		return true
	}
	return false
}

// String returns the string representation of the check type.
func (c CheckType) String() string {
	return string(c)
}

// Visibility represents a repository visibility filter value.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
	VisibilityPrivate  Visibility = "private"
)

// AllVisibilities returns all valid visibility filter values.
func AllVisibilities() []Visibility {
	return []Visibility{VisibilityPublic, VisibilityInternal, VisibilityPrivate}
}

// IsValid checks if the visibility is a valid filter value.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityInternal, VisibilityPrivate:
		return true
	}
	return false
}

// String returns the string representation of the visibility.
func (v Visibility) String() string {
	return string(v)
}

// Format represents a report output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// AllFormats returns all valid output formats.
func AllFormats() []Format {
	return []Format{FormatTable, FormatJSON, FormatSARIF}
}

// IsValid checks if the format is a valid output format.
func (f Format) IsValid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatSARIF:
		return true
	}
	return false
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Status represents the server-observed scan job status.
type Status string

const (
	StatusQueued    Status = "queued"    // Scan accepted, waiting to start
	StatusPending   Status = "pending"   // Scan assigned, about to start
	StatusRunning   Status = "running"   // Scan actively running
	StatusCompleted Status = "completed" // Scan finished successfully
	StatusFailed    Status = "failed"    // Scan failed on the server
	StatusCanceled  Status = "cancelled" // Scan was canceled server-side
	StatusTimeout   Status = "timeout"   // Scan exceeded the server time limit
)

// IsValid checks if the status is a valid status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusQueued, StatusPending, StatusRunning,
		StatusCompleted, StatusFailed, StatusCanceled, StatusTimeout:
		return true
	}
	return false
}

// IsTerminal returns true if the status is a terminal (final) state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCanceled, StatusTimeout:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}
