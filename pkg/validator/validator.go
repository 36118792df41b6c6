// Package validator provides struct validation utilities with custom validators.
package validator

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gitauditor/scan-action/pkg/domain/issue"
	"github.com/gitauditor/scan-action/pkg/domain/scan"
)

// Validator wraps the go-playground validator with custom validations.
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, e := range v {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return sb.String()
}

// New creates a new Validator with custom validators registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("scan_scope", validateScanScope)
	_ = v.RegisterValidation("check_type", validateCheckType)
	_ = v.RegisterValidation("repo_visibility", validateVisibility)
	_ = v.RegisterValidation("severity_level", validateSeverityLevel)
	_ = v.RegisterValidation("report_format", validateReportFormat)

	return &Validator{validate: v}
}

// Validate validates a struct and returns ValidationErrors if validation fails.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return err
	}

	result := make(ValidationErrors, 0, len(validationErrors))
	for _, e := range validationErrors {
		result = append(result, ValidationError{
			Field:   toSnakeCase(e.Field()),
			Message: formatErrorMessage(e),
		})
	}

	return result
}

// validateScanScope validates that a string is a valid scan Scope.
func validateScanScope(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let 'required' handle empty values
	}
	return scan.Scope(value).IsValid()
}

// validateCheckType validates that a string is a known CheckType.
func validateCheckType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return scan.CheckType(value).IsValid()
}

// validateVisibility validates that a string is a valid Visibility.
func validateVisibility(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return scan.Visibility(value).IsValid()
}

// validateSeverityLevel validates that a string is a valid Severity.
func validateSeverityLevel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return issue.Severity(value).IsValid()
}

// validateReportFormat validates that a string is a valid output Format.
func validateReportFormat(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return scan.Format(value).IsValid()
}

// formatErrorMessage converts validation errors to human-readable messages.
func formatErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s entries", e.Param())
	case "scan_scope":
		return fmt.Sprintf("must be one of: %s", joinScopes())
	case "check_type":
		return fmt.Sprintf("must be one of: %s", joinCheckTypes())
	case "repo_visibility":
		return "must be one of: public, internal, private"
	case "severity_level":
		return fmt.Sprintf("must be one of: %s", joinSeverities())
	case "report_format":
		return "must be one of: table, json, sarif"
	default:
		return fmt.Sprintf("failed validation: %s", e.Tag())
	}
}

// toSnakeCase converts PascalCase/camelCase to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteByte('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

func joinScopes() string {
	var parts []string
	for _, s := range scan.AllScopes() {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}

func joinCheckTypes() string {
	var parts []string
	for _, c := range scan.AllCheckTypes() {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}

func joinSeverities() string {
	var parts []string
	for _, s := range issue.AllSeverities() {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}
