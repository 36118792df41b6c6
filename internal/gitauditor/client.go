// Package gitauditor implements the HTTP client for the GitAuditor
// scanning API: scan submission, status reads, and issue retrieval.
package gitauditor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gitauditor/scan-action/internal/config"
	"github.com/gitauditor/scan-action/pkg/domain/scan"
	"github.com/gitauditor/scan-action/pkg/domain/shared"
	"github.com/gitauditor/scan-action/pkg/logger"
	"github.com/gitauditor/scan-action/pkg/version"
)

// Client is the GitAuditor API HTTP client. One client serves a single
// run; every request carries the same correlation ID.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *logger.Logger
	maxRetries int
	retryBase  time.Duration
	requestID  string
}

// NewClient creates a new API client.
func NewClient(cfg config.APIConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		log:        log,
		maxRetries: cfg.MaxRetries,
		retryBase:  cfg.RetryBase,
		requestID:  uuid.NewString(),
	}
}

// Submit creates a scan for the request's scope and returns the
// server-assigned job id.
func (c *Client) Submit(ctx context.Context, req *scan.Request) (string, error) {
	var (
		path string
		body any
	)

	cfg := scanConfiguration{CheckTypes: req.CheckTypes}
	switch req.Scope {
	case scan.ScopeRepository:
		path = "/scans/repository"
		body = repositoryScanRequest{
			RepositoryID:  RepositoryID(req.Repository),
			Configuration: cfg,
		}
	case scan.ScopeOrganization:
		path = "/scans/organization"
		body = organizationScanRequest{
			OrganizationID:   req.OrganizationID,
			Configuration:    cfg,
			VisibilityFilter: req.VisibilityFilter,
		}
	case scan.ScopeEnterprise:
		path = "/scans/enterprise"
		body = enterpriseScanRequest{
			EnterpriseID:     req.EnterpriseID,
			Configuration:    cfg,
			VisibilityFilter: req.VisibilityFilter,
		}
	default:
		return "", shared.NewDomainError("VALIDATION",
			fmt.Sprintf("unsupported scope %q", req.Scope), shared.ErrValidation)
	}

	data, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return "", err
	}

	var resp submitResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", shared.NewDomainError("BAD_RESPONSE", "parse submit response", shared.ErrDataFormat)
	}
	if resp.ScanID == "" {
		return "", shared.NewDomainError("BAD_RESPONSE", "submit response missing scan_id", shared.ErrDataFormat)
	}
	return resp.ScanID, nil
}

// GetStatus reads the current job state. It is a single idempotent read
// and never mutates server state.
func (c *Client) GetStatus(ctx context.Context, scanID string) (*JobStatus, error) {
	data, err := c.do(ctx, http.MethodGet, "/scans/"+scanID+"/status", nil)
	if err != nil {
		return nil, err
	}

	var status JobStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, shared.NewDomainError("BAD_RESPONSE", "parse status response", shared.ErrDataFormat)
	}
	if status.ScanID == "" {
		status.ScanID = scanID
	}
	return &status, nil
}

// GetIssues retrieves the full finding collection for a completed scan.
func (c *Client) GetIssues(ctx context.Context, scanID string) ([]RawIssue, error) {
	data, err := c.do(ctx, http.MethodGet, "/issues/instances?scan_id="+scanID, nil)
	if err != nil {
		return nil, err
	}

	var issues []RawIssue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, shared.NewDomainError("BAD_RESPONSE", "parse issues response", shared.ErrDataFormat)
	}
	return issues, nil
}

// LookupOrganization resolves a GitHub organization name to its
// GitAuditor organization record.
func (c *Client) LookupOrganization(ctx context.Context, name string) (*Organization, error) {
	data, err := c.do(ctx, http.MethodGet, "/organizations", nil)
	if err != nil {
		return nil, err
	}

	var orgs []Organization
	if err := json.Unmarshal(data, &orgs); err != nil {
		return nil, shared.NewDomainError("BAD_RESPONSE", "parse organizations response", shared.ErrDataFormat)
	}

	want := "github_" + name
	for i := range orgs {
		if orgs[i].ExternalID == want {
			return &orgs[i], nil
		}
	}
	return nil, shared.NewDomainError("ORG_NOT_FOUND",
		fmt.Sprintf("organization %q not known to GitAuditor", name), shared.ErrNotFound)
}

// RepositoryID derives the GitAuditor repository identifier from an
// "owner/name" GitHub repository path.
func RepositoryID(repository string) string {
	return "github_" + strings.ReplaceAll(repository, "/", "_")
}

// do performs one API call with a bounded retry budget for transient
// failures. Non-transient 4xx responses map to their error category and
// propagate immediately.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		payload = data
	}

	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff, cancellable between attempts
			select {
			case <-ctx.Done():
				return nil, ctxError(ctx)
			case <-time.After(c.retryBase << (attempt - 1)):
			}
			c.log.Debug("retrying request", "method", method, "path", path, "attempt", attempt)
		}

		data, retryable, err := c.once(ctx, method, url, payload)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctxError(ctx)
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, shared.NewDomainError("NETWORK",
		fmt.Sprintf("%s %s failed after %d attempts", method, path, c.maxRetries+1),
		errors.Join(shared.ErrNetwork, lastErr))
}

// once performs a single HTTP exchange. The bool result reports whether
// the failure is transient and worth retrying.
func (c *Client) once(ctx context.Context, method, url string, payload []byte) ([]byte, bool, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("X-Request-ID", c.requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode < 400:
		return respBody, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server returned %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	default:
		return nil, false, mapAPIError(resp.StatusCode, respBody)
	}
}

// mapAPIError converts a non-transient 4xx response into its error
// category, preserving the server-provided message when present.
func mapAPIError(statusCode int, body []byte) error {
	message := serverMessage(body)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if message == "" {
			message = "credential rejected by the GitAuditor API"
		}
		return shared.NewDomainError("AUTH", message, shared.ErrAuthentication)
	case http.StatusNotFound:
		if message == "" {
			message = "resource not found"
		}
		return shared.NewDomainError("NOT_FOUND", message, shared.ErrNotFound)
	default:
		if message == "" {
			message = fmt.Sprintf("request rejected: %d %s", statusCode, http.StatusText(statusCode))
		}
		return shared.NewDomainError("REJECTED", message, shared.ErrValidation)
	}
}

func serverMessage(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return parsed.Message
}

func ctxError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return shared.NewDomainError("TIMEOUT", "request deadline exceeded", shared.ErrTimeout)
	}
	return shared.NewDomainError("CANCELED", "run interrupted", shared.ErrCanceled)
}
