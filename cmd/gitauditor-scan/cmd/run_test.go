package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitauditor/scan-action/internal/config"
	"github.com/gitauditor/scan-action/internal/gitauditor"
	"github.com/gitauditor/scan-action/internal/outcome"
	"github.com/gitauditor/scan-action/internal/output"
	"github.com/gitauditor/scan-action/pkg/domain/shared"
	"github.com/gitauditor/scan-action/pkg/logger"
)

// fakeAPI serves the scan lifecycle for one run: submit, a few status
// reads, then the finding collection.
type fakeAPI struct {
	statusReads atomic.Int64
	requests    atomic.Int64
	issues      []map[string]any
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /scans/repository", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"scan_id": "scan-42"})
	})
	mux.HandleFunc("GET /scans/scan-42/status", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		status := "running"
		if f.statusReads.Add(1) >= 2 {
			status = "completed"
		}
		json.NewEncoder(w).Encode(map[string]string{"scan_id": "scan-42", "status": status})
	})
	mux.HandleFunc("GET /issues/instances", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		json.NewEncoder(w).Encode(f.issues)
	})
	return mux
}

// setupRun points the command at a fake API and a temp outputs file.
// Returns the outputs file path.
func setupRun(t *testing.T, api *fakeAPI) string {
	t.Helper()

	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	outputs := filepath.Join(t.TempDir(), "outputs")

	for _, key := range []string{
		"SCAN_TYPE", "ORGANIZATION_ID", "ENTERPRISE_ID", "CHECK_TYPES",
		"VISIBILITY_FILTER", "SEVERITY_THRESHOLD", "OUTPUT_FORMAT",
		"FAIL_ON_ISSUES", "WAIT_FOR_COMPLETION", "TIMEOUT",
		"SARIF_FILE", "GITHUB_STEP_SUMMARY", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		t.Setenv("INPUT_"+key, "")
	}
	t.Setenv("API_URL", server.URL)
	t.Setenv("GITAUDITOR_TOKEN", "test-token")
	t.Setenv("GITHUB_REPOSITORY", "acme/widgets")
	t.Setenv("GITHUB_OUTPUT", outputs)
	t.Setenv("GITAUDITOR_POLL_INTERVAL", "5ms")
	t.Setenv("LOG_LEVEL", "error")

	flagAPIURL, flagToken, flagVerbose = "", "", false
	t.Cleanup(func() { flagAPIURL, flagToken, flagVerbose = "", "", false })

	return outputs
}

func TestRunPolicyFailure(t *testing.T) {
	api := &fakeAPI{issues: []map[string]any{
		{"id": "i1", "check_type": "branch_protection", "severity": "medium"},
		{"id": "i2", "check_type": "branch_protection", "severity": "medium"},
		{"id": "i3", "check_type": "secrets", "severity": "critical",
			"context": map[string]any{"description": "API key in config", "file_path": "config.yml", "line": 4}},
	}}
	outputs := setupRun(t, api)
	t.Setenv("SEVERITY_THRESHOLD", "high")
	t.Setenv("FAIL_ON_ISSUES", "true")
	t.Setenv("OUTPUT_FORMAT", "json")

	err := runScan(runCmd, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errPolicyFailure))
	assert.Contains(t, err.Error(), "1 issues at or above high severity")

	data, err2 := os.ReadFile(outputs)
	require.NoError(t, err2)
	content := string(data)
	assert.Contains(t, content, "scan_id=scan-42\n")
	assert.Contains(t, content, "issues_found=3\n")
	assert.Contains(t, content, "critical_issues=1\n")
	assert.Contains(t, content, "medium_issues=2\n")
	assert.Contains(t, content, "high_issues=0\n")
}

func TestRunCleanWhenPolicyDisabled(t *testing.T) {
	api := &fakeAPI{issues: []map[string]any{
		{"id": "i1", "check_type": "secrets", "severity": "critical"},
	}}
	setupRun(t, api)
	t.Setenv("SEVERITY_THRESHOLD", "high")
	t.Setenv("FAIL_ON_ISSUES", "false")

	assert.NoError(t, runScan(runCmd, nil))
}

func TestRunBelowThresholdPasses(t *testing.T) {
	api := &fakeAPI{issues: []map[string]any{
		{"id": "i1", "check_type": "dependabot", "severity": "low"},
		{"id": "i2", "check_type": "dependabot", "severity": "medium"},
	}}
	setupRun(t, api)
	t.Setenv("SEVERITY_THRESHOLD", "high")
	t.Setenv("FAIL_ON_ISSUES", "true")

	assert.NoError(t, runScan(runCmd, nil))
}

func TestRunWithoutWaitingStopsAfterSubmit(t *testing.T) {
	api := &fakeAPI{}
	outputs := setupRun(t, api)
	t.Setenv("WAIT_FOR_COMPLETION", "false")

	require.NoError(t, runScan(runCmd, nil))

	assert.Equal(t, int64(1), api.requests.Load(), "only the submit call is made")

	data, err := os.ReadFile(outputs)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scan_id=scan-42\n")
	assert.Contains(t, string(data), "status=queued\n")
}

func TestRunWritesSARIF(t *testing.T) {
	api := &fakeAPI{issues: []map[string]any{
		{"id": "i1", "check_type": "secrets", "severity": "high",
			"context": map[string]any{"file_path": "deploy.sh", "line": 12}},
	}}
	outputs := setupRun(t, api)
	sarifPath := filepath.Join(t.TempDir(), "results.sarif")
	t.Setenv("SARIF_FILE", sarifPath)
	t.Setenv("OUTPUT_FORMAT", "sarif")
	t.Setenv("SEVERITY_THRESHOLD", "medium")

	require.NoError(t, runScan(runCmd, nil))

	data, err := os.ReadFile(sarifPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "2.1.0"`)
	assert.Contains(t, string(data), "deploy.sh")

	recorded, err := os.ReadFile(outputs)
	require.NoError(t, err)
	assert.Contains(t, string(recorded), "sarif_file="+sarifPath)
}

func TestRunRequiresToken(t *testing.T) {
	api := &fakeAPI{}
	setupRun(t, api)
	t.Setenv("GITAUDITOR_TOKEN", "")

	err := runScan(runCmd, nil)

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, int64(0), api.requests.Load(), "no network call before validation passes")
}

func TestRunRejectsBadInputsBeforeNetwork(t *testing.T) {
	api := &fakeAPI{}
	setupRun(t, api)
	t.Setenv("SEVERITY_THRESHOLD", "catastrophic")

	err := runScan(runCmd, nil)

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.True(t, strings.Contains(err.Error(), "severity"))
	assert.Equal(t, int64(0), api.requests.Load())
}

func TestReportTimeoutRecordsLastStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scans/scan-42/status", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"scan_id": "scan-42", "status": "running"})
	}))
	t.Cleanup(server.Close)

	outputs := filepath.Join(t.TempDir(), "outputs")
	client := gitauditor.NewClient(config.APIConfig{
		BaseURL:     server.URL,
		Token:       "t",
		MaxRetries:  0,
		RetryBase:   time.Millisecond,
		HTTPTimeout: 5 * time.Second,
	}, logger.NewNop())
	sink := output.NewSink(config.OutputConfig{OutputFile: outputs}, logger.NewNop())

	reportTimeout(context.Background(), client, sink, "scan-42", logger.NewNop())

	data, err := os.ReadFile(outputs)
	require.NoError(t, err)
	// The deadline outcome records only the last observed status; no
	// result outputs and no report are produced.
	assert.Equal(t, "status=running\n", string(data))
}

func TestReportTimeoutWithUnreachableAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	outputs := filepath.Join(t.TempDir(), "outputs")
	client := gitauditor.NewClient(config.APIConfig{
		BaseURL:     server.URL,
		Token:       "t",
		MaxRetries:  0,
		RetryBase:   time.Millisecond,
		HTTPTimeout: time.Second,
	}, logger.NewNop())
	sink := output.NewSink(config.OutputConfig{OutputFile: outputs}, logger.NewNop())

	reportTimeout(context.Background(), client, sink, "scan-42", logger.NewNop())

	data, err := os.ReadFile(outputs)
	require.NoError(t, err)
	assert.Equal(t, "status=unknown\n", string(data))
}

func TestExecuteExitCodes(t *testing.T) {
	assert.Equal(t, 1, outcome.ExitPolicyFailure)
	assert.Equal(t, 2, outcome.ExitCodeFor(shared.NewDomainError("VALIDATION", "bad", shared.ErrValidation)))
	assert.Equal(t, 6, outcome.ExitCodeFor(shared.NewDomainError("TIMEOUT", "late", shared.ErrTimeout)))
}
