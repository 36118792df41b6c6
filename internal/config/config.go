// Package config collects all run configuration from the process
// environment into one immutable value at the boundary.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gitauditor/scan-action/pkg/domain/scan"
)

// DefaultAPIURL is the production GitAuditor API endpoint.
const DefaultAPIURL = "https://api.gitauditor.io"

// DefaultSARIFFile is where the SARIF report is written when requested.
const DefaultSARIFFile = "gitauditor-results.sarif"

// Config holds all CLI configuration.
type Config struct {
	API    APIConfig
	Scan   ScanConfig
	Poll   PollConfig
	Output OutputConfig
	Log    LogConfig
	GitHub GitHubContext
}

// APIConfig holds remote API connection configuration.
type APIConfig struct {
	BaseURL     string
	Token       string
	MaxRetries  int
	RetryBase   time.Duration
	HTTPTimeout time.Duration
}

// ScanConfig holds the raw scan request inputs.
type ScanConfig struct {
	Type              string
	OrganizationID    string
	EnterpriseID      string
	CheckTypes        []string
	VisibilityFilter  []string
	SeverityThreshold string
	OutputFormats     []string
	FailOnIssues      bool
	Wait              bool
	Timeout           time.Duration
}

// PollConfig bounds the status polling loop.
type PollConfig struct {
	Interval time.Duration
	// MaxStatusErrors is how many consecutive status-read failures the
	// loop tolerates before giving up.
	MaxStatusErrors int
}

// OutputConfig holds report sink configuration.
type OutputConfig struct {
	SARIFFile   string
	OutputFile  string // GITHUB_OUTPUT target, empty means stdout fallback
	SummaryFile string // GITHUB_STEP_SUMMARY target, empty disables
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// GitHubContext carries CI runner context used for repository scans.
type GitHubContext struct {
	Repository string // "owner/name"
	Owner      string
	RepoName   string
	Event      string
	Ref        string
	SHA        string
}

// Load reads configuration from the environment. Values are read once;
// the returned Config is never mutated afterwards.
func Load() *Config {
	timeoutMinutes := getInputInt("TIMEOUT", 30)

	cfg := &Config{
		API: APIConfig{
			BaseURL:     strings.TrimRight(getInput("API_URL", DefaultAPIURL), "/"),
			Token:       getInput("GITAUDITOR_TOKEN", ""),
			MaxRetries:  getInputInt("GITAUDITOR_MAX_RETRIES", 3),
			RetryBase:   getInputDuration("GITAUDITOR_RETRY_BASE", time.Second),
			HTTPTimeout: getInputDuration("GITAUDITOR_HTTP_TIMEOUT", 30*time.Second),
		},
		Scan: ScanConfig{
			Type:              getInput("SCAN_TYPE", string(scan.ScopeRepository)),
			OrganizationID:    getInput("ORGANIZATION_ID", ""),
			EnterpriseID:      getInput("ENTERPRISE_ID", ""),
			CheckTypes:        getInputSlice("CHECK_TYPES", checkTypeDefaults()),
			VisibilityFilter:  getInputSlice("VISIBILITY_FILTER", []string{"public", "internal", "private"}),
			SeverityThreshold: getInput("SEVERITY_THRESHOLD", "medium"),
			OutputFormats:     getInputSlice("OUTPUT_FORMAT", []string{"table"}),
			FailOnIssues:      getInputBool("FAIL_ON_ISSUES", false),
			Wait:              getInputBool("WAIT_FOR_COMPLETION", true),
			Timeout:           time.Duration(timeoutMinutes) * time.Minute,
		},
		Poll: PollConfig{
			Interval:        getInputDuration("GITAUDITOR_POLL_INTERVAL", 10*time.Second),
			MaxStatusErrors: getInputInt("GITAUDITOR_POLL_ERROR_BUDGET", 5),
		},
		Output: OutputConfig{
			SARIFFile:   getInput("SARIF_FILE", DefaultSARIFFile),
			OutputFile:  os.Getenv("GITHUB_OUTPUT"),
			SummaryFile: os.Getenv("GITHUB_STEP_SUMMARY"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		GitHub: loadGitHubContext(),
	}

	return cfg
}

// ScanOptions converts the raw scan inputs into domain options.
func (c *Config) ScanOptions() scan.Options {
	return scan.Options{
		Scope:             c.Scan.Type,
		OrganizationID:    c.Scan.OrganizationID,
		EnterpriseID:      c.Scan.EnterpriseID,
		Repository:        c.GitHub.Repository,
		CheckTypes:        c.Scan.CheckTypes,
		VisibilityFilter:  c.Scan.VisibilityFilter,
		SeverityThreshold: c.Scan.SeverityThreshold,
		Formats:           c.Scan.OutputFormats,
		FailOnIssues:      c.Scan.FailOnIssues,
		Wait:              c.Scan.Wait,
		Timeout:           c.Scan.Timeout,
	}
}

// ScanURL returns the human-facing link for a scan. The dashboard lives
// on the app. host mirroring the api. host.
func (c *Config) ScanURL(scanID string) string {
	return strings.Replace(c.API.BaseURL, "api.", "app.", 1) + "/scans/" + scanID
}

func checkTypeDefaults() []string {
	defaults := scan.DefaultCheckTypes()
	out := make([]string, 0, len(defaults))
	for _, ct := range defaults {
		out = append(out, ct.String())
	}
	return out
}

func loadGitHubContext() GitHubContext {
	ctx := GitHubContext{
		Repository: os.Getenv("GITHUB_REPOSITORY"),
		Event:      os.Getenv("GITHUB_EVENT_NAME"),
		Ref:        os.Getenv("GITHUB_REF"),
		SHA:        os.Getenv("GITHUB_SHA"),
	}
	if owner, name, ok := strings.Cut(ctx.Repository, "/"); ok {
		ctx.Owner = owner
		ctx.RepoName = name
	}
	return ctx
}

// getInput reads an environment value, falling back to the GitHub
// Actions INPUT_ form of the same name before the default.
func getInput(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := os.Getenv("INPUT_" + key); value != "" {
		return value
	}
	return defaultValue
}

func getInputBool(key string, defaultValue bool) bool {
	if value := getInput(key, ""); value != "" {
		if boolVal, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getInputSlice(key string, defaultValue []string) []string {
	if value := getInput(key, ""); value != "" {
		var result []string
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				result = append(result, v)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInputInt(key string, defaultValue int) int {
	if value := getInput(key, ""); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInputDuration(key string, defaultValue time.Duration) time.Duration {
	if value := getInput(key, ""); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
