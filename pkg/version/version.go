// Package version resolves the CLI version at runtime.
package version

import (
	"os"
	"path/filepath"
	"strings"
)

// fallback is used when no other source provides a version. Build
// pipelines normally override it via -ldflags.
var fallback = "0.1.0-dev"

// SetFallback sets the build-time version injected through ldflags.
func SetFallback(v string) {
	if v != "" {
		fallback = v
	}
}

// Get resolves the current version. Sources, in order:
//  1. VERSION file next to the binary
//  2. GITAUDITOR_ACTION_VERSION environment variable
//  3. build-flag / default fallback
func Get() string {
	if exe, err := os.Executable(); err == nil {
		data, err := os.ReadFile(filepath.Join(filepath.Dir(exe), "VERSION"))
		if err == nil {
			if v := strings.TrimSpace(string(data)); v != "" {
				return v
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("GITAUDITOR_ACTION_VERSION")); v != "" {
		return v
	}

	return fallback
}

// UserAgent returns the User-Agent header value sent on API requests.
func UserAgent() string {
	return "gitauditor-scan/" + Get()
}
