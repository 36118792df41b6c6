// Package cmd implements the gitauditor-scan command line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gitauditor/scan-action/internal/outcome"
	"github.com/gitauditor/scan-action/pkg/version"
)

var (
	// Global flags
	flagAPIURL  string
	flagToken   string
	flagContext string
	flagVerbose bool
)

// errPolicyFailure marks a run that finished cleanly but found issues
// at or above the configured severity threshold.
var errPolicyFailure = errors.New("issues at or above the severity threshold")

var rootCmd = &cobra.Command{
	Use:   "gitauditor-scan",
	Short: "Submit GitAuditor security-posture scans from CI",
	Long: `gitauditor-scan submits a security-posture scan to the GitAuditor API,
waits for the asynchronous job to finish, and renders the findings as
Table, JSON, or SARIF reports for the CI system.

Configuration comes from the environment (GITAUDITOR_TOKEN, SCAN_TYPE,
CHECK_TYPES, ...) with GitHub Actions INPUT_* fallbacks. Use
"gitauditor-scan config set-context" for local development credentials.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code. Each
// failure category maps to its own code so CI can distinguish a policy
// failure from a timed-out or misconfigured run.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return outcome.ExitOK
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, errPolicyFailure) {
		return outcome.ExitPolicyFailure
	}
	return outcome.ExitCodeFor(err)
}

func init() {
	cobra.OnInitialize(initFlags)

	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Override API URL (env: API_URL)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Override API token (env: GITAUDITOR_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&flagContext, "context", "c", "", "Use specific config context (env: GITAUDITOR_CONTEXT)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initFlags resolves connection settings not supplied on the command
// line from the environment, then from the context config file.
func initFlags() {
	if flagAPIURL == "" {
		flagAPIURL = os.Getenv("API_URL")
	}
	if flagToken == "" {
		flagToken = os.Getenv("GITAUDITOR_TOKEN")
	}

	if flagAPIURL == "" || flagToken == "" {
		u, t := resolveFromConfigFile()
		if flagAPIURL == "" {
			flagAPIURL = u
		}
		if flagToken == "" {
			flagToken = t
		}
	}
}

func resolveFromConfigFile() (string, string) {
	ctxName := flagContext
	if ctxName == "" {
		ctxName = os.Getenv("GITAUDITOR_CONTEXT")
	}

	cfg, err := loadContextConfig()
	if err != nil {
		return "", ""
	}

	if ctxName == "" {
		ctxName = cfg.CurrentContext
	}

	ctx := cfg.GetContext(ctxName)
	if ctx == nil {
		return "", ""
	}

	token := ctx.Context.Token
	if token == "" && ctx.Context.TokenFile != "" {
		data, err := os.ReadFile(expandPath(ctx.Context.TokenFile))
		if err == nil {
			token = string(data)
		}
	}

	return ctx.Context.APIURL, token
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gitauditor-scan version %s\n", version.Get())
		fmt.Printf("  Go:       %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:  %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}
