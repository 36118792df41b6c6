package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitauditor/scan-action/internal/aggregate"
	"github.com/gitauditor/scan-action/internal/config"
	"github.com/gitauditor/scan-action/internal/gitauditor"
	"github.com/gitauditor/scan-action/internal/outcome"
	"github.com/gitauditor/scan-action/internal/output"
	"github.com/gitauditor/scan-action/internal/poll"
	"github.com/gitauditor/scan-action/internal/report"
	"github.com/gitauditor/scan-action/pkg/domain/issue"
	"github.com/gitauditor/scan-action/pkg/domain/scan"
	"github.com/gitauditor/scan-action/pkg/domain/shared"
	"github.com/gitauditor/scan-action/pkg/logger"
	"github.com/gitauditor/scan-action/pkg/validator"
	"github.com/gitauditor/scan-action/pkg/version"
)

// finalStatusGrace bounds the best-effort status read after a timeout.
const finalStatusGrace = 15 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Submit a scan and report the results",
	Long: `run submits a security-posture scan, optionally waits for it to
complete, and renders the findings in every requested output format.`,
	RunE: runScan,
	Args: cobra.NoArgs,
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if flagAPIURL != "" {
		cfg.API.BaseURL = strings.TrimRight(flagAPIURL, "/")
	}
	if flagToken != "" {
		cfg.API.Token = flagToken
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Info("starting GitAuditor scan", "version", version.Get(), "api_url", cfg.API.BaseURL)

	if cfg.API.Token == "" {
		return shared.NewDomainError("VALIDATION",
			"token: GITAUDITOR_TOKEN is required", shared.ErrValidation)
	}

	opts := cfg.ScanOptions()
	if err := validator.New().Validate(opts); err != nil {
		return shared.NewDomainError("VALIDATION", err.Error(), shared.ErrValidation)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := gitauditor.NewClient(cfg.API, log)
	sink := output.NewSink(cfg.Output, log)

	// In CI an organization scan may rely on the runner's repository
	// owner instead of an explicit identifier.
	if opts.Scope == scan.ScopeOrganization.String() && opts.OrganizationID == "" && cfg.GitHub.Owner != "" {
		org, err := client.LookupOrganization(ctx, cfg.GitHub.Owner)
		if err != nil {
			return err
		}
		log.Info("resolved organization", "owner", cfg.GitHub.Owner, "organization_id", org.ID)
		opts.OrganizationID = org.ID
	}

	req, err := scan.NewRequest(opts)
	if err != nil {
		return err
	}

	scanID, err := client.Submit(ctx, req)
	if err != nil {
		return err
	}
	log.Info("scan created", "scan_id", scanID, "scope", req.Scope)

	if err := sink.Set("scan_id", scanID); err != nil {
		return err
	}
	if err := sink.Set("status", scan.StatusQueued.String()); err != nil {
		return err
	}

	if !req.Wait {
		log.Info("not waiting for scan completion", "scan_id", scanID)
		return nil
	}

	pollCtx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	status, err := poll.Await(pollCtx, client, scanID, cfg.Poll, log)
	if err != nil {
		if shared.IsTimeout(err) {
			reportTimeout(ctx, client, sink, scanID, log)
		}
		return err
	}

	raw, err := client.GetIssues(ctx, scanID)
	if err != nil {
		return err
	}
	log.Info("issues retrieved", "scan_id", scanID, "count", len(raw))

	res, err := aggregate.Build(scanID, status.Status, raw)
	if err != nil {
		return err
	}

	meta := report.Meta{
		ToolName:    "GitAuditor",
		ToolVersion: version.Get(),
		ScanURL:     cfg.ScanURL(scanID),
	}

	if err := sink.SetResult(res, meta.ScanURL); err != nil {
		return err
	}
	if err := renderReports(req, res, meta, sink); err != nil {
		return err
	}
	if err := sink.AppendSummary(report.Summary(res, meta)); err != nil {
		return err
	}

	oc := outcome.Evaluate(res, req.SeverityThreshold, req.FailOnIssues)
	if oc.ExitFailure {
		return fmt.Errorf("scan found %d issues at or above %s severity: %w",
			oc.AboveThreshold, req.SeverityThreshold, errPolicyFailure)
	}

	log.Info("scan completed", "scan_id", scanID, "issues_found", res.Total())
	return nil
}

// renderReports produces every requested format. Table and JSON go to
// stdout; SARIF is written to disk and its path exposed as an output.
func renderReports(req *scan.Request, res *issue.Result, meta report.Meta, sink *output.Sink) error {
	for _, format := range req.Formats {
		switch format {
		case scan.FormatTable:
			fmt.Print(report.Table(res))
		case scan.FormatJSON:
			doc, err := report.JSON(res, meta)
			if err != nil {
				return err
			}
			fmt.Print(doc)
		case scan.FormatSARIF:
			doc, err := report.SARIF(res, meta)
			if err != nil {
				return err
			}
			if err := sink.WriteSARIF(doc); err != nil {
				return err
			}
		}
	}
	return nil
}

// reportTimeout records the last observed status before surfacing the
// timeout, so the operator still gets the job id and state.
func reportTimeout(ctx context.Context, client *gitauditor.Client, sink *output.Sink, scanID string, log *logger.Logger) {
	graceCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalStatusGrace)
	defer cancel()

	state := "unknown"
	if status, err := client.GetStatus(graceCtx, scanID); err == nil {
		state = status.Status.String()
	}
	if err := sink.Set("status", state); err != nil {
		log.Warn("could not record final status", "scan_id", scanID, "error", err)
	}
	log.Warn("scan did not finish before the deadline", "scan_id", scanID, "last_status", state)
}
