// Package poll waits for a scan job to reach a terminal state.
package poll

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/gitauditor/scan-action/internal/config"
	"github.com/gitauditor/scan-action/internal/gitauditor"
	"github.com/gitauditor/scan-action/pkg/domain/scan"
	"github.com/gitauditor/scan-action/pkg/domain/shared"
	"github.com/gitauditor/scan-action/pkg/logger"
)

// StatusReader is the narrow client surface the loop depends on, so
// tests can simulate state transitions without a live API.
type StatusReader interface {
	GetStatus(ctx context.Context, scanID string) (*gitauditor.JobStatus, error)
}

// Await polls the job until it reaches a terminal state, the context
// deadline elapses, or the run is canceled. The rate limiter bounds the
// query frequency from below; the first query fires immediately and a
// terminal state returns without waiting out another interval.
func Await(ctx context.Context, client StatusReader, scanID string, cfg config.PollConfig, log *logger.Logger) (*gitauditor.JobStatus, error) {
	limiter := rate.NewLimiter(rate.Every(cfg.Interval), 1)

	consecutiveErrors := 0
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, waitError(ctx, scanID)
		}

		status, err := client.GetStatus(ctx, scanID)
		if err != nil {
			if shared.IsTimeout(err) {
				// Deadline expired mid-request; name the scan like the
				// wait path does so the operator can find the job.
				return nil, shared.NewDomainError("TIMEOUT",
					fmt.Sprintf("scan %s did not finish before the deadline", scanID), err)
			}
			if fatalStatusError(err) {
				return nil, err
			}
			consecutiveErrors++
			if consecutiveErrors > cfg.MaxStatusErrors {
				return nil, err
			}
			log.Warn("status check failed, will retry", "scan_id", scanID, "error", err)
			continue
		}
		consecutiveErrors = 0

		log.Info("scan status", "scan_id", scanID, "status", status.Status)

		switch status.Status {
		case scan.StatusCompleted:
			return status, nil
		case scan.StatusFailed:
			reason := status.Error
			if reason == "" {
				reason = "scan failed on the server"
			}
			return nil, shared.NewDomainError("SCAN_FAILED", reason, nil)
		case scan.StatusCanceled:
			return nil, shared.NewDomainError("SCAN_CANCELED",
				"scan was canceled server-side", shared.ErrCanceled)
		case scan.StatusTimeout:
			return nil, shared.NewDomainError("SCAN_TIMEOUT",
				"scan exceeded the server time limit", shared.ErrTimeout)
		}
	}
}

// waitError distinguishes the operator-raised deadline from an external
// interrupt. The limiter also fails the wait when the remaining time
// cannot fit another poll; that counts as the deadline elapsing. The
// job id is included so the operator can inspect the scan out-of-band.
func waitError(ctx context.Context, scanID string) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return shared.NewDomainError("CANCELED",
			fmt.Sprintf("run interrupted while waiting for scan %s", scanID), shared.ErrCanceled)
	}
	return shared.NewDomainError("TIMEOUT",
		fmt.Sprintf("scan %s did not finish before the deadline", scanID), shared.ErrTimeout)
}

func fatalStatusError(err error) bool {
	return shared.IsAuthentication(err) ||
		shared.IsNotFound(err) ||
		shared.IsCanceled(err)
}
