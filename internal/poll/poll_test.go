package poll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitauditor/scan-action/internal/config"
	"github.com/gitauditor/scan-action/internal/gitauditor"
	"github.com/gitauditor/scan-action/pkg/domain/scan"
	"github.com/gitauditor/scan-action/pkg/domain/shared"
	"github.com/gitauditor/scan-action/pkg/logger"
)

// fakeStatusReader simulates server-side state transitions and error
// injection without a live API.
type fakeStatusReader struct {
	calls     int
	responses []fakeResponse
}

type fakeResponse struct {
	status scan.Status
	err    error
}

func (f *fakeStatusReader) GetStatus(ctx context.Context, scanID string) (*gitauditor.JobStatus, error) {
	idx := f.calls
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	f.calls++

	r := f.responses[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &gitauditor.JobStatus{ScanID: scanID, Status: r.status}, nil
}

func pollConfig() config.PollConfig {
	return config.PollConfig{
		Interval:        5 * time.Millisecond,
		MaxStatusErrors: 2,
	}
}

func TestAwaitReturnsOnCompleted(t *testing.T) {
	reader := &fakeStatusReader{responses: []fakeResponse{
		{status: scan.StatusQueued},
		{status: scan.StatusRunning},
		{status: scan.StatusCompleted},
	}}

	status, err := Await(context.Background(), reader, "scan-1", pollConfig(), logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, scan.StatusCompleted, status.Status)
	assert.Equal(t, 3, reader.calls)
}

func TestAwaitCompletedImmediately(t *testing.T) {
	reader := &fakeStatusReader{responses: []fakeResponse{
		{status: scan.StatusCompleted},
	}}

	start := time.Now()
	cfg := config.PollConfig{Interval: time.Hour, MaxStatusErrors: 2}
	_, err := Await(context.Background(), reader, "scan-1", cfg, logger.NewNop())
	require.NoError(t, err)

	// The first query fires without waiting out an interval, and a
	// terminal state returns without another one.
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, reader.calls)
}

func TestAwaitTimesOutWhileRunning(t *testing.T) {
	reader := &fakeStatusReader{responses: []fakeResponse{
		{status: scan.StatusRunning},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	status, err := Await(ctx, reader, "scan-1", pollConfig(), logger.NewNop())
	require.Error(t, err)
	assert.Nil(t, status)
	assert.True(t, shared.IsTimeout(err))
	assert.False(t, shared.IsCanceled(err))
	assert.Contains(t, err.Error(), "scan-1", "timeout must name the job id")
}

func TestAwaitCanceled(t *testing.T) {
	reader := &fakeStatusReader{responses: []fakeResponse{
		{status: scan.StatusRunning},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := Await(ctx, reader, "scan-1", pollConfig(), logger.NewNop())
	require.Error(t, err)
	assert.True(t, shared.IsCanceled(err))
	assert.False(t, shared.IsTimeout(err), "cancellation must not masquerade as a timeout")
}

func TestAwaitScanFailedSurfacesReason(t *testing.T) {
	reader := &failingReader{reason: "clone failed: repository unavailable"}

	status, err := Await(context.Background(), reader, "scan-1", pollConfig(), logger.NewNop())
	require.Error(t, err)
	assert.Nil(t, status)
	assert.Contains(t, err.Error(), "clone failed")
}

type failingReader struct {
	reason string
}

func (f *failingReader) GetStatus(ctx context.Context, scanID string) (*gitauditor.JobStatus, error) {
	return &gitauditor.JobStatus{ScanID: scanID, Status: scan.StatusFailed, Error: f.reason}, nil
}

func TestAwaitToleratesTransientStatusErrors(t *testing.T) {
	transient := shared.NewDomainError("NETWORK", "connection reset", shared.ErrNetwork)
	reader := &fakeStatusReader{responses: []fakeResponse{
		{err: transient},
		{err: transient},
		{status: scan.StatusCompleted},
	}}

	status, err := Await(context.Background(), reader, "scan-1", pollConfig(), logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, scan.StatusCompleted, status.Status)
}

func TestAwaitGivesUpAfterErrorBudget(t *testing.T) {
	transient := shared.NewDomainError("NETWORK", "connection reset", shared.ErrNetwork)
	reader := &fakeStatusReader{responses: []fakeResponse{
		{err: transient},
	}}

	_, err := Await(context.Background(), reader, "scan-1", pollConfig(), logger.NewNop())
	require.Error(t, err)
	assert.True(t, shared.IsNetwork(err))
}

func TestAwaitNamesScanOnInFlightTimeout(t *testing.T) {
	reader := &fakeStatusReader{responses: []fakeResponse{
		{err: shared.NewDomainError("TIMEOUT", "request deadline exceeded", shared.ErrTimeout)},
	}}

	_, err := Await(context.Background(), reader, "scan-1", pollConfig(), logger.NewNop())
	require.Error(t, err)
	assert.True(t, shared.IsTimeout(err))
	assert.Contains(t, err.Error(), "scan-1", "a timeout mid-request must still name the job id")
	assert.Equal(t, 1, reader.calls)
}

func TestAwaitPropagatesFatalErrorsImmediately(t *testing.T) {
	reader := &fakeStatusReader{responses: []fakeResponse{
		{err: shared.NewDomainError("AUTH", "token revoked", shared.ErrAuthentication)},
	}}

	_, err := Await(context.Background(), reader, "scan-1", pollConfig(), logger.NewNop())
	require.Error(t, err)
	assert.True(t, shared.IsAuthentication(err))
	assert.Equal(t, 1, reader.calls)
}
