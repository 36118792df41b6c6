// Package output writes run results to the CI output channels: the
// structured outputs file, the job summary, and report files on disk.
package output

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gitauditor/scan-action/internal/config"
	"github.com/gitauditor/scan-action/pkg/domain/issue"
	"github.com/gitauditor/scan-action/pkg/logger"
)

// Sink writes structured outputs for the invoking CI system.
type Sink struct {
	cfg    config.OutputConfig
	log    *logger.Logger
	stdout io.Writer
}

// NewSink creates a sink from output configuration.
func NewSink(cfg config.OutputConfig, log *logger.Logger) *Sink {
	return &Sink{cfg: cfg, log: log, stdout: os.Stdout}
}

// Set writes one name=value output. When the CI outputs file is
// configured the pair is appended there; otherwise it is echoed to
// stdout so local runs still show every output.
func (s *Sink) Set(name, value string) error {
	if s.cfg.OutputFile != "" {
		f, err := os.OpenFile(s.cfg.OutputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open outputs file: %w", err)
		}
		defer f.Close()
		if _, err := fmt.Fprintf(f, "%s=%s\n", name, value); err != nil {
			return fmt.Errorf("write output %s: %w", name, err)
		}
		return nil
	}

	fmt.Fprintf(s.stdout, "%s=%s\n", name, value)
	return nil
}

// SetInt writes one integer output.
func (s *Sink) SetInt(name string, value int) error {
	return s.Set(name, strconv.Itoa(value))
}

// SetResult writes the full structured output set for a result.
func (s *Sink) SetResult(res *issue.Result, scanURL string) error {
	c := res.Counts()
	pairs := []struct {
		name  string
		value string
	}{
		{"scan_id", res.ScanID},
		{"status", res.Status},
		{"issues_found", strconv.Itoa(c.Total())},
		{"critical_issues", strconv.Itoa(c.Critical)},
		{"high_issues", strconv.Itoa(c.High)},
		{"medium_issues", strconv.Itoa(c.Medium)},
		{"low_issues", strconv.Itoa(c.Low)},
		{"scan_url", scanURL},
	}
	for _, p := range pairs {
		if err := s.Set(p.name, p.value); err != nil {
			return err
		}
	}
	return nil
}

// AppendSummary appends Markdown content to the CI job summary. A
// missing summary channel is not an error; the content is simply not
// published.
func (s *Sink) AppendSummary(content string) error {
	if s.cfg.SummaryFile == "" {
		return nil
	}
	f, err := os.OpenFile(s.cfg.SummaryFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open summary file: %w", err)
	}
	defer f.Close()
	if _, err := io.WriteString(f, content); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// WriteSARIF writes the SARIF document to the configured path and
// records the path as a structured output.
func (s *Sink) WriteSARIF(doc string) error {
	if err := os.WriteFile(s.cfg.SARIFFile, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write sarif file: %w", err)
	}
	s.log.Info("SARIF file generated", "path", s.cfg.SARIFFile)
	return s.Set("sarif_file", s.cfg.SARIFFile)
}
