// Package collector downloads the operator weekly reports. It fetches all
// sources concurrently, tolerates individual failures, and reports a
// per-source summary; a partial failure never aborts the run.
package collector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"nygaming/internal/config"
	apperrors "nygaming/internal/errors"
	"nygaming/pkg/contracts/domain"
)

// SourceResult is the outcome of one source fetch.
type SourceResult struct {
	Source   domain.ReportSource `json:"source"`
	OK       bool                `json:"ok"`
	Bytes    int64               `json:"bytes"`
	Error    string              `json:"error,omitempty"`
	Duration time.Duration       `json:"duration"`
}

// Result summarizes one collection run.
type Result struct {
	Dir     string         `json:"dir"`
	Results []SourceResult `json:"results"`
}

// Succeeded returns the results of sources that downloaded.
func (r *Result) Succeeded() []SourceResult {
	var ok []SourceResult
	for _, sr := range r.Results {
		if sr.OK {
			ok = append(ok, sr)
		}
	}
	return ok
}

// Failed returns the brand names of sources that did not download.
func (r *Result) Failed() []string {
	var failed []string
	for _, sr := range r.Results {
		if !sr.OK {
			failed = append(failed, sr.Source.Brand)
		}
	}
	return failed
}

// Warning returns a CollectionWarning when some sources failed, or nil.
func (r *Result) Warning() *apperrors.CollectionWarning {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	return &apperrors.CollectionWarning{Failed: failed}
}

// Collector fetches the fixed source catalog into a per-run directory.
type Collector struct {
	logger  *slog.Logger
	client  *http.Client
	limiter *rate.Limiter
	sources []domain.ReportSource
	agent   string
}

// New creates a collector over the given source catalog.
func New(logger *slog.Logger, cfg config.CollectorConfig, sources []domain.ReportSource) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		logger:  logger,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		sources: sources,
		agent:   cfg.UserAgent,
	}
}

// Collect downloads every source into destDir concurrently. Individual
// failures are recorded in the result, not returned; the only error cases
// are an unusable destination, a canceled context, or every fetch failing.
func (c *Collector) Collect(ctx context.Context, destDir string) (*Result, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	c.logger.InfoContext(ctx, "starting report collection",
		slog.Int("source_count", len(c.sources)),
		slog.String("dest_dir", destDir))

	start := time.Now()
	results := make([]SourceResult, len(c.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range c.sources {
		g.Go(func() error {
			results[i] = c.fetchOne(gctx, src, destDir)
			return nil
		})
	}
	// Goroutines never return errors; a failed fetch is data, not a reason
	// to cancel the sibling downloads.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Dir: destDir, Results: results}

	okCount := len(result.Succeeded())
	c.logger.InfoContext(ctx, "collection complete",
		slog.Int("succeeded", okCount),
		slog.Int("failed", len(c.sources)-okCount),
		slog.Duration("duration", time.Since(start)))

	for _, brand := range result.Failed() {
		c.logger.WarnContext(ctx, "source fetch failed", slog.String("brand", brand))
	}

	if okCount == 0 {
		return nil, apperrors.ErrAllSourcesFailed
	}
	return result, nil
}

// fetchOne downloads a single report, streaming the body to disk.
func (c *Collector) fetchOne(ctx context.Context, src domain.ReportSource, destDir string) SourceResult {
	start := time.Now()
	result := SourceResult{Source: src}

	fail := func(err error) SourceResult {
		result.Error = err.Error()
		result.Duration = time.Since(start)
		c.logger.WarnContext(ctx, "download failed",
			slog.String("brand", src.Brand),
			slog.String("url", src.URL),
			slog.String("error", err.Error()))
		return result
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fail(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return fail(err)
	}
	req.Header.Set("User-Agent", c.agent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
	}

	destPath := filepath.Join(destDir, src.Filename)
	file, err := os.Create(destPath)
	if err != nil {
		return fail(err)
	}

	written, err := io.Copy(file, resp.Body)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// A truncated file must not be mistaken for a report
		os.Remove(destPath)
		return fail(err)
	}

	result.OK = true
	result.Bytes = written
	result.Duration = time.Since(start)

	c.logger.InfoContext(ctx, "downloaded report",
		slog.String("brand", src.Brand),
		slog.Int64("bytes", written),
		slog.Duration("duration", result.Duration))

	return result
}
