package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"terminal-commons/internal/core/browser"
	"terminal-commons/internal/core/logger"
	"terminal-commons/internal/core/proxy"
	"terminal-commons/internal/core/storage"
	"terminal-commons/internal/features/shipments/domain"
)

// APMAdapter scrapes APM Terminals Elizabeth through its web frontend. The
// frontend loads availability as an XHR after the search form submits, so the
// adapter drives a headless browser and captures that response instead of
// parsing the DOM.
type APMAdapter struct {
	baseURL  string
	headless bool
	pool     *proxy.Pool
	uploads  *storage.Uploader
	runID    uuid.UUID
	logger   *zap.Logger
}

// NewAPMAdapter creates an APM adapter. The uploader is optional; without it
// no screenshots are stored.
func NewAPMAdapter(baseURL string, headless bool, pool *proxy.Pool, uploads *storage.Uploader, runID uuid.UUID) *APMAdapter {
	return &APMAdapter{
		baseURL:  baseURL,
		headless: headless,
		pool:     pool,
		uploads:  uploads,
		runID:    runID,
		logger:   logger.Get(),
	}
}

// Scraper implements ports.TerminalScraper.
func (a *APMAdapter) Scraper() domain.Scraper {
	return domain.ScraperAPM
}

// apmTrackResponse is the shape of the frontend's availability XHR.
type apmTrackResponse struct {
	ContainerList []map[string]any `json:"ContainerList"`
}

// ScrapeContainer implements ports.TerminalScraper.
func (a *APMAdapter) ScrapeContainer(ctx context.Context, containerNumber string) ([]map[string]any, error) {
	opts := browser.Options{Headless: a.headless}
	if endpoint, ok := a.pool.Pick(); ok {
		opts.Proxy = endpoint
	}

	session, err := browser.NewSession(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("start APM browser session: %w", err)
	}
	defer session.Close()

	if err := session.Navigate(a.baseURL + "/trackandtrace/import-availability"); err != nil {
		return nil, err
	}
	a.screenshot(ctx, session, "landing")

	body, err := session.HijackResponse("*/trackandtrace/import-availability*", func() error {
		if err := session.Input("#trackTraceInput", containerNumber); err != nil {
			return err
		}
		return session.Click("#trackTraceSubmit")
	})
	if err != nil {
		a.screenshot(ctx, session, "failure")
		return nil, fmt.Errorf("capture APM availability for %s: %w", containerNumber, err)
	}
	a.screenshot(ctx, session, "results")

	var resp apmTrackResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse APM response for %s: %w", containerNumber, err)
	}

	a.logger.Debug("APM scrape complete",
		zap.String("container_number", containerNumber),
		zap.Int("rows", len(resp.ContainerList)),
	)
	return resp.ContainerList, nil
}

// screenshot stores a step screenshot when an uploader is configured. Upload
// problems are logged, never fatal: artifacts must not kill a run.
func (a *APMAdapter) screenshot(ctx context.Context, session *browser.Session, step string) {
	if a.uploads == nil {
		return
	}
	png, err := session.Screenshot()
	if err != nil {
		a.logger.Warn("Screenshot capture failed", zap.String("step", step), zap.Error(err))
		return
	}
	if _, err := a.uploads.UploadScreenshot(ctx, a.runID, step, png); err != nil {
		a.logger.Warn("Screenshot upload failed", zap.String("step", step), zap.Error(err))
	}
}
