package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"terminal-commons/internal/core/httpclient"
	"terminal-commons/internal/core/logger"
	"terminal-commons/internal/core/proxy"
	"terminal-commons/internal/features/shipments/domain"
)

// PNCTAdapter scrapes the PNCT terminal through its public availability
// endpoint. PNCT exposes plain JSON, so no browser is involved.
type PNCTAdapter struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewPNCTAdapter creates a PNCT adapter. When the proxy is configured, all
// requests tunnel through it.
func NewPNCTAdapter(baseURL string, p proxy.Settings) (*PNCTAdapter, error) {
	client := httpclient.NewClient(30 * time.Second)
	if p.HasProxy() {
		var err error
		client, err = httpclient.NewClientWithProxy(30*time.Second, p.FullURL())
		if err != nil {
			return nil, fmt.Errorf("configure PNCT proxy client: %w", err)
		}
	}

	return &PNCTAdapter{
		baseURL: baseURL,
		client:  client,
		logger:  logger.Get(),
	}, nil
}

// Scraper implements ports.TerminalScraper.
func (a *PNCTAdapter) Scraper() domain.Scraper {
	return domain.ScraperPNCT
}

// ScrapeContainer implements ports.TerminalScraper.
func (a *PNCTAdapter) ScrapeContainer(ctx context.Context, containerNumber string) ([]map[string]any, error) {
	endpoint := fmt.Sprintf("%s/availability?units=%s", a.baseURL, url.QueryEscape(containerNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build PNCT request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query PNCT for %s: %w", containerNumber, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PNCT returned status %d for %s", resp.StatusCode, containerNumber)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read PNCT response: %w", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parse PNCT response for %s: %w", containerNumber, err)
	}

	a.logger.Debug("PNCT scrape complete",
		zap.String("container_number", containerNumber),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}
