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

	authservice "terminal-commons/internal/features/auth/service"
	"terminal-commons/internal/core/httpclient"
	"terminal-commons/internal/core/logger"
	"terminal-commons/internal/core/proxy"
	"terminal-commons/internal/features/shipments/domain"
)

// PTPAdapter scrapes the Ports America (PTP) terminal API. The API sits
// behind a bearer token that rotates out-of-band; a 401 invalidates the
// cached token and the request is retried once with a fresh one.
type PTPAdapter struct {
	baseURL string
	tokens  *authservice.TokenService
	client  *http.Client
	logger  *zap.Logger
}

// NewPTPAdapter creates a PTP adapter backed by the token service.
func NewPTPAdapter(baseURL string, tokens *authservice.TokenService, p proxy.Settings) (*PTPAdapter, error) {
	client := httpclient.NewClient(30 * time.Second)
	if p.HasProxy() {
		var err error
		client, err = httpclient.NewClientWithProxy(30*time.Second, p.FullURL())
		if err != nil {
			return nil, fmt.Errorf("configure PTP proxy client: %w", err)
		}
	}

	return &PTPAdapter{
		baseURL: baseURL,
		tokens:  tokens,
		client:  client,
		logger:  logger.Get(),
	}, nil
}

// Scraper implements ports.TerminalScraper.
func (a *PTPAdapter) Scraper() domain.Scraper {
	return domain.ScraperPTP
}

// ScrapeContainer implements ports.TerminalScraper.
func (a *PTPAdapter) ScrapeContainer(ctx context.Context, containerNumber string) ([]map[string]any, error) {
	rows, status, err := a.query(ctx, containerNumber)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		a.logger.Info("PTP token rejected, refreshing",
			zap.String("container_number", containerNumber))
		if err := a.tokens.Invalidate(ctx); err != nil {
			return nil, err
		}
		rows, status, err = a.query(ctx, containerNumber)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("PTP returned status %d for %s", status, containerNumber)
	}
	return rows, nil
}

func (a *PTPAdapter) query(ctx context.Context, containerNumber string) ([]map[string]any, int, error) {
	token, err := a.tokens.GetToken(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire PTP token: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/track/containers?numbers=%s", a.baseURL, url.QueryEscape(containerNumber))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build PTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("query PTP for %s: %w", containerNumber, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read PTP response: %w", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, 0, fmt.Errorf("parse PTP response for %s: %w", containerNumber, err)
	}
	return rows, http.StatusOK, nil
}
