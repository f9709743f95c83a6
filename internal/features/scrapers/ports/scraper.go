package ports

import (
	"context"

	"terminal-commons/internal/features/shipments/domain"
)

// TerminalScraper fetches raw availability rows from one terminal. Each
// adapter owns its transport: browser automation for terminals without an
// API, plain HTTP for the rest.
type TerminalScraper interface {
	// Scraper identifies the terminal this adapter scrapes.
	Scraper() domain.Scraper

	// ScrapeContainer returns the terminal's raw rows for one container
	// number. An empty slice means the terminal no longer reports the
	// container; it is not an error.
	ScrapeContainer(ctx context.Context, containerNumber string) ([]map[string]any, error)
}
