package rules

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"terminal-commons/internal/core/logger"
	"terminal-commons/internal/features/shipments/domain"
)

// transientErrorMarker selects FAILED/STOPPED shipments for the retry path.
// Connection aborts are scraper-side noise, not data problems, so those
// shipments go back into the pool on the next run.
const transientErrorMarker = "Connection aborted"

// FetchShipmentsRule selects the shipments a run should process and stores
// them in ctx.Shipments. A TargetShipmentID override short-circuits the whole
// eligibility query and returns just that shipment.
type FetchShipmentsRule struct{}

// Apply implements BusinessRule.
func (FetchShipmentsRule) Apply(ctx *Context) error {
	if ctx.ShipmentRepo == nil || ctx.ScraperMetadata == nil {
		return errors.New("shipment repository and scraper_metadata must be provided in the context")
	}

	if ctx.TargetShipmentID != uuid.Nil {
		shipment, err := ctx.ShipmentRepo.GetByID(ctx.TargetShipmentID)
		if err != nil {
			return fmt.Errorf("fetch target shipment: %w", err)
		}
		ctx.Shipments = []domain.Shipment{*shipment}
		logger.Get().Info("Manual trigger: selected single shipment",
			zap.String("shipment_id", ctx.TargetShipmentID.String()))
		return nil
	}

	candidates, err := ctx.ShipmentRepo.ListByTerminal(ctx.ScraperMetadata.TerminalID)
	if err != nil {
		return fmt.Errorf("fetch shipments for terminal %s: %w", ctx.ScraperMetadata.TerminalID, err)
	}

	now := ctx.Clock()
	selected := make([]domain.Shipment, 0, len(candidates))
	for _, s := range candidates {
		if eligible(s, now) {
			selected = append(selected, s)
		}
	}

	ctx.Shipments = selected
	logger.Get().Info("Fetched shipments for terminal",
		zap.String("terminal_id", ctx.ScraperMetadata.TerminalID),
		zap.Int("selected", len(selected)),
		zap.Int("candidates", len(candidates)),
	)
	return nil
}

// eligible decides whether one shipment is due for scraping at now.
// Either the shipment is in its normal window (ASSIGNED/ACTIVE, started, and
// its frequency has elapsed since the last scrape) or it previously failed on
// a transient connection error and gets retried regardless of timing.
func eligible(s domain.Shipment, now time.Time) bool {
	switch s.ScrapeStatus {
	case domain.StatusAssigned, domain.StatusActive:
		if s.StartScrapeTime == nil || s.StartScrapeTime.After(now) {
			return false
		}
		if s.LastScrapedTime == nil {
			return true
		}
		return now.Sub(*s.LastScrapedTime).Hours() >= float64(s.Frequency)
	case domain.StatusStopped, domain.StatusFailed:
		return strings.Contains(s.Error, transientErrorMarker)
	default:
		return false
	}
}
