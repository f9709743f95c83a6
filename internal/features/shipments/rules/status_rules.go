package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"terminal-commons/internal/core/logger"
	"terminal-commons/internal/features/shipments/domain"
)

// SetInProgressRule marks the shipment as IN_PROGRESS and stamps the scrape
// clock. It signals the start of one scrape attempt.
type SetInProgressRule struct{}

// Apply implements BusinessRule.
func (SetInProgressRule) Apply(ctx *Context) error {
	shipment := ctx.Shipment
	if shipment == nil {
		return errors.New("shipment must be provided in the context")
	}

	now := ctx.Clock()
	next := now.Add(time.Duration(shipment.Frequency) * time.Hour)

	shipment.ScrapeStatus = domain.StatusInProgress
	shipment.LastScrapedTime = &now
	shipment.NextScrapeTime = &next

	logger.Get().Info("Shipment marked IN_PROGRESS",
		zap.String("shipment_id", shipment.ShipmentID.String()),
		zap.Time("last_scraped_time", now),
	)
	return nil
}

// SetActiveRule marks the shipment (and its container record, when present) as
// ACTIVE after a successful scrape cycle, clears the error, and schedules the
// next scrape by the shipment's frequency.
type SetActiveRule struct{}

// Apply implements BusinessRule.
func (SetActiveRule) Apply(ctx *Context) error {
	shipment := ctx.Shipment
	if shipment == nil {
		return errors.New("shipment must be provided in the context")
	}

	now := ctx.Clock()
	next := now.Add(time.Duration(shipment.Frequency) * time.Hour)

	shipment.ScrapeStatus = domain.StatusActive
	shipment.Error = ""
	shipment.LastScrapedTime = &now
	shipment.NextScrapeTime = &next

	if c := ctx.Container; c != nil {
		c.ScrapeStatus = domain.StatusActive
		c.LastScrapedTime = &now
		c.NextScrapeTime = &next
	}

	logger.Get().Info("Shipment marked ACTIVE",
		zap.String("shipment_id", shipment.ShipmentID.String()),
		zap.Time("next_scrape_time", next),
	)
	return nil
}

// SetFailedRule marks the shipment as FAILED and records the error message.
// Retry eligibility is re-evaluated later by FetchShipmentsRule, not here.
type SetFailedRule struct{}

// Apply implements BusinessRule.
func (SetFailedRule) Apply(ctx *Context) error {
	shipment := ctx.Shipment
	if shipment == nil {
		return errors.New("shipment must be provided in the context")
	}

	now := ctx.Clock()
	next := now.Add(time.Duration(shipment.Frequency) * time.Hour)

	shipment.ScrapeStatus = domain.StatusFailed
	shipment.Error = ctx.ErrorMessage
	shipment.NextScrapeTime = &next

	logger.Get().Info("Shipment marked FAILED",
		zap.String("shipment_id", shipment.ShipmentID.String()),
		zap.String("error", ctx.ErrorMessage),
	)
	return nil
}

// SetStoppedRule marks the shipment as STOPPED and clears the next scrape
// time so no further runs are scheduled automatically.
type SetStoppedRule struct{}

// Apply implements BusinessRule.
func (SetStoppedRule) Apply(ctx *Context) error {
	shipment := ctx.Shipment
	if shipment == nil {
		return errors.New("shipment must be provided in the context")
	}

	shipment.ScrapeStatus = domain.StatusStopped
	shipment.NextScrapeTime = nil

	if c := ctx.Container; c != nil {
		c.ScrapeStatus = domain.StatusStopped
		c.NextScrapeTime = nil
	}

	logger.Get().Info("Shipment marked STOPPED",
		zap.String("shipment_id", shipment.ShipmentID.String()))
	return nil
}

// HandleMissingContainerRule handles a container that is absent from a scrape
// response. A previously ACTIVE or IN_PROGRESS record transitions to STOPPED
// (the container left the terminal); any other prior status is treated as a
// scraping defect and the record is marked FAILED with an explanation.
type HandleMissingContainerRule struct{}

// Apply implements BusinessRule.
func (HandleMissingContainerRule) Apply(ctx *Context) error {
	if ctx.ContainerNumber == "" || ctx.ShipmentID == uuid.Nil || ctx.ContainerRepo == nil {
		return errors.New("missing required context data: container_number, shipment_id, or repository")
	}

	log := logger.Get().With(
		zap.String("container_number", ctx.ContainerNumber),
		zap.String("shipment_id", ctx.ShipmentID.String()),
	)
	log.Info("Handling missing container")

	record, err := ctx.ContainerRepo.GetByContainerNumberAndShipmentID(ctx.ContainerNumber, ctx.ShipmentID)
	if err != nil {
		return fmt.Errorf("look up missing container: %w", err)
	}

	switch record.ScrapeStatus {
	case domain.StatusActive, domain.StatusInProgress:
		record.ScrapeStatus = domain.StatusStopped
		record.NextScrapeTime = nil
		if err := ctx.ContainerRepo.SaveOrUpdate(record); err != nil {
			return fmt.Errorf("stop missing container: %w", err)
		}
		ctx.Container = record
		log.Info("Container marked STOPPED, no longer present in scrape results")
	default:
		ctx.ErrorMessage = fmt.Sprintf(
			"container %s missing from scrape results while not actively tracked", ctx.ContainerNumber)
		record.ScrapeStatus = domain.StatusFailed
		if err := ctx.ContainerRepo.SaveOrUpdate(record); err != nil {
			return fmt.Errorf("fail missing container: %w", err)
		}
		ctx.Container = record
		log.Warn("Container marked FAILED", zap.String("error", ctx.ErrorMessage))
	}
	return nil
}
