package runner

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"terminal-commons/internal/core/logger"
	"terminal-commons/internal/features/containers/mapping"
	scraperports "terminal-commons/internal/features/scrapers/ports"
	"terminal-commons/internal/features/shipments/domain"
	"terminal-commons/internal/features/shipments/ports"
	shipmentservice "terminal-commons/internal/features/shipments/service"
)

// Runner executes scraping runs for one terminal: select due shipments, mark
// them in progress, scrape each container, and feed the results through the
// lifecycle service. It doubles as a scheduler worker.
type Runner struct {
	scraper   scraperports.TerminalScraper
	shipments *shipmentservice.ShipmentService
	factory   *mapping.ContainerDataFactory
	metadata  ports.ScraperMetadataRepository

	// target short-circuits selection to a single shipment when set.
	target   uuid.UUID
	schedule string
	running  atomic.Bool
}

// New creates a runner for the given terminal scraper.
func New(
	scraper scraperports.TerminalScraper,
	shipments *shipmentservice.ShipmentService,
	factory *mapping.ContainerDataFactory,
	metadata ports.ScraperMetadataRepository,
	schedule string,
	target uuid.UUID,
) *Runner {
	return &Runner{
		scraper:   scraper,
		shipments: shipments,
		factory:   factory,
		metadata:  metadata,
		schedule:  schedule,
		target:    target,
	}
}

// Name implements scheduler.Worker.
func (r *Runner) Name() string {
	return string(r.scraper.Scraper())
}

// Schedule implements scheduler.Worker.
func (r *Runner) Schedule() string {
	return r.schedule
}

// Ready implements scheduler.Worker. A runner mid-run skips the tick rather
// than stacking overlapping browser sessions.
func (r *Runner) Ready(time.Time) bool {
	return !r.running.Load()
}

// Execute implements scheduler.Worker.
func (r *Runner) Execute(ctx context.Context) {
	if err := r.Run(ctx); err != nil {
		logger.Get().Error("Scraping run failed",
			zap.String("scraper", r.Name()),
			zap.Error(err),
		)
	}
}

// Run performs one full scraping run for the terminal, honoring the target
// override configured at construction.
func (r *Runner) Run(ctx context.Context) error {
	return r.RunFor(ctx, r.target)
}

// RunFor performs one scraping run restricted to the given shipment, or a
// normal eligibility-driven run when target is the nil UUID.
func (r *Runner) RunFor(ctx context.Context, target uuid.UUID) error {
	if !r.running.CompareAndSwap(false, true) {
		return fmt.Errorf("scraper %s already running", r.Name())
	}
	defer r.running.Store(false)

	log, runID := logger.NewRunLogger(r.Name())
	log.Info("Scraping run started")

	meta, err := r.metadata.GetByScraperID(r.scraper.Scraper())
	if err != nil {
		return fmt.Errorf("load scraper metadata: %w", err)
	}
	if !meta.IsActive && target == uuid.Nil {
		log.Info("Scraper inactive, skipping run")
		return nil
	}

	selected, err := r.shipments.FetchShipments(meta, target)
	if err != nil {
		return fmt.Errorf("select shipments: %w", err)
	}
	if len(selected) == 0 {
		log.Info("No shipments due")
		return nil
	}

	for i := range selected {
		selected[i].RunID = runID
	}

	marked, err := r.shipments.MarkShipmentsInProgress(selected)
	if err != nil {
		log.Warn("Some shipments could not be marked in progress", zap.Error(err))
	}

	var failures int
	for i := range marked {
		if err := r.processShipment(ctx, &marked[i], log); err != nil {
			failures++
			log.Error("Shipment processing failed",
				zap.String("shipment_id", marked[i].ShipmentID.String()),
				zap.Error(err),
			)
		}
	}

	log.Info("Scraping run finished",
		zap.Int("processed", len(marked)),
		zap.Int("failures", failures),
	)
	return nil
}

// processShipment scrapes one shipment's container and applies the outcome.
// Failures are pushed into the shipment's own lifecycle; the returned error
// only reports problems that could not even be persisted.
func (r *Runner) processShipment(ctx context.Context, shipment *domain.Shipment, log *zap.Logger) error {
	rows, err := r.scraper.ScrapeContainer(ctx, shipment.ContainerNumber)
	if err != nil {
		log.Warn("Scrape failed",
			zap.String("container_number", shipment.ContainerNumber),
			zap.Error(err),
		)
		return r.shipments.ProcessFailed(shipment, err.Error())
	}

	if len(rows) == 0 {
		log.Info("Container absent from terminal results",
			zap.String("container_number", shipment.ContainerNumber))
		return r.shipments.HandleMissingContainer(shipment, shipment.ContainerNumber)
	}

	record, err := r.factory.Build(shipment.ShipmentID, rows[0])
	if err != nil {
		return r.shipments.ProcessFailed(shipment, fmt.Sprintf("build container record: %v", err))
	}

	return r.shipments.ProcessActive(shipment, record)
}
