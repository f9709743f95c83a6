package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"terminal-commons/internal/core/timeutil"
	"terminal-commons/internal/features/shipments/domain"
	"terminal-commons/internal/features/shipments/ports"
	"terminal-commons/internal/features/shipments/rules"
)

// ErrShipmentIneligible is returned when a shipment in the INELIGIBLE state is
// handed to Process; ineligible shipments are never transitioned automatically.
var ErrShipmentIneligible = errors.New("shipment is ineligible for processing")

// ShipmentService drives shipment lifecycle transitions. Every transition runs
// through the rule engine, is persisted, and leaves an audit row behind.
type ShipmentService struct {
	shipments  ports.ShipmentRepository
	containers ports.ContainerRepository
	logs       ports.ShipmentLogRepository
	logger     *zap.Logger
}

// NewShipmentService creates a ShipmentService over the given repositories.
func NewShipmentService(
	shipments ports.ShipmentRepository,
	containers ports.ContainerRepository,
	logs ports.ShipmentLogRepository,
	logger *zap.Logger,
) *ShipmentService {
	return &ShipmentService{
		shipments:  shipments,
		containers: containers,
		logs:       logs,
		logger:     logger,
	}
}

// GetShipment fetches one shipment by its ID.
func (s *ShipmentService) GetShipment(id uuid.UUID) (*domain.Shipment, error) {
	return s.shipments.GetByID(id)
}

// RegisterShipment stores a newly submitted shipment. A missing start time
// makes the shipment INELIGIBLE; it will never be selected until an operator
// sets one. Otherwise it starts out ASSIGNED.
func (s *ShipmentService) RegisterShipment(shipment *domain.Shipment) error {
	if shipment.ContainerNumber == "" && shipment.MasterBOLNumber == "" && shipment.HouseBOLNumber == "" {
		return errors.New("shipment needs a container number or a BOL number")
	}
	if shipment.ShipmentID == uuid.Nil {
		shipment.ShipmentID = uuid.New()
	}
	if shipment.Frequency <= 0 {
		shipment.Frequency = 4
	}
	now := timeutil.NowEST()
	shipment.SubmittedAt = &now

	if shipment.StartScrapeTime == nil {
		shipment.ScrapeStatus = domain.StatusIneligible
	} else {
		shipment.ScrapeStatus = domain.StatusAssigned
	}

	if err := s.shipments.Save(shipment); err != nil {
		return fmt.Errorf("register shipment %s: %w", shipment.ShipmentID, err)
	}
	return s.appendLog(shipment, nil)
}

// FetchShipments selects the shipments a scraper run should process. A
// non-nil target shipment ID bypasses eligibility and selects that shipment
// alone.
func (s *ShipmentService) FetchShipments(meta *domain.ScraperMetadata, target uuid.UUID) ([]domain.Shipment, error) {
	ctx := &rules.Context{
		ShipmentRepo:     s.shipments,
		ScraperMetadata:  meta,
		TargetShipmentID: target,
	}
	if err := rules.NewEngine(rules.FetchShipmentsRule{}).ApplyRules(ctx); err != nil {
		return nil, err
	}
	return ctx.Shipments, nil
}

// ProcessInProgress transitions a shipment to IN_PROGRESS at the start of a
// scrape attempt and persists the change.
func (s *ShipmentService) ProcessInProgress(shipment *domain.Shipment) error {
	ctx := &rules.Context{Shipment: shipment}
	if err := rules.NewEngine(rules.SetInProgressRule{}).ApplyRules(ctx); err != nil {
		return err
	}
	return s.persist(ctx)
}

// ProcessActive transitions a shipment (and the container record scraped for
// it, when present) to ACTIVE after a successful scrape and persists both.
func (s *ShipmentService) ProcessActive(shipment *domain.Shipment, container *domain.ContainerAvailability) error {
	ctx := &rules.Context{Shipment: shipment, Container: container}
	if err := rules.NewEngine(rules.SetActiveRule{}).ApplyRules(ctx); err != nil {
		return err
	}
	return s.persist(ctx)
}

// ProcessFailed transitions a shipment to FAILED, recording the failure
// message on the row.
func (s *ShipmentService) ProcessFailed(shipment *domain.Shipment, errorMessage string) error {
	ctx := &rules.Context{Shipment: shipment, ErrorMessage: errorMessage}
	if err := rules.NewEngine(rules.SetFailedRule{}).ApplyRules(ctx); err != nil {
		return err
	}
	return s.persist(ctx)
}

// ProcessStopped transitions a shipment (and optionally its container record)
// to STOPPED so it drops out of automatic scheduling.
func (s *ShipmentService) ProcessStopped(shipment *domain.Shipment, container *domain.ContainerAvailability) error {
	ctx := &rules.Context{Shipment: shipment, Container: container}
	if err := rules.NewEngine(rules.SetStoppedRule{}).ApplyRules(ctx); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Process dispatches a shipment to the transition handler matching its current
// status. When the delegate fails, the shipment is force-persisted as FAILED
// with the delegate's error so a crashed run never leaves a row IN_PROGRESS,
// and the delegate's error is returned.
func (s *ShipmentService) Process(shipment *domain.Shipment, container *domain.ContainerAvailability, errorMessage string) error {
	var err error
	switch shipment.ScrapeStatus {
	case domain.StatusAssigned, domain.StatusInProgress:
		err = s.ProcessInProgress(shipment)
	case domain.StatusActive:
		err = s.ProcessActive(shipment, container)
	case domain.StatusFailed:
		err = s.ProcessFailed(shipment, errorMessage)
	case domain.StatusStopped:
		err = s.ProcessStopped(shipment, container)
	case domain.StatusIneligible:
		return fmt.Errorf("%w: %s", ErrShipmentIneligible, shipment.ShipmentID)
	default:
		return fmt.Errorf("unknown scrape status %q for shipment %s", shipment.ScrapeStatus, shipment.ShipmentID)
	}

	if err == nil {
		return nil
	}

	shipment.ScrapeStatus = domain.StatusFailed
	shipment.Error = err.Error()
	if persistErr := s.shipments.SaveOrUpdate(shipment); persistErr != nil {
		s.logger.Error("Could not persist FAILED state after processing error",
			zap.String("shipment_id", shipment.ShipmentID.String()),
			zap.Error(persistErr),
		)
	}
	return fmt.Errorf("process shipment %s: %w", shipment.ShipmentID, err)
}

// HandleMissingContainer reacts to a container absent from a scrape response.
// The container record is stopped or failed by the rule; when the rule judges
// the disappearance a defect, the shipment is failed with the same message.
func (s *ShipmentService) HandleMissingContainer(shipment *domain.Shipment, containerNumber string) error {
	ctx := &rules.Context{
		ShipmentID:      shipment.ShipmentID,
		ContainerNumber: containerNumber,
		ContainerRepo:   s.containers,
	}
	if err := rules.NewEngine(rules.HandleMissingContainerRule{}).ApplyRules(ctx); err != nil {
		return err
	}

	if ctx.ErrorMessage != "" {
		return s.ProcessFailed(shipment, ctx.ErrorMessage)
	}
	return s.ProcessStopped(shipment, nil)
}

// MarkShipmentsInProgress transitions a batch to IN_PROGRESS. A failure on one
// shipment never blocks the rest; the successfully marked shipments are
// returned together with the joined errors.
func (s *ShipmentService) MarkShipmentsInProgress(shipments []domain.Shipment) ([]domain.Shipment, error) {
	marked := make([]domain.Shipment, 0, len(shipments))
	var errs []error
	for i := range shipments {
		if err := s.ProcessInProgress(&shipments[i]); err != nil {
			s.logger.Error("Could not mark shipment IN_PROGRESS",
				zap.String("shipment_id", shipments[i].ShipmentID.String()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("shipment %s: %w", shipments[i].ShipmentID, err))
			continue
		}
		marked = append(marked, shipments[i])
	}
	return marked, errors.Join(errs...)
}

// MarkShipmentsInError transitions a batch to FAILED with a shared error
// message, isolating per-shipment persistence failures.
func (s *ShipmentService) MarkShipmentsInError(shipments []domain.Shipment, errorMessage string) error {
	var errs []error
	for i := range shipments {
		if err := s.ProcessFailed(&shipments[i], errorMessage); err != nil {
			s.logger.Error("Could not mark shipment FAILED",
				zap.String("shipment_id", shipments[i].ShipmentID.String()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("shipment %s: %w", shipments[i].ShipmentID, err))
		}
	}
	return errors.Join(errs...)
}

// persist writes the rule-chain outcome: the shipment row, the container row
// when one changed, and an append-only audit log entry.
func (s *ShipmentService) persist(ctx *rules.Context) error {
	shipment := ctx.Shipment
	if err := s.shipments.SaveOrUpdate(shipment); err != nil {
		return fmt.Errorf("persist shipment %s: %w", shipment.ShipmentID, err)
	}

	if ctx.Container != nil {
		if err := s.containers.SaveOrUpdate(ctx.Container); err != nil {
			return fmt.Errorf("persist container %s for shipment %s: %w",
				ctx.Container.ContainerNumber, shipment.ShipmentID, err)
		}
	}

	return s.appendLog(shipment, ctx.Container)
}

func (s *ShipmentService) appendLog(shipment *domain.Shipment, container *domain.ContainerAvailability) error {
	data := shipment.Snapshot()
	if container != nil {
		data["container"] = container.Snapshot()
	}

	scrapedAt := timeutil.NowEST()
	if shipment.LastScrapedTime != nil {
		scrapedAt = *shipment.LastScrapedTime
	}

	entry := &domain.ShipmentLog{
		LogID:        uuid.New(),
		ShipmentID:   shipment.ShipmentID,
		ScrapeStatus: shipment.ScrapeStatus,
		ScrapedAt:    scrapedAt,
		NewData:      data,
	}
	if err := s.logs.Append(entry); err != nil {
		return fmt.Errorf("append shipment log for %s: %w", shipment.ShipmentID, err)
	}
	return nil
}
