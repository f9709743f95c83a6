package ports

import (
	"errors"

	"github.com/google/uuid"

	"terminal-commons/internal/features/shipments/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrPersistence is the uniform domain error wrapping database-layer failures.
	// The original cause is always attached via %w.
	ErrPersistence = errors.New("persistence failure")
)

// ShipmentRepository persists shipments keyed by shipment_id.
type ShipmentRepository interface {
	// Save inserts a new shipment.
	Save(s *domain.Shipment) error
	// SaveOrUpdate upserts the shipment by its shipment_id.
	SaveOrUpdate(s *domain.Shipment) error
	// GetByID fetches a shipment, ErrNotFound when absent.
	GetByID(id uuid.UUID) (*domain.Shipment, error)
	// ListByTerminal returns every shipment registered for a terminal.
	ListByTerminal(terminalID string) ([]domain.Shipment, error)
}

// ContainerRepository persists container availability rows keyed by
// (shipment_id, container_number).
type ContainerRepository interface {
	// SaveOrUpdate upserts the container row for its shipment.
	SaveOrUpdate(c *domain.ContainerAvailability) error
	// GetByContainerNumberAndShipmentID fetches one container row, ErrNotFound when absent.
	GetByContainerNumberAndShipmentID(containerNumber string, shipmentID uuid.UUID) (*domain.ContainerAvailability, error)
}

// ShipmentLogRepository appends audit rows. Logs are never updated or deleted.
type ShipmentLogRepository interface {
	Append(l *domain.ShipmentLog) error
}

// ScraperMetadataRepository reads the seeded per-terminal scraper configuration.
type ScraperMetadataRepository interface {
	// GetByScraperID fetches metadata for one scraper, ErrNotFound when absent.
	GetByScraperID(id domain.Scraper) (*domain.ScraperMetadata, error)
	// ListActive returns all scrapers currently flagged active.
	ListActive() ([]domain.ScraperMetadata, error)
}

// TokenRepository reads terminal API auth tokens.
type TokenRepository interface {
	// GetLatest returns the newest token row, ErrNotFound when the table is empty.
	GetLatest() (*domain.AuthToken, error)
}
