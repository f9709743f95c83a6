package adapters

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"terminal-commons/internal/features/shipments/domain"
	"terminal-commons/internal/features/shipments/ports"
)

// ShipmentRepository implements ports.ShipmentRepository on PostgreSQL.
type ShipmentRepository struct {
	*Repository[domain.Shipment]
}

// NewShipmentRepository creates a shipment repository.
func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{Repository: NewRepository[domain.Shipment](db)}
}

var _ ports.ShipmentRepository = (*ShipmentRepository)(nil)

// SaveOrUpdate upserts the shipment keyed by shipment_id.
func (r *ShipmentRepository) SaveOrUpdate(s *domain.Shipment) error {
	return r.Repository.SaveOrUpdate(s, "shipment_id")
}

// GetByID fetches a shipment by its UUID.
func (r *ShipmentRepository) GetByID(id uuid.UUID) (*domain.Shipment, error) {
	return r.Repository.GetByID(id)
}

// ListByTerminal returns every shipment registered for the terminal.
func (r *ShipmentRepository) ListByTerminal(terminalID string) ([]domain.Shipment, error) {
	var shipments []domain.Shipment
	if err := r.db.Where("terminal_id = ?", terminalID).Find(&shipments).Error; err != nil {
		return nil, wrapPersistence("list shipments by terminal", err)
	}
	return shipments, nil
}

// ContainerRepository implements ports.ContainerRepository on PostgreSQL.
type ContainerRepository struct {
	*Repository[domain.ContainerAvailability]
}

// NewContainerRepository creates a container availability repository.
func NewContainerRepository(db *gorm.DB) *ContainerRepository {
	return &ContainerRepository{Repository: NewRepository[domain.ContainerAvailability](db)}
}

var _ ports.ContainerRepository = (*ContainerRepository)(nil)

// SaveOrUpdate upserts the container row keyed by (shipment_id, container_number).
func (r *ContainerRepository) SaveOrUpdate(c *domain.ContainerAvailability) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.Repository.SaveOrUpdate(c, "shipment_id", "container_number")
}

// GetByContainerNumberAndShipmentID fetches one container row.
func (r *ContainerRepository) GetByContainerNumberAndShipmentID(containerNumber string, shipmentID uuid.UUID) (*domain.ContainerAvailability, error) {
	return r.GetByFields(map[string]any{
		"container_number": containerNumber,
		"shipment_id":      shipmentID,
	})
}

// ShipmentLogRepository implements ports.ShipmentLogRepository on PostgreSQL.
type ShipmentLogRepository struct {
	*Repository[domain.ShipmentLog]
}

// NewShipmentLogRepository creates an audit log repository.
func NewShipmentLogRepository(db *gorm.DB) *ShipmentLogRepository {
	return &ShipmentLogRepository{Repository: NewRepository[domain.ShipmentLog](db)}
}

var _ ports.ShipmentLogRepository = (*ShipmentLogRepository)(nil)

// Append inserts one audit row.
func (r *ShipmentLogRepository) Append(l *domain.ShipmentLog) error {
	if l.LogID == uuid.Nil {
		l.LogID = uuid.New()
	}
	return r.Save(l)
}

// ScraperMetadataRepository implements ports.ScraperMetadataRepository.
type ScraperMetadataRepository struct {
	*Repository[domain.ScraperMetadata]
}

// NewScraperMetadataRepository creates a scraper metadata repository.
func NewScraperMetadataRepository(db *gorm.DB) *ScraperMetadataRepository {
	return &ScraperMetadataRepository{Repository: NewRepository[domain.ScraperMetadata](db)}
}

var _ ports.ScraperMetadataRepository = (*ScraperMetadataRepository)(nil)

// GetByScraperID fetches metadata for one scraper.
func (r *ScraperMetadataRepository) GetByScraperID(id domain.Scraper) (*domain.ScraperMetadata, error) {
	return r.GetByFields(map[string]any{"scraper_id": string(id)})
}

// ListActive returns all scrapers currently flagged active.
func (r *ScraperMetadataRepository) ListActive() ([]domain.ScraperMetadata, error) {
	var metadata []domain.ScraperMetadata
	if err := r.db.Where("is_active = ?", true).Find(&metadata).Error; err != nil {
		return nil, wrapPersistence("list active scrapers", err)
	}
	return metadata, nil
}

// TokenRepository implements ports.TokenRepository.
type TokenRepository struct {
	*Repository[domain.AuthToken]
}

// NewTokenRepository creates an auth token repository.
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{Repository: NewRepository[domain.AuthToken](db)}
}

var _ ports.TokenRepository = (*TokenRepository)(nil)

// GetLatest returns the newest token row.
func (r *TokenRepository) GetLatest() (*domain.AuthToken, error) {
	return r.Repository.GetLatest("id")
}
