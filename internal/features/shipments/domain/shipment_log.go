package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShipmentLog is an append-only audit row written after each significant
// shipment state mutation. Rows are never updated or deleted.
type ShipmentLog struct {
	LogID        uuid.UUID    `gorm:"column:log_id;type:uuid;primaryKey" json:"log_id"`
	ShipmentID   uuid.UUID    `gorm:"column:shipment_id;type:uuid;not null" json:"shipment_id"`
	ScrapeStatus ScrapeStatus `gorm:"column:scrape_status" json:"scrape_status"`
	ScrapedAt    time.Time    `gorm:"not null" json:"scraped_at"`

	// NewData is the JSON snapshot of the shipment (and container, when present)
	// after the mutation.
	NewData    map[string]any `gorm:"column:new_data;serializer:json;type:jsonb" json:"new_data"`
	RetryCount *int           `json:"retry_count"`
}

// TableName maps the model to the shipment_logs table.
func (ShipmentLog) TableName() string {
	return "shipment_logs"
}
