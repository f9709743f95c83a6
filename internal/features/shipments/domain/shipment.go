package domain

import (
	"time"

	"github.com/google/uuid"
)

// Shipment represents one tracked container-shipment in the shipments table.
type Shipment struct {
	ShipmentID      uuid.UUID `gorm:"column:shipment_id;type:uuid;primaryKey" json:"shipment_id"`
	ContainerNumber string    `gorm:"size:30" json:"container_number"`
	MasterBOLNumber string    `gorm:"column:master_bol_number;size:30" json:"master_bol_number"`
	HouseBOLNumber  string    `gorm:"column:house_bol_number;size:30" json:"house_bol_number"`
	VoyageID        *int      `gorm:"column:voyage_id" json:"voyage_id"`
	TerminalID      string    `gorm:"column:terminal_id;size:10" json:"terminal_id"`

	// Error holds the last failure message; cleared on a successful scrape.
	Error        string       `gorm:"type:text" json:"error"`
	ScrapeStatus ScrapeStatus `gorm:"column:scrape_status;default:ASSIGNED;not null" json:"scrape_status"`

	// Frequency is the number of hours between scheduled scrapes.
	Frequency int       `gorm:"default:4" json:"frequency"`
	RunID     uuid.UUID `gorm:"column:run_id;type:uuid" json:"run_id"`

	SubmittedAt     *time.Time `json:"submitted_at"`
	LastScrapedTime *time.Time `json:"last_scraped_time"`
	NextScrapeTime  *time.Time `json:"next_scrape_time"`
	StartScrapeTime *time.Time `json:"start_scrape_time"`

	Containers []ContainerAvailability `gorm:"foreignKey:ShipmentID;references:ShipmentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName maps the model to the shipments table.
func (Shipment) TableName() string {
	return "shipments"
}

// Snapshot returns a JSON-safe view of the shipment for audit logging.
// Datetimes become ISO-8601 strings, enums their value, UUIDs strings.
func (s *Shipment) Snapshot() map[string]any {
	return map[string]any{
		"shipment_id":       s.ShipmentID.String(),
		"container_number":  s.ContainerNumber,
		"master_bol_number": s.MasterBOLNumber,
		"house_bol_number":  s.HouseBOLNumber,
		"terminal_id":       s.TerminalID,
		"scrape_status":     string(s.ScrapeStatus),
		"error":             s.Error,
		"frequency":         s.Frequency,
		"run_id":            s.RunID.String(),
		"submitted_at":      isoTime(s.SubmittedAt),
		"last_scraped_time": isoTime(s.LastScrapedTime),
		"next_scrape_time":  isoTime(s.NextScrapeTime),
		"start_scrape_time": isoTime(s.StartScrapeTime),
	}
}

func isoTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
