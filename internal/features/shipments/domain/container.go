package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContainerAvailability represents the terminal-reported state of one physical
// container tied to a shipment. Rows live in container_status_table; the
// synthetic UUID key replaced the historical (shipment_id, container_number)
// composite key, which survives as a unique index.
type ContainerAvailability struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShipmentID      uuid.UUID `gorm:"column:shipment_id;type:uuid;not null;uniqueIndex:idx_container_shipment" json:"shipment_id"`
	ContainerNumber string    `gorm:"not null;uniqueIndex:idx_container_shipment" json:"container_number"`

	Date                      string `json:"date"`
	Port                      string `json:"port"`
	Terminal                  string `json:"terminal"`
	Available                 string `json:"available"`
	Holds                     string `json:"holds"`
	UsdaStatus                string `gorm:"column:usda_status" json:"usda_status"`
	LastFreeDate              string `json:"last_free_date"`
	Location                  string `json:"location"`
	CustomReleaseStatus       string `json:"custom_release_status"`
	CarrierReleaseStatus      string `json:"carrier_release_status"`
	DemurrageAmount           string `json:"demurrage_amount"`
	VesselName                string `gorm:"size:25" json:"vessel_name"`
	VesselEta                 string `gorm:"column:vessel_eta" json:"vessel_eta"`
	TransitState              string `json:"transit_state"`
	YardTerminalReleaseStatus string `json:"yard_terminal_release_status"`
	LastUpdatedAvailability   string `json:"last_updated_availability"`

	ScrapeStatus    ScrapeStatus `gorm:"column:scrape_status" json:"scrape_status"`
	LastScrapedTime *time.Time   `json:"last_scraped_time"`
	NextScrapeTime  *time.Time   `json:"next_scrape_time"`

	// AdditionalInfo captures scraped fields that have no first-class column.
	AdditionalInfo map[string]any `gorm:"column:additional_info;serializer:json;type:jsonb" json:"additional_info"`
}

// TableName maps the model to the historical container_status_table.
func (ContainerAvailability) TableName() string {
	return "container_status_table"
}

// containerFields enumerates normalized field names with a first-class column.
// Membership here decides the recognized/unrecognized split in the factory;
// the set is static on purpose (no reflection over the model).
var containerFields = map[string]struct{}{
	"container_number":             {},
	"date":                         {},
	"port":                         {},
	"terminal":                     {},
	"available":                    {},
	"holds":                        {},
	"usda_status":                  {},
	"last_free_date":               {},
	"location":                     {},
	"custom_release_status":        {},
	"carrier_release_status":       {},
	"demurrage_amount":             {},
	"vessel_name":                  {},
	"vessel_eta":                   {},
	"transit_state":                {},
	"yard_terminal_release_status": {},
	"last_updated_availability":    {},
}

// IsRecognizedContainerField reports whether a normalized field name maps to a
// first-class column on ContainerAvailability.
func IsRecognizedContainerField(name string) bool {
	_, ok := containerFields[name]
	return ok
}

// SetField assigns a recognized normalized field by name. It returns false
// when the name has no first-class column, leaving the caller to route the
// value into AdditionalInfo.
func (c *ContainerAvailability) SetField(name, value string) bool {
	switch name {
	case "container_number":
		c.ContainerNumber = value
	case "date":
		c.Date = value
	case "port":
		c.Port = value
	case "terminal":
		c.Terminal = value
	case "available":
		c.Available = value
	case "holds":
		c.Holds = value
	case "usda_status":
		c.UsdaStatus = value
	case "last_free_date":
		c.LastFreeDate = value
	case "location":
		c.Location = value
	case "custom_release_status":
		c.CustomReleaseStatus = value
	case "carrier_release_status":
		c.CarrierReleaseStatus = value
	case "demurrage_amount":
		c.DemurrageAmount = value
	case "vessel_name":
		c.VesselName = value
	case "vessel_eta":
		c.VesselEta = value
	case "transit_state":
		c.TransitState = value
	case "yard_terminal_release_status":
		c.YardTerminalReleaseStatus = value
	case "last_updated_availability":
		c.LastUpdatedAvailability = value
	default:
		return false
	}
	return true
}

// Snapshot returns a JSON-safe view of the container record for audit logging.
func (c *ContainerAvailability) Snapshot() map[string]any {
	return map[string]any{
		"id":                           c.ID.String(),
		"shipment_id":                  c.ShipmentID.String(),
		"container_number":             c.ContainerNumber,
		"available":                    c.Available,
		"holds":                        c.Holds,
		"demurrage_amount":             c.DemurrageAmount,
		"location":                     c.Location,
		"last_free_date":               c.LastFreeDate,
		"transit_state":                c.TransitState,
		"yard_terminal_release_status": c.YardTerminalReleaseStatus,
		"scrape_status":                string(c.ScrapeStatus),
		"last_scraped_time":            isoTime(c.LastScrapedTime),
		"next_scrape_time":             isoTime(c.NextScrapeTime),
		"additional_info":              c.AdditionalInfo,
	}
}
