package domain

import "time"

// ScraperMetadata is static per-terminal scraper configuration, seeded once at
// startup and treated as read-only reference data afterwards.
type ScraperMetadata struct {
	ID                   uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ScraperFriendlyName  string     `gorm:"not null" json:"scraper_friendly_name"`
	ScraperID            Scraper    `gorm:"column:scraper_id" json:"scraper_id"`
	TerminalID           string     `gorm:"not null" json:"terminal_id"`
	ScrapeFrequencyHours int        `gorm:"not null" json:"scrape_frequency_hours"`
	LastScrapedTime      *time.Time `json:"last_scraped_time"`
	IsActive             bool       `gorm:"default:true;not null" json:"is_active"`
	ScraperVersion       string     `json:"scraper_version"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TableName maps the model to the scraper_metadata table.
func (ScraperMetadata) TableName() string {
	return "scraper_metadata"
}
