package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"terminal-commons/internal/features/shipments/domain"
)

// seedScrapers is the reference catalog of supported terminal scrapers.
// Seeding is idempotent: existing rows are left untouched so operators can
// deactivate a scraper without the next deploy flipping it back on.
var seedScrapers = []domain.ScraperMetadata{
	{ScraperFriendlyName: "APM Terminals Elizabeth", ScraperID: domain.ScraperAPM, TerminalID: "APM", ScrapeFrequencyHours: 4, IsActive: true, ScraperVersion: "1.0.0"},
	{ScraperFriendlyName: "Maher Terminals", ScraperID: domain.ScraperMaher, TerminalID: "MAHER", ScrapeFrequencyHours: 4, IsActive: false, ScraperVersion: "1.0.0"},
	{ScraperFriendlyName: "New York Container Terminal", ScraperID: domain.ScraperNYCT, TerminalID: "NYCT", ScrapeFrequencyHours: 4, IsActive: false, ScraperVersion: "1.0.0"},
	{ScraperFriendlyName: "Port Newark Container Terminal", ScraperID: domain.ScraperPNCT, TerminalID: "PNCT", ScrapeFrequencyHours: 4, IsActive: true, ScraperVersion: "1.0.0"},
	{ScraperFriendlyName: "Ports America Port Newark", ScraperID: domain.ScraperPTP, TerminalID: "PTP", ScrapeFrequencyHours: 4, IsActive: true, ScraperVersion: "1.0.0"},
}

// Seed inserts the scraper metadata catalog, skipping rows that already exist.
func Seed(db *gorm.DB, log *zap.Logger) error {
	scrapers := make([]domain.ScraperMetadata, len(seedScrapers))
	copy(scrapers, seedScrapers)

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scraper_id"}},
		DoNothing: true,
	}).Create(&scrapers)
	if result.Error != nil {
		return fmt.Errorf("seed scraper metadata: %w", result.Error)
	}

	log.Info("Scraper metadata seeded",
		zap.Int64("inserted", result.RowsAffected),
		zap.Int("catalog_size", len(seedScrapers)),
	)
	return nil
}
