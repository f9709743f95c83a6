package domain

// ScrapeStatus represents the lifecycle state of a tracked shipment.
type ScrapeStatus string

const (
	// StatusAssigned indicates the shipment is registered and its start time is in the future.
	StatusAssigned ScrapeStatus = "ASSIGNED"
	// StatusActive indicates the start time has passed and the last scrape succeeded.
	StatusActive ScrapeStatus = "ACTIVE"
	// StatusInProgress indicates a scrape attempt is currently running.
	StatusInProgress ScrapeStatus = "IN_PROGRESS"
	// StatusIneligible indicates no start time was provided.
	StatusIneligible ScrapeStatus = "INELIGIBLE"
	// StatusStopped indicates the container was previously available and is no longer found.
	StatusStopped ScrapeStatus = "STOPPED"
	// StatusFailed indicates the scraper failed for this shipment.
	StatusFailed ScrapeStatus = "FAILED"
)

// Scraper identifies a terminal scraper implementation.
type Scraper string

const (
	// ScraperAPM is the APM terminal scraper.
	ScraperAPM Scraper = "APM"
	// ScraperMaher is the MAHER terminal scraper.
	ScraperMaher Scraper = "MAHER"
	// ScraperNYCT is the NYCT terminal scraper.
	ScraperNYCT Scraper = "NYCT"
	// ScraperPNCT is the PNCT terminal scraper.
	ScraperPNCT Scraper = "PNCT"
	// ScraperPTP is the PTP terminal scraper.
	ScraperPTP Scraper = "PTP"
)
