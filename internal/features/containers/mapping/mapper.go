package mapping

import "terminal-commons/internal/features/shipments/domain"

// Mapping declares how normalized target fields are filled from a scraper's
// raw keys: target field name -> source field name.
type Mapping map[string]string

// Apply maps a raw row through the mapping table. Every target field is
// present in the result; targets whose source key is absent map to nil.
// The returned consumed list names the source keys that were found.
func Apply(m Mapping, row map[string]any) (map[string]any, []string) {
	mapped := make(map[string]any, len(m))
	consumed := make([]string, 0, len(m))

	for target, source := range m {
		v, ok := row[source]
		if !ok {
			mapped[target] = nil
			continue
		}
		mapped[target] = v
		consumed = append(consumed, source)
	}
	return mapped, consumed
}

// defaultMappings binds each scraper to its mapping table. The keys mirror
// the field names each terminal's feed actually uses.
var defaultMappings = map[domain.Scraper]Mapping{
	domain.ScraperAPM: {
		"container_number":          "ContainerId",
		"date":                      "LocalDateTime",
		"port":                      "Port",
		"terminal":                  "Terminal",
		"available":                 "ReadyForDelivery",
		"location":                  "YardLocation",
		"last_free_date":            "GoodThru",
		"vessel_name":               "VesselName",
		"vessel_eta":                "VesselEta",
		"custom_release_status":     "Customs",
		"carrier_release_status":    "Freight",
		"last_updated_availability": "LocalDateTime",
	},
	domain.ScraperPTP: {
		"container_number":          "ContainerNumber",
		"date":                      "LocalDateTime",
		"port":                      "Port",
		"terminal":                  "Terminal",
		"vessel_name":               "VesselName",
		"vessel_eta":                "VesselEta",
		"last_updated_availability": "LocalDateTime",
	},
	domain.ScraperPNCT: {
		"container_number":          "UnitNumber",
		"date":                      "StatusDate",
		"port":                      "Port",
		"terminal":                  "Terminal",
		"vessel_name":               "VesselName",
		"vessel_eta":                "VesselEta",
		"location":                  "YardLocation",
		"last_free_date":            "LastFreeDate",
		"custom_release_status":     "CustomReleaseStatus",
		"carrier_release_status":    "CarrierReleaseStatus",
		"last_updated_availability": "StatusDate",
	},
}

// ForScraper returns the mapping table for a scraper.
func ForScraper(s domain.Scraper) (Mapping, bool) {
	m, ok := defaultMappings[s]
	return m, ok
}
