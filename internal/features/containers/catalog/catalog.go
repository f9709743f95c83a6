package catalog

import (
	"fmt"

	"terminal-commons/internal/features/shipments/domain"
)

// Rule derives one normalized field from a scraped row. Rules see both the
// raw row and the mapped-so-far data and may add or override any mapped
// field. They are pure with respect to everything but the mapped map.
type Rule interface {
	Apply(raw map[string]any, mapped map[string]any)
}

// sentinel is the placeholder the terminal feeds use for absent values.
const sentinel = "N/A"

// catalogs binds each scraper to its fixed, ordered rule list. Selection is
// explicit configuration, never inferred from the row contents.
var catalogs = map[domain.Scraper][]Rule{
	domain.ScraperAPM: {
		APMDemurrageRule{},
		APMHoldsRule{},
		APMTransitStateRule{},
	},
	domain.ScraperPTP: {
		PTPAvailableRule{},
		PTPDemurrageRule{},
		PTPHoldsRule{},
		PTPDepartedTerminalRule{},
		PTPTransitStateRule{},
		PTPUSDAStatusRule{},
		PTPLastFreeDateRule{},
		PTPLocationRule{},
		PTPCustomReleaseStatusRule{},
		PTPCarrierReleaseStatusRule{},
	},
	domain.ScraperPNCT: {
		PNCTAvailableRule{},
		PNCTDemurrageRule{},
		PNCTChargesRule{},
		PNCTHoldsRule{},
		PNCTTypeCodeRule{},
	},
}

// ForScraper returns the ordered rule list for a scraper.
func ForScraper(s domain.Scraper) ([]Rule, error) {
	rules, ok := catalogs[s]
	if !ok {
		return nil, fmt.Errorf("no rule catalog configured for scraper %s", s)
	}
	return rules, nil
}
