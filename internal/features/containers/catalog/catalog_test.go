package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-commons/internal/features/shipments/domain"
)

func applyAll(t *testing.T, scraper domain.Scraper, raw map[string]any) map[string]any {
	t.Helper()
	rules, err := ForScraper(scraper)
	require.NoError(t, err)

	mapped := make(map[string]any)
	for _, r := range rules {
		r.Apply(raw, mapped)
	}
	return mapped
}

// TestForScraper_Unknown verifies the registry rejects unconfigured scrapers.
func TestForScraper_Unknown(t *testing.T) {
	_, err := ForScraper(domain.ScraperMaher)
	assert.Error(t, err)
}

// TestAPMCatalog_DemurrageAndHolds covers the overdue-with-hold scenario.
func TestAPMCatalog_DemurrageAndHolds(t *testing.T) {
	raw := map[string]any{
		"LocalDateTime": "2024-01-10",
		"GoodThru":      "2024-01-05",
		"GateOutDate":   nil,
		"Freight":       "HOLD",
	}

	mapped := applyAll(t, domain.ScraperAPM, raw)

	assert.Equal(t, "YES", mapped["demurrage_amount"])
	assert.Equal(t, "YES", mapped["holds"])
}

// TestAPMCatalog_NoDemurrageAfterGateOut verifies a gated-out container never
// accrues demurrage.
func TestAPMCatalog_NoDemurrageAfterGateOut(t *testing.T) {
	raw := map[string]any{
		"LocalDateTime": "2024-01-10",
		"GoodThru":      "2024-01-05",
		"GateOutDate":   "2024-01-06",
	}

	mapped := applyAll(t, domain.ScraperAPM, raw)

	assert.Equal(t, "NO", mapped["demurrage_amount"])
	assert.Equal(t, "NO", mapped["holds"])
}

// TestAPMCatalog_TransitState verifies the vessel ETA fills transit state only
// without a yard location.
func TestAPMCatalog_TransitState(t *testing.T) {
	t.Run("NoYardLocation", func(t *testing.T) {
		mapped := applyAll(t, domain.ScraperAPM, map[string]any{
			"VesselEta": "2024-02-01",
		})
		assert.Equal(t, "2024-02-01", mapped["transit_state"])
	})

	t.Run("InYard", func(t *testing.T) {
		mapped := applyAll(t, domain.ScraperAPM, map[string]any{
			"VesselEta":    "2024-02-01",
			"YardLocation": "B-12",
		})
		_, present := mapped["transit_state"]
		assert.False(t, present)
	})
}

// TestPTPCatalog_Available covers the status-dependent availability matrix.
func TestPTPCatalog_Available(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{
			name: "OnVessel",
			raw:  map[string]any{"Status": "ON VESSEL"},
			want: "NO",
		},
		{
			name: "InYardClean",
			raw:  map[string]any{"Status": "IN YARD"},
			want: "YES",
		},
		{
			name: "InYardCustomsHold",
			raw:  map[string]any{"Status": "IN YARD", "Customs": "HOLD"},
			want: "NO",
		},
		{
			name: "InYardFreightHold",
			raw:  map[string]any{"Status": "IN YARD", "Freight": "HOLD"},
			want: "NO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := applyAll(t, domain.ScraperPTP, tt.raw)
			assert.Equal(t, tt.want, mapped["available"])
		})
	}
}

// TestPTPCatalog_DemurrageRequiresNoCarrierStatus verifies the PTP variant of
// the demurrage policy.
func TestPTPCatalog_DemurrageRequiresNoCarrierStatus(t *testing.T) {
	overdue := map[string]any{
		"LocalDateTime": "2024-01-10",
		"GoodThru":      "2024-01-05",
	}

	mapped := applyAll(t, domain.ScraperPTP, overdue)
	assert.Equal(t, "YES", mapped["demurrage_amount"])

	overdue["CarrierStatus"] = "RELEASED"
	mapped = applyAll(t, domain.ScraperPTP, overdue)
	assert.Equal(t, "NO", mapped["demurrage_amount"])
}

// TestPTPCatalog_DepartedAndTransit verifies release status and transit state.
func TestPTPCatalog_DepartedAndTransit(t *testing.T) {
	mapped := applyAll(t, domain.ScraperPTP, map[string]any{
		"Status":           "DEPARTED",
		"DepartureCarrier": "MAEU",
	})

	assert.Equal(t, "YES", mapped["yard_terminal_release_status"])
	assert.Equal(t, "DEPARTED", mapped["transit_state"])

	mapped = applyAll(t, domain.ScraperPTP, map[string]any{})
	assert.Equal(t, "NO", mapped["yard_terminal_release_status"])
	assert.Equal(t, "N/A", mapped["transit_state"])
}

// TestPTPCatalog_NestedLookups verifies the deep JSON paths with sentinel fallback.
func TestPTPCatalog_NestedLookups(t *testing.T) {
	raw := map[string]any{
		"shipmentstatus": []any{
			map[string]any{
				"holdsinfo": []any{
					map[string]any{"type": "CUSTOMS", "status": "RELEASED"},
					map[string]any{"type": "FREIGHT", "status": "HOLD"},
				},
			},
		},
		"locations": []any{
			map[string]any{
				"locationinfo": map[string]any{
					"currentconditioninfo": map[string]any{
						"lastfree_dttm": "2024-01-15",
						"yard_loc":      "A-03",
					},
				},
			},
		},
	}

	mapped := applyAll(t, domain.ScraperPTP, raw)

	assert.Equal(t, "RELEASED", mapped["usda_status"])
	assert.Equal(t, "RELEASED", mapped["custom_release_status"])
	assert.Equal(t, "HOLD", mapped["carrier_release_status"])
	assert.Equal(t, "2024-01-15", mapped["last_free_date"])
	assert.Equal(t, "A-03", mapped["location"])

	empty := applyAll(t, domain.ScraperPTP, map[string]any{})
	assert.Equal(t, "N/A", empty["usda_status"])
	assert.Equal(t, "N/A", empty["last_free_date"])
	assert.Equal(t, "N/A", empty["location"])
}

// TestPNCTCatalog covers the numeric availability, demurrage, and charge rules.
func TestPNCTCatalog(t *testing.T) {
	raw := map[string]any{
		"Available":           float64(2),
		"DemurrageAmount":     float64(120),
		"LineDemurrageAmount": float64(30),
		"CustomReleaseStatus": "HOLD",
		"SizeTypeHeight":      "40HC",
	}

	mapped := applyAll(t, domain.ScraperPNCT, raw)

	assert.Equal(t, "YES", mapped["available"])
	assert.Equal(t, "YES", mapped["demurrage_amount"])
	assert.Equal(t, float64(150), mapped["charges"])
	assert.Equal(t, "YES", mapped["holds"])
	assert.Equal(t, "40HC", mapped["type_code"])
}

// TestPNCTCatalog_Defaults verifies behavior on an empty row.
func TestPNCTCatalog_Defaults(t *testing.T) {
	mapped := applyAll(t, domain.ScraperPNCT, map[string]any{})

	assert.Equal(t, "NO", mapped["available"])
	assert.Equal(t, "NO", mapped["demurrage_amount"])
	assert.Equal(t, float64(0), mapped["charges"])
	assert.Equal(t, "NO", mapped["holds"])
	assert.Equal(t, "", mapped["type_code"])
}
