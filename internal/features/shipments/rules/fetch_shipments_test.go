package rules

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-commons/internal/core/timeutil"
	"terminal-commons/internal/features/shipments/domain"
)

func apmMetadata() *domain.ScraperMetadata {
	return &domain.ScraperMetadata{
		ScraperFriendlyName:  "APM Terminal Scraper",
		ScraperID:            domain.ScraperAPM,
		TerminalID:           "APM",
		ScrapeFrequencyHours: 24,
		IsActive:             true,
	}
}

// TestFetchShipmentsRule_EligibilityWindow verifies due/not-due selection.
func TestFetchShipmentsRule_EligibilityWindow(t *testing.T) {
	now := time.Date(2024, 11, 20, 12, 0, 0, 0, timeutil.EST)
	started := now.Add(-48 * time.Hour)
	fiveHoursAgo := now.Add(-5 * time.Hour)
	oneHourAgo := now.Add(-1 * time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		shipment domain.Shipment
		want     bool
	}{
		{
			name: "ActiveDue",
			shipment: domain.Shipment{
				ScrapeStatus: domain.StatusActive, Frequency: 4,
				StartScrapeTime: &started, LastScrapedTime: &fiveHoursAgo,
			},
			want: true,
		},
		{
			name: "ActiveTooRecent",
			shipment: domain.Shipment{
				ScrapeStatus: domain.StatusActive, Frequency: 4,
				StartScrapeTime: &started, LastScrapedTime: &oneHourAgo,
			},
			want: false,
		},
		{
			name: "AssignedNeverScraped",
			shipment: domain.Shipment{
				ScrapeStatus: domain.StatusAssigned, Frequency: 4,
				StartScrapeTime: &started,
			},
			want: true,
		},
		{
			name: "AssignedStartsInFuture",
			shipment: domain.Shipment{
				ScrapeStatus: domain.StatusAssigned, Frequency: 4,
				StartScrapeTime: &future,
			},
			want: false,
		},
		{
			name: "AssignedNoStartTime",
			shipment: domain.Shipment{
				ScrapeStatus: domain.StatusAssigned, Frequency: 4,
			},
			want: false,
		},
		{
			name: "FailedTransientError",
			shipment: domain.Shipment{
				ScrapeStatus: domain.StatusFailed, Frequency: 4,
				Error: "('Connection aborted.', RemoteDisconnected())",
			},
			want: true,
		},
		{
			name: "FailedUnrelatedError",
			shipment: domain.Shipment{
				ScrapeStatus: domain.StatusFailed, Frequency: 4,
				Error: "element not found on page",
			},
			want: false,
		},
		{
			name: "StoppedTransientError",
			shipment: domain.Shipment{
				ScrapeStatus: domain.StatusStopped, Frequency: 4,
				Error: "Connection aborted by peer",
			},
			want: true,
		},
		{
			name: "InProgressNeverSelected",
			shipment: domain.Shipment{
				ScrapeStatus: domain.StatusInProgress, Frequency: 4,
				StartScrapeTime: &started, LastScrapedTime: &fiveHoursAgo,
			},
			want: false,
		},
		{
			name: "IneligibleNeverSelected",
			shipment: domain.Shipment{
				ScrapeStatus: domain.StatusIneligible, Frequency: 4,
				StartScrapeTime: &started,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.shipment.ShipmentID = uuid.New()
			tt.shipment.TerminalID = "APM"

			repo := newMockShipmentRepo()
			repo.byTerm["APM"] = []domain.Shipment{tt.shipment}

			ctx := &Context{
				ShipmentRepo:    repo,
				ScraperMetadata: apmMetadata(),
				Now:             now,
			}
			require.NoError(t, FetchShipmentsRule{}.Apply(ctx))

			if tt.want {
				assert.Len(t, ctx.Shipments, 1)
			} else {
				assert.Empty(t, ctx.Shipments)
			}
		})
	}
}

// TestFetchShipmentsRule_TargetOverride verifies the single-shipment override
// ignores eligibility windows entirely.
func TestFetchShipmentsRule_TargetOverride(t *testing.T) {
	repo := newMockShipmentRepo()
	target := &domain.Shipment{
		ShipmentID:   uuid.New(),
		TerminalID:   "APM",
		ScrapeStatus: domain.StatusIneligible,
	}
	repo.shipments[target.ShipmentID] = target

	ctx := &Context{
		ShipmentRepo:     repo,
		ScraperMetadata:  apmMetadata(),
		TargetShipmentID: target.ShipmentID,
	}
	require.NoError(t, FetchShipmentsRule{}.Apply(ctx))

	require.Len(t, ctx.Shipments, 1)
	assert.Equal(t, target.ShipmentID, ctx.Shipments[0].ShipmentID)
}

// TestFetchShipmentsRule_TargetNotFound verifies lookup errors propagate.
func TestFetchShipmentsRule_TargetNotFound(t *testing.T) {
	ctx := &Context{
		ShipmentRepo:     newMockShipmentRepo(),
		ScraperMetadata:  apmMetadata(),
		TargetShipmentID: uuid.New(),
	}
	assert.Error(t, FetchShipmentsRule{}.Apply(ctx))
}

// TestFetchShipmentsRule_MissingContext verifies dependency validation.
func TestFetchShipmentsRule_MissingContext(t *testing.T) {
	assert.Error(t, FetchShipmentsRule{}.Apply(&Context{}))
	assert.Error(t, FetchShipmentsRule{}.Apply(&Context{ShipmentRepo: newMockShipmentRepo()}))
}
