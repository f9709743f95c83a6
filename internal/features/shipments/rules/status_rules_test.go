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

func testShipment() *domain.Shipment {
	return &domain.Shipment{
		ShipmentID:      uuid.New(),
		ContainerNumber: "MSKU1234567",
		TerminalID:      "APM",
		ScrapeStatus:    domain.StatusAssigned,
		Frequency:       4,
	}
}

// TestSetInProgressRule verifies the IN_PROGRESS transition stamps the clock.
func TestSetInProgressRule(t *testing.T) {
	shipment := testShipment()
	now := time.Date(2024, 11, 20, 9, 0, 0, 0, timeutil.EST)

	err := SetInProgressRule{}.Apply(&Context{Shipment: shipment, Now: now})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, shipment.ScrapeStatus)
	require.NotNil(t, shipment.LastScrapedTime)
	assert.Equal(t, now, *shipment.LastScrapedTime)
	require.NotNil(t, shipment.NextScrapeTime)
	assert.Equal(t, now.Add(4*time.Hour), *shipment.NextScrapeTime)
}

// TestSetInProgressRule_MonotonicLastScraped verifies a later invocation never
// moves last_scraped_time backwards.
func TestSetInProgressRule_MonotonicLastScraped(t *testing.T) {
	shipment := testShipment()
	earlier := time.Date(2024, 11, 20, 9, 0, 0, 0, timeutil.EST)
	later := earlier.Add(2 * time.Hour)

	require.NoError(t, SetInProgressRule{}.Apply(&Context{Shipment: shipment, Now: earlier}))
	first := *shipment.LastScrapedTime

	require.NoError(t, SetInProgressRule{}.Apply(&Context{Shipment: shipment, Now: later}))
	assert.True(t, !shipment.LastScrapedTime.Before(first))
}

// TestSetInProgressRule_MissingShipment verifies context validation.
func TestSetInProgressRule_MissingShipment(t *testing.T) {
	err := SetInProgressRule{}.Apply(&Context{})
	assert.Error(t, err)
}

// TestSetActiveRule verifies the ACTIVE transition clears the error and
// schedules the next scrape for shipment and container.
func TestSetActiveRule(t *testing.T) {
	shipment := testShipment()
	shipment.Error = "previous failure"
	container := &domain.ContainerAvailability{
		ShipmentID:      shipment.ShipmentID,
		ContainerNumber: shipment.ContainerNumber,
	}
	now := time.Date(2024, 11, 20, 9, 0, 0, 0, timeutil.EST)

	err := SetActiveRule{}.Apply(&Context{Shipment: shipment, Container: container, Now: now})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, shipment.ScrapeStatus)
	assert.Empty(t, shipment.Error)
	assert.Equal(t, now.Add(4*time.Hour), *shipment.NextScrapeTime)
	assert.Equal(t, domain.StatusActive, container.ScrapeStatus)
	assert.Equal(t, now, *container.LastScrapedTime)
}

// TestSetFailedRule verifies the FAILED transition records the error message.
func TestSetFailedRule(t *testing.T) {
	shipment := testShipment()
	now := time.Date(2024, 11, 20, 9, 0, 0, 0, timeutil.EST)

	err := SetFailedRule{}.Apply(&Context{
		Shipment:     shipment,
		ErrorMessage: "terminal page timed out",
		Now:          now,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, shipment.ScrapeStatus)
	assert.Equal(t, "terminal page timed out", shipment.Error)
	assert.Equal(t, now.Add(4*time.Hour), *shipment.NextScrapeTime)
}

// TestSetStoppedRule verifies the STOPPED transition clears scheduling.
func TestSetStoppedRule(t *testing.T) {
	shipment := testShipment()
	next := time.Now()
	shipment.NextScrapeTime = &next
	container := &domain.ContainerAvailability{NextScrapeTime: &next}

	err := SetStoppedRule{}.Apply(&Context{Shipment: shipment, Container: container})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusStopped, shipment.ScrapeStatus)
	assert.Nil(t, shipment.NextScrapeTime)
	assert.Equal(t, domain.StatusStopped, container.ScrapeStatus)
	assert.Nil(t, container.NextScrapeTime)
}

// TestHandleMissingContainerRule covers the STOPPED and FAILED outcomes.
func TestHandleMissingContainerRule(t *testing.T) {
	tests := []struct {
		name        string
		priorStatus domain.ScrapeStatus
		wantStatus  domain.ScrapeStatus
		wantMessage bool
	}{
		{name: "ActiveBecomesStopped", priorStatus: domain.StatusActive, wantStatus: domain.StatusStopped},
		{name: "InProgressBecomesStopped", priorStatus: domain.StatusInProgress, wantStatus: domain.StatusStopped},
		{name: "AssignedBecomesFailed", priorStatus: domain.StatusAssigned, wantStatus: domain.StatusFailed, wantMessage: true},
		{name: "FailedStaysFailed", priorStatus: domain.StatusFailed, wantStatus: domain.StatusFailed, wantMessage: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shipmentID := uuid.New()
			next := time.Now()
			repo := newMockContainerRepo()
			record := &domain.ContainerAvailability{
				ShipmentID:      shipmentID,
				ContainerNumber: "MSKU1234567",
				ScrapeStatus:    tt.priorStatus,
				NextScrapeTime:  &next,
			}
			require.NoError(t, repo.SaveOrUpdate(record))
			repo.saved = nil

			ctx := &Context{
				ShipmentID:      shipmentID,
				ContainerNumber: "MSKU1234567",
				ContainerRepo:   repo,
			}
			err := HandleMissingContainerRule{}.Apply(ctx)

			require.NoError(t, err)
			require.Len(t, repo.saved, 1)
			assert.Equal(t, tt.wantStatus, repo.saved[0].ScrapeStatus)
			if tt.wantStatus == domain.StatusStopped {
				assert.Nil(t, repo.saved[0].NextScrapeTime)
			}
			if tt.wantMessage {
				assert.Contains(t, ctx.ErrorMessage, "MSKU1234567")
			} else {
				assert.Empty(t, ctx.ErrorMessage)
			}
		})
	}
}

// TestHandleMissingContainerRule_MissingContext verifies context validation.
func TestHandleMissingContainerRule_MissingContext(t *testing.T) {
	err := HandleMissingContainerRule{}.Apply(&Context{ContainerNumber: "X"})
	assert.Error(t, err)
}

// TestHandleMissingContainerRule_NoRecord verifies lookup failures propagate.
func TestHandleMissingContainerRule_NoRecord(t *testing.T) {
	ctx := &Context{
		ShipmentID:      uuid.New(),
		ContainerNumber: "MSKU0000000",
		ContainerRepo:   newMockContainerRepo(),
	}
	err := HandleMissingContainerRule{}.Apply(ctx)
	assert.Error(t, err)
}
