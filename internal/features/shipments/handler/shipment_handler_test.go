package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"terminal-commons/internal/features/shipments/domain"
	"terminal-commons/internal/features/shipments/ports"
	"terminal-commons/internal/features/shipments/service"
)

type memShipmentRepo struct {
	byID map[uuid.UUID]*domain.Shipment
}

func (m *memShipmentRepo) Save(s *domain.Shipment) error { return m.SaveOrUpdate(s) }

func (m *memShipmentRepo) SaveOrUpdate(s *domain.Shipment) error {
	copied := *s
	m.byID[s.ShipmentID] = &copied
	return nil
}

func (m *memShipmentRepo) GetByID(id uuid.UUID) (*domain.Shipment, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memShipmentRepo) ListByTerminal(terminalID string) ([]domain.Shipment, error) {
	return nil, nil
}

type memContainerRepo struct{}

func (memContainerRepo) SaveOrUpdate(*domain.ContainerAvailability) error { return nil }
func (memContainerRepo) GetByContainerNumberAndShipmentID(string, uuid.UUID) (*domain.ContainerAvailability, error) {
	return nil, ports.ErrNotFound
}

type memLogRepo struct{}

func (memLogRepo) Append(*domain.ShipmentLog) error { return nil }

type stubTrigger struct {
	name   string
	called chan uuid.UUID
}

func (s *stubTrigger) Name() string { return s.name }

func (s *stubTrigger) RunFor(ctx context.Context, target uuid.UUID) error {
	s.called <- target
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *memShipmentRepo, *stubTrigger) {
	t.Helper()

	repo := &memShipmentRepo{byID: map[uuid.UUID]*domain.Shipment{}}
	svc := service.NewShipmentService(repo, memContainerRepo{}, memLogRepo{}, zap.NewNop())
	trigger := &stubTrigger{name: "APM", called: make(chan uuid.UUID, 1)}

	h := NewShipmentHandler(svc, map[domain.Scraper]RunTrigger{
		domain.ScraperAPM: trigger,
	})

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	h.Register(app)

	return app, repo, trigger
}

func TestHealth(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetShipment_Success(t *testing.T) {
	app, repo, _ := newTestApp(t)
	shipment := &domain.Shipment{
		ShipmentID:      uuid.New(),
		ContainerNumber: "MSKU1234567",
		TerminalID:      "APM",
		ScrapeStatus:    domain.StatusActive,
	}
	require.NoError(t, repo.SaveOrUpdate(shipment))

	resp, err := app.Test(httptest.NewRequest("GET", "/shipments/"+shipment.ShipmentID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result domain.Shipment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, shipment.ShipmentID, result.ShipmentID)
	assert.Equal(t, "MSKU1234567", result.ContainerNumber)
}

func TestGetShipment_NotFound(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/shipments/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetShipment_BadID(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/shipments/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "test-ray-id", body.RayID)
}

func TestCreateShipment(t *testing.T) {
	app, repo, _ := newTestApp(t)

	payload, _ := json.Marshal(map[string]any{
		"container_number":  "MSKU1234567",
		"terminal_id":       "APM",
		"start_scrape_time": time.Now().Format(time.RFC3339),
	})
	req := httptest.NewRequest("POST", "/shipments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result domain.Shipment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEqual(t, uuid.Nil, result.ShipmentID)
	assert.Equal(t, domain.StatusAssigned, result.ScrapeStatus)

	_, err = repo.GetByID(result.ShipmentID)
	assert.NoError(t, err)
}

func TestCreateShipment_MissingIdentifiers(t *testing.T) {
	app, _, _ := newTestApp(t)

	payload, _ := json.Marshal(map[string]any{"terminal_id": "APM"})
	req := httptest.NewRequest("POST", "/shipments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateShipment_NoStartTimeIsIneligible(t *testing.T) {
	app, _, _ := newTestApp(t)

	payload, _ := json.Marshal(map[string]any{
		"container_number": "MSKU1234567",
		"terminal_id":      "APM",
	})
	req := httptest.NewRequest("POST", "/shipments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result domain.Shipment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.StatusIneligible, result.ScrapeStatus)
}

func TestTriggerScrape(t *testing.T) {
	app, repo, trigger := newTestApp(t)
	shipment := &domain.Shipment{
		ShipmentID:      uuid.New(),
		ContainerNumber: "MSKU1234567",
		TerminalID:      "APM",
		ScrapeStatus:    domain.StatusActive,
	}
	require.NoError(t, repo.SaveOrUpdate(shipment))

	req := httptest.NewRequest("POST", "/shipments/"+shipment.ShipmentID.String()+"/trigger", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	select {
	case target := <-trigger.called:
		assert.Equal(t, shipment.ShipmentID, target)
	case <-time.After(time.Second):
		t.Fatal("trigger was never invoked")
	}
}

func TestTriggerScrape_UnknownTerminal(t *testing.T) {
	app, repo, _ := newTestApp(t)
	shipment := &domain.Shipment{
		ShipmentID:      uuid.New(),
		ContainerNumber: "MSKU1234567",
		TerminalID:      "UNKNOWN",
		ScrapeStatus:    domain.StatusActive,
	}
	require.NoError(t, repo.SaveOrUpdate(shipment))

	req := httptest.NewRequest("POST", "/shipments/"+shipment.ShipmentID.String()+"/trigger", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
