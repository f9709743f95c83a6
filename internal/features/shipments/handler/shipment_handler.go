package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"terminal-commons/internal/features/shipments/domain"
	"terminal-commons/internal/features/shipments/ports"
	"terminal-commons/internal/features/shipments/service"
)

// RunTrigger starts a scraping run restricted to one shipment. The scrapers'
// runners implement it.
type RunTrigger interface {
	Name() string
	RunFor(ctx context.Context, target uuid.UUID) error
}

// ShipmentHandler handles HTTP requests for shipment operations.
type ShipmentHandler struct {
	shipments *service.ShipmentService
	triggers  map[domain.Scraper]RunTrigger
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(shipments *service.ShipmentService, triggers map[domain.Scraper]RunTrigger) *ShipmentHandler {
	return &ShipmentHandler{
		shipments: shipments,
		triggers:  triggers,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// Register mounts the shipment routes on the app.
func (h *ShipmentHandler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/shipments/:id", h.GetShipment)
	app.Post("/shipments", h.CreateShipment)
	app.Post("/shipments/:id/trigger", h.TriggerScrape)
}

// Health reports service liveness.
func (h *ShipmentHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetShipment returns one shipment by ID.
func (h *ShipmentHandler) GetShipment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "shipment id must be a UUID",
			RayID:   h.rayID(c),
		})
	}

	shipment, err := h.shipments.GetShipment(id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "shipment not found",
				RayID:   h.rayID(c),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   h.rayID(c),
		})
	}

	return c.JSON(shipment)
}

// CreateShipment registers a new shipment for tracking.
func (h *ShipmentHandler) CreateShipment(c *fiber.Ctx) error {
	var shipment domain.Shipment
	if err := c.BodyParser(&shipment); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid shipment payload",
			RayID:   h.rayID(c),
		})
	}

	if err := h.shipments.RegisterShipment(&shipment); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   h.rayID(c),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(shipment)
}

// TriggerScrape kicks off an on-demand scraping run for one shipment.
func (h *ShipmentHandler) TriggerScrape(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "shipment id must be a UUID",
			RayID:   h.rayID(c),
		})
	}

	shipment, err := h.shipments.GetShipment(id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "shipment not found",
				RayID:   h.rayID(c),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   h.rayID(c),
		})
	}

	trigger, ok := h.triggers[domain.Scraper(shipment.TerminalID)]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "no scraper registered for terminal " + shipment.TerminalID,
			RayID:   h.rayID(c),
		})
	}

	go func() {
		_ = trigger.RunFor(context.Background(), id)
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"shipment_id": id.String(),
		"scraper":     trigger.Name(),
		"status":      "scheduled",
	})
}

func (h *ShipmentHandler) rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
