package handlers

import (
	"github.com/gofiber/fiber/v3"

	"finderqr/internal/qrcode"
)

const readinessKey = "finderqr:readyz"

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	storage  fiber.Storage
	renderer qrcode.Renderer
}

// NewProbeHandler creates a new probe handler. storage may be nil when
// sessions are kept in memory.
func NewProbeHandler(storage fiber.Storage, renderer qrcode.Renderer) *ProbeHandler {
	return &ProbeHandler{storage: storage, renderer: renderer}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK if session storage is reachable and QR codes can be rendered.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if h.storage != nil {
		if _, err := h.storage.Get(readinessKey); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "error",
				"error":  "session storage unavailable",
			})
		}
	}

	if _, err := h.renderer.PNG(readinessKey, qrcode.MinSize); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "qr renderer unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
