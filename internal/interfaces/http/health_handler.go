package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger verifica conectividad con la base de datos (lo cumple pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responde el estado del servicio y su base de datos.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler construye el handler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "degraded",
			"database": "down",
		})
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": "up",
	})
}
