package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skillflow/skillflow-server/internal/dto"
	"github.com/skillflow/skillflow-server/internal/store"
)

type HealthHandler struct {
	st store.Store
}

func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{st: st}
}

// Check probes the record store with a read of the user-directory key.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	storeStatus := "ok"
	if _, _, err := h.st.Get(c.Context(), store.UsersKey); err != nil {
		storeStatus = "error"
	}

	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Store:     storeStatus,
	}
	if storeStatus != "ok" {
		resp.Status = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
