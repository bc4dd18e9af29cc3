package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skillflow/skillflow-server/internal/auth"
	"github.com/skillflow/skillflow-server/internal/dto"
	"github.com/skillflow/skillflow-server/internal/skills"
)

type SkillsHandler struct {
	repo *skills.Repository
}

func NewSkillsHandler(repo *skills.Repository) *SkillsHandler {
	return &SkillsHandler{repo: repo}
}

// List handles GET /skills: the caller's whole collection. Load failures
// degrade to an empty list.
func (h *SkillsHandler) List(c *fiber.Ctx) error {
	claims, err := auth.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	return c.JSON(h.repo.Load(c.Context(), claims.UserID))
}

// Sync handles POST /skills/sync: a total overwrite of the caller's
// collection, mirroring the client's whole-list save model.
func (h *SkillsHandler) Sync(c *fiber.Ctx) error {
	claims, err := auth.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.SyncSkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.repo.Save(c.Context(), claims.UserID, req.Skills); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save skills",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Synced"})
}

// ExportCSV streams the caller's entries as a spreadsheet-friendly CSV
// download.
func (h *SkillsHandler) ExportCSV(c *fiber.Ctx) error {
	claims, err := auth.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	body := skills.ExportCSV(h.repo.Load(c.Context(), claims.UserID))
	filename := "skillflow-export-" + time.Now().Format("2006-01-02") + ".csv"
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}

// Reset handles DELETE /skills: removes the caller's collection entirely.
func (h *SkillsHandler) Reset(c *fiber.Ctx) error {
	claims, err := auth.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	if err := h.repo.Clear(c.Context(), claims.UserID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to reset data",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "All data reset"})
}
