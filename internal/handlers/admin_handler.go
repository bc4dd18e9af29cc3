package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skillflow/skillflow-server/internal/admin"
	"github.com/skillflow/skillflow-server/internal/announce"
	"github.com/skillflow/skillflow-server/internal/audit"
	"github.com/skillflow/skillflow-server/internal/auth"
	"github.com/skillflow/skillflow-server/internal/config"
	"github.com/skillflow/skillflow-server/internal/dto"
	"github.com/skillflow/skillflow-server/internal/session"
	"github.com/skillflow/skillflow-server/internal/users"
)

type AdminHandler struct {
	cfg        *config.Config
	users      *users.Service
	sessions   *session.Manager
	aggregator *admin.Aggregator
	backup     *admin.BackupService
	announce   *announce.Service
	audit      *audit.Service
}

func NewAdminHandler(
	cfg *config.Config,
	userSvc *users.Service,
	sessions *session.Manager,
	aggregator *admin.Aggregator,
	backup *admin.BackupService,
	announceSvc *announce.Service,
	auditSvc *audit.Service,
) *AdminHandler {
	return &AdminHandler{
		cfg:        cfg,
		users:      userSvc,
		sessions:   sessions,
		aggregator: aggregator,
		backup:     backup,
		announce:   announceSvc,
		audit:      auditSvc,
	}
}

// userError maps directory sentinels to HTTP codes.
func userError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, users.ErrInvalidEmail):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, users.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, users.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Internal server error"})
	}
}

// ListUsers handles GET /admin/users: every account with per-user stats.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	stats := h.aggregator.ComputeStats(c.Context())
	return c.JSON(stats.Users)
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	claims, _ := auth.FromContext(c)

	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Password must be at least 6 characters",
		})
	}
	if req.Role == "" {
		req.Role = "user"
	}

	user, err := h.users.AdminCreateUser(c.Context(), req.Name, req.Email, req.Role, req.Password, claims.Email)
	if err != nil {
		return userError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user.Safe())
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	claims, _ := auth.FromContext(c)

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	upd := users.Update{Name: req.Name, Email: req.Email, Role: req.Role}
	user, err := h.users.UpdateUser(c.Context(), c.Params("id"), upd, claims.Email)
	if err != nil {
		return userError(c, err)
	}
	return c.JSON(user.Safe())
}

func (h *AdminHandler) ResetPassword(c *fiber.Ctx) error {
	claims, _ := auth.FromContext(c)

	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Password must be at least 6 characters",
		})
	}

	if err := h.users.ResetPassword(c.Context(), c.Params("id"), req.Password, claims.Email); err != nil {
		return userError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset"})
}

// DeleteUser removes an account and its skill data. Self-deletion is
// rejected here; the directory itself does not care.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	claims, _ := auth.FromContext(c)
	id := c.Params("id")

	if id == claims.UserID {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "You cannot delete your own account",
		})
	}

	if err := h.users.Delete(c.Context(), id, claims.Email); err != nil {
		return userError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted"})
}

// Impersonate issues a token for the target user while recording the admin
// behind it, and flips the persisted session the way the original client
// did.
func (h *AdminHandler) Impersonate(c *fiber.Ctx) error {
	claims, _ := auth.FromContext(c)
	targetID := c.Params("id")

	if targetID == claims.UserID {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "You are already logged in as yourself",
		})
	}

	adminUser, err := h.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return userError(c, err)
	}
	target, err := h.users.GetByID(c.Context(), targetID)
	if err != nil {
		return userError(c, err)
	}

	token, err := auth.NewToken(h.cfg, target, adminUser.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	if err := h.sessions.Impersonate(c.Context(), adminUser, target); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.ImpersonateResponse{User: target.Safe(), Token: token})
}

// StopImpersonation restores the admin identity saved when impersonation
// began and issues a fresh admin token. Only the token minted by Impersonate
// can call it: the "act" claim must name the saved admin.
func (h *AdminHandler) StopImpersonation(c *fiber.Ctx) error {
	claims, err := auth.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	if claims.Impersonator == "" {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Not impersonating",
		})
	}
	if saved := h.sessions.Impersonator(c.Context()); saved == nil || saved.ID != claims.Impersonator {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Not impersonating",
		})
	}

	adminUser, err := h.sessions.StopImpersonation(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "No impersonation in progress",
		})
	}

	token, err := auth.NewToken(h.cfg, adminUser, "")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.ImpersonateResponse{User: adminUser.Safe(), Token: token})
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.aggregator.ComputeStats(c.Context()))
}

func (h *AdminHandler) ListAnnouncements(c *fiber.Ctx) error {
	return c.JSON(h.announce.List(c.Context()))
}

func (h *AdminHandler) CreateAnnouncement(c *fiber.Ctx) error {
	claims, _ := auth.FromContext(c)

	var req dto.CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Message is required",
		})
	}
	if req.Type == "" {
		req.Type = "info"
	}

	item, err := h.announce.Create(c.Context(), req.Message, req.Type, claims.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create announcement",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *AdminHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	claims, _ := auth.FromContext(c)
	if err := h.announce.Delete(c.Context(), c.Params("id"), claims.Email); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete announcement",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Announcement removed"})
}

func (h *AdminHandler) ListAuditLogs(c *fiber.Ctx) error {
	return c.JSON(h.audit.List(c.Context()))
}

// Export streams the full-system backup document as a download.
func (h *AdminHandler) Export(c *fiber.Ctx) error {
	doc, err := h.backup.ExportAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Export failed",
		})
	}

	filename := "skillflow-backup-" + time.Now().Format("2006-01-02") + ".json"
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}

// Import restores a backup document. A rejected document leaves state
// untouched.
func (h *AdminHandler) Import(c *fiber.Ctx) error {
	claims, _ := auth.FromContext(c)

	if err := h.backup.ImportAll(c.Context(), c.Body(), claims.Email); err != nil {
		if errors.Is(err, admin.ErrInvalidBackup) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid backup file format",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Import failed",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "System restored"})
}
