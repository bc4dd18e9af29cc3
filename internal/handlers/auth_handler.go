package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/skillflow/skillflow-server/internal/auth"
	"github.com/skillflow/skillflow-server/internal/config"
	"github.com/skillflow/skillflow-server/internal/dto"
	"github.com/skillflow/skillflow-server/internal/session"
	"github.com/skillflow/skillflow-server/internal/users"
)

type AuthHandler struct {
	cfg      *config.Config
	users    *users.Service
	sessions *session.Manager
}

func NewAuthHandler(cfg *config.Config, userSvc *users.Service, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{cfg: cfg, users: userSvc, sessions: sessions}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
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

	user, err := h.users.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, users.ErrInvalidEmail) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	token, err := auth.NewToken(h.cfg, user, "")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	if err := h.sessions.Create(c.Context(), user, token); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{User: user.Safe(), Token: token})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.users.VerifyLogin(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid email or password",
		})
	}

	token, err := auth.NewToken(h.cfg, user, "")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	if err := h.sessions.Create(c.Context(), user, token); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.AuthResponse{User: user.Safe(), Token: token})
}

// Logout clears the persisted session; the audit entry is written by the
// session manager, attributed to the outgoing user.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Clear(c.Context())
	return c.JSON(dto.MessageResponse{Message: "Logged out"})
}
