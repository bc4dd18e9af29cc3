package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillflow/skillflow-server/internal/auth"
	"github.com/skillflow/skillflow-server/internal/config"
	"github.com/skillflow/skillflow-server/internal/dto"
	"github.com/skillflow/skillflow-server/internal/models"
	"github.com/skillflow/skillflow-server/internal/users"
)

// AdminRequired gates admin routes. The role claim is only a hint; the
// directory is the authority, so a role change takes effect without waiting
// for token expiry. The bootstrap address passes regardless. Impersonation
// tokens never pass: an admin viewing as a user must return to their own
// identity first.
func AdminRequired(userSvc *users.Service, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if claims.Impersonator != "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}

		if claims.Email == cfg.AdminEmail {
			return c.Next()
		}

		if user, err := userSvc.GetByID(c.Context(), claims.UserID); err == nil {
			if user.Role == models.RoleAdmin {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}
