// Package auth issues and reads the JWT bearer tokens used by the HTTP
// surface.
package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/skillflow/skillflow-server/internal/config"
	"github.com/skillflow/skillflow-server/internal/models"
)

// NewToken signs an HS256 access token for the user. When an admin
// impersonates another user, actOnBehalf carries the admin's id in the "act"
// claim so the real identity stays attributable.
func NewToken(cfg *config.Config, user models.User, actOnBehalf string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(cfg.JWTAccessExpiry).Unix(),
	}
	if actOnBehalf != "" {
		claims["act"] = actOnBehalf
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// TokenClaims is the decoded view of a request's bearer token.
type TokenClaims struct {
	UserID       string
	Email        string
	Role         string
	Impersonator string // admin id from the "act" claim, empty otherwise
}

// FromContext extracts the claims the JWT middleware stored in Fiber locals.
func FromContext(c *fiber.Ctx) (TokenClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return TokenClaims{}, errors.New("invalid token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return TokenClaims{}, errors.New("missing sub claim")
	}

	out := TokenClaims{UserID: sub}
	out.Email, _ = claims["email"].(string)
	out.Role, _ = claims["role"].(string)
	out.Impersonator, _ = claims["act"].(string)
	return out, nil
}
