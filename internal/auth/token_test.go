package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/skillflow/skillflow-server/internal/config"
	"github.com/skillflow/skillflow-server/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		JWTAccessExpiry: time.Hour,
	}
}

func parse(t *testing.T, raw string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestNewToken(t *testing.T) {
	user := models.User{ID: "u1", Email: "alice@example.com", Role: models.RoleUser}

	raw, err := NewToken(testConfig(), user, "")
	require.NoError(t, err)

	claims := parse(t, raw)
	require.Equal(t, "u1", claims["sub"])
	require.Equal(t, "alice@example.com", claims["email"])
	require.Equal(t, models.RoleUser, claims["role"])
	_, hasAct := claims["act"]
	require.False(t, hasAct)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, time.Minute)
}

func TestNewTokenCarriesImpersonator(t *testing.T) {
	target := models.User{ID: "u1", Email: "alice@example.com", Role: models.RoleUser}

	raw, err := NewToken(testConfig(), target, "admin-1")
	require.NoError(t, err)

	claims := parse(t, raw)
	require.Equal(t, "u1", claims["sub"])
	require.Equal(t, "admin-1", claims["act"])
}
