package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/secure", Protected(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": GetUserID(c)})
	})
	return app
}

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "round@example.com")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "round@example.com", claims.Email)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	claims := Claims{
		UserID: uuid.New(),
		Email:  "forged@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("not-the-configured-secret"))
	require.NoError(t, err)

	_, err = ParseToken(forged)
	assert.Error(t, err)
}

func TestProtectedAcceptsValidToken(t *testing.T) {
	app := protectedApp()
	userID := uuid.New()

	token, err := GenerateToken(userID, "test@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectedRejections(t *testing.T) {
	app := protectedApp()

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/secure", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("not bearer format", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/secure", nil)
		req.Header.Set("Authorization", "Token abc123")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/secure", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetUserIDWithoutClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/open", func(c *fiber.Ctx) error {
		assert.Equal(t, uuid.Nil, GetUserID(c))
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/open", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
