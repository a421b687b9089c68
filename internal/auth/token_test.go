package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	user := NewUser("john@company.com", "John Doe", domain.RoleAgent)

	token, exp, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "john@company.com", claims.Email)
	assert.Equal(t, domain.RoleAgent, claims.Role)
}

func TestTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	user := NewUser("john@company.com", "John Doe", domain.RoleAgent)

	token, _, err := NewTokenManager("secret", time.Hour).GenerateToken(user)
	require.NoError(t, err)
	_, err = NewTokenManager("other", time.Hour).ParseToken(token)
	assert.Error(t, err)

	tm := NewTokenManager("secret", time.Minute)
	issued := time.Now()
	tm.now = func() time.Time { return issued }
	token, _, err = tm.GenerateToken(user)
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func newMiddlewareApp(t *testing.T) (*fiber.App, *TokenManager) {
	t.Helper()
	tm := NewTokenManager("secret", time.Hour)
	users := repository.NewMemoryUserRepository(
		NewUser("admin@company.com", "Admin User", domain.RoleAdmin),
		NewUser("user@company.com", "Regular User", domain.RoleReporter),
	)
	mw := NewAuthMiddleware(tm, users)

	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).SendString(de.Code)
	}})
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		user, _ := PrincipalFromContext(c)
		return c.SendString(user.Email)
	})
	app.Delete("/tickets", mw.Handle, RequirePermission(domain.PermDeleteTicket), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app, tm
}

func bearer(t *testing.T, tm *TokenManager, email string, role domain.Role) string {
	t.Helper()
	token, _, err := tm.GenerateToken(NewUser(email, "", role))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddleware(t *testing.T) {
	app, tm := newMiddlewareApp(t)

	cases := []struct {
		name   string
		method string
		path   string
		header string
		status int
	}{
		{"missing header", http.MethodGet, "/me", "", http.StatusUnauthorized},
		{"malformed header", http.MethodGet, "/me", "Token abc", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/me", "Bearer abc", http.StatusUnauthorized},
		{"unknown user", http.MethodGet, "/me", bearer(t, tm, "ghost@company.com", domain.RoleAdmin), http.StatusUnauthorized},
		{"known user", http.MethodGet, "/me", bearer(t, tm, "admin@company.com", domain.RoleAdmin), http.StatusOK},
		{"permission granted", http.MethodDelete, "/tickets", bearer(t, tm, "admin@company.com", domain.RoleAdmin), http.StatusNoContent},
		// Role claim is ignored; the directory says Reporter.
		{"permission denied", http.MethodDelete, "/tickets", bearer(t, tm, "user@company.com", domain.RoleAdmin), http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
