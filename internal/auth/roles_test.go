package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-registration-service/internal/domain"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

func rolesTestApp(role domain.UserRole, guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(principalKey, &Principal{User: &domain.User{ID: "u1", Role: role}})
		return c.Next()
	})
	app.Get("/guarded", guard, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireEventManager(t *testing.T) {
	cases := []struct {
		role       domain.UserRole
		wantStatus int
	}{
		{domain.UserRoleAdmin, fiber.StatusOK},
		{domain.UserRoleOrganizer, fiber.StatusOK},
		{domain.UserRoleAttendee, fiber.StatusForbidden},
	}

	for _, tc := range cases {
		app := rolesTestApp(tc.role, RequireEventManager())
		resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.wantStatus, resp.StatusCode, "role %s", tc.role)
	}
}

func TestRequireAdmin(t *testing.T) {
	app := rolesTestApp(domain.UserRoleOrganizer, RequireAdmin())
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
