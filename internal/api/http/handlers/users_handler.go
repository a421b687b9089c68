package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// UsersHandler serves session, profile and team endpoints.
type UsersHandler struct {
	sessions  *service.SessionService
	dashboard *service.DashboardService
}

// NewUsersHandler builds handler.
func NewUsersHandler(sessions *service.SessionService, dashboard *service.DashboardService) *UsersHandler {
	return &UsersHandler{sessions: sessions, dashboard: dashboard}
}

// Login POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	session, err := h.sessions.Login(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      dto.NewUserResponse(session.User),
	}})
}

// Directory GET /auth/users lists who can sign in.
func (h *UsersHandler) Directory(c *fiber.Ctx) error {
	users, err := h.sessions.Users(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.NewUserResponse(u))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Logout POST /auth/logout.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.UserContext(), c.Get(fiber.HeaderAuthorization)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me GET /me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(*user)})
}

// HasPermission GET /me/permissions/:name.
func (h *UsersHandler) HasPermission(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	name := c.Params("name")
	granted, err := h.dashboard.HasPermission(user, name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"permission": name, "granted": granted}})
}

// Team GET /team.
func (h *UsersHandler) Team(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewTeamList(h.dashboard.ListTeam())})
}
