package dto

import (
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email string `json:"email"`
}

// LoginResponse returns the session token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse describes a directory user.
type UserResponse struct {
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Role        domain.Role `json:"role"`
	Permissions []string    `json:"permissions"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Permissions: u.Permissions.Names(),
	}
}

// TeamMemberResponse describes a roster entry.
type TeamMemberResponse struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	Avatar   string      `json:"avatar,omitempty"`
	Workload int         `json:"workload"`
}

// NewTeamList maps roster members.
func NewTeamList(members []domain.TeamMember) []TeamMemberResponse {
	items := make([]TeamMemberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, TeamMemberResponse{
			ID:       m.ID,
			Name:     m.Name,
			Email:    m.Email,
			Role:     m.Role,
			Avatar:   m.Avatar,
			Workload: m.Workload,
		})
	}
	return items
}
