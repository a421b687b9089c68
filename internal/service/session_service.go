package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// Session is the result of a successful login.
type Session struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
}

// SessionService signs users in by email. There are no passwords: the
// directory decides who may act and with which role.
type SessionService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
}

// NewSessionService builds the service.
func NewSessionService(users repository.UserRepository, tokens *auth.TokenManager) *SessionService {
	return &SessionService{users: users, tokenMgr: tokens}
}

// Login issues a session token for a known email.
func (s *SessionService) Login(ctx context.Context, email string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.NewValidationFailed(map[string]string{"email": "email is required"})
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("unknown user")
		}
		return nil, apperrors.MapError(err)
	}
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

// CurrentUser resolves a session token to the acting user. An invalid
// token or a user no longer in the directory yields nil.
func (s *SessionService) CurrentUser(ctx context.Context, token string) *domain.User {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil
	}
	user, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil
	}
	return &user
}

// Users lists the directory, for the login picker.
func (s *SessionService) Users(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Logout currently no-ops for stateless JWT approach.
func (s *SessionService) Logout(_ context.Context, _ string) error {
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *SessionService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
