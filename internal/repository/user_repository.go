package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// UserRepository is the directory of users that can sign in.
type UserRepository interface {
	Upsert(ctx context.Context, user domain.User) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMemoryUserRepository returns a directory seeded with users.
func NewMemoryUserRepository(users ...domain.User) UserRepository {
	repo := &memoryUserRepository{users: make(map[string]domain.User, len(users))}
	for _, u := range users {
		repo.users[emailKey(u.Email)] = u
	}
	return repo
}

func (r *memoryUserRepository) Upsert(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[emailKey(user.Email)] = user
	return nil
}

// GetByEmail matches emails case-insensitively.
func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[emailKey(email)]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return user, nil
}

func (r *memoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
