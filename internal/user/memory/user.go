package memory

import (
	"context"
	"sync"
	"time"

	"github.com/frahmantamala/employee-directory/internal/user"
	"github.com/google/uuid"
)

type UserRepository struct {
	mu    sync.RWMutex
	users []*user.User
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{now: time.Now}
}

func (r *UserRepository) WithClock(now func() time.Time) *UserRepository {
	r.now = now
	return r
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*user.User, len(r.users))
	for i, u := range r.users {
		result[i] = u.Clone()
	}
	return result, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Email == email })
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	stored := u.Clone()
	now := r.now()
	stored.ID = uuid.New().String()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.mu.Lock()
	r.users = append(r.users, stored)
	r.mu.Unlock()

	return stored.Clone(), nil
}

func (r *UserRepository) find(match func(*user.User) bool) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return u.Clone(), nil
		}
	}
	return nil, user.ErrNotFound
}
