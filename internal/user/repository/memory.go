package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"dance-studio-backend/internal/user/model"
	appErrors "dance-studio-backend/pkg/errors"
)

// MemoryUserRepository keeps users in a mutex-guarded map. It backs tests and
// matches the Postgres implementation's semantics, including atomicity of
// AddProgress.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*model.User
}

func NewMemoryRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]*model.User)}
}

func (r *MemoryUserRepository) CreateUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return appErrors.ErrUserAlreadyExists
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.Progress == nil {
		user.Progress = model.Progress{}
	}

	stored := *user
	stored.Progress = user.Progress.Clone()
	r.users[user.ID] = &stored
	return nil
}

func (r *MemoryUserRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, appErrors.ErrUserNotFound
}

func (r *MemoryUserRepository) GetUserByID(_ context.Context, userID uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, appErrors.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (r *MemoryUserRepository) GetAuthUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHashed = ""
	return user, nil
}

func (r *MemoryUserRepository) SetResetToken(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return appErrors.ErrUserNotFound
	}

	user.ResetTokenHash = &tokenHash
	user.ResetTokenExpiresAt = &expiresAt
	user.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) GetUserByResetTokenHash(_ context.Context, tokenHash string, now time.Time) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.ResetTokenHash != nil && *user.ResetTokenHash == tokenHash &&
			user.ResetTokenExpiresAt != nil && user.ResetTokenExpiresAt.After(now) {
			return copyUser(user), nil
		}
	}
	return nil, appErrors.ErrResetTokenInvalid
}

func (r *MemoryUserRepository) ResetPassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return appErrors.ErrUserNotFound
	}

	user.PasswordHashed = passwordHash
	user.ResetTokenHash = nil
	user.ResetTokenExpiresAt = nil
	user.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return appErrors.ErrUserNotFound
	}

	user.PasswordHashed = passwordHash
	user.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) AddProgress(_ context.Context, userID uuid.UUID, style, level, itemID string) (bool, model.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return false, nil, appErrors.ErrUserNotFound
	}

	if user.Progress == nil {
		user.Progress = model.Progress{}
	}

	updated := user.Progress.Add(style, level, itemID)
	if updated {
		user.UpdatedAt = time.Now()
	}
	return updated, user.Progress.Clone(), nil
}

func (r *MemoryUserRepository) GetProgress(_ context.Context, userID uuid.UUID) (model.Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, appErrors.ErrUserNotFound
	}

	if user.Progress == nil {
		return model.Progress{}, nil
	}
	return user.Progress.Clone(), nil
}

func copyUser(user *model.User) *model.User {
	out := *user
	out.Progress = user.Progress.Clone()
	if user.ResetTokenHash != nil {
		hash := *user.ResetTokenHash
		out.ResetTokenHash = &hash
	}
	if user.ResetTokenExpiresAt != nil {
		expires := *user.ResetTokenExpiresAt
		out.ResetTokenExpiresAt = &expires
	}
	return &out
}
