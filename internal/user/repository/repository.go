package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dance-studio-backend/internal/database"
	"dance-studio-backend/internal/user/model"
	appErrors "dance-studio-backend/pkg/errors"
)

// UserRepository is the credential store. Creation is all-or-nothing and
// email uniqueness is enforced at this layer.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	// GetAuthUser loads a user with the password column omitted from the
	// projection; it backs the auth middleware.
	GetAuthUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	SetResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetUserByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*model.User, error)
	// ResetPassword stores the new hash and clears both reset-token fields in
	// one update, so a consumed secret can never resolve again.
	ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	// AddProgress appends itemID to the (style, level) completion set as a
	// single conditional statement and reports whether anything changed.
	AddProgress(ctx context.Context, userID uuid.UUID, style, level, itemID string) (bool, model.Progress, error)
	GetProgress(ctx context.Context, userID uuid.UUID) (model.Progress, error)
}

type GormUserRepository struct {
	db *database.Database
}

func NewRepository(db *database.Database) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.Progress == nil {
		user.Progress = model.Progress{}
	}

	if err := r.db.DB.WithContext(ctx).Create(user).Error; err != nil {
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "duplicate key") && strings.Contains(errStr, "email") {
			return appErrors.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *GormUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *GormUserRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).First(&user, "id = ?", userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *GormUserRepository) GetAuthUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).
		Omit("password_hashed").
		First(&user, "id = ?", userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *GormUserRepository) SetResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	result := r.db.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token_hash":       tokenHash,
			"reset_token_expires_at": expiresAt,
			"updated_at":             time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to set reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrUserNotFound
	}
	return nil
}

func (r *GormUserRepository) GetUserByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).
		Where("reset_token_hash = ? AND reset_token_expires_at > ?", tokenHash, now).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrResetTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}
	return &user, nil
}

func (r *GormUserRepository) ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result := r.db.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hashed":        passwordHash,
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
			"updated_at":             time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to reset password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrUserNotFound
	}
	return nil
}

func (r *GormUserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result := r.db.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hashed": passwordHash,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrUserNotFound
	}
	return nil
}

// addProgressSQL grows the (style, level) set in place. The containment guard
// in WHERE makes the statement a no-op when the item is already tracked, and
// Postgres evaluates the whole thing against one row version, so two sibling
// updates for the same user cannot drop each other.
const addProgressSQL = `
UPDATE users
SET progress = jsonb_set(
        jsonb_set(
            COALESCE(progress, '{}'::jsonb),
            ARRAY[@style],
            COALESCE(progress -> @style, '{}'::jsonb)
        ),
        ARRAY[@style, @level],
        COALESCE(progress -> @style -> @level, '[]'::jsonb) || to_jsonb(@item::text)
    ),
    updated_at = NOW()
WHERE id = @id
  AND NOT COALESCE(progress -> @style -> @level, '[]'::jsonb) @> to_jsonb(@item::text)
`

func (r *GormUserRepository) AddProgress(ctx context.Context, userID uuid.UUID, style, level, itemID string) (bool, model.Progress, error) {
	result := r.db.DB.WithContext(ctx).Exec(addProgressSQL,
		sql.Named("style", style),
		sql.Named("level", level),
		sql.Named("item", itemID),
		sql.Named("id", userID),
	)
	if result.Error != nil {
		return false, nil, fmt.Errorf("failed to track progress: %w", result.Error)
	}

	progress, err := r.GetProgress(ctx, userID)
	if err != nil {
		return false, nil, err
	}

	return result.RowsAffected > 0, progress, nil
}

func (r *GormUserRepository) GetProgress(ctx context.Context, userID uuid.UUID) (model.Progress, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).
		Select("id", "progress").
		First(&user, "id = ?", userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	if user.Progress == nil {
		user.Progress = model.Progress{}
	}
	return user.Progress, nil
}
