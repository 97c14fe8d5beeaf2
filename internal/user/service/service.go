package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dance-studio-backend/internal/config"
	"dance-studio-backend/internal/email"
	"dance-studio-backend/internal/logger"
	"dance-studio-backend/internal/user/model"
	"dance-studio-backend/internal/user/repository"
	"dance-studio-backend/internal/user/validator"
	appErrors "dance-studio-backend/pkg/errors"
	"dance-studio-backend/pkg/utils"
)

type AuthService struct {
	repo   repository.UserRepository
	sender email.Sender
	config *config.Config
}

func NewService(repo repository.UserRepository, sender email.Sender, cfg *config.Config) *AuthService {
	return &AuthService{
		repo:   repo,
		sender: sender,
		config: cfg,
	}
}

func (s *AuthService) Register(ctx context.Context, request *model.RegisterRequest) (*model.AuthResponse, error) {
	if err := validator.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", validator.FormatError(err), err)
	}

	if err := utils.ValidatePassword(request.Password); err != nil {
		return nil, appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	startDate, err := time.Parse("2006-01-02", request.StartDate)
	if err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "startDate must be a date in YYYY-MM-DD format", err)
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FirstName:      request.FirstName,
		LastName:       request.LastName,
		Email:          request.Email,
		PasswordHashed: hashedPassword,
		Phone:          request.Phone,
		Gender:         request.Gender,
		StreetAddress1: request.StreetAddress1,
		StreetAddress2: request.StreetAddress2,
		City:           request.City,
		Region:         request.Region,
		ZipCode:        request.ZipCode,
		Country:        request.Country,
		DanceType:      request.DanceType,
		StartDate:      startDate,
		StartTime:      request.StartTime,
		Comments:       request.Comments,
		Progress:       model.Progress{},
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		ID:    user.ID,
		Name:  user.FullName(),
		Email: user.Email,
		Token: token,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, request *model.LoginRequest) (*model.AuthResponse, error) {
	if err := validator.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", validator.FormatError(err), err)
	}

	user, err := s.repo.GetUserByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, appErrors.ErrUserNotFound) {
			// Indistinguishable from a wrong password.
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHashed, request.Password) {
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	progress := user.Progress
	if progress == nil {
		progress = model.Progress{}
	}

	return &model.AuthResponse{
		ID:       user.ID,
		Name:     user.FullName(),
		Email:    user.Email,
		Token:    token,
		Progress: progress,
	}, nil
}

// ForgotPassword acknowledges every request the same way. Whether the email
// is unknown or delivery fails, the caller learns nothing about account
// existence; failures land in the log only.
func (s *AuthService) ForgotPassword(ctx context.Context, request *model.ForgotPasswordRequest) error {
	if err := validator.ValidateStruct(request); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", validator.FormatError(err), err)
	}

	user, err := s.repo.GetUserByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, appErrors.ErrUserNotFound) {
			logger.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	rawToken, tokenHash, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.config.Reset.TokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := s.config.App.ResetPasswordURL(rawToken)
	body, err := email.ResetEmailBody(s.config.App.Name, resetURL, s.config.Reset.TokenTTL)
	if err != nil {
		return err
	}

	subject := s.config.App.Name + " Password Reset Request"
	if err := s.sender.Send(user.Email, subject, body); err != nil {
		logger.Error("failed to send password reset email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	return nil
}

// ResetPassword consumes a raw reset secret from the request path. The lookup
// is by digest with a strict expiry check; success clears the token fields so
// the same secret cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken string, request *model.ResetPasswordRequest) error {
	if rawToken == "" {
		return appErrors.ErrResetTokenInvalid
	}
	if err := validator.ValidateStruct(request); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", validator.FormatError(err), err)
	}
	if err := utils.ValidatePassword(request.Password); err != nil {
		return appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	tokenHash := utils.HashResetToken(rawToken)
	user, err := s.repo.GetUserByResetTokenHash(ctx, tokenHash, time.Now())
	if err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.ResetPassword(ctx, user.ID, hashedPassword)
}

// SocialLogin reuses an existing account by email or creates one on first
// sight. Social accounts carry a sentinel in place of a password hash, so
// they can never log in with a password until they go through a reset.
func (s *AuthService) SocialLogin(ctx context.Context, emailAddr, givenName, familyName string) (*model.AuthResponse, error) {
	emailAddr = utils.SanitizeEmail(emailAddr)
	if emailAddr == "" {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "email is required", nil)
	}

	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil && !errors.Is(err, appErrors.ErrUserNotFound) {
		return nil, err
	}

	if user == nil {
		if givenName == "" {
			givenName = "Google"
		}
		if familyName == "" {
			familyName = "User"
		}

		user = &model.User{
			FirstName:      givenName,
			LastName:       familyName,
			Email:          emailAddr,
			PasswordHashed: utils.SocialLoginSentinel,
			Phone:          "0000000000",
			StreetAddress1: "Social Login",
			City:           "Social",
			Region:         "Social",
			ZipCode:        "00000",
			Country:        "Unknown",
			DanceType:      "Unknown",
			StartDate:      time.Now(),
			StartTime:      "00:00",
			IsPaid:         true,
			Progress:       model.Progress{},
		}

		if err := s.repo.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		logger.Info("created user from social login", zap.String("user_id", user.ID.String()))
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		ID:    user.ID,
		Name:  user.FullName(),
		Email: user.Email,
		Token: token,
	}, nil
}

// EnsureSeedUser creates the configured bootstrap account if it does not
// exist yet. A fresh database gets one working login without manual setup.
func (s *AuthService) EnsureSeedUser(ctx context.Context) error {
	seed := s.config.Seed
	if seed.Email == "" || seed.Password == "" {
		return nil
	}

	if _, err := s.repo.GetUserByEmail(ctx, seed.Email); err == nil {
		return nil
	} else if !errors.Is(err, appErrors.ErrUserNotFound) {
		return err
	}

	hashedPassword, err := utils.HashPassword(seed.Password)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	user := &model.User{
		FirstName:      "Studio",
		LastName:       "Admin",
		Email:          seed.Email,
		PasswordHashed: hashedPassword,
		Phone:          "0000000000",
		StreetAddress1: "Seed",
		City:           "Seed",
		Region:         "Seed",
		ZipCode:        "00000",
		Country:        "Unknown",
		DanceType:      "Unknown",
		StartDate:      time.Now(),
		StartTime:      "00:00",
		IsPaid:         true,
		Progress:       model.Progress{},
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return err
	}

	logger.Info("seed user created", zap.String("email", seed.Email))
	return nil
}

func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	token, err := utils.GenerateToken(userID, s.config.JWT.Secret, s.config.JWT.TTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
