package service

import (
	"context"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dance-studio-backend/internal/config"
	"dance-studio-backend/internal/logger"
	"dance-studio-backend/internal/user/model"
	"dance-studio-backend/internal/user/repository"
	appErrors "dance-studio-backend/pkg/errors"
	"dance-studio-backend/pkg/utils"
)

func TestMain(m *testing.M) {
	if err := logger.Init("development"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// captureSender records outbound mail instead of delivering it.
type captureSender struct {
	mu       sync.Mutex
	to       string
	subject  string
	body     string
	failWith error
	calls    int
}

func (s *captureSender) Send(to, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failWith != nil {
		return s.failWith
	}
	s.to = to
	s.subject = subject
	s.body = htmlBody
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret: "test-secret",
			TTL:    time.Hour,
		},
		Reset: config.ResetConfig{
			TokenTTL: 10 * time.Minute,
		},
		App: config.AppConfig{
			Name:              "Dance Studio",
			FrontendURL:       "http://localhost:8000",
			ResetPasswordPath: "/resetpassword.html",
			LoginRedirectPath: "/home.html",
		},
	}
}

func newTestService(t *testing.T) (*AuthService, *repository.MemoryUserRepository, *captureSender) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	sender := &captureSender{}
	return NewService(repo, sender, testConfig()), repo, sender
}

func validRegisterRequest(email string) *model.RegisterRequest {
	return &model.RegisterRequest{
		FirstName:      "Akira",
		LastName:       "Tanaka",
		Email:          email,
		Password:       "Sup3rSecret",
		Phone:          "+12025550123",
		StreetAddress1: "1 Studio Way",
		City:           "Springfield",
		Region:         "IL",
		ZipCode:        "62704",
		Country:        "USA",
		DanceType:      "Ballet",
		StartDate:      "2026-09-01",
		StartTime:      "10:00",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegisterRequest("akira@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Akira Tanaka", registered.Name)
	assert.NotEmpty(t, registered.Token)

	loggedIn, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "akira@example.com",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)
	assert.NotNil(t, loggedIn.Progress)

	// The issued token identifies the registered user.
	claims, err := utils.ValidateToken(loggedIn.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegisterRequest("dup@example.com"))
	assert.ErrorIs(t, err, appErrors.ErrUserAlreadyExists)
}

func TestRegister_ValidationNamesField(t *testing.T) {
	svc, _, _ := newTestService(t)

	request := validRegisterRequest("missing@example.com")
	request.DanceType = ""

	_, err := svc.Register(context.Background(), request)
	require.Error(t, err)

	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Message, "DanceType")
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	request := validRegisterRequest("weak@example.com")
	request.Password = "alllowercase1"

	_, err := svc.Register(context.Background(), request)
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WEAK_PASSWORD", appErr.Code)
}

func TestLogin_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest("real@example.com"))
	require.NoError(t, err)

	_, wrongPassErr := svc.Login(ctx, &model.LoginRequest{
		Email:    "real@example.com",
		Password: "WrongPass1",
	})
	_, unknownErr := svc.Login(ctx, &model.LoginRequest{
		Email:    "ghost@example.com",
		Password: "WrongPass1",
	})

	assert.ErrorIs(t, wrongPassErr, appErrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownErr, appErrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())
}

// rawTokenFromEmail digs the reset secret out of the captured email link.
func rawTokenFromEmail(t *testing.T, body string) string {
	t.Helper()
	start := strings.Index(body, "token=")
	require.GreaterOrEqual(t, start, 0, "reset email must contain a token link")
	token := body[start+len("token="):]
	if end := strings.IndexAny(token, `"<& `); end >= 0 {
		token = token[:end]
	}
	decoded, err := url.QueryUnescape(token)
	require.NoError(t, err)
	return decoded
}

func TestResetFlow_SingleUse(t *testing.T) {
	svc, _, sender := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegisterRequest("reset@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, &model.ForgotPasswordRequest{Email: "reset@example.com"}))
	assert.Equal(t, "reset@example.com", sender.to)
	assert.Contains(t, sender.subject, "Dance Studio")
	assert.Contains(t, sender.body, "http://localhost:8000/resetpassword.html?token=")

	raw := rawTokenFromEmail(t, sender.body)

	err = svc.ResetPassword(ctx, raw, &model.ResetPasswordRequest{Password: "NewSecret99"})
	require.NoError(t, err)

	// New password works, old one does not.
	loggedIn, err := svc.Login(ctx, &model.LoginRequest{Email: "reset@example.com", Password: "NewSecret99"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "reset@example.com", Password: "Sup3rSecret"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	// Consumed secrets never resolve again.
	err = svc.ResetPassword(ctx, raw, &model.ResetPasswordRequest{Password: "AnotherPass1"})
	assert.ErrorIs(t, err, appErrors.ErrResetTokenInvalid)
}

func TestResetPassword_UnknownOrGarbageSecret(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	err := svc.ResetPassword(ctx, "deadbeef", &model.ResetPasswordRequest{Password: "NewSecret99"})
	assert.ErrorIs(t, err, appErrors.ErrResetTokenInvalid)

	err = svc.ResetPassword(ctx, "", &model.ResetPasswordRequest{Password: "NewSecret99"})
	assert.ErrorIs(t, err, appErrors.ErrResetTokenInvalid)
}

func TestForgotPassword_UnknownEmailStillSucceeds(t *testing.T) {
	svc, _, sender := newTestService(t)

	err := svc.ForgotPassword(context.Background(), &model.ForgotPasswordRequest{Email: "nobody@example.com"})
	assert.NoError(t, err)
	assert.Zero(t, sender.calls)
}

func TestForgotPassword_DeliveryFailureHidden(t *testing.T) {
	svc, _, sender := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest("flaky@example.com"))
	require.NoError(t, err)

	sender.failWith = assert.AnError
	err = svc.ForgotPassword(ctx, &model.ForgotPasswordRequest{Email: "flaky@example.com"})
	assert.NoError(t, err)
	assert.Equal(t, 1, sender.calls)
}

func TestForgotPassword_NewRequestSupersedesOld(t *testing.T) {
	svc, _, sender := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest("twice@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, &model.ForgotPasswordRequest{Email: "twice@example.com"}))
	firstRaw := rawTokenFromEmail(t, sender.body)

	require.NoError(t, svc.ForgotPassword(ctx, &model.ForgotPasswordRequest{Email: "twice@example.com"}))
	secondRaw := rawTokenFromEmail(t, sender.body)
	require.NotEqual(t, firstRaw, secondRaw)

	err = svc.ResetPassword(ctx, firstRaw, &model.ResetPasswordRequest{Password: "NewSecret99"})
	assert.ErrorIs(t, err, appErrors.ErrResetTokenInvalid)

	err = svc.ResetPassword(ctx, secondRaw, &model.ResetPasswordRequest{Password: "NewSecret99"})
	assert.NoError(t, err)
}

func TestSocialLogin_CreatesThenReuses(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.SocialLogin(ctx, "Dancer@Example.com", "Mina", "Park")
	require.NoError(t, err)
	assert.Equal(t, "Mina Park", first.Name)
	assert.Equal(t, "dancer@example.com", first.Email)
	assert.NotEmpty(t, first.Token)

	// Stored account has the sentinel, so password login can never succeed.
	stored, err := repo.GetUserByEmail(ctx, "dancer@example.com")
	require.NoError(t, err)
	assert.True(t, stored.IsSocialOnly())

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "dancer@example.com", Password: "AnyPassword1"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	second, err := svc.SocialLogin(ctx, "dancer@example.com", "Mina", "Park")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureSeedUser(t *testing.T) {
	repo := repository.NewMemoryRepository()
	cfg := testConfig()
	cfg.Seed = config.SeedConfig{Email: "seed@example.com", Password: "SeedPass99"}
	svc := NewService(repo, &captureSender{}, cfg)
	ctx := context.Background()

	require.NoError(t, svc.EnsureSeedUser(ctx))

	_, err := svc.Login(ctx, &model.LoginRequest{Email: "seed@example.com", Password: "SeedPass99"})
	require.NoError(t, err)

	// Idempotent across restarts.
	require.NoError(t, svc.EnsureSeedUser(ctx))
}
