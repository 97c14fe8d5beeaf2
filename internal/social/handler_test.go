package social

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dance-studio-backend/internal/config"
	"dance-studio-backend/internal/logger"
	"dance-studio-backend/internal/middleware"
	"dance-studio-backend/internal/user/repository"
	"dance-studio-backend/internal/user/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Init("development"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type fakeProvider struct {
	identity Identity
	err      error
	lastCode string
}

func (p *fakeProvider) AuthURL(state string) string {
	return "https://provider.example/auth?state=" + state
}

func (p *fakeProvider) ExchangeAndFetch(_ context.Context, code string) (Identity, error) {
	p.lastCode = code
	if p.err != nil {
		return Identity{}, p.err
	}
	return p.identity, nil
}

func socialTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "social-secret", TTL: time.Hour},
		App: config.AppConfig{
			FrontendURL:       "http://localhost:8000",
			LoginRedirectPath: "/home.html",
		},
	}
}

type nullSender struct{}

func (nullSender) Send(_, _, _ string) error { return nil }

func newSocialRouter(t *testing.T, provider Provider) (*gin.Engine, *repository.MemoryUserRepository) {
	t.Helper()

	cfg := socialTestConfig()
	repo := repository.NewMemoryRepository()
	svc := service.NewService(repo, nullSender{}, cfg)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	group := router.Group("/api/social")
	NewHandler(provider, svc, cfg).RegisterRoutes(group)
	return router, repo
}

func TestStart_SetsStateAndRedirects(t *testing.T) {
	router, _ := newSocialRouter(t, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/social/google", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	var state string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == stateCookieName {
			state = cookie.Value
		}
	}
	require.NotEmpty(t, state, "consent redirect should set the state cookie")
	assert.Equal(t, "https://provider.example/auth?state="+state, rec.Header().Get("Location"))
}

func TestCallback_StateMismatchRedirectsToFailure(t *testing.T) {
	router, _ := newSocialRouter(t, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/social/google/callback?state=forged&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "genuine"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=google_fail")
}

func TestCallback_ProviderErrorRedirectsToFailure(t *testing.T) {
	router, _ := newSocialRouter(t, &fakeProvider{err: errors.New("exchange refused")})

	req := httptest.NewRequest(http.MethodGet, "/api/social/google/callback?state=ok&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "ok"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=google_fail")
}

func TestCallback_SignsInAndRedirectsWithToken(t *testing.T) {
	provider := &fakeProvider{identity: Identity{
		Email:      "dancer@gmail.com",
		GivenName:  "Nina",
		FamilyName: "Petrova",
	}}
	router, repo := newSocialRouter(t, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/social/google/callback?state=ok&code=auth-code", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "ok"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "auth-code", provider.lastCode)

	location := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "http://localhost:8000/home.html?token="), location)

	user, err := repo.GetUserByEmail(context.Background(), "dancer@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "Nina", user.FirstName)
	assert.True(t, user.IsSocialOnly())
}
