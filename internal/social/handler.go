package social

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dance-studio-backend/internal/config"
	"dance-studio-backend/internal/logger"
	"dance-studio-backend/internal/middleware"
	"dance-studio-backend/internal/user/service"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 600
)

type Handler struct {
	provider Provider
	service  *service.AuthService
	config   *config.Config
}

func NewHandler(provider Provider, svc *service.AuthService, cfg *config.Config) *Handler {
	return &Handler{
		provider: provider,
		service:  svc,
		config:   cfg,
	}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	google := router.Group("/google")
	{
		google.GET("", h.Start)
		google.GET("/callback", h.Callback)
	}
}

// Start sends the browser to the provider's consent screen. The random state
// round-trips through a short-lived cookie to tie the callback to this
// browser session.
func (h *Handler) Start(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		h.redirectFailure(c)
		return
	}

	secure := h.config.Server.Environment == "production"
	c.SetCookie(stateCookieName, state, stateCookieTTL, "/", "", secure, true)
	c.Redirect(http.StatusFound, h.provider.AuthURL(state))
}

func (h *Handler) Callback(c *gin.Context) {
	state := c.Query("state")
	cookieState, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != cookieState {
		logger.Warn("social login state mismatch",
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		h.redirectFailure(c)
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" || c.Query("error") != "" {
		h.redirectFailure(c)
		return
	}

	identity, err := h.provider.ExchangeAndFetch(c.Request.Context(), code)
	if err != nil {
		logger.Error("social login provider exchange failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		h.redirectFailure(c)
		return
	}

	authResponse, err := h.service.SocialLogin(c.Request.Context(), identity.Email, identity.GivenName, identity.FamilyName)
	if err != nil {
		logger.Error("social login failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		h.redirectFailure(c)
		return
	}

	c.Redirect(http.StatusFound, h.config.App.LoginRedirectURL(authResponse.Token))
}

func (h *Handler) redirectFailure(c *gin.Context) {
	c.Redirect(http.StatusFound, h.config.App.FrontendURL+"/login.html?error=google_fail")
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
