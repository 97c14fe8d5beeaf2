package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dance-studio-backend/internal/config"
	"dance-studio-backend/internal/logger"
	"dance-studio-backend/internal/user/model"
	"dance-studio-backend/internal/user/repository"
	appErrors "dance-studio-backend/pkg/errors"
	"dance-studio-backend/pkg/utils"
)

const currentUserKey = "currentUser"

// AuthMiddleware guards every route that reads or mutates a user's own data.
// It verifies the bearer token, loads the matching user with the password
// column omitted, and attaches the record to the context. The three rejection
// reasons carry distinct messages; expired vs malformed tokens differ only in
// the log.
func AuthMiddleware(cfg *config.Config, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "authorization token required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "authorization token required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWT.Secret)
		if err != nil {
			reason := "malformed or forged"
			if errors.Is(err, appErrors.ErrTokenExpired) {
				reason = "expired"
			}
			logger.Debug("rejected bearer token",
				zap.String("request_id", GetRequestID(c)),
				zap.String("reason", reason),
			)

			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		user, err := users.GetAuthUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, appErrors.ErrUserNotFound) {
				utils.ErrorResponse(c, http.StatusUnauthorized, "user not found")
			} else {
				logger.Error("failed to load authenticated user",
					zap.String("request_id", GetRequestID(c)),
					zap.Error(err),
				)
				utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
			}
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthMiddleware.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}
