package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dance-studio-backend/internal/logger"
	"dance-studio-backend/internal/middleware"
	"dance-studio-backend/internal/user/model"
	"dance-studio-backend/internal/user/service"
	appErrors "dance-studio-backend/pkg/errors"
	"dance-studio-backend/pkg/utils"
)

type UserHandler struct {
	service *service.AuthService
}

func NewHandler(service *service.AuthService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/forgotpassword", h.ForgotPassword)
	router.POST("/resetpassword/:secret", h.ResetPassword)
}

// RegisterProtectedRoutes wires the endpoints that require a verified user.
func (h *UserHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.POST("/trackprogress", h.TrackProgress)
	router.GET("/profile", h.Profile)
	router.GET("/progress", h.Progress)
}

func (h *UserHandler) Register(c *gin.Context) {
	var request model.RegisterRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = utils.SanitizeEmail(request.Email)
	request.FirstName = utils.SanitizeString(request.FirstName)
	request.LastName = utils.SanitizeString(request.LastName)
	request.Phone = utils.SanitizePhone(request.Phone)
	request.StreetAddress1 = utils.SanitizeString(request.StreetAddress1)
	request.City = utils.SanitizeString(request.City)
	request.Region = utils.SanitizeString(request.Region)
	request.ZipCode = utils.SanitizeString(request.ZipCode)
	request.Country = utils.SanitizeString(request.Country)
	request.DanceType = utils.SanitizeString(request.DanceType)
	if request.StreetAddress2 != nil {
		sanitized := utils.SanitizeString(*request.StreetAddress2)
		request.StreetAddress2 = &sanitized
	}
	if request.Comments != nil {
		sanitized := utils.SanitizeString(*request.Comments)
		request.Comments = &sanitized
	}

	authResponse, err := h.service.Register(c.Request.Context(), &request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User registered successfully", authResponse)
}

func (h *UserHandler) Login(c *gin.Context) {
	var request model.LoginRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = utils.SanitizeEmail(request.Email)

	authResponse, err := h.service.Login(c.Request.Context(), &request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", authResponse)
}

func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var request model.ForgotPasswordRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = utils.SanitizeEmail(request.Email)

	if err := h.service.ForgotPassword(c.Request.Context(), &request); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "If that email is registered, a password reset link has been sent", nil)
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var request model.ResetPasswordRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), c.Param("secret"), &request); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password reset successful. You can now log in", nil)
}

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, appErrors.ErrUserAlreadyExists):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrTokenInvalid),
		errors.Is(err, appErrors.ErrTokenExpired),
		errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, appErrors.ErrResetTokenInvalid):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, appErrors.ErrUserNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			return
		}

		logger.Error("internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
