package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dance-studio-backend/internal/middleware"
	"dance-studio-backend/internal/user/model"
	"dance-studio-backend/pkg/utils"
)

func (h *UserHandler) TrackProgress(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var request model.TrackProgressRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.service.TrackProgress(c.Request.Context(), user.ID, &request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	message := "Progress updated successfully"
	if !response.Updated {
		message = "Video already tracked. No update needed"
	}

	utils.SuccessResponse(c, http.StatusOK, message, response)
}

func (h *UserHandler) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile fetched successfully", user.ToProfileResponse())
}

func (h *UserHandler) Progress(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	progress, err := h.service.GetProgress(c.Request.Context(), user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Progress fetched successfully", gin.H{"progress": progress})
}
