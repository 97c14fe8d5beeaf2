package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"dance-studio-backend/internal/user/model"
	"dance-studio-backend/internal/user/validator"
	appErrors "dance-studio-backend/pkg/errors"
)

// TrackProgress records one completed item under (style, level). The call is
// idempotent: tracking the same item twice leaves the set untouched and
// reports updated=false with the unchanged count.
func (s *AuthService) TrackProgress(ctx context.Context, userID uuid.UUID, request *model.TrackProgressRequest) (*model.TrackProgressResponse, error) {
	if err := validator.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", validator.FormatError(err), err)
	}

	style := strings.TrimSpace(request.DanceStyle)
	level := strings.TrimSpace(request.Level)
	itemID := strings.TrimSpace(request.VideoID)

	switch {
	case style == "":
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "danceStyle is required", nil)
	case level == "":
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "level is required", nil)
	case itemID == "":
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "videoId is required", nil)
	}

	updated, progress, err := s.repo.AddProgress(ctx, userID, style, level, itemID)
	if err != nil {
		return nil, err
	}

	return &model.TrackProgressResponse{
		Updated:        updated,
		CompletedCount: progress.CompletedCount(style, level),
		Progress:       progress,
	}, nil
}

// GetProgress returns the caller's full completion structure.
func (s *AuthService) GetProgress(ctx context.Context, userID uuid.UUID) (model.Progress, error) {
	return s.repo.GetProgress(ctx, userID)
}
