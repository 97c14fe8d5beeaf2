package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dance-studio-backend/internal/user/model"
	appErrors "dance-studio-backend/pkg/errors"
)

func TestTrackProgress_Idempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegisterRequest("track@example.com"))
	require.NoError(t, err)

	first, err := svc.TrackProgress(ctx, registered.ID, &model.TrackProgressRequest{
		DanceStyle: "Ballet",
		Level:      "Beginner",
		VideoID:    "v1",
	})
	require.NoError(t, err)
	assert.True(t, first.Updated)
	assert.Equal(t, 1, first.CompletedCount)

	second, err := svc.TrackProgress(ctx, registered.ID, &model.TrackProgressRequest{
		DanceStyle: "Ballet",
		Level:      "Beginner",
		VideoID:    "v1",
	})
	require.NoError(t, err)
	assert.False(t, second.Updated)
	assert.Equal(t, 1, second.CompletedCount)
}

func TestTrackProgress_TrimsIdentifiers(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegisterRequest("trim@example.com"))
	require.NoError(t, err)

	first, err := svc.TrackProgress(ctx, registered.ID, &model.TrackProgressRequest{
		DanceStyle: "  Ballet ",
		Level:      " Beginner",
		VideoID:    "v1 ",
	})
	require.NoError(t, err)
	assert.True(t, first.Updated)

	// The untrimmed spelling is the same entry.
	second, err := svc.TrackProgress(ctx, registered.ID, &model.TrackProgressRequest{
		DanceStyle: "Ballet",
		Level:      "Beginner",
		VideoID:    "v1",
	})
	require.NoError(t, err)
	assert.False(t, second.Updated)
	assert.Equal(t, 1, second.CompletedCount)
}

func TestTrackProgress_BlankAfterTrim(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegisterRequest("blank@example.com"))
	require.NoError(t, err)

	_, err = svc.TrackProgress(ctx, registered.ID, &model.TrackProgressRequest{
		DanceStyle: "   ",
		Level:      "Beginner",
		VideoID:    "v1",
	})
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Message, "danceStyle")
}

func TestTrackProgress_ConcurrentSiblingsBothPersist(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegisterRequest("race@example.com"))
	require.NoError(t, err)

	requests := []*model.TrackProgressRequest{
		{DanceStyle: "Ballet", Level: "Beginner", VideoID: "v1"},
		{DanceStyle: "Jazz", Level: "Advanced", VideoID: "v2"},
		{DanceStyle: "Ballet", Level: "Advanced", VideoID: "v3"},
		{DanceStyle: "Tap", Level: "Beginner", VideoID: "v4"},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(requests))
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req *model.TrackProgressRequest) {
			defer wg.Done()
			_, errs[i] = svc.TrackProgress(ctx, registered.ID, req)
		}(i, req)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	progress, err := svc.GetProgress(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.CompletedCount("Ballet", "Beginner"))
	assert.Equal(t, 1, progress.CompletedCount("Jazz", "Advanced"))
	assert.Equal(t, 1, progress.CompletedCount("Ballet", "Advanced"))
	assert.Equal(t, 1, progress.CompletedCount("Tap", "Beginner"))
}

func TestTrackProgress_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.TrackProgress(context.Background(), uuid.New(), &model.TrackProgressRequest{
		DanceStyle: "Ballet",
		Level:      "Beginner",
		VideoID:    "v1",
	})
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
}
