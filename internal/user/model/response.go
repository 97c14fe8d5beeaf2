package model

import (
	"time"

	"github.com/google/uuid"
)

type AuthResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Token    string    `json:"token"`
	Progress Progress  `json:"progress,omitempty"`
}

type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	DanceType string    `json:"dance_type"`
	StartDate time.Time `json:"start_date"`
	IsPaid    bool      `json:"is_paid"`
	Progress  Progress  `json:"progress"`
}

type TrackProgressResponse struct {
	Updated        bool     `json:"updated"`
	CompletedCount int      `json:"completed_count"`
	Progress       Progress `json:"progress"`
}

func (u *User) ToProfileResponse() *ProfileResponse {
	progress := u.Progress
	if progress == nil {
		progress = Progress{}
	}

	return &ProfileResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		DanceType: u.DanceType,
		StartDate: u.StartDate,
		IsPaid:    u.IsPaid,
		Progress:  progress,
	}
}
