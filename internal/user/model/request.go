package model

type RegisterRequest struct {
	FirstName      string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName       string  `json:"lastName" validate:"required,min=1,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8"`
	Phone          string  `json:"phone" validate:"required,phone"`
	Gender         *string `json:"gender" validate:"omitempty,max=30"`
	StreetAddress1 string  `json:"streetAddress1" validate:"required,max=255"`
	StreetAddress2 *string `json:"streetAddress2" validate:"omitempty,max=255"`
	City           string  `json:"city" validate:"required,max=100"`
	Region         string  `json:"region" validate:"required,max=100"`
	ZipCode        string  `json:"zipCode" validate:"required,max=20"`
	Country        string  `json:"country" validate:"required,max=100"`
	DanceType      string  `json:"danceType" validate:"required,max=100"`
	StartDate      string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	StartTime      string  `json:"startTime" validate:"required,start_time"`
	Comments       *string `json:"comments" validate:"omitempty,max=2000"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type TrackProgressRequest struct {
	DanceStyle string `json:"danceStyle" validate:"required"`
	Level      string `json:"level" validate:"required"`
	VideoID    string `json:"videoId" validate:"required"`
}
