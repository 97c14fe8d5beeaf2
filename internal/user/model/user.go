package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHashed string    `json:"-" gorm:"not null"`
	Phone          string    `json:"phone"`
	Gender         *string   `json:"gender,omitempty"`
	StreetAddress1 string    `json:"street_address_1"`
	StreetAddress2 *string   `json:"street_address_2,omitempty"`
	City           string    `json:"city"`
	Region         string    `json:"region"`
	ZipCode        string    `json:"zip_code"`
	Country        string    `json:"country"`
	DanceType      string    `json:"dance_type"`
	StartDate      time.Time `json:"start_date"`
	StartTime      string    `json:"start_time"`
	Comments       *string   `json:"comments,omitempty"`
	IsPaid         bool      `json:"is_paid"`

	// Both fields are set together while a reset request is outstanding and
	// cleared together when the secret is consumed.
	ResetTokenHash      *string    `json:"-" gorm:"index"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	Progress Progress `json:"progress" gorm:"type:jsonb;not null;default:'{}'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsSocialOnly reports whether the account was created by a social provider
// and has no usable local password.
func (u *User) IsSocialOnly() bool {
	return len(u.PasswordHashed) > 0 && u.PasswordHashed[0] == '!'
}
