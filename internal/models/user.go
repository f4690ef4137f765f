package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User can be reached through any combination of email, phone and
// Google identity; the columns stay nullable so a phone-only account
// and an email-only account are both valid. OTP and OTPExpiresAt are
// transient: set on every code request and cleared after a successful
// verification.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         *string        `gorm:"size:100" json:"name"`
	Email        *string        `gorm:"size:255;uniqueIndex" json:"email"`
	Phone        *string        `gorm:"size:20;uniqueIndex" json:"phone"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	GoogleUserID *string        `gorm:"size:255;uniqueIndex" json:"-"`
	AvatarURL    string         `gorm:"type:text" json:"avatar_url"`
	AuthProvider string         `gorm:"size:50;default:'email'" json:"-"`
	Role         string         `gorm:"size:20;default:'user'" json:"role"`
	OTP          *string        `gorm:"size:6" json:"-"`
	OTPExpiresAt *time.Time     `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
