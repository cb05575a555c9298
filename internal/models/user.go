package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user account can hold.
const (
	RoleStudent = "student"
	RoleAuthor  = "author"
	RoleAdmin   = "admin"
)

// Verification code purposes.
const (
	CodeTypeEmailVerification = "email_verification"
	CodeTypePasswordReset     = "password_reset"
)

type User struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Email         string         `json:"email" gorm:"size:255;not null;uniqueIndex:idx_users_email,where:deleted_at IS NULL"`
	PasswordHash  *string        `json:"-" gorm:"size:255"`
	EmailVerified bool           `json:"email_verified" gorm:"not null;default:false"`
	Name          string         `json:"name" gorm:"size:255;not null"`
	Role          string         `json:"role" gorm:"size:50;not null;default:student;index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	RefreshTokens     []RefreshToken     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	VerificationCodes []VerificationCode `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RefreshToken stores a SHA-256 hash of an issued refresh token, never the
// raw token. At most one active record validates to a given hash.
type RefreshToken struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	TokenHash string         `json:"-" gorm:"size:255;not null;uniqueIndex"`
	ExpiresAt time.Time      `json:"expires_at" gorm:"not null;index"`
	RevokedAt *time.Time     `json:"revoked_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// VerificationCode is a short-lived 6-digit code bound to a user and a
// purpose. A code is usable at most once and only before expiry.
type VerificationCode struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Code      string         `json:"-" gorm:"size:6;not null;index"`
	CodeType  string         `json:"code_type" gorm:"size:50;not null;index"`
	ExpiresAt time.Time      `json:"expires_at" gorm:"not null;index"`
	UsedAt    *time.Time     `json:"used_at"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (c *VerificationCode) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
