package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/codes"
)

// Verification code purposes.
const (
	CodeTypeConfirmEmail  = "confirm_email"
	CodeTypeResetPassword = "reset_password"
	CodeTypePhone         = "phone"
)

// DefaultCodeTTL is how long a verification code stays valid.
const DefaultCodeTTL = 12 * time.Hour

// VerificationCode is a one-time numeric code bound to a user and purpose.
type VerificationCode struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"size:8;not null"`
	Type      string    `json:"type" gorm:"size:50;default:'confirm_email';not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	UserUUID  string    `json:"user_uuid" gorm:"size:36;index;not null"`

	User *User `json:"-" gorm:"foreignKey:UserUUID;references:UUID"`

	CreatedAt time.Time `json:"created_at"`
}

func (v *VerificationCode) BeforeCreate(tx *gorm.DB) error {
	if v.Code == "" {
		code, err := codes.GenerateVerificationCode(codes.VerificationCodeLength)
		if err != nil {
			return err
		}
		v.Code = code
	}
	if v.ExpiresAt.IsZero() {
		v.ExpiresAt = time.Now().Add(DefaultCodeTTL)
	}
	if v.Type == "" {
		v.Type = CodeTypeConfirmEmail
	}
	return nil
}

// IsExpired reports whether the code can no longer be used.
func (v *VerificationCode) IsExpired() bool {
	return !time.Now().Before(v.ExpiresAt)
}

func (VerificationCode) PrimaryKeyColumn() string { return "id" }

func (v VerificationCode) PrimaryKey() any { return v.ID }

func (VerificationCode) SearchableColumns() []string { return []string{"code", "type"} }

func (VerificationCode) Preloads() []string { return nil }

func (VerificationCode) SoftDelete() bool { return false }
