package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the public-facing counterpart of a user account.
type Profile struct {
	UUID       string `json:"uuid" gorm:"primaryKey;size:36"`
	Name       string `json:"name" gorm:"size:100;not null"`
	Email      string `json:"email" gorm:"size:100;not null"`
	Department string `json:"department,omitempty" gorm:"size:100"`
	Bio        string `json:"bio,omitempty" gorm:"type:text"`
	UserUUID   string `json:"user_uuid" gorm:"size:36;uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}

func (Profile) PrimaryKeyColumn() string { return "uuid" }

func (p Profile) PrimaryKey() any { return p.UUID }

func (Profile) SearchableColumns() []string {
	return []string{"name", "email", "department", "bio"}
}

func (Profile) Preloads() []string { return nil }

func (Profile) SoftDelete() bool { return false }
