package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meeting is a scheduled session owned by a user. Slug is a unique,
// URL-friendly handle derived from the title; Views counts detail fetches.
type Meeting struct {
	UUID        string    `json:"uuid" gorm:"primaryKey;size:36"`
	Title       string    `json:"title" gorm:"size:100;not null"`
	Slug        string    `json:"slug" gorm:"size:120;uniqueIndex"`
	ScheduledOn time.Time `json:"scheduled_on" gorm:"not null"`
	ScheduledAt string    `json:"scheduled_at" gorm:"size:8;not null"` // HH:MM:SS wall-clock time
	Duration    int       `json:"duration" gorm:"not null"`            // minutes
	Platform    string    `json:"platform" gorm:"size:50;not null"`
	Participant string    `json:"participant" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Views       int64     `json:"views" gorm:"default:0"`
	UserUUID    string    `json:"user_uuid" gorm:"size:36;index;not null"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserUUID;references:UUID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == "" {
		m.UUID = uuid.New().String()
	}
	return nil
}

func (Meeting) PrimaryKeyColumn() string { return "uuid" }

func (m Meeting) PrimaryKey() any { return m.UUID }

func (Meeting) SearchableColumns() []string {
	return []string{"title", "platform", "participant", "description"}
}

func (Meeting) Preloads() []string { return []string{"User"} }

func (Meeting) SoftDelete() bool { return false }
