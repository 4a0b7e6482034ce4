package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationSetting stores per-user toggles for outbound notifications.
// Every channel defaults to enabled; the notification service consults
// these flags before dispatching anything.
type NotificationSetting struct {
	UUID             string `json:"uuid" gorm:"primaryKey;size:36"`
	Recording        bool   `json:"recording" gorm:"default:true;not null"`
	Transcription    bool   `json:"transcription" gorm:"default:true;not null"`
	ActionItems      bool   `json:"action_items" gorm:"default:true;not null"`
	TeamInvitations  bool   `json:"team_invitations" gorm:"default:true;not null"`
	MeetingReminders bool   `json:"meeting_reminders" gorm:"default:true;not null"`
	UserUUID         string `json:"user_uuid" gorm:"size:36;uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *NotificationSetting) BeforeCreate(tx *gorm.DB) error {
	if n.UUID == "" {
		n.UUID = uuid.New().String()
	}
	return nil
}

func (NotificationSetting) PrimaryKeyColumn() string { return "uuid" }

func (n NotificationSetting) PrimaryKey() any { return n.UUID }

func (NotificationSetting) SearchableColumns() []string { return nil }

func (NotificationSetting) Preloads() []string { return nil }

func (NotificationSetting) SoftDelete() bool { return false }
