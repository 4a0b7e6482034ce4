package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Audited action types.
const (
	ActionCreate         = "create"
	ActionUpdate         = "update"
	ActionDelete         = "delete"
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionCreatePassword = "create_password"
	ActionResetPassword  = "reset_password"
	ActionChangePassword = "change_password"
	ActionConfirmEmail   = "confirm_email"
	ActionVerifyEmail    = "verify_email"
)

// ValidAction reports whether action is one of the audited action types.
func ValidAction(action string) bool {
	switch action {
	case ActionCreate, ActionUpdate, ActionDelete, ActionLogin, ActionLogout,
		ActionCreatePassword, ActionResetPassword, ActionChangePassword,
		ActionConfirmEmail, ActionVerifyEmail:
		return true
	}
	return false
}

// ActivityLog records one audited mutation. PreviousData and NewData hold
// only the fields that differ between the before and after snapshots, and
// are always stored as JSON objects, never NULL. Rows are written once and
// never updated; DeleteProtection guards them against casual deletion.
type ActivityLog struct {
	ID               uint              `json:"id" gorm:"primaryKey"`
	UserUUID         *string           `json:"user_uuid" gorm:"size:36;index"` // nil for system-initiated actions
	Entity           string            `json:"entity" gorm:"size:50;not null"`
	Action           string            `json:"action" gorm:"size:50;not null"`
	Description      string            `json:"description,omitempty" gorm:"type:text"`
	PreviousData     datatypes.JSONMap `json:"previous_data" gorm:"type:json"`
	NewData          datatypes.JSONMap `json:"new_data" gorm:"type:json"`
	DeleteProtection bool              `json:"delete_protection" gorm:"default:true"`
	CreatedAt        time.Time         `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserUUID;references:UUID"`
}

func (l *ActivityLog) String() string {
	return fmt.Sprintf("ActivityLog(id=%d, entity=%s, action=%s)", l.ID, l.Entity, l.Action)
}

func (ActivityLog) PrimaryKeyColumn() string { return "id" }

func (l ActivityLog) PrimaryKey() any { return l.ID }

func (ActivityLog) SearchableColumns() []string {
	return []string{"entity", "action", "description"}
}

func (ActivityLog) Preloads() []string { return nil }

func (ActivityLog) SoftDelete() bool { return false }
