package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation lifecycle states.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusExpired  = "expired"
	InviteStatusRevoked  = "revoked"
)

// TeamRole is a workspace-level role users are invited into.
type TeamRole struct {
	UUID        string `json:"uuid" gorm:"primaryKey;size:36"`
	Name        string `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	Members []User `json:"members,omitempty" gorm:"many2many:team_members;foreignKey:UUID;joinForeignKey:RoleUUID;References:UUID;joinReferences:UserUUID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *TeamRole) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == "" {
		t.UUID = uuid.New().String()
	}
	return nil
}

func (TeamRole) PrimaryKeyColumn() string { return "uuid" }

func (t TeamRole) PrimaryKey() any { return t.UUID }

func (TeamRole) SearchableColumns() []string { return []string{"name", "description"} }

func (TeamRole) Preloads() []string { return nil }

func (TeamRole) SoftDelete() bool { return false }

// TeamInvite is an email invitation into a team role. Tokens are
// single-use and expire 48 hours after creation.
type TeamInvite struct {
	UUID          string     `json:"uuid" gorm:"primaryKey;size:36"`
	Email         string     `json:"email" gorm:"size:120;index;not null"`
	Token         string     `json:"-" gorm:"size:64;index"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	RoleUUID      string     `json:"role_uuid" gorm:"size:36"`
	InvitedByUUID string     `json:"invited_by_uuid" gorm:"size:36"`
	Status        string     `json:"status" gorm:"size:20;default:'pending';not null"`

	Role      *TeamRole `json:"role,omitempty" gorm:"foreignKey:RoleUUID;references:UUID"`
	InvitedBy *User     `json:"invited_by,omitempty" gorm:"foreignKey:InvitedByUUID;references:UUID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *TeamInvite) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == "" {
		t.UUID = uuid.New().String()
	}
	return nil
}

// IsExpired reports whether the invite token has passed its deadline.
func (t *TeamInvite) IsExpired() bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(time.Now())
}

func (TeamInvite) PrimaryKeyColumn() string { return "uuid" }

func (t TeamInvite) PrimaryKey() any { return t.UUID }

func (TeamInvite) SearchableColumns() []string { return []string{"email", "status"} }

func (TeamInvite) Preloads() []string { return []string{"Role"} }

func (TeamInvite) SoftDelete() bool { return false }
