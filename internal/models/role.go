package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role groups permissions and is assigned to users through user_roles.
type Role struct {
	UUID               string `json:"uuid" gorm:"primaryKey;size:36"`
	Name               string `json:"name" gorm:"size:50;uniqueIndex;not null"`
	HasDashboardAccess bool   `json:"has_dashboard_access" gorm:"default:false;not null"`

	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;foreignKey:UUID;joinForeignKey:RoleUUID;References:UUID;joinReferences:PermissionUUID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.New().String()
	}
	return nil
}

func (Role) PrimaryKeyColumn() string { return "uuid" }

func (r Role) PrimaryKey() any { return r.UUID }

func (Role) SearchableColumns() []string { return []string{"name"} }

func (Role) Preloads() []string { return []string{"Permissions"} }

func (Role) SoftDelete() bool { return false }
