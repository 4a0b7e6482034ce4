package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RolePermission links a role to a permission.
type RolePermission struct {
	UUID           string `json:"uuid" gorm:"primaryKey;size:36"`
	RoleUUID       string `json:"role_uuid" gorm:"size:36;index;not null"`
	PermissionUUID string `json:"permission_uuid" gorm:"size:36;index;not null"`

	Role       *Role       `json:"role,omitempty" gorm:"foreignKey:RoleUUID;references:UUID"`
	Permission *Permission `json:"permission,omitempty" gorm:"foreignKey:PermissionUUID;references:UUID"`

	CreatedAt time.Time `json:"created_at"`
}

func (rp *RolePermission) BeforeCreate(tx *gorm.DB) error {
	if rp.UUID == "" {
		rp.UUID = uuid.New().String()
	}
	return nil
}

func (RolePermission) PrimaryKeyColumn() string { return "uuid" }

func (rp RolePermission) PrimaryKey() any { return rp.UUID }

func (RolePermission) SearchableColumns() []string { return nil }

func (RolePermission) Preloads() []string { return []string{"Role", "Permission"} }

func (RolePermission) SoftDelete() bool { return false }

// UserRole links a user to a role.
type UserRole struct {
	UUID     string `json:"uuid" gorm:"primaryKey;size:36"`
	UserUUID string `json:"user_uuid" gorm:"size:36;index;not null"`
	RoleUUID string `json:"role_uuid" gorm:"size:36;index;not null"`

	Role *Role `json:"role,omitempty" gorm:"foreignKey:RoleUUID;references:UUID"`

	CreatedAt time.Time `json:"created_at"`
}

func (ur *UserRole) BeforeCreate(tx *gorm.DB) error {
	if ur.UUID == "" {
		ur.UUID = uuid.New().String()
	}
	return nil
}

func (UserRole) PrimaryKeyColumn() string { return "uuid" }

func (ur UserRole) PrimaryKey() any { return ur.UUID }

func (UserRole) SearchableColumns() []string { return nil }

func (UserRole) Preloads() []string { return []string{"Role"} }

func (UserRole) SoftDelete() bool { return false }
