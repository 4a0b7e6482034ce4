package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission is a named capability attached to roles.
type Permission struct {
	UUID        string `json:"uuid" gorm:"primaryKey;size:36"`
	Name        string `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Label       string `json:"label,omitempty" gorm:"size:50"`
	Description string `json:"description,omitempty" gorm:"size:255"`
	Type        string `json:"type" gorm:"size:2;default:'I';not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}

func (Permission) PrimaryKeyColumn() string { return "uuid" }

func (p Permission) PrimaryKey() any { return p.UUID }

func (Permission) SearchableColumns() []string {
	return []string{"name", "label", "description"}
}

func (Permission) Preloads() []string { return nil }

func (Permission) SoftDelete() bool { return false }
