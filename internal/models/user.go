package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User represents an account holder. Users are soft-deleted: removing one
// only clears the is_active flag so audit references stay resolvable.
type User struct {
	UUID         string     `json:"uuid" gorm:"primaryKey;size:36"`
	FirstName    string     `json:"first_name" gorm:"size:130;not null"`
	LastName     string     `json:"last_name" gorm:"size:130;not null"`
	Email        string     `json:"email" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"column:password;size:255"` // Never serialize password hash
	PhoneNumber  string     `json:"phone_number,omitempty" gorm:"size:20"`
	Gender       string     `json:"gender,omitempty" gorm:"size:10"`
	Address      string     `json:"address,omitempty" gorm:"type:text"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Avatar       string     `json:"avatar,omitempty" gorm:"type:text"`
	Bio          string     `json:"bio,omitempty" gorm:"type:text"`
	Status       string     `json:"status,omitempty" gorm:"size:20"`

	IsVerified bool       `json:"is_verified" gorm:"default:false"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	IsActive   bool       `json:"is_active" gorm:"default:true"`

	Profile             *Profile             `json:"profile,omitempty" gorm:"foreignKey:UserUUID;references:UUID"`
	NotificationSetting *NotificationSetting `json:"notification_setting,omitempty" gorm:"foreignKey:UserUUID;references:UUID"`
	VerificationCodes   []VerificationCode   `json:"-" gorm:"foreignKey:UserUUID;references:UUID"`
	Roles               []Role               `json:"roles,omitempty" gorm:"many2many:user_roles;foreignKey:UUID;joinForeignKey:UserUUID;References:UUID;joinReferences:RoleUUID"`
	TeamRoles           []TeamRole           `json:"team_roles,omitempty" gorm:"many2many:team_members;foreignKey:UUID;joinForeignKey:UserUUID;References:UUID;joinReferences:RoleUUID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == "" {
		u.UUID = uuid.New().String()
	}
	return nil
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the provided password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// DisplayName prefers the full name and falls back to the email address.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Email
}

func (User) PrimaryKeyColumn() string { return "uuid" }

func (u User) PrimaryKey() any { return u.UUID }

func (User) SearchableColumns() []string {
	return []string{"first_name", "last_name", "email", "phone_number", "status"}
}

func (User) Preloads() []string {
	return []string{"Profile", "NotificationSetting", "Roles"}
}

func (User) SoftDelete() bool { return true }
