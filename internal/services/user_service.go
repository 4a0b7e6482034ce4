package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/audit"
	"github.com/automeet/automeet/backend/internal/config"
	"github.com/automeet/automeet/backend/internal/logger"
	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/store"
)

// Authentication and account errors surfaced to handlers.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrAccountInactive    = errors.New("account is deactivated")
)

// TokenPair holds the access and refresh tokens issued on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// UserService handles registration, authentication and profile changes.
// Every mutation it performs is audited.
type UserService struct {
	db       *gorm.DB
	users    *store.Store[models.User]
	recorder *audit.Recorder
	cfg      config.Config
}

// NewUserService creates a new user service instance.
func NewUserService(db *gorm.DB, recorder *audit.Recorder, cfg config.Config) *UserService {
	return &UserService{
		db:       db,
		users:    store.New[models.User](db),
		recorder: recorder,
		cfg:      cfg,
	}
}

// Users exposes the underlying store for read paths.
func (s *UserService) Users() *store.Store[models.User] { return s.users }

// GetByEmail fetches a user by email address.
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// Register creates a new account with a hashed password, an empty
// notification settings row, and an audit record.
func (s *UserService) Register(firstName, lastName, email, password string) (*models.User, error) {
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if _, err := s.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		IsActive:  true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(user)
	if err != nil {
		return nil, err
	}

	// Settings row is created eagerly so reads never have to branch.
	settings := &models.NotificationSetting{
		UserUUID:         created.UUID,
		Recording:        true,
		Transcription:    true,
		ActionItems:      true,
		TeamInvitations:  true,
		MeetingReminders: true,
	}
	if err := s.db.Create(settings).Error; err != nil {
		return nil, fmt.Errorf("create notification settings: %w", err)
	}

	if _, err := s.recorder.Record(audit.Entry{
		New:         audit.Snapshot(created),
		Entity:      "User",
		Action:      models.ActionCreate,
		UserUUID:    &created.UUID,
		Description: fmt.Sprintf("User %s registered", created.Email),
	}); err != nil {
		return nil, err
	}

	logger.Log().WithField("email", created.Email).Info("User registered")
	return created, nil
}

// Login verifies credentials and issues a token pair. Successful logins
// are audited; failures are not attributed to a user.
func (s *UserService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.GetByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if !user.CheckPassword(password) {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrAccountInactive
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.recorder.Record(audit.Entry{
		Entity:      "User",
		Action:      models.ActionLogin,
		UserUUID:    &user.UUID,
		Description: fmt.Sprintf("User %s logged in", user.Email),
	}); err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Logout records the logout event. Tokens are stateless, so there is
// nothing to invalidate server-side.
func (s *UserService) Logout(userUUID string) error {
	_, err := s.recorder.Record(audit.Entry{
		Entity:      "User",
		Action:      models.ActionLogout,
		UserUUID:    &userUUID,
		Description: "User logged out",
	})
	return err
}

// Update applies the given column values to the user and audits the
// change with before/after snapshots.
func (s *UserService) Update(userUUID string, fields map[string]any, actorUUID *string) (*models.User, error) {
	// Snapshots on both sides carry relationships so the diff only ever
	// reports real changes.
	existing, err := s.users.Get(userUUID, true)
	if err != nil {
		return nil, err
	}
	before := audit.Snapshot(existing)

	updated, err := s.users.Update(existing, fields)
	if err != nil {
		return nil, err
	}

	if _, err := s.recorder.Record(audit.Entry{
		Previous:    before,
		New:         audit.Snapshot(updated),
		Entity:      "User",
		Action:      models.ActionUpdate,
		UserUUID:    actorUUID,
		Description: fmt.Sprintf("User %s updated", updated.Email),
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// Deactivate soft-deletes the account and audits the removal.
func (s *UserService) Deactivate(userUUID string, actorUUID *string) (*models.User, error) {
	existing, err := s.users.Get(userUUID, true)
	if err != nil {
		return nil, err
	}
	before := audit.Snapshot(existing)

	removed, err := s.users.Remove(existing)
	if err != nil {
		return nil, err
	}

	if _, err := s.recorder.Record(audit.Entry{
		Previous:    before,
		New:         audit.Snapshot(removed),
		Entity:      "User",
		Action:      models.ActionDelete,
		UserUUID:    actorUUID,
		Description: fmt.Sprintf("User %s deactivated", removed.Email),
	}); err != nil {
		return nil, err
	}

	logger.Log().WithField("user_uuid", userUUID).Info("User deactivated")
	return removed, nil
}

// ChangePassword verifies the current password, sets the new one and
// audits the event. Snapshots never carry hashes; the audit record only
// notes that a password change happened.
func (s *UserService) ChangePassword(userUUID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	user, err := s.users.Get(userUUID, false)
	if err != nil {
		return err
	}
	if !user.CheckPassword(currentPassword) {
		return ErrInvalidCredentials
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.users.Update(user, map[string]any{"password": user.PasswordHash}); err != nil {
		return err
	}

	_, err = s.recorder.Record(audit.Entry{
		Entity:      "User",
		Action:      models.ActionChangePassword,
		UserUUID:    &user.UUID,
		Description: fmt.Sprintf("User %s changed password", user.Email),
	})
	return err
}

// ResetPassword sets a new password without the current one. It backs
// the verification-code reset flow, so the caller must have already
// consumed a valid reset code.
func (s *UserService) ResetPassword(userUUID, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	user, err := s.users.Get(userUUID, false)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.users.Update(user, map[string]any{"password": user.PasswordHash}); err != nil {
		return err
	}

	_, err = s.recorder.Record(audit.Entry{
		Entity:      "User",
		Action:      models.ActionResetPassword,
		UserUUID:    &user.UUID,
		Description: fmt.Sprintf("User %s reset password", user.Email),
	})
	return err
}

func (s *UserService) issueTokens(user *models.User) (*TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.UUID,
		"email": user.Email,
		"exp":   now.Add(s.cfg.AccessTokenTTL).Unix(),
		"iat":   now.Unix(),
	})
	accessToken, err := access.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.UUID,
		"exp": now.Add(s.cfg.RefreshTokenTTL).Unix(),
		"iat": now.Unix(),
	})
	refreshToken, err := refresh.SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}
