package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/store"
)

func TestRegister(t *testing.T) {
	db, users, _, _, _, _ := newTestStack(t)

	user, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	assert.NotEmpty(t, user.UUID)
	assert.True(t, user.IsActive)
	assert.True(t, user.CheckPassword("correct horse"))

	// Notification settings exist with defaults.
	var settings models.NotificationSetting
	require.NoError(t, db.Where("user_uuid = ?", user.UUID).First(&settings).Error)
	assert.True(t, settings.Recording)
	assert.True(t, settings.MeetingReminders)

	// Registration is audited without leaking the password.
	var log models.ActivityLog
	require.NoError(t, db.Where("entity = ? AND action = ?", "User", models.ActionCreate).First(&log).Error)
	require.NotNil(t, log.UserUUID)
	assert.Equal(t, user.UUID, *log.UserUUID)
	_, hasPassword := log.NewData["password"]
	assert.False(t, hasPassword)
}

func TestRegister_WeakPassword(t *testing.T) {
	_, users, _, _, _, _ := newTestStack(t)

	_, err := users.Register("Ada", "Lovelace", "ada@example.com", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, users, _, _, _, _ := newTestStack(t)

	_, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	_, err = users.Register("Other", "Person", "ada@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	db, users, _, _, _, _ := newTestStack(t)

	registered, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	user, tokens, err := users.Login("ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, registered.UUID, user.UUID)
	assert.Equal(t, "bearer", tokens.TokenType)

	// Access token is signed with the access secret and carries the uuid.
	parsed, err := jwt.Parse(tokens.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, registered.UUID, claims["sub"])

	var count int64
	require.NoError(t, db.Model(&models.ActivityLog{}).
		Where("action = ?", models.ActionLogin).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, users, _, _, _, _ := newTestStack(t)

	_, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	_, _, err = users.Login("ada@example.com", "wrong horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	_, users, _, _, _, _ := newTestStack(t)

	_, _, err := users.Login("nobody@example.com", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	_, users, _, _, _, _ := newTestStack(t)

	user, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	_, err = users.Deactivate(user.UUID, nil)
	require.NoError(t, err)

	_, _, err = users.Login("ada@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestUpdate_AuditsChangedFieldsOnly(t *testing.T) {
	db, users, _, _, _, _ := newTestStack(t)

	user, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	updated, err := users.Update(user.UUID, map[string]any{"first_name": "Augusta"}, &user.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)

	var log models.ActivityLog
	require.NoError(t, db.Where("entity = ? AND action = ?", "User", models.ActionUpdate).First(&log).Error)
	assert.Equal(t, "Ada", log.PreviousData["first_name"])
	assert.Equal(t, "Augusta", log.NewData["first_name"])
	_, hasEmail := log.NewData["email"]
	assert.False(t, hasEmail)
}

func TestDeactivate(t *testing.T) {
	db, users, _, _, _, _ := newTestStack(t)

	user, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	removed, err := users.Deactivate(user.UUID, nil)
	require.NoError(t, err)
	assert.False(t, removed.IsActive)

	// Soft delete keeps the row.
	got, err := users.Users().Get(user.UUID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	var log models.ActivityLog
	require.NoError(t, db.Where("entity = ? AND action = ?", "User", models.ActionDelete).First(&log).Error)
	assert.Equal(t, true, log.PreviousData["is_active"])
	assert.Equal(t, false, log.NewData["is_active"])
}

func TestDeactivate_NotFound(t *testing.T) {
	_, users, _, _, _, _ := newTestStack(t)

	_, err := users.Deactivate("missing-uuid", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	db, users, _, _, _, _ := newTestStack(t)

	user, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	require.NoError(t, users.ChangePassword(user.UUID, "correct horse", "brand new pass"))

	_, _, err = users.Login("ada@example.com", "brand new pass")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.ActivityLog{}).
		Where("action = ?", models.ActionChangePassword).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	_, users, _, _, _, _ := newTestStack(t)

	user, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	err = users.ChangePassword(user.UUID, "wrong horse", "brand new pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
