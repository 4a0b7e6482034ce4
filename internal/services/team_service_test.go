package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automeet/automeet/backend/internal/models"
)

func TestCreateTeamRole(t *testing.T) {
	_, _, _, _, teams, _ := newTestStack(t)

	role, err := teams.CreateRole("Editor", "Can edit meetings", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, role.UUID)
	assert.Equal(t, "Editor", role.Name)
}

func TestInvite(t *testing.T) {
	db, users, _, _, teams, _ := newTestStack(t)

	inviter, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)
	role, err := teams.CreateRole("Editor", "", nil)
	require.NoError(t, err)

	invite, err := teams.Invite("guest@example.com", role.UUID, inviter.UUID)
	require.NoError(t, err)

	assert.Equal(t, models.InviteStatusPending, invite.Status)
	assert.NotNil(t, invite.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), *invite.ExpiresAt, time.Minute)

	// Token persisted but never serialized.
	var stored models.TeamInvite
	require.NoError(t, db.Where("uuid = ?", invite.UUID).First(&stored).Error)
	assert.NotEmpty(t, stored.Token)
}

func TestInvite_UnknownRole(t *testing.T) {
	_, users, _, _, teams, _ := newTestStack(t)

	inviter, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	_, err = teams.Invite("guest@example.com", "missing-role", inviter.UUID)
	assert.Error(t, err)
}

func TestValidateAndAccept(t *testing.T) {
	db, users, _, _, teams, _ := newTestStack(t)

	inviter, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)
	invitee, err := users.Register("Grace", "Hopper", "grace@example.com", "correct horse")
	require.NoError(t, err)
	role, err := teams.CreateRole("Editor", "", nil)
	require.NoError(t, err)

	invite, err := teams.Invite("grace@example.com", role.UUID, inviter.UUID)
	require.NoError(t, err)

	var stored models.TeamInvite
	require.NoError(t, db.Where("uuid = ?", invite.UUID).First(&stored).Error)

	valid, err := teams.Validate(stored.Token)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", valid.Email)

	accepted, err := teams.Accept(stored.Token, invitee.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusAccepted, accepted.Status)

	// Membership row exists.
	var count int64
	require.NoError(t, db.Table("team_members").
		Where("role_uuid = ? AND user_uuid = ?", role.UUID, invitee.UUID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Consumed invite no longer validates.
	_, err = teams.Validate(stored.Token)
	assert.ErrorIs(t, err, ErrInviteConsumed)
}

func TestValidate_UnknownToken(t *testing.T) {
	_, _, _, _, teams, _ := newTestStack(t)

	_, err := teams.Validate("no-such-token")
	assert.ErrorIs(t, err, ErrInviteInvalid)
}

func TestValidate_ExpiredInviteIsMarked(t *testing.T) {
	db, users, _, _, teams, _ := newTestStack(t)

	inviter, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)
	role, err := teams.CreateRole("Editor", "", nil)
	require.NoError(t, err)

	invite, err := teams.Invite("guest@example.com", role.UUID, inviter.UUID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.TeamInvite{}).Where("uuid = ?", invite.UUID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	var stored models.TeamInvite
	require.NoError(t, db.Where("uuid = ?", invite.UUID).First(&stored).Error)

	_, err = teams.Validate(stored.Token)
	assert.ErrorIs(t, err, ErrInviteExpired)

	require.NoError(t, db.Where("uuid = ?", invite.UUID).First(&stored).Error)
	assert.Equal(t, models.InviteStatusExpired, stored.Status)
}

func TestRevoke(t *testing.T) {
	_, users, _, _, teams, _ := newTestStack(t)

	inviter, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)
	role, err := teams.CreateRole("Editor", "", nil)
	require.NoError(t, err)

	invite, err := teams.Invite("guest@example.com", role.UUID, inviter.UUID)
	require.NoError(t, err)

	revoked, err := teams.Revoke(invite.UUID, &inviter.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusRevoked, revoked.Status)

	_, err = teams.Revoke(invite.UUID, &inviter.UUID)
	assert.ErrorIs(t, err, ErrInviteConsumed)
}

func TestExpireStale(t *testing.T) {
	db, users, _, _, teams, _ := newTestStack(t)

	inviter, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)
	role, err := teams.CreateRole("Editor", "", nil)
	require.NoError(t, err)

	stale, err := teams.Invite("old@example.com", role.UUID, inviter.UUID)
	require.NoError(t, err)
	fresh, err := teams.Invite("new@example.com", role.UUID, inviter.UUID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.TeamInvite{}).Where("uuid = ?", stale.UUID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	n, err := teams.ExpireStale()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var staleRow, freshRow models.TeamInvite
	require.NoError(t, db.Where("uuid = ?", stale.UUID).First(&staleRow).Error)
	require.NoError(t, db.Where("uuid = ?", fresh.UUID).First(&freshRow).Error)
	assert.Equal(t, models.InviteStatusExpired, staleRow.Status)
	assert.Equal(t, models.InviteStatusPending, freshRow.Status)
}
