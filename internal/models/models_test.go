package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("correct horse"))

	assert.NotEqual(t, "correct horse", u.PasswordHash)
	assert.True(t, u.CheckPassword("correct horse"))
	assert.False(t, u.CheckPassword("wrong horse"))
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).DisplayName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).DisplayName())
	assert.Equal(t, "Lovelace", (&User{LastName: "Lovelace"}).DisplayName())
	assert.Equal(t, "a@example.com", (&User{Email: "a@example.com"}).DisplayName())
}

func TestVerificationCodeIsExpired(t *testing.T) {
	live := &VerificationCode{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, live.IsExpired())

	dead := &VerificationCode{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, dead.IsExpired())
}

func TestTeamInviteIsExpired(t *testing.T) {
	assert.False(t, (&TeamInvite{}).IsExpired())

	future := time.Now().Add(time.Hour)
	assert.False(t, (&TeamInvite{ExpiresAt: &future}).IsExpired())

	past := time.Now().Add(-time.Hour)
	assert.True(t, (&TeamInvite{ExpiresAt: &past}).IsExpired())
}

func TestValidAction(t *testing.T) {
	for _, action := range []string{
		ActionCreate, ActionUpdate, ActionDelete, ActionLogin, ActionLogout,
		ActionCreatePassword, ActionResetPassword, ActionChangePassword,
		ActionConfirmEmail, ActionVerifyEmail,
	} {
		assert.True(t, ValidAction(action), action)
	}
	assert.False(t, ValidAction("explode"))
	assert.False(t, ValidAction(""))
}

func TestEntityMetadata(t *testing.T) {
	assert.Equal(t, "uuid", User{}.PrimaryKeyColumn())
	assert.True(t, User{}.SoftDelete())
	assert.Contains(t, User{}.SearchableColumns(), "email")

	assert.Equal(t, "id", ActivityLog{}.PrimaryKeyColumn())
	assert.False(t, ActivityLog{}.SoftDelete())

	assert.Equal(t, "uuid", Meeting{}.PrimaryKeyColumn())
	assert.False(t, Meeting{}.SoftDelete())
	assert.Contains(t, Meeting{}.Preloads(), "User")
}
