package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/store"
)

func newMeeting(title string) *models.Meeting {
	return &models.Meeting{
		Title:       title,
		ScheduledOn: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		ScheduledAt: "09:30:00",
		Duration:    30,
		Platform:    "zoom",
		Participant: "team@example.com",
		Description: "weekly sync",
	}
}

func TestCreateMeeting(t *testing.T) {
	db, users, _, meetings, _, _ := newTestStack(t)

	owner, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	created, err := meetings.Create(newMeeting("Weekly Sync"), owner.UUID)
	require.NoError(t, err)

	assert.Equal(t, "weekly-sync", created.Slug)
	assert.Equal(t, owner.UUID, created.UserUUID)
	assert.Zero(t, created.Views)

	var log models.ActivityLog
	require.NoError(t, db.Where("entity = ? AND action = ?", "Meeting", models.ActionCreate).First(&log).Error)
	assert.Equal(t, "Weekly Sync", log.NewData["title"])
}

func TestCreateMeeting_SlugCollisionGetsSuffix(t *testing.T) {
	_, users, _, meetings, _, _ := newTestStack(t)

	owner, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	first, err := meetings.Create(newMeeting("Weekly Sync"), owner.UUID)
	require.NoError(t, err)
	second, err := meetings.Create(newMeeting("Weekly Sync"), owner.UUID)
	require.NoError(t, err)
	third, err := meetings.Create(newMeeting("Weekly Sync"), owner.UUID)
	require.NoError(t, err)

	assert.Equal(t, "weekly-sync", first.Slug)
	assert.Equal(t, "weekly-sync-2", second.Slug)
	assert.Equal(t, "weekly-sync-3", third.Slug)
}

func TestUpdateMeeting_TitleChangeReslugifies(t *testing.T) {
	_, users, _, meetings, _, _ := newTestStack(t)

	owner, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	created, err := meetings.Create(newMeeting("Weekly Sync"), owner.UUID)
	require.NoError(t, err)

	updated, err := meetings.Update(created.UUID, map[string]any{"title": "Monthly Review"}, owner.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Monthly Review", updated.Title)
	assert.Equal(t, "monthly-review", updated.Slug)
}

func TestDeleteMeeting(t *testing.T) {
	db, users, _, meetings, _, _ := newTestStack(t)

	owner, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	created, err := meetings.Create(newMeeting("Weekly Sync"), owner.UUID)
	require.NoError(t, err)

	require.NoError(t, meetings.Delete(created.UUID, owner.UUID))

	_, err = meetings.Meetings().Get(created.UUID, false)
	assert.ErrorIs(t, err, store.ErrNotFound)

	var log models.ActivityLog
	require.NoError(t, db.Where("entity = ? AND action = ?", "Meeting", models.ActionDelete).First(&log).Error)
	assert.Equal(t, "Weekly Sync", log.PreviousData["title"])
	assert.Empty(t, log.NewData)
}

func TestRecordView(t *testing.T) {
	db, users, _, meetings, _, _ := newTestStack(t)

	owner, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	created, err := meetings.Create(newMeeting("Weekly Sync"), owner.UUID)
	require.NoError(t, err)

	once, err := meetings.RecordView(created.UUID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, once.Views)

	twice, err := meetings.RecordView(created.UUID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, twice.Views)

	// Views are traffic, not audited mutations.
	var count int64
	require.NoError(t, db.Model(&models.ActivityLog{}).
		Where("entity = ? AND action = ?", "Meeting", models.ActionUpdate).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetBySlug(t *testing.T) {
	_, users, _, meetings, _, _ := newTestStack(t)

	owner, err := users.Register("Ada", "Lovelace", "ada@example.com", "correct horse")
	require.NoError(t, err)

	created, err := meetings.Create(newMeeting("Weekly Sync"), owner.UUID)
	require.NoError(t, err)

	got, err := meetings.GetBySlug(created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.UUID, got.UUID)

	_, err = meetings.GetBySlug("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
