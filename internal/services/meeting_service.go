package services

import (
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/audit"
	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/store"
)

// MeetingService handles meeting lifecycle and view counting. Mutations
// are audited against the acting user.
type MeetingService struct {
	db       *gorm.DB
	meetings *store.Store[models.Meeting]
	recorder *audit.Recorder
	notify   *NotificationService
}

// NewMeetingService creates a new meeting service instance.
func NewMeetingService(db *gorm.DB, recorder *audit.Recorder, notify *NotificationService) *MeetingService {
	return &MeetingService{
		db:       db,
		meetings: store.New[models.Meeting](db),
		recorder: recorder,
		notify:   notify,
	}
}

// Meetings exposes the underlying store for read paths.
func (s *MeetingService) Meetings() *store.Store[models.Meeting] { return s.meetings }

// GetBySlug fetches a meeting by its slug.
func (s *MeetingService) GetBySlug(sl string) (*models.Meeting, error) {
	var meeting models.Meeting
	err := s.db.Preload("User").Where("slug = ?", sl).First(&meeting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get meeting by slug: %w", err)
	}
	return &meeting, nil
}

// Create persists the meeting with a unique slug derived from the title
// and audits the creation.
func (s *MeetingService) Create(meeting *models.Meeting, actorUUID string) (*models.Meeting, error) {
	sl, err := s.uniqueSlug(meeting.Title)
	if err != nil {
		return nil, err
	}
	meeting.Slug = sl
	meeting.UserUUID = actorUUID

	created, err := s.meetings.Create(meeting)
	if err != nil {
		return nil, err
	}

	if _, err := s.recorder.Record(audit.Entry{
		New:         audit.Snapshot(created),
		Entity:      "Meeting",
		Action:      models.ActionCreate,
		UserUUID:    &actorUUID,
		Description: fmt.Sprintf("Meeting %q created", created.Title),
	}); err != nil {
		return nil, err
	}

	s.notify.Dispatch(actorUUID, EventMeetingReminder,
		fmt.Sprintf("Meeting %q scheduled for %s %s", created.Title,
			created.ScheduledOn.Format("2006-01-02"), created.ScheduledAt))

	return created, nil
}

// Update applies the given column values and audits the change. A title
// change re-derives the slug.
func (s *MeetingService) Update(meetingUUID string, fields map[string]any, actorUUID string) (*models.Meeting, error) {
	existing, err := s.meetings.Get(meetingUUID, true)
	if err != nil {
		return nil, err
	}
	before := audit.Snapshot(existing)

	if title, ok := fields["title"].(string); ok && title != existing.Title {
		sl, err := s.uniqueSlug(title)
		if err != nil {
			return nil, err
		}
		fields["slug"] = sl
	}

	updated, err := s.meetings.Update(existing, fields)
	if err != nil {
		return nil, err
	}

	if _, err := s.recorder.Record(audit.Entry{
		Previous:    before,
		New:         audit.Snapshot(updated),
		Entity:      "Meeting",
		Action:      models.ActionUpdate,
		UserUUID:    &actorUUID,
		Description: fmt.Sprintf("Meeting %q updated", updated.Title),
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete permanently removes the meeting and audits the removal.
func (s *MeetingService) Delete(meetingUUID, actorUUID string) error {
	existing, err := s.meetings.Get(meetingUUID, true)
	if err != nil {
		return err
	}
	before := audit.Snapshot(existing)

	if _, err := s.meetings.Remove(existing); err != nil {
		return err
	}

	_, err = s.recorder.Record(audit.Entry{
		Previous:    before,
		Entity:      "Meeting",
		Action:      models.ActionDelete,
		UserUUID:    &actorUUID,
		Description: fmt.Sprintf("Meeting %q deleted", existing.Title),
	})
	return err
}

// RecordView bumps the meeting's view counter. Views are not audited;
// they are traffic, not mutations of record.
func (s *MeetingService) RecordView(meetingUUID string) (*models.Meeting, error) {
	existing, err := s.meetings.Get(meetingUUID, false)
	if err != nil {
		return nil, err
	}
	return s.meetings.IncrementField(existing, "views", 1)
}

// uniqueSlug derives a slug from title, suffixing a counter on collision.
func (s *MeetingService) uniqueSlug(title string) (string, error) {
	base := slug.Make(title)
	candidate := base
	for i := 2; ; i++ {
		var n int64
		if err := s.db.Model(&models.Meeting{}).Where("slug = ?", candidate).Count(&n).Error; err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
