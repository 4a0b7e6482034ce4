package services

import (
	"errors"
	"fmt"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/config"
	"github.com/automeet/automeet/backend/internal/logger"
	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/store"
)

// Notification events dispatched to external targets.
const (
	EventRecording       = "recording"
	EventTranscription   = "transcription"
	EventActionItems     = "action_items"
	EventTeamInvitation  = "team_invitation"
	EventMeetingReminder = "meeting_reminder"
)

// NotificationService manages per-user notification settings and fans
// events out to the configured shoutrrr targets. Dispatch is best effort:
// a failed delivery is logged and never fails the triggering operation.
type NotificationService struct {
	db       *gorm.DB
	settings *store.Store[models.NotificationSetting]
	cfg      config.Config
}

// NewNotificationService creates a new notification service instance.
func NewNotificationService(db *gorm.DB, cfg config.Config) *NotificationService {
	return &NotificationService{
		db:       db,
		settings: store.New[models.NotificationSetting](db),
		cfg:      cfg,
	}
}

// GetSettings returns the user's settings, creating the default row if
// registration predates the settings table.
func (s *NotificationService) GetSettings(userUUID string) (*models.NotificationSetting, error) {
	var settings models.NotificationSetting
	err := s.db.Where("user_uuid = ?", userUUID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created, err := s.settings.Create(&models.NotificationSetting{
			UserUUID:         userUUID,
			Recording:        true,
			Transcription:    true,
			ActionItems:      true,
			TeamInvitations:  true,
			MeetingReminders: true,
		})
		if err != nil {
			return nil, err
		}
		return created, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get notification settings: %w", err)
	}
	return &settings, nil
}

// UpdateSettings applies the given toggle values.
func (s *NotificationService) UpdateSettings(userUUID string, fields map[string]any) (*models.NotificationSetting, error) {
	existing, err := s.GetSettings(userUUID)
	if err != nil {
		return nil, err
	}
	return s.settings.Update(existing, fields)
}

// allows reports whether the user has the channel for event enabled.
func allows(settings *models.NotificationSetting, event string) bool {
	switch event {
	case EventRecording:
		return settings.Recording
	case EventTranscription:
		return settings.Transcription
	case EventActionItems:
		return settings.ActionItems
	case EventTeamInvitation:
		return settings.TeamInvitations
	case EventMeetingReminder:
		return settings.MeetingReminders
	}
	return false
}

// Dispatch sends message to every configured notification target if the
// user's settings allow the event. Delivery runs in the background.
func (s *NotificationService) Dispatch(userUUID, event, message string) {
	if len(s.cfg.NotifyURLs) == 0 {
		return
	}

	settings, err := s.GetSettings(userUUID)
	if err != nil {
		logger.Log().WithError(err).WithField("user_uuid", userUUID).Warn("Skipping notification, settings unavailable")
		return
	}
	if !allows(settings, event) {
		return
	}

	go func() {
		for _, url := range s.cfg.NotifyURLs {
			if err := shoutrrr.Send(url, message); err != nil {
				logger.Log().WithError(err).WithField("event", event).Warn("Notification delivery failed")
			}
		}
	}()
}
