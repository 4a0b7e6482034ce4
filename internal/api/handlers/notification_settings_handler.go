package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/automeet/automeet/backend/internal/api/middleware"
	"github.com/automeet/automeet/backend/internal/services"
)

// NotificationSettingsHandler exposes the per-user notification toggles.
type NotificationSettingsHandler struct {
	Notifications *services.NotificationService
}

func NewNotificationSettingsHandler(notifications *services.NotificationService) *NotificationSettingsHandler {
	return &NotificationSettingsHandler{Notifications: notifications}
}

func (h *NotificationSettingsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/notification-settings", h.GetSettings)
	r.PUT("/notification-settings", h.UpdateSettings)
}

// GetSettings returns the authenticated user's notification settings.
func (h *NotificationSettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.Notifications.GetSettings(middleware.CurrentUserUUID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type UpdateNotificationSettingsRequest struct {
	Recording        *bool `json:"recording"`
	Transcription    *bool `json:"transcription"`
	ActionItems      *bool `json:"action_items"`
	TeamInvitations  *bool `json:"team_invitations"`
	MeetingReminders *bool `json:"meeting_reminders"`
}

// UpdateSettings applies the provided toggle values.
func (h *NotificationSettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateNotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := make(map[string]any)
	if req.Recording != nil {
		fields["recording"] = *req.Recording
	}
	if req.Transcription != nil {
		fields["transcription"] = *req.Transcription
	}
	if req.ActionItems != nil {
		fields["action_items"] = *req.ActionItems
	}
	if req.TeamInvitations != nil {
		fields["team_invitations"] = *req.TeamInvitations
	}
	if req.MeetingReminders != nil {
		fields["meeting_reminders"] = *req.MeetingReminders
	}

	settings, err := h.Notifications.UpdateSettings(middleware.CurrentUserUUID(c), fields)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
