package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/automeet/automeet/backend/internal/api/middleware"
	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/services"
	"github.com/automeet/automeet/backend/internal/store"
)

// MeetingHandler covers meeting CRUD and view counting.
type MeetingHandler struct {
	Meetings *services.MeetingService
}

func NewMeetingHandler(meetings *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{Meetings: meetings}
}

func (h *MeetingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/meetings", h.ListMeetings)
	r.POST("/meetings", h.CreateMeeting)
	r.GET("/meetings/:uuid", h.GetMeeting)
	r.PUT("/meetings/:uuid", h.UpdateMeeting)
	r.DELETE("/meetings/:uuid", h.DeleteMeeting)
	r.GET("/meetings/slug/:slug", h.GetMeetingBySlug)
}

// ListMeetings returns a page of meetings. Supports skip/limit
// pagination, substring search, and filtering by owner and platform.
func (h *MeetingHandler) ListMeetings(c *gin.Context) {
	opts := listOptionsFromQuery(c)
	filters := make(map[string]any)
	if owner := c.Query("user_uuid"); owner != "" {
		filters["user_uuid"] = owner
	}
	if platform := c.Query("platform"); platform != "" {
		filters["platform"] = platform
	}
	if len(filters) > 0 {
		opts.Filters = filters
	}

	meetings, err := h.Meetings.Meetings().List(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch meetings"})
		return
	}

	total, err := h.Meetings.Meetings().Count(opts.Filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count meetings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": meetings,
		"total": total,
	})
}

type CreateMeetingRequest struct {
	Title       string `json:"title" binding:"required"`
	ScheduledOn string `json:"scheduled_on" binding:"required"` // YYYY-MM-DD
	ScheduledAt string `json:"scheduled_at" binding:"required"` // HH:MM:SS
	Duration    int    `json:"duration" binding:"required,min=1"`
	Platform    string `json:"platform" binding:"required"`
	Participant string `json:"participant" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CreateMeeting schedules a new meeting owned by the authenticated user.
func (h *MeetingHandler) CreateMeeting(c *gin.Context) {
	var req CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day, err := time.Parse("2006-01-02", req.ScheduledOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_on must be YYYY-MM-DD"})
		return
	}
	if _, err := time.Parse("15:04:05", req.ScheduledAt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_at must be HH:MM:SS"})
		return
	}

	meeting, err := h.Meetings.Create(&models.Meeting{
		Title:       req.Title,
		ScheduledOn: day,
		ScheduledAt: req.ScheduledAt,
		Duration:    req.Duration,
		Platform:    req.Platform,
		Participant: req.Participant,
		Description: req.Description,
	}, middleware.CurrentUserUUID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meeting"})
		return
	}

	c.JSON(http.StatusCreated, meeting)
}

// GetMeeting returns one meeting and records a view.
func (h *MeetingHandler) GetMeeting(c *gin.Context) {
	meeting, err := h.Meetings.RecordView(c.Param("uuid"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch meeting"})
		return
	}
	c.JSON(http.StatusOK, meeting)
}

// GetMeetingBySlug returns one meeting by slug without counting a view.
func (h *MeetingHandler) GetMeetingBySlug(c *gin.Context) {
	meeting, err := h.Meetings.GetBySlug(c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch meeting"})
		return
	}
	c.JSON(http.StatusOK, meeting)
}

type UpdateMeetingRequest struct {
	Title       *string `json:"title"`
	ScheduledOn *string `json:"scheduled_on"`
	ScheduledAt *string `json:"scheduled_at"`
	Duration    *int    `json:"duration"`
	Platform    *string `json:"platform"`
	Participant *string `json:"participant"`
	Description *string `json:"description"`
}

// UpdateMeeting applies a partial update.
func (h *MeetingHandler) UpdateMeeting(c *gin.Context) {
	var req UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := make(map[string]any)
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.ScheduledOn != nil {
		day, err := time.Parse("2006-01-02", *req.ScheduledOn)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_on must be YYYY-MM-DD"})
			return
		}
		fields["scheduled_on"] = day
	}
	if req.ScheduledAt != nil {
		if _, err := time.Parse("15:04:05", *req.ScheduledAt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_at must be HH:MM:SS"})
			return
		}
		fields["scheduled_at"] = *req.ScheduledAt
	}
	if req.Duration != nil {
		fields["duration"] = *req.Duration
	}
	if req.Platform != nil {
		fields["platform"] = *req.Platform
	}
	if req.Participant != nil {
		fields["participant"] = *req.Participant
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}

	meeting, err := h.Meetings.Update(c.Param("uuid"), fields, middleware.CurrentUserUUID(c))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update meeting"})
		return
	}
	c.JSON(http.StatusOK, meeting)
}

// DeleteMeeting permanently removes a meeting.
func (h *MeetingHandler) DeleteMeeting(c *gin.Context) {
	err := h.Meetings.Delete(c.Param("uuid"), middleware.CurrentUserUUID(c))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete meeting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meeting deleted"})
}
