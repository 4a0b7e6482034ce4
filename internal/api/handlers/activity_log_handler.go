package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/store"
)

// ActivityLogHandler exposes the audit trail. Logs are read-mostly;
// deletion is only allowed for rows without delete protection.
type ActivityLogHandler struct {
	Logs *store.Store[models.ActivityLog]
}

func NewActivityLogHandler(logs *store.Store[models.ActivityLog]) *ActivityLogHandler {
	return &ActivityLogHandler{Logs: logs}
}

func (h *ActivityLogHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/activity-logs", h.ListLogs)
	r.GET("/activity-logs/:id", h.GetLog)
	r.DELETE("/activity-logs/:id", h.DeleteLog)
}

// ListLogs returns a page of activity logs. Supports skip/limit
// pagination, substring search, and filtering by user, entity and action.
func (h *ActivityLogHandler) ListLogs(c *gin.Context) {
	opts := listOptionsFromQuery(c)
	filters := make(map[string]any)
	if user := c.Query("user_uuid"); user != "" {
		filters["user_uuid"] = user
	}
	if entity := c.Query("entity"); entity != "" {
		filters["entity"] = entity
	}
	if action := c.Query("action"); action != "" {
		filters["action"] = action
	}
	if len(filters) > 0 {
		opts.Filters = filters
	}

	logs, err := h.Logs.List(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity logs"})
		return
	}

	total, err := h.Logs.Count(opts.Filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count activity logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": logs,
		"total": total,
	})
}

// GetLog returns one activity log by id.
func (h *ActivityLogHandler) GetLog(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID"})
		return
	}

	log, err := h.Logs.Get(uint(id), false)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity log not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity log"})
		return
	}
	c.JSON(http.StatusOK, log)
}

// DeleteLog removes an activity log. Protected rows cannot be deleted.
func (h *ActivityLogHandler) DeleteLog(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID"})
		return
	}

	log, err := h.Logs.Get(uint(id), false)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity log not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity log"})
		return
	}

	if log.DeleteProtection {
		c.JSON(http.StatusForbidden, gin.H{"error": "Activity log is protected from deletion"})
		return
	}

	if _, err := h.Logs.Remove(log); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete activity log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Activity log deleted"})
}
