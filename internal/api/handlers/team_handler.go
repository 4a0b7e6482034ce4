package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/automeet/automeet/backend/internal/api/middleware"
	"github.com/automeet/automeet/backend/internal/services"
	"github.com/automeet/automeet/backend/internal/store"
)

// TeamHandler covers team roles and email invitations.
type TeamHandler struct {
	Teams *services.TeamService
}

func NewTeamHandler(teams *services.TeamService) *TeamHandler {
	return &TeamHandler{Teams: teams}
}

func (h *TeamHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/team/roles", h.ListRoles)
	r.POST("/team/roles", h.CreateRole)
	r.PUT("/team/roles/:uuid", h.UpdateRole)
	r.DELETE("/team/roles/:uuid", h.DeleteRole)

	r.GET("/team/invites", h.ListInvites)
	r.POST("/team/invites", h.Invite)
	r.POST("/team/invites/:uuid/revoke", h.RevokeInvite)
	r.POST("/team/invites/accept", h.AcceptInvite)
}

// RegisterPublicRoutes mounts the unauthenticated invite validation.
func (h *TeamHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/team/invites/validate", h.ValidateInvite)
}

// ListRoles returns a page of team roles.
func (h *TeamHandler) ListRoles(c *gin.Context) {
	roles, err := h.Teams.Roles().List(listOptionsFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch team roles"})
		return
	}
	c.JSON(http.StatusOK, roles)
}

type TeamRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateRole creates a new team role.
func (h *TeamHandler) CreateRole(c *gin.Context) {
	var req TeamRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.CurrentUserUUID(c)
	role, err := h.Teams.CreateRole(req.Name, req.Description, &actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team role"})
		return
	}
	c.JSON(http.StatusCreated, role)
}

// UpdateRole applies a partial update to a team role.
func (h *TeamHandler) UpdateRole(c *gin.Context) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := make(map[string]any)
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}

	actor := middleware.CurrentUserUUID(c)
	role, err := h.Teams.UpdateRole(c.Param("uuid"), fields, &actor)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team role not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team role"})
		return
	}
	c.JSON(http.StatusOK, role)
}

// DeleteRole removes a team role.
func (h *TeamHandler) DeleteRole(c *gin.Context) {
	actor := middleware.CurrentUserUUID(c)
	err := h.Teams.DeleteRole(c.Param("uuid"), &actor)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team role not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete team role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team role deleted"})
}

// ListInvites returns a page of invites, optionally filtered by status.
func (h *TeamHandler) ListInvites(c *gin.Context) {
	opts := listOptionsFromQuery(c)
	if status := c.Query("status"); status != "" {
		opts.Filters = map[string]any{"status": status}
	}

	invites, err := h.Teams.Invites().List(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invites"})
		return
	}
	c.JSON(http.StatusOK, invites)
}

type InviteRequest struct {
	Email    string `json:"email" binding:"required,email"`
	RoleUUID string `json:"role_uuid" binding:"required"`
}

// Invite sends a new invitation.
func (h *TeamHandler) Invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invite, err := h.Teams.Invite(req.Email, req.RoleUUID, middleware.CurrentUserUUID(c))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team role not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invite"})
		return
	}
	c.JSON(http.StatusCreated, invite)
}

// ValidateInvite checks an invite token (public endpoint).
func (h *TeamHandler) ValidateInvite(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token required"})
		return
	}

	invite, err := h.Teams.Validate(token)
	switch {
	case errors.Is(err, services.ErrInviteInvalid):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid invite token"})
	case errors.Is(err, services.ErrInviteExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Invite has expired"})
	case errors.Is(err, services.ErrInviteConsumed):
		c.JSON(http.StatusConflict, gin.H{"error": "Invite is no longer pending"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate invite"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"valid": true,
			"email": invite.Email,
			"role":  invite.Role,
		})
	}
}

type AcceptInviteRequest struct {
	Token string `json:"token" binding:"required"`
}

// AcceptInvite consumes the invite for the authenticated user.
func (h *TeamHandler) AcceptInvite(c *gin.Context) {
	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invite, err := h.Teams.Accept(req.Token, middleware.CurrentUserUUID(c))
	switch {
	case errors.Is(err, services.ErrInviteInvalid):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid invite token"})
	case errors.Is(err, services.ErrInviteExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Invite has expired"})
	case errors.Is(err, services.ErrInviteConsumed):
		c.JSON(http.StatusConflict, gin.H{"error": "Invite is no longer pending"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invite"})
	default:
		c.JSON(http.StatusOK, invite)
	}
}

// RevokeInvite cancels a pending invite.
func (h *TeamHandler) RevokeInvite(c *gin.Context) {
	actor := middleware.CurrentUserUUID(c)
	invite, err := h.Teams.Revoke(c.Param("uuid"), &actor)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
	case errors.Is(err, services.ErrInviteConsumed):
		c.JSON(http.StatusConflict, gin.H{"error": "Invite is no longer pending"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke invite"})
	default:
		c.JSON(http.StatusOK, invite)
	}
}
