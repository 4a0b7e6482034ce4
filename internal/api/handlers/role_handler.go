package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/store"
)

// RoleHandler covers system roles and their permissions.
type RoleHandler struct {
	DB          *gorm.DB
	Roles       *store.Store[models.Role]
	Permissions *store.Store[models.Permission]
}

func NewRoleHandler(db *gorm.DB) *RoleHandler {
	return &RoleHandler{
		DB:          db,
		Roles:       store.New[models.Role](db),
		Permissions: store.New[models.Permission](db),
	}
}

func (h *RoleHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/roles", h.ListRoles)
	r.POST("/roles", h.CreateRole)
	r.GET("/roles/:uuid", h.GetRole)
	r.PUT("/roles/:uuid/permissions", h.SetPermissions)
	r.GET("/permissions", h.ListPermissions)
}

// ListRoles returns all roles with their permissions.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	opts := listOptionsFromQuery(c)
	opts.WithRelationships = true
	roles, err := h.Roles.List(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roles"})
		return
	}
	c.JSON(http.StatusOK, roles)
}

type CreateRoleRequest struct {
	Name               string `json:"name" binding:"required"`
	HasDashboardAccess bool   `json:"has_dashboard_access"`
}

// CreateRole creates a system role.
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.Roles.Create(&models.Role{
		Name:               req.Name,
		HasDashboardAccess: req.HasDashboardAccess,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role"})
		return
	}
	c.JSON(http.StatusCreated, role)
}

// GetRole returns one role with its permissions.
func (h *RoleHandler) GetRole(c *gin.Context) {
	role, err := h.Roles.Get(c.Param("uuid"), true)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch role"})
		return
	}
	c.JSON(http.StatusOK, role)
}

type SetPermissionsRequest struct {
	PermissionUUIDs []string `json:"permission_uuids" binding:"required"`
}

// SetPermissions replaces the role's permission set.
func (h *RoleHandler) SetPermissions(c *gin.Context) {
	role, err := h.Roles.Get(c.Param("uuid"), false)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch role"})
		return
	}

	var req SetPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var perms []models.Permission
		if len(req.PermissionUUIDs) > 0 {
			if err := tx.Where("uuid IN ?", req.PermissionUUIDs).Find(&perms).Error; err != nil {
				return err
			}
		}
		return tx.Model(role).Association("Permissions").Replace(perms)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update permissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Permissions updated"})
}

// ListPermissions returns all permissions.
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	perms, err := h.Permissions.List(listOptionsFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch permissions"})
		return
	}
	c.JSON(http.StatusOK, perms)
}
