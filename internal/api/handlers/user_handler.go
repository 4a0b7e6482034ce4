package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/automeet/automeet/backend/internal/api/middleware"
	"github.com/automeet/automeet/backend/internal/services"
	"github.com/automeet/automeet/backend/internal/store"
)

// UserHandler covers user listing, profiles and account management.
type UserHandler struct {
	Users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users", h.ListUsers)
	r.GET("/users/:uuid", h.GetUser)
	r.PUT("/users/:uuid", h.UpdateUser)
	r.DELETE("/users/:uuid", h.DeactivateUser)
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)
}

// ListUsers returns a page of users. Supports skip/limit pagination,
// substring search and an is_active filter.
func (h *UserHandler) ListUsers(c *gin.Context) {
	opts := listOptionsFromQuery(c)
	if active := c.Query("is_active"); active != "" {
		opts.Filters = map[string]any{"is_active": active == "true"}
	}

	users, err := h.Users.Users().List(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	total, err := h.Users.Users().Count(opts.Filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": users,
		"total": total,
	})
}

// GetUser returns one user by uuid, with relationships.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.Users.Users().Get(c.Param("uuid"), true)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type UpdateUserRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Gender      *string `json:"gender"`
	Address     *string `json:"address"`
	Avatar      *string `json:"avatar"`
	Bio         *string `json:"bio"`
	Status      *string `json:"status"`
}

// fields collects only the keys present in the request so untouched
// columns stay untouched.
func (r UpdateUserRequest) fields() map[string]any {
	out := make(map[string]any)
	if r.FirstName != nil {
		out["first_name"] = *r.FirstName
	}
	if r.LastName != nil {
		out["last_name"] = *r.LastName
	}
	if r.PhoneNumber != nil {
		out["phone_number"] = *r.PhoneNumber
	}
	if r.Gender != nil {
		out["gender"] = *r.Gender
	}
	if r.Address != nil {
		out["address"] = *r.Address
	}
	if r.Avatar != nil {
		out["avatar"] = *r.Avatar
	}
	if r.Bio != nil {
		out["bio"] = *r.Bio
	}
	if r.Status != nil {
		out["status"] = *r.Status
	}
	return out
}

// UpdateUser applies a partial update to the named user.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.CurrentUserUUID(c)
	user, err := h.Users.Update(c.Param("uuid"), req.fields(), &actor)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeactivateUser soft-deletes the named user.
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	actor := middleware.CurrentUserUUID(c)
	uuid := c.Param("uuid")
	if uuid == actor {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot deactivate your own account"})
		return
	}

	_, err := h.Users.Deactivate(uuid, &actor)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}

// GetProfile returns the authenticated user's account with relationships.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.Users.Users().Get(middleware.CurrentUserUUID(c), true)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile applies a partial update to the authenticated user.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.CurrentUserUUID(c)
	user, err := h.Users.Update(actor, req.fields(), &actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}
