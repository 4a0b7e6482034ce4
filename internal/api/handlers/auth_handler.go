package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/automeet/automeet/backend/internal/api/middleware"
	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/services"
	"github.com/automeet/automeet/backend/internal/store"
)

// AuthHandler covers registration, login and the verification-code flows.
type AuthHandler struct {
	Users        *services.UserService
	Verification *services.VerificationService
}

func NewAuthHandler(users *services.UserService, verification *services.VerificationService) *AuthHandler {
	return &AuthHandler{Users: users, Verification: verification}
}

// RegisterRoutes mounts the public auth endpoints.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/forgot-password", h.ForgotPassword)
	r.POST("/reset-password", h.ResetPassword)
}

// RegisterAuthedRoutes mounts the auth endpoints requiring a valid token.
func (h *AuthHandler) RegisterAuthedRoutes(r *gin.RouterGroup) {
	r.POST("/logout", h.Logout)
	r.POST("/change-password", h.ChangePassword)
	r.POST("/verify-email/request", h.RequestEmailVerification)
	r.POST("/verify-email/confirm", h.ConfirmEmail)
}

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.Register(req.FirstName, req.LastName, req.Email, req.Password)
	if errors.Is(err, services.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		return
	}
	if errors.Is(err, services.ErrWeakPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, tokens, err := h.Users.Login(req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrAccountInactive) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Logout records the logout event for the authenticated user.
func (h *AuthHandler) Logout(c *gin.Context) {
	userUUID := middleware.CurrentUserUUID(c)
	if err := h.Users.Logout(userUUID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword rotates the authenticated user's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userUUID := middleware.CurrentUserUUID(c)
	err := h.Users.ChangePassword(userUUID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}
	if errors.Is(err, services.ErrWeakPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword issues a reset code. The response does not reveal
// whether the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetByEmail(req.Email)
	if err == nil {
		if _, err := h.Verification.Issue(c.Request.Context(), user.UUID, models.CodeTypeResetPassword); err != nil &&
			!errors.Is(err, services.ErrIssueThrottled) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue reset code"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a reset code has been sent"})
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ResetPassword consumes a reset code and sets the new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetByEmail(req.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid reset request"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	err = h.Verification.Verify(user.UUID, models.CodeTypeResetPassword, req.Code)
	if errors.Is(err, services.ErrCodeInvalid) || errors.Is(err, services.ErrCodeExpired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	if err := h.Users.ResetPassword(user.UUID, req.NewPassword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset"})
}

// RequestEmailVerification issues a confirm_email code for the
// authenticated user.
func (h *AuthHandler) RequestEmailVerification(c *gin.Context) {
	userUUID := middleware.CurrentUserUUID(c)

	_, err := h.Verification.Issue(c.Request.Context(), userUUID, models.CodeTypeConfirmEmail)
	if errors.Is(err, services.ErrAlreadyVerified) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, services.ErrIssueThrottled) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue verification code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

type ConfirmEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

// ConfirmEmail consumes a confirm_email code and marks the user verified.
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var req ConfirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userUUID := middleware.CurrentUserUUID(c)
	err := h.Verification.Verify(userUUID, models.CodeTypeConfirmEmail, req.Code)
	if errors.Is(err, services.ErrCodeInvalid) || errors.Is(err, services.ErrCodeExpired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}
