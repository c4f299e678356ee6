package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/forum-api/internal/constants"
	"github.com/yukikurage/forum-api/internal/dto"
	apierrors "github.com/yukikurage/forum-api/internal/errors"
	"github.com/yukikurage/forum-api/internal/middleware"
	"github.com/yukikurage/forum-api/internal/models"
	"github.com/yukikurage/forum-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a user and logs them in.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if !startSession(c, user) {
		if err := h.authService.UndoRegister(context.WithoutCancel(c.Request.Context()), user.ID); err != nil {
			log.Printf("failed to remove user %d after session failure: %v", user.ID, err)
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserDTO(*user, user.ID))
}

// Login authenticates a user by username or email and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		UsernameOrEmail string `json:"username_or_email" binding:"required"`
		Password        string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if !startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user, user.ID))
}

// Logout removes the authentication session. A store failure is reported as ok=false.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true})
	if err := session.Save(); err != nil {
		log.Printf("failed to destroy session: %v", err)
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ForgotPassword starts the password reset flow. The response does not
// reveal whether the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	type ForgotPasswordRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ChangePassword sets a new password from a reset token and logs the user in.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	type ChangePasswordRequest struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.ChangePassword(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	if !startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user, user.ID))
}

// Me returns the session user, or null when there is none.
func (h *AuthHandler) Me(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	user, err := h.authService.Me(c.Request.Context(), viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user, viewer.UserID))
}

func startSession(c *gin.Context, user *models.User) bool {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}
