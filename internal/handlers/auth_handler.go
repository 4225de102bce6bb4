package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/services"
	"github.com/nirmalhealthcare/clinic-console/internal/shell"
)

// AuthHandler serves the login, logout and password-reset screens.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Root sends signed-in operators to the dashboard and everyone else to login.
func (h *AuthHandler) Root(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	if ws.Session.IsAuthenticated(c.Request.Context()) {
		ws.Navigator.Navigate(shell.RouteDashboard)
		c.Redirect(http.StatusFound, shell.RouteDashboard)
		return
	}
	ws.Navigator.Navigate(shell.RouteLogin)
	c.Redirect(http.StatusFound, shell.RouteLogin)
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	if ws.Session.IsAuthenticated(c.Request.Context()) {
		ws.Navigator.Navigate(shell.RouteDashboard)
		c.Redirect(http.StatusFound, shell.RouteDashboard)
		return
	}

	ws.Navigator.Navigate(shell.RouteLogin)
	c.JSON(http.StatusOK, gin.H{"location": shell.RouteLogin})
}

func (h *AuthHandler) Login(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := ws.Auth.Login(c.Request.Context(), req)
	if err != nil {
		// Rejected credentials stay 401; an unreachable or failing backend does not.
		status := http.StatusUnauthorized
		if s := statusFor(err); s >= http.StatusInternalServerError {
			status = s
		}
		respondError(c, status, services.UserMessage(err, services.LoginFailedMessage), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"admin":    profile,
		"redirect": ws.Navigator.Location(),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	ws.Auth.Logout(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": shell.RouteLogin,
	})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req models.ForgotPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	message, err := ws.Auth.ForgotPassword(c.Request.Context(), req)
	if err != nil {
		respondError(c, statusFor(err), services.UserMessage(err, "Failed to send reset link"), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  message,
		"redirect": ws.Navigator.Location(),
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req models.ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	message, err := ws.Auth.ResetPassword(c.Request.Context(), req)
	if err != nil {
		respondError(c, statusFor(err), services.UserMessage(err, "Failed to reset password"), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  message,
		"redirect": ws.Navigator.Location(),
	})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	profile, err := ws.Auth.Profile(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "admin": profile})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := ws.Auth.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"admin":   profile,
	})
}
