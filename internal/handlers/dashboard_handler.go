package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nirmalhealthcare/clinic-console/internal/shell"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

func (h *DashboardHandler) Show(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	ws.Navigator.Navigate(shell.RouteDashboard)

	summary, err := ws.Dashboard.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"admin":   ws.Session.Profile(c.Request.Context()),
		"data":    summary,
	})
}
