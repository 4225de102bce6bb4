package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nirmalhealthcare/clinic-console/internal/console"
	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/shell"
)

type contactBulkRequest struct {
	Action string `json:"action" binding:"required,oneof=delete read"`
}

type ContactHandler struct {
	listScreen[models.ContactRow]
}

func NewContactHandler() *ContactHandler {
	return &ContactHandler{
		listScreen: listScreen[models.ContactRow]{
			route: shell.RouteContacts,
			controller: func(ws *console.Workspace) *listview.Controller[models.ContactRow] {
				return ws.Contacts.List()
			},
		},
	}
}

// Get opens a message; unread messages are marked read on open.
func (h *ContactHandler) Get(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	contact, err := ws.Contacts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": contact.ToRow()})
}

func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req models.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := ws.Contacts.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	respondWrite(c, err, "Message updated successfully", "Failed to update message")
}

func (h *ContactHandler) MarkAsRead(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	err := ws.Contacts.MarkAsRead(c.Request.Context(), c.Param("id"))
	respondWrite(c, err, "Message marked as read", "Failed to update message")
}

func (h *ContactHandler) Delete(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	err := ws.Contacts.Delete(c.Request.Context(), c.Param("id"))
	respondWrite(c, err, "Message deleted successfully", "Failed to delete message")
}

func (h *ContactHandler) UnreadCount(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	count, err := ws.Contacts.UnreadCount(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch unread count")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

func (h *ContactHandler) Bulk(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req contactBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case "read":
		summary, err := ws.Contacts.BulkMarkAsRead(ctx)
		respondBulk(c, ws, summary, err)
	default:
		summary, err := ws.Contacts.BulkDelete(ctx)
		respondBulk(c, ws, summary, err)
	}
}
