package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nirmalhealthcare/clinic-console/internal/console"
	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/shell"
)

type appointmentBulkRequest struct {
	Action string                   `json:"action" binding:"required,oneof=delete status"`
	Status models.AppointmentStatus `json:"status" binding:"required_if=Action status"`
}

type AppointmentHandler struct {
	listScreen[models.AppointmentRow]
}

func NewAppointmentHandler() *AppointmentHandler {
	return &AppointmentHandler{
		listScreen: listScreen[models.AppointmentRow]{
			route: shell.RouteAppointments,
			controller: func(ws *console.Workspace) *listview.Controller[models.AppointmentRow] {
				return ws.Appointments.List()
			},
		},
	}
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	appointment, err := ws.Appointments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch appointment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": appointment.ToRow()})
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req models.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := ws.Appointments.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	respondWrite(c, err, "Appointment updated successfully", "Failed to update appointment")
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	err := ws.Appointments.Delete(c.Request.Context(), c.Param("id"))
	respondWrite(c, err, "Appointment deleted successfully", "Failed to delete appointment")
}

func (h *AppointmentHandler) Bulk(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req appointmentBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case "status":
		summary, err := ws.Appointments.BulkUpdateStatus(ctx, req.Status)
		respondBulk(c, ws, summary, err)
	default:
		summary, err := ws.Appointments.BulkDelete(ctx)
		respondBulk(c, ws, summary, err)
	}
}
