package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nirmalhealthcare/clinic-console/internal/console"
	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/shell"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
)

type testimonialBulkRequest struct {
	Action string `json:"action" binding:"required,oneof=delete status"`
	Status string `json:"status" binding:"required_if=Action status"`
}

type TestimonialHandler struct {
	listScreen[models.TestimonialRow]
}

func NewTestimonialHandler() *TestimonialHandler {
	return &TestimonialHandler{
		listScreen: listScreen[models.TestimonialRow]{
			route: shell.RouteTestimonials,
			controller: func(ws *console.Workspace) *listview.Controller[models.TestimonialRow] {
				return ws.Testimonials.List()
			},
		},
	}
}

// Create accepts a multipart form with the text fields and an optional
// "photo" file.
func (h *TestimonialHandler) Create(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req models.CreateTestimonialRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var photo *clinicapi.Photo
	if header, err := c.FormFile("photo"); err == nil {
		f, err := header.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "Could not read photo", err)
			return
		}
		defer f.Close()

		photo = &clinicapi.Photo{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     f,
		}
	}

	testimonial, err := ws.Testimonials.Create(c.Request.Context(), req, photo)
	if err != nil {
		respondServiceError(c, err, "Failed to add testimonial")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Testimonial added successfully",
		"data":    testimonial.ToRow(),
	})
}

func (h *TestimonialHandler) UpdateStatus(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req models.UpdateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := ws.Testimonials.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	respondWrite(c, err, "Testimonial updated successfully", "Failed to update testimonial")
}

func (h *TestimonialHandler) Delete(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	err := ws.Testimonials.Delete(c.Request.Context(), c.Param("id"))
	respondWrite(c, err, "Testimonial deleted successfully", "Failed to delete testimonial")
}

func (h *TestimonialHandler) Bulk(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}

	var req testimonialBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case "status":
		summary, err := ws.Testimonials.BulkUpdateStatus(ctx, req.Status)
		respondBulk(c, ws, summary, err)
	default:
		summary, err := ws.Testimonials.BulkDelete(ctx)
		respondBulk(c, ws, summary, err)
	}
}
