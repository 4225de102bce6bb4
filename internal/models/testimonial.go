package models

import (
	"strings"
)

// Testimonial is a published patient testimonial.
type Testimonial struct {
	ID         ID     `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	ClientName string `json:"client_name"`
	Feedback   string `json:"feedback"`
	Photo      string `json:"photo"`
	ImageURL   string `json:"image_url"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// DisplayName prefers the server-built client name.
func (t Testimonial) DisplayName() string {
	if t.ClientName != "" {
		return t.ClientName
	}
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// CreateTestimonialRequest holds the text fields of a new testimonial. The
// photo travels alongside as a multipart file.
type CreateTestimonialRequest struct {
	FirstName string `form:"firstName" json:"first_name" binding:"required,max=100"`
	LastName  string `form:"lastName" json:"last_name" binding:"required,max=100"`
	Feedback  string `form:"feedback" json:"feedback" binding:"required,max=2000"`
}

// UpdateTestimonialRequest changes a testimonial's publication status.
type UpdateTestimonialRequest struct {
	Status string `json:"status" binding:"required,oneof=published hidden pending"`
}

// TestimonialRow is the display shape of a testimonial.
type TestimonialRow struct {
	ID         string `json:"id"`
	ClientName string `json:"clientName"`
	Feedback   string `json:"feedback"`
	Photo      string `json:"photo"`
	Status     string `json:"status,omitempty"`
}

// ToRow maps the backend record to its display row.
func (t Testimonial) ToRow() TestimonialRow {
	photo := t.Photo
	if photo == "" {
		photo = t.ImageURL
	}
	return TestimonialRow{
		ID:         t.ID.String(),
		ClientName: t.DisplayName(),
		Feedback:   t.Feedback,
		Photo:      photo,
		Status:     t.Status,
	}
}

func (r TestimonialRow) RowID() string { return r.ID }

func (r TestimonialRow) SearchFields() []string {
	return []string{r.ClientName, r.Feedback}
}

func (r TestimonialRow) SortValue(column string) (string, bool) {
	switch strings.ToLower(column) {
	case "clientname", "client_name", "name":
		return r.ClientName, true
	case "feedback":
		return r.Feedback, true
	case "status":
		return r.Status, true
	}
	return "", false
}
