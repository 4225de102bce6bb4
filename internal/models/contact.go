package models

import (
	"strings"

	"github.com/nirmalhealthcare/clinic-console/pkg/istime"
)

// Contact read states.
const (
	ContactUnread = "unread"
	ContactRead   = "read"
)

// Contact is a contact-form submission.
type Contact struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	Responded Flag   `json:"responded"`
	CreatedAt string `json:"created_at"`
}

// UpdateContactRequest changes the read/responded flags of a message.
type UpdateContactRequest struct {
	Status    string `json:"status,omitempty" binding:"omitempty,oneof=unread read"`
	Responded *bool  `json:"responded,omitempty"`
}

// UnreadCount is the data block of the unread-count endpoint.
type UnreadCount struct {
	Count int `json:"count"`
}

// ContactRow is the display shape of a contact message.
type ContactRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Status    string `json:"status"`
	Responded bool   `json:"responded"`
}

// ToRow maps the backend record to its display row.
func (c Contact) ToRow() ContactRow {
	return ContactRow{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Subject:   c.Subject,
		Message:   c.Message,
		Date:      istime.FormatDate(c.CreatedAt),
		Time:      istime.FormatTime(c.CreatedAt),
		Status:    c.Status,
		Responded: bool(c.Responded),
	}
}

func (r ContactRow) RowID() string { return r.ID }

func (r ContactRow) SearchFields() []string {
	return []string{r.Name, r.Email, r.Phone, r.Subject}
}

func (r ContactRow) SortValue(column string) (string, bool) {
	switch strings.ToLower(column) {
	case "name", "patient":
		return r.Name, true
	case "email":
		return r.Email, true
	case "phone":
		return r.Phone, true
	case "subject":
		return r.Subject, true
	case "date":
		return r.Date, true
	case "time":
		return r.Time, true
	case "status":
		return r.Status, true
	}
	return "", false
}
