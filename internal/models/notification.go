package models

import (
	"time"

	"github.com/nirmalhealthcare/clinic-console/pkg/istime"
)

// Notification is an admin notification (new appointment, new message, ...).
type Notification struct {
	ID          ID     `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	ReferenceID ID     `json:"reference_id,omitempty"`
	IsSeen      Flag   `json:"is_seen"`
	CreatedAt   string `json:"created_at"`
}

// NotificationCount is the data block of the unseen-count endpoint.
type NotificationCount struct {
	Count int `json:"count"`
}

// MarkSeenRequest marks one notification, or all of them, as seen.
type MarkSeenRequest struct {
	ID      string `json:"id,omitempty"`
	MarkAll bool   `json:"mark_all,omitempty"`
}

// NotificationView is a notification prepared for display.
type NotificationView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	ReferenceID string `json:"referenceId,omitempty"`
	Seen        bool   `json:"seen"`
	When        string `json:"when"`
}

// View renders n relative to now.
func (n Notification) View(now time.Time) NotificationView {
	return NotificationView{
		ID:          n.ID.String(),
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		ReferenceID: n.ReferenceID.String(),
		Seen:        bool(n.IsSeen),
		When:        istime.Relative(n.CreatedAt, now),
	}
}

// NotificationSnapshot is the latest jointly fetched list and unseen count.
type NotificationSnapshot struct {
	Items       []NotificationView `json:"items"`
	UnseenCount int                `json:"unseenCount"`
	FetchedAt   time.Time          `json:"fetchedAt"`
	Stale       bool               `json:"stale,omitempty"`
}
