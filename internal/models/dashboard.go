package models

// DashboardSummary is the jointly fetched dashboard content.
type DashboardSummary struct {
	Stats               AppointmentStats `json:"stats"`
	TodayAppointments   []AppointmentRow `json:"todayAppointments"`
	UnreadContacts      int              `json:"unreadContacts"`
	UnseenNotifications int              `json:"unseenNotifications"`
}
