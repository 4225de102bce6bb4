package models

import (
	"strings"

	"github.com/nirmalhealthcare/clinic-console/pkg/istime"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentTentative AppointmentStatus = "tentative"
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentConfirmed, AppointmentTentative, AppointmentPending, AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}

// Appointment is an appointment record as sent by the backend.
type Appointment struct {
	ID              ID                `json:"id"`
	PatientName     string            `json:"patient_name"`
	PatientEmail    string            `json:"patient_email"`
	PatientPhone    string            `json:"patient_phone"`
	DoctorName      string            `json:"doctor_name"`
	AppointmentDate string            `json:"appointment_date"`
	AppointmentTime string            `json:"appointment_time"`
	TreatmentType   string            `json:"treatment_type"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       string            `json:"created_at,omitempty"`
}

// UpdateAppointmentRequest is the body of an appointment status update.
type UpdateAppointmentRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=confirmed tentative pending cancelled completed"`
	Notes  string            `json:"notes,omitempty" binding:"max=2000"`
}

// AppointmentStats is the dashboard summary of appointments.
type AppointmentStats struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Tentative int `json:"tentative"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
}

// AppointmentRow is the display shape of an appointment.
type AppointmentRow struct {
	ID      string `json:"id"`
	Patient string `json:"patient"`
	Email   string `json:"email"`
	Doctor  string `json:"doctor"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Type    string `json:"type"`
	Phone   string `json:"phone"`
	Status  string `json:"status"`
	Notes   string `json:"notes,omitempty"`
}

// ToRow maps the backend record to its display row.
func (a Appointment) ToRow() AppointmentRow {
	return AppointmentRow{
		ID:      a.ID.String(),
		Patient: a.PatientName,
		Email:   a.PatientEmail,
		Doctor:  a.DoctorName,
		Date:    istime.FormatDate(a.AppointmentDate),
		Time:    istime.FormatClock(a.AppointmentTime),
		Type:    a.TreatmentType,
		Phone:   a.PatientPhone,
		Status:  string(a.Status),
		Notes:   a.Notes,
	}
}

func (r AppointmentRow) RowID() string { return r.ID }

func (r AppointmentRow) SearchFields() []string {
	return []string{r.Patient, r.Email, r.Doctor, r.Phone, r.Type}
}

func (r AppointmentRow) SortValue(column string) (string, bool) {
	switch strings.ToLower(column) {
	case "patient":
		return r.Patient, true
	case "email":
		return r.Email, true
	case "doctor":
		return r.Doctor, true
	case "date":
		return r.Date, true
	case "time":
		return r.Time, true
	case "type":
		return r.Type, true
	case "phone":
		return r.Phone, true
	case "status":
		return r.Status, true
	}
	return "", false
}
