package services

import (
	"context"

	"github.com/nirmalhealthcare/clinic-console/internal/bulk"
	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
)

// AdminAPI is the backend surface used by AuthService.
type AdminAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (models.Envelope[models.LoginData], error)
	Logout(ctx context.Context) (models.Envelope[struct{}], error)
	GetProfile(ctx context.Context) (models.Envelope[models.ProfileData], error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (models.Envelope[models.ProfileData], error)
	VerifyToken(ctx context.Context) (models.Envelope[models.TokenStatus], error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (models.Envelope[struct{}], error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (models.Envelope[struct{}], error)
}

// AppointmentsAPI is the backend surface used by AppointmentService.
type AppointmentsAPI interface {
	List(ctx context.Context, params clinicapi.ListParams) (models.Envelope[clinicapi.List[models.Appointment]], error)
	Stats(ctx context.Context) (models.Envelope[models.AppointmentStats], error)
	Today(ctx context.Context) (models.Envelope[clinicapi.List[models.Appointment]], error)
	Get(ctx context.Context, id string) (models.Envelope[models.Appointment], error)
	UpdateStatus(ctx context.Context, id string, req models.UpdateAppointmentRequest) (models.Envelope[struct{}], error)
	Delete(ctx context.Context, id string) (models.Envelope[struct{}], error)
}

// ContactsAPI is the backend surface used by ContactService.
type ContactsAPI interface {
	List(ctx context.Context, params clinicapi.ListParams) (models.Envelope[clinicapi.List[models.Contact]], error)
	Get(ctx context.Context, id string) (models.Envelope[models.Contact], error)
	UpdateStatus(ctx context.Context, id string, req models.UpdateContactRequest) (models.Envelope[struct{}], error)
	Delete(ctx context.Context, id string) (models.Envelope[struct{}], error)
	MarkAsRead(ctx context.Context, id string) (models.Envelope[struct{}], error)
	UnreadCount(ctx context.Context) (models.Envelope[models.UnreadCount], error)
}

// TestimonialsAPI is the backend surface used by TestimonialService.
type TestimonialsAPI interface {
	List(ctx context.Context, params clinicapi.ListParams) (models.Envelope[clinicapi.List[models.Testimonial]], error)
	Create(ctx context.Context, req models.CreateTestimonialRequest, photo *clinicapi.Photo) (models.Envelope[models.Testimonial], error)
	UpdateStatus(ctx context.Context, id string, req models.UpdateTestimonialRequest) (models.Envelope[struct{}], error)
	Delete(ctx context.Context, id string) (models.Envelope[struct{}], error)
}

// NotificationsAPI is the backend surface used by NotificationService.
type NotificationsAPI interface {
	List(ctx context.Context, limit int) (models.Envelope[clinicapi.List[models.Notification]], error)
	UnseenCount(ctx context.Context) (models.Envelope[models.NotificationCount], error)
	MarkSeen(ctx context.Context, id string) (models.Envelope[struct{}], error)
	MarkAllSeen(ctx context.Context) (models.Envelope[struct{}], error)
}

var (
	_ AdminAPI         = (*clinicapi.AdminClient)(nil)
	_ AppointmentsAPI  = (*clinicapi.AppointmentsClient)(nil)
	_ ContactsAPI      = (*clinicapi.ContactsClient)(nil)
	_ TestimonialsAPI  = (*clinicapi.TestimonialsClient)(nil)
	_ NotificationsAPI = (*clinicapi.NotificationsClient)(nil)
)

// AuthServiceInterface defines login, logout and profile operations
type AuthServiceInterface interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AdminProfile, error)
	Logout(ctx context.Context)
	Restore(ctx context.Context) (bool, error)
	Profile(ctx context.Context) (*models.AdminProfile, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.AdminProfile, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (string, error)
}

// DashboardServiceInterface defines the dashboard summary
type DashboardServiceInterface interface {
	Summary(ctx context.Context) (*models.DashboardSummary, error)
}

// AppointmentServiceInterface defines the appointments screen
type AppointmentServiceInterface interface {
	List() *listview.Controller[models.AppointmentRow]
	Get(ctx context.Context, id string) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, req models.UpdateAppointmentRequest) error
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context) (bulk.Summary, error)
	BulkUpdateStatus(ctx context.Context, status models.AppointmentStatus) (bulk.Summary, error)
	Close()
}

// ContactServiceInterface defines the contact messages screen
type ContactServiceInterface interface {
	List() *listview.Controller[models.ContactRow]
	Get(ctx context.Context, id string) (*models.Contact, error)
	UpdateStatus(ctx context.Context, id string, req models.UpdateContactRequest) error
	MarkAsRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	UnreadCount(ctx context.Context) (int, error)
	BulkDelete(ctx context.Context) (bulk.Summary, error)
	BulkMarkAsRead(ctx context.Context) (bulk.Summary, error)
	Close()
}

// TestimonialServiceInterface defines the testimonials screen
type TestimonialServiceInterface interface {
	List() *listview.Controller[models.TestimonialRow]
	Create(ctx context.Context, req models.CreateTestimonialRequest, photo *clinicapi.Photo) (*models.Testimonial, error)
	UpdateStatus(ctx context.Context, id string, req models.UpdateTestimonialRequest) error
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context) (bulk.Summary, error)
	BulkUpdateStatus(ctx context.Context, status string) (bulk.Summary, error)
	Close()
}

// NotificationServiceInterface defines the notifications poller
type NotificationServiceInterface interface {
	Start(ctx context.Context)
	Stop()
	Refresh(ctx context.Context) (models.NotificationSnapshot, error)
	Latest() (models.NotificationSnapshot, bool)
	Subscribe() (<-chan models.NotificationSnapshot, func())
	MarkSeen(ctx context.Context, id string) error
	MarkAllSeen(ctx context.Context) error
}

var (
	_ AuthServiceInterface         = (*AuthService)(nil)
	_ DashboardServiceInterface    = (*DashboardService)(nil)
	_ AppointmentServiceInterface  = (*AppointmentService)(nil)
	_ ContactServiceInterface      = (*ContactService)(nil)
	_ TestimonialServiceInterface  = (*TestimonialService)(nil)
	_ NotificationServiceInterface = (*NotificationService)(nil)
)
