package services_test

import (
	"context"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
	"github.com/stretchr/testify/mock"
)

// MockAdminAPI is a mock implementation of AdminAPI
type MockAdminAPI struct {
	mock.Mock
}

func (m *MockAdminAPI) Login(ctx context.Context, req models.LoginRequest) (models.Envelope[models.LoginData], error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Envelope[models.LoginData]), args.Error(1)
}

func (m *MockAdminAPI) Logout(ctx context.Context) (models.Envelope[struct{}], error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Envelope[struct{}]), args.Error(1)
}

func (m *MockAdminAPI) GetProfile(ctx context.Context) (models.Envelope[models.ProfileData], error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Envelope[models.ProfileData]), args.Error(1)
}

func (m *MockAdminAPI) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (models.Envelope[models.ProfileData], error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Envelope[models.ProfileData]), args.Error(1)
}

func (m *MockAdminAPI) VerifyToken(ctx context.Context) (models.Envelope[models.TokenStatus], error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Envelope[models.TokenStatus]), args.Error(1)
}

func (m *MockAdminAPI) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (models.Envelope[struct{}], error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Envelope[struct{}]), args.Error(1)
}

func (m *MockAdminAPI) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (models.Envelope[struct{}], error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Envelope[struct{}]), args.Error(1)
}

// MockAppointmentsAPI is a mock implementation of AppointmentsAPI
type MockAppointmentsAPI struct {
	mock.Mock
}

func (m *MockAppointmentsAPI) List(ctx context.Context, params clinicapi.ListParams) (models.Envelope[clinicapi.List[models.Appointment]], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(models.Envelope[clinicapi.List[models.Appointment]]), args.Error(1)
}

func (m *MockAppointmentsAPI) Stats(ctx context.Context) (models.Envelope[models.AppointmentStats], error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Envelope[models.AppointmentStats]), args.Error(1)
}

func (m *MockAppointmentsAPI) Today(ctx context.Context) (models.Envelope[clinicapi.List[models.Appointment]], error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Envelope[clinicapi.List[models.Appointment]]), args.Error(1)
}

func (m *MockAppointmentsAPI) Get(ctx context.Context, id string) (models.Envelope[models.Appointment], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Envelope[models.Appointment]), args.Error(1)
}

func (m *MockAppointmentsAPI) UpdateStatus(ctx context.Context, id string, req models.UpdateAppointmentRequest) (models.Envelope[struct{}], error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(models.Envelope[struct{}]), args.Error(1)
}

func (m *MockAppointmentsAPI) Delete(ctx context.Context, id string) (models.Envelope[struct{}], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Envelope[struct{}]), args.Error(1)
}

// MockContactsAPI is a mock implementation of ContactsAPI
type MockContactsAPI struct {
	mock.Mock
}

func (m *MockContactsAPI) List(ctx context.Context, params clinicapi.ListParams) (models.Envelope[clinicapi.List[models.Contact]], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(models.Envelope[clinicapi.List[models.Contact]]), args.Error(1)
}

func (m *MockContactsAPI) Get(ctx context.Context, id string) (models.Envelope[models.Contact], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Envelope[models.Contact]), args.Error(1)
}

func (m *MockContactsAPI) UpdateStatus(ctx context.Context, id string, req models.UpdateContactRequest) (models.Envelope[struct{}], error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(models.Envelope[struct{}]), args.Error(1)
}

func (m *MockContactsAPI) Delete(ctx context.Context, id string) (models.Envelope[struct{}], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Envelope[struct{}]), args.Error(1)
}

func (m *MockContactsAPI) MarkAsRead(ctx context.Context, id string) (models.Envelope[struct{}], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Envelope[struct{}]), args.Error(1)
}

func (m *MockContactsAPI) UnreadCount(ctx context.Context) (models.Envelope[models.UnreadCount], error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Envelope[models.UnreadCount]), args.Error(1)
}

// MockTestimonialsAPI is a mock implementation of TestimonialsAPI
type MockTestimonialsAPI struct {
	mock.Mock
}

func (m *MockTestimonialsAPI) List(ctx context.Context, params clinicapi.ListParams) (models.Envelope[clinicapi.List[models.Testimonial]], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(models.Envelope[clinicapi.List[models.Testimonial]]), args.Error(1)
}

func (m *MockTestimonialsAPI) Create(ctx context.Context, req models.CreateTestimonialRequest, photo *clinicapi.Photo) (models.Envelope[models.Testimonial], error) {
	args := m.Called(ctx, req, photo)
	return args.Get(0).(models.Envelope[models.Testimonial]), args.Error(1)
}

func (m *MockTestimonialsAPI) UpdateStatus(ctx context.Context, id string, req models.UpdateTestimonialRequest) (models.Envelope[struct{}], error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(models.Envelope[struct{}]), args.Error(1)
}

func (m *MockTestimonialsAPI) Delete(ctx context.Context, id string) (models.Envelope[struct{}], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Envelope[struct{}]), args.Error(1)
}

// MockNotificationsAPI is a mock implementation of NotificationsAPI
type MockNotificationsAPI struct {
	mock.Mock
}

func (m *MockNotificationsAPI) List(ctx context.Context, limit int) (models.Envelope[clinicapi.List[models.Notification]], error) {
	args := m.Called(ctx, limit)
	return args.Get(0).(models.Envelope[clinicapi.List[models.Notification]]), args.Error(1)
}

func (m *MockNotificationsAPI) UnseenCount(ctx context.Context) (models.Envelope[models.NotificationCount], error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Envelope[models.NotificationCount]), args.Error(1)
}

func (m *MockNotificationsAPI) MarkSeen(ctx context.Context, id string) (models.Envelope[struct{}], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Envelope[struct{}]), args.Error(1)
}

func (m *MockNotificationsAPI) MarkAllSeen(ctx context.Context) (models.Envelope[struct{}], error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Envelope[struct{}]), args.Error(1)
}
