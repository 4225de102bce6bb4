package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/services"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Summary(t *testing.T) {
	appointments := new(MockAppointmentsAPI)
	contacts := new(MockContactsAPI)
	notifications := new(MockNotificationsAPI)

	appointments.On("Stats", mock.Anything).Return(models.Envelope[models.AppointmentStats]{
		Success: true, Data: models.AppointmentStats{Total: 40, Today: 2, Pending: 5},
	}, nil).Once()
	appointments.On("Today", mock.Anything).Return(models.Envelope[clinicapi.List[models.Appointment]]{
		Success: true,
		Data: clinicapi.List[models.Appointment]{Items: []models.Appointment{
			{ID: "1", PatientName: "Riya Patil", AppointmentTime: "09:00"},
			{ID: "2", PatientName: "Rajesh Patil", AppointmentTime: "11:15"},
		}},
	}, nil).Once()
	contacts.On("UnreadCount", mock.Anything).Return(models.Envelope[models.UnreadCount]{Success: true, Data: models.UnreadCount{Count: 3}}, nil).Once()
	notifications.On("UnseenCount", mock.Anything).Return(models.Envelope[models.NotificationCount]{Success: true, Data: models.NotificationCount{Count: 7}}, nil).Once()

	svc := services.NewDashboardService(appointments, contacts, notifications)
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 40, summary.Stats.Total)
	require.Len(t, summary.TodayAppointments, 2)
	assert.Equal(t, "09:00 AM", summary.TodayAppointments[0].Time)
	assert.Equal(t, 3, summary.UnreadContacts)
	assert.Equal(t, 7, summary.UnseenNotifications)

	appointments.AssertExpectations(t)
	contacts.AssertExpectations(t)
	notifications.AssertExpectations(t)
}

func TestDashboardService_SummaryWaitsForAllAndFails(t *testing.T) {
	appointments := new(MockAppointmentsAPI)
	contacts := new(MockContactsAPI)
	notifications := new(MockNotificationsAPI)

	appointments.On("Stats", mock.Anything).Return(models.Envelope[models.AppointmentStats]{}, apperrors.NewNetworkError(errors.New("timeout"))).Once()
	appointments.On("Today", mock.Anything).Return(models.Envelope[clinicapi.List[models.Appointment]]{Success: true}, nil).Once()
	contacts.On("UnreadCount", mock.Anything).Return(models.Envelope[models.UnreadCount]{Success: true}, nil).Once()
	notifications.On("UnseenCount", mock.Anything).Return(models.Envelope[models.NotificationCount]{Success: true}, nil).Once()

	_, err := services.NewDashboardService(appointments, contacts, notifications).Summary(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.NetworkErrorMessage, services.UserMessage(err, ""))

	appointments.AssertExpectations(t)
	contacts.AssertExpectations(t)
	notifications.AssertExpectations(t)
}
