package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/services"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func appointmentPage(items ...models.Appointment) models.Envelope[clinicapi.List[models.Appointment]] {
	return models.Envelope[clinicapi.List[models.Appointment]]{
		Success: true,
		Data: clinicapi.List[models.Appointment]{
			Items:      items,
			Pagination: models.Pagination{Page: 1, Limit: 20, Total: len(items), TotalPages: 1},
		},
	}
}

func newAppointmentService(t *testing.T, api *MockAppointmentsAPI) *services.AppointmentService {
	t.Helper()
	svc := services.NewAppointmentService(context.Background(), api, listview.Options{PageSize: 20})
	t.Cleanup(svc.Close)
	return svc
}

func waitList(t *testing.T, lv interface{ Wait(context.Context) error }) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, lv.Wait(ctx))
}

func TestAppointmentService_ListMapsRows(t *testing.T) {
	api := new(MockAppointmentsAPI)
	api.On("List", mock.Anything, clinicapi.ListParams{Page: 1, Limit: 20}).Return(appointmentPage(
		models.Appointment{ID: "1", PatientName: "Riya Patil", AppointmentDate: "2024-05-01", AppointmentTime: "14:30:00", Status: models.AppointmentPending},
	), nil).Once()
	svc := newAppointmentService(t, api)

	svc.List().Refresh()
	waitList(t, svc.List())

	v := svc.List().View()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Riya Patil", v.Rows[0].Patient)
	assert.Equal(t, "01/05/2024", v.Rows[0].Date)
	assert.Equal(t, "02:30 PM", v.Rows[0].Time)
	assert.Equal(t, 1, v.TotalCount)
	api.AssertExpectations(t)
}

func TestAppointmentService_ListRejectedEnvelope(t *testing.T) {
	api := new(MockAppointmentsAPI)
	api.On("List", mock.Anything, mock.Anything).Return(models.Envelope[clinicapi.List[models.Appointment]]{Success: false, Message: "Invalid filter"}, nil)
	svc := newAppointmentService(t, api)

	svc.List().Refresh()
	err := svc.List().Wait(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Invalid filter", services.UserMessage(err, ""))
}

func TestAppointmentService_DeleteRefetches(t *testing.T) {
	api := new(MockAppointmentsAPI)
	api.On("List", mock.Anything, mock.Anything).Return(appointmentPage(models.Appointment{ID: "42"}), nil).Once()
	api.On("List", mock.Anything, mock.Anything).Return(appointmentPage(), nil).Once()
	api.On("Delete", mock.Anything, "42").Return(okEnvelope, nil).Once()
	svc := newAppointmentService(t, api)

	svc.List().Refresh()
	waitList(t, svc.List())

	require.NoError(t, svc.Delete(context.Background(), "42"))
	waitList(t, svc.List())

	assert.Empty(t, svc.List().View().Rows)
	api.AssertNumberOfCalls(t, "List", 2)
	api.AssertExpectations(t)
}

func TestAppointmentService_UpdateStatusFailureDoesNotRefetch(t *testing.T) {
	api := new(MockAppointmentsAPI)
	req := models.UpdateAppointmentRequest{Status: models.AppointmentConfirmed}
	api.On("UpdateStatus", mock.Anything, "7", req).Return(models.Envelope[struct{}]{}, apperrors.NewServerError(409, "Slot already taken", nil)).Once()
	svc := newAppointmentService(t, api)

	err := svc.UpdateStatus(context.Background(), "7", req)
	require.Error(t, err)
	assert.Equal(t, "Slot already taken", services.UserMessage(err, ""))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	api.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAppointmentService_BulkDelete(t *testing.T) {
	rows := []models.Appointment{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	t.Run("all succeed", func(t *testing.T) {
		api := new(MockAppointmentsAPI)
		api.On("List", mock.Anything, mock.Anything).Return(appointmentPage(rows...), nil).Once()
		api.On("List", mock.Anything, mock.Anything).Return(appointmentPage(), nil).Once()
		api.On("Delete", mock.Anything, mock.Anything).Return(okEnvelope, nil)
		svc := newAppointmentService(t, api)

		svc.List().Refresh()
		waitList(t, svc.List())
		svc.List().ToggleSelectAll()

		summary, err := svc.BulkDelete(context.Background())
		require.NoError(t, err)
		waitList(t, svc.List())

		assert.True(t, summary.OK())
		assert.Equal(t, "3 appointments deleted successfully", summary.Message)
		api.AssertNumberOfCalls(t, "Delete", 3)
		api.AssertNumberOfCalls(t, "List", 2)
		assert.Empty(t, svc.List().Selected())
	})

	t.Run("partial failure keeps selection", func(t *testing.T) {
		api := new(MockAppointmentsAPI)
		api.On("List", mock.Anything, mock.Anything).Return(appointmentPage(rows...), nil)
		api.On("Delete", mock.Anything, "2").Return(models.Envelope[struct{}]{}, apperrors.NewNetworkError(errors.New("reset"))).Once()
		api.On("Delete", mock.Anything, mock.Anything).Return(okEnvelope, nil)
		svc := newAppointmentService(t, api)

		svc.List().Refresh()
		waitList(t, svc.List())
		svc.List().ToggleSelectAll()

		summary, err := svc.BulkDelete(context.Background())
		require.NoError(t, err)
		waitList(t, svc.List())

		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, "Failed to delete 1 appointment", summary.Message)
		api.AssertNumberOfCalls(t, "Delete", 3)
		api.AssertNumberOfCalls(t, "List", 2)
		assert.Equal(t, []string{"1", "2", "3"}, svc.List().Selected())
	})
}

func TestAppointmentService_BulkUpdateStatusValidates(t *testing.T) {
	api := new(MockAppointmentsAPI)
	svc := newAppointmentService(t, api)

	_, err := svc.BulkUpdateStatus(context.Background(), "archived")
	require.Error(t, err)
	assert.Equal(t, "Invalid appointment status", services.UserMessage(err, ""))
}
