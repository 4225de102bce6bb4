package services

import (
	"context"

	"github.com/nirmalhealthcare/clinic-console/internal/bulk"
	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"go.uber.org/zap"
)

type AppointmentService struct {
	resourceScreen[models.AppointmentRow]
	api AppointmentsAPI
}

func NewAppointmentService(ctx context.Context, api AppointmentsAPI, opts listview.Options) *AppointmentService {
	opts.Resource = "appointments"
	fetch := pageFetcher(api.List, models.Appointment.ToRow, "Failed to fetch appointments")

	return &AppointmentService{
		resourceScreen: resourceScreen[models.AppointmentRow]{
			list: listview.New(ctx, fetch, opts),
			bulk: bulk.New("appointments", "appointment", "appointments"),
		},
		api: api,
	}
}

func (s *AppointmentService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	env, err := s.api.Get(ctx, id)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to fetch appointment"); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, req models.UpdateAppointmentRequest) error {
	env, err := s.api.UpdateStatus(ctx, id, req)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to update appointment"); err != nil {
		return err
	}
	logger.Info("Appointment status updated",
		zap.String("appointment_id", id),
		zap.String("status", string(req.Status)))
	s.afterWrite()
	return nil
}

// Delete removes one appointment (or cancels it when the backend cannot
// delete) and refetches the page.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	env, err := s.api.Delete(ctx, id)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to delete appointment"); err != nil {
		return err
	}
	s.afterWrite()
	return nil
}

func (s *AppointmentService) BulkDelete(ctx context.Context) (bulk.Summary, error) {
	return s.runBulk(ctx, bulk.Action{
		Name: "delete",
		Verb: "deleted",
		Do: func(ctx context.Context, id string) error {
			env, err := s.api.Delete(ctx, id)
			return envelopeErr(env.Success, env.Message, err, "Failed to delete appointment")
		},
	})
}

func (s *AppointmentService) BulkUpdateStatus(ctx context.Context, status models.AppointmentStatus) (bulk.Summary, error) {
	if !status.IsValid() {
		return bulk.Summary{}, &ActionError{Message: "Invalid appointment status"}
	}
	return s.runBulk(ctx, bulk.Action{
		Name: "update",
		Verb: "marked " + string(status),
		Do: func(ctx context.Context, id string) error {
			env, err := s.api.UpdateStatus(ctx, id, models.UpdateAppointmentRequest{Status: status})
			return envelopeErr(env.Success, env.Message, err, "Failed to update appointment")
		},
	})
}
