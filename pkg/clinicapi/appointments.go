package clinicapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"go.uber.org/zap"
)

const appointmentsPath = "/api/appointments/admin"

// AppointmentsClient manages appointment records.
type AppointmentsClient struct {
	gw Requester
}

func NewAppointmentsClient(gw Requester) *AppointmentsClient {
	return &AppointmentsClient{gw: gw}
}

func (c *AppointmentsClient) List(ctx context.Context, params ListParams) (models.Envelope[List[models.Appointment]], error) {
	env, err := c.gw.Request(ctx, http.MethodGet, appointmentsPath, RequestOptions{Operation: "appointments.list", Query: params.Values()})
	if err != nil {
		return models.Envelope[List[models.Appointment]]{}, err
	}
	return decodeList[models.Appointment](env, "appointments")
}

func (c *AppointmentsClient) Stats(ctx context.Context) (models.Envelope[models.AppointmentStats], error) {
	env, err := c.gw.Request(ctx, http.MethodGet, appointmentsPath+"/stats", RequestOptions{Operation: "appointments.stats"})
	if err != nil {
		return models.Envelope[models.AppointmentStats]{}, err
	}
	return decodeData[models.AppointmentStats](env)
}

func (c *AppointmentsClient) Today(ctx context.Context) (models.Envelope[List[models.Appointment]], error) {
	env, err := c.gw.Request(ctx, http.MethodGet, appointmentsPath+"/today", RequestOptions{Operation: "appointments.today"})
	if err != nil {
		return models.Envelope[List[models.Appointment]]{}, err
	}
	return decodeList[models.Appointment](env, "appointments")
}

func (c *AppointmentsClient) Get(ctx context.Context, id string) (models.Envelope[models.Appointment], error) {
	env, err := c.gw.Request(ctx, http.MethodGet, appointmentsPath+"/"+url.PathEscape(id), RequestOptions{Operation: "appointments.get"})
	if err != nil {
		return models.Envelope[models.Appointment]{}, err
	}
	return decodeData[models.Appointment](env)
}

func (c *AppointmentsClient) UpdateStatus(ctx context.Context, id string, req models.UpdateAppointmentRequest) (models.Envelope[struct{}], error) {
	env, err := c.gw.Request(ctx, http.MethodPut, appointmentsPath+"/"+url.PathEscape(id), RequestOptions{Operation: "appointments.update", Body: req})
	if err != nil {
		return models.Envelope[struct{}]{}, err
	}
	return models.Envelope[struct{}]{Success: env.Success, Message: env.Message}, nil
}

// Delete removes an appointment. Backends without DELETE support answer 404
// or 405; the appointment is then cancelled instead.
func (c *AppointmentsClient) Delete(ctx context.Context, id string) (models.Envelope[struct{}], error) {
	env, err := c.gw.Request(ctx, http.MethodDelete, appointmentsPath+"/"+url.PathEscape(id), RequestOptions{Operation: "appointments.delete"})
	if err == nil {
		return models.Envelope[struct{}]{Success: env.Success, Message: env.Message}, nil
	}

	switch apperrors.StatusOf(err) {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		logger.Debug("Appointment delete unsupported, cancelling instead",
			zap.String("appointment_id", id),
			zap.Int("status", apperrors.StatusOf(err)))
		return c.UpdateStatus(ctx, id, models.UpdateAppointmentRequest{Status: models.AppointmentCancelled})
	default:
		return models.Envelope[struct{}]{}, err
	}
}
