package services

import (
	"context"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	appointments  AppointmentsAPI
	contacts      ContactsAPI
	notifications NotificationsAPI
}

func NewDashboardService(appointments AppointmentsAPI, contacts ContactsAPI, notifications NotificationsAPI) *DashboardService {
	return &DashboardService{
		appointments:  appointments,
		contacts:      contacts,
		notifications: notifications,
	}
}

// Summary fetches stats, today's appointments and the two badge counts
// concurrently and waits for all of them.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	var (
		summary models.DashboardSummary
		g       errgroup.Group
	)

	g.Go(func() error {
		env, err := s.appointments.Stats(ctx)
		if err := envelopeErr(env.Success, env.Message, err, "Failed to fetch appointment stats"); err != nil {
			return err
		}
		summary.Stats = env.Data
		return nil
	})

	g.Go(func() error {
		env, err := s.appointments.Today(ctx)
		if err := envelopeErr(env.Success, env.Message, err, "Failed to fetch today's appointments"); err != nil {
			return err
		}
		rows := make([]models.AppointmentRow, 0, len(env.Data.Items))
		for _, a := range env.Data.Items {
			rows = append(rows, a.ToRow())
		}
		summary.TodayAppointments = rows
		return nil
	})

	g.Go(func() error {
		env, err := s.contacts.UnreadCount(ctx)
		if err := envelopeErr(env.Success, env.Message, err, "Failed to fetch unread messages"); err != nil {
			return err
		}
		summary.UnreadContacts = env.Data.Count
		return nil
	})

	g.Go(func() error {
		env, err := s.notifications.UnseenCount(ctx)
		if err := envelopeErr(env.Success, env.Message, err, "Failed to fetch notifications"); err != nil {
			return err
		}
		summary.UnseenNotifications = env.Data.Count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &summary, nil
}
