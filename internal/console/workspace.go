// Package console assembles per-operator workspaces: a session, a navigator
// and one service per screen, all talking to the backend through a gateway
// bound to that session.
package console

import (
	"context"
	"time"

	"github.com/nirmalhealthcare/clinic-console/config"
	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/services"
	"github.com/nirmalhealthcare/clinic-console/internal/session"
	"github.com/nirmalhealthcare/clinic-console/internal/shell"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
	"github.com/nirmalhealthcare/clinic-console/pkg/httpclient"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"go.uber.org/zap"
)

// Factory builds workspaces that share a session store and HTTP client.
type Factory struct {
	Store      session.Store
	KeyPrefix  string
	BaseURL    string
	HTTPClient httpclient.Client

	PageSize             int
	SearchDebounce       time.Duration
	NotificationLimit    int
	NotificationInterval time.Duration
	// PollNotifications starts the notification poller with each workspace.
	PollNotifications    bool
}

// NewFactory derives a factory from configuration.
func NewFactory(cfg *config.Config, store session.Store, client httpclient.Client) Factory {
	return Factory{
		Store:                store,
		KeyPrefix:            cfg.Session.KeyPrefix,
		BaseURL:              cfg.Backend.BaseURL,
		HTTPClient:           client,
		PageSize:             cfg.Console.PageSize,
		SearchDebounce:       cfg.SearchDebounce(),
		NotificationLimit:    cfg.Console.NotificationLimit,
		NotificationInterval: cfg.NotificationPollInterval(),
		PollNotifications:    true,
	}
}

// Workspace is everything one operator's browser session needs.
type Workspace struct {
	ID        string
	Session   *session.Manager
	Navigator *shell.Navigator
	Gateway   *clinicapi.Gateway

	Auth          *services.AuthService
	Dashboard     *services.DashboardService
	Appointments  *services.AppointmentService
	Contacts      *services.ContactService
	Testimonials  *services.TestimonialService
	Notifications *services.NotificationService

	cancel context.CancelFunc
	unbind func()
}

// New builds a workspace and, when enabled, starts its notification poller.
func (f Factory) New(ctx context.Context, id string) *Workspace {
	ctx, cancel := context.WithCancel(ctx)

	namespace := id
	if f.KeyPrefix != "" {
		namespace = f.KeyPrefix + ":" + id
	}
	sess := session.NewManager(f.Store, namespace)
	nav := shell.NewNavigator()
	if sess.IsAuthenticated(ctx) {
		nav.Navigate(shell.RouteDashboard)
	}

	gw := clinicapi.NewGateway(f.BaseURL, f.HTTPClient, sess)
	adminAPI := clinicapi.NewAdminClient(gw)
	appointmentsAPI := clinicapi.NewAppointmentsClient(gw)
	contactsAPI := clinicapi.NewContactsClient(gw)
	testimonialsAPI := clinicapi.NewTestimonialsClient(gw)
	notificationsAPI := clinicapi.NewNotificationsClient(gw)

	listOpts := listview.Options{PageSize: f.PageSize, Debounce: f.SearchDebounce}

	ws := &Workspace{
		ID:            id,
		Session:       sess,
		Navigator:     nav,
		Gateway:       gw,
		Auth:          services.NewAuthService(adminAPI, sess, nav),
		Dashboard:     services.NewDashboardService(appointmentsAPI, contactsAPI, notificationsAPI),
		Appointments:  services.NewAppointmentService(ctx, appointmentsAPI, listOpts),
		Contacts:      services.NewContactService(ctx, contactsAPI, listOpts),
		Testimonials:  services.NewTestimonialService(ctx, testimonialsAPI, listOpts),
		Notifications: services.NewNotificationService(notificationsAPI, sess, f.NotificationLimit, f.NotificationInterval),
		cancel:        cancel,
	}
	ws.unbind = nav.Bind(sess)
	if f.PollNotifications {
		ws.Notifications.Start(ctx)
	}

	logger.Debug("Workspace created", zap.String("workspace_id", id))
	return ws
}

// Close stops the poller and list views. The persisted session is kept.
func (w *Workspace) Close() {
	w.unbind()
	w.Notifications.Stop()
	w.Appointments.Close()
	w.Contacts.Close()
	w.Testimonials.Close()
	w.cancel()
	logger.Debug("Workspace closed", zap.String("workspace_id", w.ID))
}
