// Package shell tracks where an operator is in the console and moves them to
// the login screen when their session is invalidated.
package shell

import (
	"strings"
	"sync"

	"github.com/nirmalhealthcare/clinic-console/internal/session"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"go.uber.org/zap"
)

// Console routes.
const (
	RouteRoot           = "/"
	RouteLogin          = "/login"
	RouteForgotPassword = "/forgot-password"
	RouteResetLinkSent  = "/reset-link-sent"
	RouteResetPassword  = "/reset-password"
	RouteResetSuccess   = "/password-reset-success"
	RouteDashboard      = "/dashboard"
	RouteAppointments   = "/appointments"
	RouteContacts       = "/contact-message"
	RouteTestimonials   = "/testimonial"
)

var publicRoutes = map[string]bool{
	RouteRoot:           true,
	RouteLogin:          true,
	RouteForgotPassword: true,
	RouteResetLinkSent:  true,
	RouteResetPassword:  true,
	RouteResetSuccess:   true,
}

// IsPublic reports whether path is reachable without a session.
func IsPublic(path string) bool {
	return publicRoutes[normalize(path)]
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return RouteRoot
	}
	return path
}

// Navigator holds the current location of one workspace.
type Navigator struct {
	mu        sync.Mutex
	location  string
	redirects int
}

// NewNavigator starts at the root route.
func NewNavigator() *Navigator {
	return &Navigator{location: RouteRoot}
}

// Location returns the current path.
func (n *Navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

// Navigate moves to path.
func (n *Navigator) Navigate(path string) {
	n.mu.Lock()
	n.location = normalize(path)
	n.mu.Unlock()
}

// Redirects returns how many forced redirects to login have happened.
func (n *Navigator) Redirects() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.redirects
}

// HandleSessionInvalidated moves to the login screen unless already on the
// login screen or the root. It reports whether a redirect happened.
func (n *Navigator) HandleSessionInvalidated(e session.Event) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.location == RouteLogin || n.location == RouteRoot {
		return false
	}

	logger.Info("Session invalidated, redirecting to login",
		zap.String("from", n.location),
		zap.String("reason", e.Reason))

	n.location = RouteLogin
	n.redirects++
	return true
}

// Bind subscribes the navigator to m and returns the unsubscribe function.
func (n *Navigator) Bind(m *session.Manager) func() {
	return m.Subscribe(func(e session.Event) {
		n.HandleSessionInvalidated(e)
	})
}
