package services_test

import (
	"context"
	"testing"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/session"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

var okEnvelope = models.Envelope[struct{}]{Success: true}

func newSession(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewManager(session.NewMemoryStore(0), "test")
}

func loggedIn(t *testing.T) *session.Manager {
	t.Helper()
	m := newSession(t)
	require.NoError(t, m.SetSession(context.Background(), "tok", &models.AdminProfile{ID: "1", Name: "Admin", Email: "admin@clinic.in"}))
	return m
}
