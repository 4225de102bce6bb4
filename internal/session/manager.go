package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/nirmalhealthcare/clinic-console/pkg/metrics"
	"go.uber.org/zap"
)

// Persisted key names.
const (
	TokenKey   = "adminToken"
	ProfileKey = "adminData"
)

// Invalidation reasons.
const (
	ReasonUnauthorized = "unauthorized"
	ReasonLogout       = "logout"
	ReasonTokenInvalid = "token_invalid"
)

// Event is published when a session is invalidated.
type Event struct {
	Reason string
	At     time.Time
}

// Manager owns the token and admin profile of one operator. It is the only
// writer of the two session keys and the single subscription point for
// invalidation events.
type Manager struct {
	store     Store
	namespace string

	mu     sync.RWMutex
	subs   map[int]func(Event)
	nextID int
}

// NewManager creates a manager over store. Keys are prefixed with namespace
// when it is non-empty, so one store can hold many workspaces.
func NewManager(store Store, namespace string) *Manager {
	return &Manager{
		store:     store,
		namespace: namespace,
		subs:      make(map[int]func(Event)),
	}
}

func (m *Manager) key(name string) string {
	if m.namespace == "" {
		return name
	}
	return m.namespace + ":" + name
}

// SetSession persists both the token and the profile.
func (m *Manager) SetSession(ctx context.Context, token string, profile *models.AdminProfile) error {
	if err := m.store.Set(ctx, m.key(TokenKey), token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return m.SetProfile(ctx, profile)
}

// SetProfile replaces the stored profile.
func (m *Manager) SetProfile(ctx context.Context, profile *models.AdminProfile) error {
	if profile == nil {
		return m.store.Delete(ctx, m.key(ProfileKey))
	}
	b, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := m.store.Set(ctx, m.key(ProfileKey), string(b)); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	return nil
}

// Token returns the stored token, or "" when absent or unreadable.
func (m *Manager) Token(ctx context.Context) string {
	token, found, err := m.store.Get(ctx, m.key(TokenKey))
	if err != nil {
		logger.LogError(ctx, err, "Failed to read session token")
		return ""
	}
	if !found {
		return ""
	}
	return token
}

// Profile returns the stored profile, or nil when absent or unreadable.
func (m *Manager) Profile(ctx context.Context) *models.AdminProfile {
	raw, found, err := m.store.Get(ctx, m.key(ProfileKey))
	if err != nil {
		logger.LogError(ctx, err, "Failed to read admin profile")
		return nil
	}
	if !found || raw == "" {
		return nil
	}
	var profile models.AdminProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		logger.Warn("Discarding unreadable admin profile", zap.Error(err))
		return nil
	}
	return &profile
}

// IsAuthenticated reports whether a token is present. No expiry is tracked.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.Token(ctx) != ""
}

// Clear removes both keys without publishing an event.
func (m *Manager) Clear(ctx context.Context) error {
	return m.store.Delete(ctx, m.key(TokenKey), m.key(ProfileKey))
}

// Invalidate clears the session and notifies subscribers.
func (m *Manager) Invalidate(ctx context.Context, reason string) {
	if err := m.Clear(ctx); err != nil {
		logger.LogError(ctx, err, "Failed to clear session", zap.String("reason", reason))
	}
	metrics.SessionInvalidations.WithLabelValues(reason).Inc()

	m.mu.RLock()
	subs := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.RUnlock()

	event := Event{Reason: reason, At: time.Now()}
	for _, fn := range subs {
		fn(event)
	}
}

// Subscribe registers fn for invalidation events and returns a function that
// removes it.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}
