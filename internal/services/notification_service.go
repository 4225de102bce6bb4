package services

import (
	"context"
	"sync"
	"time"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/session"
	"github.com/nirmalhealthcare/clinic-console/pkg/circuitbreaker"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/nirmalhealthcare/clinic-console/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Notification polling defaults.
const (
	DefaultNotificationLimit    = 10
	DefaultNotificationInterval = 30 * time.Second
)

// NotificationService polls the notification list and unseen count and
// pushes each snapshot to subscribers. Polls are issued on every tick even
// when the previous one is still outstanding.
type NotificationService struct {
	api      NotificationsAPI
	session  *session.Manager
	breaker  *gobreaker.CircuitBreaker
	limit    int
	interval time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	latest *models.NotificationSnapshot
	subs   map[int]chan models.NotificationSnapshot
	nextID int

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewNotificationService(api NotificationsAPI, sess *session.Manager, limit int, interval time.Duration) *NotificationService {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if interval <= 0 {
		interval = DefaultNotificationInterval
	}

	return &NotificationService{
		api:      api,
		session:  sess,
		breaker:  circuitbreaker.New(circuitbreaker.BackendConfig("notifications")),
		limit:    limit,
		interval: interval,
		now:      time.Now,
		subs:     make(map[int]chan models.NotificationSnapshot),
	}
}

// Start polls immediately and then on every interval until Stop or ctx ends.
func (s *NotificationService) Start(ctx context.Context) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.pollAsync(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.pollAsync(ctx)
			}
		}
	}()
}

// Stop ends polling and waits for outstanding polls.
func (s *NotificationService) Stop() {
	s.lifecycle.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.lifecycle.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
}

func (s *NotificationService) pollAsync(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if !s.session.IsAuthenticated(ctx) {
			metrics.NotificationPolls.WithLabelValues("skipped").Inc()
			return
		}
		if _, err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("Notification poll failed", zap.Error(err))
		}
	}()
}

// Refresh fetches the list and unseen count together. While the breaker is
// open the last snapshot is served, marked stale.
func (s *NotificationService) Refresh(ctx context.Context) (models.NotificationSnapshot, error) {
	snap, err := circuitbreaker.ExecuteWithFallback(s.breaker,
		func() (models.NotificationSnapshot, error) { return s.fetch(ctx) },
		s.staleSnapshot,
	)
	if err != nil {
		metrics.NotificationPolls.WithLabelValues("error").Inc()
		return models.NotificationSnapshot{}, err
	}

	if snap.Stale {
		metrics.NotificationPolls.WithLabelValues("stale").Inc()
		return snap, nil
	}
	metrics.NotificationPolls.WithLabelValues("success").Inc()
	s.publish(snap)
	return snap, nil
}

func (s *NotificationService) fetch(ctx context.Context) (models.NotificationSnapshot, error) {
	var (
		items []models.Notification
		count int
		g     errgroup.Group
	)

	g.Go(func() error {
		env, err := s.api.List(ctx, s.limit)
		if err := envelopeErr(env.Success, env.Message, err, "Failed to fetch notifications"); err != nil {
			return err
		}
		items = env.Data.Items
		return nil
	})
	g.Go(func() error {
		env, err := s.api.UnseenCount(ctx)
		if err := envelopeErr(env.Success, env.Message, err, "Failed to fetch notification count"); err != nil {
			return err
		}
		count = env.Data.Count
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.NotificationSnapshot{}, err
	}

	now := s.now()
	views := make([]models.NotificationView, 0, len(items))
	for _, n := range items {
		views = append(views, n.View(now))
	}
	return models.NotificationSnapshot{Items: views, UnseenCount: count, FetchedAt: now}, nil
}

func (s *NotificationService) staleSnapshot() (models.NotificationSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return models.NotificationSnapshot{}, &ActionError{Message: "Notifications are temporarily unavailable", Err: gobreaker.ErrOpenState}
	}
	snap := *s.latest
	snap.Stale = true
	return snap, nil
}

// Latest returns the last successful snapshot.
func (s *NotificationService) Latest() (models.NotificationSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return models.NotificationSnapshot{}, false
	}
	return *s.latest, true
}

// Subscribe returns a channel receiving every new snapshot. Slow readers only
// see the newest one.
func (s *NotificationService) Subscribe() (<-chan models.NotificationSnapshot, func()) {
	ch := make(chan models.NotificationSnapshot, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	if s.latest != nil {
		ch <- *s.latest
	}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *NotificationService) publish(snap models.NotificationSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = &snap
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (s *NotificationService) MarkSeen(ctx context.Context, id string) error {
	env, err := s.api.MarkSeen(ctx, id)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to mark notification as seen"); err != nil {
		return err
	}
	_, err = s.Refresh(ctx)
	return err
}

func (s *NotificationService) MarkAllSeen(ctx context.Context) error {
	env, err := s.api.MarkAllSeen(ctx)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to mark notifications as seen"); err != nil {
		return err
	}
	_, err = s.Refresh(ctx)
	return err
}
