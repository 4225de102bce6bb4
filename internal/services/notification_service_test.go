package services_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/services"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func notificationList(items ...models.Notification) models.Envelope[clinicapi.List[models.Notification]] {
	return models.Envelope[clinicapi.List[models.Notification]]{
		Success: true,
		Data:    clinicapi.List[models.Notification]{Items: items},
	}
}

func unseen(n int) models.Envelope[models.NotificationCount] {
	return models.Envelope[models.NotificationCount]{Success: true, Data: models.NotificationCount{Count: n}}
}

func TestNotificationService_RefreshPublishesSnapshot(t *testing.T) {
	api := new(MockNotificationsAPI)
	api.On("List", mock.Anything, 10).Return(notificationList(
		models.Notification{ID: "1", Title: "New appointment", CreatedAt: time.Now().UTC().Add(-5 * time.Minute).Format(time.RFC3339)},
	), nil).Once()
	api.On("UnseenCount", mock.Anything).Return(unseen(4), nil).Once()

	svc := services.NewNotificationService(api, loggedIn(t), 0, time.Minute)
	updates, unsubscribe := svc.Subscribe()
	defer unsubscribe()

	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, snap.UnseenCount)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "5 minutes ago", snap.Items[0].When)

	select {
	case got := <-updates:
		assert.Equal(t, snap, got)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive snapshot")
	}

	latest, found := svc.Latest()
	assert.True(t, found)
	assert.Equal(t, snap, latest)
	api.AssertExpectations(t)
}

func TestNotificationService_ServesStaleSnapshotWhileBreakerOpen(t *testing.T) {
	api := new(MockNotificationsAPI)
	down := apperrors.NewNetworkError(errors.New("connection refused"))

	api.On("List", mock.Anything, 10).Return(notificationList(models.Notification{ID: "1"}), nil).Once()
	api.On("UnseenCount", mock.Anything).Return(unseen(1), nil).Once()
	api.On("List", mock.Anything, 10).Return(models.Envelope[clinicapi.List[models.Notification]]{}, down)
	api.On("UnseenCount", mock.Anything).Return(models.Envelope[models.NotificationCount]{}, down)

	svc := services.NewNotificationService(api, loggedIn(t), 10, time.Minute)
	ctx := context.Background()

	first, err := svc.Refresh(ctx)
	require.NoError(t, err)

	// One success and two failures trip the breaker.
	for i := 0; i < 2; i++ {
		_, err := svc.Refresh(ctx)
		require.Error(t, err)
	}

	snap, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Stale)
	assert.Equal(t, first.Items, snap.Items)
}

func TestNotificationService_ClientErrorsDoNotTripBreaker(t *testing.T) {
	api := new(MockNotificationsAPI)
	api.On("List", mock.Anything, 10).Return(models.Envelope[clinicapi.List[models.Notification]]{}, apperrors.NewServerError(400, "bad", nil))
	api.On("UnseenCount", mock.Anything).Return(unseen(0), nil)

	svc := services.NewNotificationService(api, loggedIn(t), 10, time.Minute)
	for i := 0; i < 5; i++ {
		_, err := svc.Refresh(context.Background())
		require.Error(t, err)
		assert.Equal(t, "bad", services.UserMessage(err, ""))
	}
}

func TestNotificationService_PollsOnInterval(t *testing.T) {
	var polls atomic.Int32
	api := new(MockNotificationsAPI)
	api.On("List", mock.Anything, 10).Return(notificationList(), nil)
	api.On("UnseenCount", mock.Anything).Run(func(mock.Arguments) { polls.Add(1) }).Return(unseen(0), nil)

	svc := services.NewNotificationService(api, loggedIn(t), 10, 20*time.Millisecond)
	svc.Start(context.Background())

	require.Eventually(t, func() bool { return polls.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)
	svc.Stop()

	after := polls.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, after, polls.Load())
}

func TestNotificationService_SkipsPollsWithoutSession(t *testing.T) {
	api := new(MockNotificationsAPI)

	svc := services.NewNotificationService(api, newSession(t), 10, 10*time.Millisecond)
	svc.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	svc.Stop()

	api.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "UnseenCount", mock.Anything)
}

func TestNotificationService_MarkAllSeenRefreshes(t *testing.T) {
	api := new(MockNotificationsAPI)
	api.On("MarkAllSeen", mock.Anything).Return(okEnvelope, nil).Once()
	api.On("List", mock.Anything, 10).Return(notificationList(models.Notification{ID: "1", IsSeen: true}), nil).Once()
	api.On("UnseenCount", mock.Anything).Return(unseen(0), nil).Once()

	svc := services.NewNotificationService(api, loggedIn(t), 10, time.Minute)
	require.NoError(t, svc.MarkAllSeen(context.Background()))

	latest, found := svc.Latest()
	require.True(t, found)
	assert.Zero(t, latest.UnseenCount)
	assert.True(t, latest.Items[0].Seen)
	api.AssertExpectations(t)
}
