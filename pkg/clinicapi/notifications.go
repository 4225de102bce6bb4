package clinicapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
)

const notificationsPath = "/api/admin/notifications"

// NotificationsClient reads and acknowledges admin notifications.
type NotificationsClient struct {
	gw Requester
}

func NewNotificationsClient(gw Requester) *NotificationsClient {
	return &NotificationsClient{gw: gw}
}

// List returns the newest notifications. limit <= 0 leaves the backend default.
func (c *NotificationsClient) List(ctx context.Context, limit int) (models.Envelope[List[models.Notification]], error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	env, err := c.gw.Request(ctx, http.MethodGet, notificationsPath, RequestOptions{Operation: "notifications.list", Query: q})
	if err != nil {
		return models.Envelope[List[models.Notification]]{}, err
	}
	return decodeList[models.Notification](env, "notifications")
}

func (c *NotificationsClient) UnseenCount(ctx context.Context) (models.Envelope[models.NotificationCount], error) {
	env, err := c.gw.Request(ctx, http.MethodGet, notificationsPath+"/count", RequestOptions{Operation: "notifications.count"})
	if err != nil {
		return models.Envelope[models.NotificationCount]{}, err
	}
	return decodeData[models.NotificationCount](env)
}

func (c *NotificationsClient) MarkSeen(ctx context.Context, id string) (models.Envelope[struct{}], error) {
	return c.markSeen(ctx, models.MarkSeenRequest{ID: id})
}

func (c *NotificationsClient) MarkAllSeen(ctx context.Context) (models.Envelope[struct{}], error) {
	return c.markSeen(ctx, models.MarkSeenRequest{MarkAll: true})
}

func (c *NotificationsClient) markSeen(ctx context.Context, req models.MarkSeenRequest) (models.Envelope[struct{}], error) {
	env, err := c.gw.Request(ctx, http.MethodPut, notificationsPath+"/mark-seen", RequestOptions{Operation: "notifications.mark_seen", Body: req})
	if err != nil {
		return models.Envelope[struct{}]{}, err
	}
	return models.Envelope[struct{}]{Success: env.Success, Message: env.Message}, nil
}
