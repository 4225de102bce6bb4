package services

import (
	"context"

	"github.com/nirmalhealthcare/clinic-console/internal/bulk"
	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"go.uber.org/zap"
)

type ContactService struct {
	resourceScreen[models.ContactRow]
	api ContactsAPI
}

func NewContactService(ctx context.Context, api ContactsAPI, opts listview.Options) *ContactService {
	opts.Resource = "contacts"
	fetch := pageFetcher(api.List, models.Contact.ToRow, "Failed to fetch messages")

	return &ContactService{
		resourceScreen: resourceScreen[models.ContactRow]{
			list: listview.New(ctx, fetch, opts),
			bulk: bulk.New("contacts", "message", "messages"),
		},
		api: api,
	}
}

// Get opens one message. Unread messages are marked as read.
func (s *ContactService) Get(ctx context.Context, id string) (*models.Contact, error) {
	env, err := s.api.Get(ctx, id)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to fetch message"); err != nil {
		return nil, err
	}
	contact := env.Data

	if contact.Status == models.ContactUnread {
		if err := s.MarkAsRead(ctx, id); err != nil {
			logger.Warn("Failed to mark message as read",
				zap.String("contact_id", id),
				zap.Error(err))
		} else {
			contact.Status = models.ContactRead
		}
	}
	return &contact, nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, id string, req models.UpdateContactRequest) error {
	env, err := s.api.UpdateStatus(ctx, id, req)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to update message"); err != nil {
		return err
	}
	s.afterWrite()
	return nil
}

func (s *ContactService) MarkAsRead(ctx context.Context, id string) error {
	env, err := s.api.MarkAsRead(ctx, id)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to mark message as read"); err != nil {
		return err
	}
	s.afterWrite()
	return nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	env, err := s.api.Delete(ctx, id)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to delete message"); err != nil {
		return err
	}
	s.afterWrite()
	return nil
}

func (s *ContactService) UnreadCount(ctx context.Context) (int, error) {
	env, err := s.api.UnreadCount(ctx)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to fetch unread count"); err != nil {
		return 0, err
	}
	return env.Data.Count, nil
}

func (s *ContactService) BulkDelete(ctx context.Context) (bulk.Summary, error) {
	return s.runBulk(ctx, bulk.Action{
		Name: "delete",
		Verb: "deleted",
		Do: func(ctx context.Context, id string) error {
			env, err := s.api.Delete(ctx, id)
			return envelopeErr(env.Success, env.Message, err, "Failed to delete message")
		},
	})
}

func (s *ContactService) BulkMarkAsRead(ctx context.Context) (bulk.Summary, error) {
	return s.runBulk(ctx, bulk.Action{
		Name: "mark",
		Verb: "marked as read",
		Do: func(ctx context.Context, id string) error {
			env, err := s.api.MarkAsRead(ctx, id)
			return envelopeErr(env.Success, env.Message, err, "Failed to mark message as read")
		},
	})
}
