package clinicapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
)

const contactsPath = "/api/contact/admin"

// ContactsClient manages contact-form messages.
type ContactsClient struct {
	gw Requester
}

func NewContactsClient(gw Requester) *ContactsClient {
	return &ContactsClient{gw: gw}
}

func (c *ContactsClient) List(ctx context.Context, params ListParams) (models.Envelope[List[models.Contact]], error) {
	env, err := c.gw.Request(ctx, http.MethodGet, contactsPath, RequestOptions{Operation: "contacts.list", Query: params.Values()})
	if err != nil {
		return models.Envelope[List[models.Contact]]{}, err
	}
	return decodeList[models.Contact](env, "contacts")
}

func (c *ContactsClient) Get(ctx context.Context, id string) (models.Envelope[models.Contact], error) {
	env, err := c.gw.Request(ctx, http.MethodGet, contactsPath+"/"+url.PathEscape(id), RequestOptions{Operation: "contacts.get"})
	if err != nil {
		return models.Envelope[models.Contact]{}, err
	}
	return decodeData[models.Contact](env)
}

func (c *ContactsClient) UpdateStatus(ctx context.Context, id string, req models.UpdateContactRequest) (models.Envelope[struct{}], error) {
	env, err := c.gw.Request(ctx, http.MethodPut, contactsPath+"/"+url.PathEscape(id), RequestOptions{Operation: "contacts.update", Body: req})
	if err != nil {
		return models.Envelope[struct{}]{}, err
	}
	return models.Envelope[struct{}]{Success: env.Success, Message: env.Message}, nil
}

func (c *ContactsClient) Delete(ctx context.Context, id string) (models.Envelope[struct{}], error) {
	env, err := c.gw.Request(ctx, http.MethodDelete, contactsPath+"/"+url.PathEscape(id), RequestOptions{Operation: "contacts.delete"})
	if err != nil {
		return models.Envelope[struct{}]{}, err
	}
	return models.Envelope[struct{}]{Success: env.Success, Message: env.Message}, nil
}

func (c *ContactsClient) MarkAsRead(ctx context.Context, id string) (models.Envelope[struct{}], error) {
	env, err := c.gw.Request(ctx, http.MethodPut, contactsPath+"/"+url.PathEscape(id)+"/read", RequestOptions{Operation: "contacts.mark_read"})
	if err != nil {
		return models.Envelope[struct{}]{}, err
	}
	return models.Envelope[struct{}]{Success: env.Success, Message: env.Message}, nil
}

func (c *ContactsClient) UnreadCount(ctx context.Context) (models.Envelope[models.UnreadCount], error) {
	env, err := c.gw.Request(ctx, http.MethodGet, contactsPath+"/unread-count", RequestOptions{Operation: "contacts.unread_count"})
	if err != nil {
		return models.Envelope[models.UnreadCount]{}, err
	}
	return decodeData[models.UnreadCount](env)
}
