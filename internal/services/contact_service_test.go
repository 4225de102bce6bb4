package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/services"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func contactPage(items ...models.Contact) models.Envelope[clinicapi.List[models.Contact]] {
	return models.Envelope[clinicapi.List[models.Contact]]{
		Success: true,
		Data:    clinicapi.List[models.Contact]{Items: items},
	}
}

func TestContactService_GetMarksUnreadAsRead(t *testing.T) {
	api := new(MockContactsAPI)
	api.On("Get", mock.Anything, "c1").Return(models.Envelope[models.Contact]{
		Success: true,
		Data:    models.Contact{ID: "c1", Name: "Asha", Status: models.ContactUnread},
	}, nil).Once()
	api.On("MarkAsRead", mock.Anything, "c1").Return(okEnvelope, nil).Once()
	api.On("List", mock.Anything, mock.Anything).Return(contactPage(), nil)

	svc := services.NewContactService(context.Background(), api, listview.Options{})
	t.Cleanup(svc.Close)

	contact, err := svc.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, models.ContactRead, contact.Status)
	waitList(t, svc.List())
	api.AssertExpectations(t)
}

func TestContactService_GetKeepsStatusWhenMarkFails(t *testing.T) {
	api := new(MockContactsAPI)
	api.On("Get", mock.Anything, "c1").Return(models.Envelope[models.Contact]{
		Success: true,
		Data:    models.Contact{ID: "c1", Status: models.ContactUnread},
	}, nil).Once()
	api.On("MarkAsRead", mock.Anything, "c1").Return(models.Envelope[struct{}]{}, errors.New("boom")).Once()

	svc := services.NewContactService(context.Background(), api, listview.Options{})
	t.Cleanup(svc.Close)

	contact, err := svc.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, models.ContactUnread, contact.Status)
}

func TestContactService_SearchScenario(t *testing.T) {
	api := new(MockContactsAPI)
	api.On("List", mock.Anything, mock.MatchedBy(func(p clinicapi.ListParams) bool {
		return p.Search == "riya" && p.Page == 1
	})).Return(contactPage(
		models.Contact{ID: "A", Name: "Riya Patil", Email: "a@example.com"},
		models.Contact{ID: "B", Name: "Rajesh Patil", Email: "b@example.com"},
	), nil).Once()

	svc := services.NewContactService(context.Background(), api, listview.Options{Debounce: 0})
	t.Cleanup(svc.Close)

	svc.List().SetSearch("riya")
	svc.List().CommitSearch()
	waitList(t, svc.List())

	rows := svc.List().View().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].ID)
	api.AssertExpectations(t)
}

func TestContactService_BulkMarkAsRead(t *testing.T) {
	api := new(MockContactsAPI)
	api.On("List", mock.Anything, mock.Anything).Return(contactPage(
		models.Contact{ID: "1", Status: models.ContactUnread},
		models.Contact{ID: "2", Status: models.ContactUnread},
	), nil)
	api.On("MarkAsRead", mock.Anything, mock.Anything).Return(okEnvelope, nil)

	svc := services.NewContactService(context.Background(), api, listview.Options{})
	t.Cleanup(svc.Close)
	svc.List().Refresh()
	waitList(t, svc.List())
	svc.List().ToggleSelectAll()

	summary, err := svc.BulkMarkAsRead(context.Background())
	require.NoError(t, err)
	waitList(t, svc.List())

	assert.Equal(t, "2 messages marked as read successfully", summary.Message)
	api.AssertNumberOfCalls(t, "MarkAsRead", 2)
}

func TestContactService_UnreadCount(t *testing.T) {
	api := new(MockContactsAPI)
	api.On("UnreadCount", mock.Anything).Return(models.Envelope[models.UnreadCount]{Success: true, Data: models.UnreadCount{Count: 5}}, nil).Once()

	svc := services.NewContactService(context.Background(), api, listview.Options{})
	t.Cleanup(svc.Close)

	n, err := svc.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestContactService_BulkWithoutSelection(t *testing.T) {
	svc := services.NewContactService(context.Background(), new(MockContactsAPI), listview.Options{})
	t.Cleanup(svc.Close)

	_, err := svc.BulkDelete(context.Background())
	assert.Error(t, err)
}
