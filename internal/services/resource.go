package services

import (
	"context"

	"github.com/nirmalhealthcare/clinic-console/internal/bulk"
	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
)

// resourceScreen is the list view and bulk coordinator shared by the
// appointments, contacts and testimonials screens. Every write is followed by
// a refetch.
type resourceScreen[T models.Row] struct {
	list *listview.Controller[T]
	bulk *bulk.Coordinator
}

func (r *resourceScreen[T]) List() *listview.Controller[T] { return r.list }

// Close stops the list view.
func (r *resourceScreen[T]) Close() { r.list.Close() }

func (r *resourceScreen[T]) afterWrite() { r.list.Refresh() }

func (r *resourceScreen[T]) runBulk(ctx context.Context, action bulk.Action) (bulk.Summary, error) {
	return r.bulk.Run(ctx, r.list, action)
}

// pageFetcher adapts a client list call to a listview fetch function.
func pageFetcher[R any, T models.Row](
	list func(ctx context.Context, params clinicapi.ListParams) (models.Envelope[clinicapi.List[R]], error),
	toRow func(R) T,
	fallback string,
) listview.FetchFunc[T] {
	return func(ctx context.Context, q models.ListQuery) (models.ResultPage[T], error) {
		env, err := list(ctx, clinicapi.ParamsFromQuery(q))
		if err != nil {
			return models.ResultPage[T]{}, failure(err, fallback)
		}
		if !env.Success {
			return models.ResultPage[T]{}, rejected(env.Message, fallback)
		}

		rows := make([]T, 0, len(env.Data.Items))
		for _, item := range env.Data.Items {
			rows = append(rows, toRow(item))
		}
		p := env.Data.Pagination
		return models.NewResultPage(rows, p.Total, p.TotalPages, q.PageSize), nil
	}
}

// envelopeErr normalises a write call into a single error.
func envelopeErr(ok bool, message string, err error, fallback string) error {
	if err != nil {
		return failure(err, fallback)
	}
	if !ok {
		return rejected(message, fallback)
	}
	return nil
}
