package services

import (
	"context"

	"github.com/nirmalhealthcare/clinic-console/internal/bulk"
	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"go.uber.org/zap"
)

// Testimonial publication states.
var testimonialStatuses = map[string]bool{"published": true, "hidden": true, "pending": true}

type TestimonialService struct {
	resourceScreen[models.TestimonialRow]
	api TestimonialsAPI
}

func NewTestimonialService(ctx context.Context, api TestimonialsAPI, opts listview.Options) *TestimonialService {
	opts.Resource = "testimonials"
	fetch := pageFetcher(api.List, models.Testimonial.ToRow, "Failed to fetch testimonials")

	return &TestimonialService{
		resourceScreen: resourceScreen[models.TestimonialRow]{
			list: listview.New(ctx, fetch, opts),
			bulk: bulk.New("testimonials", "testimonial", "testimonials"),
		},
		api: api,
	}
}

// Create uploads a new testimonial with an optional photo.
func (s *TestimonialService) Create(ctx context.Context, req models.CreateTestimonialRequest, photo *clinicapi.Photo) (*models.Testimonial, error) {
	env, err := s.api.Create(ctx, req, photo)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to add testimonial"); err != nil {
		return nil, err
	}
	logger.Info("Testimonial created",
		zap.String("testimonial_id", env.Data.ID.String()),
		zap.Bool("with_photo", photo != nil))
	s.afterWrite()
	return &env.Data, nil
}

func (s *TestimonialService) UpdateStatus(ctx context.Context, id string, req models.UpdateTestimonialRequest) error {
	env, err := s.api.UpdateStatus(ctx, id, req)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to update testimonial"); err != nil {
		return err
	}
	s.afterWrite()
	return nil
}

func (s *TestimonialService) Delete(ctx context.Context, id string) error {
	env, err := s.api.Delete(ctx, id)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to delete testimonial"); err != nil {
		return err
	}
	s.afterWrite()
	return nil
}

func (s *TestimonialService) BulkDelete(ctx context.Context) (bulk.Summary, error) {
	return s.runBulk(ctx, bulk.Action{
		Name: "delete",
		Verb: "deleted",
		Do: func(ctx context.Context, id string) error {
			env, err := s.api.Delete(ctx, id)
			return envelopeErr(env.Success, env.Message, err, "Failed to delete testimonial")
		},
	})
}

func (s *TestimonialService) BulkUpdateStatus(ctx context.Context, status string) (bulk.Summary, error) {
	if !testimonialStatuses[status] {
		return bulk.Summary{}, &ActionError{Message: "Invalid testimonial status"}
	}
	return s.runBulk(ctx, bulk.Action{
		Name: "update",
		Verb: "marked " + status,
		Do: func(ctx context.Context, id string) error {
			env, err := s.api.UpdateStatus(ctx, id, models.UpdateTestimonialRequest{Status: status})
			return envelopeErr(env.Success, env.Message, err, "Failed to update testimonial")
		},
	})
}
