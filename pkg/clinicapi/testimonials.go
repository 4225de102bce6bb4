package clinicapi

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
)

const testimonialsPath = "/api/testimonials/admin"

// Photo is an uploaded testimonial image.
type Photo struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// TestimonialsClient manages testimonials.
type TestimonialsClient struct {
	gw Requester
}

func NewTestimonialsClient(gw Requester) *TestimonialsClient {
	return &TestimonialsClient{gw: gw}
}

func (c *TestimonialsClient) List(ctx context.Context, params ListParams) (models.Envelope[List[models.Testimonial]], error) {
	env, err := c.gw.Request(ctx, http.MethodGet, testimonialsPath, RequestOptions{Operation: "testimonials.list", Query: params.Values()})
	if err != nil {
		return models.Envelope[List[models.Testimonial]]{}, err
	}
	return decodeList[models.Testimonial](env, "testimonials")
}

// Create uploads a testimonial as multipart form data. photo may be nil.
func (c *TestimonialsClient) Create(ctx context.Context, req models.CreateTestimonialRequest, photo *Photo) (models.Envelope[models.Testimonial], error) {
	form := &MultipartForm{
		Fields: map[string]string{
			"firstName": req.FirstName,
			"lastName":  req.LastName,
			"feedback":  req.Feedback,
		},
	}
	if photo != nil && photo.Content != nil {
		form.Files = append(form.Files, FormFile{
			Field:       "photo",
			FileName:    photo.FileName,
			ContentType: photo.ContentType,
			Content:     photo.Content,
		})
	}

	env, err := c.gw.Request(ctx, http.MethodPost, testimonialsPath, RequestOptions{Operation: "testimonials.create", Form: form})
	if err != nil {
		return models.Envelope[models.Testimonial]{}, err
	}
	return decodeData[models.Testimonial](env)
}

func (c *TestimonialsClient) UpdateStatus(ctx context.Context, id string, req models.UpdateTestimonialRequest) (models.Envelope[struct{}], error) {
	env, err := c.gw.Request(ctx, http.MethodPut, testimonialsPath+"/"+url.PathEscape(id), RequestOptions{Operation: "testimonials.update", Body: req})
	if err != nil {
		return models.Envelope[struct{}]{}, err
	}
	return models.Envelope[struct{}]{Success: env.Success, Message: env.Message}, nil
}

func (c *TestimonialsClient) Delete(ctx context.Context, id string) (models.Envelope[struct{}], error) {
	env, err := c.gw.Request(ctx, http.MethodDelete, testimonialsPath+"/"+url.PathEscape(id), RequestOptions{Operation: "testimonials.delete"})
	if err != nil {
		return models.Envelope[struct{}]{}, err
	}
	return models.Envelope[struct{}]{Success: env.Success, Message: env.Message}, nil
}
