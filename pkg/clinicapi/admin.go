package clinicapi

import (
	"context"
	"net/http"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
)

// Requester sends one backend call. *Gateway implements it.
type Requester interface {
	Request(ctx context.Context, method, path string, opts RequestOptions) (*models.RawEnvelope, error)
}

var _ Requester = (*Gateway)(nil)

// AdminClient covers authentication and the admin profile.
type AdminClient struct {
	gw Requester
}

func NewAdminClient(gw Requester) *AdminClient {
	return &AdminClient{gw: gw}
}

// Login exchanges credentials for a token and profile.
func (c *AdminClient) Login(ctx context.Context, req models.LoginRequest) (models.Envelope[models.LoginData], error) {
	env, err := c.gw.Request(ctx, http.MethodPost, "/api/admin/login", RequestOptions{Operation: "admin.login", Body: req})
	if err != nil {
		return models.Envelope[models.LoginData]{}, err
	}
	return decodeData[models.LoginData](env)
}

func (c *AdminClient) Logout(ctx context.Context) (models.Envelope[struct{}], error) {
	env, err := c.gw.Request(ctx, http.MethodPost, "/api/admin/logout", RequestOptions{Operation: "admin.logout"})
	if err != nil {
		return models.Envelope[struct{}]{}, err
	}
	return models.Envelope[struct{}]{Success: env.Success, Message: env.Message}, nil
}

func (c *AdminClient) GetProfile(ctx context.Context) (models.Envelope[models.ProfileData], error) {
	env, err := c.gw.Request(ctx, http.MethodGet, "/api/admin/profile", RequestOptions{Operation: "admin.profile"})
	if err != nil {
		return models.Envelope[models.ProfileData]{}, err
	}
	return decodeData[models.ProfileData](env)
}

func (c *AdminClient) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (models.Envelope[models.ProfileData], error) {
	env, err := c.gw.Request(ctx, http.MethodPut, "/api/admin/profile", RequestOptions{Operation: "admin.update_profile", Body: req})
	if err != nil {
		return models.Envelope[models.ProfileData]{}, err
	}
	return decodeData[models.ProfileData](env)
}

// VerifyToken checks the bearer token currently held by the gateway's
// authenticator.
func (c *AdminClient) VerifyToken(ctx context.Context) (models.Envelope[models.TokenStatus], error) {
	env, err := c.gw.Request(ctx, http.MethodGet, "/api/admin/verify-token", RequestOptions{Operation: "admin.verify_token"})
	if err != nil {
		return models.Envelope[models.TokenStatus]{}, err
	}
	out, err := decodeData[models.TokenStatus](env)
	if err == nil && !out.Data.Valid && out.Data.Admin != nil {
		out.Data.Valid = true
	}
	return out, err
}

func (c *AdminClient) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (models.Envelope[struct{}], error) {
	env, err := c.gw.Request(ctx, http.MethodPost, "/api/admin/forgot-password", RequestOptions{Operation: "admin.forgot_password", Body: req})
	if err != nil {
		return models.Envelope[struct{}]{}, err
	}
	return models.Envelope[struct{}]{Success: env.Success, Message: env.Message}, nil
}

func (c *AdminClient) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (models.Envelope[struct{}], error) {
	env, err := c.gw.Request(ctx, http.MethodPost, "/api/admin/reset-password", RequestOptions{Operation: "admin.reset_password", Body: req})
	if err != nil {
		return models.Envelope[struct{}]{}, err
	}
	return models.Envelope[struct{}]{Success: env.Success, Message: env.Message}, nil
}
