package services

import (
	"context"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/session"
	"github.com/nirmalhealthcare/clinic-console/internal/shell"
	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/nirmalhealthcare/clinic-console/pkg/metrics"
	"github.com/nirmalhealthcare/clinic-console/pkg/retry"
	"go.uber.org/zap"
)

// LoginFailedMessage is shown when the backend gives no reason.
const LoginFailedMessage = "Login failed"

type AuthService struct {
	api      AdminAPI
	session  *session.Manager
	nav      *shell.Navigator
	retryCfg retry.Config
}

func NewAuthService(api AdminAPI, sess *session.Manager, nav *shell.Navigator) *AuthService {
	cfg := retry.BackendConfig()
	cfg.RetryableErrors = apperrors.IsNetwork

	return &AuthService{
		api:      api,
		session:  sess,
		nav:      nav,
		retryCfg: cfg,
	}
}

// Login exchanges credentials for a session and moves to the dashboard.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AdminProfile, error) {
	env, err := s.api.Login(ctx, req)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, failure(err, LoginFailedMessage)
	}
	if !env.Success || env.Data.Token == "" {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return nil, rejected(env.Message, LoginFailedMessage)
	}

	if err := s.session.SetSession(ctx, env.Data.Token, env.Data.Admin); err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		logger.LogError(ctx, err, "Failed to store session")
		return nil, failure(apperrors.NewUnexpectedError(err), LoginFailedMessage)
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	fields := []zap.Field{}
	if env.Data.Admin != nil {
		fields = append(fields, zap.String("admin_id", env.Data.Admin.ID.String()))
	}
	logger.Info("Admin logged in", fields...)

	s.nav.Navigate(shell.RouteDashboard)
	return env.Data.Admin, nil
}

// Logout tells the backend and clears the session even when that call fails.
func (s *AuthService) Logout(ctx context.Context) {
	if _, err := s.api.Logout(ctx); err != nil {
		logger.Warn("Logout call failed, clearing session anyway", zap.Error(err))
	}
	s.session.Invalidate(ctx, session.ReasonLogout)
	s.nav.Navigate(shell.RouteLogin)
}

// Restore verifies a persisted token with the backend. Network errors are
// retried; any other failure clears the session. A network failure after
// retries keeps the session and returns the error.
func (s *AuthService) Restore(ctx context.Context) (bool, error) {
	if !s.session.IsAuthenticated(ctx) {
		return false, nil
	}

	env, err := retry.DoWithResult(ctx, s.retryCfg, "verify_token", func() (models.Envelope[models.TokenStatus], error) {
		return s.api.VerifyToken(ctx)
	})
	if err != nil {
		if apperrors.IsNetwork(err) {
			return true, failure(err, "")
		}
		if apperrors.StatusOf(err) != 401 {
			s.session.Invalidate(ctx, session.ReasonTokenInvalid)
		}
		return false, nil
	}
	if !env.Success || !env.Data.Valid {
		s.session.Invalidate(ctx, session.ReasonTokenInvalid)
		return false, nil
	}

	if env.Data.Admin != nil {
		if err := s.session.SetProfile(ctx, env.Data.Admin); err != nil {
			logger.LogError(ctx, err, "Failed to refresh stored profile")
		}
	}
	return true, nil
}

// Profile reads the profile from the backend, falling back to the stored copy
// when the backend is unreachable.
func (s *AuthService) Profile(ctx context.Context) (*models.AdminProfile, error) {
	env, err := s.api.GetProfile(ctx)
	if err != nil {
		if stored := s.session.Profile(ctx); stored != nil && apperrors.IsNetwork(err) {
			return stored, nil
		}
		return nil, failure(err, "Failed to load profile")
	}
	if !env.Success || env.Data.Admin == nil {
		if stored := s.session.Profile(ctx); stored != nil {
			return stored, nil
		}
		return nil, rejected(env.Message, "Failed to load profile")
	}

	if err := s.session.SetProfile(ctx, env.Data.Admin); err != nil {
		logger.LogError(ctx, err, "Failed to store profile")
	}
	return env.Data.Admin, nil
}

// UpdateProfile saves profile changes and refreshes the stored profile.
func (s *AuthService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.AdminProfile, error) {
	env, err := s.api.UpdateProfile(ctx, req)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to update profile"); err != nil {
		return nil, err
	}

	profile := env.Data.Admin
	if profile == nil {
		profile = s.session.Profile(ctx)
		if profile != nil && req.Name != "" {
			profile.Name = req.Name
		}
	}
	if profile != nil {
		if err := s.session.SetProfile(ctx, profile); err != nil {
			logger.LogError(ctx, err, "Failed to store profile")
		}
	}
	return profile, nil
}

// ForgotPassword requests a reset link and returns the confirmation message.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error) {
	env, err := s.api.ForgotPassword(ctx, req)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to send reset link"); err != nil {
		return "", err
	}
	s.nav.Navigate(shell.RouteResetLinkSent)
	return messageOr(env.Message, "Password reset link sent"), nil
}

// ResetPassword sets a new password from a mailed token.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (string, error) {
	env, err := s.api.ResetPassword(ctx, req)
	if err := envelopeErr(env.Success, env.Message, err, "Failed to reset password"); err != nil {
		return "", err
	}
	s.nav.Navigate(shell.RouteResetSuccess)
	return messageOr(env.Message, "Password reset successfully"), nil
}

func messageOr(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
