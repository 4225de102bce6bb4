package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/nirmalhealthcare/clinic-console/pkg/metrics"
	"go.uber.org/zap"
)

// Config controls backoff for idempotent backend reads.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Jitter spreads each delay by up to 25% either way.
	Jitter bool
	// RetryableErrors decides whether a failed attempt is repeated. Nil
	// means IsRetryable.
	RetryableErrors func(error) bool
}

// BackendConfig returns retry config for idempotent clinic backend reads.
// Only transport failures and gateway errors are retried; any other server
// answer is final.
func BackendConfig() Config {
	return Config{
		MaxRetries:      2,
		InitialDelay:    300 * time.Millisecond,
		MaxDelay:        3 * time.Second,
		Multiplier:      2.0,
		Jitter:          true,
		RetryableErrors: IsRetryable,
	}
}

// Do runs fn until it succeeds, fails with a non-retryable error or runs out
// of attempts.
func Do(ctx context.Context, config Config, operation string, fn func() error) error {
	_, err := DoWithResult(ctx, config, operation, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult is Do for calls that return a value.
func DoWithResult[T any](ctx context.Context, config Config, operation string, fn func() (T, error)) (T, error) {
	var zero T
	retryable := config.RetryableErrors
	if retryable == nil {
		retryable = IsRetryable
	}

	var lastErr error
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		res, err := fn()
		if err == nil {
			if attempt > 0 {
				logger.Info("Backend call recovered after retry",
					zap.String("operation", operation),
					zap.Int("attempt", attempt))
			}
			return res, nil
		}
		lastErr = err

		if !retryable(err) {
			return zero, err
		}
		if attempt == config.MaxRetries {
			break
		}

		delay := calculateDelay(attempt, config)
		metrics.BackendRetries.WithLabelValues(operation).Inc()
		logger.Warn("Backend call failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", config.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	logger.Error("Backend call failed after all retries",
		zap.String("operation", operation),
		zap.Int("max_retries", config.MaxRetries),
		zap.Error(lastErr))
	return zero, fmt.Errorf("operation failed after %d retries: %w", config.MaxRetries, lastErr)
}

// calculateDelay is InitialDelay * Multiplier^attempt, capped at MaxDelay.
func calculateDelay(attempt int, config Config) time.Duration {
	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.Jitter {
		spread := delay * 0.25
		//nolint:gosec // G404: jitter does not need crypto/rand
		delay += rand.Float64()*2*spread - spread
	}
	return time.Duration(delay)
}

// IsRetryable reports whether err is worth another attempt: transport
// failures and 502/503/504 answers.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if apperrors.IsNetwork(err) {
		return true
	}
	switch apperrors.StatusOf(err) {
	case 502, 503, 504:
		return true
	}
	return false
}
