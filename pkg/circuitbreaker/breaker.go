package circuitbreaker

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/nirmalhealthcare/clinic-console/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Config is the subset of gobreaker settings the console tunes.
type Config struct {
	Name         string
	MaxRequests  uint32        // probes let through while half-open
	Interval     time.Duration // closed-state count reset period
	Timeout      time.Duration // open-state duration
	MinRequests  uint32
	FailureRatio float64
	IsSuccessful func(err error) bool
}

// BackendConfig trips after most of at least three calls fail and counts
// only transport failures and 5xx answers as failures. A 401 or a
// validation error says nothing about backend health.
func BackendConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
		IsSuccessful: func(err error) bool { return !IsBackendFailure(err) },
	}
}

// IsBackendFailure reports whether err points at an unhealthy backend.
func IsBackendFailure(err error) bool {
	if err == nil {
		return false
	}
	return apperrors.IsNetwork(err) || apperrors.StatusOf(err) >= 500
}

func New(cfg Config) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: cfg.IsSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			logger.Info("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// Execute runs fn through cb.
func Execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker %s: unexpected result type %T", cb.Name(), result)
	}
	return typed, nil
}

// IsRejected reports whether err came from the breaker refusing the call.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// ExecuteWithFallback runs fn through cb. The fallback only runs while the
// breaker rejects calls.
func ExecuteWithFallback[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error), fallback func() (T, error)) (T, error) {
	result, err := Execute(cb, fn)
	if err != nil && IsRejected(err) {
		logger.Warn("Circuit breaker open, using fallback", zap.String("breaker", cb.Name()))
		return fallback()
	}
	return result, err
}
