package console

import (
	"context"
	"fmt"
	"time"

	"github.com/nirmalhealthcare/clinic-console/config"
	"github.com/nirmalhealthcare/clinic-console/internal/session"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"go.uber.org/zap"
)

// redisSessionTTL bounds how long an abandoned session survives in Redis.
const redisSessionTTL = 7 * 24 * time.Hour

// OpenStore builds the session store named by cfg. The returned close
// function releases any connection it holds.
func OpenStore(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
	switch cfg.Session.Store {
	case "redis":
		rdb, err := session.NewRedisClient(ctx, cfg.Session.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis session store: %w", err)
		}
		logger.Info("Using Redis session store", zap.Duration("ttl", redisSessionTTL))
		return session.NewRedisStore(rdb, redisSessionTTL), rdb.Close, nil
	default:
		logger.Info("Using in-memory session store")
		return session.NewMemoryStore(0), func() error { return nil }, nil
	}
}
