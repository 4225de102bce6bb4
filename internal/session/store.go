package session

import (
	"context"
	"errors"
)

// ErrStoreClosed is returned by stores used after Close.
var ErrStoreClosed = errors.New("session store closed")

// Store is a transparent key/value medium for session data. Implementations
// do no validation, expiry or encryption of their own.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Ensure stores implement the interface
var _ Store = (*MemoryStore)(nil)
var _ Store = (*FileStore)(nil)
var _ Store = (*RedisStore)(nil)
