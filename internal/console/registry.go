package console

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nirmalhealthcare/clinic-console/pkg/metrics"
	"github.com/patrickmn/go-cache"
)

// Registry holds live workspaces keyed by browser id. Workspaces idle for
// longer than the TTL are closed.
type Registry struct {
	ctx     context.Context
	factory Factory
	items   *cache.Cache
	mu      sync.Mutex
}

func NewRegistry(ctx context.Context, factory Factory, idleTTL time.Duration) *Registry {
	cleanup := idleTTL / 2
	if cleanup < time.Second {
		cleanup = time.Second
	}
	items := cache.New(idleTTL, cleanup)
	items.OnEvicted(func(_ string, v interface{}) {
		if ws, ok := v.(*Workspace); ok {
			ws.Close()
		}
		metrics.ActiveWorkspaces.Dec()
	})

	return &Registry{ctx: ctx, factory: factory, items: items}
}

// Get returns the workspace for id and extends its idle deadline.
func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.touchLocked(id)
}

// GetOrCreate returns the workspace for id, creating it when missing. A
// malformed id is replaced with a fresh one; the returned workspace's ID is
// authoritative.
func (r *Registry) GetOrCreate(id string) (ws *Workspace, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	if ws, ok := r.touchLocked(id); ok {
		return ws, false
	}
	// An expired entry the janitor has not swept yet is hidden from Get but
	// would be overwritten without eviction; Delete still closes it.
	r.items.Delete(id)

	ws = r.factory.New(r.ctx, id)
	r.items.SetDefault(id, ws)
	metrics.ActiveWorkspaces.Inc()
	return ws, true
}

func (r *Registry) touchLocked(id string) (*Workspace, bool) {
	v, ok := r.items.Get(id)
	if !ok {
		return nil, false
	}
	ws := v.(*Workspace)
	r.items.SetDefault(id, ws)
	return ws, true
}

// Remove closes and forgets the workspace for id.
func (r *Registry) Remove(id string) {
	r.items.Delete(id)
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	return r.items.ItemCount()
}

// Close closes every workspace.
func (r *Registry) Close() {
	for id := range r.items.Items() {
		r.items.Delete(id)
	}
}
