package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/retailku/order-admin/pkg/errors"
	"github.com/retailku/order-admin/pkg/logger"
)

// RegistryConfig bounds view lifetimes.
type RegistryConfig struct {
	LoadTimeout   time.Duration
	TTL           time.Duration
	SweepInterval time.Duration
}

func (c RegistryConfig) withDefaults() RegistryConfig {
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = 15 * time.Second
	}
	if c.TTL <= 0 {
		c.TTL = 30 * time.Minute
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	return c
}

type registryEntry struct {
	view       *OrderView
	cancel     context.CancelFunc
	lastAccess time.Time
}

// ViewRegistry tracks the mounted views of all admin sessions.
type ViewRegistry struct {
	repo   Repository
	events EventPublisher
	logger *logger.Logger
	cfg    RegistryConfig
	now    func() time.Time

	mu    sync.Mutex
	views map[string]*registryEntry
	wg    sync.WaitGroup
}

// NewViewRegistry creates an empty registry.
func NewViewRegistry(repo Repository, events EventPublisher, log *logger.Logger, cfg RegistryConfig) *ViewRegistry {
	return &ViewRegistry{
		repo:   repo,
		events: events,
		logger: log.WithComponent("view-registry"),
		cfg:    cfg.withDefaults(),
		now:    time.Now,
		views:  make(map[string]*registryEntry),
	}
}

// Open mounts a new view and starts loading it in the background. The load
// outlives ctx's cancellation but keeps its values, and is bounded by the
// configured load timeout.
func (r *ViewRegistry) Open(ctx context.Context) *OrderView {
	id := uuid.NewString()
	view := NewOrderView(id, r.repo, r.events, r.logger)

	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.LoadTimeout)

	r.mu.Lock()
	r.views[id] = &registryEntry{view: view, cancel: cancel, lastAccess: r.now()}
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		if err := view.Load(loadCtx); err != nil {
			if errors.Is(err, context.Canceled) {
				r.logger.Debug().Str("view_id", id).Msg("view load cancelled")
				return
			}
			r.logger.Error().Err(err).Str("view_id", id).Msg("view load failed")
		}
	}()

	r.logger.Debug().Str("view_id", id).Msg("view opened")
	return view
}

// Get returns a view and refreshes its idle timer.
func (r *ViewRegistry) Get(id string) (*OrderView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.views[id]
	if !ok {
		return nil, errors.NotFound("view")
	}

	now := r.now()
	if now.Sub(e.lastAccess) > r.cfg.TTL {
		r.evictLocked(id, e)
		return nil, errors.NotFound("view")
	}
	e.lastAccess = now
	return e.view, nil
}

// Close cancels a pending load and forgets the view.
func (r *ViewRegistry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.views[id]
	if !ok {
		return errors.NotFound("view")
	}
	r.evictLocked(id, e)
	return nil
}

// Sweep evicts views idle for longer than the TTL and returns how many
// were removed.
func (r *ViewRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.views {
		if now.Sub(e.lastAccess) > r.cfg.TTL {
			r.evictLocked(id, e)
			n++
		}
	}
	if n > 0 {
		r.logger.Debug().Int("evicted", n).Int("remaining", len(r.views)).Msg("swept idle views")
	}
	return n
}

// Run sweeps on the configured interval until ctx is done, then closes
// every remaining view and waits for pending loads to stop.
func (r *ViewRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			r.wg.Wait()
			return
		case <-ticker.C:
			r.Sweep(r.now())
		}
	}
}

// CloseAll closes every view.
func (r *ViewRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.views {
		r.evictLocked(id, e)
	}
}

// Len returns the number of open views.
func (r *ViewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *ViewRegistry) evictLocked(id string, e *registryEntry) {
	e.cancel()
	delete(r.views, id)
}
