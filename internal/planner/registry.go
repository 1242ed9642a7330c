package planner

import (
	"context"
	"errors"
	"sync"
)

// Registry hands out one Engine per user, loading it on first use
type Registry struct {
	store Store
	opts  Options

	mu      sync.Mutex
	engines map[string]*Engine
	closed  bool
}

func NewRegistry(store Store, opts Options) *Registry {
	return &Registry{
		store:   store,
		opts:    opts,
		engines: make(map[string]*Engine),
	}
}

// Engine returns the user's engine, creating it from the store if needed
func (r *Registry) Engine(ctx context.Context, userID string) (*Engine, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	if e, err := r.lookup(userID); e != nil || err != nil {
		return e, err
	}

	// loaded without the lock held
	loaded, err := NewEngine(ctx, r.store, userID, r.opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		loaded.Close()
		return nil, ErrClosed
	}
	if e, ok := r.engines[userID]; ok {
		// a concurrent call won the race
		loaded.Close()
		return e, nil
	}
	r.engines[userID] = loaded
	return loaded, nil
}

func (r *Registry) lookup(userID string) (*Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	return r.engines[userID], nil
}

// Close stops every engine
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for id, e := range r.engines {
		e.Close()
		delete(r.engines, id)
	}
}
