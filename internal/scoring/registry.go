package scoring

import (
	"context"
	"errors"
	"sync"
)

// ErrMatchNotLive is returned when no engine exists for a match id and no
// snapshot can be restored.
var ErrMatchNotLive = errors.New("scoring: match is not live")

// ErrMatchAlreadyLive is returned when starting a match that already has an
// engine.
var ErrMatchAlreadyLive = errors.New("scoring: match is already live")

// Registry holds the live engine for each match. Lookups restore engines
// from persisted snapshots after a process restart.
type Registry struct {
	mu      sync.RWMutex
	engines map[uint]*Engine
	store   MatchStore
	sink    UpdateSink
}

func NewRegistry(store MatchStore, sink UpdateSink) *Registry {
	return &Registry{
		engines: make(map[uint]*Engine),
		store:   store,
		sink:    sink,
	}
}

// Start creates the engine for a configured match and registers it.
func (r *Registry) Start(cfg MatchConfig) (*Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.engines[cfg.MatchID]; ok {
		return nil, ErrMatchAlreadyLive
	}
	eng, err := NewEngine(cfg, r.store, r.sink)
	if err != nil {
		return nil, err
	}
	r.engines[cfg.MatchID] = eng
	return eng, nil
}

// Get returns the live engine for a match, restoring it from the store when
// the process has no engine in memory.
func (r *Registry) Get(ctx context.Context, matchID uint) (*Engine, error) {
	r.mu.RLock()
	eng, ok := r.engines[matchID]
	r.mu.RUnlock()
	if ok {
		return eng, nil
	}
	if r.store == nil {
		return nil, ErrMatchNotLive
	}

	st, err := r.store.Load(ctx, matchID)
	if errors.Is(err, ErrSnapshotNotFound) {
		return nil, ErrMatchNotLive
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if eng, ok := r.engines[matchID]; ok {
		return eng, nil
	}
	eng = Resume(st, r.store, r.sink)
	r.engines[matchID] = eng
	return eng, nil
}

// Remove drops the engine for a completed or abandoned match.
func (r *Registry) Remove(matchID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, matchID)
}
