package cart

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"RocketShoes/internal/kv"
)

// Sessions keeps one Store per session id, created on first use from the
// cart persisted under SessionKey(id). The registry lock is never held
// across a storage load; concurrent first uses of one id share a single load.
type Sessions struct {
	kv   kv.Store
	deps Deps

	mu     sync.Mutex
	stores map[string]*Store
	loads  singleflight.Group
}

func NewSessions(store kv.Store, deps Deps) *Sessions {
	return &Sessions{
		kv:     store,
		deps:   deps,
		stores: make(map[string]*Store),
	}
}

func (s *Sessions) Get(ctx context.Context, sessionID string) (*Store, error) {
	if st, ok := s.lookup(sessionID); ok {
		return st, nil
	}

	v, err, _ := s.loads.Do(sessionID, func() (any, error) {
		if st, ok := s.lookup(sessionID); ok {
			return st, nil
		}

		st, err := New(ctx, NewBlobStorage(s.kv, SessionKey(sessionID)), s.deps)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.stores[sessionID]; ok {
			return existing, nil
		}
		s.stores[sessionID] = st
		s.deps.Metrics.sessionOpened()
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

func (s *Sessions) lookup(sessionID string) (*Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stores[sessionID]
	return st, ok
}

func (s *Sessions) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}
