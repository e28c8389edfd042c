package args

import "sync/atomic"

// Store is a publish-once cell for the launch configuration.
//
// The first TrySet wins; later calls are ignored. Readers never see a partially
// written Config: publication is a single pointer swap.
type Store struct {
	cfg atomic.Pointer[Config]
}

// Process is the store shared by the production entry points.
// Tests should build their own with NewStore.
var Process = NewStore()

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// TrySet publishes cfg if nothing has been published yet.
// It reports whether this call was the publisher.
func (s *Store) TrySet(cfg Config) bool {
	published := cfg
	return s.cfg.CompareAndSwap(nil, &published)
}

// Get returns the published configuration, or false if none is set.
func (s *Store) Get() (Config, bool) {
	p := s.cfg.Load()
	if p == nil {
		return Config{}, false
	}
	return *p, true
}
