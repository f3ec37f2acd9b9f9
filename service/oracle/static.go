package oracle

import (
	"context"
	"sync"
	"time"

	"lending/core"
)

// Static oracle serving a snapshot set in process
type Static struct {
	mu       sync.RWMutex
	snapshot *core.PriceSnapshot
	window   time.Duration
	options
}

// Fixed oracle always serving snapshot, window 0 never goes stale
func Fixed(snapshot *core.PriceSnapshot, window time.Duration, opts ...Option) *Static {
	return &Static{
		snapshot: snapshot,
		window:   window,
		options:  newOptions(opts),
	}
}

// Set replace the served snapshot
func (s *Static) Set(snapshot *core.PriceSnapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
}

func (s *Static) Latest(ctx context.Context) (*core.PriceSnapshot, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()

	if snapshot == nil {
		snapshot = &core.PriceSnapshot{}
	}

	c := *snapshot
	return &c, check(&c, s.now(), s.window)
}
