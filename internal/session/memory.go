package session

import (
	"context"
	"sync"
	"time"

	"moviebrowse/internal/pagination"

	"github.com/sirupsen/logrus"
)

type memoryEntry struct {
	mu      sync.Mutex
	snap    pagination.Snapshot
	expires time.Time
}

type MemoryStore struct {
	mu       sync.Mutex
	views    map[string]*memoryEntry
	pageSize int
	ttl      time.Duration
	now      func() time.Time
	logger   *logrus.Logger
}

func NewMemoryStore(pageSize int, ttl time.Duration, logger *logrus.Logger) *MemoryStore {
	if logger == nil {
		logger = logrus.New()
	}
	return &MemoryStore{
		views:    make(map[string]*memoryEntry),
		pageSize: pageSize,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *MemoryStore) Update(ctx context.Context, viewID string, r pagination.Renderer, fn func(*pagination.Controller) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := s.entry(viewID)
	e.mu.Lock()
	defer e.mu.Unlock()

	c := pagination.Restore(e.snap, s.pageSize, r)
	if err := fn(c); err != nil {
		return err
	}
	e.snap = c.Snapshot()
	e.expires = s.now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) entry(viewID string) *memoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.views[viewID]
	if ok && s.now().After(e.expires) {
		ok = false
	}
	if !ok {
		e = &memoryEntry{expires: s.now().Add(s.ttl)}
		s.views[viewID] = e
	}
	return e
}

// Sweep drops expired views and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.views {
		if now.After(e.expires) {
			delete(s.views, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired views every interval until ctx is done.
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.WithField("removed", n).Debug("Expired views swept")
			}
		}
	}
}

func (s *MemoryStore) Close() error {
	return nil
}
