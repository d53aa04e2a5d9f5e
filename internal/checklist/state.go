package checklist

import (
	"context"
	"sync"
)

// State is the shared store of loaded checklists, keyed by checklist identifier.
// A load that finishes after its identifier was superseded only writes its own
// slot, so it never shows up under another identifier.
type State struct {
	mu      sync.RWMutex
	entries map[string]*Checklist
	changed chan struct{}
}

func NewState() *State {
	return &State{
		entries: make(map[string]*Checklist),
		changed: make(chan struct{}),
	}
}

// Get returns the stored snapshot. Callers must treat it as read-only.
func (s *State) Get(id string) (*Checklist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.entries[id]
	return c, ok
}

func (s *State) Put(c *Checklist) {
	if c == nil {
		return
	}
	snapshot := c.Clone()
	s.mu.Lock()
	s.entries[snapshot.ID] = snapshot
	s.broadcastLocked()
	s.mu.Unlock()
}

func (s *State) Evict(id string) {
	s.mu.Lock()
	if _, ok := s.entries[id]; ok {
		delete(s.entries, id)
		s.broadcastLocked()
	}
	s.mu.Unlock()
}

func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Wait blocks until a checklist for id is present or ctx is done.
func (s *State) Wait(ctx context.Context, id string) (*Checklist, error) {
	for {
		s.mu.RLock()
		c, ok := s.entries[id]
		changed := s.changed
		s.mu.RUnlock()
		if ok {
			return c, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-changed:
		}
	}
}

func (s *State) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}
