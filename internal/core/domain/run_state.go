package domain

import (
	"sync"
	"time"
)

// RunState tracks when each asset group last completed successfully.
// The orchestrator owns it and hands the recorded time to the next run of the group.
type RunState struct {
	mu   sync.RWMutex
	last map[AssetGroup]time.Time
}

// NewRunState creates an empty RunState.
func NewRunState() *RunState {
	return &RunState{last: make(map[AssetGroup]time.Time)}
}

// LastRun returns the recorded time for g, or the zero time if g never succeeded.
func (s *RunState) LastRun(g AssetGroup) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last[g]
}

// Record stores t as the last successful run of g.
func (s *RunState) Record(g AssetGroup, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[g] = t
}

// Reset forgets every recorded run, so the next run of each group processes all inputs.
func (s *RunState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = make(map[AssetGroup]time.Time)
}
