package scheduler

import (
	"sync"
	"time"

	"github.com/opsdash/platform-pulse/internal/health"
)

// EvaluationState is the cached result of one platform evaluation.
type EvaluationState struct {
	Health      health.PlatformHealth
	EvaluatedAt time.Time
	TTL         time.Duration
}

// IsStale returns true if the cached state is older than its TTL.
func (s *EvaluationState) IsStale(now time.Time) bool {
	return now.Sub(s.EvaluatedAt) > s.TTL
}

// StateCache is a thread-safe cache of the latest evaluation per platform.
type StateCache struct {
	mu     sync.RWMutex
	states map[string]*EvaluationState
}

// NewStateCache creates an empty state cache.
func NewStateCache() *StateCache {
	return &StateCache{
		states: make(map[string]*EvaluationState),
	}
}

// Get retrieves the cached state for a platform.
func (c *StateCache) Get(platformID string) (*EvaluationState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state, exists := c.states[platformID]
	return state, exists
}

// Set stores evaluation state for a platform.
func (c *StateCache) Set(platformID string, state *EvaluationState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.states[platformID] = state
}

// GetAll returns a copy of all cached states.
func (c *StateCache) GetAll() map[string]*EvaluationState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(map[string]*EvaluationState, len(c.states))
	for k, v := range c.states {
		snapshot[k] = v
	}
	return snapshot
}

// Delete removes a cached state.
func (c *StateCache) Delete(platformID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.states, platformID)
}

// Clear removes all cached states.
func (c *StateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.states = make(map[string]*EvaluationState)
}

// Size returns the number of cached states.
func (c *StateCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.states)
}
