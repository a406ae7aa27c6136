// Package scheduler drives periodic platform health evaluations and caches
// the latest result per platform.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/opsdash/platform-pulse/internal/engine"
	"github.com/opsdash/platform-pulse/internal/health"
)

// Evaluations run concurrently per platform but synthesis is CPU-bound, so
// a small bound keeps the service responsive.
const maxConcurrentEvaluations = 2

// AuditStorage persists evaluation results for the audit trail.
type AuditStorage interface {
	StoreHealthSnapshot(h health.PlatformHealth, evaluatedAt time.Time) error
}

// SnapshotPublisher mirrors evaluation results to an external cache.
type SnapshotPublisher interface {
	Publish(ctx context.Context, h health.PlatformHealth, evaluatedAt time.Time) error
}

// Scheduler manages periodic health evaluations for every platform.
type Scheduler struct {
	engine   *engine.Engine
	cache    *StateCache
	interval time.Duration
	sem      *semaphore.Weighted

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	audit   AuditStorage
	mirror  SnapshotPublisher
	running bool
}

// NewScheduler creates a scheduler that re-evaluates every platform at the
// given interval.
func NewScheduler(eng *engine.Engine, interval time.Duration) *Scheduler {
	return &Scheduler{
		engine:   eng,
		cache:    NewStateCache(),
		interval: interval,
		sem:      semaphore.NewWeighted(maxConcurrentEvaluations),
	}
}

// SetAuditStorage sets the audit storage backend (optional).
func (s *Scheduler) SetAuditStorage(audit AuditStorage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = audit
}

// SetMirror sets the external snapshot publisher (optional).
func (s *Scheduler) SetMirror(mirror SnapshotPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror = mirror
}

// Start begins the evaluation loops, one per platform.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	for _, platformID := range engine.PlatformIDs {
		s.wg.Add(1)
		go s.evaluateLoop(ctx, platformID)
	}

	log.Printf("Started scheduler for %d platforms (interval %s)", len(engine.PlatformIDs), s.interval)
	return nil
}

// Stop stops the scheduler and waits for in-flight evaluations.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}

	s.cancel()
	s.running = false
	s.mu.Unlock()

	log.Println("Stopping scheduler...")
	s.wg.Wait()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) evaluateLoop(ctx context.Context, platformID string) {
	defer s.wg.Done()

	s.evaluateOnce(ctx, platformID)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evaluateOnce(ctx, platformID)
		}
	}
}

func (s *Scheduler) evaluateOnce(ctx context.Context, platformID string) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return
	}
	defer s.sem.Release(1)

	now := time.Now()
	start := now

	result, err := s.engine.Platform(platformID, now)
	if err != nil {
		log.Printf("Error evaluating platform %s: %v", platformID, err)
		return
	}

	s.cache.Set(platformID, &EvaluationState{
		Health:      result,
		EvaluatedAt: now,
		TTL:         s.interval,
	})

	platformStatus.WithLabelValues(platformID).Set(statusValue(result.Status))
	evaluationsTotal.WithLabelValues(platformID).Inc()
	evaluationDuration.WithLabelValues(platformID).Observe(time.Since(start).Seconds())

	s.mu.RLock()
	audit := s.audit
	mirror := s.mirror
	s.mu.RUnlock()

	if audit != nil {
		if err := audit.StoreHealthSnapshot(result, now); err != nil {
			log.Printf("Warning: failed to store health snapshot for %s: %v", platformID, err)
		}
	}
	if mirror != nil {
		if err := mirror.Publish(ctx, result, now); err != nil {
			log.Printf("Warning: failed to mirror health snapshot for %s: %v", platformID, err)
		}
	}

	log.Printf("Evaluated platform %s: status=%s, trend=%s", platformID, result.Status, result.Trend)
}

// EvaluateNow forces an immediate evaluation of one platform.
func (s *Scheduler) EvaluateNow(ctx context.Context, platformID string) error {
	found := false
	for _, id := range engine.PlatformIDs {
		if id == platformID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown platform: %s", platformID)
	}

	s.evaluateOnce(ctx, platformID)
	return nil
}

// GetCache returns the state cache.
func (s *Scheduler) GetCache() *StateCache {
	return s.cache
}
