package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/opsdash/platform-pulse/internal/config"
	"github.com/opsdash/platform-pulse/internal/engine"
	"github.com/opsdash/platform-pulse/internal/health"
	"github.com/opsdash/platform-pulse/internal/provider/static"
)

type recordingAudit struct {
	mu        sync.Mutex
	snapshots []health.PlatformHealth
}

func (a *recordingAudit) StoreHealthSnapshot(h health.PlatformHealth, _ time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshots = append(a.snapshots, h)
	return nil
}

func (a *recordingAudit) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.snapshots)
}

func newTestScheduler() *Scheduler {
	eng := engine.New(static.New(), config.DefaultThresholds())
	return NewScheduler(eng, time.Minute)
}

func TestScheduler_EvaluateNow(t *testing.T) {
	s := newTestScheduler()
	audit := &recordingAudit{}
	s.SetAuditStorage(audit)

	if err := s.EvaluateNow(context.Background(), "sapbw"); err != nil {
		t.Fatal(err)
	}

	state, ok := s.GetCache().Get("sapbw")
	if !ok {
		t.Fatal("expected cached state after evaluation")
	}
	if state.Health.ID != "sapbw" {
		t.Errorf("cached platform = %s", state.Health.ID)
	}
	if state.TTL != time.Minute {
		t.Errorf("cached TTL = %s", state.TTL)
	}
	if audit.count() != 1 {
		t.Errorf("expected 1 audit record, got %d", audit.count())
	}
}

func TestScheduler_EvaluateNow_UnknownPlatform(t *testing.T) {
	s := newTestScheduler()
	if err := s.EvaluateNow(context.Background(), "snowflake"); err == nil {
		t.Error("expected error for unknown platform")
	}
}

func TestScheduler_StartEvaluatesAllPlatforms(t *testing.T) {
	s := newTestScheduler()
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	// Initial evaluations run immediately; poll until the cache fills.
	deadline := time.Now().Add(5 * time.Second)
	for s.GetCache().Size() < len(engine.PlatformIDs) {
		if time.Now().After(deadline) {
			t.Fatalf("cache never filled: %d/%d", s.GetCache().Size(), len(engine.PlatformIDs))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestScheduler_DoubleStart(t *testing.T) {
	s := newTestScheduler()
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	if err := s.Start(); err == nil {
		t.Error("expected error starting a running scheduler")
	}
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s := newTestScheduler()
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	s.Stop()
	s.Stop()
}
