package sqlite

import (
	"os"
	"testing"
	"time"

	"github.com/opsdash/platform-pulse/internal/health"
	"github.com/opsdash/platform-pulse/internal/provider"
)

func setupTestDB(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpfile.Close()

	store, err := NewStore(tmpfile.Name())
	if err != nil {
		os.Remove(tmpfile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.Remove(tmpfile.Name())
	}

	return store, cleanup
}

func TestStore_Tickets(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	tickets := []provider.TicketRecord{
		{ID: "INC001", Platform: "edlap", Title: "Pipeline stuck", Priority: provider.PriorityHigh, AgeDays: 3, Active: true, Breached: true},
		{ID: "REQ002", Platform: "tableau", Title: "Access request", Priority: provider.PriorityLow, AgeDays: 1, Active: true},
		{ID: "INC003", Platform: "edlap", Title: "Resolved incident", Priority: provider.PriorityHigh, AgeDays: 10, Active: false},
	}
	for _, ticket := range tickets {
		if err := store.InsertTicket(ticket); err != nil {
			t.Fatalf("failed to insert ticket: %v", err)
		}
	}

	loaded := store.Tickets()
	if len(loaded) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(loaded))
	}

	byID := make(map[string]provider.TicketRecord)
	for _, ticket := range loaded {
		byID[ticket.ID] = ticket
	}

	if got := byID["INC001"]; !got.Breached || got.Priority != provider.PriorityHigh || got.AgeDays != 3 {
		t.Errorf("INC001 round trip mismatch: %+v", got)
	}
	if got := byID["INC003"]; got.Active {
		t.Errorf("INC003 should be inactive: %+v", got)
	}
}

func TestStore_InsertTicketUpsert(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ticket := provider.TicketRecord{ID: "INC001", Platform: "edlap", Priority: provider.PriorityLow, Active: true}
	if err := store.InsertTicket(ticket); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	ticket.Priority = provider.PriorityHigh
	ticket.Breached = true
	if err := store.InsertTicket(ticket); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	loaded := store.Tickets()
	if len(loaded) != 1 {
		t.Fatalf("expected 1 ticket after upsert, got %d", len(loaded))
	}
	if loaded[0].Priority != provider.PriorityHigh || !loaded[0].Breached {
		t.Errorf("upsert did not update fields: %+v", loaded[0])
	}
}

func TestStore_PipelineRuns(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	runs := []provider.PipelineRun{
		{Platform: "edlap", Status: provider.PipelineSuccessful},
		{Platform: "edlap", Status: provider.PipelineFailed},
		{Platform: "sapbw", Status: provider.PipelineDelayed},
	}
	for _, run := range runs {
		if err := store.InsertPipelineRun(run); err != nil {
			t.Fatalf("failed to insert run: %v", err)
		}
	}

	edlap := store.PipelineRuns("edlap")
	if len(edlap) != 2 {
		t.Errorf("expected 2 edlap runs, got %d", len(edlap))
	}

	if runs := store.PipelineRuns("alteryx"); len(runs) != 0 {
		t.Errorf("expected no alteryx runs, got %d", len(runs))
	}
}

func TestStore_CapacitySnapshots(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		snap := provider.CapacitySnapshot{
			Timestamp:         base.Add(time.Duration(i) * time.Hour),
			MemoryUsedTB:      18.2 + float64(i),
			MemoryCapacityTB:  24.0,
			StorageUsedTB:     54.7,
			StorageCapacityTB: 60.0,
		}
		if err := store.InsertCapacitySnapshot(snap); err != nil {
			t.Fatalf("failed to insert snapshot: %v", err)
		}
	}

	snapshots := store.CapacitySnapshots()
	if len(snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snapshots))
	}

	// Ordered ascending by snapshot time, ids assigned.
	for i := 1; i < len(snapshots); i++ {
		if !snapshots[i].Timestamp.After(snapshots[i-1].Timestamp) {
			t.Errorf("snapshots not ordered: %v then %v", snapshots[i-1].Timestamp, snapshots[i].Timestamp)
		}
	}
	if snapshots[0].ID == "" {
		t.Error("snapshot id was not assigned")
	}
	if snapshots[2].MemoryUsedTB != 20.2 {
		t.Errorf("expected memory 20.2, got %v", snapshots[2].MemoryUsedTB)
	}
}

func TestStore_HealthSnapshots(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	evaluated := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	snapshot := health.PlatformHealth{
		ID:     "sapbw",
		Name:   "SAP B/W",
		Status: health.StatusAttention,
		Trend:  health.TrendRising,
		Metrics: health.Metrics{
			Primary: health.Metric{Label: "Memory Usage", Value: "21.4 TB", Threshold: "< 24 TB"},
		},
	}

	if err := store.StoreHealthSnapshot(snapshot, evaluated); err != nil {
		t.Fatalf("failed to store health snapshot: %v", err)
	}

	later := snapshot
	later.Status = health.StatusCritical
	if err := store.StoreHealthSnapshot(later, evaluated.Add(5*time.Minute)); err != nil {
		t.Fatalf("failed to store second snapshot: %v", err)
	}

	latest, err := store.LatestHealth("sapbw")
	if err != nil {
		t.Fatalf("failed to query latest health: %v", err)
	}
	if latest == nil {
		t.Fatal("expected a latest record")
	}
	if latest.Status != string(health.StatusCritical) {
		t.Errorf("expected latest status critical, got %s", latest.Status)
	}
	if latest.Metrics.Primary.Label != "Memory Usage" {
		t.Errorf("metrics did not round trip: %+v", latest.Metrics)
	}

	recent, err := store.RecentHealth("sapbw", 10)
	if err != nil {
		t.Fatalf("failed to query recent health: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent records, got %d", len(recent))
	}
	if recent[0].Status != string(health.StatusCritical) {
		t.Errorf("expected newest first, got %s", recent[0].Status)
	}
}

func TestStore_LatestHealthMissing(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	latest, err := store.LatestHealth("edlap")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != nil {
		t.Errorf("expected nil for missing platform, got %+v", latest)
	}
}
