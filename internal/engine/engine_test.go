package engine

import (
	"testing"
	"time"

	"github.com/opsdash/platform-pulse/internal/config"
	"github.com/opsdash/platform-pulse/internal/health"
	"github.com/opsdash/platform-pulse/internal/provider"
	"github.com/opsdash/platform-pulse/internal/provider/static"
	"github.com/opsdash/platform-pulse/internal/series"
)

func newTestEngine(p *static.Provider) *Engine {
	return New(p, config.DefaultThresholds())
}

var testNow = time.Date(2026, 3, 17, 14, 32, 0, 0, time.UTC)

func TestPlatforms_EmptyProvider(t *testing.T) {
	e := newTestEngine(static.New())

	platforms := e.Platforms(testNow)
	if len(platforms) != 4 {
		t.Fatalf("expected 4 platforms, got %d", len(platforms))
	}

	wantOrder := []string{"edlap", "sapbw", "tableau", "alteryx"}
	for i, id := range wantOrder {
		if platforms[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, platforms[i].ID)
		}
	}

	// With no real data the fallbacks keep sapbw and the ticket-rule
	// platforms healthy; synthetic edlap failures top out at 5 so the lake
	// can at worst reach attention.
	for _, p := range platforms[1:] {
		if p.Status != health.StatusHealthy {
			t.Errorf("%s: expected healthy fallback, got %s", p.ID, p.Status)
		}
	}
	if platforms[0].Status == health.StatusCritical {
		t.Errorf("edlap fallback should never be critical, got %s", platforms[0].Status)
	}

	sapbw := platforms[1]
	if sapbw.Metrics.Primary.Value != "18.2 TB" {
		t.Errorf("unexpected sapbw memory value: %s", sapbw.Metrics.Primary.Value)
	}
	if sapbw.Metrics.Primary.Threshold != "< 24 TB" {
		t.Errorf("unexpected sapbw threshold: %s", sapbw.Metrics.Primary.Threshold)
	}
}

func TestPlatforms_CapacityDrivesWarehouseStatus(t *testing.T) {
	tests := []struct {
		name       string
		memory     float64
		wantStatus health.Status
		wantTrend  health.Trend
	}{
		{"below healthy cutover", 18.0, health.StatusHealthy, health.TrendStable},
		{"between cutover levels", 21.0, health.StatusAttention, health.TrendRising},
		{"above attention cutover", 22.5, health.StatusCritical, health.TrendRising},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := static.New()
			p.Snapshots = []provider.CapacitySnapshot{{
				Timestamp:        testNow.Add(-5 * time.Minute),
				MemoryUsedTB:     tt.memory,
				MemoryCapacityTB: 24.0,
				StorageUsedTB:    50.0,
			}}

			got, err := newTestEngine(p).Platform("sapbw", testNow)
			if err != nil {
				t.Fatal(err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", got.Status, tt.wantStatus)
			}
			if got.Trend != tt.wantTrend {
				t.Errorf("trend = %s, want %s", got.Trend, tt.wantTrend)
			}
		})
	}
}

func TestPlatforms_PipelineFailuresDriveLakeStatus(t *testing.T) {
	p := static.New()
	for i := 0; i < 12; i++ {
		p.Runs = append(p.Runs, provider.PipelineRun{Platform: "edlap", Status: provider.PipelineFailed})
	}

	got, err := newTestEngine(p).Platform("edlap", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != health.StatusCritical {
		t.Errorf("12 failures should be critical, got %s", got.Status)
	}
	if got.Metrics.Primary.Value != "12" {
		t.Errorf("unexpected failure count: %s", got.Metrics.Primary.Value)
	}
}

func TestPlatforms_TicketCountDrivesAnalyticsStatus(t *testing.T) {
	p := static.New()
	for i := 0; i < 16; i++ {
		p.TicketRecords = append(p.TicketRecords, provider.TicketRecord{
			Platform: "tableau",
			Priority: provider.PriorityLow,
			Active:   true,
		})
	}

	got, err := newTestEngine(p).Platform("tableau", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != health.StatusAttention {
		t.Errorf("16 tickets should be attention, got %s", got.Status)
	}
}

func TestPlatform_UnknownID(t *testing.T) {
	if _, err := newTestEngine(static.New()).Platform("snowflake", testNow); err == nil {
		t.Error("expected error for unknown platform")
	}
}

func TestTickets_SortedByPriorityThenAge(t *testing.T) {
	p := static.New()
	p.TicketRecords = []provider.TicketRecord{
		{ID: "T-1", Priority: provider.PriorityLow, AgeDays: 40, Active: true},
		{ID: "T-2", Priority: provider.PriorityHigh, AgeDays: 2, Active: true},
		{ID: "T-3", Priority: provider.PriorityMedium, AgeDays: 10, Active: true},
		{ID: "T-4", Priority: provider.PriorityHigh, AgeDays: 9, Active: true},
		{ID: "T-5", Priority: provider.PriorityHigh, AgeDays: 1, Active: false},
	}

	tickets := newTestEngine(p).Tickets()

	wantIDs := []string{"T-4", "T-2", "T-3", "T-1"}
	if len(tickets) != len(wantIDs) {
		t.Fatalf("expected %d active tickets, got %d", len(wantIDs), len(tickets))
	}
	for i, id := range wantIDs {
		if tickets[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, tickets[i].ID)
		}
	}
}

func TestSummaryCounts(t *testing.T) {
	p := static.New()
	p.TicketRecords = []provider.TicketRecord{
		{ID: "T-1", Platform: "edlap", Priority: provider.PriorityHigh, Active: true},
		{ID: "T-2", Platform: "sapbw", Priority: provider.PriorityLow, Active: true},
		{ID: "T-3", Platform: "edlap", Priority: provider.PriorityLow, Active: false},
	}

	counts := newTestEngine(p).SummaryCounts(testNow)
	if counts.Healthy+counts.Attention+counts.Critical != 4 {
		t.Errorf("status counts should cover all 4 platforms: %+v", counts)
	}
	if counts.TotalTickets != 2 {
		t.Errorf("expected 2 active tickets, got %d", counts.TotalTickets)
	}
}

func TestPerformanceData_Shapes(t *testing.T) {
	e := newTestEngine(static.New())

	tests := []struct {
		platform string
		check    func(t *testing.T, d PerformanceData)
	}{
		{"edlap", func(t *testing.T, d PerformanceData) {
			if d.Pipeline == nil || d.Warehouse != nil || d.Fleet != nil {
				t.Fatal("edlap should only set the pipeline shape")
			}
			if len(d.Pipeline.Users.Values) != len(d.Timestamps) {
				t.Error("users not aligned to timestamps")
			}
		}},
		{"sapbw", func(t *testing.T, d PerformanceData) {
			if d.Warehouse == nil || d.Pipeline != nil || d.Fleet != nil {
				t.Fatal("sapbw should only set the warehouse shape")
			}
			if d.Warehouse.MemoryCapacityTB != 24.0 {
				t.Errorf("fallback capacity = %v", d.Warehouse.MemoryCapacityTB)
			}
			for _, v := range d.Warehouse.MemoryTB.Values {
				if v > d.Warehouse.MemoryCapacityTB {
					t.Fatalf("memory %v above capacity", v)
				}
			}
		}},
		{"tableau", func(t *testing.T, d PerformanceData) {
			if d.Fleet == nil || d.Pipeline != nil || d.Warehouse != nil {
				t.Fatal("tableau should only set the fleet shape")
			}
			if len(d.Fleet.Machines) != 8 {
				t.Errorf("expected 8 machines, got %d", len(d.Fleet.Machines))
			}
			if d.Fleet.Machines[0].Name != "TAB-SRV-01" {
				t.Errorf("unexpected machine name: %s", d.Fleet.Machines[0].Name)
			}
		}},
		{"alteryx", func(t *testing.T, d PerformanceData) {
			if d.Fleet == nil {
				t.Fatal("alteryx should set the fleet shape")
			}
			if d.Fleet.Machines[0].Name != "ALT-WRK-01" {
				t.Errorf("unexpected machine name: %s", d.Fleet.Machines[0].Name)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			d, err := e.PerformanceData(tt.platform, testNow, 24)
			if err != nil {
				t.Fatal(err)
			}
			if d.Platform != tt.platform {
				t.Errorf("platform = %s", d.Platform)
			}
			if len(d.Timestamps) != 289 {
				t.Errorf("expected 289 grid points for 24h, got %d", len(d.Timestamps))
			}
			tt.check(t, d)
		})
	}
}

func TestPerformanceData_UnknownPlatform(t *testing.T) {
	if _, err := newTestEngine(static.New()).PerformanceData("snowflake", testNow, 24); err == nil {
		t.Error("expected error for unknown platform")
	}
}

func TestPerformanceData_Reproducible(t *testing.T) {
	e := newTestEngine(static.New())

	a, err := e.PerformanceData("edlap", testNow, 24)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.PerformanceData("edlap", testNow, 24)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.Pipeline.Users.Values {
		if a.Pipeline.Users.Values[i] != b.Pipeline.Users.Values[i] {
			t.Fatal("same inputs should reproduce the same window")
		}
	}
}

func TestPerformanceData_MeasuredWarehouseWindow(t *testing.T) {
	p := static.New()
	base := testNow.Add(-30 * time.Minute)
	for i := 0; i < 6; i++ {
		p.Snapshots = append(p.Snapshots, provider.CapacitySnapshot{
			Timestamp:        base.Add(time.Duration(i) * 5 * time.Minute),
			MemoryUsedTB:     18.0 + float64(i)*0.1,
			MemoryCapacityTB: 23.25,
			StorageUsedTB:    50.0,
		})
	}

	d, err := newTestEngine(p).PerformanceData("sapbw", testNow, 24)
	if err != nil {
		t.Fatal(err)
	}

	if len(d.Timestamps) != 6 {
		t.Fatalf("measured path should use the snapshot grid, got %d points", len(d.Timestamps))
	}
	if d.Warehouse.MemoryCapacityTB != 23.25 {
		t.Errorf("capacity should come from the latest snapshot, got %v", d.Warehouse.MemoryCapacityTB)
	}
	if d.Warehouse.MemoryTB.Values[0] != 18.0 {
		t.Errorf("memory series should be the real values, got %v", d.Warehouse.MemoryTB.Values[0])
	}
	if len(d.Warehouse.Users.Values) != 6 {
		t.Error("synthetic users should align to the snapshot grid")
	}
}

func TestPipelineSummary(t *testing.T) {
	t.Run("counts real runs", func(t *testing.T) {
		p := static.New()
		p.Runs = []provider.PipelineRun{
			{Platform: "edlap", Status: provider.PipelineSuccessful},
			{Platform: "edlap", Status: provider.PipelineSuccessful},
			{Platform: "edlap", Status: provider.PipelineDelayed},
			{Platform: "edlap", Status: provider.PipelineFailed},
			{Platform: "edlap", Status: provider.PipelineNotApplicable},
			{Platform: "sapbw", Status: provider.PipelineFailed},
		}

		s := newTestEngine(p).PipelineSummary("edlap")
		want := PipelineSummary{Successful: 2, Delayed: 1, Failed: 1, NotApplicable: 1, Total: 5}
		if s != want {
			t.Errorf("summary = %+v, want %+v", s, want)
		}
	})

	t.Run("synthetic fallback", func(t *testing.T) {
		s := newTestEngine(static.New()).PipelineSummary("edlap")
		if s.Total != 245 {
			t.Errorf("expected 245 total, got %d", s.Total)
		}
		if s.Failed < 1 || s.Failed > 5 {
			t.Errorf("failed out of range: %d", s.Failed)
		}
		if s.Delayed < 3 || s.Delayed > 10 {
			t.Errorf("delayed out of range: %d", s.Delayed)
		}
		if s.Successful+s.Delayed+s.Failed != s.Total {
			t.Error("counts should sum to total")
		}

		if newTestEngine(static.New()).PipelineSummary("sapbw").Total != 150 {
			t.Error("expected 150 total for warehouse fallback")
		}
	})
}

func TestTicketHistory(t *testing.T) {
	p := static.New()
	for i := 0; i < 10; i++ {
		p.TicketRecords = append(p.TicketRecords, provider.TicketRecord{
			Platform: "tableau",
			Active:   true,
			Breached: i < 3,
		})
	}
	p.TicketRecords = append(p.TicketRecords, provider.TicketRecord{Platform: "edlap", Active: true})

	e := newTestEngine(p)
	h := e.TicketHistory("tableau", testNow, 30)

	if len(h.Dates) != 31 {
		t.Fatalf("expected 31 points for 30 days, got %d", len(h.Dates))
	}
	if h.CurrentCount != 10 || h.BreachedCount != 3 {
		t.Errorf("counts = %d/%d, want 10/3", h.CurrentCount, h.BreachedCount)
	}
	if h.OpenTickets.Values[30] != 10 {
		t.Errorf("last point should pin to current count, got %v", h.OpenTickets.Values[30])
	}
	if h.OverdueTickets.Values[30] != 3 {
		t.Errorf("last overdue point should pin to breached count, got %v", h.OverdueTickets.Values[30])
	}
	for i, v := range h.OverdueTickets.Values {
		if v > h.OpenTickets.Values[i] {
			t.Fatalf("overdue %v exceeds open %v at %d", v, h.OpenTickets.Values[i], i)
		}
		if v < 0 {
			t.Fatalf("negative overdue at %d", i)
		}
	}

	// The platform id seeds the stream, so different filters differ.
	all := e.TicketHistory("", testNow, 30)
	if all.CurrentCount != 11 {
		t.Errorf("unfiltered history should count every active ticket, got %d", all.CurrentCount)
	}
}

func TestHistoricalStats(t *testing.T) {
	e := newTestEngine(static.New())
	values := []float64{10, 20, 30}

	month := e.HistoricalStats(values, series.PeriodMonth)
	if month.Average < 18.4 || month.Average > 21.6 {
		t.Errorf("month average out of range: %v", month.Average)
	}
	if month.Peak < 33.0 || month.Peak > 40.5 {
		t.Errorf("month peak out of range: %v", month.Peak)
	}

	// Fixed stream per call, so repeated calls agree.
	if again := e.HistoricalStats(values, series.PeriodMonth); again != month {
		t.Errorf("expected reproducible stats, got %+v then %+v", month, again)
	}

	if empty := e.HistoricalStats(nil, series.PeriodWeek); empty.Average != 0 || empty.Peak != 0 {
		t.Errorf("empty input should zero the stats, got %+v", empty)
	}
}

func TestCapacityStats(t *testing.T) {
	p := static.New()
	p.Snapshots = []provider.CapacitySnapshot{
		{MemoryUsedTB: 18.0},
		{MemoryUsedTB: 19.0},
		{MemoryUsedTB: 20.0},
	}

	stats := newTestEngine(p).CapacityStats()
	if stats.Average != 19.0 || stats.Peak != 20.0 {
		t.Errorf("stats = %+v, want average 19 peak 20", stats)
	}

	empty := newTestEngine(static.New()).CapacityStats()
	if empty.Average != 0 || empty.Peak != 0 {
		t.Errorf("empty snapshots should zero the stats, got %+v", empty)
	}
}
