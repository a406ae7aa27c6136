// Package sqlite backs the provider interface and the health audit trail
// with an embedded SQLite database.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/opsdash/platform-pulse/internal/health"
	"github.com/opsdash/platform-pulse/internal/provider"
)

// Store implements provider.Provider plus the health audit trail.
type Store struct {
	db *sql.DB
}

// NewStore opens (and migrates) the database at the given path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Tickets loads every ticket row. Failures degrade to an empty slice so the
// engine falls back to simulated data instead of erroring.
func (s *Store) Tickets() []provider.TicketRecord {
	rows, err := s.db.Query(`
		SELECT id, platform, title, priority, age_days, is_active, is_breached
		FROM tickets
	`)
	if err != nil {
		log.Printf("Warning: failed to load tickets: %v", err)
		return nil
	}
	defer rows.Close()

	var tickets []provider.TicketRecord
	for rows.Next() {
		var t provider.TicketRecord
		var priority string
		if err := rows.Scan(&t.ID, &t.Platform, &t.Title, &priority, &t.AgeDays, &t.Active, &t.Breached); err != nil {
			log.Printf("Warning: skipping malformed ticket row: %v", err)
			continue
		}
		t.Priority = provider.TicketPriority(priority)
		tickets = append(tickets, t)
	}
	return tickets
}

// PipelineRuns loads pipeline run records for one platform.
func (s *Store) PipelineRuns(platform string) []provider.PipelineRun {
	rows, err := s.db.Query(`SELECT platform, status FROM pipeline_runs WHERE platform = ?`, platform)
	if err != nil {
		log.Printf("Warning: failed to load pipeline runs: %v", err)
		return nil
	}
	defer rows.Close()

	var runs []provider.PipelineRun
	for rows.Next() {
		var r provider.PipelineRun
		var status string
		if err := rows.Scan(&r.Platform, &status); err != nil {
			log.Printf("Warning: skipping malformed pipeline row: %v", err)
			continue
		}
		r.Status = provider.PipelineStatus(status)
		runs = append(runs, r)
	}
	return runs
}

// CapacitySnapshots loads capacity rows ordered by snapshot time. Rows with
// an unparseable timestamp are skipped with a warning; the rest still load.
func (s *Store) CapacitySnapshots() []provider.CapacitySnapshot {
	rows, err := s.db.Query(`
		SELECT id, snapshot_ts, memory_used_tb, memory_capacity_tb, storage_used_tb, storage_capacity_tb
		FROM capacity_snapshots
		ORDER BY snapshot_ts ASC
	`)
	if err != nil {
		log.Printf("Warning: failed to load capacity snapshots: %v", err)
		return nil
	}
	defer rows.Close()

	var snapshots []provider.CapacitySnapshot
	for rows.Next() {
		var snap provider.CapacitySnapshot
		var ts string
		if err := rows.Scan(&snap.ID, &ts, &snap.MemoryUsedTB, &snap.MemoryCapacityTB,
			&snap.StorageUsedTB, &snap.StorageCapacityTB); err != nil {
			log.Printf("Warning: skipping malformed capacity row: %v", err)
			continue
		}
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			log.Printf("Warning: skipping capacity row %s: bad timestamp %q", snap.ID, ts)
			continue
		}
		snap.Timestamp = parsed
		snapshots = append(snapshots, snap)
	}
	return snapshots
}

// InsertTicket upserts a ticket row.
func (s *Store) InsertTicket(t provider.TicketRecord) error {
	query := `
		INSERT INTO tickets (id, platform, title, priority, age_days, is_active, is_breached)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			platform = excluded.platform,
			title = excluded.title,
			priority = excluded.priority,
			age_days = excluded.age_days,
			is_active = excluded.is_active,
			is_breached = excluded.is_breached
	`
	_, err := s.db.Exec(query, t.ID, t.Platform, t.Title, string(t.Priority), t.AgeDays, t.Active, t.Breached)
	if err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	return nil
}

// InsertPipelineRun appends a pipeline run record.
func (s *Store) InsertPipelineRun(r provider.PipelineRun) error {
	_, err := s.db.Exec(`INSERT INTO pipeline_runs (platform, status) VALUES (?, ?)`,
		r.Platform, string(r.Status))
	if err != nil {
		return fmt.Errorf("failed to insert pipeline run: %w", err)
	}
	return nil
}

// InsertCapacitySnapshot appends a capacity row, assigning an id when the
// record carries none.
func (s *Store) InsertCapacitySnapshot(snap provider.CapacitySnapshot) error {
	id := snap.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.Exec(`
		INSERT INTO capacity_snapshots (id, snapshot_ts, memory_used_tb, memory_capacity_tb, storage_used_tb, storage_capacity_tb)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, snap.Timestamp.Format(time.RFC3339), snap.MemoryUsedTB, snap.MemoryCapacityTB,
		snap.StorageUsedTB, snap.StorageCapacityTB)
	if err != nil {
		return fmt.Errorf("failed to insert capacity snapshot: %w", err)
	}
	return nil
}

// HealthRecord is one audited health evaluation.
type HealthRecord struct {
	ID          string
	Platform    string
	Status      string
	Trend       string
	Metrics     health.Metrics
	EvaluatedAt time.Time
}

// StoreHealthSnapshot appends one evaluation result to the audit trail.
func (s *Store) StoreHealthSnapshot(h health.PlatformHealth, evaluatedAt time.Time) error {
	metricsJSON, err := json.Marshal(h.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO health_snapshots (id, platform, status, trend, metrics_json, evaluated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), h.ID, string(h.Status), string(h.Trend), string(metricsJSON), evaluatedAt)
	if err != nil {
		return fmt.Errorf("failed to store health snapshot: %w", err)
	}
	return nil
}

// LatestHealth returns the most recent audited evaluation for a platform.
func (s *Store) LatestHealth(platform string) (*HealthRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, platform, status, trend, metrics_json, evaluated_at
		FROM health_snapshots
		WHERE platform = ?
		ORDER BY evaluated_at DESC
		LIMIT 1
	`, platform)

	rec, err := scanHealthRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest health: %w", err)
	}
	return rec, nil
}

// RecentHealth returns up to limit audited evaluations for a platform,
// newest first.
func (s *Store) RecentHealth(platform string, limit int) ([]HealthRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, platform, status, trend, metrics_json, evaluated_at
		FROM health_snapshots
		WHERE platform = ?
		ORDER BY evaluated_at DESC
		LIMIT ?
	`, platform, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent health: %w", err)
	}
	defer rows.Close()

	var records []HealthRecord
	for rows.Next() {
		rec, err := scanHealthRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan health record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHealthRecord(row rowScanner) (*HealthRecord, error) {
	var rec HealthRecord
	var metricsJSON string
	if err := row.Scan(&rec.ID, &rec.Platform, &rec.Status, &rec.Trend, &metricsJSON, &rec.EvaluatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(metricsJSON), &rec.Metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
	}
	return &rec, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
