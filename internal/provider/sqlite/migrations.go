package sqlite

// Schema defines the SQLite database schema
const Schema = `
-- Service tickets table
CREATE TABLE IF NOT EXISTS tickets (
	id TEXT PRIMARY KEY,
	platform TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL DEFAULT 'Low',
	age_days INTEGER NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	is_breached BOOLEAN NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tickets_platform ON tickets(platform);
CREATE INDEX IF NOT EXISTS idx_tickets_active ON tickets(is_active);

-- Pipeline run records table
CREATE TABLE IF NOT EXISTS pipeline_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	platform TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_pipeline_runs_platform ON pipeline_runs(platform);

-- Periodic capacity usage snapshots (warehouse platform)
CREATE TABLE IF NOT EXISTS capacity_snapshots (
	id TEXT PRIMARY KEY,
	snapshot_ts TEXT NOT NULL,
	memory_used_tb REAL NOT NULL,
	memory_capacity_tb REAL NOT NULL,
	storage_used_tb REAL NOT NULL,
	storage_capacity_tb REAL NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_capacity_snapshots_ts ON capacity_snapshots(snapshot_ts);

-- Health evaluation audit trail (one row per evaluation)
CREATE TABLE IF NOT EXISTS health_snapshots (
	id TEXT PRIMARY KEY,
	platform TEXT NOT NULL,
	status TEXT NOT NULL,
	trend TEXT NOT NULL,
	metrics_json TEXT NOT NULL,
	evaluated_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_health_snapshots_platform ON health_snapshots(platform);
CREATE INDEX IF NOT EXISTS idx_health_snapshots_evaluated_at ON health_snapshots(evaluated_at DESC);
`
