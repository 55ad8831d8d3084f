package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the full schema history. Migrations are embedded so a
// deployment is a single binary plus a database file; new schema changes
// append a new version and never edit an applied one.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_evidence_tables",
		SQL: `
			CREATE TABLE IF NOT EXISTS location_samples (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id TEXT NOT NULL,
				timestamp INTEGER NOT NULL,
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				provider TEXT NOT NULL DEFAULT '',
				activity TEXT NOT NULL DEFAULT '',
				battery INTEGER NOT NULL DEFAULT 0,
				mocked INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_location_samples_user_time
				ON location_samples(user_id, timestamp);

			CREATE TABLE IF NOT EXISTS screen_sessions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id TEXT NOT NULL,
				app_id TEXT NOT NULL,
				display_name TEXT NOT NULL DEFAULT '',
				start_time INTEGER NOT NULL,
				end_time INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_screen_sessions_user_time
				ON screen_sessions(user_id, start_time);

			CREATE TABLE IF NOT EXISTS health_workouts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id TEXT NOT NULL,
				activity_type TEXT NOT NULL,
				start_time INTEGER NOT NULL,
				end_time INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_health_workouts_user_time
				ON health_workouts(user_id, start_time);

			CREATE TABLE IF NOT EXISTS user_places (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				label TEXT NOT NULL,
				category TEXT NOT NULL DEFAULT 'other',
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				radius_meters REAL NOT NULL DEFAULT 100
			);
			CREATE INDEX IF NOT EXISTS idx_user_places_user
				ON user_places(user_id);
		`,
	},
	{
		Version: 2,
		Name:    "create_activity_segments",
		SQL: `
			CREATE TABLE IF NOT EXISTS activity_segments (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				start_time INTEGER NOT NULL,
				end_time INTEGER NOT NULL,
				hour_bucket INTEGER NOT NULL,
				place_id TEXT,
				place_label TEXT,
				place_category TEXT,
				centroid_lat REAL,
				centroid_lng REAL,
				inferred_activity TEXT NOT NULL,
				confidence REAL NOT NULL DEFAULT 0,
				top_apps TEXT NOT NULL DEFAULT '[]',
				total_screen_seconds INTEGER NOT NULL DEFAULT 0,
				evidence TEXT NOT NULL DEFAULT '{}',
				source_ids TEXT NOT NULL DEFAULT '[]',
				movement_type TEXT,
				distance_meters REAL
			);
			CREATE INDEX IF NOT EXISTS idx_activity_segments_user_hour
				ON activity_segments(user_id, hour_bucket);
			CREATE INDEX IF NOT EXISTS idx_activity_segments_user_time
				ON activity_segments(user_id, start_time);
		`,
	},
	{
		Version: 3,
		Name:    "create_hourly_summaries",
		SQL: `
			CREATE TABLE IF NOT EXISTS hourly_summaries (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				hour_start INTEGER NOT NULL,
				local_date TEXT NOT NULL,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				primary_place TEXT,
				primary_activity TEXT,
				app_breakdown TEXT NOT NULL DEFAULT '[]',
				total_screen_minutes INTEGER NOT NULL DEFAULT 0,
				confidence REAL NOT NULL DEFAULT 0,
				evidence_strength TEXT NOT NULL DEFAULT 'low',
				user_feedback TEXT,
				locked_at INTEGER,
				UNIQUE(user_id, hour_start)
			);
			CREATE INDEX IF NOT EXISTS idx_hourly_summaries_user_date
				ON hourly_summaries(user_id, local_date);
		`,
	},
	{
		Version: 4,
		Name:    "create_timeline_events",
		SQL: `
			CREATE TABLE IF NOT EXISTS timeline_events (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				source_id TEXT NOT NULL DEFAULT '',
				title TEXT NOT NULL,
				start_time INTEGER NOT NULL,
				end_time INTEGER NOT NULL,
				meta TEXT NOT NULL DEFAULT '{}',
				locked_at INTEGER
			);
			CREATE INDEX IF NOT EXISTS idx_timeline_events_user_time
				ON timeline_events(user_id, start_time);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_timeline_events_source
				ON timeline_events(user_id, source_id) WHERE source_id != '';
		`,
	},
}

// MigrationManager applies the embedded schema migrations
type MigrationManager struct {
	db *sql.DB
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *sql.DB) *MigrationManager {
	return &MigrationManager{db: db}
}

// InitMigrationsTable creates the migrations tracking table
func (m *MigrationManager) InitMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns a list of applied migration versions
func (m *MigrationManager) GetAppliedMigrations() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, nil
}

// ApplyMigration applies a single migration
func (m *MigrationManager) ApplyMigration(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	// Execute migration SQL
	_, err = tx.Exec(migration.SQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
	}

	// Record migration
	_, err = tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", migration.Version, migration.Name)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}

	log.Printf("Applied migration %d: %s", migration.Version, migration.Name)
	return nil
}

// RunMigrations runs all pending migrations
func (m *MigrationManager) RunMigrations() error {
	// Initialize migrations table
	if err := m.InitMigrationsTable(); err != nil {
		return err
	}

	// Get applied migrations
	applied, err := m.GetAppliedMigrations()
	if err != nil {
		return err
	}

	// Apply pending migrations
	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}

		if err := m.ApplyMigration(migration); err != nil {
			return err
		}
	}

	log.Println("All migrations applied successfully")
	return nil
}
