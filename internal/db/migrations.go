package db

import (
	"fmt"

	"gorm.io/gorm"

	"fault-service/internal/config"
)

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS faults (
		id BIGSERIAL PRIMARY KEY,
		reporter_name VARCHAR(128) NOT NULL,
		fault_time TIMESTAMPTZ NOT NULL,
		vehicle_id VARCHAR(128) NOT NULL,
		category VARCHAR(64) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		solution TEXT NOT NULL DEFAULT '',
		responsible_person VARCHAR(128) NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL DEFAULT 'PENDING',
		resolution_log TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_faults_fault_time ON faults (fault_time);`,
	`CREATE INDEX IF NOT EXISTS idx_faults_status ON faults (status);`,
	`CREATE INDEX IF NOT EXISTS idx_faults_vehicle_id ON faults (vehicle_id);`,
	`CREATE TABLE IF NOT EXISTS fault_status_log (
		id UUID PRIMARY KEY,
		fault_id BIGINT NOT NULL REFERENCES faults(id) ON DELETE CASCADE,
		old_status VARCHAR(32),
		new_status VARCHAR(32) NOT NULL,
		note TEXT,
		changed_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_fault_status_log_fault_id ON fault_status_log (fault_id);`,
}

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS faults (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reporter_name TEXT NOT NULL,
		fault_time DATETIME NOT NULL,
		vehicle_id TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		solution TEXT NOT NULL DEFAULT '',
		responsible_person TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'PENDING',
		resolution_log TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE INDEX IF NOT EXISTS idx_faults_fault_time ON faults (fault_time);`,
	`CREATE INDEX IF NOT EXISTS idx_faults_status ON faults (status);`,
	`CREATE INDEX IF NOT EXISTS idx_faults_vehicle_id ON faults (vehicle_id);`,
	`CREATE TABLE IF NOT EXISTS fault_status_log (
		id TEXT PRIMARY KEY,
		fault_id INTEGER NOT NULL REFERENCES faults(id) ON DELETE CASCADE,
		old_status TEXT,
		new_status TEXT NOT NULL,
		note TEXT,
		changed_by TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE INDEX IF NOT EXISTS idx_fault_status_log_fault_id ON fault_status_log (fault_id);`,
}

func runMigrations(db *gorm.DB, driver string) error {
	var statements []string
	switch driver {
	case config.DriverPostgres:
		statements = postgresMigrations
	case config.DriverSQLite:
		statements = sqliteMigrations
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}
	for i, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
