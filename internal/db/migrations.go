package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: field groups and locations are always read in position order.
	`CREATE INDEX IF NOT EXISTS idx_pass_fields_position
	     ON pass_fields(pass_id, field_group, position)`,
	`CREATE INDEX IF NOT EXISTS idx_pass_locations_position
	     ON pass_locations(pass_id, position)`,
}

// Migrate ensures the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
