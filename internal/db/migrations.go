package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS upstream_snapshots (
		id          BIGSERIAL PRIMARY KEY,
		dataset     TEXT NOT NULL,
		cell_key    TEXT NOT NULL,
		lat         DOUBLE PRECISION,
		lon         DOUBLE PRECISION,
		radius_m    INT,
		payload     JSONB,
		fetched_at  TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_upstream_snapshots_cell ON upstream_snapshots(dataset, cell_key);`,
	`CREATE INDEX IF NOT EXISTS idx_upstream_snapshots_fetched_at ON upstream_snapshots(fetched_at);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
