package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS shipments (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					status TEXT NOT NULL DEFAULT 'DRAFT',
					total_items_count INTEGER NOT NULL DEFAULT 0,
					total_value TEXT NOT NULL DEFAULT '0',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_shipments_status ON shipments(status)`,

				`CREATE TABLE IF NOT EXISTS shipment_items (
					id TEXT PRIMARY KEY,
					shipment_id TEXT NOT NULL,
					variant_id TEXT,
					sku TEXT,
					barcode TEXT,
					title TEXT,
					unit_price TEXT NOT NULL DEFAULT '0',
					quantity_planned INTEGER NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (shipment_id) REFERENCES shipments(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_shipment_items_shipment ON shipment_items(shipment_id)`,
				`CREATE INDEX idx_shipment_items_variant ON shipment_items(variant_id)`,

				`CREATE TABLE IF NOT EXISTS variants (
					id TEXT,
					sku TEXT,
					barcode TEXT,
					alternate_code TEXT,
					title TEXT,
					unit_price TEXT NOT NULL DEFAULT '0',
					available INTEGER NOT NULL DEFAULT 0
				)`,
				`CREATE INDEX idx_variants_sku ON variants(sku)`,
				`CREATE INDEX idx_variants_barcode ON variants(barcode)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add shipment status history for auditing",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS shipment_status_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					shipment_id TEXT NOT NULL,
					from_status TEXT NOT NULL,
					to_status TEXT NOT NULL,
					changed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (shipment_id) REFERENCES shipments(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX IF NOT EXISTS idx_status_history_shipment ON shipment_status_history(shipment_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
