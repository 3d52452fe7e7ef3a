package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedDev inserts a starter employee so a dev instance answers scans out of
// the box.  Safe to run repeatedly.
func SeedDev(ctx context.Context, db *sql.DB) error {
	now := time.Now().UTC().UnixMilli()

	if _, err := db.ExecContext(ctx, `
INSERT INTO employees(id, name, bluetooth_code, allowed_schedule, created_at_ms, updated_at_ms)
VALUES ('emp-dev-001', 'Dev Employee', 'DEVCODE01', '08:00-18:00', ?, ?)
ON CONFLICT(id) DO UPDATE SET
  bluetooth_code   = excluded.bluetooth_code,
  allowed_schedule = excluded.allowed_schedule,
  updated_at_ms    = excluded.updated_at_ms;
`, now, now); err != nil {
		return fmt.Errorf("seed employee emp-dev-001: %w", err)
	}

	return nil
}
