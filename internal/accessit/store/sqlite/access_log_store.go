package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/AbelC27/AcessIT/internal/db"

	"github.com/AbelC27/AcessIT/internal/accessit/store"
)

type AccessLogStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAccessLogStore(db *sql.DB, writer *dbpkg.Worker) *AccessLogStore {
	return &AccessLogStore{db: db, writer: writer}
}

func (s *AccessLogStore) AppendLog(ctx context.Context, rec store.AccessLogRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	tsMs := rec.Timestamp.UTC().UnixMilli()

	var isVisitor int
	if rec.IsVisitor {
		isVisitor = 1
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO access_logs(id, user_id, timestamp_ms, direction, is_visitor, status, message)
VALUES (?, ?, ?, ?, ?, ?, ?);
`,
			rec.ID, rec.UserID, tsMs, rec.Direction, isVisitor, string(rec.Status), rec.Message,
		); err != nil {
			return fmt.Errorf("AppendLog insert: %w", err)
		}
		return nil
	})
}

func (s *AccessLogStore) GetLog(ctx context.Context, id string) (store.AccessLogRecord, error) {
	var (
		rec       store.AccessLogRecord
		tsMs      int64
		isVisitor int
		status    string
	)

	err := s.db.QueryRowContext(ctx, `
SELECT id, user_id, timestamp_ms, direction, is_visitor, status, message
FROM access_logs
WHERE id = ?;
`, id).Scan(&rec.ID, &rec.UserID, &tsMs, &rec.Direction, &isVisitor, &status, &rec.Message)

	if err == sql.ErrNoRows {
		return store.AccessLogRecord{}, store.ErrLogNotFound
	}
	if err != nil {
		return store.AccessLogRecord{}, fmt.Errorf("GetLog query: %w", err)
	}

	rec.Timestamp = time.UnixMilli(tsMs).UTC()
	rec.IsVisitor = isVisitor == 1
	rec.Status = store.Status(status)
	return rec, nil
}

func (s *AccessLogStore) UpdateLogStatus(ctx context.Context, id string, status store.Status, message string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE access_logs
SET status = ?, message = ?
WHERE id = ?;
`, string(status), message, id)
		if err != nil {
			return fmt.Errorf("UpdateLogStatus update: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("UpdateLogStatus rows affected: %w", err)
		}
		if n == 0 {
			return store.ErrLogNotFound
		}
		return nil
	})
}

func (s *AccessLogStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM access_logs WHERE timestamp_ms < ?;
`, cutoff.UTC().UnixMilli())
		if err != nil {
			return fmt.Errorf("PruneOlderThan delete: %w", err)
		}
		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("PruneOlderThan rows affected: %w", err)
		}
		return nil
	})
	return deleted, err
}
