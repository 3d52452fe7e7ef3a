package store

import (
	"context"
	"errors"
	"time"
)

// Status is the lifecycle state of an access-log record.  pending is the
// only non-terminal state; granted and denied are never transitioned out of.
type Status string

const (
	StatusGranted Status = "granted"
	StatusPending Status = "pending"
	StatusDenied  Status = "denied"
)

// ErrLogNotFound is returned by GetLog when no record exists for the id.
var ErrLogNotFound = errors.New("access log not found")

// UserRecord is a read-only view of an employee row.  AllowedSchedule is the
// raw "HH:MM-HH:MM" window string; it may be empty when none is configured.
type UserRecord struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	BluetoothCode   string `json:"bluetooth_code"`
	AllowedSchedule string `json:"allowed_schedule"`
}

// AccessLogRecord captures a single access decision for the audit log.
type AccessLogRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Direction string    `json:"direction"`
	IsVisitor bool      `json:"is_visitor"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
}

// UserStore resolves scanned credential codes to user records.
type UserStore interface {
	// FetchUserByCode returns every user whose bluetooth code matches.
	// An empty slice (not an error) means no match.
	FetchUserByCode(ctx context.Context, code string) ([]UserRecord, error)
}

// AccessLogStore persists access decisions.
type AccessLogStore interface {
	AppendLog(ctx context.Context, rec AccessLogRecord) error
	GetLog(ctx context.Context, id string) (AccessLogRecord, error)

	// UpdateLogStatus overwrites status and message for the given id,
	// regardless of the record's current state.
	UpdateLogStatus(ctx context.Context, id string, status Status, message string) error

	// PruneOlderThan deletes log records with a timestamp before cutoff,
	// returning how many were removed.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
