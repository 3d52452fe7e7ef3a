package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/AbelC27/AcessIT/internal/accessit/store"
)

// userRow mirrors the employees table.  allowed_schedule is nullable.
type userRow struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	BluetoothCode   string  `json:"bluetooth_code"`
	AllowedSchedule *string `json:"allowed_schedule"`
}

// logRow mirrors the access_logs table.  Timestamps travel as ISO strings;
// PostgREST emits them with or without an explicit offset depending on the
// column type, so reads are parsed leniently.
type logRow struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
	Direction string `json:"direction"`
	IsVisitor bool   `json:"is_visitor"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

func (c *Client) FetchUserByCode(ctx context.Context, code string) ([]store.UserRecord, error) {
	q := url.Values{}
	q.Set("bluetooth_code", "eq."+code)
	q.Set("select", "*")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.restURL("employees", q), nil)
	if err != nil {
		return nil, fmt.Errorf("FetchUserByCode request: %w", err)
	}

	var rows []userRow
	if err := c.do(req, "", &rows); err != nil {
		return nil, err
	}

	users := make([]store.UserRecord, 0, len(rows))
	for _, r := range rows {
		u := store.UserRecord{
			ID:            r.ID,
			Name:          r.Name,
			BluetoothCode: r.BluetoothCode,
		}
		if r.AllowedSchedule != nil {
			u.AllowedSchedule = *r.AllowedSchedule
		}
		users = append(users, u)
	}
	return users, nil
}

func (c *Client) AppendLog(ctx context.Context, rec store.AccessLogRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	row := logRow{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Timestamp: rec.Timestamp.UTC().Format(time.RFC3339Nano),
		Direction: rec.Direction,
		IsVisitor: rec.IsVisitor,
		Status:    string(rec.Status),
		Message:   rec.Message,
	}

	body, err := jsonBody(row)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.restURL("access_logs", nil), body)
	if err != nil {
		return fmt.Errorf("AppendLog request: %w", err)
	}
	return c.do(req, "return=minimal", nil)
}

func (c *Client) GetLog(ctx context.Context, id string) (store.AccessLogRecord, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("select", "*")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.restURL("access_logs", q), nil)
	if err != nil {
		return store.AccessLogRecord{}, fmt.Errorf("GetLog request: %w", err)
	}

	var rows []logRow
	if err := c.do(req, "", &rows); err != nil {
		return store.AccessLogRecord{}, err
	}
	if len(rows) == 0 {
		return store.AccessLogRecord{}, store.ErrLogNotFound
	}

	r := rows[0]
	return store.AccessLogRecord{
		ID:        r.ID,
		UserID:    r.UserID,
		Timestamp: parseTimestamp(r.Timestamp),
		Direction: r.Direction,
		IsVisitor: r.IsVisitor,
		Status:    store.Status(r.Status),
		Message:   r.Message,
	}, nil
}

func (c *Client) UpdateLogStatus(ctx context.Context, id string, status store.Status, message string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	body, err := jsonBody(map[string]string{
		"status":  string(status),
		"message": message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.restURL("access_logs", q), body)
	if err != nil {
		return fmt.Errorf("UpdateLogStatus request: %w", err)
	}
	return c.do(req, "return=minimal", nil)
}

func (c *Client) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := url.Values{}
	q.Set("timestamp", "lt."+cutoff.UTC().Format(time.RFC3339Nano))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.restURL("access_logs", q), nil)
	if err != nil {
		return 0, fmt.Errorf("PruneOlderThan request: %w", err)
	}

	// return=representation so the count of deleted rows is observable.
	var rows []logRow
	if err := c.do(req, "return=representation", &rows); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// parseTimestamp accepts the timestamp shapes PostgREST produces.  A value
// that parses under none of them yields the zero time rather than an error;
// the timestamp is informational on reads.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
