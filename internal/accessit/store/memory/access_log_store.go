package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AbelC27/AcessIT/internal/accessit/store"
)

// AccessLogStore is an in-memory access-decision log.  It is intended for
// tests and dev environments.
type AccessLogStore struct {
	mu   sync.Mutex
	logs map[string]store.AccessLogRecord
}

func NewAccessLogStore() *AccessLogStore {
	return &AccessLogStore{logs: make(map[string]store.AccessLogRecord)}
}

func (s *AccessLogStore) AppendLog(_ context.Context, rec store.AccessLogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	s.logs[rec.ID] = rec
	return nil
}

func (s *AccessLogStore) GetLog(_ context.Context, id string) (store.AccessLogRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.logs[id]
	if !ok {
		return store.AccessLogRecord{}, store.ErrLogNotFound
	}
	return rec, nil
}

func (s *AccessLogStore) UpdateLogStatus(_ context.Context, id string, status store.Status, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.logs[id]
	if !ok {
		return store.ErrLogNotFound
	}
	rec.Status = status
	rec.Message = message
	s.logs[id] = rec
	return nil
}

func (s *AccessLogStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, rec := range s.logs {
		if rec.Timestamp.Before(cutoff) {
			delete(s.logs, id)
			deleted++
		}
	}
	return deleted, nil
}

// Logs returns a copy of all stored records.  Test-only helper.
func (s *AccessLogStore) Logs() []store.AccessLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.AccessLogRecord, 0, len(s.logs))
	for _, rec := range s.logs {
		out = append(out, rec)
	}
	return out
}
