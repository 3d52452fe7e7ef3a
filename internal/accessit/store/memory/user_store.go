package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/AbelC27/AcessIT/internal/accessit/store"
)

// UserStore is an in-memory user directory keyed by bluetooth code.
// It is intended for tests and dev environments.
type UserStore struct {
	mu    sync.RWMutex
	users map[string][]store.UserRecord
}

func NewUserStore(users []store.UserRecord) *UserStore {
	byCode := make(map[string][]store.UserRecord, len(users))
	for _, u := range users {
		code := strings.TrimSpace(u.BluetoothCode)
		if code == "" {
			continue
		}
		byCode[code] = append(byCode[code], u)
	}
	return &UserStore{users: byCode}
}

func (s *UserStore) FetchUserByCode(_ context.Context, code string) ([]store.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.UserRecord, len(s.users[code]))
	copy(out, s.users[code])
	return out, nil
}
