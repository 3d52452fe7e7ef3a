package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/AbelC27/AcessIT/internal/accessit/store"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) FetchUserByCode(ctx context.Context, code string) ([]store.UserRecord, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, bluetooth_code, COALESCE(allowed_schedule, '')
FROM employees
WHERE bluetooth_code = ?;
`, code)
	if err != nil {
		return nil, fmt.Errorf("FetchUserByCode query: %w", err)
	}
	defer rows.Close()

	var users []store.UserRecord
	for rows.Next() {
		var u store.UserRecord
		if err := rows.Scan(&u.ID, &u.Name, &u.BluetoothCode, &u.AllowedSchedule); err != nil {
			return nil, fmt.Errorf("FetchUserByCode scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FetchUserByCode rows: %w", err)
	}
	return users, nil
}
