package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbelC27/AcessIT/internal/accessit/store"
	"github.com/AbelC27/AcessIT/internal/accessit/store/sqlite"
)

func TestUserStore_FetchByCode(t *testing.T) {
	conn := openTestDB(t)
	insertEmployee(t, conn, "emp-1", "Ana Pop", "AABBCCDD", "08:00-18:00")
	insertEmployee(t, conn, "emp-2", "Ion Dinu", "EEFF0011", "")
	us := sqlite.NewUserStore(conn)
	ctx := context.Background()

	users, err := us.FetchUserByCode(ctx, "AABBCCDD")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, store.UserRecord{
		ID: "emp-1", Name: "Ana Pop", BluetoothCode: "AABBCCDD", AllowedSchedule: "08:00-18:00",
	}, users[0])

	// NULL schedule surfaces as empty string.
	users, err = us.FetchUserByCode(ctx, "EEFF0011")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].AllowedSchedule)
}

func TestUserStore_NoMatch_EmptySlice(t *testing.T) {
	conn := openTestDB(t)
	us := sqlite.NewUserStore(conn)

	users, err := us.FetchUserByCode(context.Background(), "NOSUCH")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserStore_EmptyCode_EmptySlice(t *testing.T) {
	conn := openTestDB(t)
	us := sqlite.NewUserStore(conn)

	users, err := us.FetchUserByCode(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, users)
}
