package rowstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDBStore(t *testing.T) *DBStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	s, err := NewDBStore(db)
	require.NoError(t, err)
	return s
}

func TestDBStore_AppendAndReadAll(t *testing.T) {
	s := newTestDBStore(t)
	ctx := context.Background()

	rows, err := s.ReadAll(ctx, TableSchedule)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, s.AppendRow(ctx, TableSchedule, []string{"1", "2025-12-06", "09:00", "5", "opening"}))
	require.NoError(t, s.AppendRow(ctx, TableSchedule, []string{"2", "2025-12-20", "11:00", "3", ""}))

	rows, err = s.ReadAll(ctx, TableSchedule)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "opening", rows[0]["comment"])
	assert.Equal(t, "2", rows[1]["id"])
}

func TestDBStore_TablesAreIsolated(t *testing.T) {
	s := newTestDBStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendRow(ctx, TableSchedule, []string{"1", "2025-12-06", "09:00", "5", ""}))
	require.NoError(t, s.AppendRow(ctx, TableBookings, []string{"1", "A", "2025-12-01 10:00:00"}))

	rows, err := s.ReadAll(ctx, TableBookings)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0]["user_name"])
}

func TestDBStore_DeleteRowIsPositional(t *testing.T) {
	s := newTestDBStore(t)
	ctx := context.Background()

	for _, member := range []string{"A", "B", "C"} {
		require.NoError(t, s.AppendRow(ctx, TableBookings, []string{"1", member, ""}))
	}

	require.NoError(t, s.DeleteRow(ctx, TableBookings, 2))

	rows, err := s.ReadAll(ctx, TableBookings)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0]["user_name"])
	assert.Equal(t, "C", rows[1]["user_name"])

	assert.ErrorIs(t, s.DeleteRow(ctx, TableBookings, 3), ErrRowNotFound)
}

func TestDBStore_FindRow(t *testing.T) {
	s := newTestDBStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendRow(ctx, TableUsers, []string{"u1", "pw", "Alice", ""}))

	pos, err := s.FindRow(ctx, TableUsers, "Alice")
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	_, err = s.FindRow(ctx, TableUsers, "nobody")
	assert.ErrorIs(t, err, ErrRowNotFound)
}
