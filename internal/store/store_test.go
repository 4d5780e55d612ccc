package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okeiko-booking-backend/internal/rowstore"
)

func newTestStore(t *testing.T) rowstore.Store {
	t.Helper()
	s, err := rowstore.NewCSVStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSlotRegistry_CreateAssignsMaxPlusOne(t *testing.T) {
	rows := newTestStore(t)
	reg := NewSlotRegistry(rows)
	ctx := context.Background()

	// Existing ids {1, 3, 5}: next id is 6, the gap at 2 is never reused.
	for _, id := range []string{"1", "3", "5"} {
		require.NoError(t, rows.AppendRow(ctx, rowstore.TableSchedule, []string{id, "2025-12-06", "09:00", "5", ""}))
	}

	slot, err := reg.Create(ctx, "2025-12-24", "10:00", 4, "year-end lesson")
	require.NoError(t, err)
	assert.Equal(t, 6, slot.ID)

	empty := NewSlotRegistry(newTestStore(t))
	first, err := empty.Create(ctx, "2025-12-24", "10:00", 4, "")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
}

func TestSlotRegistry_CreateCanonicalizesDateAndTime(t *testing.T) {
	reg := NewSlotRegistry(newTestStore(t))

	slot, err := reg.Create(context.Background(), "2025/12/2", "9:0", 5, "")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-02", slot.Date)
	assert.Equal(t, "09:00", slot.Time)
}

func TestSlotRegistry_ListSortsByDateThenTime(t *testing.T) {
	rows := newTestStore(t)
	reg := NewSlotRegistry(rows)
	ctx := context.Background()

	require.NoError(t, rows.AppendRow(ctx, rowstore.TableSchedule, []string{"1", "2025-12-20", "11:00", "5", ""}))
	require.NoError(t, rows.AppendRow(ctx, rowstore.TableSchedule, []string{"2", "2025-12-06", "14:00", "5", ""}))
	require.NoError(t, rows.AppendRow(ctx, rowstore.TableSchedule, []string{"3", "2025-12-06", "09:00", "5", ""}))

	slots, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, 3, slots[0].ID)
	assert.Equal(t, 2, slots[1].ID)
	assert.Equal(t, 1, slots[2].ID)
}

func TestSlotRegistry_DeleteIsIdempotent(t *testing.T) {
	rows := newTestStore(t)
	reg := NewSlotRegistry(rows)
	ctx := context.Background()

	require.NoError(t, rows.AppendRow(ctx, rowstore.TableSchedule, []string{"1", "2025-12-06", "09:00", "5", ""}))

	require.NoError(t, reg.Delete(ctx, "1"))
	require.NoError(t, reg.Delete(ctx, "1")) // already gone, silent no-op

	slots, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotRegistry_FindComparesNormalizedIDs(t *testing.T) {
	rows := newTestStore(t)
	reg := NewSlotRegistry(rows)
	ctx := context.Background()

	// A spreadsheet round-trip can turn the integer id into "3.0".
	require.NoError(t, rows.AppendRow(ctx, rowstore.TableSchedule, []string{"3.0", "2025-12-06", "09:00", "5", ""}))

	slot, err := reg.Find(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 3, slot.ID)

	_, err = reg.Find(ctx, "4")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestBookingLedger_MembersKeepInsertionOrder(t *testing.T) {
	rows := newTestStore(t)
	ledger := NewBookingLedger(rows)
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, "1", "Alice", "2025-12-01 10:00:00"))
	require.NoError(t, ledger.Append(ctx, "2", "Bob", "2025-12-01 10:01:00"))
	require.NoError(t, ledger.Append(ctx, "1", "Carol", "2025-12-01 10:02:00"))

	members, err := ledger.Members(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Carol"}, members)

	n, err := ledger.Count(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	has, err := ledger.Has(ctx, "1", "Alice")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = ledger.Has(ctx, "1", "Bob")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBookingLedger_AllReturnsTypedRecords(t *testing.T) {
	rows := newTestStore(t)
	ledger := NewBookingLedger(rows)
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, "3.0", "Alice", "2025-12-01 10:00:00"))

	bookings, err := ledger.All(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, 3, bookings[0].SlotID)
	assert.Equal(t, "Alice", bookings[0].UserName)
	assert.Equal(t, "2025-12-01 10:00:00", bookings[0].BookedAt)
}

func TestBookingLedger_RemoveFirstMatchOnly(t *testing.T) {
	rows := newTestStore(t)
	ledger := NewBookingLedger(rows)
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, "1", "Alice", "t1"))
	require.NoError(t, ledger.Append(ctx, "1", "Alice", "t2")) // ledger itself does not dedupe

	require.NoError(t, ledger.Remove(ctx, "1", "Alice"))

	members, err := ledger.Members(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, members)

	require.NoError(t, ledger.Remove(ctx, "1", "Alice"))
	assert.ErrorIs(t, ledger.Remove(ctx, "1", "Alice"), ErrBookingNotFound)
}

func TestBookingLedger_RemoveAllFor(t *testing.T) {
	rows := newTestStore(t)
	ledger := NewBookingLedger(rows)
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, "1", "Alice", ""))
	require.NoError(t, ledger.Append(ctx, "2", "Bob", ""))
	require.NoError(t, ledger.Append(ctx, "1", "Carol", ""))
	require.NoError(t, ledger.Append(ctx, "1", "Dave", ""))

	require.NoError(t, ledger.RemoveAllFor(ctx, "1"))

	members, err := ledger.Members(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, members)

	members, err = ledger.Members(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, members)

	// Cascading an id with no records is fine.
	require.NoError(t, ledger.RemoveAllFor(ctx, "1"))
}

func TestBookingLedger_RemoveNewest(t *testing.T) {
	rows := newTestStore(t)
	ledger := NewBookingLedger(rows)
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, "1", "Alice", "t1"))
	require.NoError(t, ledger.Append(ctx, "1", "Bob", "t2"))

	require.NoError(t, ledger.RemoveNewest(ctx, "1"))

	members, err := ledger.Members(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, members)

	require.NoError(t, ledger.RemoveNewest(ctx, "1"))
	assert.ErrorIs(t, ledger.RemoveNewest(ctx, "1"), ErrBookingNotFound)
}
