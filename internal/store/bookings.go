package store

import (
	"context"
	"fmt"
	"strconv"

	"okeiko-booking-backend/internal/model"
	"okeiko-booking-backend/internal/normalize"
	"okeiko-booking-backend/internal/rowstore"
)

// BookingLedger owns the reservation records in the bookings table. It does
// no validation of its own: capacity and uniqueness rules belong to the
// booking engine, the ledger only reads and writes records.
type BookingLedger struct {
	rows rowstore.Store
}

// NewBookingLedger creates a ledger over the given row store.
func NewBookingLedger(rows rowstore.Store) *BookingLedger {
	return &BookingLedger{rows: rows}
}

func bookingFromRow(row rowstore.Row) model.Booking {
	id, _ := strconv.Atoi(normalize.ID(row["appointment_id"]))
	return model.Booking{
		SlotID:   id,
		UserName: row["user_name"],
		BookedAt: row["booked_at"],
	}
}

// All returns every reservation in stored (insertion) order.
func (l *BookingLedger) All(ctx context.Context) ([]model.Booking, error) {
	rows, err := l.rows.ReadAll(ctx, rowstore.TableBookings)
	if err != nil {
		return nil, err
	}

	bookings := make([]model.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, bookingFromRow(row))
	}
	return bookings, nil
}

// Members returns the member identities booked into the slot, in stored
// (insertion) order. Ids are compared in normalized string form so a value
// that drifted through a spreadsheet round-trip still matches.
func (l *BookingLedger) Members(ctx context.Context, slotID string) ([]string, error) {
	rows, err := l.rows.ReadAll(ctx, rowstore.TableBookings)
	if err != nil {
		return nil, err
	}

	want := normalize.ID(slotID)
	var members []string
	for _, row := range rows {
		if normalize.ID(row["appointment_id"]) == want {
			members = append(members, row["user_name"])
		}
	}
	return members, nil
}

// Grouped returns every member list keyed by normalized slot id, each list
// in stored order. One read serves a whole appointment join.
func (l *BookingLedger) Grouped(ctx context.Context) (map[string][]string, error) {
	rows, err := l.rows.ReadAll(ctx, rowstore.TableBookings)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]string)
	for _, row := range rows {
		id := normalize.ID(row["appointment_id"])
		grouped[id] = append(grouped[id], row["user_name"])
	}
	return grouped, nil
}

// Has reports whether the member already holds a reservation on the slot.
func (l *BookingLedger) Has(ctx context.Context, slotID, member string) (bool, error) {
	members, err := l.Members(ctx, slotID)
	if err != nil {
		return false, err
	}
	for _, m := range members {
		if m == member {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of reservations held against the slot.
func (l *BookingLedger) Count(ctx context.Context, slotID string) (int, error) {
	members, err := l.Members(ctx, slotID)
	if err != nil {
		return 0, err
	}
	return len(members), nil
}

// Append records a reservation without any validation.
func (l *BookingLedger) Append(ctx context.Context, slotID, member, bookedAt string) error {
	values := []string{normalize.ID(slotID), member, bookedAt}
	if err := l.rows.AppendRow(ctx, rowstore.TableBookings, values); err != nil {
		return fmt.Errorf("append booking: %w", err)
	}
	return nil
}

// Remove deletes the first record matching (slotID, member) by its storage
// position. A missing record is ErrBookingNotFound: unlike slot deletion,
// a cancel against nothing is a user-facing condition, not a no-op.
func (l *BookingLedger) Remove(ctx context.Context, slotID, member string) error {
	rows, err := l.rows.ReadAll(ctx, rowstore.TableBookings)
	if err != nil {
		return err
	}

	want := normalize.ID(slotID)
	for i, row := range rows {
		if normalize.ID(row["appointment_id"]) == want && row["user_name"] == member {
			if err := l.rows.DeleteRow(ctx, rowstore.TableBookings, i+1); err != nil {
				return fmt.Errorf("remove booking: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: slot %s, member %q", ErrBookingNotFound, want, member)
}

// RemoveAllFor deletes every record referencing the slot. Used by the
// slot-deletion cascade, which also sweeps orphans left by earlier partial
// failures.
func (l *BookingLedger) RemoveAllFor(ctx context.Context, slotID string) error {
	rows, err := l.rows.ReadAll(ctx, rowstore.TableBookings)
	if err != nil {
		return err
	}

	want := normalize.ID(slotID)
	var positions []int
	for i, row := range rows {
		if normalize.ID(row["appointment_id"]) == want {
			positions = append(positions, i+1)
		}
	}

	// Descending order: positional deletes shift everything after the hole.
	for i := len(positions) - 1; i >= 0; i-- {
		if err := l.rows.DeleteRow(ctx, rowstore.TableBookings, positions[i]); err != nil {
			return fmt.Errorf("cascade bookings for slot %s: %w", want, err)
		}
	}
	return nil
}

// RemoveNewest deletes the most recently stored record for the slot. Used by
// the evict oversold policy to trim excess bookings newest-first.
func (l *BookingLedger) RemoveNewest(ctx context.Context, slotID string) error {
	rows, err := l.rows.ReadAll(ctx, rowstore.TableBookings)
	if err != nil {
		return err
	}

	want := normalize.ID(slotID)
	last := 0
	for i, row := range rows {
		if normalize.ID(row["appointment_id"]) == want {
			last = i + 1
		}
	}
	if last == 0 {
		return fmt.Errorf("%w: slot %s", ErrBookingNotFound, want)
	}
	if err := l.rows.DeleteRow(ctx, rowstore.TableBookings, last); err != nil {
		return fmt.Errorf("evict booking: %w", err)
	}
	return nil
}
