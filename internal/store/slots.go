package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"okeiko-booking-backend/internal/model"
	"okeiko-booking-backend/internal/normalize"
	"okeiko-booking-backend/internal/rowstore"
)

// SlotRegistry owns the set of bookable slots in the schedule table.
type SlotRegistry struct {
	rows rowstore.Store
}

// NewSlotRegistry creates a registry over the given row store.
func NewSlotRegistry(rows rowstore.Store) *SlotRegistry {
	return &SlotRegistry{rows: rows}
}

func slotFromRow(row rowstore.Row) model.Slot {
	id, _ := strconv.Atoi(normalize.ID(row["id"]))
	capacity, _ := strconv.Atoi(normalize.ID(row["capacity"]))
	return model.Slot{
		ID:       id,
		Date:     normalize.Date(row["date"]),
		Time:     normalize.Clock(row["time"]),
		Capacity: capacity,
		Comment:  row["comment"],
	}
}

// List returns all live slots sorted by (date, time) ascending, lexicographic
// on the canonical strings.
func (r *SlotRegistry) List(ctx context.Context) ([]model.Slot, error) {
	rows, err := r.rows.ReadAll(ctx, rowstore.TableSchedule)
	if err != nil {
		return nil, err
	}

	slots := make([]model.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, slotFromRow(row))
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Time < slots[j].Time
	})
	return slots, nil
}

// Create appends a new slot. The id set is re-read immediately before the new
// id is computed (max existing + 1, or 1 on an empty registry) to keep the
// collision window under concurrent creators as small as the medium allows.
// Gaps in the id sequence are never reused.
func (r *SlotRegistry) Create(ctx context.Context, date, clock string, capacity int, comment string) (model.Slot, error) {
	rows, err := r.rows.ReadAll(ctx, rowstore.TableSchedule)
	if err != nil {
		return model.Slot{}, err
	}

	nextID := 1
	for _, row := range rows {
		if id, err := strconv.Atoi(normalize.ID(row["id"])); err == nil && id >= nextID {
			nextID = id + 1
		}
	}

	slot := model.Slot{
		ID:       nextID,
		Date:     normalize.Date(date),
		Time:     normalize.Clock(clock),
		Capacity: capacity,
		Comment:  comment,
	}
	values := []string{
		strconv.Itoa(slot.ID),
		slot.Date,
		slot.Time,
		strconv.Itoa(slot.Capacity),
		slot.Comment,
	}
	if err := r.rows.AppendRow(ctx, rowstore.TableSchedule, values); err != nil {
		return model.Slot{}, fmt.Errorf("append slot: %w", err)
	}
	return slot, nil
}

// Delete removes the slot with the given id. Ids are compared in normalized
// string form. A missing slot is a silent no-op; deletion is idempotent.
func (r *SlotRegistry) Delete(ctx context.Context, id string) error {
	rows, err := r.rows.ReadAll(ctx, rowstore.TableSchedule)
	if err != nil {
		return err
	}

	want := normalize.ID(id)
	var positions []int
	for i, row := range rows {
		if normalize.ID(row["id"]) == want {
			positions = append(positions, i+1)
		}
	}

	// Descending order keeps the remaining positions stable across deletes.
	for i := len(positions) - 1; i >= 0; i-- {
		if err := r.rows.DeleteRow(ctx, rowstore.TableSchedule, positions[i]); err != nil {
			return fmt.Errorf("delete slot %s: %w", want, err)
		}
	}
	return nil
}

// Find returns the slot with the given id, or ErrSlotNotFound.
func (r *SlotRegistry) Find(ctx context.Context, id string) (model.Slot, error) {
	rows, err := r.rows.ReadAll(ctx, rowstore.TableSchedule)
	if err != nil {
		return model.Slot{}, err
	}

	want := normalize.ID(id)
	for _, row := range rows {
		if normalize.ID(row["id"]) == want {
			return slotFromRow(row), nil
		}
	}
	return model.Slot{}, fmt.Errorf("%w: id %s", ErrSlotNotFound, want)
}
