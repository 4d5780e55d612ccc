package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"okeiko-booking-backend/config"
	"okeiko-booking-backend/internal/model"
	"okeiko-booking-backend/internal/normalize"
	"okeiko-booking-backend/internal/rowstore"
	"okeiko-booking-backend/internal/store"
)

const bookedAtLayout = "2006-01-02 15:04:05"

// Engine orchestrates the slot registry and the booking ledger. Every
// mutating entry point re-fetches current state immediately before deciding,
// because another session may have written to the shared store since the
// caller last read it, and runs under the per-slot lock so the capacity and
// uniqueness checks cannot race with a concurrent append in this process.
type Engine struct {
	slots          *store.SlotRegistry
	ledger         *store.BookingLedger
	oversoldPolicy string
	locks          *slotLocks
	logger         *zap.Logger
	now            func() time.Time
}

// New creates a booking engine. oversoldPolicy is one of the config.Oversold
// values and only matters for slots whose capacity was lowered after bookings
// existed.
func New(slots *store.SlotRegistry, ledger *store.BookingLedger, oversoldPolicy string, logger *zap.Logger) *Engine {
	return &Engine{
		slots:          slots,
		ledger:         ledger,
		oversoldPolicy: oversoldPolicy,
		locks:          newSlotLocks(),
		logger:         logger,
		now:            time.Now,
	}
}

// failure maps a storage-layer error onto a tagged result.
func failure(err error) Result {
	var schemaErr *rowstore.SchemaError
	if errors.As(err, &schemaErr) {
		return fail(KindSchemaError, schemaErr.Error())
	}
	return fail(KindStorageError, "the reservation store is unavailable, please try again")
}

// Reserve books one seat in the slot for the member.
func (e *Engine) Reserve(ctx context.Context, slotID, member string) Result {
	id := normalize.ID(slotID)
	lock := e.locks.get(id)
	lock.Lock()
	defer lock.Unlock()

	slot, err := e.slots.Find(ctx, id)
	if errors.Is(err, store.ErrSlotNotFound) {
		return fail(KindSlotNotFound, "that lesson slot no longer exists")
	}
	if err != nil {
		e.logger.Error("reserve: read slot", zap.String("slot_id", id), zap.Error(err))
		return failure(err)
	}

	has, err := e.ledger.Has(ctx, id, member)
	if err != nil {
		e.logger.Error("reserve: read bookings", zap.String("slot_id", id), zap.Error(err))
		return failure(err)
	}
	if has {
		return fail(KindAlreadyBooked, "you already hold a seat in this slot")
	}

	count, err := e.ledger.Count(ctx, id)
	if err != nil {
		e.logger.Error("reserve: count bookings", zap.String("slot_id", id), zap.Error(err))
		return failure(err)
	}
	if count >= slot.Capacity {
		return fail(KindSlotFull, "this slot is fully booked")
	}

	if err := e.ledger.Append(ctx, id, member, e.now().Format(bookedAtLayout)); err != nil {
		e.logger.Error("reserve: append booking", zap.String("slot_id", id), zap.Error(err))
		return failure(err)
	}

	e.logger.Info("seat reserved",
		zap.String("slot_id", id),
		zap.String("member", member),
		zap.Int("taken", count+1),
		zap.Int("capacity", slot.Capacity),
	)
	return ok("your seat is reserved")
}

// Cancel releases the member's seat in the slot.
func (e *Engine) Cancel(ctx context.Context, slotID, member string) Result {
	id := normalize.ID(slotID)
	lock := e.locks.get(id)
	lock.Lock()
	defer lock.Unlock()

	err := e.ledger.Remove(ctx, id, member)
	if errors.Is(err, store.ErrBookingNotFound) {
		return fail(KindBookingNotFound, "no reservation of yours was found in this slot")
	}
	if err != nil {
		e.logger.Error("cancel: remove booking", zap.String("slot_id", id), zap.Error(err))
		return failure(err)
	}

	e.logger.Info("seat cancelled", zap.String("slot_id", id), zap.String("member", member))
	return ok("your reservation is cancelled")
}

// AdminCreateSlot publishes a new lesson slot.
func (e *Engine) AdminCreateSlot(ctx context.Context, date, clock string, capacity int, comment string) (Result, model.Slot) {
	slot, err := e.slots.Create(ctx, date, clock, capacity, comment)
	if err != nil {
		e.logger.Error("create slot", zap.Error(err))
		return failure(err), model.Slot{}
	}

	e.logger.Info("slot created",
		zap.Int("slot_id", slot.ID),
		zap.String("date", slot.Date),
		zap.String("time", slot.Time),
		zap.Int("capacity", slot.Capacity),
	)
	return ok("the lesson slot is published"), slot
}

// AdminDeleteSlot removes a slot and cascades to its bookings. The cascade
// always runs, even when the slot was already gone, so orphaned bookings left
// by an earlier partial failure get swept too. Deleting an absent slot is a
// success, not an error.
func (e *Engine) AdminDeleteSlot(ctx context.Context, slotID string) Result {
	id := normalize.ID(slotID)
	lock := e.locks.get(id)
	lock.Lock()
	defer lock.Unlock()

	if err := e.slots.Delete(ctx, id); err != nil {
		e.logger.Error("delete slot", zap.String("slot_id", id), zap.Error(err))
		return failure(err)
	}
	if err := e.ledger.RemoveAllFor(ctx, id); err != nil {
		e.logger.Error("delete slot: cascade bookings", zap.String("slot_id", id), zap.Error(err))
		return failure(err)
	}

	e.logger.Info("slot deleted", zap.String("slot_id", id))
	return ok("the lesson slot is removed")
}

// ListAppointments returns every slot joined with its current members, in
// (date, time) order. IsFull is computed at read time and never persisted.
func (e *Engine) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	slots, err := e.slots.List(ctx)
	if err != nil {
		return nil, err
	}
	grouped, err := e.ledger.Grouped(ctx)
	if err != nil {
		return nil, err
	}

	appointments := make([]model.Appointment, 0, len(slots))
	for _, slot := range slots {
		id := normalize.IDFromInt(slot.ID)
		members := grouped[id]

		if e.oversoldPolicy == config.OversoldEvict && slot.Capacity > 0 && len(members) > slot.Capacity {
			members, err = e.evictExcess(ctx, id, slot.Capacity)
			if err != nil {
				return nil, err
			}
		}

		if members == nil {
			members = []string{}
		}
		appointments = append(appointments, model.Appointment{
			Slot:    slot,
			Members: members,
			IsFull:  len(members) >= slot.Capacity,
		})
	}
	return appointments, nil
}

// evictExcess trims bookings beyond capacity, newest first, under the slot
// lock. The member list is re-read after the lock is taken, so a reservation
// landing between the join read and the trim is still counted. Only reachable
// with the evict oversold policy, after a slot's capacity was lowered below
// its live booking count out-of-band.
func (e *Engine) evictExcess(ctx context.Context, slotID string, capacity int) ([]string, error) {
	lock := e.locks.get(slotID)
	lock.Lock()
	defer lock.Unlock()

	members, err := e.ledger.Members(ctx, slotID)
	if err != nil {
		return nil, err
	}
	for len(members) > capacity {
		if err := e.ledger.RemoveNewest(ctx, slotID); err != nil {
			return nil, err
		}
		evicted := members[len(members)-1]
		members = members[:len(members)-1]
		e.logger.Warn("oversold slot: booking evicted",
			zap.String("slot_id", slotID),
			zap.String("member", evicted),
			zap.Int("capacity", capacity),
		)
	}
	return members, nil
}
