package model

// Booking represents one member's reservation against one slot.
// SlotID is a weak reference; the engine guarantees cascade on every
// slot deletion path, so a dangling reference is at most transient.
type Booking struct {
	SlotID   int    `json:"appointment_id"`
	UserName string `json:"user_name"`
	BookedAt string `json:"booked_at"` // informational, not used in ordering
}
