package model

// Appointment is the read-time join of a slot with its current members.
// It is derived on every read, never persisted.
type Appointment struct {
	Slot
	Members []string `json:"members"`
	IsFull  bool     `json:"is_full"`
}
