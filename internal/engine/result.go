package engine

// Kind tags the outcome of an engine operation.
type Kind string

const (
	KindOK              Kind = "ok"
	KindSlotNotFound    Kind = "slot_not_found"
	KindAlreadyBooked   Kind = "already_booked"
	KindSlotFull        Kind = "slot_full"
	KindBookingNotFound Kind = "booking_not_found"
	KindStorageError    Kind = "storage_error"
	KindSchemaError     Kind = "schema_error"
)

// Result is the tagged outcome every engine entry point returns. Engine
// operations are total from the caller's perspective: no fault escapes, the
// presentation layer only ever renders a flag, a kind, and a short message.
type Result struct {
	OK      bool   `json:"ok"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func ok(message string) Result {
	return Result{OK: true, Kind: KindOK, Message: message}
}

func fail(kind Kind, message string) Result {
	return Result{OK: false, Kind: kind, Message: message}
}
