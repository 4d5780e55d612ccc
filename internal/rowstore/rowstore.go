package rowstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Logical table names of the persisted schema.
const (
	TableSchedule = "schedule"
	TableBookings = "bookings"
	TableUsers    = "users"
)

// Schemas maps each logical table to its required column set, in the order
// values are appended.
var Schemas = map[string][]string{
	TableSchedule: {"id", "date", "time", "capacity", "comment"},
	TableBookings: {"appointment_id", "user_name", "booked_at"},
	TableUsers:    {"user_id", "password", "name", "email"},
}

// Row is a single stored row, mapping canonical column name to raw value.
type Row map[string]string

var (
	// ErrRowNotFound is returned when a position or lookup value does not
	// resolve to a stored row.
	ErrRowNotFound = errors.New("row not found")

	// ErrUnknownTable is returned for a table name outside the schema.
	ErrUnknownTable = errors.New("unknown table")
)

// SchemaError reports required columns missing from a stored table. It is
// surfaced distinctly so callers never mistake a broken table for an empty one.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %q is missing required columns: %s", e.Table, strings.Join(e.Missing, ", "))
}

// Store abstracts a tabular external medium into positional row operations.
// DeleteRow positions are 1-based over the current data rows, so callers
// removing several rows must process positions in descending order to avoid
// shifting the rows still to be deleted.
type Store interface {
	ReadAll(ctx context.Context, table string) ([]Row, error)
	AppendRow(ctx context.Context, table string, orderedValues []string) error
	DeleteRow(ctx context.Context, table string, position int) error
	FindRow(ctx context.Context, table string, value string) (int, error)
	Close() error
}

func schemaFor(table string) ([]string, error) {
	schema, ok := Schemas[table]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return schema, nil
}

func missingColumns(schema []string, have map[string]bool) []string {
	var missing []string
	for _, col := range schema {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
