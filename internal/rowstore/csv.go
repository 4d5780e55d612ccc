package rowstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"okeiko-booking-backend/internal/normalize"
)

// CSVStore keeps each logical table in one CSV file with a header row,
// mirroring the flat-file medium the scheduler originally ran on. A single
// mutex serializes file access within the process; cross-process writers get
// no stronger guarantee than the medium itself offers.
type CSVStore struct {
	dir string
	mu  sync.Mutex
}

// NewCSVStore opens (and if needed creates) the table files under dir.
// Missing files are created with a header row only.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	s := &CSVStore{dir: dir}
	for table, schema := range Schemas {
		if err := s.ensureFile(table, schema); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *CSVStore) path(table string) string {
	return filepath.Join(s.dir, table+".csv")
}

func (s *CSVStore) ensureFile(table string, schema []string) error {
	path := s.path(table)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(schema); err != nil {
		return fmt.Errorf("write header for %s: %w", table, err)
	}
	w.Flush()
	return w.Error()
}

// readRecords loads every record of a table file, header included.
// The caller must hold s.mu.
func (s *CSVStore) readRecords(table string) ([][]string, error) {
	f, err := os.Open(s.path(table))
	if err != nil {
		return nil, fmt.Errorf("open table %q: %w", table, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read table %q: %w", table, err)
	}
	return records, nil
}

// header canonicalizes and validates a table's header row. Files exported
// from spreadsheet tools may carry a UTF-8 BOM on the first cell.
func header(table string, schema, record []string) ([]string, error) {
	cols := make([]string, len(record))
	have := make(map[string]bool, len(record))
	for i, name := range record {
		name = strings.TrimPrefix(name, "\ufeff")
		name = strings.ToLower(strings.TrimSpace(name))
		cols[i] = name
		have[name] = true
	}
	// An exported file may head its id column with the "no" sequence alias;
	// rename it so the rows land under the canonical column, the same way
	// normalize.Columns treats the alias on a per-row basis.
	if !have["appointment_id"] && have["no"] {
		for i, name := range cols {
			if name == "no" {
				cols[i] = "appointment_id"
			}
		}
		have["appointment_id"] = true
		delete(have, "no")
	}
	if missing := missingColumns(schema, have); len(missing) > 0 {
		return nil, &SchemaError{Table: table, Missing: missing}
	}
	return cols, nil
}

// ReadAll returns every data row of the table in stored order.
func (s *CSVStore) ReadAll(_ context.Context, table string) ([]Row, error) {
	schema, err := schemaFor(table)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readRecords(table)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &SchemaError{Table: table, Missing: schema}
	}

	cols, err := header(table, schema, records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(cols))
		for i, col := range cols {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, normalize.Columns(row))
	}
	return rows, nil
}

// AppendRow appends one row, values ordered per the table schema.
func (s *CSVStore) AppendRow(_ context.Context, table string, orderedValues []string) error {
	schema, err := schemaFor(table)
	if err != nil {
		return err
	}
	if len(orderedValues) != len(schema) {
		return fmt.Errorf("table %q expects %d values, got %d", table, len(schema), len(orderedValues))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path(table), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open table %q: %w", table, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(orderedValues); err != nil {
		return fmt.Errorf("append to table %q: %w", table, err)
	}
	w.Flush()
	return w.Error()
}

// DeleteRow removes the data row at the given 1-based position by rewriting
// the file without it.
func (s *CSVStore) DeleteRow(_ context.Context, table string, position int) error {
	if _, err := schemaFor(table); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readRecords(table)
	if err != nil {
		return err
	}
	if position < 1 || position > len(records)-1 {
		return fmt.Errorf("%w: position %d in table %q", ErrRowNotFound, position, table)
	}

	remaining := make([][]string, 0, len(records)-1)
	remaining = append(remaining, records[:position]...)
	remaining = append(remaining, records[position+1:]...)

	tmp := s.path(table) + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("rewrite table %q: %w", table, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(remaining); err != nil {
		f.Close()
		return fmt.Errorf("rewrite table %q: %w", table, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("rewrite table %q: %w", table, err)
	}
	if err := os.Rename(tmp, s.path(table)); err != nil {
		return fmt.Errorf("replace table %q: %w", table, err)
	}
	return nil
}

// FindRow returns the 1-based position of the first row with any cell equal
// to value.
func (s *CSVStore) FindRow(ctx context.Context, table string, value string) (int, error) {
	rows, err := s.ReadAll(ctx, table)
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		for _, cell := range row {
			if cell == value {
				return i + 1, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: value %q in table %q", ErrRowNotFound, value, table)
}

// Close is a no-op for the file-backed store.
func (s *CSVStore) Close() error {
	return nil
}
