package rowstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"okeiko-booking-backend/config"
	"okeiko-booking-backend/internal/normalize"
)

// record is the single generic table backing every logical table when the
// store runs on a database. Insertion order is the autoincrement id, which
// is what gives DeleteRow its positional meaning.
type record struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement"`
	Table string `gorm:"column:table_name;size:64;index;not null"`
	Cells string `gorm:"not null"` // JSON object, column name -> value
}

func (record) TableName() string {
	return "store_rows"
}

// DBStore implements Store on a GORM-managed database (sqlite or postgres).
type DBStore struct {
	db *gorm.DB
}

// OpenDB connects to the configured database, applies pool settings, and
// migrates the backing table.
func OpenDB(cfg *config.DatabaseConfig) (*DBStore, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	return &DBStore{db: db}, nil
}

// NewDBStore wraps an already-open GORM handle. Used by tests.
func NewDBStore(db *gorm.DB) (*DBStore, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}
	return &DBStore{db: db}, nil
}

func (s *DBStore) fetch(ctx context.Context, table string) ([]record, error) {
	var records []record
	err := s.db.WithContext(ctx).
		Where("table_name = ?", table).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("read table %q: %w", table, err)
	}
	return records, nil
}

// ReadAll returns every row of the table in insertion order.
func (s *DBStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	schema, err := schemaFor(table)
	if err != nil {
		return nil, err
	}

	records, err := s.fetch(ctx, table)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		var cells map[string]string
		if err := json.Unmarshal([]byte(rec.Cells), &cells); err != nil {
			return nil, fmt.Errorf("decode row %d of table %q: %w", rec.ID, table, err)
		}
		row := normalize.Columns(cells)

		have := make(map[string]bool, len(row))
		for col := range row {
			have[col] = true
		}
		if missing := missingColumns(schema, have); len(missing) > 0 {
			return nil, &SchemaError{Table: table, Missing: missing}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRow appends one row, values ordered per the table schema.
func (s *DBStore) AppendRow(ctx context.Context, table string, orderedValues []string) error {
	schema, err := schemaFor(table)
	if err != nil {
		return err
	}
	if len(orderedValues) != len(schema) {
		return fmt.Errorf("table %q expects %d values, got %d", table, len(schema), len(orderedValues))
	}

	cells := make(map[string]string, len(schema))
	for i, col := range schema {
		cells[col] = orderedValues[i]
	}
	encoded, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("encode row for table %q: %w", table, err)
	}

	rec := record{Table: table, Cells: string(encoded)}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("append to table %q: %w", table, err)
	}
	return nil
}

// DeleteRow removes the row at the given 1-based position in insertion order.
func (s *DBStore) DeleteRow(ctx context.Context, table string, position int) error {
	if _, err := schemaFor(table); err != nil {
		return err
	}
	if position < 1 {
		return fmt.Errorf("%w: position %d in table %q", ErrRowNotFound, position, table)
	}

	var rec record
	err := s.db.WithContext(ctx).
		Where("table_name = ?", table).
		Order("id").
		Offset(position - 1).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: position %d in table %q", ErrRowNotFound, position, table)
	}
	if err != nil {
		return fmt.Errorf("locate row %d of table %q: %w", position, table, err)
	}

	if err := s.db.WithContext(ctx).Delete(&record{}, rec.ID).Error; err != nil {
		return fmt.Errorf("delete row %d of table %q: %w", position, table, err)
	}
	return nil
}

// FindRow returns the 1-based position of the first row with any cell equal
// to value.
func (s *DBStore) FindRow(ctx context.Context, table string, value string) (int, error) {
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

// Close releases the underlying connection pool.
func (s *DBStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
