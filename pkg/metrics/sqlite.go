package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RunRecord is one experiment run in the metrics database
type RunRecord struct {
	ID        string    `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	Name string
}

// ScalarRecord is one scalar point belonging to a run
type ScalarRecord struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	RunID string `gorm:"index"`
	Tag   string `gorm:"index"`
	Step  int
	Value float64
}

// SQLiteSink stores scalars in a SQLite database so runs can be compared later.
type SQLiteSink struct {
	db    *gorm.DB
	runID string
}

// NewSQLiteSink opens (or creates) the database at path and registers a run.
func NewSQLiteSink(path string, runID string, name string) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create metrics directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open metrics database: %w", err)
	}

	if err := db.AutoMigrate(&RunRecord{}, &ScalarRecord{}); err != nil {
		return nil, fmt.Errorf("migrate metrics database: %w", err)
	}

	run := RunRecord{ID: runID, Name: name}
	if result := db.Create(&run); result.Error != nil {
		return nil, fmt.Errorf("register run %s: %w", runID, result.Error)
	}

	return &SQLiteSink{
		db:    db,
		runID: runID,
	}, nil
}

func (s *SQLiteSink) AddScalar(tag string, value float64, step int) error {
	record := ScalarRecord{
		RunID: s.runID,
		Tag:   tag,
		Step:  step,
		Value: value,
	}
	if result := s.db.Create(&record); result.Error != nil {
		return fmt.Errorf("store scalar %s: %w", tag, result.Error)
	}
	return nil
}

// Scalars returns the points stored for tag in this run, ordered by step
func (s *SQLiteSink) Scalars(tag string) ([]Scalar, error) {
	var records []ScalarRecord
	result := s.db.
		Where("run_id = ? AND tag = ?", s.runID, tag).
		Order("step asc, id asc").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	scalars := make([]Scalar, 0, len(records))
	for _, r := range records {
		scalars = append(scalars, Scalar{Tag: r.Tag, Value: r.Value, Step: r.Step})
	}
	return scalars, nil
}

// Runs lists every run stored in the database, oldest first
func (s *SQLiteSink) Runs() ([]RunRecord, error) {
	var runs []RunRecord
	if result := s.db.Order("created_at asc").Find(&runs); result.Error != nil {
		return nil, result.Error
	}
	return runs, nil
}

func (s *SQLiteSink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
