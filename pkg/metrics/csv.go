package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

var csvHeader = []string{"tag", "step", "value"}

// CSVSink appends one row per scalar to a CSV file.
type CSVSink struct {
	file *os.File
	w    *csv.Writer
}

// NewCSVSink creates (or truncates) path and writes the header row.
func NewCSVSink(path string) (*CSVSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create metrics directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create metrics file %s: %w", path, err)
	}
	s := &CSVSink{file: f, w: csv.NewWriter(f)}
	if err := s.write(csvHeader); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *CSVSink) AddScalar(tag string, value float64, step int) error {
	return s.write([]string{
		tag,
		strconv.Itoa(step),
		strconv.FormatFloat(value, 'g', -1, 64),
	})
}

// write flushes after every row
func (s *CSVSink) write(record []string) error {
	if err := s.w.Write(record); err != nil {
		return fmt.Errorf("write metrics row: %w", err)
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
