// Package rewards stores rewards exports fetched from the backend.
package rewards

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FilePrefix starts every exported CSV file name.
const FilePrefix = "bubbl-rewards-"

// Export describes a saved CSV file.
type Export struct {
	Path string
	Rows int // data rows, header excluded
}

// FileName returns the export file name for a download made at now.
func FileName(now time.Time) string {
	return FilePrefix + now.Format("20060102-150405") + ".csv"
}

// CountRows returns the number of data rows in a CSV document, not counting
// the header line.
func CountRows(data []byte) (int, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records := 0
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("parse rewards csv: %w", err)
		}
		records++
	}
	if records == 0 {
		return 0, nil
	}
	return records - 1, nil
}

// SaveCSV validates data as CSV and writes it into dir, creating dir when
// needed. The file is written to a temporary name and renamed into place.
func SaveCSV(dir string, data []byte, now time.Time) (Export, error) {
	rows, err := CountRows(data)
	if err != nil {
		return Export{}, err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Export{}, fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, FileName(now))
	tmp, err := os.CreateTemp(dir, ".bubbl-rewards-*.tmp")
	if err != nil {
		return Export{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Export{}, fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Export{}, fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Export{}, fmt.Errorf("rename export: %w", err)
	}
	return Export{Path: path, Rows: rows}, nil
}
