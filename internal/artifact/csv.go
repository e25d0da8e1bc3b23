// Package artifact reads and writes the delimited files that sit between
// extraction and loading: one CSV per (stat kind, format) pair with a
// fixed column header.
package artifact

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cric-stats/harvest/pkg/models"
)

// Path returns the artifact path for a stat kind and format token under
// dir, e.g. csv_files/batting_most_runs_odi.csv.
func Path(dir string, kind models.StatKind, format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	var name string
	if kind == models.KindBowling {
		name = fmt.Sprintf("bowling_most_wickets_%s.csv", format)
	} else {
		name = fmt.Sprintf("batting_most_runs_%s.csv", format)
	}
	return filepath.Join(dir, name)
}

// Write writes raw rows under the stat kind's column header. Rows shorter
// than the schema are padded with the absence marker so the file stays
// rectangular; longer rows are truncated.
func Write(path string, kind models.StatKind, rows []models.RawRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	columns := kind.Columns()
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		out := make([]string, len(columns))
		for i := range out {
			if i < len(row) {
				out[i] = row[i]
			} else {
				out[i] = "nan"
			}
		}
		if err := w.Write(out); err != nil {
			return err
		}
	}
	return w.Error()
}

// Read loads an artifact's rows, skipping the header. os.IsNotExist on
// the returned error distinguishes a missing source file.
func Read(path string) ([]models.RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1 // row width validated by the normalizer

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	rows := make([]models.RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, models.RawRow(rec))
	}
	return rows, nil
}
