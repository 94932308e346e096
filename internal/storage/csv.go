package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/pfrederiksen/golfriket-clubs/internal/club"
	"github.com/pfrederiksen/golfriket-clubs/internal/logger"
)

// CSVWriter writes clubs to a UTF-8 CSV file with a header row
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a CSVWriter for path
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path returns the file the writer targets
func (w *CSVWriter) Path() string {
	return w.path
}

// Write overwrites the file with a header and one row per club
func (w *CSVWriter) Write(ctx context.Context, clubs []*club.Club) error {
	logger.Info("Saving data", logger.Fields{"file": w.path, "format": FormatCSV, "count": len(clubs)})

	if err := ensureDir(w.path); err != nil {
		return err
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, c := range clubs {
		if err := cw.Write(record(c)); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", c.Name, err)
		}
		logger.Debug("Saved club", logger.Fields{"club": c.Name})
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return f.Close()
}
