package storage

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/golfriket-clubs/internal/club"
	"github.com/pfrederiksen/golfriket-clubs/internal/logger"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the XLSX writer fills
const SheetName = "Clubs"

// XLSXWriter writes clubs to an Excel workbook
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates an XLSXWriter for path
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Write overwrites the workbook with a header and one row per club.
// Coordinates are stored as numbers.
func (w *XLSXWriter) Write(ctx context.Context, clubs []*club.Club) error {
	logger.Info("Saving data", logger.Fields{"file": w.path, "format": FormatXLSX, "count": len(clubs)})

	if err := ensureDir(w.path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for i, h := range Header {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
	}

	for r, c := range clubs {
		row := r + 2
		values := []interface{}{c.Name, c.Latitude, c.Longitude, c.URL, c.Address}
		for i, v := range values {
			if err := setCell(f, i+1, row, v); err != nil {
				return err
			}
		}
		logger.Debug("Saved club", logger.Fields{"club": c.Name})
	}

	if err := f.SetColWidth(SheetName, "A", "A", 36); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "D", "E", 48); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(SheetName, cell, v); err != nil {
		return fmt.Errorf("setting cell %s: %w", cell, err)
	}
	return nil
}
