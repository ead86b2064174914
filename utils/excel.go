package utils

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/raushankrgupta/vessel-registry-scraper/models"
)

const defaultSheet = "Sheet1"

// ReadURLs returns the non-empty cells under the column headed column.
// An empty sheet name reads the first sheet.
func ReadURLs(path, sheet, column string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	col := -1
	for i, header := range rows[0] {
		if strings.TrimSpace(header) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("column %q not found in sheet %q", column, sheet)
	}

	var urls []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[col]); v != "" {
			urls = append(urls, v)
		}
	}
	return urls, nil
}

// Columns returns the union of field names in order of first appearance
func Columns(vessels []models.FieldMap) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, v := range vessels {
		for _, k := range v.Keys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// WriteVessels writes one row per vessel under a header of all field names
func WriteVessels(path string, vessels []models.FieldMap) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(defaultSheet)
	if err != nil {
		return err
	}

	cols := Columns(vessels)
	if len(cols) == 0 {
		// nothing to tabulate; still produce a valid, empty workbook
		if err := sw.Flush(); err != nil {
			return err
		}
		return f.SaveAs(path)
	}

	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r, v := range vessels {
		row := make([]interface{}, len(cols))
		for i, c := range cols {
			if val, ok := v.Get(c); ok {
				row[i] = val
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
