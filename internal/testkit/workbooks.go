// Package testkit builds real spreadsheet fixtures for pipeline tests.
package testkit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes a single-sheet xlsx workbook: one header row followed by
// data rows. Returns the full file path.
func WriteXLSX(t *testing.T, dir, name string, headers []string, rows ...[]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		t.Fatalf("failed to write header row: %v", err)
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row %d: %v", i, err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook %s: %v", name, err)
	}
	return path
}

// WriteCSV writes a csv workbook in the same header+rows shape.
func WriteCSV(t *testing.T, dir, name string, headers []string, rows ...[]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create csv %s: %v", name, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(headers); err != nil {
		t.Fatalf("failed to write csv header: %v", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			t.Fatalf("failed to write csv row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("failed to flush csv: %v", err)
	}
	return path
}

// PacificFixture and SouthwestFixture are the standard two-workbook scenario:
// three states each, California in both with conflicting provisions text.
func PacificFixture(t *testing.T, dir string) string {
	return WriteXLSX(t, dir, "pacific.xlsx",
		[]string{"State", "Key Statutes/Codes", "Notable Provisions"},
		[]string{"California", "Gov. Code 8550", "Standby emergency powers; shelter registry"},
		[]string{"Oregon", "ORS 401", "County-level declaration authority"},
		[]string{"Washington", "RCW 38.52", "Mutual aid compact member"},
	)
}

func SouthwestFixture(t *testing.T, dir string) string {
	return WriteXLSX(t, dir, "southwest.xlsx",
		[]string{"State", "Key Statutes/Codes", "Notable Provisions"},
		[]string{"Arizona", "ARS 26-301", "Tribal coordination required"},
		[]string{"New Mexico", "NMSA 12-10", "Language access plan mandated"},
		[]string{"California", "Gov. Code 8550", "Conflicting provisions text from second source"},
	)
}
