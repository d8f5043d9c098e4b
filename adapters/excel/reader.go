// Package excel reads source spreadsheets (xlsx and csv) into immutable
// SourceWorkbook values for the ingestion pipeline.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"lawatlas/domain/core"
	"lawatlas/domain/ingestion"
	"lawatlas/internal"
)

// DirectorySource implements ports.WorkbookSource over a directory of
// spreadsheet files. No fixed file naming is assumed.
type DirectorySource struct {
	dir string
	log *internal.Logger
}

// NewDirectorySource creates a source over dir.
func NewDirectorySource(dir string) *DirectorySource {
	return &DirectorySource{dir: dir, log: internal.NewLogger("DirectorySource")}
}

// List returns workbook file names sorted ascending. Sorting here fixes the
// merge order for the whole run.
func (s *DirectorySource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list workbook directory %s: %w", s.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		// Excel lock files start with ~$.
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".xlsx", ".csv":
			names = append(names, name)
		}
	}
	sort.Strings(names)

	s.log.Info("Found %d workbook files in %s", len(names), s.dir)
	return names, nil
}

// Read loads one workbook into a SourceWorkbook.
func (s *DirectorySource) Read(ctx context.Context, name string) (ingestion.SourceWorkbook, error) {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return ingestion.SourceWorkbook{}, fmt.Errorf("workbook not found: %s: %w", path, core.ErrUnreadable)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return s.readCSV(name, path)
	default:
		return s.readExcel(name, path)
	}
}

// readExcel reads the first sheet of an xlsx workbook.
func (s *DirectorySource) readExcel(name, path string) (ingestion.SourceWorkbook, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ingestion.SourceWorkbook{}, fmt.Errorf("failed to open Excel file %s: %w", name, core.ErrUnreadable)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ingestion.SourceWorkbook{}, fmt.Errorf("workbook %s has no sheets: %w", name, core.ErrNoHeaderRow)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return ingestion.SourceWorkbook{}, fmt.Errorf("failed to read sheet %s of %s: %w", sheet, name, core.ErrUnreadable)
	}
	s.log.Debug("%s read in %.2fms (%d rows)", name, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return buildWorkbook(name, sheet, rows)
}

// readCSV reads a csv file as a single-sheet workbook.
func (s *DirectorySource) readCSV(name, path string) (ingestion.SourceWorkbook, error) {
	file, err := os.Open(path)
	if err != nil {
		return ingestion.SourceWorkbook{}, fmt.Errorf("failed to open CSV file %s: %w", name, core.ErrUnreadable)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return ingestion.SourceWorkbook{}, fmt.Errorf("failed to read CSV file %s: %w", name, core.ErrUnreadable)
	}

	return buildWorkbook(name, "csv", rows)
}

// buildWorkbook converts raw string rows into the immutable workbook shape:
// trimmed headers from the first row, then label-keyed data rows.
func buildWorkbook(name, sheet string, rows [][]string) (ingestion.SourceWorkbook, error) {
	if len(rows) == 0 {
		return ingestion.SourceWorkbook{}, fmt.Errorf("workbook %s: %w", name, core.ErrNoHeaderRow)
	}

	headerRow := rows[0]
	headers := make([]string, 0, len(headerRow))
	for _, h := range headerRow {
		headers = append(headers, strings.TrimSpace(h))
	}

	dataRows := make([]ingestion.RawRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rowData := make(ingestion.RawRow)
		for j, cell := range rows[i] {
			if j < len(headers) && headers[j] != "" {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return ingestion.SourceWorkbook{
		ID:      core.NewWorkbookID(name),
		Sheet:   sheet,
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
