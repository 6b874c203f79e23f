package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// Supported reports whether name has a file extension the reader understands.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".xlsm":
		return true
	}
	return false
}

// ReadFile loads an inventory table from a local CSV or xlsx file.
func ReadFile(path string) (*domain.RawTable, error) {
	if !Supported(path) {
		return nil, &domain.UnsupportedFormatError{Name: filepath.Base(path), Extension: strings.ToLower(filepath.Ext(path))}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(filepath.Base(path), f)
}

// Read parses r according to the extension of name. CSV and xlsx (first
// sheet) are accepted; anything else yields an UnsupportedFormatError.
func Read(name string, r io.Reader) (*domain.RawTable, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv":
		return readCSV(name, r)
	case ".xlsx", ".xlsm":
		return readXLSX(name, r)
	default:
		return nil, &domain.UnsupportedFormatError{Name: name, Extension: ext}
	}
}

func readCSV(name string, r io.Reader) (*domain.RawTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv file %s is empty", name)
		}
		return nil, fmt.Errorf("failed to read csv header from %s: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &domain.RawTable{Header: header}
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read csv row from %s: %w", name, err)
		}
		if isBlank(record) {
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// readXLSX reads the first sheet of a workbook. The first row is the header.
func readXLSX(name string, r io.Reader) (*domain.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", name)
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var table *domain.RawTable
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", name, err)
		}
		if table == nil {
			if isBlank(record) {
				continue
			}
			table = &domain.RawTable{Header: record}
			continue
		}
		if isBlank(record) {
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", name, err)
	}
	if table == nil {
		return nil, fmt.Errorf("sheet %s of %s has no header row", sheet, name)
	}

	return table, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
