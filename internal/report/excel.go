package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/semaphore"
)

const (
	// ContentTypeXLSX is the MIME type of generated workbooks.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultConcurrency = 4
	fileNameLayout     = "20060102_150405"
)

// Report is a generated workbook.
type Report struct {
	Filename string
	Data     []byte
}

// Exporter writes report workbooks. Every export goes through a temporary
// file under Dir which is always removed, and concurrent exports are bounded.
type Exporter struct {
	dir string
	sem *semaphore.Weighted
	now func() time.Time
}

// NewExporter creates an Exporter that stages files in dir (os.TempDir when
// empty) with at most concurrency exports in flight.
func NewExporter(dir string, concurrency int) *Exporter {
	if dir == "" {
		dir = os.TempDir()
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Exporter{
		dir: dir,
		sem: semaphore.NewWeighted(int64(concurrency)),
		now: time.Now,
	}
}

// Filename returns the download name for a report generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("inventory_report_%s.xlsx", t.Format(fileNameLayout))
}

// Export renders sheets into a workbook and returns its bytes.
func (e *Exporter) Export(ctx context.Context, sheets []Sheet) (*Report, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("could not acquire export slot: %w", err)
	}
	defer e.sem.Release(1)

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir %s: %w", e.dir, err)
	}

	tmp, err := os.CreateTemp(e.dir, "report-*.xlsx")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp report: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn().Err(rmErr).Str("path", tmpPath).Msg("failed to remove temp report")
		}
	}()

	if err := writeWorkbook(tmp, sheets); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp report: %w", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp report: %w", err)
	}

	return &Report{Filename: Filename(e.now()), Data: data}, nil
}

// WriteFile renders sheets to path. The workbook is staged next to path and
// renamed into place, so a failed write leaves neither a partial report nor
// a stray temp file.
func (e *Exporter) WriteFile(ctx context.Context, path string, sheets []Sheet) (err error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire export slot: %w", err)
	}
	defer e.sem.Release(1)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp report for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if err = writeWorkbook(tmp, sheets); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp report for %s: %w", path, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move report into %s: %w", path, err)
	}
	return nil
}

func writeWorkbook(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}

		header := make([]interface{}, len(sheet.Header))
		for j, h := range sheet.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header of %s: %w", sheet.Name, err)
		}
		if err := f.SetRowStyle(sheet.Name, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("failed to style header of %s: %w", sheet.Name, err)
		}

		for j := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet.Name, cell, &sheet.Rows[j]); err != nil {
				return fmt.Errorf("failed to write row %d of %s: %w", j+1, sheet.Name, err)
			}
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteCSV writes one sheet as CSV, for single-table downloads.
func WriteCSV(w io.Writer, sheet Sheet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(sheet.Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(sheet.Header))
	for _, row := range sheet.Rows {
		record = record[:0]
		for _, v := range row {
			record = append(record, formatCell(v))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
