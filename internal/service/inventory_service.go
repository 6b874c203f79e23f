package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/andresuchdata/stockpulse/internal/cache"
	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/ingest"
	"github.com/andresuchdata/stockpulse/internal/inventory"
	"github.com/andresuchdata/stockpulse/internal/report"
	"github.com/andresuchdata/stockpulse/internal/storage"
	"github.com/rs/zerolog/log"
)

var (
	ErrUploadTooLarge    = errors.New("upload exceeds size limit")
	ErrPublishDisabled   = errors.New("report publishing is not configured")
	ErrUnknownExportView = errors.New("unknown export view")
)

// Export views accepted by ExportCSV.
const (
	ViewBasic       = "basic"
	ViewLowStock    = "low_stock"
	ViewExcessStock = "excess_stock"
	ViewABC         = "abc"
	ViewItems       = "items"
)

// InventoryService turns uploaded inventory files into Datasets and the
// views derived from them. It keeps no per-session state; every call gets
// the Dataset it works on.
type InventoryService struct {
	cache     cache.DashboardCache
	exporter  *report.Exporter
	storage   storage.ObjectStorage
	maxUpload int64
	now       func() time.Time
}

// NewInventoryService wires the service. store may be nil, which disables
// Publish.
func NewInventoryService(cacheImpl cache.DashboardCache, exporter *report.Exporter, store storage.ObjectStorage, maxUpload int64) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	if exporter == nil {
		exporter = report.NewExporter("", 0)
	}
	return &InventoryService{
		cache:     cacheImpl,
		exporter:  exporter,
		storage:   store,
		maxUpload: maxUpload,
		now:       time.Now,
	}
}

// Load reads and validates one upload and computes everything the dashboard
// needs. A missing-column or format error aborts the load; an undefined ABC
// classification is kept on the Dataset instead.
func (s *InventoryService) Load(ctx context.Context, name string, r io.Reader) (*domain.Dataset, error) {
	if !ingest.Supported(name) {
		return nil, &domain.UnsupportedFormatError{Name: name, Extension: filepath.Ext(name)}
	}

	if s.maxUpload > 0 {
		r = io.LimitReader(r, s.maxUpload+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if s.maxUpload > 0 && int64(len(data)) > s.maxUpload {
		return nil, ErrUploadTooLarge
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := ingest.Read(name, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	table, warnings, err := inventory.Validate(raw)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn().Str("file", name).Str("column", w.Column).Int("count", w.Count).Msg("inventory: numeric coercion produced missing values")
	}

	ds := &domain.Dataset{
		Name:      name,
		Hash:      cache.ContentHash(data),
		LoadedAt:  s.now(),
		Table:     table,
		Warnings:  warnings,
		Metrics:   inventory.ComputeMetrics(table),
		Locations: inventory.LocationDistribution(table),
	}

	abc, err := inventory.ClassifyABC(table)
	if err != nil {
		log.Warn().Err(err).Str("file", name).Msg("inventory: abc classification skipped")
		ds.ABCErr = err
	} else {
		ds.ABC = abc
	}

	log.Info().
		Str("file", name).
		Str("hash", ds.Hash).
		Int("rows", ds.Metrics.TotalItems).
		Int("low", ds.Metrics.LowStockCount).
		Int("excess", ds.Metrics.ExcessStockCount).
		Msg("inventory: dataset loaded")

	return ds, nil
}

// LoadFile loads an inventory file from disk, such as the bundled sample.
func (s *InventoryService) LoadFile(ctx context.Context, path string) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return s.Load(ctx, filepath.Base(path), f)
}

// Dashboard returns the summary of ds, reading through the dashboard cache.
// Entries are shared by every upload with the same content, so the upload
// name always comes from ds.
func (s *InventoryService) Dashboard(ctx context.Context, ds *domain.Dataset) (*domain.Dashboard, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is required")
	}

	if cached, ok, err := s.cache.GetDashboard(ctx, ds.Hash); err == nil && ok {
		dashboard := *cached
		dashboard.Name = ds.Name
		dashboard.Hash = ds.Hash
		return &dashboard, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("inventory: cache get dashboard failed")
	}

	dashboard := BuildDashboard(ds)

	if err := s.cache.SetDashboard(ctx, ds.Hash, dashboard); err != nil {
		log.Warn().Err(err).Msg("inventory: cache set dashboard failed")
	}

	return dashboard, nil
}

// BuildDashboard derives the dashboard summary of ds without caching.
func BuildDashboard(ds *domain.Dataset) *domain.Dashboard {
	dashboard := &domain.Dashboard{
		Name:       ds.Name,
		Hash:       ds.Hash,
		Warnings:   ds.Warnings,
		Metrics:    ds.Metrics,
		BandShares: inventory.BandShares(ds.Metrics),
		Locations:  ds.Locations,
		LowStock:   make([]domain.Record, 0),
		ABCSummary: make([]domain.AbcClassSummary, 0),
	}
	if dashboard.Warnings == nil {
		dashboard.Warnings = make([]domain.DataQualityWarning, 0)
	}
	if dashboard.Locations == nil {
		dashboard.Locations = make([]domain.LocationCount, 0)
	}
	if low := ds.Metrics.LowStockItems; low != nil {
		dashboard.LowStock = append(dashboard.LowStock, low.Records...)
	}
	if ds.ABC != nil {
		dashboard.ABCSummary = inventory.Summarize(ds.ABC)
	} else if ds.ABCErr != nil {
		dashboard.ABCError = ds.ABCErr.Error()
	}
	return dashboard
}

// Items filters the loaded table.
func (s *InventoryService) Items(ds *domain.Dataset, p domain.Predicates) domain.FilteredView {
	if ds == nil {
		return inventory.Filter(nil, p)
	}
	return inventory.Filter(ds.Table, p)
}

// ABC returns the classification of ds with its per-class summary, or the
// reason classification was undefined.
func (s *InventoryService) ABC(ds *domain.Dataset) (*domain.AbcTable, []domain.AbcClassSummary, error) {
	if ds == nil {
		return nil, nil, &domain.DegenerateInputError{}
	}
	if ds.ABC == nil {
		if ds.ABCErr != nil {
			return nil, nil, ds.ABCErr
		}
		return nil, nil, &domain.DegenerateInputError{Rows: ds.Table.Len()}
	}
	return ds.ABC, inventory.Summarize(ds.ABC), nil
}

// Report builds a workbook from the selected sections.
func (s *InventoryService) Report(ctx context.Context, ds *domain.Dataset, sections []report.Section) (*report.Report, error) {
	if len(sections) == 0 {
		sections = report.DefaultSections
	}

	sheets, err := report.Assemble(ds, sections)
	if err != nil {
		return nil, err
	}

	rep, err := s.exporter.Export(ctx, sheets)
	if err != nil {
		return nil, fmt.Errorf("failed to export report: %w", err)
	}

	log.Info().Str("file", rep.Filename).Int("sheets", len(sheets)).Int("bytes", len(rep.Data)).Msg("inventory: report generated")
	return rep, nil
}

// CanPublish reports whether object storage is configured.
func (s *InventoryService) CanPublish() bool {
	return s.storage != nil
}

// Publish uploads a generated report and returns its object key.
func (s *InventoryService) Publish(ctx context.Context, rep *report.Report) (string, error) {
	if s.storage == nil {
		return "", ErrPublishDisabled
	}
	if rep == nil {
		return "", domain.ErrEmptyReport
	}

	if err := s.storage.UploadObject(ctx, rep.Filename, rep.Data, report.ContentTypeXLSX); err != nil {
		return "", fmt.Errorf("failed to publish report: %w", err)
	}

	log.Info().Str("key", rep.Filename).Msg("inventory: report published")
	return rep.Filename, nil
}

// ExportCSV writes one view of ds as CSV. The items view applies p; the
// other views ignore it.
func (s *InventoryService) ExportCSV(w io.Writer, ds *domain.Dataset, view string, p domain.Predicates) error {
	if ds == nil {
		return domain.ErrEmptyReport
	}

	var sheet report.Sheet
	switch view {
	case "", ViewBasic:
		sheet = report.TableSheet(report.SectionBasic.SheetName(), ds.Table)
	case ViewLowStock:
		sheet = report.TableSheet(report.SectionLowStock.SheetName(), ds.Metrics.LowStockItems)
	case ViewExcessStock:
		sheet = report.TableSheet(report.SectionExcessStock.SheetName(), ds.Metrics.ExcessStockItems)
	case ViewABC:
		abc, _, err := s.ABC(ds)
		if err != nil {
			return err
		}
		sheet = report.AbcSheet(report.SectionABC.SheetName(), abc)
	case ViewItems:
		sheet = report.TableSheet("Items", s.Items(ds, p).Table)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownExportView, view)
	}

	return report.WriteCSV(w, sheet)
}
