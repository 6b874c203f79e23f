package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/report"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	uploadField = "file"
	// multipartSlack covers boundaries, part headers and form fields on top
	// of the file itself.
	multipartSlack = 1 << 20
)

type InventoryHandler struct {
	service    *service.InventoryService
	samplePath string
	maxUpload  int64
}

// NewInventoryHandler creates the handler. maxUpload caps the request body
// (plus multipart framing); zero leaves it uncapped.
func NewInventoryHandler(service *service.InventoryService, samplePath string, maxUpload int64) *InventoryHandler {
	return &InventoryHandler{service: service, samplePath: samplePath, maxUpload: maxUpload}
}

// loadUpload reads the multipart upload into a Dataset. On failure the
// error response has already been written.
func (h *InventoryHandler) loadUpload(c *gin.Context) (*domain.Dataset, bool) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartSlack)
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, "upload too large", err)
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded", "details": err.Error()})
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open uploaded file", "details": err.Error()})
		return nil, false
	}
	defer file.Close()

	ds, err := h.service.Load(c.Request.Context(), header.Filename, file)
	if err != nil {
		writeError(c, "failed to load inventory", err)
		return nil, false
	}
	return ds, true
}

func (h *InventoryHandler) Dashboard(c *gin.Context) {
	ds, ok := h.loadUpload(c)
	if !ok {
		return
	}
	h.respondDashboard(c, ds)
}

func (h *InventoryHandler) SampleDashboard(c *gin.Context) {
	if h.samplePath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "sample data is not configured"})
		return
	}

	ds, err := h.service.LoadFile(c.Request.Context(), h.samplePath)
	if err != nil {
		writeError(c, "failed to load sample data", err)
		return
	}
	h.respondDashboard(c, ds)
}

func (h *InventoryHandler) respondDashboard(c *gin.Context, ds *domain.Dataset) {
	dashboard, err := h.service.Dashboard(c.Request.Context(), ds)
	if err != nil {
		writeError(c, "failed to build dashboard", err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *InventoryHandler) Items(c *gin.Context) {
	predicates, err := parsePredicates(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter", "details": err.Error()})
		return
	}

	ds, ok := h.loadUpload(c)
	if !ok {
		return
	}

	view := h.service.Items(ds, predicates)
	skipped := view.Skipped
	if skipped == nil {
		skipped = make([]string, 0)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   view.Table.Records,
		"total":   view.Table.Len(),
		"source":  view.Source,
		"skipped": skipped,
	})
}

func (h *InventoryHandler) ABC(c *gin.Context) {
	ds, ok := h.loadUpload(c)
	if !ok {
		return
	}

	abc, summary, err := h.service.ABC(ds)
	if err != nil {
		writeError(c, "abc classification failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":        abc.Rows,
		"grand_total": abc.GrandTotal,
		"summary":     summary,
	})
}

func (h *InventoryHandler) Report(c *gin.Context) {
	sections, err := report.ParseSections(c.QueryArray("sections"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report sections", "details": err.Error()})
		return
	}

	publish, _ := strconv.ParseBool(c.DefaultQuery("publish", "false"))
	if publish && !h.service.CanPublish() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "report publishing is not configured"})
		return
	}

	ds, ok := h.loadUpload(c)
	if !ok {
		return
	}

	rep, err := h.service.Report(c.Request.Context(), ds, sections)
	if err != nil {
		writeError(c, "failed to generate report", err)
		return
	}

	if publish {
		key, err := h.service.Publish(c.Request.Context(), rep)
		if err != nil {
			writeError(c, "failed to publish report", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"filename": rep.Filename, "key": key, "size": len(rep.Data)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.Filename))
	c.Data(http.StatusOK, report.ContentTypeXLSX, rep.Data)
}

func (h *InventoryHandler) ExportCSV(c *gin.Context) {
	predicates, err := parsePredicates(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter", "details": err.Error()})
		return
	}
	view := strings.ToLower(strings.TrimSpace(c.DefaultQuery("view", service.ViewBasic)))

	ds, ok := h.loadUpload(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(&buf, ds, view, predicates); err != nil {
		writeError(c, "failed to export csv", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "inventory_"+view+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// parsePredicates reads the item filters from the query string. Values may
// be repeated or comma-separated:
//
//	?location=A&location=B
//	?location=A,B
//
// A stock_band parameter that is present but empty selects no rows.
func parsePredicates(c *gin.Context) (domain.Predicates, error) {
	p := domain.Predicates{
		Locations:  queryList(c, "location"),
		Categories: queryList(c, "category"),
		SearchTerm: strings.TrimSpace(c.Query("q")),
	}

	if _, present := c.GetQueryArray("stock_band"); present {
		p.StockBands = make([]domain.StockBand, 0)
		for _, v := range queryList(c, "stock_band") {
			band, ok := domain.ParseStockBand(v)
			if !ok {
				return p, fmt.Errorf("unknown stock band %q", v)
			}
			p.StockBands = append(p.StockBands, band)
		}
	}

	return p, nil
}

func queryList(c *gin.Context, key string) []string {
	raw := c.QueryArray(key)
	if len(raw) == 0 {
		return nil
	}

	flattened := make([]string, 0, len(raw))
	seen := make(map[string]struct{})
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			flattened = append(flattened, part)
		}
	}
	return flattened
}

func writeError(c *gin.Context, message string, err error) {
	var (
		missing     *domain.MissingColumnsError
		unsupported *domain.UnsupportedFormatError
		degenerate  *domain.DegenerateInputError
		tooLarge    *http.MaxBytesError
	)

	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":           message,
			"details":         err.Error(),
			"missing_columns": missing.Columns,
		})
		return
	case errors.As(err, &unsupported):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": message, "details": err.Error()})
		return
	case errors.As(err, &degenerate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": message, "details": err.Error()})
		return
	case errors.Is(err, domain.ErrEmptyReport), errors.Is(err, service.ErrUnknownExportView):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
		return
	case errors.Is(err, service.ErrUploadTooLarge), errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": message, "details": err.Error()})
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
}
