package main

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"

	"github.com/andresuchdata/stockpulse/internal/cache"
	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/drive"
	"github.com/andresuchdata/stockpulse/internal/ingest"
	"github.com/andresuchdata/stockpulse/internal/report"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/andresuchdata/stockpulse/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

type env struct {
	cfg     *config.Config
	svc     *service.InventoryService
	store   storage.ObjectStorage
	reports *report.Exporter
}

// newEnv builds the service the commands share. Storage and the dashboard
// cache are only connected when they are enabled in the config; an
// unreachable cache degrades to no caching.
func newEnv() (*env, error) {
	cfg := config.Load()

	dashboards, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard cache unavailable, continuing without it")
		dashboards = cache.NewNoopDashboardCache()
	}

	var store storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewS3Client(cfg.Storage)
		if err != nil {
			return nil, err
		}
		store = client
	}

	exporter := report.NewExporter(cfg.App.ExportDir, cfg.App.ReportConcurrency)
	return &env{
		cfg:     cfg,
		svc:     service.NewInventoryService(dashboards, exporter, store, cfg.App.MaxUploadBytes()),
		store:   store,
		reports: exporter,
	}, nil
}

// loadDataset resolves the inventory source: a Drive file, a storage
// object, or the first positional argument, falling back to the sample.
func (e *env) loadDataset(c *cli.Context) (*domain.Dataset, error) {
	ctx := c.Context

	if fileID := c.String("drive-file-id"); fileID != "" {
		srv, err := drive.NewService(ctx, c.String("drive-credentials"))
		if err != nil {
			return nil, err
		}
		meta, err := srv.Stat(ctx, fileID)
		if err != nil {
			return nil, err
		}
		if !ingest.Supported(meta.Name) {
			return nil, &domain.UnsupportedFormatError{Name: meta.Name, Extension: filepath.Ext(meta.Name)}
		}
		var buf bytes.Buffer
		if err := srv.DownloadFile(ctx, fileID, &buf); err != nil {
			return nil, err
		}
		return e.svc.Load(ctx, meta.Name, &buf)
	}

	if key := c.String("object-key"); key != "" {
		if e.store == nil {
			return nil, fmt.Errorf("object storage is not enabled (set STORAGE_ENABLED=true)")
		}
		var buf bytes.Buffer
		if err := e.store.Download(ctx, key, &buf); err != nil {
			return nil, err
		}
		return e.svc.Load(ctx, path.Base(key), &buf)
	}

	file := c.Args().First()
	if file == "" {
		file = e.cfg.App.SampleDataPath
	}
	return e.svc.LoadFile(ctx, file)
}
