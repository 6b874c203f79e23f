package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/andresuchdata/stockpulse/internal/cache"
	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/inventory"
	"github.com/andresuchdata/stockpulse/internal/report"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/urfave/cli/v2"
)

func runSummary(c *cli.Context) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	ds, err := e.loadDataset(c)
	if err != nil {
		return err
	}

	dashboard, err := e.svc.Dashboard(c.Context, ds)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if c.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dashboard)
	}

	printDashboard(out, dashboard)
	return nil
}

func printDashboard(out io.Writer, d *domain.Dashboard) {
	m := d.Metrics
	fmt.Fprintf(out, "File:          %s\n", d.Name)
	fmt.Fprintf(out, "Total items:   %s\n", inventory.FormatAmount(float64(m.TotalItems), 0))
	fmt.Fprintf(out, "Total value:   %s\n", inventory.FormatAmount(m.TotalValue, 0))
	fmt.Fprintf(out, "Low stock:     %d\n", m.LowStockCount)
	fmt.Fprintf(out, "Excess stock:  %d\n", m.ExcessStockCount)
	if m.UnclassifiedCount > 0 {
		fmt.Fprintf(out, "Unclassified:  %d\n", m.UnclassifiedCount)
	}
	for _, w := range d.Warnings {
		fmt.Fprintf(out, "Warning:       %s\n", w)
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BAND\tITEMS\tSHARE")
	for _, s := range d.BandShares {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", s.Label, s.Count, s.Percent)
	}
	tw.Flush()

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCATION\tITEMS")
	for _, l := range d.Locations {
		fmt.Fprintf(tw, "%s\t%d\n", l.Location, l.Count)
	}
	tw.Flush()

	fmt.Fprintln(out)
	if d.ABCError != "" {
		fmt.Fprintf(out, "ABC:           %s\n", d.ABCError)
		return
	}
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tITEMS\tVALUE\tSHARE")
	for _, s := range d.ABCSummary {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Class, s.ItemCount, inventory.FormatAmount(s.TotalValue, 0), s.ValueShareDisplay)
	}
	tw.Flush()
}

func runABC(c *cli.Context) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	ds, err := e.loadDataset(c)
	if err != nil {
		return err
	}

	abc, _, err := e.svc.ABC(ds)
	if err != nil {
		return err
	}

	rows := abc.Rows
	if limit := c.Int("limit"); limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM ID\tITEM NAME\tVALUE\tCUMULATIVE %\tCLASS")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			row.ItemID,
			row.ItemName,
			inventory.FormatAmount(row.TotalValue, 0),
			inventory.FormatAmount(row.CumulativePercentage, 2),
			row.Class,
		)
	}
	return tw.Flush()
}

func runItems(c *cli.Context) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	predicates := domain.Predicates{
		Locations:  c.StringSlice("location"),
		Categories: c.StringSlice("category"),
		SearchTerm: c.String("search"),
	}
	if c.IsSet("band") {
		predicates.StockBands = make([]domain.StockBand, 0)
		for _, v := range c.StringSlice("band") {
			band, ok := domain.ParseStockBand(v)
			if !ok {
				return fmt.Errorf("unknown stock band %q", v)
			}
			predicates.StockBands = append(predicates.StockBands, band)
		}
	}

	ds, err := e.loadDataset(c)
	if err != nil {
		return err
	}

	if c.Bool("csv") {
		return e.svc.ExportCSV(c.App.Writer, ds, service.ViewItems, predicates)
	}

	view := e.svc.Items(ds, predicates)
	for _, skipped := range view.Skipped {
		fmt.Fprintf(c.App.ErrWriter, "note: %s filter skipped, column not present\n", skipped)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM ID\tITEM NAME\tLOCATION\tQUANTITY\tMIN STOCK\tBAND")
	for _, rec := range view.Table.Records {
		band, _ := rec.Band()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ItemID,
			rec.ItemName,
			rec.Location,
			inventory.FormatAmount(rec.Quantity, 0),
			inventory.FormatAmount(rec.MinStock, 0),
			band.Label(),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.ErrWriter, "%d of %d rows\n", view.Table.Len(), view.Source)
	return nil
}

func runReport(c *cli.Context) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	sections, err := report.ParseSections(c.StringSlice("section"))
	if err != nil {
		return err
	}
	if c.Bool("publish") && !e.svc.CanPublish() {
		return service.ErrPublishDisabled
	}

	ds, err := e.loadDataset(c)
	if err != nil {
		return err
	}

	if c.Bool("publish") {
		rep, err := e.svc.Report(c.Context, ds, sections)
		if err != nil {
			return err
		}
		key, err := e.svc.Publish(c.Context, rep)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "published %s\n", key)
		return nil
	}

	sheets, err := report.Assemble(ds, sections)
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = filepath.Join(e.cfg.App.ExportDir, report.Filename(ds.LoadedAt))
	}
	if err := e.reports.WriteFile(c.Context, out, sheets); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "wrote %s (%d sheets)\n", out, len(sheets))
	return nil
}

func runObjects(c *cli.Context) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	if e.store == nil {
		return fmt.Errorf("object storage is not enabled (set STORAGE_ENABLED=true)")
	}

	objects, err := e.store.ListObjects(c.Context, c.String("prefix"))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSIZE")
	for _, o := range objects {
		fmt.Fprintf(tw, "%s\t%d\n", o.Key, o.Size)
	}
	return tw.Flush()
}


func runCacheFlush(c *cli.Context) error {
	cfg := config.Load()
	if !cfg.Cache.Enabled {
		return fmt.Errorf("dashboard cache is not enabled (set CACHE_ENABLED=true)")
	}

	dashboards, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		return err
	}

	removed, err := dashboards.InvalidateAll(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "removed %d cached dashboard(s)\n", removed)
	return nil
}
