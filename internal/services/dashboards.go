package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/cache"
	"sales-dashboard/internal/config"
	apperrors "sales-dashboard/internal/errors"
	"sales-dashboard/internal/loader"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/render"
	"sales-dashboard/internal/report"
)

const defaultLoadTimeout = 30 * time.Second

// Source binds a dashboard variant to the file it reads.
type Source struct {
	Variant report.Variant
	Load    loader.Config
}

type Settings struct {
	Year        int
	LoadTimeout time.Duration
	Sources     []Source
}

// SettingsFromConfig wires the two standard dashboards to their configured
// workbooks.
func SettingsFromConfig(cfg config.ReportsConfig) Settings {
	overview := report.Overview()
	sellers := report.SellerPerformance()
	return Settings{
		Year:        cfg.Year,
		LoadTimeout: cfg.LoadTimeout,
		Sources: []Source{
			{Variant: overview, Load: loader.Config{Path: cfg.Overview.File, Sheet: cfg.Overview.Sheet, Required: overview.Required}},
			{Variant: sellers, Load: loader.Config{Path: cfg.Sellers.File, Sheet: cfg.Sellers.Sheet, Required: sellers.Required}},
		},
	}
}

type VariantInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source string `json:"source"`
	Sheet  string `json:"sheet,omitempty"`
}

type Stats struct {
	Variants int         `json:"variants"`
	Builds   int64       `json:"builds"`
	Failures int64       `json:"load_failures"`
	Cache    cache.Stats `json:"cache"`
}

// Dashboards runs the load, derive, assemble pipeline for every configured
// variant. The dataset cache is the only state shared between requests.
type Dashboards struct {
	datasets    *cache.Datasets
	sources     []Source
	byID        map[string]Source
	year        int
	loadTimeout time.Duration
	builds      atomic.Int64
	failures    atomic.Int64
	logger      *slog.Logger
}

func NewDashboards(datasets *cache.Datasets, settings Settings, logger *slog.Logger) *Dashboards {
	if datasets == nil {
		datasets = cache.NewDatasets(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if settings.LoadTimeout <= 0 {
		settings.LoadTimeout = defaultLoadTimeout
	}

	d := &Dashboards{
		datasets:    datasets,
		sources:     settings.Sources,
		byID:        make(map[string]Source, len(settings.Sources)),
		year:        settings.Year,
		loadTimeout: settings.LoadTimeout,
		logger:      logger,
	}
	for _, s := range settings.Sources {
		d.byID[s.Variant.ID] = s
	}
	return d
}

func (d *Dashboards) Variants() []VariantInfo {
	out := make([]VariantInfo, 0, len(d.sources))
	for _, s := range d.sources {
		out = append(out, VariantInfo{
			ID:     s.Variant.ID,
			Title:  s.Variant.Title,
			Source: s.Load.Path,
			Sheet:  s.Load.Sheet,
		})
	}
	return out
}

// DefaultID is the dashboard served at the root path.
func (d *Dashboards) DefaultID() string {
	if len(d.sources) == 0 {
		return ""
	}
	return d.sources[0].Variant.ID
}

func (d *Dashboards) source(id string) (Source, error) {
	s, ok := d.byID[id]
	if !ok {
		return Source{}, apperrors.NotFound(fmt.Sprintf("dashboard %q not found", id))
	}
	return s, nil
}

// Report builds the report for one variant. A load failure is returned as
// is; chart-level failures are carried inside the report.
func (d *Dashboards) Report(ctx context.Context, id string) (report.Report, error) {
	src, err := d.source(id)
	if err != nil {
		return report.Report{}, err
	}

	ctx, span := observability.StartSpan(ctx, "dashboard.build")
	span.SetTag("variant", id)
	defer func() {
		span.Finish()
		d.logger.Debug("dashboard pipeline finished", "span", span)
	}()

	loadCtx, cancel := context.WithTimeout(ctx, d.loadTimeout)
	defer cancel()

	ds, err := d.datasets.Get(loadCtx, src.Load)
	if err != nil {
		span.SetError(err)
		d.failures.Add(1)
		d.logger.Error("dashboard load failed",
			"variant", id,
			"source", src.Load.Path,
			"error", err,
			"request_id", observability.GetRequestID(ctx),
		)
		return report.Report{}, err
	}

	r := src.Variant.Build(ds, report.Options{Year: d.year})
	d.builds.Add(1)

	span.SetTag("records", strconv.Itoa(r.Records))
	if n := r.Failures(); n > 0 {
		span.SetTag("failed_charts", strconv.Itoa(n))
		d.logger.Warn("dashboard has charts that could not be derived",
			"variant", id,
			"failed_charts", n,
			"request_id", observability.GetRequestID(ctx),
		)
	}
	return r, nil
}

// Page builds the report for id and lays it out for the templates.
func (d *Dashboards) Page(ctx context.Context, id string) (render.Page, error) {
	r, err := d.Report(ctx, id)
	if err != nil {
		return render.Page{}, err
	}
	return render.NewPage(r), nil
}

// Refresh drops the cached dataset of id and rebuilds its page from the
// file.
func (d *Dashboards) Refresh(ctx context.Context, id string) (render.Page, error) {
	if _, err := d.Invalidate(id); err != nil {
		return render.Page{}, err
	}
	return d.Page(ctx, id)
}

// Invalidate evicts the dataset behind id, or every dataset when id is
// empty. It reports how many entries were dropped.
func (d *Dashboards) Invalidate(id string) (int, error) {
	if id == "" {
		n := d.datasets.Clear()
		d.logger.Info("dataset cache cleared", "entries", n)
		return n, nil
	}

	src, err := d.source(id)
	if err != nil {
		return 0, err
	}
	n := 0
	if d.datasets.Invalidate(src.Load.Path, src.Load.Sheet) {
		n = 1
	}
	d.logger.Info("dataset invalidated", "variant", id, "entries", n)
	return n, nil
}

// WarmUp loads every variant's dataset concurrently. Failures are logged
// and the first one is returned; a failed variant still reports its own
// load error when rendered.
func (d *Dashboards) WarmUp(ctx context.Context) error {
	start := time.Now()

	var g errgroup.Group
	for _, s := range d.sources {
		g.Go(func() error {
			loadCtx, cancel := context.WithTimeout(ctx, d.loadTimeout)
			defer cancel()

			ds, err := d.datasets.Get(loadCtx, s.Load)
			if err != nil {
				d.logger.Warn("warm-up load failed", "variant", s.Variant.ID, "source", s.Load.Path, "error", err)
				return fmt.Errorf("warm up %s: %w", s.Variant.ID, err)
			}
			d.logger.Info("dataset loaded",
				"variant", s.Variant.ID,
				"source", s.Load.Path,
				"sheet", ds.Sheet,
				"records", ds.Len(),
			)
			return nil
		})
	}

	err := g.Wait()
	d.logger.Info("warm-up complete", "variants", len(d.sources), "duration", time.Since(start))
	return err
}

func (d *Dashboards) Stats() Stats {
	return Stats{
		Variants: len(d.sources),
		Builds:   d.builds.Load(),
		Failures: d.failures.Load(),
		Cache:    d.datasets.Stats(),
	}
}
