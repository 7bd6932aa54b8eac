package state

import (
	"context"
	"errors"
	"io"
	"strings"

	"dataviz/internal/analysis"
	"dataviz/internal/chart"
	"dataviz/internal/dataset"
	apperrors "dataviz/internal/errors"
	"dataviz/internal/models"
	"dataviz/internal/render"

	"go.uber.org/zap"
)

// ErrNotLoaded is returned by operations that need a dataset before one exists.
var ErrNotLoaded = apperrors.New(apperrors.CodeNotLoaded, "no dataset loaded")

// Controller holds the session state of one user: the dataset as loaded, the
// dataset currently shown, the column selection and the live chart.
//
// A Controller is not safe for concurrent use; callers serialise access.
type Controller struct {
	baseline dataset.Dataset
	active   dataset.Dataset
	source   string
	loaded   bool
	filtered bool

	x, y string

	inferencer *chart.Inferencer
	renderer   render.Renderer
	live       render.Chart

	profile *analysis.ProfileService
	logger  *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithInferencer replaces the default inferencer, e.g. to pin the palette.
func WithInferencer(inf *chart.Inferencer) Option {
	return func(c *Controller) { c.inferencer = inf }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates an empty session drawing charts with renderer.
func NewController(renderer render.Renderer, opts ...Option) *Controller {
	c := &Controller{
		inferencer: chart.NewInferencer(),
		renderer:   renderer,
		profile:    analysis.NewProfileService(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load parses r as the format implied by name and makes it the session dataset.
// On a parse error the session is left as it was.
func (c *Controller) Load(ctx context.Context, name string, r io.Reader) (dataset.Dataset, error) {
	ds, err := dataset.Load(ctx, name, r)
	if err != nil {
		c.logger.Warn("dataset load failed", zap.String("source", name), zap.Error(err))
		return nil, err
	}
	if err := c.LoadDataset(name, ds); err != nil {
		return nil, err
	}
	return c.active, nil
}

// LoadDataset replaces the baseline with ds. The filter is cleared and the
// live chart released.
func (c *Controller) LoadDataset(name string, ds dataset.Dataset) error {
	if err := c.releaseLive(); err != nil {
		return err
	}
	c.baseline = ds.Clone()
	c.active = c.baseline.Clone()
	c.source = name
	c.loaded = true
	c.filtered = false

	c.logger.Info("dataset loaded",
		zap.String("source", name),
		zap.Int("rows", len(ds)),
		zap.Strings("columns", ds.Columns()))
	return nil
}

// Select remembers the column pair used by Plot and Suggest.
func (c *Controller) Select(x, y string) {
	c.x, c.y = x, y
}

// Selection returns the current column pair.
func (c *Controller) Selection() (x, y string) {
	return c.x, c.y
}

// Plot draws the active dataset for the current selection. When nothing can
// be drawn (no selection, no rows, unknown columns) it returns nil, nil and
// the live chart stays as it was.
func (c *Controller) Plot() (render.Chart, error) {
	if !c.plottable() {
		return nil, nil
	}

	spec, err := c.inferencer.Infer(c.active, c.x, c.y)
	if err != nil {
		return nil, err
	}

	// the previous chart goes before the next one is acquired
	if err := c.releaseLive(); err != nil {
		return nil, err
	}
	ch, err := c.renderer.Render(spec)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to render chart")
	}
	c.live = ch

	c.logger.Debug("chart plotted",
		zap.String("chart_id", ch.ID()),
		zap.String("kind", string(spec.Kind())),
		zap.String("x", c.x),
		zap.String("y", c.y),
		zap.Int("rows", len(c.active)))
	return ch, nil
}

// Suggest returns advisory text for the current selection; ok is false when
// there is nothing to suggest for.
func (c *Controller) Suggest() (s chart.Suggestion, ok bool) {
	if !c.plottable() {
		return chart.Suggestion{}, false
	}
	s, err := chart.SuggestFor(c.active, c.x, c.y)
	if err != nil {
		return chart.Suggestion{}, false
	}
	return s, true
}

// FilterResult describes what ApplyFilter did.
type FilterResult struct {
	Applied bool
	Rows    int
	Chart   render.Chart
}

// ApplyFilter keeps the baseline rows whose column contains needle and
// re-plots. Zero matches return dataset.ErrNoMatches with the active dataset
// untouched. An empty column or needle does nothing, even before a load.
func (c *Controller) ApplyFilter(column, needle string) (FilterResult, error) {
	if column == "" || strings.TrimSpace(needle) == "" {
		return FilterResult{Rows: len(c.active)}, nil
	}
	if !c.loaded {
		return FilterResult{}, ErrNotLoaded
	}

	rows, err := dataset.Filter(c.baseline, column, needle)
	switch {
	case errors.Is(err, dataset.ErrNoSelection):
		return FilterResult{Rows: len(c.active)}, nil
	case errors.Is(err, dataset.ErrNoMatches):
		c.logger.Info("filter matched no rows", zap.String("column", column), zap.String("needle", needle))
		return FilterResult{Rows: len(c.active)}, err
	case err != nil:
		return FilterResult{}, err
	}

	c.active = rows
	c.filtered = true
	c.logger.Info("filter applied",
		zap.String("column", column),
		zap.String("needle", needle),
		zap.Int("rows", len(rows)),
		zap.Int("total_rows", len(c.baseline)))

	ch, err := c.Plot()
	if err != nil {
		return FilterResult{Applied: true, Rows: len(rows)}, err
	}
	return FilterResult{Applied: true, Rows: len(rows), Chart: ch}, nil
}

// ResetFilter restores the baseline and re-plots.
func (c *Controller) ResetFilter() (render.Chart, error) {
	if !c.loaded {
		return nil, ErrNotLoaded
	}
	c.active = c.baseline.Clone()
	c.filtered = false
	c.logger.Info("filter reset", zap.Int("rows", len(c.active)))
	return c.Plot()
}

// Active returns the dataset currently shown. Callers must not mutate it.
func (c *Controller) Active() dataset.Dataset {
	return c.active
}

// Baseline returns the dataset as loaded. Callers must not mutate it.
func (c *Controller) Baseline() dataset.Dataset {
	return c.baseline
}

// Preview returns up to n active records.
func (c *Controller) Preview(n int) dataset.Dataset {
	rows := c.active.Head(n)
	if rows == nil {
		return dataset.Dataset{}
	}
	return rows
}

func (c *Controller) Columns() []string {
	return c.active.Columns()
}

func (c *Controller) ColumnTypes() []models.ColumnType {
	return c.profile.ColumnTypes(c.active)
}

// Live returns the current chart, or nil.
func (c *Controller) Live() render.Chart {
	return c.live
}

func (c *Controller) Status() models.StatusResponse {
	status := models.StatusResponse{
		Loaded:    c.loaded,
		Source:    c.source,
		Rows:      len(c.active),
		TotalRows: len(c.baseline),
		Columns:   c.active.Columns(),
		Filtered:  c.filtered,
		X:         c.x,
		Y:         c.y,
	}
	if status.Columns == nil {
		status.Columns = []string{}
	}
	if c.live != nil {
		status.ChartID = c.live.ID()
	}
	return status
}

// Close releases the live chart.
func (c *Controller) Close() error {
	return c.releaseLive()
}

func (c *Controller) plottable() bool {
	if c.x == "" || c.y == "" || len(c.active) == 0 {
		return false
	}
	first := c.active[0]
	return first.Has(c.x) && first.Has(c.y)
}

func (c *Controller) releaseLive() error {
	if c.live == nil {
		return nil
	}
	live := c.live
	c.live = nil
	if err := live.Release(); err != nil {
		return apperrors.Wrap(err, "failed to release chart")
	}
	c.logger.Debug("chart released", zap.String("chart_id", live.ID()))
	return nil
}
