package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"dataviz/internal/chart"
	apperrors "dataviz/internal/errors"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToDraw is returned when a spec has no finite values to plot.
var ErrNothingToDraw = apperrors.New(apperrors.CodeNoMatches, "chart has no values to draw")

// PNGRenderer draws specs as PNG images.
type PNGRenderer struct {
	Width  int
	Height int
}

func NewPNGRenderer(width, height int) *PNGRenderer {
	return &PNGRenderer{Width: width, Height: height}
}

// WritePNG draws spec into w.
func (r *PNGRenderer) WritePNG(spec chart.Spec, w io.Writer) error {
	var err error
	switch s := spec.(type) {
	case *chart.BarSpec:
		var c gochart.BarChart
		if c, err = r.bar(s); err == nil {
			err = c.Render(gochart.PNG, w)
		}
	case *chart.ScatterSpec:
		var c gochart.Chart
		if c, err = r.scatter(s); err == nil {
			err = c.Render(gochart.PNG, w)
		}
	case *chart.FrequencySpec:
		var c gochart.StackedBarChart
		if c, err = r.frequency(s); err == nil {
			err = c.Render(gochart.PNG, w)
		}
	default:
		return apperrors.InternalError(fmt.Sprintf("unknown chart spec %T", spec))
	}
	if errors.Is(err, ErrNothingToDraw) {
		return err
	}
	if err != nil {
		return apperrors.Wrap(err, "failed to draw chart")
	}
	return nil
}

// Render draws spec and keeps the image in the returned chart.
func (r *PNGRenderer) Render(spec chart.Spec) (Chart, error) {
	var buf bytes.Buffer
	if err := r.WritePNG(spec, &buf); err != nil {
		return nil, err
	}
	return &PNGChart{id: newChartID(), spec: spec, image: buf.Bytes()}, nil
}

func (r *PNGRenderer) bar(s *chart.BarSpec) (gochart.BarChart, error) {
	if len(s.Labels) == 0 {
		return gochart.BarChart{}, ErrNothingToDraw
	}
	style := fillStyle(chart.BarColor)
	bars := make([]gochart.Value, len(s.Labels))
	for i, label := range s.Labels {
		bars[i] = gochart.Value{Label: label, Value: finiteOrZero(s.Values[i]), Style: style}
	}

	// the axis always includes zero; a flat series still gets a unit range
	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	if hi-lo == 0 {
		hi = lo + 1
	}

	return gochart.BarChart{
		Title:    fmt.Sprintf("%s vs %s", s.Y, s.X),
		Width:    r.Width,
		Height:   r.Height,
		BarWidth: r.barWidth(len(bars)),
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}, nil
}

func (r *PNGRenderer) scatter(s *chart.ScatterSpec) (gochart.Chart, error) {
	xs := make([]float64, 0, len(s.Points))
	ys := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		if isFinite(p.X) && isFinite(p.Y) {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
	}
	if len(xs) == 0 {
		return gochart.Chart{}, ErrNothingToDraw
	}
	return gochart.Chart{
		Title:  fmt.Sprintf("%s vs %s", s.Y, s.X),
		Width:  r.Width,
		Height: r.Height,
		XAxis:  gochart.XAxis{Name: s.X, Range: paddedRange(xs)},
		YAxis:  gochart.YAxis{Name: s.Y, Range: paddedRange(ys)},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    fmt.Sprintf("%s vs %s", s.Y, s.X),
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeWidth: gochart.Disabled,
					DotWidth:    4,
					DotColor:    toDrawing(chart.ScatterColor),
				},
			},
		},
	}, nil
}

// paddedRange returns nil to let go-chart autoscale, or a range of ±1 around
// the value when every value is the same.
func paddedRange(values []float64) gochart.Range {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo != 0 {
		return nil
	}
	return &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

// frequency stacks the series of each category into one bar.
func (r *PNGRenderer) frequency(s *chart.FrequencySpec) (gochart.StackedBarChart, error) {
	if len(s.Categories) == 0 || s.Total() == 0 {
		return gochart.StackedBarChart{}, ErrNothingToDraw
	}
	bars := make([]gochart.StackedBar, len(s.Categories))
	for i, category := range s.Categories {
		values := make([]gochart.Value, 0, len(s.Series))
		for _, series := range s.Series {
			values = append(values, gochart.Value{
				Label: series.Label,
				Value: float64(series.Counts[i]),
				Style: fillStyle(series.Color),
			})
		}
		bars[i] = gochart.StackedBar{Name: category, Values: values}
	}
	return gochart.StackedBarChart{
		Title:  fmt.Sprintf("%s distribution across %s", s.Y, s.X),
		Width:  r.Width,
		Height: r.Height,
		Bars:   bars,
	}, nil
}

func (r *PNGRenderer) barWidth(n int) int {
	if n == 0 {
		return 0
	}
	w := (r.Width - 100) / (2 * n)
	if w < 4 {
		return 4
	}
	if w > 50 {
		return 50
	}
	return w
}

func fillStyle(c chart.Color) gochart.Style {
	col := toDrawing(c)
	return gochart.Style{FillColor: col, StrokeColor: col}
}

func toDrawing(c chart.Color) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(c.A * 255))}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// finiteOrZero draws unparsable values as zero-height bars.
func finiteOrZero(f float64) float64 {
	if isFinite(f) {
		return f
	}
	return 0
}

// PNGChart is a rendered image.
type PNGChart struct {
	id    string
	spec  chart.Spec
	image []byte

	mu       sync.Mutex
	released bool
}

func (c *PNGChart) ID() string { return c.id }

func (c *PNGChart) Spec() chart.Spec { return c.spec }

// Image returns the PNG bytes, or ErrReleased.
func (c *PNGChart) Image() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, ErrReleased
	}
	return c.image, nil
}

func (c *PNGChart) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return ErrReleased
	}
	c.released = true
	c.image = nil
	return nil
}
