package render

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"sync/atomic"

	"dataviz/internal/chart"
	apperrors "dataviz/internal/errors"
)

// Config is the declarative object a Chart.js front end renders:
// {type, data: {labels, datasets}, options}.
type Config struct {
	Type    string                 `json:"type"`
	Data    Data                   `json:"data"`
	Options map[string]interface{} `json:"options"`
}

// Data is the data block of a Config.
type Data struct {
	Labels   []string  `json:"labels,omitempty"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one series. Data holds []Number, []XY or []int depending on the chart.
type Dataset struct {
	Label           string      `json:"label"`
	Data            interface{} `json:"data"`
	BackgroundColor string      `json:"backgroundColor"`
}

// Number serialises NaN and infinities as null, which Chart.js draws as a gap.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// XY is a scatter point.
type XY struct {
	X Number `json:"x"`
	Y Number `json:"y"`
}

// BuildConfig converts a spec into a Chart.js config.
func BuildConfig(spec chart.Spec) (Config, error) {
	switch s := spec.(type) {
	case *chart.BarSpec:
		return barConfig(s), nil
	case *chart.ScatterSpec:
		return scatterConfig(s), nil
	case *chart.FrequencySpec:
		return frequencyConfig(s), nil
	default:
		return Config{}, apperrors.InternalError(fmt.Sprintf("unknown chart spec %T", spec))
	}
}

func barConfig(s *chart.BarSpec) Config {
	data := make([]Number, len(s.Values))
	for i, v := range s.Values {
		data[i] = Number(v)
	}
	labels := make([]string, len(s.Labels))
	copy(labels, s.Labels)

	return Config{
		Type: "bar",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           fmt.Sprintf("%s vs %s", s.Y, s.X),
				Data:            data,
				BackgroundColor: chart.BarColor.CSS(),
			}},
		},
		Options: map[string]interface{}{
			"responsive": true,
			"scales": map[string]interface{}{
				"y": map[string]interface{}{"beginAtZero": true},
			},
		},
	}
}

func scatterConfig(s *chart.ScatterSpec) Config {
	points := make([]XY, len(s.Points))
	for i, p := range s.Points {
		points[i] = XY{X: Number(p.X), Y: Number(p.Y)}
	}

	return Config{
		Type: "scatter",
		Data: Data{
			Datasets: []Dataset{{
				Label:           fmt.Sprintf("%s vs %s", s.Y, s.X),
				Data:            points,
				BackgroundColor: chart.ScatterColor.CSS(),
			}},
		},
		Options: map[string]interface{}{
			"responsive": true,
			"scales": map[string]interface{}{
				"x": map[string]interface{}{"type": "linear"},
				"y": map[string]interface{}{"beginAtZero": true},
			},
		},
	}
}

func frequencyConfig(s *chart.FrequencySpec) Config {
	datasets := make([]Dataset, len(s.Series))
	for i, series := range s.Series {
		counts := make([]int, len(series.Counts))
		copy(counts, series.Counts)
		datasets[i] = Dataset{
			Label:           series.Label,
			Data:            counts,
			BackgroundColor: series.Color.CSS(),
		}
	}
	labels := make([]string, len(s.Categories))
	copy(labels, s.Categories)

	return Config{
		Type: "bar",
		Data: Data{
			Labels:   labels,
			Datasets: datasets,
		},
		Options: map[string]interface{}{
			"responsive": true,
			"plugins": map[string]interface{}{
				"title": map[string]interface{}{
					"display": true,
					"text":    fmt.Sprintf("%s distribution across %s", s.Y, s.X),
				},
			},
			"scales": map[string]interface{}{
				"y": map[string]interface{}{"beginAtZero": true},
			},
		},
	}
}

// ChartJSRenderer hands out Chart.js chart instances and counts the live ones.
type ChartJSRenderer struct {
	live atomic.Int64
}

func NewChartJSRenderer() *ChartJSRenderer {
	return &ChartJSRenderer{}
}

func (r *ChartJSRenderer) Render(spec chart.Spec) (Chart, error) {
	cfg, err := BuildConfig(spec)
	if err != nil {
		return nil, err
	}
	r.live.Add(1)
	return &ChartJSChart{
		id:     newChartID(),
		spec:   spec,
		config: cfg,
		owner:  r,
	}, nil
}

// Live returns how many acquired charts have not been released.
func (r *ChartJSRenderer) Live() int {
	return int(r.live.Load())
}

// ChartJSChart is a live Chart.js config.
type ChartJSChart struct {
	id     string
	spec   chart.Spec
	config Config
	owner  *ChartJSRenderer

	mu       sync.Mutex
	released bool
}

func (c *ChartJSChart) ID() string { return c.id }

func (c *ChartJSChart) Spec() chart.Spec { return c.spec }

// Config returns the Chart.js object, or ErrReleased.
func (c *ChartJSChart) Config() (Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return Config{}, ErrReleased
	}
	return c.config, nil
}

func (c *ChartJSChart) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return ErrReleased
	}
	c.released = true
	c.owner.live.Add(-1)
	return nil
}
