package render

import (
	"bytes"
	"math"
	"net/http"
	"testing"

	"dataviz/internal/chart"
	"dataviz/internal/dataset"
	apperrors "dataviz/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestPNGRendererDrawsEveryKind(t *testing.T) {
	specs := []chart.Spec{
		&chart.BarSpec{
			Axes:   chart.Axes{X: "city", Y: "sales"},
			Labels: []string{"NY", "NY", "LA"},
			Values: []float64{10, math.NaN(), 5},
		},
		&chart.ScatterSpec{
			Axes:   chart.Axes{X: "a", Y: "b"},
			Points: []chart.Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 1}},
		},
		&chart.FrequencySpec{
			Axes:       chart.Axes{X: "cat", Y: "grp"},
			Categories: []string{"X", "Y"},
			Series: []chart.FrequencySeries{
				{Label: "P", Counts: []int{1, 1}, Color: chart.Color{R: 10, G: 20, B: 30, A: 0.7}},
				{Label: "Q", Counts: []int{1, 0}, Color: chart.Color{R: 40, G: 50, B: 60, A: 0.7}},
			},
		},
	}

	r := NewPNGRenderer(800, 400)
	for _, spec := range specs {
		var buf bytes.Buffer
		require.NoError(t, r.WritePNG(spec, &buf), "kind %s", spec.Kind())
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "kind %s", spec.Kind())
	}
}

func TestPNGRendererDegenerateRanges(t *testing.T) {
	inf := chart.NewInferencer(chart.WithPalette(chart.NewRandomPalette(1)))
	tests := []struct {
		name string
		rows dataset.Dataset
		x, y string
	}{
		{"single bar", dataset.Dataset{dataset.RecordOf("city", "LA", "sales", "5")}, "city", "sales"},
		{"all zero bars", dataset.Dataset{
			dataset.RecordOf("city", "NY", "sales", "0"),
			dataset.RecordOf("city", "LA", "sales", "0"),
		}, "city", "sales"},
		{"equal bars", dataset.Dataset{
			dataset.RecordOf("city", "NY", "sales", "7"),
			dataset.RecordOf("city", "LA", "sales", "7"),
		}, "city", "sales"},
		{"negative bars", dataset.Dataset{
			dataset.RecordOf("city", "NY", "sales", "-3"),
			dataset.RecordOf("city", "LA", "sales", "-3"),
		}, "city", "sales"},
		{"unparsable bars", dataset.Dataset{
			dataset.RecordOf("city", "NY", "sales", "1"),
			dataset.RecordOf("city", "LA", "sales", "n/a"),
		}, "city", "sales"},
		{"single point", dataset.Dataset{dataset.RecordOf("a", "1", "b", "2")}, "a", "b"},
		{"identical points", dataset.Dataset{
			dataset.RecordOf("a", "1", "b", "2"),
			dataset.RecordOf("a", "1", "b", "2"),
		}, "a", "b"},
		{"same x", dataset.Dataset{
			dataset.RecordOf("a", "4", "b", "2"),
			dataset.RecordOf("a", "4", "b", "9"),
		}, "a", "b"},
		{"single frequency", dataset.Dataset{dataset.RecordOf("cat", "X", "grp", "P")}, "cat", "grp"},
	}

	r := NewPNGRenderer(400, 300)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := inf.Infer(tt.rows, tt.x, tt.y)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, r.WritePNG(spec, &buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestPNGRendererNothingToDraw(t *testing.T) {
	inf := chart.NewInferencer(chart.WithPalette(chart.NewRandomPalette(1)))

	// every row has an empty cell, so no pair is counted
	skipped, err := inf.Infer(dataset.Dataset{
		dataset.RecordOf("cat", "X", "grp", ""),
		dataset.RecordOf("cat", "", "grp", "P"),
	}, "cat", "grp")
	require.NoError(t, err)
	require.Equal(t, chart.KindFrequency, skipped.Kind())

	specs := []chart.Spec{
		skipped,
		&chart.ScatterSpec{
			Axes:   chart.Axes{X: "a", Y: "b"},
			Points: []chart.Point{{X: math.NaN(), Y: 1}},
		},
		&chart.BarSpec{Axes: chart.Axes{X: "k", Y: "v"}},
	}

	r := NewPNGRenderer(400, 300)
	for _, spec := range specs {
		err := r.WritePNG(spec, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrNothingToDraw, "kind %s", spec.Kind())
		assert.Equal(t, http.StatusUnprocessableEntity, apperrors.HTTPStatus(err))
	}
}

func TestPNGChartRelease(t *testing.T) {
	r := NewPNGRenderer(640, 320)
	c, err := r.Render(&chart.BarSpec{
		Axes:   chart.Axes{X: "k", Y: "v"},
		Labels: []string{"a", "b"},
		Values: []float64{1, 2},
	})
	require.NoError(t, err)

	img, err := c.(*PNGChart).Image()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))

	require.NoError(t, c.Release())
	_, err = c.(*PNGChart).Image()
	assert.ErrorIs(t, err, ErrReleased)
}

func TestBarWidth(t *testing.T) {
	r := NewPNGRenderer(1100, 400)
	assert.Equal(t, 50, r.barWidth(1))
	assert.Equal(t, 25, r.barWidth(20))
	assert.Equal(t, 4, r.barWidth(1000))
	assert.Equal(t, 0, r.barWidth(0))
}
