package chart

import (
	"dataviz/internal/dataset"
	apperrors "dataviz/internal/errors"
)

var (
	ErrEmptyDataset  = apperrors.New(apperrors.CodeNotLoaded, "dataset is empty")
	ErrUnknownColumn = apperrors.InvalidInput("column is not present in the dataset")
)

// Inferencer picks a chart type from the numeric-ness of two columns and
// projects the rows into that chart's series.
type Inferencer struct {
	palette Palette
}

// Option configures an Inferencer.
type Option func(*Inferencer)

// WithPalette sets the colour source for frequency series.
func WithPalette(p Palette) Option {
	return func(i *Inferencer) { i.palette = p }
}

func NewInferencer(opts ...Option) *Inferencer {
	inf := &Inferencer{}
	for _, opt := range opts {
		opt(inf)
	}
	if inf.palette == nil {
		inf.palette = NewRandomPalette(0)
	}
	return inf
}

// Classify reports whether x and y are numeric, judged from the first row only.
func Classify(rows dataset.Dataset, x, y string) (xNumeric, yNumeric bool, err error) {
	if len(rows) == 0 {
		return false, false, ErrEmptyDataset
	}
	if !rows.HasColumn(x) {
		return false, false, apperrors.Wrapf(ErrUnknownColumn, "x column %q", x)
	}
	if !rows.HasColumn(y) {
		return false, false, apperrors.Wrapf(ErrUnknownColumn, "y column %q", y)
	}
	return rows.IsNumericColumn(x), rows.IsNumericColumn(y), nil
}

// Infer builds the chart for columns x and y:
//
//	categorical x, numeric y -> bar, one bar per row
//	numeric x, numeric y     -> scatter, one point per row
//	anything else            -> frequency of (x, y) pairs
func (inf *Inferencer) Infer(rows dataset.Dataset, x, y string) (Spec, error) {
	xNumeric, yNumeric, err := Classify(rows, x, y)
	if err != nil {
		return nil, err
	}

	axes := Axes{X: x, Y: y}
	switch {
	case !xNumeric && yNumeric:
		return buildBar(rows, axes), nil
	case xNumeric && yNumeric:
		return buildScatter(rows, axes), nil
	default:
		return inf.buildFrequency(rows, axes), nil
	}
}

func buildBar(rows dataset.Dataset, axes Axes) *BarSpec {
	spec := &BarSpec{
		Axes:   axes,
		Labels: make([]string, len(rows)),
		Values: make([]float64, len(rows)),
	}
	for i, rec := range rows {
		spec.Labels[i] = rec.Get(axes.X).Text()
		spec.Values[i], _ = rec.Get(axes.Y).Float()
	}
	return spec
}

func buildScatter(rows dataset.Dataset, axes Axes) *ScatterSpec {
	spec := &ScatterSpec{
		Axes:   axes,
		Points: make([]Point, len(rows)),
	}
	for i, rec := range rows {
		px, _ := rec.Get(axes.X).Float()
		py, _ := rec.Get(axes.Y).Float()
		spec.Points[i] = Point{X: px, Y: py}
	}
	return spec
}

type pair struct {
	x, y string
}

func (inf *Inferencer) buildFrequency(rows dataset.Dataset, axes Axes) *FrequencySpec {
	var xs, ys orderedSet
	counts := make(map[pair]int)

	for _, rec := range rows {
		xv, yv := rec.Get(axes.X), rec.Get(axes.Y)
		if !xv.Truthy() || !yv.Truthy() {
			continue
		}
		xs.add(xv.Text())
		ys.add(yv.Text())
		counts[pair{xv.Text(), yv.Text()}]++
	}

	spec := &FrequencySpec{
		Axes:       axes,
		Categories: xs.items,
		Series:     make([]FrequencySeries, 0, len(ys.items)),
	}
	if spec.Categories == nil {
		spec.Categories = []string{}
	}
	for _, label := range ys.items {
		data := make([]int, len(xs.items))
		for i, cat := range xs.items {
			data[i] = counts[pair{cat, label}]
		}
		spec.Series = append(spec.Series, FrequencySeries{
			Label:  label,
			Counts: data,
			Color:  inf.palette.Next(),
		})
	}
	return spec
}

// orderedSet keeps distinct strings in first-seen order.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func (s *orderedSet) add(v string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
