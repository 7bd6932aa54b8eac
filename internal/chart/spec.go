// Package chart infers a chart for a pair of columns and reshapes rows into
// chart-ready series. Everything here is a pure function of its inputs.
package chart

// Kind names the chart a Spec describes.
type Kind string

const (
	KindBar       Kind = "bar"
	KindScatter   Kind = "scatter"
	KindFrequency Kind = "frequency"
)

// Spec is one of *BarSpec, *ScatterSpec or *FrequencySpec.
type Spec interface {
	Kind() Kind
	// Columns returns the X and Y column names the spec was built from.
	Columns() (x, y string)
	isSpec()
}

// Axes is the column pair shared by every spec.
type Axes struct {
	X string `json:"x"`
	Y string `json:"y"`
}

func (a Axes) Columns() (string, string) { return a.X, a.Y }

// BarSpec is one bar per row. Values holds NaN where Y did not parse.
type BarSpec struct {
	Axes
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func (*BarSpec) Kind() Kind { return KindBar }
func (*BarSpec) isSpec()    {}

// Point is a scatter coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScatterSpec is one point per row.
type ScatterSpec struct {
	Axes
	Points []Point `json:"points"`
}

func (*ScatterSpec) Kind() Kind { return KindScatter }
func (*ScatterSpec) isSpec()    {}

// FrequencySeries counts one Y category across every X category.
type FrequencySeries struct {
	Label  string `json:"label"`
	Counts []int  `json:"counts"`
	Color  Color  `json:"color"`
}

// FrequencySpec is a grouped count of (X, Y) pairs.
type FrequencySpec struct {
	Axes
	Categories []string          `json:"categories"`
	Series     []FrequencySeries `json:"series"`
}

func (*FrequencySpec) Kind() Kind { return KindFrequency }
func (*FrequencySpec) isSpec()    {}

// Total is the sum of every count in every series.
func (s *FrequencySpec) Total() int {
	total := 0
	for _, series := range s.Series {
		for _, c := range series.Counts {
			total += c
		}
	}
	return total
}
