package chart

import "dataviz/internal/dataset"

// Suggestion is advisory text about which chart suits a column pair. It does
// not have to agree with what Infer draws.
type Suggestion struct {
	XNumeric bool   `json:"x_numeric"`
	YNumeric bool   `json:"y_numeric"`
	Label    string `json:"suggestion"`
}

const (
	SuggestGroupedBar = "📊 Recommended: Grouped Bar Chart (Categorical vs Categorical)"
	SuggestBar        = "📊 Recommended: Bar Chart (Categorical vs Numeric)"
	SuggestScatter    = "📈 Recommended: Scatter Plot or Line Chart (Numeric vs Numeric)"
	SuggestSwapAxes   = "📊 Recommended: Bar Chart (switch X and Y for better results)"
)

// Suggest maps a numeric/categorical pair to a recommendation.
func Suggest(xNumeric, yNumeric bool) Suggestion {
	s := Suggestion{XNumeric: xNumeric, YNumeric: yNumeric}
	switch {
	case !xNumeric && !yNumeric:
		s.Label = SuggestGroupedBar
	case !xNumeric && yNumeric:
		s.Label = SuggestBar
	case xNumeric && yNumeric:
		s.Label = SuggestScatter
	default:
		s.Label = SuggestSwapAxes
	}
	return s
}

// SuggestFor classifies x and y from the first row and suggests a chart.
func SuggestFor(rows dataset.Dataset, x, y string) (Suggestion, error) {
	xNumeric, yNumeric, err := Classify(rows, x, y)
	if err != nil {
		return Suggestion{}, err
	}
	return Suggest(xNumeric, yNumeric), nil
}
