package analysis

import (
	"fmt"
	"math"
	"sort"

	"dataviz/internal/dataset"
	apperrors "dataviz/internal/errors"
	"dataviz/internal/models"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

const (
	TypeNumeric     = "numeric"
	TypeCategorical = "categorical"
)

var ErrNoNumericValues = apperrors.InvalidInput("no numeric values")

// ProfileService describes columns of a loaded dataset. It is advisory:
// chart inference never depends on it.
type ProfileService struct{}

func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// ColumnTypes classifies every column from the first record, the same rule
// the chart inferencer uses.
func (s *ProfileService) ColumnTypes(ds dataset.Dataset) []models.ColumnType {
	columns := ds.Columns()
	out := make([]models.ColumnType, 0, len(columns))
	for _, col := range columns {
		colType := TypeCategorical
		if ds.IsNumericColumn(col) {
			colType = TypeNumeric
		}
		out = append(out, models.ColumnType{Name: col, Type: colType})
	}
	return out
}

// Summarize computes basic stats over the rows whose value parses.
func (s *ProfileService) Summarize(ds dataset.Dataset, column string) (models.ColumnSummary, error) {
	if !ds.HasColumn(column) {
		return models.ColumnSummary{}, apperrors.NotFound(fmt.Sprintf("column %q", column))
	}

	values := numericValues(ds, column)
	if len(values) == 0 {
		return models.ColumnSummary{}, apperrors.Wrapf(ErrNoNumericValues, "column %q", column)
	}

	summary := models.ColumnSummary{
		Name:   column,
		Rows:   len(ds),
		Parsed: len(values),
	}

	var err error
	if summary.Min, err = stats.Min(values); err != nil {
		return models.ColumnSummary{}, apperrors.Wrap(err, "min")
	}
	if summary.Max, err = stats.Max(values); err != nil {
		return models.ColumnSummary{}, apperrors.Wrap(err, "max")
	}
	if summary.Sum, err = stats.Sum(values); err != nil {
		return models.ColumnSummary{}, apperrors.Wrap(err, "sum")
	}
	if summary.Mean, err = stats.Mean(values); err != nil {
		return models.ColumnSummary{}, apperrors.Wrap(err, "mean")
	}
	if summary.Median, err = stats.Median(values); err != nil {
		return models.ColumnSummary{}, apperrors.Wrap(err, "median")
	}
	if summary.StdDev, err = stats.StandardDeviation(values); err != nil {
		return models.ColumnSummary{}, apperrors.Wrap(err, "standard deviation")
	}
	return summary, nil
}

// Correlate computes Pearson and Spearman correlation over rows where both
// columns parse.
func (s *ProfileService) Correlate(ds dataset.Dataset, x, y string) (models.CorrelationResult, error) {
	for _, col := range []string{x, y} {
		if !ds.HasColumn(col) {
			return models.CorrelationResult{}, apperrors.NotFound(fmt.Sprintf("column %q", col))
		}
	}

	var xs, ys []float64
	for _, rec := range ds {
		xv, okX := rec.Get(x).Float()
		yv, okY := rec.Get(y).Float()
		if okX && okY && isFinite(xv) && isFinite(yv) {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	if len(xs) < 2 {
		return models.CorrelationResult{}, apperrors.InvalidInput("not enough numeric values for correlation")
	}

	pearson := zeroIfNaN(stat.Correlation(xs, ys, nil))
	spearman := zeroIfNaN(stat.Correlation(ranks(xs), ranks(ys), nil))

	return models.CorrelationResult{
		Column1:        x,
		Column2:        y,
		Pairs:          len(xs),
		Correlation:    pearson,
		Spearman:       spearman,
		Interpretation: interpret(pearson),
	}, nil
}

func numericValues(ds dataset.Dataset, column string) []float64 {
	values := []float64{}
	for _, rec := range ds {
		if v, ok := rec.Get(column).Float(); ok && isFinite(v) {
			values = append(values, v)
		}
	}
	return values
}

func interpret(corr float64) string {
	switch {
	case corr > 0.7:
		return "Strong positive"
	case corr < -0.7:
		return "Strong negative"
	case corr > 0.3:
		return "Moderate positive"
	case corr < -0.3:
		return "Moderate negative"
	default:
		return "Weak/None"
	}
}

// ranks assigns 1-based ranks; ties share the mean of their positions.
func ranks(vals []float64) []float64 {
	n := len(vals)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return vals[idx[a]] < vals[idx[b]] })

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && vals[idx[j+1]] == vals[idx[i]] {
			j++
		}
		rank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = rank
		}
		i = j + 1
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// zero-variance input makes gonum return NaN
func zeroIfNaN(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return f
}
