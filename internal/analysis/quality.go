package analysis

import (
	"math"

	"dataviz/internal/dataset"
	"dataviz/internal/models"

	"gonum.org/v1/gonum/stat"
)

// Quality profiles every column. A cell counts as missing when it is absent
// or empty, or holds a null marker; the frequency chart skips the first two.
func (s *ProfileService) Quality(ds dataset.Dataset) []models.ColumnQuality {
	columns := ds.Columns()
	out := make([]models.ColumnQuality, len(columns))
	for i, col := range columns {
		out[i] = columnQuality(ds, col)
	}
	return out
}

func columnQuality(ds dataset.Dataset, column string) models.ColumnQuality {
	q := models.ColumnQuality{Name: column, Rows: len(ds)}

	counts := make(map[string]int)
	for _, rec := range ds {
		v := rec.Get(column)
		if !v.Truthy() || isNullMarker(v.Text()) {
			continue
		}
		q.Filled++
		counts[v.Text()]++
	}
	q.Distinct = len(counts)

	if q.Rows > 0 {
		q.MissingRate = float64(q.Rows-q.Filled) / float64(q.Rows)
	}
	if q.Filled > 0 {
		q.UniquenessRatio = float64(q.Distinct) / float64(q.Filled)
	}
	q.Entropy = entropyBits(counts, q.Filled)

	// mostly unique and mostly filled
	q.LikelyKey = q.UniquenessRatio > 0.95 && q.MissingRate < 0.05
	q.Score = qualityScore(q)
	return q
}

func isNullMarker(s string) bool {
	switch s {
	case "null", "NULL", "None", "NaN", "N/A":
		return true
	}
	return false
}

// entropyBits is the Shannon entropy of the value distribution in bits.
func entropyBits(counts map[string]int, total int) float64 {
	if total == 0 {
		return 0
	}
	p := make([]float64, 0, len(counts))
	for _, c := range counts {
		p = append(p, float64(c)/float64(total))
	}
	return stat.Entropy(p) / math.Ln2
}

// qualityScore penalises missing cells and entropy far from about 4 bits.
func qualityScore(q models.ColumnQuality) float64 {
	const idealEntropy = 4.0

	score := 1.0 - q.MissingRate
	penalty := math.Abs(q.Entropy-idealEntropy) / 10.0
	score *= math.Max(0.5, 1.0-penalty)
	return math.Max(0, math.Min(1, score))
}
