package dataset

import (
	"testing"

	apperrors "dataviz/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCities() Dataset {
	return Dataset{
		RecordOf("city", "New York", "sales", "10"),
		RecordOf("city", "Los Angeles", "sales", "20"),
		RecordOf("city", "new orleans", "sales", "5"),
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	baseline := sampleCities()

	got, err := Filter(baseline, "city", "  NEW ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "New York", got[0].Get("city").Text())
	assert.Equal(t, "new orleans", got[1].Get("city").Text())
}

func TestFilterNoMatchesLeavesBaseline(t *testing.T) {
	baseline := sampleCities()
	before := baseline.Clone()

	got, err := Filter(baseline, "city", "Chicago")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNoMatches)
	assert.Equal(t, apperrors.CodeNoMatches, apperrors.GetCode(err))
	assert.True(t, baseline.Equal(before))
}

func TestFilterDoesNotShareRecords(t *testing.T) {
	baseline := sampleCities()

	got, err := Filter(baseline, "city", "york")
	require.NoError(t, err)
	got[0].Set("city", Text("changed"))

	assert.Equal(t, "New York", baseline[0].Get("city").Text())
}

func TestFilterIsReproducible(t *testing.T) {
	baseline := sampleCities()

	first, err := Filter(baseline, "sales", "0")
	require.NoError(t, err)
	second, err := Filter(baseline, "sales", "0")
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Len(t, first, 2)
}

func TestFilterAbsentCellsActAsEmpty(t *testing.T) {
	baseline := Dataset{RecordOf("a", "x"), NewRecord(0)}

	got, err := Filter(baseline, "a", "x")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFilterMissingSelection(t *testing.T) {
	_, err := Filter(sampleCities(), "", "ny")
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = Filter(sampleCities(), "city", "   ")
	assert.ErrorIs(t, err, ErrNoSelection)
}
