package dataset

import (
	"encoding/json"
	"testing"

	apperrors "dataviz/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	input := `[
		{"zeta": "first", "alpha": 1.50, "flag": true, "none": null, "tags": ["a", "b"], "obj": {"k": 1}},
		{"alpha": "2", "zeta": "second"}
	]`

	rows, err := ParseJSON([]byte(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"zeta", "alpha", "flag", "none", "tags", "obj"}, rows.Columns())
	assert.Equal(t, "1.50", rows[0].Get("alpha").Text())
	assert.Equal(t, "true", rows[0].Get("flag").Text())
	assert.True(t, rows[0].Has("none"))
	assert.False(t, rows[0].Get("none").Present())
	assert.Equal(t, `["a","b"]`, rows[0].Get("tags").Text())
	assert.Equal(t, `{"k":1}`, rows[0].Get("obj").Text())

	assert.Equal(t, []string{"alpha", "zeta"}, rows[1].Keys())
}

func TestParseJSONFalsyLiterals(t *testing.T) {
	rows, err := ParseJSON([]byte(`[{"a": 0, "b": -0.0, "c": false, "d": true, "e": 0.5, "f": "0", "g": ""}]`))
	require.NoError(t, err)
	rec := rows[0]

	for _, k := range []string{"a", "b", "c", "g"} {
		assert.False(t, rec.Get(k).Truthy(), k)
	}
	for _, k := range []string{"d", "e", "f"} {
		assert.True(t, rec.Get(k).Truthy(), k)
	}

	// still numeric and still printed as written
	assert.Equal(t, "0", rec.Get("a").Text())
	assert.True(t, rec.Get("a").IsNumeric())
	assert.Equal(t, "false", rec.Get("c").Text())
}

func TestParseJSONDuplicateKeyKeepsFirstPosition(t *testing.T) {
	rows, err := ParseJSON([]byte(`[{"a":"1","b":"2","a":"3"}]`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, rows[0].Keys())
	assert.Equal(t, "3", rows[0].Get("a").Text())
}

func TestParseJSONEmptyArray(t *testing.T) {
	rows, err := ParseJSON([]byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestParseJSONInvalid(t *testing.T) {
	inputs := []string{
		``,
		`{"a": 1}`,
		`[{"a": 1}`,
		`[1, 2]`,
		`[{"a": 1}] trailing`,
		`[{"a": tru}]`,
	}

	for _, input := range inputs {
		_, err := ParseJSON([]byte(input))
		require.Error(t, err, "input %q", input)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err), "input %q", input)
	}
}

func TestRecordMarshalJSONKeepsOrder(t *testing.T) {
	rec := NewRecord(3)
	rec.Set("z", Text("1"))
	rec.Set("a", Absent())
	rec.Set("m", Text(`q"uote`))

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"1","a":null,"m":"q\"uote"}`, string(b))
}
