package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueFloat(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"10", 10, true},
		{"-3.5", -3.5, true},
		{"  42", 42, true},
		{"12px", 12, true},
		{"3.5e2x", 350, true},
		{"1e", 1, true},
		{".5", 0.5, true},
		{"5.", 5, true},
		{"+7", 7, true},
		{"2024-01-15", 2024, true},
		{"0x10", 0, true},
		{"Infinity", math.Inf(1), true},
		{"-Infinity", math.Inf(-1), true},
		{"", 0, false},
		{"abc", 0, false},
		{".", 0, false},
		{"-", 0, false},
		{"NY", 0, false},
	}

	for _, test := range tests {
		got, ok := Text(test.input).Float()
		assert.Equal(t, test.ok, ok, "input %q", test.input)
		if test.ok {
			assert.Equal(t, test.want, got, "input %q", test.input)
		} else {
			assert.True(t, math.IsNaN(got), "input %q should give NaN", test.input)
		}
	}
}

func TestValueAbsent(t *testing.T) {
	v := Absent()
	assert.False(t, v.Present())
	assert.False(t, v.Truthy())
	assert.False(t, v.IsNumeric())
	assert.Equal(t, "", v.Text())

	b, err := v.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestValueTruthy(t *testing.T) {
	assert.False(t, Text("").Truthy())
	assert.True(t, Text("0").Truthy())
	assert.True(t, Text(" ").Truthy())
}
