package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/formkit/ir/raw"
)

func TestFromComponents(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want *Color
	}{
		{"empty", nil, nil},
		{"gray", []float64{0.5}, Gray(0.5)},
		{"two components dropped", []float64{0, 1}, nil},
		{"rgb", []float64{1, 0, 0}, RGB(1, 0, 0)},
		{"cmyk black", []float64{0, 0, 0, 1}, CMYK(0, 0, 0, 1)},
		{"five components dropped", []float64{0, 0, 0, 0, 0}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromComponents(tt.in)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestFromObject(t *testing.T) {
	s := raw.NewStore()
	ref := s.MakeIndirect(raw.NewArray(raw.NumberInt(0), raw.NumberInt(0), raw.NumberInt(0), raw.NumberInt(1)))

	c := FromObject(s, ref)
	require.NotNil(t, c)
	assert.Equal(t, DeviceCMYK, c.Space())
	assert.Equal(t, []float64{0, 0, 0, 1}, c.Components())

	assert.Nil(t, FromObject(s, raw.NewArray(raw.NameLiteral("x"))))
	assert.Nil(t, FromObject(s, nil))
}

func TestOperators(t *testing.T) {
	assert.Equal(t, "g", Gray(0).FillOperator())
	assert.Equal(t, "RG", RGB(0, 0, 0).StrokeOperator())
	assert.Equal(t, "k", CMYK(0, 0, 0, 1).FillOperator())
	assert.Equal(t, 3, RGB(0.2, 0.3, 0.4).Array().Len())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, []float64{1}, Gray(3).Components())
	assert.Equal(t, []float64{0, 1, 0.5}, RGB(-1, 2, 0.5).Components())
}
