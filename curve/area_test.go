package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToughnessRunningIntegral(t *testing.T) {
	c, err := New(AxisDeflection, []float64{0, 1, 2}, []float64{0, 10, 0}, nil)
	require.NoError(t, err)
	tough := c.Toughness()
	require.Len(t, tough, 3)
	assert.Equal(t, 0.0, tough[0])
	assert.InDelta(t, 5.0, tough[1], 1e-9)
	assert.InDelta(t, 10.0, tough[2], 1e-9)
}

func TestToughnessNonDecreasing(t *testing.T) {
	c, err := New(
		AxisDeflection,
		[]float64{0, 2, 5, 9, 14, 20, 27},
		[]float64{0, 30, 42, 25, 18, 14, 11},
		nil,
	)
	require.NoError(t, err)
	tough := c.Toughness()
	for i := 1; i < len(tough); i++ {
		assert.GreaterOrEqual(t, tough[i], tough[i-1])
	}
}

func TestAreaToExactSample(t *testing.T) {
	c, err := New(AxisDeflection, []float64{0, 1, 2}, []float64{0, 10, 0}, nil)
	require.NoError(t, err)
	area, err := c.AreaTo(1, false)
	assert.NoError(t, err)
	assert.InDelta(t, 5.0, area, 1e-9)
}

func TestAreaToPartialTrapezoid(t *testing.T) {
	c, err := New(AxisDeflection, []float64{0, 2}, []float64{0, 10}, nil)
	require.NoError(t, err)
	// load at 1.0 interpolates to 5, triangle area 0..1 is 2.5
	area, err := c.AreaTo(1, false)
	assert.NoError(t, err)
	assert.InDelta(t, 2.5, area, 1e-9)
}

func TestAreaToOutOfRange(t *testing.T) {
	c, err := New(AxisDeflection, []float64{0, 2}, []float64{0, 10}, nil)
	require.NoError(t, err)
	_, err = c.AreaTo(3, false)
	assert.ErrorIs(t, err, ErrOutOfRange)

	area, err := c.AreaTo(3, true)
	assert.NoError(t, err)
	assert.InDelta(t, 10.0, area, 1e-9)
}

func TestAreaToInsufficientData(t *testing.T) {
	c, err := New(AxisDeflection, []float64{1}, []float64{4}, nil)
	require.NoError(t, err)
	_, err = c.AreaTo(1, false)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
