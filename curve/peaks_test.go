package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstPeakDetectsDrop(t *testing.T) {
	c, err := New(
		AxisDeflection,
		[]float64{0, 0.25, 0.5, 0.6, 0.8, 1.0, 1.5},
		[]float64{0, 6, 10, 9, 8, 7.5, 6},
		nil,
	)
	require.NoError(t, err)
	peak, err := c.FirstPeak()
	require.NoError(t, err)
	assert.Equal(t, 0.5, peak.X)
	assert.Equal(t, 10.0, peak.Y)
}

func TestFirstPeakSkipsRunInNoise(t *testing.T) {
	// the 2 kN bump drops but never reaches half of the global maximum
	c, err := New(
		AxisDeflection,
		[]float64{0, 0.1, 0.2, 0.3, 0.5, 0.6},
		[]float64{0, 2, 1.5, 5, 10, 8},
		nil,
	)
	require.NoError(t, err)
	peak, err := c.FirstPeak()
	require.NoError(t, err)
	assert.Equal(t, 0.5, peak.X)
	assert.Equal(t, 10.0, peak.Y)
}

func TestFirstPeakFallsBackToMaximum(t *testing.T) {
	c, err := New(
		AxisDeflection,
		[]float64{0, 1, 2, 3},
		[]float64{0, 4, 8, 12},
		nil,
	)
	require.NoError(t, err)
	peak, err := c.FirstPeak()
	require.NoError(t, err)
	assert.Equal(t, 3.0, peak.X)
	assert.Equal(t, 12.0, peak.Y)
}

func TestFirstPeakIgnoresShallowSoftening(t *testing.T) {
	// load eases off but stays above 95 % of the running maximum
	c, err := New(
		AxisDeflection,
		[]float64{0, 1, 2, 3},
		[]float64{0, 10, 9.8, 9.7},
		nil,
	)
	require.NoError(t, err)
	peak, err := c.FirstPeak()
	require.NoError(t, err)
	assert.Equal(t, 1.0, peak.X)
	assert.Equal(t, 10.0, peak.Y)
}

func TestFirstPeakInsufficientData(t *testing.T) {
	c, err := New(AxisDeflection, []float64{0}, []float64{0}, nil)
	require.NoError(t, err)
	_, err = c.FirstPeak()
	assert.ErrorIs(t, err, ErrInsufficientData)
}
