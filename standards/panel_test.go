package standards

import (
	"testing"

	"github.com/Isthali/processingdata/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sprayedPanelCurve(t *testing.T) *curve.Curve {
	t.Helper()
	c, err := curve.New(
		curve.AxisDeflection,
		[]float64{0, 5, 10, 15, 20, 25, 30},
		[]float64{0, 40, 30, 22, 16, 12, 10},
		nil,
	)
	require.NoError(t, err)
	return c
}

func TestEFNARCToughnessIndices(t *testing.T) {
	calc, err := GetCalculator(StdEFNARC1996)
	require.NoError(t, err)
	assert.Equal(t, curve.AxisDeflection, calc.Axis())
	assert.Equal(t, []float64{5, 10, 15, 20, 25, 30}, calc.ReferencePoints())

	ans, err := calc.Compute(sprayedPanelCurve(t), Specimen{ID: "P-1"})
	require.NoError(t, err)

	fp, ok := ans.Value("FirstPeakLoad")
	require.True(t, ok)
	assert.Equal(t, 40.0, fp)
	maxLoad, _ := ans.Value("MaxLoad")
	assert.Equal(t, 40.0, maxLoad)

	t5, _ := ans.Value("T5")
	assert.InDelta(t, 100.0, t5, 1e-9)
	t10, _ := ans.Value("T10")
	assert.InDelta(t, 275.0, t10, 1e-9)
	t30, _ := ans.Value("T30")
	assert.InDelta(t, 625.0, t30, 1e-9)
}

func TestEFNARCToughnessNonDecreasing(t *testing.T) {
	calc, err := GetCalculator(StdEFNARC1999)
	require.NoError(t, err)
	ans, err := calc.Compute(sprayedPanelCurve(t), Specimen{ID: "P-2"})
	require.NoError(t, err)

	prev := 0.0
	for _, pt := range ans.Points {
		assert.GreaterOrEqual(t, pt.Toughness, prev)
		prev = pt.Toughness
	}
}

func TestPanelCurveNotReachingLastPointFails(t *testing.T) {
	c, err := curve.New(
		curve.AxisDeflection,
		[]float64{0, 5, 10, 15, 20},
		[]float64{0, 40, 30, 22, 16},
		nil,
	)
	require.NoError(t, err)
	calc, err := GetCalculator(StdEN14488Panel)
	require.NoError(t, err)
	_, err = calc.Compute(c, Specimen{ID: "P-3"})
	assert.ErrorIs(t, err, curve.ErrOutOfRange)
}

func TestASTMC1550AbsorbedEnergy(t *testing.T) {
	c, err := curve.New(
		curve.AxisDeflection,
		[]float64{0, 5, 10, 20, 30, 40, 45},
		[]float64{0, 35, 25, 15, 9, 6, 5},
		nil,
	)
	require.NoError(t, err)
	calc, err := GetCalculator(StdASTMC1550)
	require.NoError(t, err)

	ans, err := calc.Compute(c, Specimen{ID: "RP-1"})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 10, 20, 30, 40, 45}, calc.ReferencePoints())

	e5, ok := ans.Value("E5")
	require.True(t, ok)
	assert.InDelta(t, 87.5, e5, 1e-9)
	// 2 singular indices plus one energy value per reference deflection
	assert.Len(t, ans.Items, 8)

	e40, _ := ans.Value("E40")
	e45, _ := ans.Value("E45")
	assert.Greater(t, e45, e40)
}

func TestPanelInsufficientData(t *testing.T) {
	c, err := curve.New(curve.AxisDeflection, []float64{0}, []float64{0}, nil)
	require.NoError(t, err)
	calc, err := GetCalculator(StdEFNARC1996)
	require.NoError(t, err)
	_, err = calc.Compute(c, Specimen{ID: "P-4"})
	assert.ErrorIs(t, err, curve.ErrInsufficientData)
}
