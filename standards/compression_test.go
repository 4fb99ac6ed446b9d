package standards

import (
	"math"
	"testing"

	"github.com/Isthali/processingdata/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryArea(t *testing.T) {
	area, err := Geometry{Section: SectionCircular, Diameter: 100}.Area()
	assert.NoError(t, err)
	assert.InDelta(t, math.Pi*2500, area, 1e-9)

	area, err = Geometry{Section: SectionSquare, Side: 150}.Area()
	assert.NoError(t, err)
	assert.InDelta(t, 22500, area, 1e-9)

	area, err = Geometry{Section: SectionRectangular, Side: 100, Side2: 200}.Area()
	assert.NoError(t, err)
	assert.InDelta(t, 20000, area, 1e-9)

	_, err = Geometry{Section: SectionCircular}.Area()
	assert.Error(t, err)
	_, err = Geometry{}.Area()
	assert.Error(t, err)
}

func compressionCurve(t *testing.T, maxLoad float64) *curve.Curve {
	t.Helper()
	c, err := curve.New(
		curve.AxisDisplacement,
		[]float64{0, 0.5, 1, 1.5, 2},
		[]float64{0, maxLoad * 0.4, maxLoad * 0.8, maxLoad, maxLoad * 0.85},
		nil,
	)
	require.NoError(t, err)
	return c
}

func TestAxialCompressionStrength(t *testing.T) {
	calc, err := GetCalculator(StdNTP339034)
	require.NoError(t, err)
	assert.Nil(t, calc.ReferencePoints())

	ans, err := calc.Compute(compressionCurve(t, 300), Specimen{
		ID:       "C-1",
		Geometry: Geometry{Section: SectionCircular, Diameter: 100},
	})
	require.NoError(t, err)

	maxLoad, ok := ans.Value("MaxLoad")
	require.True(t, ok)
	assert.Equal(t, 300.0, maxLoad)

	strength, ok := ans.Value("CompressiveStrength")
	require.True(t, ok)
	assert.InDelta(t, 300*1e3/(math.Pi*2500), strength, 1e-9)
}

func TestAxialCompressionNeedsSection(t *testing.T) {
	calc, err := GetCalculator(StdNTP339034)
	require.NoError(t, err)
	_, err = calc.Compute(compressionCurve(t, 300), Specimen{ID: "C-2"})
	assert.Error(t, err)
}

func TestManholeFlexureVerdict(t *testing.T) {
	calc, err := GetCalculator(StdNTP339111)
	require.NoError(t, err)

	ans, err := calc.Compute(compressionCurve(t, 150), Specimen{ID: "T-1"})
	require.NoError(t, err)
	assert.Equal(t, VerdictCompliant, ans.Verdict)
	margin, _ := ans.Value("LoadMargin")
	assert.InDelta(t, 30.0, margin, 1e-9)

	ans, err = calc.Compute(compressionCurve(t, 100), Specimen{ID: "T-2"})
	require.NoError(t, err)
	assert.Equal(t, VerdictNonCompliant, ans.Verdict)
	margin, _ = ans.Value("LoadMargin")
	assert.InDelta(t, -20.0, margin, 1e-9)
}
