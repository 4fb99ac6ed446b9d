// Copyright 2025 Isthali S.A.C.
// Copyright 2025 LEDI - Laboratorio de Estructuras
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package standards

import (
	"testing"

	"github.com/Isthali/processingdata/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notchedBeamCurve(t *testing.T) *curve.Curve {
	t.Helper()
	c, err := curve.New(
		curve.AxisCMOD,
		[]float64{0, 0.5, 1, 1.5, 2.5, 3.5},
		[]float64{0, 8, 12, 10, 7, 5},
		map[string][]float64{curve.AxisDeflection: {0, 0.45, 0.92, 1.4, 2.38, 3.35}},
	)
	require.NoError(t, err)
	return c
}

func notchedBeamSpecimen() Specimen {
	return Specimen{
		ID:       "V-1",
		Geometry: Geometry{Width: 150, Depth: 125, Span: 500},
	}
}

func TestEN14651ResidualStrengths(t *testing.T) {
	calc, err := GetCalculator(StdEN14651)
	require.NoError(t, err)
	assert.Equal(t, curve.AxisCMOD, calc.Axis())
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, calc.ReferencePoints())

	ans, err := calc.Compute(notchedBeamCurve(t), notchedBeamSpecimen())
	require.NoError(t, err)

	// f = 3FL/(2bd2): 8 kN on a 150x125x500 beam gives 2.56 MPa
	fR1, ok := ans.Value("fR1")
	require.True(t, ok)
	assert.InDelta(t, 2.56, fR1, 1e-9)

	fR2, _ := ans.Value("fR2")
	assert.InDelta(t, 3.2, fR2, 1e-9)
	fR3, _ := ans.Value("fR3")
	assert.InDelta(t, 2.24, fR3, 1e-9)
	fR4, _ := ans.Value("fR4")
	assert.InDelta(t, 1.6, fR4, 1e-9)

	// first peak sits at the 12 kN sample: loading drops to 10 right after
	fL, _ := ans.Value("fL")
	assert.InDelta(t, 3.84, fL, 1e-9)
	fM, _ := ans.Value("fM")
	assert.InDelta(t, 3.84, fM, 1e-9)
}

func TestEN14651PointTableCarriesDeflection(t *testing.T) {
	calc, err := GetCalculator(StdEN14651)
	require.NoError(t, err)
	ans, err := calc.Compute(notchedBeamCurve(t), notchedBeamSpecimen())
	require.NoError(t, err)

	require.Len(t, ans.Points, 4)
	assert.Equal(t, 0.5, ans.Points[0].Target)
	assert.Equal(t, 8.0, ans.Points[0].Load)
	assert.Equal(t, curve.MethodExact, ans.Points[0].Method)
	assert.Equal(t, 0.45, ans.Points[0].Aux[curve.AxisDeflection])
	// cumulative toughness to CMOD 0.5 is the first trapezoid
	assert.InDelta(t, 2.0, ans.Points[0].Toughness, 1e-9)
}

func TestEN14651InterpolatesBetweenSamples(t *testing.T) {
	// CMOD 2.0 is not a sample: the load interpolates between the 1.5 and
	// 2.5 records before stress conversion
	pts, err := curve.Resolve(
		notchedBeamCurve(t),
		curve.PointSet{Axis: curve.AxisCMOD, Targets: []float64{2}},
	)
	require.NoError(t, err)
	assert.InDelta(t, 8.5, pts[0].Value, 1e-9)
	assert.InDelta(t, 2.72, FlexuralStress(pts[0].Value, 500, 150, 125), 1e-9)
}

func TestEN14488SharesTheResidualContract(t *testing.T) {
	calc, err := GetCalculator(StdEN14488)
	require.NoError(t, err)
	ans, err := calc.Compute(notchedBeamCurve(t), notchedBeamSpecimen())
	require.NoError(t, err)
	fR1, ok := ans.Value("fR1")
	require.True(t, ok)
	assert.InDelta(t, 2.56, fR1, 1e-9)
	assert.Equal(t, StdEN14488, ans.Standard)
}

func TestBeamResidualRequiresGeometry(t *testing.T) {
	calc, err := GetCalculator(StdEN14651)
	require.NoError(t, err)
	_, err = calc.Compute(notchedBeamCurve(t), Specimen{ID: "V-2"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "geometry")
}

func TestBeamResidualShortCurveFailsWhole(t *testing.T) {
	// curve ends at CMOD 2.0, before the 2.5 and 3.5 reference points:
	// no partial index set is produced
	c, err := curve.New(
		curve.AxisCMOD,
		[]float64{0, 0.5, 1, 1.5, 2},
		[]float64{0, 8, 12, 10, 9},
		nil,
	)
	require.NoError(t, err)
	calc, err := GetCalculator(StdEN14651)
	require.NoError(t, err)
	_, err = calc.Compute(c, notchedBeamSpecimen())
	assert.ErrorIs(t, err, curve.ErrOutOfRange)
}

func TestASTMC1609ResidualAtPeakMultiples(t *testing.T) {
	c, err := curve.New(
		curve.AxisDeflection,
		[]float64{0, 0.25, 0.5, 0.6, 0.8, 1.0, 1.5},
		[]float64{0, 6, 10, 9, 8, 7.5, 6},
		nil,
	)
	require.NoError(t, err)
	calc, err := GetCalculator(StdASTMC1609)
	require.NoError(t, err)

	ans, err := calc.Compute(c, Specimen{
		ID:       "B-1",
		Geometry: Geometry{Width: 150, Depth: 150, Span: 450},
	})
	require.NoError(t, err)

	p1, ok := ans.Value("P1")
	require.True(t, ok)
	assert.Equal(t, 10.0, p1)
	f1, _ := ans.Value("f1")
	assert.InDelta(t, 10.0*1e3*450/(150*150*150), f1, 1e-9)

	// the residual at 3x the first-peak deflection (1.5 mm) reads the
	// 6 kN record there, not the peak load
	fD3, ok := ans.Value("fD3")
	require.True(t, ok)
	assert.InDelta(t, 0.8, fD3, 1e-9)
	fD2, _ := ans.Value("fD2")
	assert.InDelta(t, 1.0, fD2, 1e-9)

	tD2, _ := ans.Value("TD2")
	assert.InDelta(t, 6.95, tD2, 1e-9)
	tD3, _ := ans.Value("TD3")
	assert.InDelta(t, 10.325, tD3, 1e-9)
}

func TestASTMC1609CurveEndingBeforeOffsetsFails(t *testing.T) {
	c, err := curve.New(
		curve.AxisDeflection,
		[]float64{0, 0.25, 0.5, 0.6, 0.8},
		[]float64{0, 6, 10, 9, 8},
		nil,
	)
	require.NoError(t, err)
	calc, err := GetCalculator(StdASTMC1609)
	require.NoError(t, err)
	_, err = calc.Compute(c, Specimen{
		Geometry: Geometry{Width: 150, Depth: 150, Span: 450},
	})
	assert.ErrorIs(t, err, curve.ErrOutOfRange)
}
