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

package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsDecreasingAxis(t *testing.T) {
	_, err := New(AxisDeflection, []float64{0, 1, 0.5}, []float64{0, 5, 3}, nil)
	assert.ErrorIs(t, err, ErrMalformedCurve)
}

func TestNewAllowsDuplicateAxisValues(t *testing.T) {
	c, err := New(AxisDeflection, []float64{0, 1, 1, 2}, []float64{0, 5, 5.5, 3}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 4, c.Len())
}

func TestNewRejectsMisalignedLoad(t *testing.T) {
	_, err := New(AxisDeflection, []float64{0, 1, 2}, []float64{0, 5}, nil)
	assert.ErrorIs(t, err, ErrMalformedCurve)
}

func TestNewRejectsMisalignedAux(t *testing.T) {
	_, err := New(
		AxisDeflection,
		[]float64{0, 1, 2},
		[]float64{0, 5, 3},
		map[string][]float64{AxisCMOD: {0, 0.4}},
	)
	assert.ErrorIs(t, err, ErrMalformedCurve)
}

func TestNewRejectsAuxShadowingPrimary(t *testing.T) {
	_, err := New(
		AxisDeflection,
		[]float64{0, 1},
		[]float64{0, 5},
		map[string][]float64{AxisDeflection: {0, 1}},
	)
	assert.ErrorIs(t, err, ErrMalformedCurve)
}

func TestAxisValues(t *testing.T) {
	c, err := New(
		AxisDeflection,
		[]float64{0, 1, 2},
		[]float64{0, 5, 3},
		map[string][]float64{AxisTime: {0, 10, 20}},
	)
	require.NoError(t, err)

	xs, err := c.AxisValues(AxisDeflection)
	assert.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, xs)

	load, err := c.AxisValues(AxisLoad)
	assert.NoError(t, err)
	assert.Equal(t, []float64{0, 5, 3}, load)

	tm, err := c.AxisValues(AxisTime)
	assert.NoError(t, err)
	assert.Equal(t, []float64{0, 10, 20}, tm)

	_, err = c.AxisValues(AxisCMOD)
	assert.ErrorIs(t, err, ErrUnknownAxis)
}

func TestAxisValuesReturnsCopy(t *testing.T) {
	c, err := New(AxisDeflection, []float64{0, 1}, []float64{0, 5}, nil)
	require.NoError(t, err)
	xs, err := c.AxisValues(AxisDeflection)
	require.NoError(t, err)
	xs[0] = 99
	again, err := c.AxisValues(AxisDeflection)
	require.NoError(t, err)
	assert.Equal(t, 0.0, again[0])
}

func TestDomain(t *testing.T) {
	c, err := New(AxisCMOD, []float64{0.2, 1, 3.5}, []float64{1, 5, 3}, nil)
	require.NoError(t, err)
	lo, hi := c.Domain()
	assert.Equal(t, 0.2, lo)
	assert.Equal(t, 3.5, hi)
}

func TestMaxLoadFirstOccurrence(t *testing.T) {
	c, err := New(AxisDeflection, []float64{0, 1, 2, 3}, []float64{0, 7, 7, 2}, nil)
	require.NoError(t, err)
	best := c.MaxLoad()
	assert.Equal(t, 1.0, best.X)
	assert.Equal(t, 7.0, best.Y)
}

func TestReindexSwapsPrimaryAndAux(t *testing.T) {
	c, err := New(
		AxisDeflection,
		[]float64{0, 1, 2},
		[]float64{0, 8, 12},
		map[string][]float64{AxisCMOD: {0, 0.5, 1.1}},
	)
	require.NoError(t, err)

	rc, err := c.Reindex(AxisCMOD)
	require.NoError(t, err)
	assert.Equal(t, AxisCMOD, rc.PrimaryAxis())

	xs, err := rc.AxisValues(AxisCMOD)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1.1}, xs)

	defl, err := rc.AxisValues(AxisDeflection)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, defl)

	load, err := rc.AxisValues(AxisLoad)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 8, 12}, load)
}

func TestReindexUnknownAxis(t *testing.T) {
	c, err := New(AxisDeflection, []float64{0, 1}, []float64{0, 5}, nil)
	require.NoError(t, err)
	_, err = c.Reindex(AxisCMOD)
	assert.ErrorIs(t, err, ErrUnknownAxis)
}

func TestReindexRejectsNonMonotonicColumn(t *testing.T) {
	c, err := New(
		AxisDeflection,
		[]float64{0, 1, 2},
		[]float64{0, 5, 3},
		map[string][]float64{AxisCMOD: {0, 0.9, 0.4}},
	)
	require.NoError(t, err)
	_, err = c.Reindex(AxisCMOD)
	assert.ErrorIs(t, err, ErrMalformedCurve)
}
