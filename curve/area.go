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
	"fmt"
	"sort"
)

// Toughness returns the running trapezoidal integral of load over the
// primary axis, one value per sample with the first fixed at zero. With
// load in kN and the axis in mm the unit is kN.mm, numerically equal to
// joules.
func (c *Curve) Toughness() []float64 {
	out := make([]float64, len(c.xs))
	for i := 1; i < len(c.xs); i++ {
		dx := c.xs[i] - c.xs[i-1]
		out[i] = out[i-1] + (c.load[i-1]+c.load[i])*dx/2
	}
	return out
}

// AreaTo returns the cumulative integral of load from the curve start up
// to x on the primary axis. When x falls between two samples the final
// trapezoid ends at the linearly interpolated load, so the result is the
// exact integral of the piecewise-linear curve rather than an
// interpolation of the running sums. Targets outside the domain fail with
// ErrOutOfRange unless clamp is set, in which case the area to the nearest
// boundary is returned (zero below the first sample, the full area above
// the last).
func (c *Curve) AreaTo(x float64, clamp bool) (float64, error) {
	if c.Len() < 2 {
		return 0, fmt.Errorf(
			"cannot integrate: %w (%d samples)", ErrInsufficientData, c.Len())
	}
	minX, maxX := c.Domain()
	if x < minX || x > maxX {
		if !clamp {
			return 0, fmt.Errorf(
				"%w: %s=%v lies outside [%v, %v]",
				ErrOutOfRange, c.axis, x, minX, maxX,
			)
		}
		if x < minX {
			return 0, nil
		}
		x = maxX
	}
	i := sort.SearchFloat64s(c.xs, x)
	var area float64
	for k := 1; k < len(c.xs) && c.xs[k] <= x; k++ {
		area += (c.load[k-1] + c.load[k]) * (c.xs[k] - c.xs[k-1]) / 2
	}
	if i < len(c.xs) && c.xs[i] == x {
		return area, nil
	}
	// partial trapezoid up to the interpolated endpoint
	x0, x1 := c.xs[i-1], c.xs[i]
	yx := lerp(c.load[i-1], c.load[i], (x-x0)/(x1-x0))
	area += (c.load[i-1] + yx) * (x - x0) / 2
	return area, nil
}
