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

// Method tells how a reference point was resolved against the samples.
type Method string

const (
	// MethodExact means the target hit an existing sample.
	MethodExact Method = "exact"
	// MethodLinear means the value was linearly interpolated between the
	// two bracketing samples.
	MethodLinear Method = "linear"
	// MethodClamped means the target fell outside the curve domain and the
	// nearest boundary sample was returned. Only produced when the point
	// set enables clamping.
	MethodClamped Method = "clamped"
)

// PointSet is a standard's ordered list of reference points on a named
// axis. It is configuration, not test data: each calculator hard-codes its
// own set. Clamp permits out-of-domain targets to resolve to the boundary
// sample instead of failing.
type PointSet struct {
	Axis    string
	Targets []float64
	Clamp   bool
}

// Point is the resolved value at one reference point. Target always equals
// the requested value, never a nearby sample's coordinate.
type Point struct {
	Target float64
	Value  float64
	Aux    map[string]float64
	Method Method
}

// Resolve maps a point set onto a curve, producing one Point per target in
// the given order. The point set's axis must be the curve's primary axis;
// requesting an auxiliary axis fails with ErrUnknownAxis (reindex the
// curve instead, axis binding is always explicit). The named carry columns
// are interpolated independently with the same bracketing samples.
//
// Targets matching a sample resolve exactly. Targets strictly between two
// samples use two-point linear interpolation. Targets outside the domain
// fail with ErrOutOfRange unless ps.Clamp is set, in which case the
// boundary sample's values are returned. Curves with fewer than two
// samples cannot be resolved at all (ErrInsufficientData).
func Resolve(c *Curve, ps PointSet, carry ...string) ([]Point, error) {
	if c.Len() < 2 {
		return nil, fmt.Errorf(
			"cannot resolve reference points: %w (%d samples)", ErrInsufficientData, c.Len())
	}
	if ps.Axis != c.axis {
		if _, isAux := c.aux[ps.Axis]; isAux {
			return nil, fmt.Errorf(
				"%w: %s is an auxiliary column of this curve, not its primary axis (%s)",
				ErrUnknownAxis, ps.Axis, c.axis,
			)
		}
		return nil, fmt.Errorf(
			"%w: %s (curve is indexed on %s)", ErrUnknownAxis, ps.Axis, c.axis)
	}
	for _, name := range carry {
		if _, ok := c.aux[name]; !ok {
			return nil, fmt.Errorf(
				"%w: cannot carry column %s (curve has %s)",
				ErrUnknownAxis, name, c.describeAxes(),
			)
		}
	}

	minX, maxX := c.Domain()
	ans := make([]Point, len(ps.Targets))
	for ti, target := range ps.Targets {
		pt := Point{Target: target}
		i := sort.SearchFloat64s(c.xs, target)
		switch {
		case i < len(c.xs) && c.xs[i] == target:
			pt.Value = c.load[i]
			pt.Method = MethodExact
			pt.Aux = c.auxAt(i, carry)
		case i == 0 || i == len(c.xs):
			if !ps.Clamp {
				return nil, fmt.Errorf(
					"%w: %s=%v lies outside [%v, %v]",
					ErrOutOfRange, ps.Axis, target, minX, maxX,
				)
			}
			bound := 0
			if i > 0 {
				bound = len(c.xs) - 1
			}
			pt.Value = c.load[bound]
			pt.Method = MethodClamped
			pt.Aux = c.auxAt(bound, carry)
		default:
			x0, x1 := c.xs[i-1], c.xs[i]
			frac := (target - x0) / (x1 - x0)
			pt.Value = lerp(c.load[i-1], c.load[i], frac)
			pt.Method = MethodLinear
			if len(carry) > 0 {
				pt.Aux = make(map[string]float64, len(carry))
				for _, name := range carry {
					vals := c.aux[name]
					pt.Aux[name] = lerp(vals[i-1], vals[i], frac)
				}
			}
		}
		ans[ti] = pt
	}
	return ans, nil
}

func (c *Curve) auxAt(i int, carry []string) map[string]float64 {
	if len(carry) == 0 {
		return nil
	}
	out := make(map[string]float64, len(carry))
	for _, name := range carry {
		out[name] = c.aux[name][i]
	}
	return out
}

func lerp(y0, y1, frac float64) float64 {
	return y0 + frac*(y1-y0)
}
