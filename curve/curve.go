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

// Package curve holds one specimen's measured load series and resolves
// standard-mandated reference points on it. A Curve is constructed fully
// formed from imported data and never mutated; switching the primary axis
// (e.g. Deflection to CMOD) produces a new Curve via Reindex.
package curve

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Axis names as produced by the laboratory importers. The load series is
// always present under AxisLoad; any of the others can act as the primary
// axis depending on the test standard.
const (
	AxisLoad         = "Load"
	AxisDeflection   = "Deflection"
	AxisCMOD         = "CMOD"
	AxisTime         = "Time"
	AxisDisplacement = "Displacement"
)

var (
	ErrUnknownAxis      = errors.New("unknown axis")
	ErrInsufficientData = errors.New("insufficient data")
	ErrOutOfRange       = errors.New("reference point out of curve domain")
	ErrMalformedCurve   = errors.New("malformed curve")
)

// Sample is one measured point: primary-axis value (mm) and load (kN).
type Sample struct {
	X float64
	Y float64
}

// Curve is an ordered load series over a monotonic primary axis, with
// optional auxiliary columns aligned index-for-index (e.g. Deflection
// values carried along a CMOD-indexed curve).
type Curve struct {
	axis string
	xs   []float64
	load []float64
	aux  map[string][]float64
}

// New builds a Curve from the named primary axis series, the load series
// and optional auxiliary columns. The primary axis must be non-decreasing
// and all series must have equal length; violations fail with
// ErrMalformedCurve. Input slices are copied.
func New(axis string, xs, load []float64, aux map[string][]float64) (*Curve, error) {
	if axis == "" || axis == AxisLoad {
		return nil, fmt.Errorf("%w: invalid primary axis name %q", ErrMalformedCurve, axis)
	}
	if len(xs) != len(load) {
		return nil, fmt.Errorf(
			"%w: axis %s has %d samples but load has %d",
			ErrMalformedCurve, axis, len(xs), len(load),
		)
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[i-1] {
			return nil, fmt.Errorf(
				"%w: %s decreases at sample %d (%f after %f)",
				ErrMalformedCurve, axis, i, xs[i], xs[i-1],
			)
		}
	}
	c := &Curve{
		axis: axis,
		xs:   append([]float64(nil), xs...),
		load: append([]float64(nil), load...),
	}
	if len(aux) > 0 {
		c.aux = make(map[string][]float64, len(aux))
		for name, vals := range aux {
			if name == axis || name == AxisLoad {
				return nil, fmt.Errorf(
					"%w: auxiliary column %s duplicates a primary series", ErrMalformedCurve, name)
			}
			if len(vals) != len(xs) {
				return nil, fmt.Errorf(
					"%w: auxiliary column %s has %d values for %d samples",
					ErrMalformedCurve, name, len(vals), len(xs),
				)
			}
			c.aux[name] = append([]float64(nil), vals...)
		}
	}
	return c, nil
}

// PrimaryAxis returns the name of the axis the curve is indexed on.
func (c *Curve) PrimaryAxis() string {
	return c.axis
}

// Len returns the number of samples.
func (c *Curve) Len() int {
	return len(c.xs)
}

// AxisValues returns a copy of the ordered series for the named axis. The
// name may be the primary axis, AxisLoad, or any auxiliary column; other
// names fail with ErrUnknownAxis.
func (c *Curve) AxisValues(name string) ([]float64, error) {
	switch name {
	case c.axis:
		return append([]float64(nil), c.xs...), nil
	case AxisLoad:
		return append([]float64(nil), c.load...), nil
	}
	if vals, ok := c.aux[name]; ok {
		return append([]float64(nil), vals...), nil
	}
	return nil, fmt.Errorf("%w: %s (curve has %s)", ErrUnknownAxis, name, c.describeAxes())
}

// AuxNames returns the auxiliary column names in lexical order.
func (c *Curve) AuxNames() []string {
	names := make([]string, 0, len(c.aux))
	for name := range c.aux {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Domain returns the primary-axis range actually covered by the samples.
func (c *Curve) Domain() (float64, float64) {
	if len(c.xs) == 0 {
		return 0, 0
	}
	return c.xs[0], c.xs[len(c.xs)-1]
}

// MaxLoad returns the sample with the greatest load. For repeated maxima
// the first occurrence wins. The zero Sample is returned for an empty curve.
func (c *Curve) MaxLoad() Sample {
	var best Sample
	for i, y := range c.load {
		if i == 0 || y > best.Y {
			best = Sample{X: c.xs[i], Y: y}
		}
	}
	return best
}

// Reindex constructs a new Curve indexed on the named auxiliary column.
// The former primary axis becomes an auxiliary column of the result; the
// load series and the remaining auxiliary columns are carried over. The
// chosen column must itself be non-decreasing.
func (c *Curve) Reindex(axis string) (*Curve, error) {
	if axis == c.axis {
		return c, nil
	}
	xs, ok := c.aux[axis]
	if !ok {
		return nil, fmt.Errorf("%w: cannot reindex on %s (curve has %s)",
			ErrUnknownAxis, axis, c.describeAxes())
	}
	aux := make(map[string][]float64, len(c.aux))
	for name, vals := range c.aux {
		if name == axis {
			continue
		}
		aux[name] = vals
	}
	aux[c.axis] = c.xs
	return New(axis, xs, c.load, aux)
}

func (c *Curve) describeAxes() string {
	names := append([]string{c.axis, AxisLoad}, c.AuxNames()...)
	return strings.Join(names, ", ")
}
