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
	"fmt"
	"slices"

	"github.com/Isthali/processingdata/curve"
)

// EN 14651 and EN 14488 residual strengths are read at these crack mouth
// openings.
var beamCMODs = []float64{0.5, 1.5, 2.5, 3.5}

// beamResidual computes residual flexural strengths on the CMOD axis for
// the EN 14651/14488 notched beam tests. Deflection, when the importer
// recorded it, is carried through for reporting only.
type beamResidual struct {
	ident string
}

func (c *beamResidual) Standard() string {
	return c.ident
}

func (c *beamResidual) Axis() string {
	return curve.AxisCMOD
}

func (c *beamResidual) ReferencePoints() []float64 {
	return append([]float64(nil), beamCMODs...)
}

func (c *beamResidual) Compute(crv *curve.Curve, sp Specimen) (*IndexSet, error) {
	g := sp.Geometry
	if err := g.checkBeam(); err != nil {
		return nil, fmt.Errorf("failed to compute %s indices: %w", c.ident, err)
	}
	peak, err := crv.FirstPeak()
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s indices: %w", c.ident, err)
	}
	var carry []string
	if slices.Contains(crv.AuxNames(), curve.AxisDeflection) {
		carry = append(carry, curve.AxisDeflection)
	}
	pts, err := curve.Resolve(
		crv, curve.PointSet{Axis: curve.AxisCMOD, Targets: beamCMODs}, carry...)
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s indices: %w", c.ident, err)
	}
	ans := &IndexSet{Standard: c.ident}
	ans.add("fL", FlexuralStress(peak.Y, g.Span, g.Width, g.Depth), "MPa")
	ans.add("fM", FlexuralStress(crv.MaxLoad().Y, g.Span, g.Width, g.Depth), "MPa")
	ans.Points = make([]PointResult, len(pts))
	for i, pt := range pts {
		tough, err := crv.AreaTo(pt.Target, false)
		if err != nil {
			return nil, fmt.Errorf("failed to compute %s indices: %w", c.ident, err)
		}
		stress := FlexuralStress(pt.Value, g.Span, g.Width, g.Depth)
		ans.Points[i] = PointResult{
			Target:    pt.Target,
			Load:      pt.Value,
			Stress:    stress,
			Toughness: tough,
			Aux:       pt.Aux,
			Method:    pt.Method,
		}
		ans.add(fmt.Sprintf("fR%d", i+1), stress, "MPa")
	}
	return ans, nil
}

// First-peak deflection multiples the ASTM C1609 residual strengths are
// read at.
var thirdPointMultiples = []float64{2, 3}

// beamThirdPoint computes ASTM C1609 first-peak and residual strengths on
// the deflection axis. Reference deflections are multiples of the
// detected first-peak deflection, so the point set adapts to each
// specimen instead of using fixed coordinates.
type beamThirdPoint struct{}

func (c *beamThirdPoint) Standard() string {
	return StdASTMC1609
}

func (c *beamThirdPoint) Axis() string {
	return curve.AxisDeflection
}

func (c *beamThirdPoint) ReferencePoints() []float64 {
	return append([]float64(nil), thirdPointMultiples...)
}

func (c *beamThirdPoint) Compute(crv *curve.Curve, sp Specimen) (*IndexSet, error) {
	g := sp.Geometry
	if err := g.checkBeam(); err != nil {
		return nil, fmt.Errorf("failed to compute %s indices: %w", StdASTMC1609, err)
	}
	peak, err := crv.FirstPeak()
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s indices: %w", StdASTMC1609, err)
	}
	if peak.X <= 0 {
		return nil, fmt.Errorf(
			"failed to compute %s indices: first peak at zero deflection, cannot derive reference offsets",
			StdASTMC1609,
		)
	}
	targets := make([]float64, len(thirdPointMultiples))
	for i, m := range thirdPointMultiples {
		targets[i] = m * peak.X
	}
	pts, err := curve.Resolve(
		crv, curve.PointSet{Axis: curve.AxisDeflection, Targets: targets})
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s indices: %w", StdASTMC1609, err)
	}
	ans := &IndexSet{Standard: StdASTMC1609}
	ans.add("P1", peak.Y, "kN")
	ans.add("f1", ThirdPointStress(peak.Y, g.Span, g.Width, g.Depth), "MPa")
	ans.Points = make([]PointResult, len(pts))
	for i, pt := range pts {
		stress := ThirdPointStress(pt.Value, g.Span, g.Width, g.Depth)
		ans.Points[i] = PointResult{
			Target: pt.Target,
			Load:   pt.Value,
			Stress: stress,
			Method: pt.Method,
		}
		ans.add(fmt.Sprintf("fD%g", thirdPointMultiples[i]), stress, "MPa")
	}
	for i, pt := range pts {
		tough, err := crv.AreaTo(pt.Target, false)
		if err != nil {
			return nil, fmt.Errorf("failed to compute %s indices: %w", StdASTMC1609, err)
		}
		ans.Points[i].Toughness = tough
		ans.add(fmt.Sprintf("TD%g", thirdPointMultiples[i]), tough, "J")
	}
	return ans, nil
}
