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

	"github.com/Isthali/processingdata/curve"
)

var (
	// EFNARC 1996/1999 and EN 14488-5 sample the same central deflections.
	panelDeflections = []float64{5, 10, 15, 20, 25, 30}
	// ASTM C1550 round determinate panel.
	roundPanelDeflections = []float64{5, 10, 20, 30, 40, 45}
)

// panelToughness covers the panel energy-absorption family: cumulative
// toughness at fixed central deflections. The index prefix distinguishes
// the EFNARC/EN toughness naming (T) from the ASTM C1550 absorbed-energy
// naming (E); the computation is the same integral.
type panelToughness struct {
	ident  string
	points []float64
	prefix string
}

func (c *panelToughness) Standard() string {
	return c.ident
}

func (c *panelToughness) Axis() string {
	return curve.AxisDeflection
}

func (c *panelToughness) ReferencePoints() []float64 {
	return append([]float64(nil), c.points...)
}

func (c *panelToughness) Compute(crv *curve.Curve, sp Specimen) (*IndexSet, error) {
	peak, err := crv.FirstPeak()
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s indices: %w", c.ident, err)
	}
	pts, err := curve.Resolve(
		crv, curve.PointSet{Axis: curve.AxisDeflection, Targets: c.points})
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s indices: %w", c.ident, err)
	}
	ans := &IndexSet{Standard: c.ident}
	ans.add("FirstPeakLoad", peak.Y, "kN")
	ans.add("MaxLoad", crv.MaxLoad().Y, "kN")
	ans.Points = make([]PointResult, len(pts))
	for i, pt := range pts {
		tough, err := crv.AreaTo(pt.Target, false)
		if err != nil {
			return nil, fmt.Errorf("failed to compute %s indices: %w", c.ident, err)
		}
		ans.Points[i] = PointResult{
			Target:    pt.Target,
			Load:      pt.Value,
			Toughness: tough,
			Aux:       pt.Aux,
			Method:    pt.Method,
		}
		ans.add(fmt.Sprintf("%s%g", c.prefix, pt.Target), tough, "J")
	}
	return ans, nil
}
