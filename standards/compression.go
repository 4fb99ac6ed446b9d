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

// axialCompression derives the compressive strength of cores and cubes
// from the peak load and the declared cross-section.
type axialCompression struct{}

func (c *axialCompression) Standard() string {
	return StdNTP339034
}

func (c *axialCompression) Axis() string {
	return curve.AxisDisplacement
}

func (c *axialCompression) ReferencePoints() []float64 {
	return nil
}

func (c *axialCompression) Compute(crv *curve.Curve, sp Specimen) (*IndexSet, error) {
	if crv.Len() < 2 {
		return nil, fmt.Errorf(
			"failed to compute %s indices: %w (%d samples)",
			StdNTP339034, curve.ErrInsufficientData, crv.Len(),
		)
	}
	area, err := sp.Geometry.Area()
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s indices: %w", StdNTP339034, err)
	}
	max := crv.MaxLoad()
	ans := &IndexSet{Standard: StdNTP339034}
	ans.add("MaxLoad", max.Y, "kN")
	ans.add("CompressiveStrength", max.Y*1e3/area, "MPa")
	return ans, nil
}

// Acceptance threshold for manhole cover flexure, NTP 339.111.
const manholeMinLoadKN = 120.0

const (
	VerdictCompliant    = "Compliant"
	VerdictNonCompliant = "NonCompliant"
)

// manholeFlexure runs the manhole cover acceptance check: the cover must
// sustain the normative load without failing.
type manholeFlexure struct{}

func (c *manholeFlexure) Standard() string {
	return StdNTP339111
}

func (c *manholeFlexure) Axis() string {
	return curve.AxisDisplacement
}

func (c *manholeFlexure) ReferencePoints() []float64 {
	return nil
}

func (c *manholeFlexure) Compute(crv *curve.Curve, sp Specimen) (*IndexSet, error) {
	if crv.Len() < 2 {
		return nil, fmt.Errorf(
			"failed to compute %s indices: %w (%d samples)",
			StdNTP339111, curve.ErrInsufficientData, crv.Len(),
		)
	}
	max := crv.MaxLoad()
	ans := &IndexSet{Standard: StdNTP339111}
	ans.add("MaxLoad", max.Y, "kN")
	ans.add("LoadMargin", max.Y-manholeMinLoadKN, "kN")
	if max.Y >= manholeMinLoadKN {
		ans.Verdict = VerdictCompliant
	} else {
		ans.Verdict = VerdictNonCompliant
	}
	return ans, nil
}
