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
	"math"
)

// Section identifies the cross-section shape of a compression specimen.
type Section string

const (
	SectionCircular    Section = "circular"
	SectionSquare      Section = "square"
	SectionRectangular Section = "rectangular"
)

// Geometry carries the specimen dimensions the stress and area formulas
// need. All lengths are in mm. Beam standards read Width, Depth and Span;
// compression standards read Section with Diameter or Side(s).
type Geometry struct {
	Width    float64 `json:"width,omitempty"`
	Depth    float64 `json:"depth,omitempty"`
	Span     float64 `json:"span,omitempty"`
	Diameter float64 `json:"diameter,omitempty"`
	Side     float64 `json:"side,omitempty"`
	Side2    float64 `json:"side2,omitempty"`
	Section  Section `json:"section,omitempty"`
}

// Area returns the cross-section area in mm2 according to the declared
// shape.
func (g Geometry) Area() (float64, error) {
	switch g.Section {
	case SectionCircular:
		if g.Diameter <= 0 {
			return 0, fmt.Errorf("circular section needs a positive diameter (got %v)", g.Diameter)
		}
		return math.Pi * g.Diameter * g.Diameter / 4, nil
	case SectionSquare:
		if g.Side <= 0 {
			return 0, fmt.Errorf("square section needs a positive side (got %v)", g.Side)
		}
		return g.Side * g.Side, nil
	case SectionRectangular:
		if g.Side <= 0 || g.Side2 <= 0 {
			return 0, fmt.Errorf(
				"rectangular section needs two positive sides (got %v, %v)", g.Side, g.Side2)
		}
		return g.Side * g.Side2, nil
	}
	return 0, fmt.Errorf("unsupported section shape %q", g.Section)
}

func (g Geometry) checkBeam() error {
	if g.Width <= 0 || g.Depth <= 0 || g.Span <= 0 {
		return fmt.Errorf(
			"beam geometry incomplete: width=%v, depth=%v, span=%v (all must be positive mm)",
			g.Width, g.Depth, g.Span,
		)
	}
	return nil
}
