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

// Package standards implements the index calculators of the supported
// testing standards. Each standard is one variant behind the Calculator
// interface; adding a standard means adding a variant and a GetCalculator
// case, nothing else.
package standards

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Isthali/processingdata/curve"
	"github.com/agnivade/levenshtein"
)

// Supported standard identifiers.
const (
	StdEFNARC1996   = "EFNARC1996"
	StdEFNARC1999   = "EFNARC1999"
	StdEN14488Panel = "EN14488-5"
	StdASTMC1550    = "ASTMC1550"
	StdASTMC1609    = "ASTMC1609"
	StdEN14651      = "EN14651"
	StdEN14488      = "EN14488"
	StdNTP339034    = "NTP339.034"
	StdNTP339111    = "NTP339.111"
)

var ErrUnknownStandard = errors.New("unknown standard")

// Specimen identifies one tested body and carries the metadata the
// formulas need beyond the curve itself.
type Specimen struct {
	ID       string   `json:"id"`
	Geometry Geometry `json:"geometry"`
}

// Calculator computes a standard's index set from one specimen curve.
// Implementations are stateless and safe for concurrent use across
// specimens.
type Calculator interface {

	// Standard returns the identifier the calculator was selected by.
	Standard() string

	// Axis returns the primary axis the standard evaluates the curve on.
	Axis() string

	// ReferencePoints returns the standard's reference point set in mm.
	// For ASTMC1609 the values are multiples of the first-peak deflection
	// rather than absolute coordinates; nil when the standard takes no
	// reference points.
	ReferencePoints() []float64

	// Compute derives the index set. Failures are specimen-scoped: the
	// caller records them and continues with its batch.
	Compute(crv *curve.Curve, sp Specimen) (*IndexSet, error)
}

// GetCalculator dispatches over the closed set of supported standards.
// Unknown identifiers fail with ErrUnknownStandard; when a known
// identifier is close enough, the error suggests it.
func GetCalculator(ident string) (Calculator, error) {
	switch ident {
	case StdEFNARC1996, StdEFNARC1999, StdEN14488Panel:
		return &panelToughness{ident: ident, points: panelDeflections, prefix: "T"}, nil
	case StdASTMC1550:
		return &panelToughness{ident: ident, points: roundPanelDeflections, prefix: "E"}, nil
	case StdEN14651, StdEN14488:
		return &beamResidual{ident: ident}, nil
	case StdASTMC1609:
		return &beamThirdPoint{}, nil
	case StdNTP339034:
		return &axialCompression{}, nil
	case StdNTP339111:
		return &manholeFlexure{}, nil
	}
	if sugg := closestKnown(ident); sugg != "" {
		return nil, fmt.Errorf("%w: %s (did you mean %s?)", ErrUnknownStandard, ident, sugg)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStandard, ident)
}

// Known lists the supported standard identifiers in lexical order.
func Known() []string {
	ans := []string{
		StdEFNARC1996,
		StdEFNARC1999,
		StdEN14488Panel,
		StdASTMC1550,
		StdASTMC1609,
		StdEN14651,
		StdEN14488,
		StdNTP339034,
		StdNTP339111,
	}
	sort.Strings(ans)
	return ans
}

func closestKnown(ident string) string {
	norm := strings.ToUpper(ident)
	best := ""
	bestDist := 4 // suggestions further than 3 edits away are noise
	for _, known := range Known() {
		if d := levenshtein.ComputeDistance(norm, known); d < bestDist {
			best = known
			bestDist = d
		}
	}
	return best
}

// Index is one named scalar of an index set.
type Index struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// PointResult is the full evaluation at one reference point: the resolved
// load, the stress conversion where the standard defines one, the
// cumulative toughness up to the point, and any carried auxiliary values.
type PointResult struct {
	Target    float64            `json:"target"`
	Load      float64            `json:"load"`
	Stress    float64            `json:"stress,omitempty"`
	Toughness float64            `json:"toughness,omitempty"`
	Aux       map[string]float64 `json:"aux,omitempty"`
	Method    curve.Method       `json:"method"`
}

// IndexSet is the outcome of one calculator run over one specimen curve.
// Items keep the standard's defined order. Read-only once produced.
type IndexSet struct {
	Standard string        `json:"standard"`
	Items    []Index       `json:"items"`
	Points   []PointResult `json:"points,omitempty"`
	Verdict  string        `json:"verdict,omitempty"`
}

// Value returns the named index value.
func (is *IndexSet) Value(name string) (float64, bool) {
	for _, item := range is.Items {
		if item.Name == name {
			return item.Value, true
		}
	}
	return 0, false
}

// Names returns the index names in their defined order.
func (is *IndexSet) Names() []string {
	ans := make([]string, len(is.Items))
	for i, item := range is.Items {
		ans[i] = item.Name
	}
	return ans
}

func (is *IndexSet) add(name string, value float64, unit string) {
	is.Items = append(is.Items, Index{Name: name, Value: value, Unit: unit})
}
