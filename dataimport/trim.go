// Copyright 2026 Isthali S.A.C.
// Copyright 2026 LEDI - Laboratorio de Estructuras
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

package dataimport

import (
	"fmt"
	"math"

	"github.com/Isthali/processingdata/curve"
	"github.com/Isthali/processingdata/standards"
)

// TrimPolicy controls how much of a raw acquisition table survives into
// the curve. StartFraction locates the test start: the pre-peak sample
// whose load is closest to StartFraction times the maximum load.
// TailFraction, when positive, cuts the record once the post-peak load
// falls below that fraction of the maximum; zero keeps the whole
// softening branch.
type TrimPolicy struct {
	StartFraction float64
	TailFraction  float64
}

// PolicyFor maps a standard identifier to its trim policy. Toughness and
// residual-strength standards keep the full softening branch because
// their reference points lie deep inside it; strength-only standards cut
// the post-peak collapse noise.
func PolicyFor(standard string) TrimPolicy {
	switch standard {
	case standards.StdNTP339034:
		return TrimPolicy{StartFraction: 0.01, TailFraction: 0.8}
	case standards.StdNTP339111:
		return TrimPolicy{StartFraction: 0.01, TailFraction: 0.75}
	default:
		return TrimPolicy{StartFraction: 0.01}
	}
}

// ToCurve builds a test curve from a raw table. All values are taken
// absolute (the presses record compression as negative), the run-in
// before the test start is dropped, the kept axis columns are re-zeroed
// to the start sample, and the tail is cut per the policy. The listed
// aux columns are carried into the curve.
func ToCurve(table *Table, axis string, policy TrimPolicy, aux ...string) (*curve.Curve, error) {
	xs, err := table.Column(axis)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s curve: %w", axis, err)
	}
	load, err := table.Column(curve.AxisLoad)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s curve: %w", axis, err)
	}
	absolute(xs)
	absolute(load)
	if len(load) < 2 {
		return nil, fmt.Errorf("failed to build %s curve: %w", axis, curve.ErrInsufficientData)
	}

	imax := 0
	for i, v := range load {
		if v > load[imax] {
			imax = i
		}
	}
	start := startIndex(load[:imax+1], policy.StartFraction*load[imax])
	end := len(load)
	if policy.TailFraction > 0 {
		cutoff := policy.TailFraction * load[imax]
		for j := imax + 1; j < len(load); j++ {
			if load[j] < cutoff {
				end = j
				break
			}
		}
	}

	if end-start < 2 {
		return nil, fmt.Errorf("failed to build %s curve: %w", axis, curve.ErrInsufficientData)
	}
	xs = rebase(xs[start:end])
	load = load[start:end]
	var auxCols map[string][]float64
	if len(aux) > 0 {
		auxCols = make(map[string][]float64, len(aux))
		for _, name := range aux {
			col, err := table.Column(name)
			if err != nil {
				return nil, fmt.Errorf("failed to build %s curve: %w", axis, err)
			}
			absolute(col)
			auxCols[name] = rebase(col[start:end])
		}
	}
	ans, err := curve.New(axis, xs, load, auxCols)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s curve: %w", axis, err)
	}
	return ans, nil
}

// startIndex finds the sample closest to the threshold load; the slice
// covers the record up to and including the peak.
func startIndex(load []float64, threshold float64) int {
	best := 0
	for i, v := range load {
		if math.Abs(v-threshold) < math.Abs(load[best]-threshold) {
			best = i
		}
	}
	return best
}

func absolute(values []float64) {
	for i, v := range values {
		values[i] = math.Abs(v)
	}
}

func rebase(values []float64) []float64 {
	if len(values) == 0 {
		return values
	}
	origin := values[0]
	for i, v := range values {
		values[i] = v - origin
	}
	return values
}
