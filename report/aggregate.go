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

package report

import (
	"math"

	"github.com/Isthali/processingdata/standards"
)

// Stats carries per-index summary statistics over the successful
// specimens of a run. StdDev is the sample standard deviation; for a
// single specimen it is zero. CoV relates the spread to the magnitude of
// the mean and is zero when the mean is zero.
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	CoV    float64 `json:"cov"`
	N      int     `json:"n"`
}

// Summarize reduces the successful index sets to per-name statistics.
// Only names present in every successful specimen are summarized, so a
// partially failing batch never mixes incomparable index sets. Run calls
// it on every finished batch; callers rebuilding an Aggregate from
// archived rows may call it directly.
func Summarize(results []SpecimenResult) map[string]Stats {
	var ok []*standards.IndexSet
	for _, r := range results {
		if !r.Failed() {
			ok = append(ok, r.Indices)
		}
	}
	if len(ok) == 0 {
		return map[string]Stats{}
	}
	shared := ok[0].Names()
	for _, set := range ok[1:] {
		shared = intersect(shared, set.Names())
	}
	summary := make(map[string]Stats, len(shared))
	for _, name := range shared {
		values := make([]float64, len(ok))
		for i, set := range ok {
			v, _ := set.Value(name)
			values[i] = v
		}
		summary[name] = describe(values)
	}
	return summary
}

func intersect(a, b []string) []string {
	seen := make(map[string]bool, len(b))
	for _, name := range b {
		seen[name] = true
	}
	var both []string
	for _, name := range a {
		if seen[name] {
			both = append(both, name)
		}
	}
	return both
}

func describe(values []float64) Stats {
	n := len(values)
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	stddev := 0.0
	if n > 1 {
		ssq := 0.0
		for _, v := range values {
			d := v - mean
			ssq += d * d
		}
		stddev = math.Sqrt(ssq / float64(n-1))
	}
	cov := 0.0
	if mean != 0 {
		cov = stddev / math.Abs(mean)
	}
	return Stats{Mean: mean, StdDev: stddev, CoV: cov, N: n}
}
