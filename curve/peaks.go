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

import "fmt"

const (
	// A running maximum counts as the first peak once a later sample drops
	// below this share of it.
	firstPeakDropRatio = 0.95
	// Candidate peaks below this share of the global maximum are treated
	// as run-in noise and skipped.
	firstPeakMinShare = 0.5
)

// FirstPeak locates the load maximum preceding the first sustained
// post-crack decrease. The rule is deterministic: walking the samples in
// order while tracking the running maximum, the first peak is the
// running-maximum sample at the first sample whose load falls below 95 %
// of that maximum, provided the maximum has reached at least half of the
// curve's global peak. A curve that never drops that way (still hardening
// at the end of the record) yields the global maximum.
func (c *Curve) FirstPeak() (Sample, error) {
	if c.Len() < 2 {
		return Sample{}, fmt.Errorf(
			"cannot locate first peak: %w (%d samples)", ErrInsufficientData, c.Len())
	}
	global := c.MaxLoad().Y
	runIdx := 0
	runMax := c.load[0]
	for i := 1; i < len(c.load); i++ {
		if c.load[i] > runMax {
			runMax = c.load[i]
			runIdx = i
			continue
		}
		if runMax >= firstPeakMinShare*global && c.load[i] < firstPeakDropRatio*runMax {
			return Sample{X: c.xs[runIdx], Y: runMax}, nil
		}
	}
	return c.MaxLoad(), nil
}
