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

// Package report orchestrates batch evaluation: it fixes the axis and the
// calculator for the chosen standard, runs every specimen curve through
// it, records per-specimen failures without aborting the batch, and
// reduces the successful index sets into summary statistics.
package report

import (
	"context"
	"sync"
	"time"

	"github.com/Isthali/processingdata/curve"
	"github.com/Isthali/processingdata/standards"
	"github.com/google/uuid"
)

// SpecimenData pairs one specimen with its imported curve. The curve may
// arrive indexed on any axis the importer produced; the model reindexes
// it to the standard's axis when they differ.
type SpecimenData struct {
	Specimen standards.Specimen
	Curve    *curve.Curve
}

// Options configures one report model instance.
type Options struct {

	// Workers bounds the number of specimens evaluated concurrently.
	// Values below 2 keep the batch sequential.
	Workers int
}

// Model selects the calculator for one standard and runs specimen batches
// through it.
type Model struct {
	calc standards.Calculator
	opts Options
}

// NewModel resolves the standard identifier to its calculator. An unknown
// identifier is batch-fatal here, before any specimen is touched.
func NewModel(standardID string, opts Options) (*Model, error) {
	calc, err := standards.GetCalculator(standardID)
	if err != nil {
		return nil, err
	}
	return &Model{calc: calc, opts: opts}, nil
}

// Calculator exposes the selected calculator (axis and reference points
// are needed by callers preparing input).
func (m *Model) Calculator() standards.Calculator {
	return m.calc
}

// SpecimenResult is one specimen's outcome within an aggregate: either an
// index set or a recorded failure reason, never both.
type SpecimenResult struct {
	ID      string              `json:"id"`
	Indices *standards.IndexSet `json:"indices,omitempty"`
	Failure string              `json:"failure,omitempty"`
}

// Failed tells whether the specimen has a recorded failure.
func (r SpecimenResult) Failed() bool {
	return r.Failure != ""
}

// Aggregate is the outcome of one batch run: per-specimen results in
// input order plus summary statistics over each index name present in
// all successful specimens.
type Aggregate struct {
	RunID     string           `json:"runId"`
	Standard  string           `json:"standard"`
	CreatedAt time.Time        `json:"createdAt"`
	Results   []SpecimenResult `json:"results"`
	Summary   map[string]Stats `json:"summary"`
}

// NumOK counts specimens with a full index set.
func (a *Aggregate) NumOK() int {
	n := 0
	for _, r := range a.Results {
		if !r.Failed() {
			n++
		}
	}
	return n
}

// NumFailed counts specimens with a recorded failure.
func (a *Aggregate) NumFailed() int {
	return len(a.Results) - a.NumOK()
}

// Evaluate runs the calculator over a single specimen, reindexing the
// curve to the standard's axis when needed.
func (m *Model) Evaluate(sd SpecimenData) (*standards.IndexSet, error) {
	crv := sd.Curve
	if crv.PrimaryAxis() != m.calc.Axis() {
		reindexed, err := crv.Reindex(m.calc.Axis())
		if err != nil {
			return nil, err
		}
		crv = reindexed
	}
	return m.calc.Compute(crv, sd.Specimen)
}

// Run evaluates the batch. Specimen order is preserved in the results;
// per-specimen failures are recorded and the batch continues. With more
// than one worker the specimens are processed concurrently and the
// summary is reduced only after all of them finished.
func (m *Model) Run(ctx context.Context, specimens []SpecimenData) (*Aggregate, error) {
	agg := &Aggregate{
		RunID:     uuid.NewString(),
		Standard:  m.calc.Standard(),
		CreatedAt: time.Now(),
		Results:   make([]SpecimenResult, len(specimens)),
	}
	if m.opts.Workers > 1 {
		sem := make(chan struct{}, m.opts.Workers)
		var wg sync.WaitGroup
		for i := range specimens {
			if err := ctx.Err(); err != nil {
				wg.Wait()
				return nil, err
			}
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				agg.Results[i] = m.evalOne(specimens[i])
				<-sem
			}(i)
		}
		wg.Wait()

	} else {
		for i, sd := range specimens {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			agg.Results[i] = m.evalOne(sd)
		}
	}
	agg.Summary = Summarize(agg.Results)
	return agg, nil
}

func (m *Model) evalOne(sd SpecimenData) SpecimenResult {
	ans, err := m.Evaluate(sd)
	if err != nil {
		return SpecimenResult{ID: sd.Specimen.ID, Failure: err.Error()}
	}
	return SpecimenResult{ID: sd.Specimen.ID, Indices: ans}
}
