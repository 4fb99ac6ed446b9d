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

package export

import (
	"fmt"
	"time"

	"github.com/Isthali/processingdata/report"
	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "Run"

// WriteXLSX renders one evaluated run into a spreadsheet report: run
// header, per-specimen index table with units, batch statistics and the
// resolved reference points.
func WriteXLSX(path string, agg *report.Aggregate, clientName string) error {
	book := excelize.NewFile()
	defer book.Close()
	if err := book.SetSheetName(book.GetSheetName(0), xlsxSheetName); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	w := &sheetWriter{book: book, row: 1}
	w.append("Run", agg.RunID)
	if clientName != "" {
		w.append("Client", clientName)
	}
	w.append("Standard", agg.Standard)
	w.append("Created", agg.CreatedAt.Format(time.RFC3339))
	w.append("Specimens", len(agg.Results))
	w.append("Failed", agg.NumFailed())
	w.skip(1)

	names := indexNames(agg)
	header := make([]any, 0, len(names)+3)
	header = append(header, "Specimen")
	for _, name := range names {
		header = append(header, name)
	}
	header = append(header, "Verdict", "Failure")
	w.append(header...)
	w.append(unitsRow(agg, names)...)

	for _, res := range agg.Results {
		row := make([]any, 0, len(header))
		row = append(row, res.ID)
		if res.Failed() {
			for range names {
				row = append(row, nil)
			}
			row = append(row, nil, res.Failure)

		} else {
			for _, name := range names {
				v, ok := res.Indices.Value(name)
				if ok {
					row = append(row, v)

				} else {
					row = append(row, nil)
				}
			}
			row = append(row, res.Indices.Verdict, nil)
		}
		w.append(row...)
	}

	w.skip(1)
	statRows := []struct {
		label string
		pick  func(report.Stats) float64
	}{
		{"Mean", func(s report.Stats) float64 { return s.Mean }},
		{"StdDev", func(s report.Stats) float64 { return s.StdDev }},
		{"CoV", func(s report.Stats) float64 { return s.CoV }},
	}
	for _, sr := range statRows {
		row := make([]any, 0, len(header))
		row = append(row, sr.label)
		for _, name := range names {
			if stats, ok := agg.Summary[name]; ok {
				row = append(row, sr.pick(stats))

			} else {
				row = append(row, nil)
			}
		}
		w.append(row...)
	}

	w.skip(1)
	w.append("Specimen", "Target", "Load", "Stress", "Toughness", "Method")
	for _, res := range agg.Results {
		if res.Failed() {
			continue
		}
		for _, pt := range res.Indices.Points {
			w.append(res.ID, pt.Target, pt.Load, pt.Stress, pt.Toughness, string(pt.Method))
		}
	}
	if w.err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, w.err)
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func unitsRow(agg *report.Aggregate, names []string) []any {
	row := make([]any, 1, len(names)+1)
	row[0] = nil
	units := make(map[string]string)
	for _, res := range agg.Results {
		if !res.Failed() {
			for _, item := range res.Indices.Items {
				units[item.Name] = item.Unit
			}
			break
		}
	}
	for _, name := range names {
		row = append(row, units[name])
	}
	return row
}

// sheetWriter appends rows top to bottom, keeping the first error.
type sheetWriter struct {
	book *excelize.File
	row  int
	err  error
}

func (w *sheetWriter) append(cells ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.book.SetSheetRow(xlsxSheetName, cell, &cells); err != nil {
		w.err = err
		return
	}
	w.row++
}

func (w *sheetWriter) skip(n int) {
	w.row += n
}
