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

// Package export renders evaluated runs into the tabular formats the
// laboratory hands out: CSV for analysis scripts, xlsx for test reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Isthali/processingdata/report"
)

// CSVDialect specifies the CSV format variant.
type CSVDialect string

const (
	// DialectStandard is RFC 4180 comma-separated output.
	DialectStandard CSVDialect = "standard"

	// DialectSemicolon uses semicolons, which is what es-PE Excel
	// installations expect.
	DialectSemicolon CSVDialect = "semicolon"

	// DialectTSV uses tabs instead of commas.
	DialectTSV CSVDialect = "tsv"
)

type CSVConfig struct {
	Dialect   CSVDialect
	Precision int
	NAString  string
	CRLF      bool
}

func DefaultCSVConfig() *CSVConfig {
	return &CSVConfig{
		Dialect:   DialectStandard,
		Precision: 4,
		NAString:  "NA",
	}
}

// CSVWriter writes evaluated runs as CSV tables.
type CSVWriter struct {
	config      *CSVConfig
	writer      *csv.Writer
	rowsWritten int
}

func NewCSVWriter(w io.Writer, config *CSVConfig) *CSVWriter {
	if config == nil {
		config = DefaultCSVConfig()
	}
	csvWriter := csv.NewWriter(w)
	switch config.Dialect {
	case DialectSemicolon:
		csvWriter.Comma = ';'
	case DialectTSV:
		csvWriter.Comma = '\t'
	}
	csvWriter.UseCRLF = config.CRLF
	return &CSVWriter{config: config, writer: csvWriter}
}

// WriteIndices writes the index table: one row per specimen with one
// column per index name, the verdict, and the failure reason, followed
// by the batch statistics rows.
func (cw *CSVWriter) WriteIndices(agg *report.Aggregate) error {
	names := indexNames(agg)
	header := append([]string{"specimen"}, names...)
	header = append(header, "verdict", "failure")
	if err := cw.write(header); err != nil {
		return err
	}
	for _, res := range agg.Results {
		row := make([]string, 0, len(header))
		row = append(row, res.ID)
		if res.Failed() {
			for range names {
				row = append(row, cw.config.NAString)
			}
			row = append(row, "", res.Failure)

		} else {
			for _, name := range names {
				v, ok := res.Indices.Value(name)
				if ok {
					row = append(row, cw.formatFloat(v))

				} else {
					row = append(row, cw.config.NAString)
				}
			}
			row = append(row, res.Indices.Verdict, "")
		}
		if err := cw.write(row); err != nil {
			return err
		}
	}

	statRows := []struct {
		label string
		pick  func(report.Stats) float64
	}{
		{"mean", func(s report.Stats) float64 { return s.Mean }},
		{"stddev", func(s report.Stats) float64 { return s.StdDev }},
		{"cov", func(s report.Stats) float64 { return s.CoV }},
	}
	for _, sr := range statRows {
		row := make([]string, 0, len(header))
		row = append(row, sr.label)
		for _, name := range names {
			stats, ok := agg.Summary[name]
			if ok {
				row = append(row, cw.formatFloat(sr.pick(stats)))

			} else {
				row = append(row, cw.config.NAString)
			}
		}
		row = append(row, "", "")
		if err := cw.write(row); err != nil {
			return err
		}
	}
	return nil
}

// WritePoints writes the point table: one row per resolved reference
// point of each successfully evaluated specimen.
func (cw *CSVWriter) WritePoints(agg *report.Aggregate) error {
	header := []string{"specimen", "target", "load", "stress", "toughness", "method"}
	if err := cw.write(header); err != nil {
		return err
	}
	for _, res := range agg.Results {
		if res.Failed() {
			continue
		}
		for _, pt := range res.Indices.Points {
			row := []string{
				res.ID,
				cw.formatFloat(pt.Target),
				cw.formatFloat(pt.Load),
				cw.formatFloat(pt.Stress),
				cw.formatFloat(pt.Toughness),
				string(pt.Method),
			}
			if err := cw.write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cw *CSVWriter) Flush() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// RowsWritten returns the number of rows written including headers.
func (cw *CSVWriter) RowsWritten() int {
	return cw.rowsWritten
}

func (cw *CSVWriter) write(row []string) error {
	if err := cw.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	cw.rowsWritten++
	return nil
}

func (cw *CSVWriter) formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', cw.config.Precision, 64)
}

// indexNames keeps the order the calculator defined, taken from the
// first successful specimen.
func indexNames(agg *report.Aggregate) []string {
	for _, res := range agg.Results {
		if !res.Failed() {
			return res.Indices.Names()
		}
	}
	return nil
}
