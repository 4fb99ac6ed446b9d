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

// Package dataimport turns raw acquisition outputs (spreadsheets, DAT
// dumps, CSV exports, LIMS rows) into tables and test curves. Parsing is
// deliberately tolerant of the quirks the laboratory machines produce:
// decimal commas, unit rows under the header, trailing blank rows.
package dataimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Isthali/processingdata/curve"
	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Layout names the columns of a headerless acquisition dump in file
// order.
type Layout []string

// Predefined layouts of the laboratory acquisition systems. The panel
// press writes xlsx with a header so it needs no layout; the beam and
// core presses write headerless DAT dumps.
var (
	LayoutBeam = Layout{
		curve.AxisTime, curve.AxisDisplacement, curve.AxisLoad,
		curve.AxisDeflection, curve.AxisCMOD,
	}
	LayoutBeamTwoGauges = Layout{
		curve.AxisTime, curve.AxisDisplacement, curve.AxisLoad,
		curve.AxisDeflection, curve.AxisCMOD, "Deflection2",
	}
	LayoutCore = Layout{curve.AxisTime, curve.AxisDisplacement, curve.AxisLoad}
)

// Read dispatches on the file extension. The layout applies to DAT files
// only; xlsx and csv files carry their own header.
func Read(path string, layout Layout) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path)
	case ".dat":
		return ReadDAT(path, layout)
	case ".csv":
		return ReadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported input file %s", path)
	}
}

// ReadXLSX reads the first sheet of a spreadsheet: a header row naming
// the columns followed by numeric rows. Non-numeric rows directly under
// the header (typically units) are skipped; blank rows are ignored.
func ReadXLSX(path string) (*Table, error) {
	if !fs.IsFile(path) {
		return nil, fmt.Errorf("file %s does not exist", path)
	}
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer book.Close()
	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("file %s has no sheets", path)
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file %s has no header row", path)
	}
	table := &Table{Columns: make([]string, len(rows[0]))}
	for i, name := range rows[0] {
		table.Columns[i] = strings.TrimSpace(name)
	}
	started := false
	for i, cells := range rows[1:] {
		if isBlankRow(cells) {
			continue
		}
		row, err := parseRow(cells, len(table.Columns))
		if err != nil {
			if !started {
				log.Debug().
					Str("file", path).
					Int("row", i+2).
					Msg("skipping non-numeric row before data")
				continue
			}
			return nil, fmt.Errorf("file %s, row %d: %w", path, i+2, err)
		}
		started = true
		if err := table.appendRow(row); err != nil {
			return nil, fmt.Errorf("file %s, row %d: %w", path, i+2, err)
		}
	}
	return table, nil
}

// ReadDAT reads a whitespace-separated headerless acquisition dump using
// the given column layout. Leading non-numeric lines are skipped, extra
// trailing fields are ignored.
func ReadDAT(path string, layout Layout) (*Table, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("file %s: no column layout given", path)
	}
	if !fs.IsFile(path) {
		return nil, fmt.Errorf("file %s does not exist", path)
	}
	fr, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer fr.Close()

	table := &Table{Columns: append([]string{}, layout...)}
	scn := bufio.NewScanner(fr)
	lineNum := 0
	started := false
	for scn.Scan() {
		lineNum++
		fields := strings.Fields(scn.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < len(layout) {
			if !started {
				continue
			}
			return nil, fmt.Errorf(
				"file %s, line %d: expected %d columns, got %d",
				path, lineNum, len(layout), len(fields))
		}
		row, err := parseRow(fields[:len(layout)], len(layout))
		if err != nil {
			if !started {
				continue
			}
			return nil, fmt.Errorf("file %s, line %d: %w", path, lineNum, err)
		}
		started = true
		table.Rows = append(table.Rows, row)
	}
	if err := scn.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return table, nil
}

// ReadCSV reads a comma-separated export with a header row.
func ReadCSV(path string) (*Table, error) {
	if !fs.IsFile(path) {
		return nil, fmt.Errorf("file %s does not exist", path)
	}
	fr, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer fr.Close()

	rdr := csv.NewReader(fr)
	rdr.TrimLeadingSpace = true
	header, err := rdr.Read()
	if err != nil {
		return nil, fmt.Errorf("file %s has no header row: %w", path, err)
	}
	table := &Table{Columns: make([]string, len(header))}
	for i, name := range header {
		table.Columns[i] = strings.TrimSpace(name)
	}
	for lineNum := 2; ; lineNum++ {
		cells, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("file %s, line %d: %w", path, lineNum, err)
		}
		row, err := parseRow(cells, len(table.Columns))
		if err != nil {
			return nil, fmt.Errorf("file %s, line %d: %w", path, lineNum, err)
		}
		if err := table.appendRow(row); err != nil {
			return nil, fmt.Errorf("file %s, line %d: %w", path, lineNum, err)
		}
	}
	return table, nil
}

// parseNumber accepts both decimal points and decimal commas.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

func parseRow(cells []string, numCols int) ([]float64, error) {
	if len(cells) != numCols {
		return nil, fmt.Errorf("expected %d values, got %d", numCols, len(cells))
	}
	row := make([]float64, numCols)
	for i, cell := range cells {
		v, err := parseNumber(cell)
		if err != nil {
			return nil, fmt.Errorf("value %q is not a number", cell)
		}
		row[i] = v
	}
	return row, nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
