package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Isthali/processingdata/curve"
	"github.com/Isthali/processingdata/report"
	"github.com/Isthali/processingdata/standards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAggregate() *report.Aggregate {
	return &report.Aggregate{
		RunID:     "run-1",
		Standard:  standards.StdEN14651,
		CreatedAt: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Results: []report.SpecimenResult{
			{
				ID: "B1",
				Indices: &standards.IndexSet{
					Standard: standards.StdEN14651,
					Items: []standards.Index{
						{Name: "fL", Value: 3.84, Unit: "MPa"},
						{Name: "fR1", Value: 2.56, Unit: "MPa"},
					},
					Points: []standards.PointResult{
						{Target: 0.5, Load: 8, Stress: 2.56, Toughness: 2, Method: curve.MethodExact},
					},
				},
			},
			{ID: "B2", Failure: "reference point out of curve domain"},
		},
		Summary: map[string]report.Stats{
			"fL":  {Mean: 3.84, N: 1},
			"fR1": {Mean: 2.56, N: 1},
		},
	}
}

func TestWriteIndices(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCSVWriter(&buf, nil)
	require.NoError(t, cw.WriteIndices(testAggregate()))
	require.NoError(t, cw.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "specimen,fL,fR1,verdict,failure", lines[0])
	assert.Equal(t, "B1,3.8400,2.5600,,", lines[1])
	assert.Equal(t, "B2,NA,NA,,reference point out of curve domain", lines[2])
	assert.Equal(t, "mean,3.8400,2.5600,,", lines[3])
	assert.Equal(t, "stddev,0.0000,0.0000,,", lines[4])
	assert.Equal(t, "cov,0.0000,0.0000,,", lines[5])
	assert.Equal(t, 6, cw.RowsWritten())
}

func TestWriteIndicesSemicolonDialect(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCSVWriter(&buf, &CSVConfig{
		Dialect:   DialectSemicolon,
		Precision: 2,
		NAString:  "-",
	})
	require.NoError(t, cw.WriteIndices(testAggregate()))
	require.NoError(t, cw.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "specimen;fL;fR1;verdict;failure", lines[0])
	assert.Equal(t, "B1;3.84;2.56;;", lines[1])
	assert.Equal(t, "B2;-;-;;reference point out of curve domain", lines[2])
}

func TestWritePoints(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCSVWriter(&buf, nil)
	require.NoError(t, cw.WritePoints(testAggregate()))
	require.NoError(t, cw.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "specimen,target,load,stress,toughness,method", lines[0])
	assert.Equal(t, "B1,0.5000,8.0000,2.5600,2.0000,exact", lines[1])
}
