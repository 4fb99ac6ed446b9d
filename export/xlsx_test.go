package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, testAggregate(), "ACME Constructora"))

	book, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Run")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 18)

	assert.Equal(t, []string{"Run", "run-1"}, rows[0])
	assert.Equal(t, []string{"Client", "ACME Constructora"}, rows[1])
	assert.Equal(t, "Standard", rows[2][0])
	assert.Equal(t, "EN14651", rows[2][1])

	assert.Equal(t, "Specimen", rows[7][0])
	assert.Equal(t, "fL", rows[7][1])
	assert.Equal(t, "fR1", rows[7][2])
	assert.Equal(t, "MPa", rows[8][1])

	assert.Equal(t, "B1", rows[9][0])
	assert.Equal(t, "3.84", rows[9][1])
	assert.Equal(t, "2.56", rows[9][2])
	assert.Equal(t, "B2", rows[10][0])
	assert.Equal(t, "reference point out of curve domain", rows[10][4])

	assert.Equal(t, "Mean", rows[12][0])
	assert.Equal(t, "3.84", rows[12][1])

	assert.Equal(t, "Method", rows[16][5])
	assert.Equal(t, "B1", rows[17][0])
	assert.Equal(t, "exact", rows[17][5])
}

func TestWriteXLSXWithoutClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, testAggregate(), ""))

	book, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Run")
	require.NoError(t, err)
	assert.Equal(t, "Standard", rows[1][0])
}
