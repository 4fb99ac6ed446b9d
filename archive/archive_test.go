package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Isthali/processingdata/report"
	"github.com/Isthali/processingdata/standards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "archive.sqlite"))
	require.NoError(t, err)
	require.NoError(t, db.Init())
	t.Cleanup(func() { db.Close() })
	return db
}

func testAggregate(runID string, created time.Time) *report.Aggregate {
	return &report.Aggregate{
		RunID:     runID,
		Standard:  standards.StdEN14651,
		CreatedAt: created,
		Results: []report.SpecimenResult{
			{
				ID: "B1",
				Indices: &standards.IndexSet{
					Standard: standards.StdEN14651,
					Items: []standards.Index{
						{Name: "fL", Value: 3.84, Unit: "MPa"},
						{Name: "fR1", Value: 2.56, Unit: "MPa"},
					},
				},
			},
			{ID: "B2", Failure: "reference point out of curve domain"},
		},
	}
}

func TestInitIsIdempotent(t *testing.T) {
	db := newTestDatabase(t)
	assert.NoError(t, db.Init())
}

func TestAddAndGetRun(t *testing.T) {
	db := newTestDatabase(t)
	created := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	require.NoError(t, db.AddRun(testAggregate("run-1", created)))

	rec, err := db.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", rec.ID)
	assert.Equal(t, standards.StdEN14651, rec.Standard)
	assert.Equal(t, created.Unix(), rec.Created.Unix())
	assert.Equal(t, 2, rec.NumSpecimens)
	assert.Equal(t, 1, rec.NumFailed)

	require.Len(t, rec.Indices, 2)
	assert.Equal(t, "B1", rec.Indices[0].Specimen)
	assert.Equal(t, "fL", rec.Indices[0].Name)
	assert.Equal(t, 3.84, rec.Indices[0].Value)
	assert.Equal(t, "MPa", rec.Indices[0].Unit)
	assert.Equal(t, "fR1", rec.Indices[1].Name)
	assert.Equal(t, map[string]string{"B2": "reference point out of curve domain"}, rec.Failures)
}

func TestAddRunTwiceDoesNotDuplicate(t *testing.T) {
	db := newTestDatabase(t)
	agg := testAggregate("run-1", time.Now())
	require.NoError(t, db.AddRun(agg))
	require.NoError(t, db.AddRun(agg))

	rec, err := db.GetRun("run-1")
	require.NoError(t, err)
	assert.Len(t, rec.Indices, 2)
	assert.Len(t, rec.Failures, 1)

	runs, err := db.ListRuns(ListFilter{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestGetRunMissing(t *testing.T) {
	db := newTestDatabase(t)
	_, err := db.GetRun("no-such-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRunsFilters(t *testing.T) {
	db := newTestDatabase(t)
	older := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC)
	aggA := testAggregate("run-a", older)
	aggB := testAggregate("run-b", newer)
	aggB.Standard = standards.StdASTMC1550
	require.NoError(t, db.AddRun(aggA))
	require.NoError(t, db.AddRun(aggB))

	runs, err := db.ListRuns(ListFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].ID)
	assert.Equal(t, "run-a", runs[1].ID)

	runs, err = db.ListRuns(ListFilter{}.SetStandard(standards.StdEN14651))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-a", runs[0].ID)

	runs, err = db.ListRuns(ListFilter{}.SetFrom(time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-b", runs[0].ID)

	runs, err = db.ListRuns(ListFilter{}.SetLimit(1))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-b", runs[0].ID)
}

func TestIdempotentIDIsStable(t *testing.T) {
	a := IdempotentID("run-1", "B1", "fR1")
	b := IdempotentID("run-1", "B1", "fR1")
	c := IdempotentID("run-1", "B1", "fR2")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 40)
}
