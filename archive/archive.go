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

// Package archive persists evaluated runs to a local SQLite database so
// results stay queryable after the batch process exits.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Isthali/processingdata/report"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

var ErrRunNotFound = errors.New("run not found")

type Database struct {
	db *sql.DB
	tx *sql.Tx
}

// RunInfo is the summary row of an archived run.
type RunInfo struct {
	ID           string    `json:"id"`
	Standard     string    `json:"standard"`
	Created      time.Time `json:"created"`
	NumSpecimens int       `json:"numSpecimens"`
	NumFailed    int       `json:"numFailed"`
}

// IndexRow is one archived index value of one specimen.
type IndexRow struct {
	Specimen string  `json:"specimen"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
}

// RunRecord is a fully loaded archived run.
type RunRecord struct {
	RunInfo
	Indices  []IndexRow        `json:"indices"`
	Failures map[string]string `json:"failures"`
}

func (database *Database) createRunsTable() error {
	_, err := database.db.Exec(
		"CREATE TABLE runs (" +
			"id TEXT PRIMARY KEY NOT NULL, " +
			"standard TEXT NOT NULL, " +
			"created INTEGER NOT NULL, " +
			"numSpecimens INTEGER NOT NULL, " +
			"numFailed INTEGER NOT NULL" +
			")",
	)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	log.Info().Msg("created table `runs`")
	return nil
}

func (database *Database) createRunIndicesTable() error {
	_, err := database.db.Exec(
		"CREATE TABLE run_indices (" +
			"id TEXT PRIMARY KEY NOT NULL, " +
			"runId TEXT NOT NULL, " +
			"specimen TEXT NOT NULL, " +
			"pos INTEGER NOT NULL DEFAULT 0, " +
			"name TEXT, " +
			"value FLOAT, " +
			"unit TEXT, " +
			"failure TEXT" +
			")",
	)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	log.Info().Msg("created table `run_indices`")
	return nil
}

func (database *Database) tableExists(tn string) (bool, error) {
	ans := database.db.QueryRow(
		fmt.Sprintf("SELECT name FROM sqlite_master WHERE type='table' AND name='%s'", tn))
	var nm sql.NullString
	err := ans.Scan(&nm)
	if err == sql.ErrNoRows {
		return false, nil

	} else if err != nil {
		return false, fmt.Errorf("failed to determine existence of table %s: %w", tn, err)
	}
	return true, nil
}

func (database *Database) Init() error {
	ex, err := database.tableExists("runs")
	if err != nil {
		return fmt.Errorf("failed to init table runs: %w", err)
	}
	if ex {
		log.Info().Str("table", "runs").Msg("table already exists")

	} else {
		if err := database.createRunsTable(); err != nil {
			return fmt.Errorf("failed to create table runs: %w", err)
		}
	}

	ex, err = database.tableExists("run_indices")
	if err != nil {
		return fmt.Errorf("failed to init table run_indices: %w", err)
	}
	if ex {
		log.Info().Str("table", "run_indices").Msg("table already exists")

	} else {
		if err := database.createRunIndicesTable(); err != nil {
			return fmt.Errorf("failed to create table run_indices: %w", err)
		}
	}

	return nil
}

func (database *Database) StartTx() error {
	if database.tx != nil {
		panic("a transaction is already running")
	}
	var err error
	database.tx, err = database.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	return nil
}

func (database *Database) CommitTx() error {
	if database.tx == nil {
		panic("no transaction running")
	}
	err := database.tx.Commit()
	database.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (database *Database) RollbackTx() error {
	if database.tx == nil {
		panic("no transaction running")
	}
	err := database.tx.Rollback()
	database.tx = nil
	if err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// AddRun stores the run row plus one row per specimen index; failed
// specimens store their failure reason instead. Storing the same run
// twice overwrites the previous rows, record IDs are idempotent.
func (database *Database) AddRun(agg *report.Aggregate) error {
	tx, err := database.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to add run: %w", err)
	}
	_, err = tx.Exec(
		"INSERT OR REPLACE INTO runs (id, standard, created, numSpecimens, numFailed) "+
			"VALUES (?, ?, ?, ?, ?)",
		agg.RunID,
		agg.Standard,
		agg.CreatedAt.Unix(),
		len(agg.Results),
		agg.NumFailed(),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to add run: %w", err)
	}
	for _, res := range agg.Results {
		if res.Failed() {
			_, err = tx.Exec(
				"INSERT OR REPLACE INTO run_indices (id, runId, specimen, failure) "+
					"VALUES (?, ?, ?, ?)",
				IdempotentID(agg.RunID, res.ID, ""),
				agg.RunID,
				res.ID,
				res.Failure,
			)
			if err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to add run: %w", err)
			}
			continue
		}
		for pos, item := range res.Indices.Items {
			_, err = tx.Exec(
				"INSERT OR REPLACE INTO run_indices (id, runId, specimen, pos, name, value, unit) "+
					"VALUES (?, ?, ?, ?, ?, ?, ?)",
				IdempotentID(agg.RunID, res.ID, item.Name),
				agg.RunID,
				res.ID,
				pos,
				item.Name,
				item.Value,
				item.Unit,
			)
			if err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to add run: %w", err)
			}
		}
	}
	return tx.Commit()
}

// GetRun loads one archived run with all its index rows.
func (database *Database) GetRun(runID string) (*RunRecord, error) {
	row := database.db.QueryRow(
		"SELECT id, standard, created, numSpecimens, numFailed FROM runs WHERE id = ?",
		runID,
	)
	var rec RunRecord
	var created int64
	err := row.Scan(&rec.ID, &rec.Standard, &created, &rec.NumSpecimens, &rec.NumFailed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("failed to fetch run %s: %w", runID, ErrRunNotFound)

	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch run %s: %w", runID, err)
	}
	rec.Created = time.Unix(created, 0)
	rec.Failures = make(map[string]string)

	rows, err := database.db.Query(
		"SELECT specimen, name, value, unit, failure FROM run_indices "+
			"WHERE runId = ? ORDER BY specimen, pos",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run %s: %w", runID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var specimen string
		var name, unit, failure sql.NullString
		var value sql.NullFloat64
		if err := rows.Scan(&specimen, &name, &value, &unit, &failure); err != nil {
			return nil, fmt.Errorf("failed to fetch run %s: %w", runID, err)
		}
		if failure.Valid {
			rec.Failures[specimen] = failure.String
			continue
		}
		rec.Indices = append(rec.Indices, IndexRow{
			Specimen: specimen,
			Name:     name.String,
			Value:    value.Float64,
			Unit:     unit.String,
		})
	}
	return &rec, rows.Err()
}

// ListRuns returns archived run summaries, newest first.
func (database *Database) ListRuns(filter ListFilter) ([]RunInfo, error) {
	whereChunks := make([]string, 0, 3)
	whereChunks = append(whereChunks, "1 = 1")
	args := make([]any, 0, 3)
	if filter.Standard != nil {
		whereChunks = append(whereChunks, "standard = ?")
		args = append(args, *filter.Standard)
	}
	if filter.From != nil {
		whereChunks = append(whereChunks, "created >= ?")
		args = append(args, filter.From.Unix())
	}
	if filter.To != nil {
		whereChunks = append(whereChunks, "created <= ?")
		args = append(args, filter.To.Unix())
	}
	query := fmt.Sprintf(
		"SELECT id, standard, created, numSpecimens, numFailed FROM runs "+
			"WHERE %s ORDER BY created DESC",
		strings.Join(whereChunks, " AND "),
	)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	rows, err := database.db.Query(query, args...)
	if err != nil {
		return []RunInfo{}, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()
	ans := make([]RunInfo, 0, 50)
	for rows.Next() {
		var info RunInfo
		var created int64
		err := rows.Scan(
			&info.ID, &info.Standard, &created, &info.NumSpecimens, &info.NumFailed)
		if err != nil {
			return []RunInfo{}, fmt.Errorf("failed to list runs: %w", err)
		}
		info.Created = time.Unix(created, 0)
		ans = append(ans, info)
	}
	return ans, rows.Err()
}

func (database *Database) Close() error {
	return database.db.Close()
}

func NewDatabase(path string) (*Database, error) {
	dbConn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}
	return &Database{db: dbConn}, nil
}
