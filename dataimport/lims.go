package dataimport

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Isthali/processingdata/curve"
	"github.com/go-sql-driver/mysql"
)

// LIMSConf holds the connection parameters of the laboratory information
// system database.
type LIMSConf struct {
	Host   string `json:"host"`
	User   string `json:"user"`
	Passwd string `json:"passwd"`
	Name   string `json:"db"`
	Table  string `json:"table"`
}

func (conf LIMSConf) IsSet() bool {
	return conf.Host != ""
}

// LIMSResult carries one imported specimen or the error that prevented
// its import.
type LIMSResult struct {
	SpecimenID string
	Table      *Table
	Error      error
}

// LIMSSource imports acquisition samples stored by the laboratory
// information system. The sample table has one row per reading with
// nullable gauge columns; specimens without a gauge leave the column
// NULL for every reading.
type LIMSSource struct {
	conn  *sql.DB
	table string
}

// NewLIMSSource opens the LIMS database connection.
func NewLIMSSource(conf LIMSConf) (*LIMSSource, error) {
	mconf := mysql.NewConfig()
	mconf.Net = "tcp"
	mconf.Addr = conf.Host
	mconf.User = conf.User
	mconf.Passwd = conf.Passwd
	mconf.DBName = conf.Name
	mconf.ParseTime = true
	mconf.Loc = time.Local
	db, err := sql.Open("mysql", mconf.FormatDSN())
	if err != nil {
		return nil, err
	}
	return &LIMSSource{conn: db, table: conf.Table}, nil
}

// ListSpecimens returns the IDs of specimens tested within the date
// range.
func (ls *LIMSSource) ListSpecimens(ctx context.Context, fromDate, toDate time.Time) ([]string, error) {
	rows, err := ls.conn.QueryContext(
		ctx,
		"SELECT DISTINCT specimen_id FROM "+ls.table+
			" WHERE created BETWEEN ? AND ? ORDER BY specimen_id",
		fromDate,
		toDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list specimens: %w", err)
	}
	defer rows.Close()
	var ans []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to list specimens: %w", err)
		}
		ans = append(ans, id)
	}
	return ans, rows.Err()
}

// ImportSpecimen reads the ordered sample rows of one specimen into a
// table. Gauge columns that are NULL throughout are left out.
func (ls *LIMSSource) ImportSpecimen(ctx context.Context, specimenID string) (*Table, error) {
	rows, err := ls.conn.QueryContext(
		ctx,
		"SELECT time_s, displacement_mm, load_kn, deflection_mm, cmod_mm FROM "+
			ls.table+" WHERE specimen_id = ? ORDER BY sample_idx",
		specimenID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch samples of %s: %w", specimenID, err)
	}
	defer rows.Close()

	var raw [][]sql.NullFloat64
	for rows.Next() {
		rec := make([]sql.NullFloat64, 5)
		if err := rows.Scan(&rec[0], &rec[1], &rec[2], &rec[3], &rec[4]); err != nil {
			return nil, fmt.Errorf("failed to fetch samples of %s: %w", specimenID, err)
		}
		raw = append(raw, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch samples of %s: %w", specimenID, err)
	}

	names := []string{
		curve.AxisTime, curve.AxisDisplacement, curve.AxisLoad,
		curve.AxisDeflection, curve.AxisCMOD,
	}
	present := make([]int, 0, len(names))
	for col := range names {
		valid := len(raw) > 0
		for _, rec := range raw {
			if !rec[col].Valid {
				valid = false
				break
			}
		}
		if valid {
			present = append(present, col)
		}
	}
	table := &Table{Columns: make([]string, len(present))}
	for i, col := range present {
		table.Columns[i] = names[col]
	}
	for _, rec := range raw {
		row := make([]float64, len(present))
		for i, col := range present {
			row[i] = rec[col].Float64
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ImportBatch streams the specimens of a date range. Per-specimen import
// failures are delivered on the channel and do not stop the batch.
func (ls *LIMSSource) ImportBatch(ctx context.Context, fromDate, toDate time.Time) (chan LIMSResult, error) {
	ids, err := ls.ListSpecimens(ctx, fromDate, toDate)
	ans := make(chan LIMSResult, 10)
	if err != nil {
		close(ans)
		return ans, err
	}
	go func() {
		defer close(ans)
		for _, id := range ids {
			select {
			case <-ctx.Done():
				return
			default:
			}
			table, err := ls.ImportSpecimen(ctx, id)
			ans <- LIMSResult{SpecimenID: id, Table: table, Error: err}
		}
	}()
	return ans, nil
}

func (ls *LIMSSource) Close() error {
	return ls.conn.Close()
}
