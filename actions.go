package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/Isthali/processingdata/archive"
	"github.com/Isthali/processingdata/cnf"
	"github.com/Isthali/processingdata/dataimport"
	"github.com/Isthali/processingdata/export"
	"github.com/Isthali/processingdata/rawstore"
	"github.com/Isthali/processingdata/report"
	"github.com/Isthali/processingdata/standards"
)

const (
	errColor = color.FgHiRed

	importDateFormat = "2006-01-02"
)

func runActionImport(conf *cnf.Conf, dir, layoutName string, fromDB bool, fromDate, toDate string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := rawstore.OpenDB(conf.RawStorePath)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorImportFailed)
	}
	defer store.Close()

	if fromDB {
		runLIMSImport(ctx, conf, store, fromDate, toDate)
		return
	}

	if dir == "" {
		color.New(errColor).Fprintln(os.Stderr, "missing input directory argument")
		os.Exit(exitErrorImportFailed)
	}
	layout, err := layoutByName(layoutName)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorImportFailed)
	}
	inputs, err := dataimport.DiscoverInputs(dir)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorImportFailed)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "no importable files found")
		return
	}

	var numFailed int
	bar := progressbar.Default(int64(len(inputs)), "importing raw files")
	for _, input := range inputs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		table, err := dataimport.Read(input.Path, layout)
		if err != nil {
			log.Error().Err(err).Str("file", input.Path).Msg("failed to read specimen file, skipping")
			numFailed++
			bar.Add(1)
			continue
		}
		if err := store.StoreTable(input.SpecimenID, table); err != nil {
			log.Error().Err(err).Str("specimenId", input.SpecimenID).Msg("failed to store specimen table, skipping")
			numFailed++
			bar.Add(1)
			continue
		}
		bar.Add(1)
	}
	log.Info().
		Int("numImported", len(inputs)-numFailed).
		Int("numFailed", numFailed).
		Msg("raw import finished")
}

func runLIMSImport(ctx context.Context, conf *cnf.Conf, store *rawstore.DB, fromDate, toDate string) {
	if !conf.LIMS.IsSet() {
		color.New(errColor).Fprintln(os.Stderr, "LIMS database is not configured")
		os.Exit(exitErrorImportFailed)
	}
	from, to, err := parseImportWindow(fromDate, toDate)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorImportFailed)
	}
	src, err := dataimport.NewLIMSSource(conf.LIMS)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorImportFailed)
	}
	defer src.Close()
	results, err := src.ImportBatch(ctx, from, to)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorImportFailed)
	}
	var numImported, numFailed int
	for res := range results {
		if res.Error != nil {
			log.Error().Err(res.Error).Str("specimenId", res.SpecimenID).Msg("failed to import specimen from LIMS, skipping")
			numFailed++
			continue
		}
		if err := store.StoreTable(res.SpecimenID, res.Table); err != nil {
			log.Error().Err(err).Str("specimenId", res.SpecimenID).Msg("failed to store specimen table, skipping")
			numFailed++
			continue
		}
		numImported++
	}
	log.Info().
		Int("numImported", numImported).
		Int("numFailed", numFailed).
		Msg("LIMS import finished")
}

func parseImportWindow(fromDate, toDate string) (time.Time, time.Time, error) {
	if fromDate == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("missing from-date (expected format %s)", importDateFormat)
	}
	from, err := time.Parse(importDateFormat, fromDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse from-date: %w", err)
	}
	to := time.Now()
	if toDate != "" {
		to, err = time.Parse(importDateFormat, toDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("failed to parse to-date: %w", err)
		}
	}
	return from, to, nil
}

func runActionRuns(conf *cnf.Conf, standard, fromDate string, limit int) {
	db, err := archive.NewDatabase(conf.ArchiveDBPath)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorGeneralFailure)
	}
	defer db.Close()
	if err := db.Init(); err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorGeneralFailure)
	}
	filter := archive.ListFilter{}.SetLimit(limit)
	if standard != "" {
		filter = filter.SetStandard(standard)
	}
	if fromDate != "" {
		from, err := time.Parse(importDateFormat, fromDate)
		if err != nil {
			color.New(errColor).Fprintln(os.Stderr, fmt.Errorf("failed to parse from date: %w", err))
			os.Exit(exitErrorGeneralFailure)
		}
		filter = filter.SetFrom(from)
	}
	runs, err := db.ListRuns(filter)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorGeneralFailure)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no archived runs found")
		return
	}
	for _, run := range runs {
		fmt.Printf(
			"%s\t%s\t%s\t%d specimens (%d failed)\n",
			run.ID,
			run.Created.Format("2006-01-02 15:04"),
			run.Standard,
			run.NumSpecimens,
			run.NumFailed,
		)
	}
}

func runActionExport(conf *cnf.Conf, src, csvPath, xlsxPath string) {
	if src == "" {
		color.New(errColor).Fprintln(os.Stderr, "missing snapshot file or run ID argument")
		os.Exit(exitErrorExportFailed)
	}
	if csvPath == "" && xlsxPath == "" {
		color.New(errColor).Fprintln(os.Stderr, "nothing to export, provide -csv and/or -xlsx")
		os.Exit(exitErrorExportFailed)
	}
	agg := loadRun(conf, src)
	if csvPath != "" {
		if err := exportRunCSV(csvPath, agg); err != nil {
			color.New(errColor).Fprintln(os.Stderr, err)
			os.Exit(exitErrorExportFailed)
		}
		log.Info().Str("file", csvPath).Msg("CSV export written")
	}
	if xlsxPath != "" {
		if err := export.WriteXLSX(xlsxPath, agg, conf.ClientName); err != nil {
			color.New(errColor).Fprintln(os.Stderr, err)
			os.Exit(exitErrorExportFailed)
		}
		log.Info().Str("file", xlsxPath).Msg("XLSX export written")
	}
}

// loadRun resolves the export source: an existing file is read as a run
// snapshot, anything else is treated as an archived run ID.
func loadRun(conf *cnf.Conf, src string) *report.Aggregate {
	if fs.IsFile(src) {
		agg, err := report.LoadAggregateFromFile(src)
		if err != nil {
			color.New(errColor).Fprintln(os.Stderr, err)
			os.Exit(exitErrorExportFailed)
		}
		return agg
	}
	db, err := archive.NewDatabase(conf.ArchiveDBPath)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorExportFailed)
	}
	defer db.Close()
	if err := db.Init(); err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorExportFailed)
	}
	rec, err := db.GetRun(src)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorExportFailed)
	}
	return aggregateFromRun(rec)
}

// aggregateFromRun rebuilds a run aggregate from its archived rows. The
// archive keeps indices and failures only, so the rebuilt results carry
// no reference point details.
func aggregateFromRun(rec *archive.RunRecord) *report.Aggregate {
	bySpecimen := make(map[string]*standards.IndexSet)
	var order []string
	for _, row := range rec.Indices {
		set, ok := bySpecimen[row.Specimen]
		if !ok {
			set = &standards.IndexSet{Standard: rec.Standard}
			bySpecimen[row.Specimen] = set
			order = append(order, row.Specimen)
		}
		set.Items = append(set.Items, standards.Index{
			Name:  row.Name,
			Value: row.Value,
			Unit:  row.Unit,
		})
	}
	agg := &report.Aggregate{
		RunID:     rec.ID,
		Standard:  rec.Standard,
		CreatedAt: rec.Created,
		Results:   make([]report.SpecimenResult, 0, len(order)+len(rec.Failures)),
	}
	for _, id := range order {
		agg.Results = append(agg.Results, report.SpecimenResult{ID: id, Indices: bySpecimen[id]})
	}
	failed := make([]string, 0, len(rec.Failures))
	for id := range rec.Failures {
		failed = append(failed, id)
	}
	sort.Strings(failed)
	for _, id := range failed {
		agg.Results = append(agg.Results, report.SpecimenResult{ID: id, Failure: rec.Failures[id]})
	}
	agg.Summary = report.Summarize(agg.Results)
	return agg
}

func exportRunCSV(path string, agg *report.Aggregate) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()
	wr := export.NewCSVWriter(file, export.DefaultCSVConfig())
	if err := wr.WriteIndices(agg); err != nil {
		return err
	}
	if err := wr.WritePoints(agg); err != nil {
		return err
	}
	return wr.Flush()
}
