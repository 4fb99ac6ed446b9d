package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/Isthali/processingdata/archive"
	"github.com/Isthali/processingdata/cnf"
	"github.com/Isthali/processingdata/curve"
	"github.com/Isthali/processingdata/dataimport"
	"github.com/Isthali/processingdata/export"
	"github.com/Isthali/processingdata/report"
	"github.com/Isthali/processingdata/standards"
)

type evalOptions struct {
	layout   string
	workers  int
	archive  bool
	snapshot string
	csvPath  string
	xlsxPath string
	geometry standards.Geometry
}

type importFailure struct {
	specimenID string
	err        error
}

// inferSection fills the section shape from the dimension flags when the
// user did not name it explicitly.
func inferSection(geom standards.Geometry) standards.Geometry {
	if geom.Section != "" {
		return geom
	}
	switch {
	case geom.Diameter > 0:
		geom.Section = standards.SectionCircular
	case geom.Side > 0 && geom.Side2 > 0:
		geom.Section = standards.SectionRectangular
	case geom.Side > 0:
		geom.Section = standards.SectionSquare
	}
	return geom
}

func layoutByName(name string) (dataimport.Layout, error) {
	switch name {
	case "", "beam":
		return dataimport.LayoutBeam, nil
	case "beam2":
		return dataimport.LayoutBeamTwoGauges, nil
	case "core":
		return dataimport.LayoutCore, nil
	}
	return nil, fmt.Errorf("unknown layout %s (use beam, beam2 or core)", name)
}

// auxColumns lists the table columns carried along the primary axis.
func auxColumns(table *dataimport.Table, axis string) []string {
	var aux []string
	for _, name := range table.Columns {
		if name != axis && name != curve.AxisLoad {
			aux = append(aux, name)
		}
	}
	return aux
}

// collectInputs expands the path arguments: directories are searched for
// importable files, plain files are taken as they are.
func collectInputs(paths []string) ([]dataimport.Input, error) {
	var inputs []dataimport.Input
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot read input %s: %w", p, err)
		}
		if info.IsDir() {
			found, err := dataimport.DiscoverInputs(p)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, found...)

		} else {
			name := filepath.Base(p)
			inputs = append(inputs, dataimport.Input{
				Path:       p,
				SpecimenID: strings.TrimSuffix(name, filepath.Ext(name)),
			})
		}
	}
	return inputs, nil
}

// importSpecimens reads and trims the input files. Files that cannot be
// parsed or trimmed do not stop the batch, they are returned as failures
// so the run records them next to the evaluated specimens.
func importSpecimens(
	ctx context.Context,
	inputs []dataimport.Input,
	layout dataimport.Layout,
	standard string,
	axis string,
	geom standards.Geometry,
) ([]report.SpecimenData, []importFailure) {
	policy := dataimport.PolicyFor(standard)
	specimens := make([]report.SpecimenData, 0, len(inputs))
	var failures []importFailure
	bar := progressbar.Default(int64(len(inputs)), "importing specimens")
	for _, input := range inputs {
		select {
		case <-ctx.Done():
			return specimens, failures
		default:
		}
		table, err := dataimport.Read(input.Path, layout)
		if err != nil {
			log.Error().Err(err).Str("file", input.Path).Msg("failed to read specimen file, skipping")
			failures = append(failures, importFailure{input.SpecimenID, err})
			bar.Add(1)
			continue
		}
		crv, err := dataimport.ToCurve(table, axis, policy, auxColumns(table, axis)...)
		if err != nil {
			log.Error().Err(err).Str("specimenId", input.SpecimenID).Msg("failed to build specimen curve, skipping")
			failures = append(failures, importFailure{input.SpecimenID, err})
			bar.Add(1)
			continue
		}
		specimens = append(specimens, report.SpecimenData{
			Specimen: standards.Specimen{ID: input.SpecimenID, Geometry: geom},
			Curve:    crv,
		})
		bar.Add(1)
	}
	return specimens, failures
}

func runActionEvaluate(conf *cnf.Conf, standard string, paths []string, opts evalOptions) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if standard == "" {
		color.New(errColor).Fprintln(os.Stderr, "missing standard argument")
		os.Exit(exitErrorEvaluationFailed)
	}
	if len(paths) == 0 {
		color.New(errColor).Fprintln(os.Stderr, "no input files or directories provided")
		os.Exit(exitErrorEvaluationFailed)
	}
	workers := opts.workers
	if workers <= 0 {
		workers = conf.NumWorkers
	}
	model, err := report.NewModel(standard, report.Options{Workers: workers})
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorEvaluationFailed)
	}
	layout, err := layoutByName(opts.layout)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorEvaluationFailed)
	}
	inputs, err := collectInputs(paths)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorEvaluationFailed)
	}
	if len(inputs) == 0 {
		color.New(errColor).Fprintln(os.Stderr, "no importable files found")
		os.Exit(exitErrorEvaluationFailed)
	}

	specimens, failures := importSpecimens(
		ctx, inputs, layout, standard, model.Calculator().Axis(), opts.geometry)
	if ctx.Err() != nil {
		return
	}

	agg, err := model.Run(ctx, specimens)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorEvaluationFailed)
	}
	for _, fail := range failures {
		agg.Results = append(agg.Results, report.SpecimenResult{
			ID:      fail.specimenID,
			Failure: fail.err.Error(),
		})
	}

	printAggregate(agg)

	if opts.archive {
		archiveRun(conf, agg)
	}
	if opts.snapshot != "" {
		if err := agg.SaveToFile(opts.snapshot); err != nil {
			color.New(errColor).Fprintln(os.Stderr, err)
			os.Exit(exitErrorEvaluationFailed)
		}
		log.Info().Str("file", opts.snapshot).Msg("run snapshot saved")
	}
	if opts.csvPath != "" {
		if err := exportRunCSV(opts.csvPath, agg); err != nil {
			color.New(errColor).Fprintln(os.Stderr, err)
			os.Exit(exitErrorExportFailed)
		}
		log.Info().Str("file", opts.csvPath).Msg("CSV export written")
	}
	if opts.xlsxPath != "" {
		if err := export.WriteXLSX(opts.xlsxPath, agg, conf.ClientName); err != nil {
			color.New(errColor).Fprintln(os.Stderr, err)
			os.Exit(exitErrorExportFailed)
		}
		log.Info().Str("file", opts.xlsxPath).Msg("XLSX export written")
	}
}

func archiveRun(conf *cnf.Conf, agg *report.Aggregate) {
	db, err := archive.NewDatabase(conf.ArchiveDBPath)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorEvaluationFailed)
	}
	defer db.Close()
	if err := db.Init(); err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorEvaluationFailed)
	}
	if err := db.AddRun(agg); err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorEvaluationFailed)
	}
	log.Info().Str("runId", agg.RunID).Msg("run stored in the archive")
}

func printAggregate(agg *report.Aggregate) {
	titleColor := color.New(color.FgHiMagenta).SprintFunc()
	redColor := color.New(color.FgRed).SprintFunc()

	fmt.Println("----------------------------------------------------")
	fmt.Println("run:      ", agg.RunID)
	fmt.Println("standard: ", agg.Standard)
	fmt.Printf("specimens: %d evaluated, %d failed\n", agg.NumOK(), agg.NumFailed())
	fmt.Println("----------------------------------------------------")
	for _, res := range agg.Results {
		if res.Failed() {
			fmt.Printf("%s: %s\n", titleColor(res.ID), redColor(res.Failure))
			continue
		}
		line := make([]string, len(res.Indices.Items))
		for i, item := range res.Indices.Items {
			line[i] = formatIndex(item)
		}
		fmt.Printf("%s: %s\n", titleColor(res.ID), strings.Join(line, ", "))
		if res.Indices.Verdict != "" {
			fmt.Printf("%s: verdict %s\n", titleColor(res.ID), res.Indices.Verdict)
		}
	}
	if len(agg.Summary) > 0 {
		fmt.Println("----------------------------------------------------")
		for _, name := range summaryNames(agg) {
			st := agg.Summary[name]
			fmt.Printf(
				"%s: mean %.4f, stddev %.4f, cov %.2f%% (n=%d)\n",
				titleColor(name), st.Mean, st.StdDev, st.CoV*100, st.N,
			)
		}
	}
	fmt.Println("----------------------------------------------------")
}

// summaryNames keeps the order the calculator defined, taken from the
// first successful specimen.
func summaryNames(agg *report.Aggregate) []string {
	var names []string
	for _, res := range agg.Results {
		if !res.Failed() {
			names = res.Indices.Names()
			break
		}
	}
	ans := make([]string, 0, len(agg.Summary))
	for _, name := range names {
		if _, ok := agg.Summary[name]; ok {
			ans = append(ans, name)
		}
	}
	return ans
}

func formatIndex(item standards.Index) string {
	if item.Unit == "" {
		return fmt.Sprintf("%s=%.3f", item.Name, item.Value)
	}
	return fmt.Sprintf("%s=%.3f %s", item.Name, item.Value, item.Unit)
}
