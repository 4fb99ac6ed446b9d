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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/czcorpus/cnc-gokit/logging"

	"github.com/Isthali/processingdata/apiserver"
	"github.com/Isthali/processingdata/cnf"
	"github.com/Isthali/processingdata/standards"
)

const (
	actionVersion  = "version"
	actionHelp     = "help"
	actionEvaluate = "evaluate"
	actionImport   = "import"
	actionServer   = "server"
	actionREPL     = "repl"
	actionExport   = "export"
	actionRuns     = "runs"

	exitErrorGeneralFailure = iota
	exitErrorImportFailed
	exitErrorEvaluationFailed
	exitErrorExportFailed
	exitErrorREPLReading
)

var (
	version   string
	buildDate string
	gitCommit string
)

// VersionInfo provides a detailed information about the actual build
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
}

func topLevelUsage() {
	fmt.Fprintf(os.Stderr, "PROCESSINGDATA - characteristic points and indices for mechanical tests\n")
	fmt.Fprintf(os.Stderr, "-----------------------------\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "\t%s\t\tshow version info\n", actionVersion)
	fmt.Fprintf(os.Stderr, "\t%s\tevaluate a batch of specimen files against a standard\n", actionEvaluate)
	fmt.Fprintf(os.Stderr, "\t%s\t\timport raw specimen files into the raw store\n", actionImport)
	fmt.Fprintf(os.Stderr, "\t%s\t\trun the HTTP API server\n", actionServer)
	fmt.Fprintf(os.Stderr, "\t%s\t\tinteractive evaluation shell\n", actionREPL)
	fmt.Fprintf(os.Stderr, "\t%s\t\tre-export an archived or snapshotted run\n", actionExport)
	fmt.Fprintf(os.Stderr, "\t%s\t\tlist archived runs\n", actionRuns)
	fmt.Fprintf(os.Stderr, "\nUse `processingdata help ACTION` for information about a specific action\n\n")
}

func setup(confPath string) *cnf.Conf {
	conf := cnf.LoadConfig(confPath)
	if conf.Logging.Level == "" {
		conf.Logging.Level = "info"
	}
	logging.SetupLogging(conf.Logging)
	cnf.ValidateAndDefaults(conf)
	return conf
}

func cleanVersionInfo(v string) string {
	return strings.TrimLeft(strings.Trim(v, "'"), "v")
}

func runActionVersion(ver VersionInfo) {
	fmt.Fprintln(os.Stderr, "ProcessingData version: ", ver)
}

func runActionServer(conf *cnf.Conf) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	apiserver.Run(ctx, conf)
}

func main() {
	version := VersionInfo{
		Version:   cleanVersionInfo(version),
		BuildDate: cleanVersionInfo(buildDate),
		GitCommit: cleanVersionInfo(gitCommit),
	}

	cmdVersion := flag.NewFlagSet(actionVersion, flag.ExitOnError)
	cmdVersion.Usage = func() {
		cmdVersion.PrintDefaults()
	}

	cmdHelp := flag.NewFlagSet(actionHelp, flag.ExitOnError)
	cmdHelp.Usage = func() {
		cmdHelp.PrintDefaults()
	}

	cmdEvaluate := flag.NewFlagSet(actionEvaluate, flag.ExitOnError)
	evalLayout := cmdEvaluate.String("layout", "beam", "column layout of headerless DAT files (beam, beam2, core)")
	evalWorkers := cmdEvaluate.Int("workers", 0, "number of parallel specimen evaluations (0 = configured default)")
	evalArchive := cmdEvaluate.Bool("archive", false, "if set, then the finished run is stored in the run archive")
	evalSnapshot := cmdEvaluate.String("snapshot", "", "if set, then the full run is snapshotted to the provided file")
	evalCSV := cmdEvaluate.String("csv", "", "if set, then indices and points are exported to the provided CSV file")
	evalXLSX := cmdEvaluate.String("xlsx", "", "if set, then the run report is exported to the provided XLSX file")
	evalWidth := cmdEvaluate.Float64("width", 0, "specimen width in mm (beam standards)")
	evalDepth := cmdEvaluate.Float64("depth", 0, "specimen depth in mm (beam standards)")
	evalSpan := cmdEvaluate.Float64("span", 0, "support span in mm (beam standards)")
	evalDiameter := cmdEvaluate.Float64("diameter", 0, "specimen diameter in mm (circular sections)")
	evalSide := cmdEvaluate.Float64("side", 0, "section side in mm (square and rectangular sections)")
	evalSide2 := cmdEvaluate.Float64("side2", 0, "second section side in mm (rectangular sections)")
	evalSection := cmdEvaluate.String("section", "", "cross-section shape (circular, square, rectangular); derived from the dimension flags when empty")
	cmdEvaluate.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s [options] config.json STANDARD [file|dir]...\n",
			filepath.Base(os.Args[0]), actionEvaluate)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		cmdEvaluate.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSupported standards: %s\n", strings.Join(standards.Known(), ", "))
	}

	cmdImport := flag.NewFlagSet(actionImport, flag.ExitOnError)
	importLayout := cmdImport.String("layout", "beam", "column layout of headerless DAT files (beam, beam2, core)")
	importFromDB := cmdImport.Bool("from-db", false, "if set, then the import will be performed from the configured LIMS database")
	importFromDate := cmdImport.String("from-date", "", "start date (YYYY-MM-DD) of the LIMS import window")
	importToDate := cmdImport.String("to-date", "", "end date (YYYY-MM-DD) of the LIMS import window")
	cmdImport.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s [options] config.json [dir]\n",
			filepath.Base(os.Args[0]), actionImport)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		cmdImport.PrintDefaults()
	}

	cmdServer := flag.NewFlagSet(actionServer, flag.ExitOnError)
	cmdServer.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s [options] config.json\n",
			filepath.Base(os.Args[0]), actionServer)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		cmdServer.PrintDefaults()
	}

	cmdREPL := flag.NewFlagSet(actionREPL, flag.ExitOnError)
	cmdREPL.Usage = func() {
		cmdREPL.PrintDefaults()
	}

	cmdExport := flag.NewFlagSet(actionExport, flag.ExitOnError)
	exportCSV := cmdExport.String("csv", "", "if set, then indices and points are exported to the provided CSV file")
	exportXLSX := cmdExport.String("xlsx", "", "if set, then the run report is exported to the provided XLSX file")
	cmdExport.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s [options] config.json <snapshot.mpack|runID>\n",
			filepath.Base(os.Args[0]), actionExport)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		cmdExport.PrintDefaults()
	}

	cmdRuns := flag.NewFlagSet(actionRuns, flag.ExitOnError)
	runsStandard := cmdRuns.String("standard", "", "only list runs of the provided standard")
	runsFrom := cmdRuns.String("from", "", "only list runs created on or after the date (YYYY-MM-DD)")
	runsLimit := cmdRuns.Int("limit", 20, "max. number of listed runs")
	cmdRuns.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s [options] config.json\n",
			filepath.Base(os.Args[0]), actionRuns)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		cmdRuns.PrintDefaults()
	}

	action := actionHelp
	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	switch action {
	case actionHelp:
		var subj string
		if len(os.Args) > 2 {
			cmdHelp.Parse(os.Args[2:])
			subj = cmdHelp.Arg(0)
		}
		if subj == "" {
			topLevelUsage()
			return
		}
		switch subj {
		case actionEvaluate:
			cmdEvaluate.Usage()
		case actionImport:
			cmdImport.Usage()
		case actionServer:
			cmdServer.Usage()
		case actionREPL:
			cmdREPL.PrintDefaults()
		case actionExport:
			cmdExport.Usage()
		case actionRuns:
			cmdRuns.Usage()
		}
	case actionVersion:
		cmdVersion.Parse(os.Args[2:])
		runActionVersion(version)
	case actionEvaluate:
		cmdEvaluate.Parse(os.Args[2:])
		conf := setup(cmdEvaluate.Arg(0))
		var evalPaths []string
		if args := cmdEvaluate.Args(); len(args) > 2 {
			evalPaths = args[2:]
		}
		runActionEvaluate(
			conf,
			cmdEvaluate.Arg(1),
			evalPaths,
			evalOptions{
				layout:   *evalLayout,
				workers:  *evalWorkers,
				archive:  *evalArchive,
				snapshot: *evalSnapshot,
				csvPath:  *evalCSV,
				xlsxPath: *evalXLSX,
				geometry: inferSection(standards.Geometry{
					Width:    *evalWidth,
					Depth:    *evalDepth,
					Span:     *evalSpan,
					Diameter: *evalDiameter,
					Side:     *evalSide,
					Side2:    *evalSide2,
					Section:  standards.Section(*evalSection),
				}),
			},
		)
	case actionImport:
		cmdImport.Parse(os.Args[2:])
		conf := setup(cmdImport.Arg(0))
		runActionImport(conf, cmdImport.Arg(1), *importLayout, *importFromDB, *importFromDate, *importToDate)
	case actionServer:
		cmdServer.Parse(os.Args[2:])
		conf := setup(cmdServer.Arg(0))
		runActionServer(conf)
	case actionREPL:
		cmdREPL.Parse(os.Args[2:])
		conf := setup(cmdREPL.Arg(0))
		runActionREPL(conf)
	case actionExport:
		cmdExport.Parse(os.Args[2:])
		conf := setup(cmdExport.Arg(0))
		runActionExport(conf, cmdExport.Arg(1), *exportCSV, *exportXLSX)
	case actionRuns:
		cmdRuns.Parse(os.Args[2:])
		conf := setup(cmdRuns.Arg(0))
		runActionRuns(conf, *runsStandard, *runsFrom, *runsLimit)
	default:
		fmt.Fprintf(os.Stderr, "Unknown action, please use 'help' to get more information")
	}
}
