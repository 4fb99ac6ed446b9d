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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"github.com/Isthali/processingdata/cnf"
	"github.com/Isthali/processingdata/dataimport"
	"github.com/Isthali/processingdata/rawstore"
	"github.com/Isthali/processingdata/report"
	"github.com/Isthali/processingdata/standards"
)

func ensureConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(homeDir, ".config", "processingdata")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}

func parseGeometry(args []string) (standards.Geometry, error) {
	if len(args) == 0 {
		return standards.Geometry{}, fmt.Errorf("usage: set geometry <beam|circular|square|rectangular> <dims...>")
	}
	dims := make([]float64, len(args)-1)
	for i, raw := range args[1:] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return standards.Geometry{}, fmt.Errorf("invalid dimension %s", raw)
		}
		dims[i] = v
	}
	switch args[0] {
	case "beam":
		if len(dims) != 3 {
			return standards.Geometry{}, fmt.Errorf("usage: set geometry beam <width> <depth> <span>")
		}
		return standards.Geometry{Width: dims[0], Depth: dims[1], Span: dims[2]}, nil
	case "circular":
		if len(dims) != 1 {
			return standards.Geometry{}, fmt.Errorf("usage: set geometry circular <diameter>")
		}
		return standards.Geometry{Diameter: dims[0], Section: standards.SectionCircular}, nil
	case "square":
		if len(dims) != 1 {
			return standards.Geometry{}, fmt.Errorf("usage: set geometry square <side>")
		}
		return standards.Geometry{Side: dims[0], Section: standards.SectionSquare}, nil
	case "rectangular":
		if len(dims) != 2 {
			return standards.Geometry{}, fmt.Errorf("usage: set geometry rectangular <side> <side2>")
		}
		return standards.Geometry{Side: dims[0], Side2: dims[1], Section: standards.SectionRectangular}, nil
	}
	return standards.Geometry{}, fmt.Errorf("unknown geometry shape %s", args[0])
}

func formatGeometry(geom standards.Geometry) string {
	switch geom.Section {
	case standards.SectionCircular:
		return fmt.Sprintf("circular, diameter %g mm", geom.Diameter)
	case standards.SectionSquare:
		return fmt.Sprintf("square, side %g mm", geom.Side)
	case standards.SectionRectangular:
		return fmt.Sprintf("rectangular, %g x %g mm", geom.Side, geom.Side2)
	}
	return fmt.Sprintf("beam %g x %g mm, span %g mm", geom.Width, geom.Depth, geom.Span)
}

func runActionREPL(conf *cnf.Conf) {
	titleColor := color.New(color.FgHiMagenta).SprintFunc()
	redColor := color.New(color.FgRed).SprintFunc()

	// Defaults match the notched EN 14651 beam (can be overridden with
	// 'set standard' and 'set geometry')
	standard := standards.StdEN14651
	layoutName := "beam"
	axis := ""
	geom := standards.Geometry{Width: 150, Depth: 125, Span: 500}

	fmt.Println("Characteristic Point Evaluation Shell")
	fmt.Println("Commands:")
	fmt.Println("  <file path>              - Import the file and evaluate it against the current standard")
	fmt.Println("  store list               - List the specimens available in the raw store")
	fmt.Println("  store <specimenID>       - Evaluate a stored specimen against the current standard")
	fmt.Println("  set standard <ident>     - Set the evaluated standard (e.g. 'set standard EN14651')")
	fmt.Println("  set layout <name>        - Set the DAT column layout (beam, beam2, core)")
	fmt.Println("  set axis <name>          - Override the evaluation axis (no argument = standard's axis)")
	fmt.Println("  set geometry <values...> - Set specimen dimensions in mm:")
	fmt.Println("                             'set geometry beam <width> <depth> <span>'")
	fmt.Println("                             'set geometry circular <diameter>'")
	fmt.Println("                             'set geometry square <side>'")
	fmt.Println("                             'set geometry rectangular <side> <side2>'")
	fmt.Println("  setup                    - view current settings")
	fmt.Println("  exit                     - Exit the shell")
	fmt.Printf("\nSupported standards: %s\n\n", strings.Join(standards.Known(), ", "))

	var historyFile string
	historyDir, err := ensureConfigDir()
	if err != nil {
		log.Error().Err(err).Msg("failed to determine user config directory - falling back to session-local history")

	} else {
		historyFile = filepath.Join(historyDir, "repl-history.txt")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      color.New(color.FgHiGreen).Sprintf("/eval> "),
		HistoryFile: historyFile,
	})
	if err != nil {
		fmt.Printf("Error initializing readline: %v\n", err)
		os.Exit(exitErrorREPLReading)
	}
	defer rl.Close()

	// The raw store is opened on first use, its directory lock would
	// otherwise block a concurrently running import action.
	var store *rawstore.DB
	defer func() {
		store.Close()
	}()
	openStore := func() *rawstore.DB {
		if store == nil {
			db, err := rawstore.OpenDB(conf.RawStorePath)
			if err != nil {
				fmt.Println(redColor(err))
				return nil
			}
			store = db
		}
		return store
	}

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nHasta luego!")
				break
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if input == "exit" {
			fmt.Println("Goodbye!")
			break
		}

		if strings.HasPrefix(input, "set ") {
			parsedInput := strings.Fields(input)[1:]
			switch parsedInput[0] {
			case "standard":
				if len(parsedInput) == 2 {
					if _, err := standards.GetCalculator(parsedInput[1]); err != nil {
						fmt.Println(redColor(err))

					} else {
						standard = parsedInput[1]
					}

				} else {
					fmt.Println("Usage: set standard <ident>")
				}
			case "layout":
				if len(parsedInput) == 2 {
					if _, err := layoutByName(parsedInput[1]); err != nil {
						fmt.Println(redColor(err))

					} else {
						layoutName = parsedInput[1]
					}

				} else {
					fmt.Println("Usage: set layout <beam|beam2|core>")
				}
			case "axis":
				if len(parsedInput) == 2 {
					axis = parsedInput[1]

				} else if len(parsedInput) == 1 {
					axis = ""

				} else {
					fmt.Println("Usage: set axis <name>")
				}
			case "geometry":
				newGeom, err := parseGeometry(parsedInput[1:])
				if err != nil {
					fmt.Println(redColor(err))

				} else {
					geom = newGeom
				}
			default:
				fmt.Println("Unknown 'set' command")
			}
			continue

		} else if input == "store list" {
			s := openStore()
			if s == nil {
				continue
			}
			ids, err := s.ListSpecimens()
			if err != nil {
				fmt.Println(redColor(err))
				continue
			}
			if len(ids) == 0 {
				fmt.Println("The raw store is empty - run the import action first")
				continue
			}
			for _, id := range ids {
				stamp, err := s.ReadImportTime(id)
				if err != nil {
					fmt.Printf("  %s\n", id)
					continue
				}
				fmt.Printf("  %s (imported %s)\n", id, stamp.Format("2006-01-02 15:04"))
			}
			continue

		} else if strings.HasPrefix(input, "store ") {
			s := openStore()
			if s == nil {
				continue
			}
			specimenID := strings.TrimSpace(strings.TrimPrefix(input, "store "))
			table, err := s.LoadTable(specimenID)
			if err != nil {
				fmt.Println(redColor(err))
				continue
			}
			evaluateSpecimen(specimenID, table, standard, axis, geom)
			continue

		} else if input == "setup" {
			model, err := report.NewModel(standard, report.Options{})
			if err != nil {
				fmt.Println(redColor(err))
				continue
			}
			evalAxis := axis
			if evalAxis == "" {
				evalAxis = model.Calculator().Axis()
			}
			fmt.Printf("%s:\t%s\n", titleColor("Standard"), standard)
			fmt.Printf("%s:\t%s\n", titleColor("Layout"), layoutName)
			fmt.Printf("%s:\t\t%s\n", titleColor("Axis"), evalAxis)
			fmt.Printf("%s:\t%s\n", titleColor("Geometry"), formatGeometry(geom))
			continue
		}

		// Treat as a specimen file path
		layout, err := layoutByName(layoutName)
		if err != nil {
			fmt.Println(redColor(err))
			continue
		}
		table, err := dataimport.Read(input, layout)
		if err != nil {
			fmt.Printf("Error reading file: %v\n", err)
			continue
		}
		name := filepath.Base(input)
		evaluateSpecimen(
			strings.TrimSuffix(name, filepath.Ext(name)), table, standard, axis, geom)
	}
}

// evaluateSpecimen runs one raw table through the current shell settings
// and pretty-prints the resolved points and indices.
func evaluateSpecimen(
	specimenID string,
	table *dataimport.Table,
	standard string,
	axis string,
	geom standards.Geometry,
) {
	titleColor := color.New(color.FgHiMagenta).SprintFunc()
	greenColor := color.New(color.FgGreen).SprintFunc()
	redColor := color.New(color.FgRed).SprintFunc()

	model, err := report.NewModel(standard, report.Options{})
	if err != nil {
		fmt.Println(redColor(err))
		return
	}
	evalAxis := axis
	if evalAxis == "" {
		evalAxis = model.Calculator().Axis()
	}
	crv, err := dataimport.ToCurve(
		table, evalAxis, dataimport.PolicyFor(standard), auxColumns(table, evalAxis)...)
	if err != nil {
		fmt.Printf("Error building curve: %v\n", err)
		return
	}
	ans, err := model.Evaluate(report.SpecimenData{
		Specimen: standards.Specimen{ID: specimenID, Geometry: geom},
		Curve:    crv,
	})
	if err != nil {
		fmt.Println(redColor(fmt.Sprintf("Evaluation failed: %v", err)))
		return
	}

	// Display results

	peak := crv.MaxLoad()
	fmt.Printf("%s: %d samples, peak %.2f kN at %.3f mm\n",
		titleColor("Curve"), crv.Len(), peak.Y, peak.X)
	if len(ans.Points) > 0 {
		fmt.Printf("%s:\n", titleColor("Points"))
		for _, pt := range ans.Points {
			fmt.Printf("  %s: load=%.3f kN, stress=%.3f MPa, toughness=%.3f, method=%s\n",
				titleColor(fmt.Sprintf("[%g]", pt.Target)),
				pt.Load, pt.Stress, pt.Toughness, pt.Method)
		}
	}
	fmt.Printf("%s:\n", titleColor("Indices"))
	for _, item := range ans.Items {
		fmt.Printf("  %s = %.4f %s\n", item.Name, item.Value, item.Unit)
	}
	if ans.Verdict != "" {
		var verdict string
		if ans.Verdict == standards.VerdictCompliant {
			verdict = greenColor(ans.Verdict)

		} else {
			verdict = redColor(ans.Verdict)
		}
		fmt.Printf("%s: %s\n", titleColor("Verdict"), verdict)
	}
}
