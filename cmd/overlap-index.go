// elasm: long-read alignment filtering and assembly graph tools.
// Copyright (c) 2017-2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elasm/blob/master/LICENSE.txt>.

package cmd

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/exascience/elasm/paf"
)

// OverlapIndexHelp is the help string for this command.
const OverlapIndexHelp = "\nOverlap-index parameters:\n" +
	"elasm overlap-index paf-file out-file\n" +
	"[--margin nr]\n" +
	"[--allowed-overlap nr]\n" +
	"[--minimiser-ratio ratio]\n" +
	"[--verbosity level]\n" +
	"[--log-path path]\n"

// OverlapIndex implements the elasm overlap-index command.
func OverlapIndex() error {
	var (
		margin, allowedOverlap, verbosity int
		minimiserRatio                    float64
		logPath                           string
	)

	var flags flag.FlagSet

	flags.IntVar(&margin, "margin", paf.DefaultMinOverlapAmount, "bases a read must extend past a segment end")
	flags.IntVar(&allowedOverlap, "allowed-overlap", paf.DefaultAllowedOverlap, "bases an alignment may overlap a better one")
	flags.Float64Var(&minimiserRatio, "minimiser-ratio", paf.DefaultMinimiserRatio, "maximum ratio between the best and a kept minimiser count")
	flags.IntVar(&verbosity, "verbosity", 1, "amount of progress output, from 0 to 3")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	parseFlags(&flags, 4, OverlapIndexHelp)

	input := getFilename(os.Args[2], OverlapIndexHelp)
	output := getFilename(os.Args[3], OverlapIndexHelp)

	if err := setLogOutput(logPath); err != nil {
		return err
	}

	// sanity checks

	sanityChecksFailed := !checkExist("", input) || !checkCreate("", output) || !checkVerbosity(verbosity)

	if margin < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid margin: ", margin)
	}

	if allowedOverlap < 0 || minimiserRatio <= 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid filter settings: ", allowedOverlap, minimiserRatio)
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, OverlapIndexHelp)
		os.Exit(1)
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " overlap-index ", input, " ", output)
	fmt.Fprint(&command, " --margin ", margin)
	fmt.Fprint(&command, " --allowed-overlap ", allowedOverlap)
	fmt.Fprint(&command, " --minimiser-ratio ", minimiserRatio)
	fmt.Fprint(&command, " --verbosity ", verbosity)
	fmt.Fprint(&command, " --log-path ", logPath)

	// executing command

	log.Println("Executing command:\n", command.String())

	opts := paf.DefaultLoadOptions()
	opts.AllowedOverlap = allowedOverlap
	opts.MinimiserRatio = minimiserRatio
	logger := newLogger(verbosity)

	logger.Log("Loading alignments", 1)
	groups, stats, err := paf.LoadAlignmentsFile(input, opts, logger)
	if err != nil {
		return err
	}
	logger.Log(fmt.Sprintf("Kept %v alignments for %v reads, skipped %v malformed lines", stats.Kept, stats.Reads, stats.Skipped), 2)

	index, err := paf.BuildOverlapIndex(groups, margin)
	if err != nil {
		return err
	}
	if index.Skipped > 0 {
		logger.Log(fmt.Sprintf("Skipped %v alignments to references that are not segment numbers", index.Skipped), 1)
	}
	logger.Log(fmt.Sprintf("%v signed segments with start overlaps, %v with end overlaps", len(index.StartOverlaps), len(index.EndOverlaps)), 2)

	return writeFile(output, func(w io.Writer) error {
		_, err := index.WriteTo(w)
		return err
	})
}
