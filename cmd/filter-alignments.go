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

	"github.com/exascience/elasm/internal"
	"github.com/exascience/elasm/paf"
)

// FilterAlignmentsHelp is the help string for this command.
const FilterAlignmentsHelp = "\nFilter-alignments parameters:\n" +
	"elasm filter-alignments paf-file out-file\n" +
	"[--allowed-overlap nr]\n" +
	"[--minimiser-ratio ratio]\n" +
	"[--no-minimiser-filter]\n" +
	"[--no-overlap-filter]\n" +
	"[--reconcile nr]\n" +
	"[--verbosity level]\n" +
	"[--timed]\n" +
	"[--log-path path]\n"

// FilterAlignments implements the elasm filter-alignments command.
func FilterAlignments() error {
	var (
		allowedOverlap, reconcile, verbosity int
		minimiserRatio                       float64
		noMinimiserFilter, noOverlapFilter   bool
		timed                                bool
		logPath                              string
	)

	var flags flag.FlagSet

	flags.IntVar(&allowedOverlap, "allowed-overlap", paf.DefaultAllowedOverlap, "bases an alignment may overlap a better one")
	flags.Float64Var(&minimiserRatio, "minimiser-ratio", paf.DefaultMinimiserRatio, "maximum ratio between the best and a kept minimiser count")
	flags.BoolVar(&noMinimiserFilter, "no-minimiser-filter", false, "keep alignments with few minimisers")
	flags.BoolVar(&noOverlapFilter, "no-overlap-filter", false, "keep overlapping alignments")
	flags.IntVar(&reconcile, "reconcile", -1, "also remove conflicting alignments with the given allowed overlap")
	flags.IntVar(&verbosity, "verbosity", 1, "amount of progress output, from 0 to 3")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	parseFlags(&flags, 4, FilterAlignmentsHelp)

	input := getFilename(os.Args[2], FilterAlignmentsHelp)
	output := getFilename(os.Args[3], FilterAlignmentsHelp)

	if err := setLogOutput(logPath); err != nil {
		return err
	}

	// sanity checks

	sanityChecksFailed := !checkExist("", input) || !checkCreate("", output) || !checkVerbosity(verbosity)

	if allowedOverlap < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid allowed-overlap: ", allowedOverlap)
	}

	if minimiserRatio <= 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid minimiser-ratio: ", minimiserRatio)
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, FilterAlignmentsHelp)
		os.Exit(1)
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " filter-alignments ", input, " ", output)
	fmt.Fprint(&command, " --allowed-overlap ", allowedOverlap)
	fmt.Fprint(&command, " --minimiser-ratio ", minimiserRatio)
	if noMinimiserFilter {
		fmt.Fprint(&command, " --no-minimiser-filter")
	}
	if noOverlapFilter {
		fmt.Fprint(&command, " --no-overlap-filter")
	}
	if reconcile >= 0 {
		fmt.Fprint(&command, " --reconcile ", reconcile)
	}
	fmt.Fprint(&command, " --verbosity ", verbosity)
	if timed {
		fmt.Fprint(&command, " --timed")
	}
	fmt.Fprint(&command, " --log-path ", logPath)

	// executing command

	log.Println("Executing command:\n", command.String())

	fullInput, err := internal.FullPathname(input)
	if err != nil {
		return err
	}

	opts := paf.LoadOptions{
		FilterByMinimisers: !noMinimiserFilter,
		MinimiserRatio:     minimiserRatio,
		FilterOverlaps:     !noOverlapFilter,
		AllowedOverlap:     allowedOverlap,
	}
	logger := newLogger(verbosity)

	var groups paf.Groups
	if err := timedRun(timed, "", "Loading alignments.", 1, func() (err error) {
		var stats paf.Stats
		groups, stats, err = paf.LoadAlignmentsFile(fullInput, opts, logger)
		if err != nil {
			return err
		}
		logger.Log(fmt.Sprintf("Read %v lines, skipped %v malformed lines", stats.Lines, stats.Skipped), 2)
		logger.Log(fmt.Sprintf("Kept %v alignments for %v reads", stats.Kept, stats.Reads), 1)
		return nil
	}); err != nil {
		return err
	}

	if reconcile >= 0 {
		if err := timedRun(timed, "", "Removing conflicting alignments.", 2, func() error {
			groups.Reconcile(reconcile)
			logger.Log(fmt.Sprintf("Kept %v alignments after removing conflicts", groups.Count()), 1)
			return nil
		}); err != nil {
			return err
		}
	}

	return timedRun(timed, "", "Writing alignments.", 3, func() error {
		return writeFile(output, func(w io.Writer) error {
			return paf.WriteAlignments(w, groups)
		})
	})
}
