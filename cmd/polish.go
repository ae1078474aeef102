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
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/exascience/elasm/graph"
	"github.com/exascience/elasm/internal"
	"github.com/exascience/elasm/polish"
)

// PolishHelp is the help string for this command.
const PolishHelp = "\nPolish parameters:\n" +
	"elasm polish gfa-file out-gfa-file\n" +
	"--short1 fastq-file\n" +
	"--short2 fastq-file\n" +
	"[--polish-dir path]\n" +
	"[--min-polish-size nr]\n" +
	"[--threads nr]\n" +
	"[--bowtie2 path]\n" +
	"[--bowtie2-build path]\n" +
	"[--samtools path]\n" +
	"[--pilon path]\n" +
	"[--java path]\n" +
	"[--verbosity level]\n" +
	"[--timed]\n" +
	"[--log-path path]\n"

// Polish implements the elasm polish command.
func Polish() error {
	opts := polish.DefaultOptions()
	var (
		verbosity int
		timed     bool
		logPath   string
	)

	var flags flag.FlagSet

	flags.StringVar(&opts.Short1, "short1", "", "first file of the short read pairs")
	flags.StringVar(&opts.Short2, "short2", "", "second file of the short read pairs")
	flags.StringVar(&opts.Dir, "polish-dir", "", "directory for intermediate files")
	flags.IntVar(&opts.MinPolishSize, "min-polish-size", polish.DefaultMinPolishSize, "minimum length of a polished segment")
	flags.IntVar(&opts.Threads, "threads", runtime.NumCPU(), "number of threads for the external tools")
	flags.StringVar(&opts.Bowtie2, "bowtie2", opts.Bowtie2, "path to bowtie2")
	flags.StringVar(&opts.Bowtie2Build, "bowtie2-build", opts.Bowtie2Build, "path to bowtie2-build")
	flags.StringVar(&opts.Samtools, "samtools", opts.Samtools, "path to samtools")
	flags.StringVar(&opts.Pilon, "pilon", opts.Pilon, "path to pilon or pilon.jar")
	flags.StringVar(&opts.Java, "java", opts.Java, "path to java, used for pilon.jar")
	flags.IntVar(&verbosity, "verbosity", 1, "amount of progress output, from 0 to 3")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	parseFlags(&flags, 4, PolishHelp)

	input := getFilename(os.Args[2], PolishHelp)
	output := getFilename(os.Args[3], PolishHelp)

	if err := setLogOutput(logPath); err != nil {
		return err
	}

	// sanity checks

	sanityChecksFailed := !checkExist("", input) || !checkCreate("", output) || !checkVerbosity(verbosity)

	if !checkExist("--short1", opts.Short1) || !checkExist("--short2", opts.Short2) {
		sanityChecksFailed = true
	}

	if opts.Threads < 1 {
		sanityChecksFailed = true
		log.Println("Error: Invalid threads: ", opts.Threads)
	}

	if opts.MinPolishSize < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid min-polish-size: ", opts.MinPolishSize)
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, PolishHelp)
		os.Exit(1)
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " polish ", input, " ", output)
	fmt.Fprint(&command, " --short1 ", opts.Short1, " --short2 ", opts.Short2)
	if opts.Dir != "" {
		fmt.Fprint(&command, " --polish-dir ", opts.Dir)
	}
	fmt.Fprint(&command, " --min-polish-size ", opts.MinPolishSize)
	fmt.Fprint(&command, " --threads ", opts.Threads)
	fmt.Fprint(&command, " --bowtie2 ", opts.Bowtie2, " --bowtie2-build ", opts.Bowtie2Build)
	fmt.Fprint(&command, " --samtools ", opts.Samtools, " --pilon ", opts.Pilon, " --java ", opts.Java)
	fmt.Fprint(&command, " --verbosity ", verbosity)
	if timed {
		fmt.Fprint(&command, " --timed")
	}
	fmt.Fprint(&command, " --log-path ", logPath)

	// executing command

	log.Println("Executing command:\n", command.String())

	var err error
	for _, file := range []*string{&opts.Short1, &opts.Short2} {
		if *file, err = internal.FullPathname(*file); err != nil {
			return err
		}
	}
	if opts.Dir == "" {
		if opts.Dir, err = polish.NewWorkDir(filepath.Dir(output)); err != nil {
			return err
		}
	} else if err = os.MkdirAll(opts.Dir, 0700); err != nil {
		return err
	}
	if opts.Dir, err = internal.FullPathname(opts.Dir); err != nil {
		return err
	}

	g, err := graph.LoadGFAFile(input, "")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger(verbosity)
	if err := timedRun(timed, "", "Polishing.", 1, func() error {
		report, err := polish.Polish(ctx, g, opts, polish.ExecRunner{Dir: opts.Dir}, logger)
		var cannot *polish.CannotPolish
		if errors.As(err, &cannot) {
			log.Println("Unable to polish assembly:", cannot.Message)
			return nil
		}
		if err != nil {
			return err
		}
		log.Printf("Polished %v segments, %v changes, %v segments changed\n", report.Segments, report.TotalChanges, report.ChangedSegments)
		return nil
	}); err != nil {
		return err
	}

	return g.SaveGFAFile(output)
}
