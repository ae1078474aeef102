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
	"log"
	"os"

	"github.com/exascience/elasm/graph"
)

// GraphToFastaHelp is the help string for this command.
const GraphToFastaHelp = "\nGraph-to-fasta parameters:\n" +
	"elasm graph-to-fasta gfa-file fasta-file\n" +
	"[--verbosity level]\n" +
	"[--log-path path]\n"

// GraphToFasta implements the elasm graph-to-fasta command.
func GraphToFasta() error {
	var (
		verbosity int
		logPath   string
	)

	var flags flag.FlagSet

	flags.IntVar(&verbosity, "verbosity", 1, "amount of progress output, from 0 to 3")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	parseFlags(&flags, 4, GraphToFastaHelp)

	input := getFilename(os.Args[2], GraphToFastaHelp)
	output := getFilename(os.Args[3], GraphToFastaHelp)

	if err := setLogOutput(logPath); err != nil {
		return err
	}

	if !checkExist("", input) || !checkCreate("", output) || !checkVerbosity(verbosity) {
		fmt.Fprint(os.Stderr, GraphToFastaHelp)
		os.Exit(1)
	}

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " graph-to-fasta ", input, " ", output)
	fmt.Fprint(&command, " --verbosity ", verbosity)
	fmt.Fprint(&command, " --log-path ", logPath)

	log.Println("Executing command:\n", command.String())

	g, err := graph.LoadGFAFile(input, "")
	if err != nil {
		return err
	}
	return g.SaveToFastaFile(output, newLogger(verbosity), 1)
}
