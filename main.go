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

// elasm combines long-read alignments with a segment/link assembly
// graph, compares assembled sequences under rotation and strand flips,
// and polishes graph segments with short reads.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/exascience/elasm/cmd"
)

func printHelp() {
	fmt.Fprintln(os.Stderr, "Available commands: filter-alignments, overlap-index, graph-to-fasta, graph-to-dot, polish, compare")
	fmt.Fprint(os.Stderr, "\n", cmd.FilterAlignmentsHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.OverlapIndexHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.GraphToFastaHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.GraphToDotHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.PolishHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.CompareHelp)
}

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if len(os.Args) < 2 {
		log.Println("Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, cmd.HelpMessage)
		printHelp()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "filter-alignments":
		err = cmd.FilterAlignments()
	case "overlap-index":
		err = cmd.OverlapIndex()
	case "graph-to-fasta":
		err = cmd.GraphToFasta()
	case "graph-to-dot":
		err = cmd.GraphToDot()
	case "polish":
		err = cmd.Polish()
	case "compare":
		err = cmd.Compare()
	case "help", "-help", "--help", "-h", "--h":
		printHelp()
	default:
		log.Println("Unknown command", os.Args[1])
		printHelp()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}
