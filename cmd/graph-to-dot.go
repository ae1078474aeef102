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
	"fmt"
	"io"
	"log"
	"os"

	"github.com/exascience/elasm/graph"
)

// GraphToDotHelp is the help string for this command.
const GraphToDotHelp = "\nGraph-to-dot parameters:\n" +
	"elasm graph-to-dot gfa-file dot-file\n"

// GraphToDot implements the elasm graph-to-dot command.
func GraphToDot() error {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, GraphToDotHelp)
		os.Exit(1)
	}

	input := getFilename(os.Args[2], GraphToDotHelp)
	output := getFilename(os.Args[3], GraphToDotHelp)

	if !checkExist("", input) || !checkCreate("", output) {
		fmt.Fprint(os.Stderr, GraphToDotHelp)
		os.Exit(1)
	}

	log.Println("Executing command:\n", os.Args[0], "graph-to-dot", input, output)

	g, err := graph.LoadGFAFile(input, "")
	if err != nil {
		return err
	}
	log.Printf("%v segments, %v links, %v components\n", len(g.Segments), g.LinkCount(), len(g.Components()))
	return writeFile(output, func(w io.Writer) error {
		return g.WriteDot(w)
	})
}
