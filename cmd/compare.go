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
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/exascience/elasm/fasta"
	"github.com/exascience/elasm/sequence"
)

// CompareHelp is the help string for this command.
const CompareHelp = "\nCompare parameters:\n" +
	"elasm compare fasta-file fasta-file\n"

// Relation names how two sequences relate.
func Relation(a, b string) string {
	switch {
	case a == b:
		return "identical"
	case sequence.MatchesEitherStrand(a, b):
		return "reverse-complement"
	case sequence.MatchesAnyRotation(a, b):
		return "rotation"
	default:
		return "different"
	}
}

// Compare implements the elasm compare command. It pairs up records
// by position and reports how each pair relates.
func Compare() error {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, CompareHelp)
		os.Exit(1)
	}

	first := getFilename(os.Args[2], CompareHelp)
	second := getFilename(os.Args[3], CompareHelp)

	if !checkExist("", first) || !checkExist("", second) {
		fmt.Fprint(os.Stderr, CompareHelp)
		os.Exit(1)
	}

	a, err := fasta.ReadFile(first)
	if err != nil {
		return err
	}
	b, err := fasta.ReadFile(second)
	if err != nil {
		return err
	}
	if len(a) != len(b) {
		log.Printf("Warning: %v has %v records, %v has %v records.\n", first, len(a), second, len(b))
	}

	out := bufio.NewWriter(os.Stdout)
	different := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		relation := Relation(a[i].Seq, b[i].Seq)
		if relation == "different" {
			different++
		}
		fmt.Fprintf(out, "%v\t%v\t%v\n", a[i].Name, b[i].Name, relation)
	}
	if err := out.Flush(); err != nil {
		return err
	}
	if different > 0 || len(a) != len(b) {
		return fmt.Errorf("%v of %v record pairs differ", different+abs(len(a)-len(b)), max(len(a), len(b)))
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
