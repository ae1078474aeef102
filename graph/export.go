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

package graph

import (
	"fmt"
	"io"
	"os"

	"github.com/awalterschulze/gographviz"

	"github.com/exascience/elasm/fasta"
	"github.com/exascience/elasm/utils"
)

// FastaRecords returns one record per segment in ascending number
// order, on the forward strand.
func (g *Graph) FastaRecords() []fasta.Record {
	numbers := g.SortedSegmentNumbers()
	records := make([]fasta.Record, 0, len(numbers))
	for _, number := range numbers {
		records = append(records, fasta.Record{
			Name: fmt.Sprint(number),
			Seq:  g.Segments[number].Forward(),
		})
	}
	return records
}

// SaveToFasta writes the segments as FASTA. A progress line is logged
// at the given verbosity level.
func (g *Graph) SaveToFasta(w io.Writer, logger utils.Logger, level int) error {
	if utils.Enabled(logger, level) {
		logger.Log(fmt.Sprintf("Saving %v segments (%v bp) to FASTA", len(g.Segments), g.TotalLength()), level)
	}
	return fasta.Write(w, g.FastaRecords())
}

// SaveToFastaFile writes the segments to a FASTA file.
func (g *Graph) SaveToFastaFile(filename string, logger utils.Logger, level int) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if nerr := f.Close(); err == nil {
			err = nerr
		}
	}()
	return g.SaveToFasta(f, logger, level)
}

func dotName(id SignedID) string {
	return `"` + id.String() + `"`
}

// Dot builds a Graphviz representation with one node per signed
// segment and one edge per forward link.
func (g *Graph) Dot() (*gographviz.Graph, error) {
	dot := gographviz.NewGraph()
	if err := dot.SetName("G"); err != nil {
		return nil, err
	}
	if err := dot.SetDir(true); err != nil {
		return nil, err
	}
	for _, number := range g.SortedSegmentNumbers() {
		segment := g.Segments[number]
		for _, strand := range []Strand{Forward, Reverse} {
			id := SignedID{ID: number, Strand: strand}
			attrs := map[string]string{
				"label": fmt.Sprintf(`"%v\n%v bp %.2fx"`, id, segment.Length(), segment.Depth),
			}
			if err := dot.AddNode("G", dotName(id), attrs); err != nil {
				return nil, err
			}
		}
	}
	for _, number := range g.SortedSegmentNumbers() {
		for _, strand := range []Strand{Forward, Reverse} {
			from := SignedID{ID: number, Strand: strand}
			for _, to := range g.ForwardLinks[from] {
				if err := dot.AddEdge(dotName(from), dotName(to), true, nil); err != nil {
					return nil, err
				}
			}
		}
	}
	return dot, nil
}

// WriteDot writes the graph in Graphviz DOT format.
func (g *Graph) WriteDot(w io.Writer) error {
	dot, err := g.Dot()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, dot.String())
	return err
}
