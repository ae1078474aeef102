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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/exascience/elasm/utils"
)

func parseOverlap(cigar string) (int, error) {
	if cigar == "" || cigar == "*" {
		return 0, nil
	}
	if !strings.HasSuffix(cigar, "M") {
		return 0, fmt.Errorf("unsupported link overlap %v", cigar)
	}
	return strconv.Atoi(cigar[:len(cigar)-1])
}

func parseSegmentNumber(name string) (uint32, error) {
	n, err := strconv.ParseUint(name, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("segment name %q is not a positive integer", name)
	}
	return uint32(n), nil
}

func parseSegmentLine(fields []string) (*Segment, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("segment line with %v fields", len(fields))
	}
	number, err := parseSegmentNumber(fields[1])
	if err != nil {
		return nil, err
	}
	seq := fields[2]
	if seq == "*" {
		return nil, fmt.Errorf("segment %v has no sequence", number)
	}
	depth := 1.0
	for _, tag := range fields[3:] {
		switch {
		case strings.HasPrefix(tag, "dp:f:"), strings.HasPrefix(tag, "DP:f:"):
			if depth, err = strconv.ParseFloat(tag[5:], 64); err != nil {
				return nil, fmt.Errorf("%v, while parsing depth of segment %v", err, number)
			}
		case strings.HasPrefix(tag, "KC:i:"):
			count, err := strconv.ParseInt(tag[5:], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%v, while parsing k-mer count of segment %v", err, number)
			}
			if len(seq) > 0 {
				depth = float64(count) / float64(len(seq))
			}
		}
	}
	if depth < 0 {
		return nil, fmt.Errorf("segment %v has negative depth %v", number, depth)
	}
	return NewSegment(number, seq, depth), nil
}

func parseLinkLine(fields []string) (from, to SignedID, overlap int, err error) {
	if len(fields) < 5 {
		return from, to, 0, fmt.Errorf("link line with %v fields", len(fields))
	}
	if from.ID, err = parseSegmentNumber(fields[1]); err != nil {
		return
	}
	if from.Strand, err = ParseStrand(fields[2]); err != nil {
		return
	}
	if to.ID, err = parseSegmentNumber(fields[3]); err != nil {
		return
	}
	if to.Strand, err = ParseStrand(fields[4]); err != nil {
		return
	}
	if len(fields) > 5 {
		overlap, err = parseOverlap(fields[5])
	}
	return
}

// LoadGFA parses a GFA 1 graph. Segment names must be positive
// integers. Links are closed under strand complement while loading,
// and all link overlaps must be equal. Header, path and unknown
// records are skipped. pathsFile is stored as is.
func LoadGFA(r io.Reader, pathsFile string) (*Graph, error) {
	input, err := utils.HandleGzip(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	reader := bufio.NewReader(input)
	g := New()
	g.PathsFile = pathsFile
	overlapSeen := false
	for lineNumber := 1; ; lineNumber++ {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		atEOF := err == io.EOF
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			fields := strings.Split(line, "\t")
			switch fields[0] {
			case "S":
				segment, err := parseSegmentLine(fields)
				if err != nil {
					return nil, fmt.Errorf("%v, in GFA line %v", err, lineNumber)
				}
				if err := g.AddSegment(segment); err != nil {
					return nil, fmt.Errorf("%w, in GFA line %v", err, lineNumber)
				}
			case "L":
				from, to, overlap, err := parseLinkLine(fields)
				if err != nil {
					return nil, fmt.Errorf("%v, in GFA line %v", err, lineNumber)
				}
				if overlapSeen && overlap != g.Overlap {
					return nil, fmt.Errorf("inconsistent link overlap %v, in GFA line %v", overlap, lineNumber)
				}
				g.Overlap, overlapSeen = overlap, true
				g.AddLink(from, to)
			}
		}
		if atEOF {
			break
		}
	}
	if err := g.CheckLinks(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadGFAFile loads a GFA graph from a file.
func LoadGFAFile(filename, pathsFile string) (g *Graph, err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer func() {
		if nerr := f.Close(); err == nil {
			err = nerr
		}
	}()
	return LoadGFA(f, pathsFile)
}

// canonicalLinks returns each pair of complementary links once, in a
// deterministic order.
func (g *Graph) canonicalLinks() (links [][2]SignedID) {
	seen := make(map[[2]SignedID]bool)
	for _, number := range g.SortedSegmentNumbers() {
		for _, strand := range []Strand{Forward, Reverse} {
			from := SignedID{ID: number, Strand: strand}
			for _, to := range g.ForwardLinks[from] {
				link := [2]SignedID{from, to}
				if seen[link] {
					continue
				}
				seen[link] = true
				seen[[2]SignedID{to.Flip(), from.Flip()}] = true
				links = append(links, link)
			}
		}
	}
	return links
}

// SaveGFA writes the graph in GFA 1 format.
func (g *Graph) SaveGFA(w io.Writer) error {
	out := bufio.NewWriter(w)
	if _, err := out.WriteString("H\tVN:Z:1.0\n"); err != nil {
		return err
	}
	for _, number := range g.SortedSegmentNumbers() {
		segment := g.Segments[number]
		var buf []byte
		buf = append(buf, "S\t"...)
		buf = strconv.AppendUint(buf, uint64(number), 10)
		buf = append(buf, '\t')
		buf = append(buf, segment.Forward()...)
		buf = append(buf, "\tLN:i:"...)
		buf = strconv.AppendInt(buf, int64(segment.Length()), 10)
		buf = append(buf, "\tdp:f:"...)
		buf = strconv.AppendFloat(buf, segment.Depth, 'f', -1, 64)
		buf = append(buf, '\n')
		if _, err := out.Write(buf); err != nil {
			return err
		}
	}
	for _, link := range g.canonicalLinks() {
		from, to := link[0], link[1]
		if _, err := fmt.Fprintf(out, "L\t%v\t%v\t%v\t%v\t%vM\n",
			from.ID, from.Strand.Sign(), to.ID, to.Strand.Sign(), g.Overlap); err != nil {
			return err
		}
	}
	return out.Flush()
}

// SaveGFAFile writes the graph to a GFA file.
func (g *Graph) SaveGFAFile(filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if nerr := f.Close(); err == nil {
			err = nerr
		}
	}()
	return g.SaveGFA(f)
}
