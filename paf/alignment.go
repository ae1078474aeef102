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

// Package paf loads long-read alignments in the Pairwise mApping
// Format, filters them per read, and indexes which reads hang over
// the ends of graph segments.
package paf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/exascience/elasm/graph"
	"github.com/exascience/elasm/intervals"
)

// ErrMalformedLine is wrapped by every error ParseAlignment returns.
var ErrMalformedLine = errors.New("malformed PAF line")

// An Alignment is one PAF record. Coordinates are 0-based and
// half-open on both the read and the reference.
type Alignment struct {
	Line           string
	ReadName       string
	ReadLength     int
	ReadStart      int
	ReadEnd        int
	ReadStrand     graph.Strand
	RefName        string
	RefLength      int
	RefStart       int
	RefEnd         int
	MatchingBases  int
	NumBases       int
	MinimiserCount int

	// ReadEndGap is the number of read bases after ReadEnd.
	ReadEndGap int
}

// NiceHeader shortens an assembler contig header to the segment
// name: "NODE_12_length_..." and "EDGE_12_length_..." become "12",
// and any other header is cut at the first whitespace.
func NiceHeader(header string) string {
	if strings.HasPrefix(header, "NODE_") || strings.HasPrefix(header, "EDGE_") {
		parts := strings.SplitN(header, "_", 3)
		if len(parts) >= 2 && parts[1] != "" {
			return parts[1]
		}
	}
	if fields := strings.Fields(header); len(fields) > 0 {
		return fields[0]
	}
	return header
}

func validRange(start, end, length int) bool {
	return 0 <= start && start <= end && end <= length
}

func malformed(line string, cause interface{}) error {
	return fmt.Errorf("%w (%v): %v", ErrMalformedLine, cause, line)
}

// ParseAlignment parses one PAF line. The thirteenth field holds the
// minimiser count as the integer after its last colon, as in cm:i:42.
func ParseAlignment(line string) (*Alignment, error) {
	line = strings.TrimRight(line, "\r\n")
	var sc StringScanner
	sc.Reset(line)
	aln := &Alignment{Line: line}
	aln.ReadName = sc.doString()
	aln.ReadLength = sc.doInt()
	aln.ReadStart = sc.doInt()
	aln.ReadEnd = sc.doInt()
	strand := sc.doString()
	aln.RefName = NiceHeader(sc.doString())
	aln.RefLength = sc.doInt()
	aln.RefStart = sc.doInt()
	aln.RefEnd = sc.doInt()
	aln.MatchingBases = sc.doInt()
	aln.NumBases = sc.doInt()
	_ = sc.doString() // mapping quality
	tag := sc.doString()
	if err := sc.Err(); err != nil {
		return nil, malformed(line, err)
	}
	var err error
	if aln.ReadStrand, err = graph.ParseStrand(strand); err != nil {
		return nil, malformed(line, err)
	}
	if aln.MinimiserCount, err = strconv.Atoi(tag[strings.LastIndexByte(tag, ':')+1:]); err != nil {
		return nil, malformed(line, err)
	}
	if !validRange(aln.ReadStart, aln.ReadEnd, aln.ReadLength) {
		return nil, malformed(line, "read coordinates out of range")
	}
	if !validRange(aln.RefStart, aln.RefEnd, aln.RefLength) {
		return nil, malformed(line, "reference coordinates out of range")
	}
	aln.ReadEndGap = aln.ReadLength - aln.ReadEnd
	return aln, nil
}

// OverlapsReference determines whether the read, extended over its
// unaligned ends, reaches past either end of the reference.
func (aln *Alignment) OverlapsReference() bool {
	return aln.RefStart-aln.ReadStart < 0 || aln.RefEnd+aln.ReadEndGap >= aln.RefLength
}

// FractionRefAligned returns the fraction of the reference covered by
// the alignment, or 0 for an empty reference.
func (aln *Alignment) FractionRefAligned() float64 {
	if aln.RefLength == 0 {
		return 0
	}
	return float64(aln.RefEnd-aln.RefStart) / float64(aln.RefLength)
}

// SignedRefName prefixes the reference name with "-" for reverse
// strand alignments.
func (aln *Alignment) SignedRefName() string {
	if aln.ReadStrand == graph.Reverse {
		return "-" + aln.RefName
	}
	return aln.RefName
}

// SegmentID interprets the reference name as a graph segment number
// on the alignment strand.
func (aln *Alignment) SegmentID() (graph.SignedID, error) {
	n, err := strconv.ParseUint(aln.RefName, 10, 32)
	if err != nil || n == 0 {
		return graph.SignedID{}, fmt.Errorf("reference %q is not a segment number", aln.RefName)
	}
	return graph.SignedID{ID: uint32(n), Strand: aln.ReadStrand}, nil
}

// ReadInterval returns the aligned part of the read.
func (aln *Alignment) ReadInterval() intervals.Interval {
	return intervals.Interval{Start: aln.ReadStart, End: aln.ReadEnd}
}

func (aln *Alignment) String() string {
	return fmt.Sprintf("%v-%v(%v):%v:%v-%v(%v/%v,%v)",
		aln.ReadStart, aln.ReadEnd, aln.ReadStrand.Sign(), aln.RefName,
		aln.RefStart, aln.RefEnd, aln.MatchingBases, aln.NumBases, aln.MinimiserCount)
}

// ConciseString returns the read range, strand, reference and
// reference range separated by commas.
func (aln *Alignment) ConciseString() string {
	return fmt.Sprintf("%v,%v,%v,%v,%v,%v",
		aln.ReadStart, aln.ReadEnd, aln.ReadStrand.Sign(), aln.RefName, aln.RefStart, aln.RefEnd)
}
