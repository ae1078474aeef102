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

import "github.com/exascience/elasm/sequence"

// A Segment is a contiguous piece of assembled sequence. Both strands
// are stored, and SetSequence is the only way to change them, so they
// always stay each other's reverse complement.
type Segment struct {
	Number  uint32
	Depth   float64
	forward string
	reverse string
}

// NewSegment creates a segment with the given forward sequence.
func NewSegment(number uint32, seq string, depth float64) *Segment {
	segment := &Segment{Number: number, Depth: depth}
	segment.SetSequence(seq)
	return segment
}

// SetSequence replaces the forward sequence and regenerates the
// reverse complement.
func (segment *Segment) SetSequence(seq string) {
	segment.forward = seq
	segment.reverse = sequence.ReverseComplement(seq)
}

// Forward returns the forward strand sequence.
func (segment *Segment) Forward() string {
	return segment.forward
}

// Reverse returns the reverse complement sequence.
func (segment *Segment) Reverse() string {
	return segment.reverse
}

// Sequence returns the sequence on the given strand.
func (segment *Segment) Sequence(strand Strand) string {
	if strand == Reverse {
		return segment.reverse
	}
	return segment.forward
}

// Length returns the length of the segment sequence.
func (segment *Segment) Length() int {
	return len(segment.forward)
}
