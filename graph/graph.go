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
	"errors"
	"fmt"
	"sort"

	"github.com/willf/bitset"
)

// A Graph is a segment/link assembly graph.
//
// ForwardLinks maps a signed segment to the signed segments whose
// start follows its end. ReverseLinks is the mirror image: it maps a
// signed segment to the signed segments whose end precedes its start.
// Every link from a to b is stored together with its complement from
// b.Flip() to a.Flip(), so the graph reads the same on both strands.
type Graph struct {
	Segments     map[uint32]*Segment
	ForwardLinks map[SignedID][]SignedID
	ReverseLinks map[SignedID][]SignedID

	// Overlap is the number of bases shared by linked segments.
	Overlap int

	// PathsFile is an optional companion file with path annotations.
	// Its format is opaque to the graph.
	PathsFile string
}

// ErrDuplicateSegment is returned when a segment number is added twice.
var ErrDuplicateSegment = errors.New("duplicate segment")

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		Segments:     make(map[uint32]*Segment),
		ForwardLinks: make(map[SignedID][]SignedID),
		ReverseLinks: make(map[SignedID][]SignedID),
	}
}

// AddSegment adds a segment to the graph.
func (g *Graph) AddSegment(segment *Segment) error {
	if segment.Number == 0 {
		return errors.New("segment number 0 is not allowed")
	}
	if _, found := g.Segments[segment.Number]; found {
		return fmt.Errorf("%w %v", ErrDuplicateSegment, segment.Number)
	}
	g.Segments[segment.Number] = segment
	return nil
}

func addNeighbor(links map[SignedID][]SignedID, from, to SignedID) {
	n := links[from]
	for _, t := range n {
		if t == to {
			return
		}
	}
	links[from] = append(n, to)
}

// AddLink records that the end of from connects to the start of to,
// together with the complementary link on the other strand.
func (g *Graph) AddLink(from, to SignedID) {
	addNeighbor(g.ForwardLinks, from, to)
	addNeighbor(g.ReverseLinks, to, from)
	addNeighbor(g.ForwardLinks, to.Flip(), from.Flip())
	addNeighbor(g.ReverseLinks, from.Flip(), to.Flip())
}

func contains(ids []SignedID, id SignedID) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}

// Linked determines whether the end of from connects to the start of to.
func (g *Graph) Linked(from, to SignedID) bool {
	return contains(g.ForwardLinks[from], to)
}

// CheckLinks verifies that all linked segments exist, that the forward
// and reverse link maps mirror each other, and that every link has its
// complement on the other strand.
func (g *Graph) CheckLinks() error {
	for from, tos := range g.ForwardLinks {
		for _, to := range tos {
			if _, found := g.Segments[from.ID]; !found {
				return fmt.Errorf("link %v -> %v refers to missing segment %v", from, to, from.ID)
			}
			if _, found := g.Segments[to.ID]; !found {
				return fmt.Errorf("link %v -> %v refers to missing segment %v", from, to, to.ID)
			}
			if !contains(g.ReverseLinks[to], from) {
				return fmt.Errorf("link %v -> %v has no reverse entry", from, to)
			}
			if !contains(g.ForwardLinks[to.Flip()], from.Flip()) {
				return fmt.Errorf("link %v -> %v has no complementary link", from, to)
			}
		}
	}
	for to, froms := range g.ReverseLinks {
		for _, from := range froms {
			if !contains(g.ForwardLinks[from], to) {
				return fmt.Errorf("reverse link %v <- %v has no forward entry", to, from)
			}
		}
	}
	return nil
}

// SortedSegmentNumbers returns all segment numbers in ascending order.
func (g *Graph) SortedSegmentNumbers() []uint32 {
	numbers := make([]uint32, 0, len(g.Segments))
	for number := range g.Segments {
		numbers = append(numbers, number)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers
}

// SegmentsAtLeast returns the segments of at least the given length,
// ordered by segment number.
func (g *Graph) SegmentsAtLeast(minLength int) (segments []*Segment) {
	for _, number := range g.SortedSegmentNumbers() {
		if segment := g.Segments[number]; segment.Length() >= minLength {
			segments = append(segments, segment)
		}
	}
	return segments
}

// TotalLength returns the summed length of all segments.
func (g *Graph) TotalLength() (total int) {
	for _, segment := range g.Segments {
		total += segment.Length()
	}
	return total
}

// SequenceOf returns the sequence of a signed segment.
func (g *Graph) SequenceOf(id SignedID) (string, error) {
	segment, found := g.Segments[id.ID]
	if !found {
		return "", fmt.Errorf("unknown segment %v", id)
	}
	return segment.Sequence(id.Strand), nil
}

// PathSequence returns the sequence spelled by a path of signed
// segments. Consecutive segments must be linked, and for a circular
// path the last segment must also link back to the first. The overlap
// shared by linked segments is included only once.
func (g *Graph) PathSequence(path []SignedID, circular bool) (string, error) {
	if len(path) == 0 {
		return "", errors.New("empty path")
	}
	var result []byte
	for i, id := range path {
		seq, err := g.SequenceOf(id)
		if err != nil {
			return "", err
		}
		if i > 0 {
			if !g.Linked(path[i-1], id) {
				return "", fmt.Errorf("no link from %v to %v", path[i-1], id)
			}
			if len(seq) < g.Overlap {
				return "", fmt.Errorf("segment %v is shorter than the graph overlap", id)
			}
			seq = seq[g.Overlap:]
		}
		result = append(result, seq...)
	}
	if circular {
		last, first := path[len(path)-1], path[0]
		if !g.Linked(last, first) {
			return "", fmt.Errorf("no link from %v back to %v", last, first)
		}
		if len(result) < g.Overlap {
			return "", errors.New("circular path is shorter than the graph overlap")
		}
		result = result[:len(result)-g.Overlap]
	}
	return string(result), nil
}

// Components returns the connected components of the graph, ignoring
// strands. Each component lists its segment numbers in ascending
// order, and components are ordered by their smallest segment number.
func (g *Graph) Components() (components [][]uint32) {
	numbers := g.SortedSegmentNumbers()
	if len(numbers) == 0 {
		return nil
	}
	visited := bitset.New(uint(numbers[len(numbers)-1]) + 1)
	for _, start := range numbers {
		if visited.Test(uint(start)) {
			continue
		}
		var component []uint32
		stack := []uint32{start}
		visited.Set(uint(start))
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, current)
			for _, strand := range []Strand{Forward, Reverse} {
				id := SignedID{ID: current, Strand: strand}
				for _, neighbors := range [][]SignedID{g.ForwardLinks[id], g.ReverseLinks[id]} {
					for _, n := range neighbors {
						if !visited.Test(uint(n.ID)) {
							visited.Set(uint(n.ID))
							stack = append(stack, n.ID)
						}
					}
				}
			}
		}
		sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
		components = append(components, component)
	}
	return components
}

// LinkCount returns the number of individual forward links.
func (g *Graph) LinkCount() (count int) {
	for _, tos := range g.ForwardLinks {
		count += len(tos)
	}
	return count
}
