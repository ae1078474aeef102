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

package paf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/exascience/elasm/graph"
)

// A ReadSet is a set of read names.
type ReadSet map[string]struct{}

// Add inserts a read name.
func (set ReadSet) Add(name string) {
	set[name] = struct{}{}
}

// Has determines whether name is in the set.
func (set ReadSet) Has(name string) bool {
	_, found := set[name]
	return found
}

// Sorted returns the read names in ascending order.
func (set ReadSet) Sorted() []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// An OverlapIndex records, per signed segment, which reads extend past
// the start or the end of that segment.
type OverlapIndex struct {
	StartOverlaps map[graph.SignedID]ReadSet
	EndOverlaps   map[graph.SignedID]ReadSet

	// Skipped counts alignments whose reference is not a segment
	// number.
	Skipped int
}

func addRead(sets map[graph.SignedID]ReadSet, id graph.SignedID, name string) {
	set := sets[id]
	if set == nil {
		set = make(ReadSet)
		sets[id] = set
	}
	set.Add(name)
}

// BuildOverlapIndex projects every alignment onto the orientation of
// its segment and records the read as overlapping the segment start
// or end when its unaligned part extends more than minOverlapAmount
// bases beyond it.
func BuildOverlapIndex(groups Groups, minOverlapAmount int) (*OverlapIndex, error) {
	if minOverlapAmount < 0 {
		return nil, fmt.Errorf("negative minimum overlap amount %v", minOverlapAmount)
	}
	index := &OverlapIndex{
		StartOverlaps: make(map[graph.SignedID]ReadSet),
		EndOverlaps:   make(map[graph.SignedID]ReadSet),
	}
	for name, alns := range groups {
		for _, aln := range alns {
			id, err := aln.SegmentID()
			if err != nil {
				index.Skipped++
				continue
			}
			segStart, segEnd := aln.RefStart, aln.RefEnd
			if id.Strand == graph.Reverse {
				segStart, segEnd = aln.RefLength-aln.RefEnd, aln.RefLength-aln.RefStart
			}
			adjustedStart := segStart - aln.ReadStart
			adjustedEnd := segEnd + aln.ReadEndGap
			if adjustedStart < -minOverlapAmount {
				addRead(index.StartOverlaps, id, name)
			}
			if adjustedEnd > aln.RefLength+minOverlapAmount {
				addRead(index.EndOverlaps, id, name)
			}
		}
	}
	return index, nil
}

func sortedIDs(sets map[graph.SignedID]ReadSet) []graph.SignedID {
	ids := make([]graph.SignedID, 0, len(sets))
	for id := range sets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].ID != ids[j].ID {
			return ids[i].ID < ids[j].ID
		}
		return ids[i].Strand < ids[j].Strand
	})
	return ids
}

// WriteTo writes one line per signed segment and side, holding the
// signed segment, "start" or "end", and the comma-separated read
// names.
func (index *OverlapIndex) WriteTo(w io.Writer) (n int64, err error) {
	out := bufio.NewWriter(w)
	for _, side := range []struct {
		name string
		sets map[graph.SignedID]ReadSet
	}{{"start", index.StartOverlaps}, {"end", index.EndOverlaps}} {
		for _, id := range sortedIDs(side.sets) {
			written, err := fmt.Fprintf(out, "%v\t%v\t%v\n", id, side.name, strings.Join(side.sets[id].Sorted(), ","))
			n += int64(written)
			if err != nil {
				return n, err
			}
		}
	}
	return n, out.Flush()
}
