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
	"sort"

	"github.com/exascience/elasm/intervals"
)

func betterAlignment(a, b *Alignment) bool {
	if a.MatchingBases != b.MatchingBases {
		return a.MatchingBases > b.MatchingBases
	}
	if a.MinimiserCount != b.MinimiserCount {
		return a.MinimiserCount > b.MinimiserCount
	}
	return a.RefName > b.RefName
}

func sortByReadStart(alignments []*Alignment) {
	sort.SliceStable(alignments, func(i, j int) bool {
		return alignments[i].ReadStart < alignments[j].ReadStart
	})
}

// RemoveConflictingAlignments takes the alignments of one read and
// keeps, best first, those whose read range is neither already covered
// by kept alignments nor overlaps them by more than allowedOverlap
// bases. Quality is ordered by matching bases, then minimiser count,
// then reference name. The result is sorted by read start. The
// argument is not reordered.
func RemoveConflictingAlignments(alignments []*Alignment, allowedOverlap int) []*Alignment {
	sorted := make([]*Alignment, len(alignments))
	copy(sorted, alignments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return betterAlignment(sorted[i], sorted[j])
	})
	var kept []*Alignment
	var keptRanges []intervals.Interval
	for _, aln := range sorted {
		this := aln.ReadInterval()
		if intervals.IsContained(this, keptRanges) {
			continue
		}
		if intervals.OverlapSize(this, keptRanges) > allowedOverlap {
			continue
		}
		kept = append(kept, aln)
		keptRanges = intervals.Simplify(append(keptRanges, this))
	}
	sortByReadStart(kept)
	return kept
}

// AlignmentsOverlap determines whether a, with its start moved right
// by allowedOverlap bases, overlaps the read range of any of others.
func AlignmentsOverlap(a *Alignment, others []*Alignment, allowedOverlap int) bool {
	adjustedStart := a.ReadStart + allowedOverlap
	for _, other := range others {
		if intervals.Overlap(adjustedStart, a.ReadEnd, other.ReadStart, other.ReadEnd) {
			return true
		}
	}
	return false
}
