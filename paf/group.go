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
)

// Default filter settings.
const (
	DefaultMinimiserRatio   = 10
	DefaultAllowedOverlap   = 10
	DefaultMinOverlapAmount = 100
)

// Groups maps read names to their alignments.
type Groups map[string][]*Alignment

// Upsert appends aln to the group of its read, creating the group if
// needed. No filtering takes place.
func (groups Groups) Upsert(aln *Alignment) {
	groups[aln.ReadName] = append(groups[aln.ReadName], aln)
}

// ReadNames returns the read names in ascending order.
func (groups Groups) ReadNames() []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the total number of alignments in all groups.
func (groups Groups) Count() (count int) {
	for _, alns := range groups {
		count += len(alns)
	}
	return count
}

// LoadOptions control the per-read filtering while alignments are
// added to groups.
type LoadOptions struct {
	// FilterByMinimisers drops alignments whose minimiser count is
	// below the best count of the read divided by MinimiserRatio.
	FilterByMinimisers bool
	MinimiserRatio     float64

	// FilterOverlaps drops alignments that overlap a better one by
	// more than AllowedOverlap bases at their start.
	FilterOverlaps bool
	AllowedOverlap int
}

// DefaultLoadOptions enables both filters with the default settings.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		FilterByMinimisers: true,
		MinimiserRatio:     DefaultMinimiserRatio,
		FilterOverlaps:     true,
		AllowedOverlap:     DefaultAllowedOverlap,
	}
}

// Add appends aln to the group of its read and refilters that group.
// The group is ordered by minimiser count, best first, the enabled
// filters are applied, and the survivors are stored sorted by read
// start. Alignments rejected now are not reconsidered later, so the
// result depends on input order.
func (groups Groups) Add(aln *Alignment, opts LoadOptions) {
	alns := append(groups[aln.ReadName], aln)
	sort.SliceStable(alns, func(i, j int) bool {
		return alns[i].MinimiserCount > alns[j].MinimiserCount
	})
	if opts.FilterByMinimisers && opts.MinimiserRatio > 0 {
		minCount := float64(alns[0].MinimiserCount) / opts.MinimiserRatio
		filtered := alns[:0]
		for _, a := range alns {
			if float64(a.MinimiserCount) >= minCount {
				filtered = append(filtered, a)
			}
		}
		alns = filtered
	}
	if opts.FilterOverlaps {
		var kept []*Alignment
		for _, a := range alns {
			if !AlignmentsOverlap(a, kept, opts.AllowedOverlap) {
				kept = append(kept, a)
			}
		}
		alns = kept
	}
	sortByReadStart(alns)
	groups[aln.ReadName] = alns
}

// Reconcile replaces each group by the result of
// RemoveConflictingAlignments.
func (groups Groups) Reconcile(allowedOverlap int) {
	for name, alns := range groups {
		groups[name] = RemoveConflictingAlignments(alns, allowedOverlap)
	}
}
