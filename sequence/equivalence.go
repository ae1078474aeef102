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

package sequence

import "strings"

// MatchesEitherStrand determines whether b is identical to a or to the
// reverse complement of a.
func MatchesEitherStrand(a, b string) bool {
	if a == b {
		return true
	}
	return ReverseComplement(a) == b
}

// MatchesAnyRotation determines whether b equals some cyclic rotation
// of a, or some cyclic rotation of the reverse complement of a. This
// is how an assembled circular contig is compared against the sequence
// it was assembled from, since the assembler is free to choose both
// the starting position and the strand.
//
// The two sequences must have the same, non-zero length. Rotations are
// found by searching b in a doubled copy of each orientation, which
// tests every rotation offset.
func MatchesAnyRotation(a, b string) bool {
	n := len(a)
	if n == 0 || n != len(b) {
		return false
	}
	if index := strings.Index(a+a, b); index >= 0 && index < n {
		return true
	}
	rc := ReverseComplement(a)
	if index := strings.Index(rc+rc, b); index >= 0 && index < n {
		return true
	}
	return false
}

// MatchesAnyRotationNaive has the same semantics as MatchesAnyRotation,
// but compares each of the len(a) rotations of both orientations in
// turn. It takes quadratic time and is only meant for small inputs
// and for cross-checking.
func MatchesAnyRotationNaive(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	rc := ReverseComplement(a)
	for i := 0; i < len(a); i++ {
		if b == a[i:]+a[:i] {
			return true
		}
		if b == rc[i:]+rc[:i] {
			return true
		}
	}
	return false
}
