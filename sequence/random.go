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

import "math/rand"

const bases = "ACGT"

// RandomSequence returns a sequence of the given length drawn uniformly
// from A, C, G and T.
func RandomSequence(rng *rand.Rand, length int) string {
	seq := make([]byte, length)
	for i := range seq {
		seq[i] = bases[rng.Intn(len(bases))]
	}
	return string(seq)
}
