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

var complementTable [256]byte

func init() {
	for i := range complementTable {
		complementTable[i] = 'N'
	}
	for base, complement := range map[byte]byte{
		'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G', 'N': 'N',
		'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W', 'K': 'M', 'M': 'K',
		'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D',
		'a': 't', 't': 'a', 'g': 'c', 'c': 'g', 'n': 'n',
		'r': 'y', 'y': 'r', 's': 's', 'w': 'w', 'k': 'm', 'm': 'k',
		'b': 'v', 'v': 'b', 'd': 'h', 'h': 'd',
		'.': '.', '-': '-', '?': '?',
	} {
		complementTable[base] = complement
	}
}

// Complement returns the complementary IUPAC nucleotide code. Case is
// preserved, and characters that are not nucleotide codes map to N.
func Complement(base byte) byte {
	return complementTable[base]
}

// ReverseComplement returns the reverse complement of a nucleotide
// sequence.
func ReverseComplement(seq string) string {
	n := len(seq)
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[n-1-i] = complementTable[seq[i]]
	}
	return string(result)
}
