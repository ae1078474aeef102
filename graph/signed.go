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
	"fmt"
	"strconv"
	"strings"
)

// Strand is the orientation in which a segment is traversed.
type Strand uint8

// The two strands.
const (
	Forward Strand = iota
	Reverse
)

// Flip returns the opposite strand.
func (s Strand) Flip() Strand {
	return s ^ 1
}

// Sign returns "+" for Forward and "-" for Reverse.
func (s Strand) Sign() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// ParseStrand parses "+" or "-".
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return Forward, nil
	case "-":
		return Reverse, nil
	default:
		return Forward, fmt.Errorf("invalid strand %q", s)
	}
}

// SignedID refers to one orientation of a segment. Segment numbers
// start at 1, so the zero SignedID is not a valid segment reference.
type SignedID struct {
	ID     uint32
	Strand Strand
}

// NewSignedID converts the conventional signed integer notation, where
// a negative number denotes the reverse strand, into a SignedID.
func NewSignedID(n int) (SignedID, error) {
	switch {
	case n > 0 && int64(n) <= int64(^uint32(0)):
		return SignedID{ID: uint32(n), Strand: Forward}, nil
	case n < 0 && -int64(n) <= int64(^uint32(0)):
		return SignedID{ID: uint32(-n), Strand: Reverse}, nil
	default:
		return SignedID{}, fmt.Errorf("invalid segment number %v", n)
	}
}

// Flip returns the same segment on the opposite strand.
func (s SignedID) Flip() SignedID {
	return SignedID{ID: s.ID, Strand: s.Strand.Flip()}
}

// Int returns the signed integer notation of s.
func (s SignedID) Int() int {
	if s.Strand == Reverse {
		return -int(s.ID)
	}
	return int(s.ID)
}

// String returns s as the segment number followed by its strand sign,
// for example "7+" or "7-".
func (s SignedID) String() string {
	return strconv.FormatUint(uint64(s.ID), 10) + s.Strand.Sign()
}

// ParseSignedID accepts both the "7-" and the "-7" notation.
func ParseSignedID(s string) (SignedID, error) {
	if strings.HasSuffix(s, "+") || strings.HasSuffix(s, "-") {
		n, err := strconv.ParseUint(s[:len(s)-1], 10, 32)
		if err != nil || n == 0 {
			return SignedID{}, fmt.Errorf("invalid signed segment %q", s)
		}
		strand, _ := ParseStrand(s[len(s)-1:])
		return SignedID{ID: uint32(n), Strand: strand}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return SignedID{}, fmt.Errorf("invalid signed segment %q", s)
	}
	return NewSignedID(n)
}
