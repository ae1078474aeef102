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

package polish

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
)

// A Change is one line of a Pilon changes file, such as
// "12:1043 12_pilon:1043 A T" or "12:20-22 12_pilon:20 ACG .".
type Change struct {
	Segment  uint32
	Position int
	Line     string
}

func changePosition(line string) (int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ':' || r == ' ' || r == '-'
	})
	if len(fields) < 2 {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(fields[1])
}

// Changes groups Pilon changes by segment number.
type Changes map[uint32][]Change

// Total returns the number of changes.
func (changes Changes) Total() (total int) {
	for _, c := range changes {
		total += len(c)
	}
	return total
}

// SortedByPosition returns the changes of a segment ordered by their
// position. Changes without a readable position come last.
func (changes Changes) SortedByPosition(segment uint32) []Change {
	result := append([]Change(nil), changes[segment]...)
	sort.SliceStable(result, func(i, j int) bool {
		if (result[i].Position < 0) != (result[j].Position < 0) {
			return result[j].Position < 0
		}
		return result[i].Position < result[j].Position
	})
	return result
}

// ParseChanges reads a Pilon changes file. Lines that do not start
// with a segment number followed by a colon are skipped.
func ParseChanges(r io.Reader) (Changes, error) {
	changes := make(Changes)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		segment, err := strconv.ParseUint(line[:colon], 10, 32)
		if err != nil {
			continue
		}
		position, err := changePosition(line)
		if err != nil {
			position = -1
		}
		changes[uint32(segment)] = append(changes[uint32(segment)], Change{
			Segment:  uint32(segment),
			Position: position,
			Line:     line,
		})
	}
	return changes, scanner.Err()
}
