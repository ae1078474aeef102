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
	"errors"
	"strconv"
)

/*
A scanner to scan/parse ASCII strings representing lines in PAF files.

The zero StringScanner is valid and empty.
*/
type StringScanner struct {
	index int
	data  string
	done  bool
	err   error
}

/*
Returns the error that occurred during scanning/parsing.
*/
func (sc *StringScanner) Err() error {
	return sc.err
}

/*
Resets the scanner, and initializes it with the given string.
*/
func (sc *StringScanner) Reset(s string) {
	sc.index = 0
	sc.data = s
	sc.done = false
	sc.err = nil
}

func (sc *StringScanner) readUntil(c byte) (s string, found bool) {
	if sc.err != nil {
		return "", false
	}
	start := sc.index
	for end := sc.index; end < len(sc.data); end++ {
		if sc.data[end] == c {
			sc.index = end + 1
			return sc.data[start:end], true
		}
	}
	sc.index = len(sc.data)
	return sc.data[start:], false
}

var errMissingField = errors.New("missing field")

func (sc *StringScanner) doString() string {
	if sc.err != nil {
		return ""
	}
	if sc.done {
		sc.err = errMissingField
		return ""
	}
	value, ok := sc.readUntil('\t')
	if !ok {
		sc.done = true
	}
	return value
}

func (sc *StringScanner) doInt() int {
	if sc.err != nil {
		return 0
	}
	value, err := strconv.Atoi(sc.doString())
	if (err != nil) && (sc.err == nil) {
		sc.err = err
	}
	return value
}
