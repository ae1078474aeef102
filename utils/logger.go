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

package utils

import (
	"io"
	"log"
)

// A Logger receives progress messages together with the verbosity
// level at which they become visible. Logging never changes the
// outcome of an operation.
type Logger interface {
	Log(message string, level int)
}

// VerbosityLogger prints messages whose level is between 1 and the
// configured verbosity. A verbosity of 0 silences it completely.
type VerbosityLogger struct {
	out       *log.Logger
	verbosity int
}

// NewLogger returns a VerbosityLogger that writes to w.
func NewLogger(w io.Writer, verbosity int) *VerbosityLogger {
	return &VerbosityLogger{out: log.New(w, "", 0), verbosity: verbosity}
}

// Verbosity returns the configured verbosity level.
func (l *VerbosityLogger) Verbosity() int {
	return l.verbosity
}

// Log implements the Logger interface.
func (l *VerbosityLogger) Log(message string, level int) {
	if level < 1 || level > l.Verbosity() {
		return
	}
	l.out.Println(message)
}

type discard struct{}

func (discard) Log(string, int) {}

// Discard is a Logger that drops all messages.
var Discard Logger = discard{}

// Enabled reports whether logger would print a message at the given
// level, so that callers can skip building expensive messages.
func Enabled(logger Logger, level int) bool {
	switch l := logger.(type) {
	case nil:
		return false
	case discard:
		return false
	case *VerbosityLogger:
		return level >= 1 && level <= l.Verbosity()
	default:
		return true
	}
}
