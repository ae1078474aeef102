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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/exascience/pargo/pipeline"

	"github.com/exascience/elasm/utils"
)

// Stats summarizes a LoadAlignments run.
type Stats struct {
	Lines   int
	Skipped int
	Kept    int
	Reads   int
}

type parsedLine struct {
	line string
	aln  *Alignment
	err  error
}

// LoadAlignments reads PAF lines, which may be gzip-compressed, and
// adds them to groups in input order with Groups.Add. Lines are parsed
// in parallel. Malformed lines are skipped and counted. Every line is
// logged at level 3.
func LoadAlignments(r io.Reader, opts LoadOptions, logger utils.Logger) (Groups, Stats, error) {
	var stats Stats
	input, err := utils.HandleGzip(bufio.NewReader(r))
	if err != nil {
		return nil, stats, err
	}
	if logger == nil {
		logger = utils.Discard
	}
	logLines := utils.Enabled(logger, 3)
	groups := make(Groups)
	var p pipeline.Pipeline
	p.Source(pipeline.NewScanner(input))
	p.Add(
		pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
			strs := data.([]string)
			parsed := make([]parsedLine, 0, len(strs))
			for _, str := range strs {
				str = strings.TrimRight(str, "\r")
				if str == "" {
					continue
				}
				aln, err := ParseAlignment(str)
				parsed = append(parsed, parsedLine{line: str, aln: aln, err: err})
			}
			return parsed
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			for _, entry := range data.([]parsedLine) {
				stats.Lines++
				if logLines {
					logger.Log(entry.line, 3)
				}
				if entry.err != nil {
					stats.Skipped++
					continue
				}
				groups.Add(entry.aln, opts)
			}
			return data
		})),
	)
	p.Run()
	if err := p.Err(); err != nil {
		return nil, stats, err
	}
	stats.Kept = groups.Count()
	stats.Reads = len(groups)
	return groups, stats, nil
}

// LoadAlignmentsString loads alignments from PAF text.
func LoadAlignmentsString(paf string, opts LoadOptions, logger utils.Logger) (Groups, Stats, error) {
	return LoadAlignments(strings.NewReader(paf), opts, logger)
}

// LoadAlignmentsFile loads alignments from a PAF file.
func LoadAlignmentsFile(filename string, opts LoadOptions, logger utils.Logger) (groups Groups, stats Stats, err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return nil, stats, err
	}
	f, err := os.Open(pathname)
	if err != nil {
		return nil, stats, err
	}
	defer func() {
		if nerr := f.Close(); err == nil {
			err = nerr
		}
	}()
	return LoadAlignments(f, opts, logger)
}

// WriteAlignments writes the original lines of all alignments, reads
// in name order and alignments in read start order.
func WriteAlignments(w io.Writer, groups Groups) error {
	out := bufio.NewWriter(w)
	for _, name := range groups.ReadNames() {
		for _, aln := range groups[name] {
			if _, err := out.WriteString(aln.Line); err != nil {
				return err
			}
			if err := out.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return out.Flush()
}
