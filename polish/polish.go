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

// Package polish improves graph segment sequences with short-read
// evidence, using Bowtie2, Samtools and Pilon as external tools.
package polish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"

	"github.com/exascience/elasm/fasta"
	"github.com/exascience/elasm/graph"
	"github.com/exascience/elasm/internal"
	"github.com/exascience/elasm/utils"
)

// DefaultMinPolishSize is the default minimum length of a segment for
// it to be polished.
const DefaultMinPolishSize = 10000

// Options configure a polishing run.
type Options struct {
	Bowtie2      string
	Bowtie2Build string
	Pilon        string
	Java         string
	Samtools     string

	MinPolishSize int

	// Dir holds all intermediate files and is left in place for the
	// caller. When empty, a new directory is created in the system
	// temporary directory and removed when Polish returns.
	Dir string

	Short1, Short2 string
	Threads        int
}

// DefaultOptions expects all tools on the PATH.
func DefaultOptions() Options {
	return Options{
		Bowtie2:       "bowtie2",
		Bowtie2Build:  "bowtie2-build",
		Pilon:         "pilon",
		Java:          "java",
		Samtools:      "samtools",
		MinPolishSize: DefaultMinPolishSize,
		Threads:       runtime.NumCPU(),
	}
}

// A Report summarizes a successful polishing run.
type Report struct {
	// Dir is empty when Polish used, and removed, its own temporary
	// directory.
	Dir             string
	Segments        int
	TotalChanges    int
	ChangeCounts    map[uint32]int
	InsertMean      float64
	Insert5th       float64
	Insert95th      float64
	FilteredRecords int
	ChangedSegments int
}

type polisher struct {
	ctx    context.Context
	opts   Options
	runner ToolRunner
	logger utils.Logger
}

func (p *polisher) run(tool string, command ...string) error {
	p.logger.Log("  "+strings.Join(command, " "), 2)
	output, err := p.runner.Run(p.ctx, command[0], command[1:]...)
	if err != nil {
		if ctxErr := p.ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return cannotPolish(fmt.Sprintf("%v encountered an error: %v\n%s", tool, err, output))
	}
	return nil
}

func (p *polisher) path(name string) string {
	return filepath.Join(p.opts.Dir, name)
}

func fileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

func readInsertSizes(filename string) (sizes []float64, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() {
		if nerr := f.Close(); err == nil {
			err = nerr
		}
	}()
	return InsertSizes(f)
}

func filterInsertSizes(input, output string, min, max float64) (kept int, err error) {
	in, err := os.Open(input)
	if err != nil {
		return 0, err
	}
	defer func() {
		if nerr := in.Close(); err == nil {
			err = nerr
		}
	}()
	out, err := os.Create(output)
	if err != nil {
		return 0, err
	}
	defer func() {
		if nerr := out.Close(); err == nil {
			err = nerr
		}
	}()
	return FilterByInsertSize(in, out, min, max)
}

func readChanges(filename string) (changes Changes, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() {
		if nerr := f.Close(); err == nil {
			err = nerr
		}
	}()
	return ParseChanges(f)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%v %v", n, word)
	}
	return fmt.Sprintf("%v %vs", n, word)
}

// Polish runs the short-read polishing steps one after the other and
// replaces the sequences of the polished segments in g. Failures of
// the external tools, or missing tool output, are reported as
// *CannotPolish. The context cancels the running tool.
func Polish(ctx context.Context, g *graph.Graph, opts Options, runner ToolRunner, logger utils.Logger) (*Report, error) {
	if logger == nil {
		logger = utils.Discard
	}
	if opts.Short1 == "" || opts.Short2 == "" {
		return nil, errors.New("polishing needs two short read files")
	}
	if opts.Threads < 1 {
		opts.Threads = 1
	}
	toPolish := g.SegmentsAtLeast(opts.MinPolishSize)
	if len(toPolish) == 0 {
		return nil, cannotPolish("no segments are long enough to polish")
	}
	report := &Report{Dir: opts.Dir, Segments: len(toPolish), ChangeCounts: make(map[uint32]int)}
	if opts.Dir == "" {
		dir, err := NewWorkDir(os.TempDir())
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = os.RemoveAll(dir)
		}()
		opts.Dir = dir
	}
	p := &polisher{ctx: ctx, opts: opts, runner: runner, logger: logger}

	polishInput := p.path("polish.fasta")
	records := make([]fasta.Record, 0, len(toPolish))
	for _, segment := range toPolish {
		records = append(records, fasta.Record{Name: strconv.FormatUint(uint64(segment.Number), 10), Seq: segment.Forward()})
	}
	if err := fasta.WriteFile(polishInput, records); err != nil {
		return nil, err
	}

	if err := p.run("bowtie2-build", opts.Bowtie2Build, polishInput, polishInput); err != nil {
		return nil, err
	}
	if found, err := internal.AnyWithSuffix(opts.Dir, ".bt2"); err != nil {
		return nil, err
	} else if !found {
		return nil, cannotPolish("bowtie2-build failed to build an index")
	}

	rawSam := p.path("alignments_raw.sam")
	logger.Log("Aligning short reads to assembly using Bowtie2", 1)
	if err := p.run("Bowtie2", opts.Bowtie2, "--end-to-end", "--very-sensitive",
		"--threads", strconv.Itoa(opts.Threads), "--no-discordant", "--no-mixed", "--no-unal",
		"-I", "0", "-X", "2000", "-x", polishInput, "-1", opts.Short1, "-2", opts.Short2,
		"-S", rawSam); err != nil {
		return nil, err
	}
	if !fileExists(rawSam) {
		return nil, cannotPolish("Bowtie2 did not produce " + filepath.Base(rawSam))
	}

	sizes, err := readInsertSizes(rawSam)
	if err != nil {
		return nil, cannotPolish(fmt.Sprintf("could not read Bowtie2 alignments: %v", err))
	}
	if len(sizes) == 0 {
		return nil, cannotPolish("no read pairs aligned")
	}
	if report.InsertMean, report.Insert5th, report.Insert95th, err = InsertSizeStats(sizes); err != nil {
		return nil, err
	}
	logger.Log(fmt.Sprintf("Mean fragment size = %.1f bp", report.InsertMean), 1)
	logger.Log(fmt.Sprintf("Fragment size 5th percentile = %.0f bp", report.Insert5th), 2)
	logger.Log(fmt.Sprintf("Fragment size 95th percentile = %.0f bp", report.Insert95th), 2)

	filteredSam := p.path("alignments_filtered.sam")
	logger.Log(fmt.Sprintf("Filtering alignments to fragment size range: %.0f to %.0f", report.Insert5th, report.Insert95th), 1)
	if report.FilteredRecords, err = filterInsertSizes(rawSam, filteredSam, report.Insert5th, report.Insert95th); err != nil {
		return nil, err
	}

	bam := p.path("alignments.bam")
	logger.Log("Sorting and indexing alignments", 1)
	if err := p.run("Samtools", opts.Samtools, "sort", "-@", strconv.Itoa(opts.Threads),
		"-o", bam, "-O", "bam", "-T", "temp", filteredSam); err != nil {
		return nil, err
	}
	if err := p.run("Samtools", opts.Samtools, "index", bam); err != nil {
		return nil, err
	}

	var pilon []string
	if strings.HasSuffix(opts.Pilon, ".jar") {
		pilon = []string{opts.Java, "-jar", opts.Pilon}
	} else {
		pilon = []string{opts.Pilon}
	}
	pilon = append(pilon, "--genome", polishInput, "--frags", bam,
		"--fix", "bases", "--changes", "--outdir", opts.Dir)
	logger.Log("Running Pilon", 1)
	if err := p.run("Pilon", pilon...); err != nil {
		return nil, err
	}
	pilonFasta, pilonChanges := p.path("pilon.fasta"), p.path("pilon.changes")
	if !fileExists(pilonFasta) {
		return nil, cannotPolish("Pilon did not produce pilon.fasta")
	}
	if !fileExists(pilonChanges) {
		return nil, cannotPolish("Pilon did not produce pilon.changes")
	}

	changes, err := readChanges(pilonChanges)
	if err != nil {
		return nil, err
	}
	report.TotalChanges = changes.Total()
	for segment, c := range changes {
		report.ChangeCounts[segment] = len(c)
	}
	if report.TotalChanges == 0 {
		logger.Log("No Pilon changes", 1)
	} else {
		logger.Log("Number of Pilon changes: "+strconv.Itoa(report.TotalChanges), 1)
		for _, segment := range toPolish {
			count := report.ChangeCounts[segment.Number]
			if count == 0 {
				continue
			}
			logger.Log(fmt.Sprintf("Segment %v (%v bp): %v", segment.Number, segment.Length(), plural(count, "change")), 2)
			if utils.Enabled(logger, 3) {
				for _, change := range changes.SortedByPosition(segment.Number) {
					logger.Log("  "+change.Line, 3)
				}
			}
		}
	}

	polished, err := fasta.ReadFile(pilonFasta)
	if err != nil {
		return nil, cannotPolish(fmt.Sprintf("could not read pilon.fasta: %v", err))
	}
	for _, record := range polished {
		number, err := strconv.ParseUint(strings.TrimSuffix(record.Name, "_pilon"), 10, 32)
		if err != nil {
			continue
		}
		segment, found := g.Segments[uint32(number)]
		if !found {
			continue
		}
		before := xxhash.Sum64([]byte(segment.Forward()))
		segment.SetSequence(record.Seq)
		if xxhash.Sum64([]byte(segment.Forward())) != before {
			report.ChangedSegments++
		}
	}
	return report, nil
}
