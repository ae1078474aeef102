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
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/exascience/elasm/graph"
	"github.com/exascience/elasm/intervals"
	"github.com/exascience/elasm/utils"
)

func pafLine(read string, readLength, readStart, readEnd int, strand, ref string, refLength, refStart, refEnd, matching, minimisers int) string {
	return fmt.Sprintf("%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t60\tcm:i:%v",
		read, readLength, readStart, readEnd, strand, ref, refLength, refStart, refEnd,
		matching, readEnd-readStart, minimisers)
}

func mustParse(t *testing.T, line string) *Alignment {
	aln, err := ParseAlignment(line)
	if err != nil {
		t.Fatal(err)
	}
	return aln
}

func TestParseAlignment(t *testing.T) {
	line := pafLine("r1", 5000, 100, 4000, "-", "NODE_12_length_3000_cov_4.5", 3000, 10, 2900, 3500, 321)
	aln := mustParse(t, line)
	if aln.ReadName != "r1" || aln.ReadLength != 5000 || aln.ReadStart != 100 || aln.ReadEnd != 4000 {
		t.Errorf("unexpected read fields %+v", aln)
	}
	if aln.ReadStrand != graph.Reverse || aln.RefName != "12" || aln.RefLength != 3000 {
		t.Errorf("unexpected reference fields %+v", aln)
	}
	if aln.RefStart != 10 || aln.RefEnd != 2900 || aln.MatchingBases != 3500 || aln.NumBases != 3900 {
		t.Errorf("unexpected alignment fields %+v", aln)
	}
	if aln.MinimiserCount != 321 || aln.ReadEndGap != 1000 || aln.Line != line {
		t.Errorf("unexpected derived fields %+v", aln)
	}
	if s := aln.String(); s != "100-4000(-):12:10-2900(3500/3900,321)" {
		t.Errorf("unexpected String %v", s)
	}
	if s := aln.ConciseString(); s != "100,4000,-,12,10,2900" {
		t.Errorf("unexpected ConciseString %v", s)
	}
	if aln.SignedRefName() != "-12" {
		t.Errorf("unexpected signed ref name %v", aln.SignedRefName())
	}
	if id, err := aln.SegmentID(); err != nil || id != (graph.SignedID{ID: 12, Strand: graph.Reverse}) {
		t.Errorf("unexpected segment id %v, %v", id, err)
	}
	if aln.ReadInterval() != (intervals.Interval{Start: 100, End: 4000}) {
		t.Errorf("unexpected read interval %v", aln.ReadInterval())
	}
}

func TestParseAlignmentMalformed(t *testing.T) {
	good := pafLine("r1", 5000, 100, 4000, "+", "1", 3000, 10, 2900, 3500, 321)
	fields := strings.Split(good, "\t")
	replace := func(i int, value string) string {
		f := append([]string(nil), fields...)
		f[i] = value
		return strings.Join(f, "\t")
	}
	for _, line := range []string{
		"",
		strings.Join(fields[:12], "\t"),
		replace(1, "x"),
		replace(4, "*"),
		replace(12, "cm:i:many"),
		replace(3, "6000"),
		replace(2, "4500"),
		replace(8, "3001"),
		replace(7, "-1"),
	} {
		if _, err := ParseAlignment(line); !errors.Is(err, ErrMalformedLine) {
			t.Errorf("ParseAlignment(%q) returned %v", line, err)
		}
	}
}

func TestNiceHeader(t *testing.T) {
	for header, expected := range map[string]string{
		"NODE_3_length_100_cov_2.0": "3",
		"EDGE_17_length_9":          "17",
		"5 length=100 depth=1.0x":   "5",
		"contig":                    "contig",
	} {
		if result := NiceHeader(header); result != expected {
			t.Errorf("NiceHeader(%q) = %q, expected %q", header, result, expected)
		}
	}
}

func TestOverlapsReference(t *testing.T) {
	inside := mustParse(t, pafLine("r", 1000, 0, 1000, "+", "1", 5000, 1000, 2000, 900, 10))
	if inside.OverlapsReference() {
		t.Error("read within reference reported as overlapping an end")
	}
	start := mustParse(t, pafLine("r", 1000, 300, 1000, "+", "1", 5000, 100, 800, 600, 10))
	if !start.OverlapsReference() {
		t.Error("read hanging over the start not detected")
	}
	end := mustParse(t, pafLine("r", 1000, 0, 500, "+", "1", 5000, 4600, 5000, 400, 10))
	if !end.OverlapsReference() {
		t.Error("read hanging over the end not detected")
	}
	if f := end.FractionRefAligned(); f != 400.0/5000.0 {
		t.Errorf("unexpected fraction %v", f)
	}
	if (&Alignment{}).FractionRefAligned() != 0 {
		t.Error("empty reference fraction is not 0")
	}
}

func TestSegmentIDInvalid(t *testing.T) {
	for _, name := range []string{"0", "chr1", "-3"} {
		aln := &Alignment{RefName: name}
		if _, err := aln.SegmentID(); err == nil {
			t.Errorf("SegmentID accepted %q", name)
		}
	}
}

func TestRemoveConflictingAlignments(t *testing.T) {
	best := mustParse(t, pafLine("r", 3000, 0, 1000, "+", "1", 5000, 0, 1000, 900, 50))
	conflicting := mustParse(t, pafLine("r", 3000, 500, 1500, "+", "2", 5000, 0, 1000, 400, 90))
	adjacent := mustParse(t, pafLine("r", 3000, 995, 2000, "+", "3", 5000, 0, 1005, 800, 40))
	contained := mustParse(t, pafLine("r", 3000, 100, 200, "+", "4", 5000, 0, 100, 100, 99))
	input := []*Alignment{contained, conflicting, best, adjacent}
	kept := RemoveConflictingAlignments(input, 10)
	if len(kept) != 2 || kept[0] != best || kept[1] != adjacent {
		t.Errorf("unexpected result %v", kept)
	}
	if input[0] != contained || input[1] != conflicting || input[2] != best || input[3] != adjacent {
		t.Error("input was reordered")
	}
	if len(RemoveConflictingAlignments(nil, 10)) != 0 {
		t.Error("empty input gave a non-empty result")
	}
}

func TestRemoveConflictingAlignmentsTies(t *testing.T) {
	a := mustParse(t, pafLine("r", 3000, 0, 1000, "+", "1", 5000, 0, 1000, 900, 50))
	b := mustParse(t, pafLine("r", 3000, 0, 1000, "+", "2", 5000, 0, 1000, 900, 50))
	kept := RemoveConflictingAlignments([]*Alignment{a, b}, 10)
	if len(kept) != 1 || kept[0] != b {
		t.Errorf("expected the larger reference name to win the tie, got %v", kept)
	}
}

func TestRemoveConflictingAlignmentsEmptyRanges(t *testing.T) {
	long := mustParse(t, pafLine("r", 3000, 0, 300, "+", "1", 5000, 0, 300, 290, 50))
	empty1 := mustParse(t, pafLine("r", 3000, 500, 500, "+", "2", 5000, 0, 0, 0, 10))
	empty2 := mustParse(t, pafLine("r", 3000, 500, 500, "+", "3", 5000, 0, 0, 0, 5))
	kept := RemoveConflictingAlignments([]*Alignment{empty2, long, empty1}, 10)
	if len(kept) != 3 {
		t.Fatalf("expected both empty read ranges to be kept, got %v", kept)
	}
	if kept[0] != long || kept[1] != empty1 || kept[2] != empty2 {
		t.Errorf("unexpected order %v", kept)
	}
}

func TestRemoveConflictingAlignmentsProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const allowedOverlap = 10
	for round := 0; round < 200; round++ {
		var alns []*Alignment
		for i := 0; i < 1+rng.Intn(20); i++ {
			start := rng.Intn(2000)
			end := start + rng.Intn(500)
			alns = append(alns, &Alignment{
				ReadName:       "r",
				ReadLength:     3000,
				ReadStart:      start,
				ReadEnd:        end,
				RefName:        fmt.Sprint(i + 1),
				MatchingBases:  rng.Intn(500),
				MinimiserCount: rng.Intn(100),
			})
		}
		kept := RemoveConflictingAlignments(alns, allowedOverlap)
		for i := range kept {
			if i > 0 && kept[i-1].ReadStart > kept[i].ReadStart {
				t.Fatal("result not sorted by read start")
			}
			for j := i + 1; j < len(kept); j++ {
				a, b := kept[i].ReadInterval(), kept[j].ReadInterval()
				if size := intervals.OverlapSize(a, []intervals.Interval{b}); size > allowedOverlap {
					t.Fatalf("kept alignments %v and %v overlap by %v", kept[i], kept[j], size)
				}
			}
		}
	}
}

func TestAlignmentsOverlap(t *testing.T) {
	a := &Alignment{ReadStart: 100, ReadEnd: 200}
	before := &Alignment{ReadStart: 50, ReadEnd: 105}
	if AlignmentsOverlap(a, []*Alignment{before}, 10) {
		t.Error("overlap within the allowance reported")
	}
	if !AlignmentsOverlap(a, []*Alignment{before}, 0) {
		t.Error("overlap without allowance not reported")
	}
	after := &Alignment{ReadStart: 195, ReadEnd: 300}
	if !AlignmentsOverlap(a, []*Alignment{after}, 10) {
		t.Error("overlap at the end is not covered by the allowance")
	}
	if AlignmentsOverlap(a, nil, 0) {
		t.Error("overlap with nothing reported")
	}
}

func TestGroupsAdd(t *testing.T) {
	groups := make(Groups)
	opts := DefaultLoadOptions()
	a := mustParse(t, pafLine("r", 3000, 0, 1000, "+", "1", 5000, 0, 1000, 900, 50))
	b := mustParse(t, pafLine("r", 3000, 500, 1500, "+", "2", 5000, 0, 1000, 900, 100))
	c := mustParse(t, pafLine("r", 3000, 0, 400, "+", "3", 5000, 0, 400, 300, 60))
	weak := mustParse(t, pafLine("r", 3000, 2000, 2500, "+", "4", 5000, 0, 500, 400, 9))
	threshold := mustParse(t, pafLine("r", 3000, 2500, 2900, "+", "5", 5000, 0, 400, 300, 10))
	groups.Add(a, opts)
	if len(groups["r"]) != 1 {
		t.Fatalf("unexpected group %v", groups["r"])
	}
	groups.Add(b, opts)
	if len(groups["r"]) != 1 || groups["r"][0] != b {
		t.Fatalf("better overlapping alignment did not replace the first: %v", groups["r"])
	}
	groups.Add(c, opts)
	groups.Add(weak, opts)
	groups.Add(threshold, opts)
	result := groups["r"]
	if len(result) != 3 || result[0] != c || result[1] != b || result[2] != threshold {
		t.Errorf("unexpected group %v", result)
	}
}

func TestGroupsAddUnfiltered(t *testing.T) {
	groups := make(Groups)
	opts := LoadOptions{}
	for _, line := range []string{
		pafLine("r", 3000, 500, 1500, "+", "2", 5000, 0, 1000, 900, 100),
		pafLine("r", 3000, 0, 1000, "+", "1", 5000, 0, 1000, 900, 1),
	} {
		groups.Add(mustParse(t, line), opts)
	}
	if len(groups["r"]) != 2 || groups["r"][0].ReadStart != 0 {
		t.Errorf("unexpected group %v", groups["r"])
	}
}

func TestGroupsUpsert(t *testing.T) {
	groups := make(Groups)
	groups.Upsert(&Alignment{ReadName: "b"})
	groups.Upsert(&Alignment{ReadName: "a"})
	groups.Upsert(&Alignment{ReadName: "b"})
	if names := groups.ReadNames(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("unexpected read names %v", names)
	}
	if groups.Count() != 3 {
		t.Errorf("unexpected count %v", groups.Count())
	}
}

func TestReconcile(t *testing.T) {
	groups := make(Groups)
	groups.Upsert(mustParse(t, pafLine("r", 3000, 0, 1000, "+", "1", 5000, 0, 1000, 900, 50)))
	groups.Upsert(mustParse(t, pafLine("r", 3000, 100, 900, "+", "2", 5000, 0, 800, 700, 50)))
	groups.Reconcile(10)
	if len(groups["r"]) != 1 || groups["r"][0].RefName != "1" {
		t.Errorf("unexpected group %v", groups["r"])
	}
}

func randomPAF(rng *rand.Rand, n int) string {
	var lines []string
	for i := 0; i < n; i++ {
		readLength := 1000 + rng.Intn(5000)
		start := rng.Intn(readLength)
		end := start + rng.Intn(readLength-start+1)
		refLength := 1000 + rng.Intn(5000)
		refStart := rng.Intn(refLength)
		refEnd := refStart + rng.Intn(refLength-refStart+1)
		strand := "+"
		if rng.Intn(2) == 1 {
			strand = "-"
		}
		lines = append(lines, pafLine(fmt.Sprintf("read%v", rng.Intn(50)), readLength, start, end, strand,
			fmt.Sprint(1+rng.Intn(20)), refLength, refStart, refEnd, rng.Intn(1000), rng.Intn(200)))
		if i%100 == 0 {
			lines = append(lines, "not\ta\tpaf\tline")
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestLoadAlignments(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	input := randomPAF(rng, 5000)
	groups, stats, err := LoadAlignmentsString(input, DefaultLoadOptions(), utils.Discard)
	if err != nil {
		t.Fatal(err)
	}
	expected := make(Groups)
	skipped := 0
	for _, line := range strings.Split(strings.TrimSpace(input), "\n") {
		aln, err := ParseAlignment(line)
		if err != nil {
			skipped++
			continue
		}
		expected.Add(aln, DefaultLoadOptions())
	}
	if stats.Skipped != skipped || stats.Skipped != 50 || stats.Lines != 5050 {
		t.Errorf("unexpected stats %+v, expected %v skipped lines", stats, skipped)
	}
	if stats.Reads != len(expected) || stats.Kept != expected.Count() {
		t.Errorf("unexpected stats %+v", stats)
	}
	var result, reference bytes.Buffer
	if err := WriteAlignments(&result, groups); err != nil {
		t.Fatal(err)
	}
	if err := WriteAlignments(&reference, expected); err != nil {
		t.Fatal(err)
	}
	if result.String() != reference.String() {
		t.Error("parallel loading differs from sequential loading")
	}
}

func TestLoadAlignmentsGzip(t *testing.T) {
	input := pafLine("r", 3000, 0, 1000, "+", "1", 5000, 0, 1000, 900, 50) + "\n"
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(input)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	groups, stats, err := LoadAlignments(&buf, DefaultLoadOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Kept != 1 || len(groups["r"]) != 1 {
		t.Errorf("unexpected result %v, %+v", groups, stats)
	}
}

func TestLoadAlignmentsVerbosity(t *testing.T) {
	input := pafLine("r", 3000, 0, 1000, "+", "1", 5000, 0, 1000, 900, 50) + "\n" +
		pafLine("r", 3000, 2000, 3000, "+", "2", 5000, 0, 1000, 900, 50) + "\n"
	var quiet, detailed bytes.Buffer
	quietGroups, _, err := LoadAlignmentsString(input, DefaultLoadOptions(), utils.NewLogger(&quiet, 0))
	if err != nil {
		t.Fatal(err)
	}
	detailedGroups, _, err := LoadAlignmentsString(input, DefaultLoadOptions(), utils.NewLogger(&detailed, 3))
	if err != nil {
		t.Fatal(err)
	}
	if quiet.Len() != 0 {
		t.Errorf("verbosity 0 produced output %q", quiet.String())
	}
	if strings.Count(detailed.String(), "\n") != 2 {
		t.Errorf("expected one log line per input line, got %q", detailed.String())
	}
	var a, b bytes.Buffer
	_ = WriteAlignments(&a, quietGroups)
	_ = WriteAlignments(&b, detailedGroups)
	if a.String() != b.String() {
		t.Error("verbosity changed the result")
	}
}

func TestBuildOverlapIndex(t *testing.T) {
	groups := make(Groups)
	groups.Upsert(mustParse(t, pafLine("fwd", 1000, 200, 1000, "+", "1", 5000, 0, 800, 700, 50)))
	groups.Upsert(mustParse(t, pafLine("rev", 1000, 200, 1000, "-", "1", 5000, 4200, 5000, 700, 50)))
	groups.Upsert(mustParse(t, pafLine("end", 1000, 0, 500, "+", "2", 3000, 2500, 3000, 450, 50)))
	groups.Upsert(mustParse(t, pafLine("short", 1000, 50, 1000, "+", "2", 3000, 0, 950, 900, 50)))
	groups.Upsert(mustParse(t, pafLine("named", 1000, 200, 1000, "+", "chr1", 5000, 0, 800, 700, 50)))
	index, err := BuildOverlapIndex(groups, DefaultMinOverlapAmount)
	if err != nil {
		t.Fatal(err)
	}
	if !index.StartOverlaps[graph.SignedID{ID: 1}].Has("fwd") {
		t.Error("forward start overlap missing")
	}
	if !index.StartOverlaps[graph.SignedID{ID: 1, Strand: graph.Reverse}].Has("rev") {
		t.Error("reverse strand start overlap missing")
	}
	if !index.EndOverlaps[graph.SignedID{ID: 2}].Has("end") {
		t.Error("end overlap missing")
	}
	if index.StartOverlaps[graph.SignedID{ID: 2}].Has("short") {
		t.Error("overhang within the margin recorded")
	}
	if index.Skipped != 1 {
		t.Errorf("expected 1 skipped alignment, got %v", index.Skipped)
	}
	var buf bytes.Buffer
	if _, err := index.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	expected := "1+\tstart\tfwd\n1-\tstart\trev\n2+\tend\tend\n"
	if buf.String() != expected {
		t.Errorf("unexpected index output %q", buf.String())
	}
	if _, err := BuildOverlapIndex(groups, -1); err == nil {
		t.Error("negative margin accepted")
	}
}

func TestReadSet(t *testing.T) {
	set := make(ReadSet)
	set.Add("b")
	set.Add("a")
	set.Add("b")
	if !set.Has("a") || set.Has("c") {
		t.Error("unexpected membership")
	}
	if sorted := set.Sorted(); len(sorted) != 2 || sorted[0] != "a" {
		t.Errorf("unexpected sorted names %v", sorted)
	}
}
