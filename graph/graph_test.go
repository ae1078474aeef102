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
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/exascience/elasm/fasta"
	"github.com/exascience/elasm/sequence"
	"github.com/exascience/elasm/utils"
)

func TestSignedID(t *testing.T) {
	id, err := NewSignedID(-7)
	if err != nil {
		t.Fatal(err)
	}
	if id.ID != 7 || id.Strand != Reverse || id.Int() != -7 || id.String() != "7-" {
		t.Errorf("unexpected signed id %v", id)
	}
	if id.Flip().Flip() != id || id.Flip().String() != "7+" {
		t.Error("Flip is not an involution")
	}
	if _, err := NewSignedID(0); err == nil {
		t.Error("NewSignedID accepted 0")
	}
	for _, s := range []string{"7-", "-7"} {
		parsed, err := ParseSignedID(s)
		if err != nil || parsed != id {
			t.Errorf("ParseSignedID(%q) = %v, %v", s, parsed, err)
		}
	}
	if parsed, err := ParseSignedID("12"); err != nil || parsed != (SignedID{ID: 12}) {
		t.Errorf("ParseSignedID(\"12\") = %v, %v", parsed, err)
	}
	for _, s := range []string{"0+", "x", "", "+"} {
		if _, err := ParseSignedID(s); err == nil {
			t.Errorf("ParseSignedID(%q) succeeded", s)
		}
	}
}

func TestSetSequence(t *testing.T) {
	segment := NewSegment(1, "AACG", 1)
	if segment.Reverse() != "CGTT" {
		t.Errorf("unexpected reverse %v", segment.Reverse())
	}
	segment.SetSequence("GGGA")
	if segment.Forward() != "GGGA" || segment.Reverse() != "TCCC" {
		t.Errorf("strands out of sync: %v %v", segment.Forward(), segment.Reverse())
	}
	if segment.Sequence(Reverse) != segment.Reverse() || segment.Length() != 4 {
		t.Error("Sequence or Length inconsistent")
	}
}

func TestAddSegment(t *testing.T) {
	g := New()
	if err := g.AddSegment(NewSegment(0, "A", 1)); err == nil {
		t.Error("segment 0 accepted")
	}
	if err := g.AddSegment(NewSegment(1, "A", 1)); err != nil {
		t.Error(err)
	}
	if err := g.AddSegment(NewSegment(1, "C", 1)); err == nil {
		t.Error("duplicate segment accepted")
	}
}

func TestAddLinkClosure(t *testing.T) {
	g := New()
	for i := uint32(1); i <= 2; i++ {
		if err := g.AddSegment(NewSegment(i, "ACGT", 1)); err != nil {
			t.Fatal(err)
		}
	}
	a, b := SignedID{ID: 1}, SignedID{ID: 2, Strand: Reverse}
	g.AddLink(a, b)
	g.AddLink(a, b)
	if !g.Linked(a, b) || !g.Linked(b.Flip(), a.Flip()) {
		t.Error("link or its complement missing")
	}
	if g.Linked(b, a) {
		t.Error("unexpected reverse link")
	}
	if g.LinkCount() != 2 {
		t.Errorf("expected 2 forward links, got %v", g.LinkCount())
	}
	if err := g.CheckLinks(); err != nil {
		t.Error(err)
	}
	g.ForwardLinks[SignedID{ID: 1}] = append(g.ForwardLinks[SignedID{ID: 1}], SignedID{ID: 9})
	if err := g.CheckLinks(); err == nil {
		t.Error("CheckLinks accepted a link to a missing segment")
	}
}

func scenarioA(t *testing.T) (string, *Graph) {
	rng := rand.New(rand.NewSource(42))
	genome := sequence.RandomSequence(rng, 1000)
	assembled := sequence.ReverseComplement(genome[300:] + genome[:300])
	gfa := fmt.Sprintf("H\tVN:Z:1.0\nS\t1\t%v\tdp:f:1.0\nL\t1\t+\t1\t+\t0M\n", assembled)
	g, err := LoadGFA(strings.NewReader(gfa), "")
	if err != nil {
		t.Fatal(err)
	}
	return genome, g
}

func TestScenarioSingleCircle(t *testing.T) {
	genome, g := scenarioA(t)
	if len(g.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %v", len(g.Segments))
	}
	if len(g.ForwardLinks) != 2 || len(g.ReverseLinks) != 2 {
		t.Errorf("expected 2 forward and 2 reverse link entries, got %v and %v", len(g.ForwardLinks), len(g.ReverseLinks))
	}
	if depth := g.Segments[1].Depth; depth < 0.9 || depth > 1.1 {
		t.Errorf("unexpected depth %v", depth)
	}
	var buf bytes.Buffer
	if err := g.SaveToFasta(&buf, utils.Discard, 1); err != nil {
		t.Fatal(err)
	}
	records, err := fasta.Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Name != "1" {
		t.Fatalf("unexpected records %v", records)
	}
	if !sequence.MatchesAnyRotation(genome, records[0].Seq) {
		t.Error("exported segment does not match the genome under rotation or strand flip")
	}
	path, err := g.PathSequence([]SignedID{{ID: 1, Strand: Reverse}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if !sequence.MatchesAnyRotation(genome, path) {
		t.Error("circular path does not match the genome")
	}
}

func TestScenarioRepeat(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seq1 := sequence.RandomSequence(rng, 2500)
	seq2 := sequence.RandomSequence(rng, 1500)
	repeat := sequence.RandomSequence(rng, 500)
	genome := seq1 + repeat + seq2 + repeat
	gfa := strings.Join([]string{
		"S\t1\t" + seq1 + "\tdp:f:1.0",
		"S\t2\t" + sequence.ReverseComplement(seq2) + "\tdp:f:1.0",
		"S\t3\t" + repeat + "\tdp:f:2.0",
		"L\t1\t+\t3\t+\t0M",
		"L\t3\t+\t2\t-\t0M",
		"L\t2\t-\t3\t+\t0M",
		"L\t3\t+\t1\t+\t0M",
	}, "\n") + "\n"
	g, err := LoadGFA(strings.NewReader(gfa), "paths.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %v", len(g.Segments))
	}
	if len(g.ForwardLinks) != 6 || len(g.ReverseLinks) != 6 {
		t.Errorf("expected 6 forward and 6 reverse link entries, got %v and %v", len(g.ForwardLinks), len(g.ReverseLinks))
	}
	if depth := g.Segments[3].Depth; depth < 1.9 || depth > 2.1 {
		t.Errorf("unexpected repeat depth %v", depth)
	}
	var out bytes.Buffer
	if err := g.SaveToFasta(&out, utils.Discard, 1); err != nil {
		t.Fatal(err)
	}
	records, err := fasta.Read(&out)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 contigs, got %v", len(records))
	}
	if records[2].Seq != repeat {
		t.Errorf("unexpected repeat contig %v", records[2].Name)
	}
	if g.PathsFile != "paths.txt" {
		t.Errorf("paths file not kept: %v", g.PathsFile)
	}
	path := []SignedID{{ID: 1}, {ID: 3}, {ID: 2, Strand: Reverse}, {ID: 3}}
	seq, err := g.PathSequence(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if !sequence.MatchesAnyRotation(genome, seq) {
		t.Error("path sequence does not match the genome")
	}
	if _, err := g.PathSequence([]SignedID{{ID: 1}, {ID: 2}}, false); err == nil {
		t.Error("PathSequence accepted unlinked segments")
	}
	if components := g.Components(); len(components) != 1 || len(components[0]) != 3 {
		t.Errorf("unexpected components %v", components)
	}
}

func TestComponents(t *testing.T) {
	g := New()
	for i := uint32(1); i <= 5; i++ {
		if err := g.AddSegment(NewSegment(i, "ACGT", 1)); err != nil {
			t.Fatal(err)
		}
	}
	g.AddLink(SignedID{ID: 4}, SignedID{ID: 1, Strand: Reverse})
	g.AddLink(SignedID{ID: 2}, SignedID{ID: 5})
	components := g.Components()
	expected := [][]uint32{{1, 4}, {2, 5}, {3}}
	if fmt.Sprint(components) != fmt.Sprint(expected) {
		t.Errorf("got components %v, expected %v", components, expected)
	}
}

func TestLoadGFAOverlapAndDepth(t *testing.T) {
	gfa := "S\t1\tACGTAC\tKC:i:12\nS\t2\tTACGG\nL\t1\t+\t2\t+\t3M\n"
	g, err := LoadGFA(strings.NewReader(gfa), "")
	if err != nil {
		t.Fatal(err)
	}
	if g.Overlap != 3 {
		t.Errorf("expected overlap 3, got %v", g.Overlap)
	}
	if g.Segments[1].Depth != 2 || g.Segments[2].Depth != 1 {
		t.Errorf("unexpected depths %v %v", g.Segments[1].Depth, g.Segments[2].Depth)
	}
	seq, err := g.PathSequence([]SignedID{{ID: 1}, {ID: 2}}, false)
	if err != nil {
		t.Fatal(err)
	}
	if seq != "ACGTACGG" {
		t.Errorf("unexpected path sequence %v", seq)
	}
}

func TestLoadGFAErrors(t *testing.T) {
	for _, gfa := range []string{
		"S\tx\tACGT\n",
		"S\t1\t*\tLN:i:4\n",
		"S\t1\tACGT\nS\t1\tACGT\n",
		"S\t1\tACGT\nL\t1\t+\t2\t+\t0M\n",
		"S\t1\tACGT\nL\t1\t?\t1\t+\t0M\n",
		"S\t1\tACGT\nS\t2\tACGT\nL\t1\t+\t2\t+\t0M\nL\t2\t+\t1\t+\t1M\n",
	} {
		if _, err := LoadGFA(strings.NewReader(gfa), ""); err == nil {
			t.Errorf("LoadGFA accepted %q", gfa)
		}
	}
}

func TestSaveGFARoundTrip(t *testing.T) {
	_, g := scenarioA(t)
	var buf bytes.Buffer
	if err := g.SaveGFA(&buf); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\nL\t"); n != 1 {
		t.Errorf("expected 1 canonical link line, got %v", n)
	}
	h, err := LoadGFA(&buf, "")
	if err != nil {
		t.Fatal(err)
	}
	if h.Segments[1].Forward() != g.Segments[1].Forward() || h.Segments[1].Depth != g.Segments[1].Depth {
		t.Error("segment changed in round trip")
	}
	if h.LinkCount() != g.LinkCount() {
		t.Errorf("link count changed from %v to %v", g.LinkCount(), h.LinkCount())
	}
}

func TestDot(t *testing.T) {
	g := New()
	for i := uint32(1); i <= 2; i++ {
		if err := g.AddSegment(NewSegment(i, "ACGT", 1)); err != nil {
			t.Fatal(err)
		}
	}
	g.AddLink(SignedID{ID: 1}, SignedID{ID: 2, Strand: Reverse})
	dot, err := g.Dot()
	if err != nil {
		t.Fatal(err)
	}
	if len(dot.Edges.Edges) != g.LinkCount() {
		t.Errorf("expected %v edges, got %v", g.LinkCount(), len(dot.Edges.Edges))
	}
	if len(dot.Nodes.Nodes) != 4 {
		t.Errorf("expected 4 nodes, got %v", len(dot.Nodes.Nodes))
	}
	var buf bytes.Buffer
	if err := g.WriteDot(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "digraph") || !strings.Contains(out, `"1+"`) || !strings.Contains(out, `"2-"`) {
		t.Errorf("unexpected DOT output %v", out)
	}
}

func TestSaveToFastaVerbosity(t *testing.T) {
	_, g := scenarioA(t)
	var quiet, loud bytes.Buffer
	if err := g.SaveToFasta(&bytes.Buffer{}, utils.NewLogger(&quiet, 0), 1); err != nil {
		t.Fatal(err)
	}
	if err := g.SaveToFasta(&bytes.Buffer{}, utils.NewLogger(&loud, 1), 1); err != nil {
		t.Fatal(err)
	}
	if quiet.Len() != 0 {
		t.Errorf("verbosity 0 produced output %q", quiet.String())
	}
	if loud.Len() == 0 {
		t.Error("verbosity 1 produced no output")
	}
}
