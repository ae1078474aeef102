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

import (
	"math/rand"
	"testing"
)

func TestReverseComplement(t *testing.T) {
	if rc := ReverseComplement("ACGTTG"); rc != "CAACGT" {
		t.Errorf("ReverseComplement 1 failed: %v", rc)
	}
	if rc := ReverseComplement("acgRYn"); rc != "nRYcgt" {
		t.Errorf("ReverseComplement 2 failed: %v", rc)
	}
	if rc := ReverseComplement(""); rc != "" {
		t.Errorf("empty ReverseComplement failed: %v", rc)
	}
	if rc := ReverseComplement("AXT"); rc != "ANT" {
		t.Errorf("ReverseComplement 3 failed: %v", rc)
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		s := RandomSequence(rng, rng.Intn(200))
		if ReverseComplement(ReverseComplement(s)) != s {
			t.Errorf("ReverseComplement is not an involution for %v", s)
		}
	}
}

func TestMatchesEitherStrand(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		s := RandomSequence(rng, 1+rng.Intn(200))
		if !MatchesEitherStrand(s, s) {
			t.Errorf("%v does not match itself", s)
		}
		if !MatchesEitherStrand(s, ReverseComplement(s)) {
			t.Errorf("%v does not match its reverse complement", s)
		}
	}
	if MatchesEitherStrand("AACG", "AACC") {
		t.Error("MatchesEitherStrand matched different sequences")
	}
}

func TestMatchesAnyRotation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := RandomSequence(rng, 300)
	rc := ReverseComplement(s)
	for i := 0; i < len(s); i++ {
		if !MatchesAnyRotation(s, s[i:]+s[:i]) {
			t.Errorf("rotation %v not matched", i)
		}
		if !MatchesAnyRotation(s, rc[i:]+rc[:i]) {
			t.Errorf("reverse complement rotation %v not matched", i)
		}
	}
	if MatchesAnyRotation(s, s[:299]) {
		t.Error("sequences of different lengths matched")
	}
	if MatchesAnyRotation("", "") {
		t.Error("empty sequences matched")
	}
	mutated := []byte(s)
	mutated[150] = Complement(mutated[150])
	if MatchesAnyRotation(s, string(mutated)) {
		t.Error("mutated sequence matched")
	}
}

func TestMatchesAnyRotationAgreesWithNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 500; i++ {
		a := RandomSequence(rng, 1+rng.Intn(6))
		b := RandomSequence(rng, len(a))
		if MatchesAnyRotation(a, b) != MatchesAnyRotationNaive(a, b) {
			t.Errorf("MatchesAnyRotation and MatchesAnyRotationNaive disagree on %v %v", a, b)
		}
	}
}

func BenchmarkMatchesAnyRotation(b *testing.B) {
	rng := rand.New(rand.NewSource(5))
	s := RandomSequence(rng, 5000)
	rc := ReverseComplement(s)
	target := rc[2500:] + rc[:2500]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MatchesAnyRotation(s, target)
	}
}

func BenchmarkMatchesAnyRotationNaive(b *testing.B) {
	rng := rand.New(rand.NewSource(5))
	s := RandomSequence(rng, 5000)
	rc := ReverseComplement(s)
	target := rc[2500:] + rc[:2500]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MatchesAnyRotationNaive(s, target)
	}
}
