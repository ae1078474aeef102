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

// Package fasta reads and writes FASTA records.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/biogo/biogo/alphabet"
	biofasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/exascience/elasm/utils"
)

// LineWidth is the number of sequence characters per output line.
const LineWidth = 70

// A Record is a named sequence.
type Record struct {
	Name string
	Seq  string
}

// Read parses all records from a FASTA stream. Gzip input is
// recognized automatically. The record name is the first
// whitespace-separated token of the header line.
func Read(r io.Reader) (records []Record, err error) {
	input, err := utils.HandleGzip(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	reader := biofasta.NewReader(input, linear.NewSeq("", nil, alphabet.DNAredundant))
	for {
		s, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%v, while reading FASTA record %v", err, len(records)+1)
		}
		l := s.(*linear.Seq)
		seq := make([]byte, len(l.Seq))
		for i, letter := range l.Seq {
			seq[i] = byte(letter)
		}
		records = append(records, Record{Name: l.ID, Seq: string(seq)})
	}
}

// ReadFile parses all records from a FASTA file.
func ReadFile(filename string) (records []Record, err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer func() {
		if nerr := f.Close(); err == nil {
			err = nerr
		}
	}()
	return Read(f)
}

// Write writes records in FASTA format, wrapping sequences at
// LineWidth characters.
func Write(w io.Writer, records []Record) error {
	out := bufio.NewWriter(w)
	writer := biofasta.NewWriter(out, LineWidth)
	for _, record := range records {
		s := linear.NewSeq(record.Name, alphabet.BytesToLetters([]byte(record.Seq)), alphabet.DNAredundant)
		if _, err := writer.Write(s); err != nil {
			return fmt.Errorf("%v, while writing FASTA record %v", err, record.Name)
		}
	}
	return out.Flush()
}

// WriteFile writes records to a FASTA file.
func WriteFile(filename string, records []Record) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if nerr := f.Close(); err == nil {
			err = nerr
		}
	}()
	return Write(f, records)
}
