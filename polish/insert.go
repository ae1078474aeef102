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
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/biogo/hts/sam"
	"gonum.org/v1/gonum/stat"
)

// InsertSizes returns the positive template lengths of all records in
// a SAM stream, so each properly aligned pair contributes once.
func InsertSizes(r io.Reader) (sizes []float64, err error) {
	reader, err := sam.NewReader(r)
	if err != nil {
		return nil, err
	}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			return sizes, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%v, while reading SAM record %v", err, len(sizes)+1)
		}
		if rec.TempLen > 0 {
			sizes = append(sizes, float64(rec.TempLen))
		}
	}
}

// PercentileSorted returns the given percentile of sorted values,
// interpolating linearly between the two closest ranks.
func PercentileSorted(sorted []float64, percentile float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := float64(len(sorted)-1) * percentile / 100
	lower, upper := math.Floor(index), math.Ceil(index)
	if lower == upper {
		return sorted[int(index)]
	}
	return sorted[int(lower)]*(upper-index) + sorted[int(upper)]*(index-lower)
}

// InsertSizeStats returns the mean and the 5th and 95th percentiles
// of the insert sizes. The argument is not modified.
func InsertSizeStats(sizes []float64) (mean, p5, p95 float64, err error) {
	if len(sizes) == 0 {
		return 0, 0, 0, errors.New("no insert sizes")
	}
	sorted := make([]float64, len(sizes))
	copy(sorted, sizes)
	sort.Float64s(sorted)
	mean = stat.Mean(sorted, nil)
	return mean, PercentileSorted(sorted, 5), PercentileSorted(sorted, 95), nil
}

// FilterByInsertSize copies the SAM header and the records whose
// absolute template length lies within [min, max].
func FilterByInsertSize(r io.Reader, w io.Writer, min, max float64) (kept int, err error) {
	reader, err := sam.NewReader(r)
	if err != nil {
		return 0, err
	}
	out := bufio.NewWriter(w)
	writer, err := sam.NewWriter(out, reader.Header(), sam.FlagDecimal)
	if err != nil {
		return 0, err
	}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return kept, err
		}
		size := math.Abs(float64(rec.TempLen))
		if min <= size && size <= max {
			if err := writer.Write(rec); err != nil {
				return kept, err
			}
			kept++
		}
	}
	return kept, out.Flush()
}
