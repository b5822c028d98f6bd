// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gen generates seeded random column data for tests and
// benchmarks.
package gen

import (
	"math"

	"github.com/vexdb/colstore"
	"github.com/vexdb/colstore/column"
	"github.com/vexdb/colstore/memory"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// RandomColumnGenerator builds random strings and binary columns from a
// seed. The same seed always yields the same data.
type RandomColumnGenerator struct {
	seed  uint64
	extra uint64
	mem   memory.Allocator
}

// NewRandomColumnGenerator constructs a new generator with the requested
// seed. Columns are allocated from mem.
func NewRandomColumnGenerator(seed uint64, mem memory.Allocator) RandomColumnGenerator {
	return RandomColumnGenerator{seed: seed, mem: mem}
}

// Lengths returns n lengths drawn uniformly from [minLen, maxLen].
func (r *RandomColumnGenerator) Lengths(n, minLen, maxLen int) []int {
	if minLen < 0 || maxLen < minLen {
		panic("invalid length bounds")
	}
	r.extra++
	dist := distuv.Uniform{
		Min: float64(minLen),
		Max: float64(maxLen) + 1,
		Src: rand.NewSource(r.seed + r.extra),
	}
	out := make([]int, n)
	for i := range out {
		out[i] = min(int(math.Floor(dist.Rand())), maxLen)
	}
	return out
}

// Strings returns n strings of 'A'..'Z' with lengths in [minLen, maxLen].
func (r *RandomColumnGenerator) Strings(n, minLen, maxLen int) []string {
	lengths := r.Lengths(n, minLen, maxLen)

	r.extra++
	dist := rand.New(rand.NewSource(r.seed + r.extra))
	strbuf := make([]byte, maxLen)

	out := make([]string, n)
	for i, l := range lengths {
		for j := 0; j < l; j++ {
			strbuf[j] = byte(dist.Intn(26) + 'A')
		}
		out[i] = string(strbuf[:l])
	}
	return out
}

// Binary returns a column of n random strings with lengths in
// [minLen, maxLen], appended row by row.
func (r *RandomColumnGenerator) Binary(n, minLen, maxLen int) (*column.BinaryColumn, error) {
	return randomColumn[uint32](r, n, minLen, maxLen)
}

// LargeBinary is Binary with 64-bit offsets.
func (r *RandomColumnGenerator) LargeBinary(n, minLen, maxLen int) (*column.LargeBinaryColumn, error) {
	return randomColumn[uint64](r, n, minLen, maxLen)
}

func randomColumn[T colstore.Offset](r *RandomColumnGenerator, n, minLen, maxLen int) (*column.Binary[T], error) {
	col, err := column.New[T](column.WithAllocator(r.mem))
	if err != nil {
		return nil, err
	}
	for _, s := range r.Strings(n, minLen, maxLen) {
		if err := col.AppendString(s); err != nil {
			col.Release()
			return nil, err
		}
	}
	return col, nil
}
