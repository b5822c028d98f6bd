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

package column

import (
	"github.com/vexdb/colstore/internal/debug"
	"github.com/zeebo/xxh3"
)

// Hash folds every row into hashes, hashes[i] = xxh3(row i) seeded with the
// incoming hashes[i]. Calling Hash on several columns with the same slice
// yields a combined per-row hash, as used for shuffling and grouping.
// hashes must have at least Len() elements.
func (b *Binary[T]) Hash(hashes []uint64) {
	debug.Assert(len(hashes) >= b.Len(), "Hash: hashes shorter than column")
	for i := 0; i < b.Len(); i++ {
		hashes[i] = xxh3.HashSeed(b.Value(i), hashes[i])
	}
}

// HashRange is Hash restricted to rows [from, to); hashes[i-from] receives
// row i.
func (b *Binary[T]) HashRange(hashes []uint64, from, to int) {
	debug.Assert(from >= 0 && from <= to && to <= b.Len(), "HashRange: invalid range")
	for i := from; i < to; i++ {
		hashes[i-from] = xxh3.HashSeed(b.Value(i), hashes[i-from])
	}
}
