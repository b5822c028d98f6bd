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

package column_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vexdb/colstore/column"
	"github.com/vexdb/colstore/internal/testing/gen"
	"github.com/vexdb/colstore/memory"
	"golang.org/x/sync/errgroup"
)

func TestBinaryFrozenConcurrentReaders(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	g := gen.NewRandomColumnGenerator(99, mem)
	src, err := g.Binary(2048, 0, 32)
	require.NoError(t, err)
	defer src.Release()
	src.Freeze()

	want := make([]uint64, src.Len())
	src.Hash(want)

	var eg errgroup.Group
	for w := 0; w < 8; w++ {
		eg.Go(func() error {
			dst, err := column.NewBinary(column.WithAllocator(mem))
			if err != nil {
				return err
			}
			defer dst.Release()

			if w%2 == 0 {
				for v := range src.Rows() {
					if err := dst.Append(v); err != nil {
						return err
					}
				}
			} else {
				for i := src.Len() - 1; i >= 0; i-- {
					v, err := src.Row(i)
					if err != nil {
						return err
					}
					if string(v) != src.ValueString(i) {
						return fmt.Errorf("worker %d: row %d changed", w, i)
					}
				}
				if err := dst.AppendRange(src, 0, src.Len()); err != nil {
					return err
				}
			}

			got := make([]uint64, dst.Len())
			dst.Hash(got)
			for i := range got {
				if got[i] != want[i] {
					return fmt.Errorf("worker %d: hash of row %d differs", w, i)
				}
			}
			return nil
		})
	}
	assert.NoError(t, eg.Wait())
}
