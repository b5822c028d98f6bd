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
	"github.com/JohnCGriffin/overflow"
	"github.com/vexdb/colstore"
	"github.com/vexdb/colstore/internal/debug"
	"github.com/vexdb/colstore/memory"
	"golang.org/x/xerrors"
)

// offsetIndex is the ordered sequence of cumulative end positions that
// delimits rows in a values buffer. It always holds rows+1 entries and
// starts with 0.
type offsetIndex[T colstore.Offset] struct {
	buf    *memory.Buffer
	values []T
	width  int
}

func newOffsetIndex[T colstore.Offset](mem memory.Allocator, opts ...memory.BufferOption) (*offsetIndex[T], error) {
	o := &offsetIndex[T]{
		buf:   memory.NewResizableBuffer(mem, opts...),
		width: colstore.OffsetSizeBytes[T](),
	}
	if err := o.buf.Reserve(o.width); err != nil {
		o.buf.Release()
		return nil, err
	}
	o.remap()
	o.unsafePush(0)
	return o, nil
}

func (o *offsetIndex[T]) remap() {
	o.values = colstore.CastFromBytes[T](o.buf.Buf()[:o.buf.Len()])
}

// len returns the number of rows delimited by the index.
func (o *offsetIndex[T]) len() int { return len(o.values) - 1 }

func (o *offsetIndex[T]) last() T { return o.values[len(o.values)-1] }

// reserve makes room for n more entries.
func (o *offsetIndex[T]) reserve(n int) error {
	nbytes, ok := overflow.Mul(n, o.width)
	if !ok {
		return xerrors.Errorf("reserve %d offsets: %w", n, colstore.ErrOutOfMemory)
	}
	if err := o.buf.Reserve(nbytes); err != nil {
		return err
	}
	o.remap()
	return nil
}

// push appends end to the index. end must not be smaller than the last
// entry.
func (o *offsetIndex[T]) push(end T) error {
	if last := o.last(); end < last {
		return xerrors.Errorf("offset %d pushed after %d: %w", end, last, colstore.ErrInvalidState)
	}
	if err := o.reserve(1); err != nil {
		return err
	}
	o.unsafePush(end)
	return nil
}

// unsafePush appends end without growing or ordering checks.
func (o *offsetIndex[T]) unsafePush(end T) {
	n := len(o.values)
	debug.Assert((n+1)*o.width <= o.buf.Cap(), "offset index past capacity")
	debug.Assert(n == 0 || end >= o.values[n-1], "offset index out of order")
	o.values = o.values[:n+1]
	o.values[n] = end
	o.buf.SetLen((n + 1) * o.width)
}

// bounds returns the start and end positions of row i.
func (o *offsetIndex[T]) bounds(i int) (T, T, error) {
	if i < 0 || i >= o.len() {
		return 0, 0, xerrors.Errorf("row %d of %d: %w", i, o.len(), colstore.ErrIndex)
	}
	return o.values[i], o.values[i+1], nil
}

// reset drops every row, keeping the leading 0 and the allocation.
func (o *offsetIndex[T]) reset() {
	o.values = o.values[:1]
	o.buf.SetLen(o.width)
}

func (o *offsetIndex[T]) release() {
	o.buf.Release()
	o.buf, o.values = nil, nil
}
