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
	"bytes"
	"iter"
	"slices"
	"sync/atomic"
	"unsafe"

	"github.com/JohnCGriffin/overflow"
	"github.com/vexdb/colstore"
	"github.com/vexdb/colstore/internal/debug"
	"github.com/vexdb/colstore/memory"
	"golang.org/x/xerrors"
)

// Binary is a column of variable-length byte strings. Values are stored
// back to back in a single values buffer; an offset index of Len()+1
// entries of type T delimits the rows, so row i is
// values[offsets[i]:offsets[i+1]].
//
// Views returned by Row, Value, ValueString and ValueBytes alias the
// column's storage and are only valid until the next mutation or the final
// Release of the column. A Binary has a single writer. Once frozen it may be
// read concurrently.
type Binary[T colstore.Offset] struct {
	refCount int64
	frozen   atomic.Bool

	mem          memory.Allocator
	growthFactor int
	offsets      *offsetIndex[T]
	values       *memory.Buffer
}

// BinaryColumn addresses its values with 32-bit offsets.
type BinaryColumn = Binary[uint32]

// LargeBinaryColumn addresses its values with 64-bit offsets.
type LargeBinaryColumn = Binary[uint64]

// NewBinary creates an empty column with 32-bit offsets.
func NewBinary(opts ...Option) (*BinaryColumn, error) { return New[uint32](opts...) }

// NewLargeBinary creates an empty column with 64-bit offsets.
func NewLargeBinary(opts ...Option) (*LargeBinaryColumn, error) { return New[uint64](opts...) }

// New creates an empty column with offsets of type T. It fails if the
// reservation hint is negative or the allocator cannot satisfy it.
func New[T colstore.Offset](opts ...Option) (*Binary[T], error) {
	cfg := newConfig(opts)
	growth := memory.WithGrowthFactor(cfg.growthFactor)

	offsets, err := newOffsetIndex[T](cfg.mem, growth)
	if err != nil {
		return nil, err
	}
	b := &Binary[T]{
		refCount:     1,
		mem:          cfg.mem,
		growthFactor: cfg.growthFactor,
		offsets:      offsets,
		values:       memory.NewResizableBuffer(cfg.mem, growth),
	}
	if err := b.Reserve(cfg.rows, cfg.bytes); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// Retain increases the reference count by 1.
// Retain may be called simultaneously from multiple goroutines.
func (b *Binary[T]) Retain() {
	atomic.AddInt64(&b.refCount, 1)
}

// Release decreases the reference count by 1.
// When the reference count goes to zero, both buffers are returned to the
// allocator and every outstanding view becomes invalid.
// Release may be called simultaneously from multiple goroutines.
func (b *Binary[T]) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if atomic.AddInt64(&b.refCount, -1) == 0 {
		if b.offsets != nil {
			b.offsets.release()
			b.offsets = nil
		}
		if b.values != nil {
			b.values.Release()
			b.values = nil
		}
	}
}

// Freeze marks the column read-only. Subsequent mutations fail with
// colstore.ErrFrozen and reads may proceed from many goroutines.
func (b *Binary[T]) Freeze() { b.frozen.Store(true) }

// Frozen reports whether Freeze has been called.
func (b *Binary[T]) Frozen() bool { return b.frozen.Load() }

func (b *Binary[T]) checkMutable() error {
	if b.frozen.Load() {
		return colstore.ErrFrozen
	}
	return nil
}

// Len returns the number of rows.
func (b *Binary[T]) Len() int { return b.offsets.len() }

// DataLen returns the total number of value bytes.
func (b *Binary[T]) DataLen() int { return b.values.Len() }

// DataCap returns the number of value bytes that fit without growing.
func (b *Binary[T]) DataCap() int { return b.values.Cap() }

// MemoryUsage returns the bytes allocated for values and offsets.
func (b *Binary[T]) MemoryUsage() int { return b.values.Cap() + b.offsets.buf.Cap() }

// ValueBytes returns the concatenated bytes of every row. The slice must not
// be mutated.
func (b *Binary[T]) ValueBytes() []byte { return b.values.Bytes() }

// ValueOffsets returns the offset index, Len()+1 entries starting at 0. The
// slice must not be mutated.
func (b *Binary[T]) ValueOffsets() []T {
	return b.offsets.values[:len(b.offsets.values):len(b.offsets.values)]
}

// ValueOffset returns the position of the first byte of row i.
func (b *Binary[T]) ValueOffset(i int) int { return int(b.offsets.values[i]) }

// ValueLen returns the length of row i.
func (b *Binary[T]) ValueLen(i int) int {
	return int(b.offsets.values[i+1] - b.offsets.values[i])
}

// Row returns a view of row i, or an error wrapping colstore.ErrIndex if i is
// out of range. The view must not be mutated and is invalidated by the next
// mutation of the column.
func (b *Binary[T]) Row(i int) ([]byte, error) {
	start, end, err := b.offsets.bounds(i)
	if err != nil {
		return nil, err
	}
	return b.values.Bytes()[start:end:end], nil
}

// Value returns a view of row i. Like a slice index, it panics if i is out of
// range.
func (b *Binary[T]) Value(i int) []byte {
	off := b.offsets.values
	start, end := off[i], off[i+1]
	return b.values.Bytes()[start:end:end]
}

// ValueString returns row i as a string without copying. The string is only
// valid as long as a view of the row would be.
func (b *Binary[T]) ValueString(i int) string {
	v := b.Value(i)
	return unsafe.String(unsafe.SliceData(v), len(v))
}

// Rows returns a sequence of owned copies of every row, in order. Each
// iteration of the sequence copies the rows afresh.
func (b *Binary[T]) Rows() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for i := 0; i < b.Len(); i++ {
			v := b.Value(i)
			if !yield(append(make([]byte, 0, len(v)), v...)) {
				return
			}
		}
	}
}

// Reserve ensures that rows more rows holding nbytes more value bytes can
// be appended without growing either buffer. Negative counts fail with
// colstore.ErrIndex.
func (b *Binary[T]) Reserve(rows, nbytes int) error {
	if rows < 0 || nbytes < 0 {
		return xerrors.Errorf("reserve %d rows of %d bytes: %w", rows, nbytes, colstore.ErrIndex)
	}
	if err := b.offsets.reserve(rows); err != nil {
		return err
	}
	return b.values.Reserve(nbytes)
}

// nextEnd returns the end offset of a row of n bytes appended after the
// current values.
func (b *Binary[T]) nextEnd(n int) (T, error) {
	end, ok := overflow.Add(b.values.Len(), n)
	if !ok || n < 0 || end > colstore.MaxOffset[T]() {
		return 0, xerrors.Errorf("append %d bytes after %d: %w", n, b.values.Len(), colstore.ErrOffsetOverflow)
	}
	return T(end), nil
}

// pushEnd records the end of a row whose bytes were already appended. A
// rejected offset means the append path computed it wrong.
func (b *Binary[T]) pushEnd(end T) {
	if err := b.offsets.push(end); err != nil {
		panic(err)
	}
}

// Append appends v as a new row. On failure the column is unchanged.
func (b *Binary[T]) Append(v []byte) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	end, err := b.nextEnd(len(v))
	if err != nil {
		return err
	}
	if err := b.offsets.reserve(1); err != nil {
		return err
	}
	if err := b.values.Append(v); err != nil {
		return err
	}
	b.pushEnd(end)
	return nil
}

// AppendString appends s as a new row.
func (b *Binary[T]) AppendString(s string) error {
	return b.Append(unsafe.Slice(unsafe.StringData(s), len(s)))
}

// AppendView appends a copy of the bytes v refers to, typically a view
// obtained from another column. Passing a view of the receiver itself is
// not supported: growth may move the bytes v refers to. Use AppendRange or
// AppendSelective to copy rows within a column.
func (b *Binary[T]) AppendView(v []byte) error {
	return b.Append(v)
}

// AppendValues appends each element of vs as a row, reserving once.
func (b *Binary[T]) AppendValues(vs [][]byte) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	total := 0
	for _, v := range vs {
		var ok bool
		if total, ok = overflow.Add(total, len(v)); !ok {
			return xerrors.Errorf("append %d rows: %w", len(vs), colstore.ErrOffsetOverflow)
		}
	}
	if _, err := b.nextEnd(total); err != nil {
		return err
	}
	if err := b.Reserve(len(vs), total); err != nil {
		return err
	}
	for _, v := range vs {
		b.values.UnsafeAppend(v)
		b.offsets.unsafePush(T(b.values.Len()))
	}
	return nil
}

// AppendStrings appends each element of vs as a row, reserving once.
func (b *Binary[T]) AppendStrings(vs []string) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	total := 0
	for _, v := range vs {
		var ok bool
		if total, ok = overflow.Add(total, len(v)); !ok {
			return xerrors.Errorf("append %d rows: %w", len(vs), colstore.ErrOffsetOverflow)
		}
	}
	if _, err := b.nextEnd(total); err != nil {
		return err
	}
	if err := b.Reserve(len(vs), total); err != nil {
		return err
	}
	for _, v := range vs {
		b.values.UnsafeAppendString(v)
		b.offsets.unsafePush(T(b.values.Len()))
	}
	return nil
}

// AppendValueMultipleTimes appends n rows, each a copy of v.
func (b *Binary[T]) AppendValueMultipleTimes(v []byte, n int) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if n < 0 {
		return xerrors.Errorf("repeat count %d: %w", n, colstore.ErrIndex)
	}
	total, ok := overflow.Mul(len(v), n)
	if !ok {
		return xerrors.Errorf("append %d copies of %d bytes: %w", n, len(v), colstore.ErrOffsetOverflow)
	}
	if _, err := b.nextEnd(total); err != nil {
		return err
	}
	if err := b.Reserve(n, total); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		b.values.UnsafeAppend(v)
		b.offsets.unsafePush(T(b.values.Len()))
	}
	return nil
}

// AppendRange appends rows [start, end) of src with a single copy of their
// contiguous value bytes followed by the rebased offsets. src may be the
// receiver.
func (b *Binary[T]) AppendRange(src *Binary[T], start, end int) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if start < 0 || end < start || end > src.Len() {
		return xerrors.Errorf("range [%d, %d) of %d rows: %w", start, end, src.Len(), colstore.ErrIndex)
	}
	n := end - start
	if n == 0 {
		return nil
	}

	srcOffsets := src.offsets.values
	lo, hi := int(srcOffsets[start]), int(srcOffsets[end])
	last, err := b.nextEnd(hi - lo)
	if err != nil {
		return err
	}
	if err := b.Reserve(n, hi-lo); err != nil {
		return err
	}

	// reserving may have moved src's storage when src is b.
	srcOffsets = src.offsets.values
	base := T(b.values.Len())
	b.values.UnsafeAppend(src.values.Bytes()[lo:hi])
	first := srcOffsets[start]
	for _, o := range srcOffsets[start+1 : end+1] {
		b.offsets.unsafePush(o - first + base)
	}

	debug.Assert(b.offsets.last() == last, "AppendRange: offsets do not match values")
	return nil
}

// AppendSelective appends the rows of src at the given indexes, in order.
// If any index is out of range nothing is appended. src may be the
// receiver.
func (b *Binary[T]) AppendSelective(src *Binary[T], indexes []int) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	total := 0
	for _, i := range indexes {
		if i < 0 || i >= src.Len() {
			return xerrors.Errorf("row %d of %d: %w", i, src.Len(), colstore.ErrIndex)
		}
		var ok bool
		if total, ok = overflow.Add(total, src.ValueLen(i)); !ok {
			return xerrors.Errorf("gather %d rows: %w", len(indexes), colstore.ErrOffsetOverflow)
		}
	}
	if _, err := b.nextEnd(total); err != nil {
		return err
	}
	if err := b.Reserve(len(indexes), total); err != nil {
		return err
	}
	for _, i := range indexes {
		b.values.UnsafeAppend(src.Value(i))
		b.offsets.unsafePush(T(b.values.Len()))
	}
	return nil
}

// Reset removes every row and keeps the allocated capacity.
func (b *Binary[T]) Reset() error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	b.values.Reset()
	b.offsets.reset()
	return nil
}

// Clone returns an unfrozen deep copy of the column that allocates from the
// same allocator.
func (b *Binary[T]) Clone() (*Binary[T], error) {
	out, err := New[T](
		WithAllocator(b.mem),
		WithGrowthFactor(b.growthFactor),
		WithReserve(b.Len(), b.DataLen()),
	)
	if err != nil {
		return nil, err
	}
	if err := out.AppendRange(b, 0, b.Len()); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// CompareAt compares row i of b with row j of other lexicographically.
func (b *Binary[T]) CompareAt(i, j int, other *Binary[T]) int {
	return bytes.Compare(b.Value(i), other.Value(j))
}

// Equal reports whether both columns hold the same rows.
func (b *Binary[T]) Equal(other *Binary[T]) bool {
	return b.Len() == other.Len() &&
		slices.Equal(b.offsets.values, other.offsets.values) &&
		bytes.Equal(b.values.Bytes(), other.values.Bytes())
}

// Validate checks the offset index against the values buffer and returns an
// error wrapping colstore.ErrInvalidState describing the first violation.
func (b *Binary[T]) Validate() error {
	off := b.offsets.values
	switch {
	case len(off) == 0:
		return xerrors.Errorf("empty offset index: %w", colstore.ErrInvalidState)
	case off[0] != 0:
		return xerrors.Errorf("first offset is %d: %w", off[0], colstore.ErrInvalidState)
	case int(off[len(off)-1]) != b.values.Len():
		return xerrors.Errorf("last offset %d, values hold %d bytes: %w",
			off[len(off)-1], b.values.Len(), colstore.ErrInvalidState)
	}
	for i := 1; i < len(off); i++ {
		if off[i] < off[i-1] {
			return xerrors.Errorf("offset %d at row %d is below %d: %w", off[i], i, off[i-1], colstore.ErrInvalidState)
		}
	}
	return nil
}
