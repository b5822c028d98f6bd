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

package memory

import (
	"fmt"
	"sync/atomic"

	"github.com/JohnCGriffin/overflow"
	"github.com/vexdb/colstore"
	"github.com/vexdb/colstore/internal/bitutil"
	"github.com/vexdb/colstore/internal/debug"
	"golang.org/x/xerrors"
)

// DefaultGrowthFactor is the factor by which a Buffer multiplies its
// capacity when an append does not fit.
const DefaultGrowthFactor = 2

// Buffer is a growable, contiguous byte buffer backed by an Allocator.
//
// Capacity grows geometrically, so a sequence of appends totalling B bytes
// performs O(log B) reallocations. Any growth moves the contents: slices
// previously obtained from Bytes or Buf must not be used after a call that
// may grow the buffer.
//
// A Buffer is reference counted. It is not safe for concurrent mutation.
type Buffer struct {
	refCount int64
	mem      Allocator
	buf      []byte
	length   int

	growthFactor int
	allocs       int
}

// BufferOption configures a Buffer.
type BufferOption func(*Buffer)

// WithGrowthFactor sets the capacity multiplier used on growth. Factors
// below 2 are raised to 2.
func WithGrowthFactor(f int) BufferOption {
	return func(b *Buffer) {
		b.growthFactor = max(f, DefaultGrowthFactor)
	}
}

// NewResizableBuffer creates an empty buffer that allocates from mem.
func NewResizableBuffer(mem Allocator, opts ...BufferOption) *Buffer {
	b := &Buffer{refCount: 1, mem: mem, growthFactor: DefaultGrowthFactor}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Retain increases the reference count by 1.
func (b *Buffer) Retain() {
	atomic.AddInt64(&b.refCount, 1)
}

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is returned to the allocator.
func (b *Buffer) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if atomic.AddInt64(&b.refCount, -1) == 0 {
		if b.buf != nil {
			b.mem.Free(b.buf)
		}
		b.buf, b.length = nil, 0
	}
}

// Bytes returns the occupied bytes. The slice is capped at its length.
func (b *Buffer) Bytes() []byte { return b.buf[:b.length:b.length] }

// Buf returns the whole allocation, including unused capacity.
func (b *Buffer) Buf() []byte { return b.buf }

// Len returns the number of occupied bytes.
func (b *Buffer) Len() int { return b.length }

// Cap returns the number of allocated bytes.
func (b *Buffer) Cap() int { return len(b.buf) }

// Allocations returns how many times the buffer obtained new storage.
func (b *Buffer) Allocations() int { return b.allocs }

// Reserve ensures that n more bytes can be appended without growing.
func (b *Buffer) Reserve(n int) error {
	need, ok := overflow.Add(b.length, n)
	if !ok || n < 0 {
		return xerrors.Errorf("reserve %d bytes after %d: %w", n, b.length, colstore.ErrOutOfMemory)
	}
	if need <= len(b.buf) {
		return nil
	}
	return b.grow(need)
}

func (b *Buffer) grow(need int) error {
	newCap, ok := overflow.Mul(len(b.buf), b.growthFactor)
	if !ok || newCap < need {
		newCap = need
	}
	if rounded := bitutil.RoundUpToMultipleOf64(newCap); rounded >= newCap {
		newCap = rounded
	}

	var (
		buf []byte
		err error
	)
	if b.buf == nil {
		buf, err = b.mem.Allocate(newCap)
	} else {
		buf, err = b.mem.Reallocate(newCap, b.buf)
	}
	if err != nil {
		return xerrors.Errorf("grow buffer from %d to %d bytes: %w", len(b.buf), newCap, err)
	}

	debug.Log(func() string {
		return fmt.Sprintf("buffer grown from %d to %d bytes (len=%d)", len(b.buf), newCap, b.length)
	})
	b.buf = buf
	b.allocs++
	return nil
}

// Append copies p to the end of the buffer, growing it if needed. If the
// buffer cannot grow, Append returns an error wrapping
// colstore.ErrOutOfMemory and the contents are unchanged.
func (b *Buffer) Append(p []byte) error {
	if err := b.Reserve(len(p)); err != nil {
		return err
	}
	b.UnsafeAppend(p)
	return nil
}

// UnsafeAppend copies p to the end of the buffer. The caller must have
// reserved room for it.
func (b *Buffer) UnsafeAppend(p []byte) {
	debug.Assert(b.length+len(p) <= len(b.buf), "UnsafeAppend past capacity")
	b.length += copy(b.buf[b.length:], p)
}

// UnsafeAppendString is UnsafeAppend for a string.
func (b *Buffer) UnsafeAppendString(s string) {
	debug.Assert(b.length+len(s) <= len(b.buf), "UnsafeAppendString past capacity")
	b.length += copy(b.buf[b.length:], s)
}

// SetLen sets the number of occupied bytes. n must not exceed Cap.
func (b *Buffer) SetLen(n int) {
	debug.Assert(n >= 0 && n <= len(b.buf), "SetLen out of range")
	b.length = n
}

// Reset empties the buffer and keeps its allocation.
func (b *Buffer) Reset() { b.length = 0 }
