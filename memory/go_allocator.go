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
	"github.com/JohnCGriffin/overflow"
	"github.com/klauspost/cpuid/v2"
	"github.com/vexdb/colstore"
	"github.com/vexdb/colstore/internal/bitutil"
	"golang.org/x/xerrors"
)

// alignment is the larger of 64 bytes and the cache line size of the
// host CPU.
var alignment = func() int {
	if l := cpuid.CPU.CacheLine; l > defaultAlignment && bitutil.IsPowerOf2(l) {
		return l
	}
	return defaultAlignment
}()

// GoAllocator allocates aligned slices on the Go heap. Free is a no-op, the
// garbage collector reclaims released slices.
type GoAllocator struct{}

func NewGoAllocator() *GoAllocator { return &GoAllocator{} }

func (a *GoAllocator) Allocate(size int) (out []byte, err error) {
	if size < 0 {
		return nil, xerrors.Errorf("allocate %d bytes: %w", size, colstore.ErrOutOfMemory)
	}
	total, ok := overflow.Add(size, alignment) // padding for alignment
	if !ok {
		return nil, xerrors.Errorf("allocate %d bytes: %w", size, colstore.ErrOutOfMemory)
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = xerrors.Errorf("allocate %d bytes (%v): %w", size, r, colstore.ErrOutOfMemory)
		}
	}()

	buf := make([]byte, total)
	addr := int(addressOf(buf))
	next := bitutil.RoundUp(addr, alignment)
	if addr != next {
		shift := next - addr
		return buf[shift : size+shift : size+shift], nil
	}
	return buf[:size:size], nil
}

func (a *GoAllocator) Reallocate(size int, b []byte) ([]byte, error) {
	if size == len(b) {
		return b, nil
	}

	newBuf, err := a.Allocate(size)
	if err != nil {
		return nil, err
	}
	copy(newBuf, b)
	return newBuf, nil
}

func (a *GoAllocator) Free(b []byte) {}

var (
	_ Allocator = (*GoAllocator)(nil)
)
