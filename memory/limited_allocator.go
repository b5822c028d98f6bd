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
	"sync/atomic"

	"github.com/vexdb/colstore"
	"golang.org/x/xerrors"
)

// LimitedAllocator wraps an Allocator with a budget of live bytes. Requests
// that would take the total past the budget fail with
// colstore.ErrOutOfMemory without reaching the wrapped allocator.
type LimitedAllocator struct {
	mem   Allocator
	limit int64
	sz    atomic.Int64
}

func NewLimitedAllocator(mem Allocator, limit int) *LimitedAllocator {
	return &LimitedAllocator{mem: mem, limit: int64(limit)}
}

func (a *LimitedAllocator) Limit() int        { return int(a.limit) }
func (a *LimitedAllocator) CurrentAlloc() int { return int(a.sz.Load()) }

func (a *LimitedAllocator) take(n int) error {
	if n <= 0 {
		a.sz.Add(int64(n))
		return nil
	}
	for {
		cur := a.sz.Load()
		if cur+int64(n) > a.limit {
			return xerrors.Errorf("request of %d bytes exceeds limit %d with %d in use: %w",
				n, a.limit, cur, colstore.ErrOutOfMemory)
		}
		if a.sz.CompareAndSwap(cur, cur+int64(n)) {
			return nil
		}
	}
}

func (a *LimitedAllocator) Allocate(size int) ([]byte, error) {
	if err := a.take(size); err != nil {
		return nil, err
	}
	out, err := a.mem.Allocate(size)
	if err != nil {
		a.sz.Add(-int64(size))
		return nil, err
	}
	return out, nil
}

func (a *LimitedAllocator) Reallocate(size int, b []byte) ([]byte, error) {
	delta := size - len(b)
	if err := a.take(delta); err != nil {
		return nil, err
	}
	out, err := a.mem.Reallocate(size, b)
	if err != nil {
		a.sz.Add(-int64(delta))
		return nil, err
	}
	return out, nil
}

func (a *LimitedAllocator) Free(b []byte) {
	a.sz.Add(-int64(len(b)))
	a.mem.Free(b)
}

var (
	_ Allocator = (*LimitedAllocator)(nil)
)
