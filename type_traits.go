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

package colstore

import (
	"math"
	"unsafe"
)

// Offset is the set of integer types an offset index can hold. uint32
// offsets address up to 4GiB of values, uint64 offsets are used by large
// columns.
type Offset interface {
	~uint32 | ~uint64
}

// OffsetSizeBytes returns the width in bytes of the offset type T.
func OffsetSizeBytes[T Offset]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// MaxOffset returns the largest byte position representable by T, clamped
// to the platform int.
func MaxOffset[T Offset]() int {
	if OffsetSizeBytes[T]() == 4 {
		return int(min(uint64(math.MaxUint32), uint64(math.MaxInt)))
	}
	return math.MaxInt
}

// CastFromBytes reinterprets b as a slice of T. The returned slice shares
// memory with b and keeps the capacity of b in units of T.
func CastFromBytes[T Offset](b []byte) []T {
	if cap(b) == 0 {
		return nil
	}
	size := OffsetSizeBytes[T]()
	ptr := (*T)(unsafe.Pointer(unsafe.SliceData(b)))
	return unsafe.Slice(ptr, cap(b)/size)[:len(b)/size]
}
