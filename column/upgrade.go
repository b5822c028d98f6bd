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

// Upgrade copies a column with 32-bit offsets into a new column with 64-bit
// offsets that allocates from the same allocator. It is the way out when an
// append to src fails with colstore.ErrOffsetOverflow.
func Upgrade(src *BinaryColumn) (*LargeBinaryColumn, error) {
	out, err := NewLargeBinary(
		WithAllocator(src.mem),
		WithGrowthFactor(src.growthFactor),
		WithReserve(src.Len(), src.DataLen()),
	)
	if err != nil {
		return nil, err
	}
	out.values.UnsafeAppend(src.values.Bytes())
	for _, o := range src.offsets.values[1:] {
		out.offsets.unsafePush(uint64(o))
	}
	return out, nil
}
