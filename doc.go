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

/*
Package colstore provides the storage primitives of a vectorized execution
engine's variable-length binary columns.

The column itself lives in package column. Its backing memory is obtained
from a memory.Allocator and held in memory.Buffer values, one for the row
bytes and one for the offset index that delimits rows inside them.

# Views

Values read from a column are returned as slices that alias the column's
storage. A view is only valid until the next mutation of the column that
owns it: any append may reallocate the backing buffer. Callers that need a
value to outlive a mutation must copy it, or read it through Rows which
yields owned copies.

# Concurrency

A column has a single writer and no internal locking. Once frozen, it may be
read from any number of goroutines.
*/
package colstore
