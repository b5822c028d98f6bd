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
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory is returned when an allocator cannot satisfy a request.
	// The operation that failed leaves its target unchanged.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrIndex is returned when a row index, row range or count is out of
	// bounds.
	ErrIndex = errors.New("index out of range")
	// ErrInvalidState indicates a broken internal invariant, such as an
	// offset pushed out of order.
	ErrInvalidState = errors.New("invalid state")
	// ErrFrozen is returned by mutations of a frozen column.
	ErrFrozen = fmt.Errorf("%w: column is frozen", ErrInvalidState)
	// ErrOffsetOverflow is returned when the values of a column would no
	// longer be addressable by its offset type.
	ErrOffsetOverflow = errors.New("offset overflow")
)
