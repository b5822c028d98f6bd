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

// Package testutil holds assertions shared by colstore tests.
package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vexdb/colstore"
	"github.com/vexdb/colstore/column"
)

type snapshot[T colstore.Offset] struct {
	Offsets []T
	Rows    []string
}

func takeSnapshot[T colstore.Offset](c *column.Binary[T]) snapshot[T] {
	s := snapshot[T]{
		Offsets: append([]T{}, c.ValueOffsets()...),
		Rows:    make([]string, 0, c.Len()),
	}
	for i := 0; i < c.Len(); i++ {
		s.Rows = append(s.Rows, string(c.Value(i)))
	}
	return s
}

// AssertColumnsEqual fails t with a diff if the offsets or rows of got
// differ from want.
func AssertColumnsEqual[T colstore.Offset](t testing.TB, want, got *column.Binary[T]) {
	t.Helper()
	if diff := cmp.Diff(takeSnapshot(want), takeSnapshot(got)); diff != "" {
		t.Errorf("columns differ (-want +got):\n%s", diff)
	}
}

// AssertColumnRows fails t with a diff if the rows of got differ from want.
func AssertColumnRows[T colstore.Offset](t testing.TB, want []string, got *column.Binary[T]) {
	t.Helper()
	if diff := cmp.Diff(want, takeSnapshot(got).Rows); diff != "" {
		t.Errorf("rows differ (-want +got):\n%s", diff)
	}
}

// AssertValid fails t if got breaks an offset index invariant.
func AssertValid[T colstore.Offset](t testing.TB, got *column.Binary[T]) {
	t.Helper()
	if err := got.Validate(); err != nil {
		t.Errorf("invalid column: %v", err)
	}
	off := got.ValueOffsets()
	if len(off) != got.Len()+1 {
		t.Errorf("len(offsets) = %d, want %d", len(off), got.Len()+1)
	}
}
