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
	"fmt"
	"strings"

	"github.com/vexdb/colstore/internal/json"
)

func (b *Binary[T]) String() string {
	o := new(strings.Builder)
	o.WriteString("[")
	for i := 0; i < b.Len(); i++ {
		if i > 0 {
			o.WriteString(" ")
		}
		fmt.Fprintf(o, "%q", b.ValueString(i))
	}
	o.WriteString("]")
	return o.String()
}

// GetOneForMarshal returns an owned copy of row i.
func (b *Binary[T]) GetOneForMarshal(i int) interface{} {
	return append([]byte{}, b.Value(i)...)
}

// MarshalJSON encodes the column as a JSON array of base64 strings, one per
// row.
func (b *Binary[T]) MarshalJSON() ([]byte, error) {
	vals := make([]interface{}, b.Len())
	for i := range vals {
		vals[i] = b.GetOneForMarshal(i)
	}
	return json.Marshal(vals)
}

var (
	_ fmt.Stringer   = (*BinaryColumn)(nil)
	_ json.Marshaler = (*BinaryColumn)(nil)
	_ json.Marshaler = (*LargeBinaryColumn)(nil)
)
