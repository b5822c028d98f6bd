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

import "github.com/vexdb/colstore/memory"

type config struct {
	mem          memory.Allocator
	rows, bytes  int
	growthFactor int
}

// Option configures a column at construction.
type Option func(*config)

// WithAllocator sets the allocator for the column's buffers. The default is
// memory.DefaultAllocator.
func WithAllocator(mem memory.Allocator) Option {
	return func(c *config) {
		c.mem = mem
	}
}

// WithReserve preallocates room for the given number of rows and value
// bytes.
func WithReserve(rows, bytes int) Option {
	return func(c *config) {
		c.rows, c.bytes = rows, bytes
	}
}

// WithGrowthFactor sets the factor by which both buffers grow when full.
// Factors below 2 are raised to 2.
func WithGrowthFactor(f int) Option {
	return func(c *config) {
		c.growthFactor = f
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		mem:          memory.DefaultAllocator,
		growthFactor: memory.DefaultGrowthFactor,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
