// Copyright 2024 The pipeql Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// DefaultAllocator is the process-wide Arrow memory allocator used when
// a component does not supply its own. Kept as a single shared value so
// arenas aren't created per-batch.
var DefaultAllocator memory.Allocator = memory.NewGoAllocator()

// ArrayBuilder is the builder contract: a logical type
// plus a buffer strategy, finalized into an Array.
type ArrayBuilder struct {
	logical LogicalType
	inner array.Builder
}

// NewArrayBuilder constructs a builder for logical, backed by the
// Arrow builder appropriate to its physical storage.
func NewArrayBuilder(logical LogicalType, mem memory.Allocator) ArrayBuilder {
	if mem == nil {
		mem = DefaultAllocator
	}
	return ArrayBuilder{
		logical: logical,
		inner: array.NewBuilder(mem, logical.ArrowDataType()),
	}
}

// LogicalType returns the type this builder produces.
func (b ArrayBuilder) LogicalType() LogicalType { return b.logical }

// Inner exposes the underlying Arrow builder for physical-storage-typed
// appends (the executors' write side).
func (b ArrayBuilder) Inner() array.Builder { return b.inner }

// AppendNull appends a null value.
func (b ArrayBuilder) AppendNull() { b.inner.AppendNull() }

// Len returns the number of values appended so far.
func (b ArrayBuilder) Len() int { return b.inner.Len() }

// Reserve pre-allocates n additional slots, the PrimitiveBuffer
// with_len(n) behavior for fixed-width types.
func (b ArrayBuilder) Reserve(n int) { b.inner.Reserve(n) }

// NewArray finalizes the builder into an Array and resets it for
// reuse, matching Arrow builder semantics.
func (b ArrayBuilder) NewArray() Array {
	return NewArray(b.logical, b.inner.NewArray())
}

// Release releases the builder's underlying memory without finalizing.
func (b ArrayBuilder) Release() { b.inner.Release() }

// PrimitiveBuffer is the pre-sized fixed-width buffer strategy named in
// ("PrimitiveBuffer::with_len(n) pre-allocates n
// fixed-width slots"). For pipeql this is simply Reserve plus a count
// of slots claimed, since Arrow's primitive builders already provide
// contiguous fixed-width storage.
type PrimitiveBuffer struct {
	ArrayBuilder
	capacity int
}

// WithLen pre-allocates n fixed-width slots.
func WithLen(logical LogicalType, n int, mem memory.Allocator) PrimitiveBuffer {
	b := NewArrayBuilder(logical, mem)
	b.Reserve(n)
	return PrimitiveBuffer{ArrayBuilder: b, capacity: n}
}

// Capacity returns the number of slots this buffer was sized for.
func (p PrimitiveBuffer) Capacity() int { return p.capacity }
