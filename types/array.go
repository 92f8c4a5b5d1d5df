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
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/pipeql/pipeql/internal/errkind"
)

// Array is a columnar container: a logical type, a logical length, a
// validity lookup per index, and a typed value buffer backed by an
// Arrow array ("Array"). It never owns raw buffers itself;
// arrow.Array is the canonical physical encoding.
type Array struct {
	logical LogicalType
	data arrow.Array
}

// NewArray wraps an existing Arrow array with its logical type. The
// caller asserts that data's physical layout matches logical.Physical().
func NewArray(logical LogicalType, data arrow.Array) Array {
	return Array{logical: logical, data: data}
}

// LogicalType returns this array's SQL-level type.
func (a Array) LogicalType() LogicalType { return a.logical }

// Physical returns the physical storage tag backing this array.
func (a Array) Physical() PhysicalStorage { return a.logical.Physical() }

// Len returns the logical length (row count) of the array.
func (a Array) Len() int {
	if a.data == nil {
		return 0
	}
	return a.data.Len()
}

// IsValid reports whether the value at i is non-null. An array with no
// validity bitmap (all-valid) reports true for every index in range.
func (a Array) IsValid(i int) bool {
	if a.data == nil {
		return false
	}
	return a.data.IsValid(i)
}

// IsNull is the complement of IsValid.
func (a Array) IsNull(i int) bool { return !a.IsValid(i) }

// Arrow exposes the underlying Arrow array for physical-storage-typed
// access by the kernel executors.
func (a Array) Arrow() arrow.Array { return a.data }

// CheckPhysical validates that a's physical storage tag matches want,
// the failure mode kernel executors must surface as InvalidArgument
// rather than panic.
func (a Array) CheckPhysical(want PhysicalStorage) error {
	if got := a.Physical(); got != want {
		return errkind.InvalidArgument.New(errkind.PhysicalMismatch.New(want, got).Error())
	}
	return nil
}

// Release drops this array's reference to its underlying Arrow buffer.
func (a Array) Release() {
	if a.data != nil {
		a.data.Release()
	}
}

// Retain increments the reference count of the underlying Arrow
// buffer, needed when an array is shared across multiple chains (e.g.
// materialization replay).
func (a Array) Retain() {
	if a.data != nil {
		a.data.Retain()
	}
}

// Slice returns a zero-copy view over [i, j) of the array, preserving
// logical type.
func (a Array) Slice(i, j int) Array {
	return Array{logical: a.logical, data: array.NewSlice(a.data, int64(i), int64(j))}
}
