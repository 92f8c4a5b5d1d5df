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
	"strconv"

	"github.com/pipeql/pipeql/internal/errkind"
)

// Batch is an ordered tuple of equal-length arrays plus an explicit row
// count ("Batch"). Zero-column batches (Values/Empty
// sources) still carry a meaningful row count.
type Batch struct {
	columns []Array
	rowCount int
}

// NewBatch validates that every column shares the declared row count
// and returns a Batch. A zero-column batch must still state its count.
func NewBatch(rowCount int, columns...Array) (Batch, error) {
	for i, c := range columns {
		if c.Len() != rowCount {
			return Batch{}, errkind.Internal.New(
				"column " + strconv.Itoa(i) + " has length " + strconv.Itoa(c.Len()) +
					", batch row count is " + strconv.Itoa(rowCount))
		}
	}
	return Batch{columns: columns, rowCount: rowCount}, nil
}

// NumCols returns the number of columns in the batch.
func (b Batch) NumCols() int { return len(b.columns) }

// NumRows returns the batch's explicit row count.
func (b Batch) NumRows() int { return b.rowCount }

// Column returns the array at index i.
func (b Batch) Column(i int) Array { return b.columns[i] }

// Columns returns the batch's underlying array slice. Callers must not
// mutate the returned slice.
func (b Batch) Columns() []Array { return b.columns }

// Slice returns a zero-copy row-range view of the batch.
func (b Batch) Slice(i, j int) Batch {
	out := make([]Array, len(b.columns))
	for k, c := range b.columns {
		out[k] = c.Slice(i, j)
	}
	return Batch{columns: out, rowCount: j - i}
}

// Release drops this batch's references to its underlying Arrow
// buffers.
func (b Batch) Release() {
	for _, c := range b.columns {
		c.Release()
	}
}

// Retain increments the reference count of every column's underlying
// Arrow buffer.
func (b Batch) Retain() {
	for _, c := range b.columns {
		c.Retain()
	}
}

// ConcatColumns builds a batch by placing each array as one column,
// the construction used for ValuesSource: expressions are evaluated
// once against a row-count-1 dummy batch and concatenated
// column-wise.
func ConcatColumns(rowCount int, arrays []Array) (Batch, error) {
	return NewBatch(rowCount, arrays...)
}
