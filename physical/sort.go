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

package physical

import (
	"context"
	"sort"

	"github.com/pipeql/pipeql/expr/function"
	"github.com/pipeql/pipeql/plan"
	"github.com/pipeql/pipeql/types"
)

// SortOperator buffers every input batch and, on Finalize, emits one
// batch with rows ordered by Keys. Order-sensitive operators are
// inserted explicitly by the planner rather than being an implicit
// property of another node, so Sort is its own operator. It needs the
// whole relation before it can produce its first row, so Push always
// requests more input.
type SortOperator struct {
	Evaluator function.Evaluator
	Keys []plan.OrderKey

	batches []types.Batch
}

// Push implements Operator.
func (s *SortOperator) Push(_ context.Context, in types.Batch) ([]types.Batch, Signal, error) {
	s.batches = append(s.batches, in)
	return nil, NeedMoreInput, nil
}

// Finalize implements Operator: evaluates every sort key once per
// buffered batch, sorts the combined row set, and materializes it.
func (s *SortOperator) Finalize(context.Context) ([]types.Batch, error) {
	if len(s.batches) == 0 {
		return nil, nil
	}

	keyCols := make([][]types.Array, len(s.Keys))
	for i, k := range s.Keys {
		cols := make([]types.Array, len(s.batches))
		for b, batch := range s.batches {
			col, err := s.Evaluator.Eval(k.Expr, batch)
			if err != nil {
				return nil, err
			}
			cols[b] = col
		}
		keyCols[i] = cols
	}

	type sortRow struct {
		batchIdx int
		row int
	}
	var rows []sortRow
	for b, batch := range s.batches {
		for r := 0; r < batch.NumRows(); r++ {
			rows = append(rows, sortRow{batchIdx: b, row: r})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		bi, bj := rows[i].batchIdx, rows[j].batchIdx
		for k := range s.Keys {
			c := compareCell(keyCols[k][bi], rows[i].row, keyCols[k][bj], rows[j].row, s.Keys[k].Nulls)
			if c == 0 {
				continue
			}
			if s.Keys[k].Dir == plan.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	numCols := s.batches[0].NumCols()
	builders := make([]types.ArrayBuilder, numCols)
	for c := 0; c < numCols; c++ {
		builders[c] = types.NewArrayBuilder(s.batches[0].Column(c).LogicalType(), nil)
	}
	for _, ref := range rows {
		for c := 0; c < numCols; c++ {
			copyCell(builders[c], s.batches[ref.batchIdx].Column(c), ref.row)
		}
	}
	cols := make([]types.Array, numCols)
	for c, b := range builders {
		cols[c] = b.NewArray()
	}
	out, err := types.NewBatch(len(rows), cols...)
	if err != nil {
		return nil, err
	}
	return []types.Batch{out}, nil
}

// compareCell orders two cells of the same physical type, honoring
// NullOrdering for the common case where either side is null.
func compareCell(a types.Array, i int, b types.Array, j int, nulls plan.NullOrdering) int {
	ai, bj := a.IsNull(i), b.IsNull(j)
	if ai && bj {
		return 0
	}
	if ai {
		if nulls == plan.NullsFirst {
			return -1
		}
		return 1
	}
	if bj {
		if nulls == plan.NullsFirst {
			return 1
		}
		return -1
	}

	switch a.Physical() {
	case types.PhysicalI32:
		va, _ := types.GetI32(a, i)
		vb, _ := types.GetI32(b, j)
		return compareOrdered(va, vb)
	case types.PhysicalI64:
		va, _ := types.GetI64(a, i)
		vb, _ := types.GetI64(b, j)
		return compareOrdered(va, vb)
	case types.PhysicalI16:
		va, _ := types.GetI16(a, i)
		vb, _ := types.GetI16(b, j)
		return compareOrdered(va, vb)
	case types.PhysicalI8:
		va, _ := types.GetI8(a, i)
		vb, _ := types.GetI8(b, j)
		return compareOrdered(va, vb)
	case types.PhysicalU8:
		va, _ := types.GetU8(a, i)
		vb, _ := types.GetU8(b, j)
		return compareOrdered(va, vb)
	case types.PhysicalU16:
		va, _ := types.GetU16(a, i)
		vb, _ := types.GetU16(b, j)
		return compareOrdered(va, vb)
	case types.PhysicalU32:
		va, _ := types.GetU32(a, i)
		vb, _ := types.GetU32(b, j)
		return compareOrdered(va, vb)
	case types.PhysicalU64:
		va, _ := types.GetU64(a, i)
		vb, _ := types.GetU64(b, j)
		return compareOrdered(va, vb)
	case types.PhysicalF32:
		va, _ := types.GetF32(a, i)
		vb, _ := types.GetF32(b, j)
		return compareOrdered(va, vb)
	case types.PhysicalF64:
		va, _ := types.GetF64(a, i)
		vb, _ := types.GetF64(b, j)
		return compareOrdered(va, vb)
	case types.PhysicalBool:
		va, _ := types.GetBool(a, i)
		vb, _ := types.GetBool(b, j)
		if va == vb {
			return 0
		}
		if !va {
			return -1
		}
		return 1
	case types.PhysicalUtf8:
		va, _ := types.GetUtf8(a, i)
		vb, _ := types.GetUtf8(b, j)
		return compareOrdered(va, vb)
	default:
		return 0
	}
}

type ordered interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64 | ~string
}

func compareOrdered[T ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// LimitOperator caps the total row count seen across all pushed
// batches at Count, skipping the first Offset rows. Inserted
// explicitly by the planner.
type LimitOperator struct {
	Count int64
	Offset *int64

	seen int64
}

func (l *LimitOperator) offset() int64 {
	if l.Offset != nil {
		return *l.Offset
	}
	return 0
}

// Push implements Operator.
func (l *LimitOperator) Push(_ context.Context, in types.Batch) ([]types.Batch, Signal, error) {
	start := l.offset()
	end := start + l.Count
	batchStart := l.seen
	rows := int64(in.NumRows())
	batchEnd := batchStart + rows
	l.seen = batchEnd

	if batchEnd <= start || batchStart >= end || l.Count <= 0 {
		return nil, Ready, nil
	}
	loStart := start
	if batchStart > loStart {
		loStart = batchStart
	}
	loEnd := end
	if batchEnd < loEnd {
		loEnd = batchEnd
	}
	if loStart >= loEnd {
		return nil, Ready, nil
	}

	idx := make([]int, 0, loEnd-loStart)
	for i := loStart - batchStart; i < loEnd-batchStart; i++ {
		idx = append(idx, int(i))
	}
	out, err := gatherColumns(in, idx)
	if err != nil {
		return nil, Ready, err
	}
	return []types.Batch{out}, Ready, nil
}

// Finalize implements Operator: Limit is stateless beyond its running
// row count, nothing to flush.
func (l *LimitOperator) Finalize(context.Context) ([]types.Batch, error) { return nil, nil }
