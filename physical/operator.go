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

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/expr/function"
	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

// Operator is a stateless or buffered batch → zero-or-more-batches
// transformer ("Operator"). Push may request more input
// by returning NeedMoreInput with no output batches; Finalize is
// called once the upstream source is Exhausted, to let buffering
// operators (sort, hash-table build) flush.
type Operator interface {
	Push(ctx context.Context, in types.Batch) ([]types.Batch, Signal, error)
	Finalize(ctx context.Context) ([]types.Batch, error)
}

// ProjectionOperator evaluates a fixed expression list per input batch.
type ProjectionOperator struct {
	Evaluator function.Evaluator
	Expressions []expr.ScalarExpression
}

// Push implements Operator.
func (p *ProjectionOperator) Push(_ context.Context, in types.Batch) ([]types.Batch, Signal, error) {
	cols := make([]types.Array, len(p.Expressions))
	for i, e := range p.Expressions {
		col, err := p.Evaluator.Eval(e, in)
		if err != nil {
			return nil, Ready, err
		}
		cols[i] = col
	}
	out, err := types.NewBatch(in.NumRows(), cols...)
	if err != nil {
		return nil, Ready, err
	}
	return []types.Batch{out}, Ready, nil
}

// Finalize implements Operator: Projection is stateless, nothing to flush.
func (p *ProjectionOperator) Finalize(context.Context) ([]types.Batch, error) { return nil, nil }

// FilterOperator keeps only rows for which Predicate evaluates true.
type FilterOperator struct {
	Evaluator function.Evaluator
	Predicate expr.ScalarExpression
}

// Push implements Operator.
func (f *FilterOperator) Push(_ context.Context, in types.Batch) ([]types.Batch, Signal, error) {
	mask, err := f.Evaluator.Eval(f.Predicate, in)
	if err != nil {
		return nil, Ready, err
	}
	if mask.Physical() != types.PhysicalBool {
		return nil, Ready, errkind.PhysicalMismatch.New(types.PhysicalBool, mask.Physical())
	}

	keep := make([]int, 0, in.NumRows())
	for i := 0; i < in.NumRows(); i++ {
		if mask.IsNull(i) {
			continue
		}
		v, _ := types.GetBool(mask, i)
		if v {
			keep = append(keep, i)
		}
	}
	if len(keep) == in.NumRows() {
		return []types.Batch{in}, Ready, nil
	}
	if len(keep) == 0 {
		empty, err := types.NewBatch(0)
		return []types.Batch{empty}, Ready, err
	}
	cols := make([]types.Array, in.NumCols())
	for c := 0; c < in.NumCols(); c++ {
		cols[c] = selectRows(in.Column(c), keep)
	}
	out, err := types.NewBatch(len(keep), cols...)
	return []types.Batch{out}, Ready, err
}

// Finalize implements Operator: Filter is stateless, nothing to flush.
func (f *FilterOperator) Finalize(context.Context) ([]types.Batch, error) { return nil, nil }

// selectRows builds a new array containing only the rows named by
// idx, since Arrow arrays have no native gather/take used here beyond
// contiguous slicing.
func selectRows(a types.Array, idx []int) types.Array {
	b := types.NewArrayBuilder(a.LogicalType(), nil)
	for _, i := range idx {
		copyCell(b, a, i)
	}
	return b.NewArray()
}

func copyCell(b types.ArrayBuilder, a types.Array, i int) {
	if a.IsNull(i) {
		b.AppendNull()
		return
	}
	switch a.Physical() {
	case types.PhysicalI32:
		v, _ := types.GetI32(a, i)
		types.PutI32(b, v)
	case types.PhysicalI64:
		v, _ := types.GetI64(a, i)
		types.PutI64(b, v)
	case types.PhysicalI16:
		v, _ := types.GetI16(a, i)
		types.PutI16(b, v)
	case types.PhysicalI8:
		v, _ := types.GetI8(a, i)
		types.PutI8(b, v)
	case types.PhysicalU8:
		v, _ := types.GetU8(a, i)
		types.PutU8(b, v)
	case types.PhysicalU16:
		v, _ := types.GetU16(a, i)
		types.PutU16(b, v)
	case types.PhysicalU32:
		v, _ := types.GetU32(a, i)
		types.PutU32(b, v)
	case types.PhysicalU64:
		v, _ := types.GetU64(a, i)
		types.PutU64(b, v)
	case types.PhysicalF32:
		v, _ := types.GetF32(a, i)
		types.PutF32(b, v)
	case types.PhysicalF64:
		v, _ := types.GetF64(a, i)
		types.PutF64(b, v)
	case types.PhysicalBool:
		v, _ := types.GetBool(a, i)
		types.PutBool(b, v)
	case types.PhysicalUtf8:
		v, _ := types.GetUtf8(a, i)
		types.PutUtf8(b, v)
	default:
		b.AppendNull()
	}
}
