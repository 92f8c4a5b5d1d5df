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

// Source produces batches on demand, signaling Exhausted when there is
// nothing left ("Source").
type Source interface {
	Next(ctx context.Context) (types.Batch, Signal, error)
}

// TableProvider is the narrow slice of a catalog DataSource the
// physical planner needs to build a ScanSource: it reads a projected,
// optionally predicate-pushed-down column set as a sequence of
// batches. Concrete catalogs (e.g. memcatalog) implement this.
type TableProvider interface {
	Scan(ctx context.Context, projection []int, pushdown expr.ScalarExpression) (Source, error)
}

// EmptySource is the literal empty relation: the first call returns a
// zero-row batch with Ready, the second signals Exhausted.
type EmptySource struct {
	done bool
}

// Next implements Source.
func (e *EmptySource) Next(context.Context) (types.Batch, Signal, error) {
	if e.done {
		return types.Batch{}, Exhausted, nil
	}
	e.done = true
	empty, err := types.NewBatch(0)
	if err != nil {
		return types.Batch{}, Ready, err
	}
	return empty, Ready, nil
}

// ValuesSource evaluates an inline row literal list once against a
// row-count-1 dummy batch per row and concatenates the results
// column-wise.
type ValuesSource struct {
	Rows [][]expr.ScalarExpression
	ColumnTypes []types.LogicalType
	Evaluator function.Evaluator

	emitted bool
}

// Next implements Source. The single evaluated batch is returned with
// Ready on the first call; the following call signals Exhausted, the
// same two-call convention EmptySource uses.
func (v *ValuesSource) Next(context.Context) (types.Batch, Signal, error) {
	if v.emitted {
		return types.Batch{}, Exhausted, nil
	}
	if len(v.Rows) == 0 {
		v.emitted = true
		empty, err := types.NewBatch(0)
		return empty, Exhausted, err
	}
	v.emitted = true

	dummy, err := types.NewBatch(1)
	if err != nil {
		return types.Batch{}, Ready, err
	}

	numCols := len(v.ColumnTypes)
	builders := make([]types.ArrayBuilder, numCols)
	for i, t := range v.ColumnTypes {
		builders[i] = types.NewArrayBuilder(t, nil)
	}

	for _, row := range v.Rows {
		if len(row) != numCols {
			return types.Batch{}, Ready, errkind.LengthMismatch.New(numCols, len(row))
		}
		for i, cellExpr := range row {
			cell, err := v.Evaluator.Eval(cellExpr, dummy)
			if err != nil {
				return types.Batch{}, Ready, err
			}
			if err := appendSingleton(builders[i], cell); err != nil {
				return types.Batch{}, Ready, err
			}
		}
	}

	cols := make([]types.Array, numCols)
	for i, b := range builders {
		cols[i] = b.NewArray()
	}
	batch, err := types.NewBatch(len(v.Rows), cols...)
	return batch, Ready, err
}

func appendSingleton(b types.ArrayBuilder, cell types.Array) error {
	if cell.Len() != 1 {
		return errkind.Internal.New("values row evaluated to non-singleton array")
	}
	if cell.IsNull(0) {
		b.AppendNull()
		return nil
	}
	switch b.LogicalType().Physical() {
	case types.PhysicalI32:
		v, _ := types.GetI32(cell, 0)
		types.PutI32(b, v)
	case types.PhysicalI64:
		v, _ := types.GetI64(cell, 0)
		types.PutI64(b, v)
	case types.PhysicalI16:
		v, _ := types.GetI16(cell, 0)
		types.PutI16(b, v)
	case types.PhysicalI8:
		v, _ := types.GetI8(cell, 0)
		types.PutI8(b, v)
	case types.PhysicalU8:
		v, _ := types.GetU8(cell, 0)
		types.PutU8(b, v)
	case types.PhysicalU16:
		v, _ := types.GetU16(cell, 0)
		types.PutU16(b, v)
	case types.PhysicalU32:
		v, _ := types.GetU32(cell, 0)
		types.PutU32(b, v)
	case types.PhysicalU64:
		v, _ := types.GetU64(cell, 0)
		types.PutU64(b, v)
	case types.PhysicalF32:
		v, _ := types.GetF32(cell, 0)
		types.PutF32(b, v)
	case types.PhysicalF64:
		v, _ := types.GetF64(cell, 0)
		types.PutF64(b, v)
	case types.PhysicalBool:
		v, _ := types.GetBool(cell, 0)
		types.PutBool(b, v)
	case types.PhysicalUtf8:
		v, _ := types.GetUtf8(cell, 0)
		types.PutUtf8(b, v)
	default:
		return errkind.NotImplemented.New("values literal of physical type " + b.LogicalType().Physical().String())
	}
	return nil
}

// ScanSource reads batches from a catalog TableProvider, delegating
// projection and predicate pushdown to it.
type ScanSource struct {
	Provider TableProvider
	Projection []int
	Pushdown expr.ScalarExpression

	inner Source
}

// Next implements Source, lazily opening the provider's scan on first
// call.
func (s *ScanSource) Next(ctx context.Context) (types.Batch, Signal, error) {
	if s.inner == nil {
		inner, err := s.Provider.Scan(ctx, s.Projection, s.Pushdown)
		if err != nil {
			return types.Batch{}, Ready, err
		}
		s.inner = inner
	}
	return s.inner.Next(ctx)
}
