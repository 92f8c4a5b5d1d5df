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

	"github.com/pipeql/pipeql/types"
)

// NestedLoopOperator implements : CrossJoin becomes
// a nested-loop operator over the buffered right side, run once per
// probe-side row. The right side is buffered whatever its size; the
// two sides' sizes are not compared.
type NestedLoopOperator struct {
	Right *BufferSink
	RightColumnTypes []types.LogicalType
}

// Push implements Operator.
func (n *NestedLoopOperator) Push(_ context.Context, in types.Batch) ([]types.Batch, Signal, error) {
	var leftRows []int
	var rightRefs []rowRef
	for row := 0; row < in.NumRows(); row++ {
		for _, rb := range n.Right.Batches {
			for rrow := 0; rrow < rb.NumRows(); rrow++ {
				leftRows = append(leftRows, row)
				rightRefs = append(rightRefs, rowRef{batch: rb, row: rrow})
			}
		}
	}

	left, err := gatherColumns(in, leftRows)
	if err != nil {
		return nil, Ready, err
	}

	rightBuilders := make([]types.ArrayBuilder, len(n.RightColumnTypes))
	for i, t := range n.RightColumnTypes {
		rightBuilders[i] = types.NewArrayBuilder(t, nil)
	}
	for _, ref := range rightRefs {
		for i := range rightBuilders {
			copyCell(rightBuilders[i], ref.batch.Column(i), ref.row)
		}
	}

	cols := append([]types.Array{}, left.Columns()...)
	for _, b := range rightBuilders {
		cols = append(cols, b.NewArray())
	}
	out, err := types.NewBatch(len(leftRows), cols...)
	return []types.Batch{out}, Ready, err
}

// Finalize implements Operator: NestedLoopOperator is stateless beyond
// the already-buffered right side.
func (n *NestedLoopOperator) Finalize(context.Context) ([]types.Batch, error) { return nil, nil }
