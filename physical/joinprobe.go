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

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/plan"
	"github.com/pipeql/pipeql/types"
)

// JoinProbeOperator is the left child chain's final operator,
// parameterized by the build side's frozen HashTable: it emits rows per
// JoinType's emission policy. BuildColumnTypes gives the builders for
// the build columns: null-filled for unmatched rows (Left), and filled
// by copyCell from the matched build batch for matched rows.
type JoinProbeOperator struct {
	Table *HashTable
	ProbeKeyCols []int
	BuildColumnTypes []types.LogicalType
	Type plan.JoinType
}

// Push implements Operator.
func (j *JoinProbeOperator) Push(_ context.Context, in types.Batch) ([]types.Batch, Signal, error) {
	if !j.Table.Frozen() {
		return nil, Ready, errkind.Internal.New("join probe against an unfrozen hash table")
	}

	leftRows := make([]int, 0, in.NumRows())
	buildRows := make([]rowRef, 0, in.NumRows())
	marks := make([]bool, 0, in.NumRows())

	for row := 0; row < in.NumRows(); row++ {
		matches := j.Table.Probe(in, row, j.ProbeKeyCols)
		matched := len(matches) > 0

		switch j.Type.Kind {
		case plan.JoinInner:
			for _, m := range matches {
				leftRows = append(leftRows, row)
				buildRows = append(buildRows, m)
			}
		case plan.JoinLeft:
			if matched {
				for _, m := range matches {
					leftRows = append(leftRows, row)
					buildRows = append(buildRows, m)
				}
			} else {
				leftRows = append(leftRows, row)
				buildRows = append(buildRows, rowRef{})
			}
		case plan.JoinSemi:
			if matched {
				leftRows = append(leftRows, row)
			}
		case plan.JoinAnti:
			if !matched {
				leftRows = append(leftRows, row)
			}
		case plan.JoinLeftMark:
			leftRows = append(leftRows, row)
			marks = append(marks, matched)
		default:
			return nil, Ready, errkind.NotImplemented.New("join type " + j.Type.String())
		}
	}

	switch j.Type.Kind {
	case plan.JoinSemi, plan.JoinAnti:
		out, err := gatherColumns(in, leftRows)
		return []types.Batch{out}, Ready, err
	case plan.JoinLeftMark:
		out, err := j.buildLeftMark(in, leftRows, marks)
		return []types.Batch{out}, Ready, err
	default:
		out, err := j.buildCombined(in, leftRows, buildRows)
		return []types.Batch{out}, Ready, err
	}
}

// Finalize implements Operator: JoinProbeOperator is stateless across
// batches beyond the (already-frozen) build table.
func (j *JoinProbeOperator) Finalize(context.Context) ([]types.Batch, error) { return nil, nil }

func (j *JoinProbeOperator) buildLeftMark(in types.Batch, leftRows []int, marks []bool) (types.Batch, error) {
	left, err := gatherColumns(in, leftRows)
	if err != nil {
		return types.Batch{}, err
	}
	markBuilder := types.NewArrayBuilder(types.Boolean, nil)
	for _, m := range marks {
		types.PutBool(markBuilder, m)
	}
	cols := append(append([]types.Array{}, left.Columns()...), markBuilder.NewArray())
	return types.NewBatch(len(leftRows), cols...)
}

func (j *JoinProbeOperator) buildCombined(in types.Batch, leftRows []int, buildRows []rowRef) (types.Batch, error) {
	left, err := gatherColumns(in, leftRows)
	if err != nil {
		return types.Batch{}, err
	}
	buildCols := make([]types.ArrayBuilder, len(j.BuildColumnTypes))
	for i, t := range j.BuildColumnTypes {
		buildCols[i] = types.NewArrayBuilder(t, nil)
	}
	for _, ref := range buildRows {
		for i := range buildCols {
			if ref.batch.NumCols() == 0 {
				buildCols[i].AppendNull()
				continue
			}
			copyCell(buildCols[i], ref.batch.Column(i), ref.row)
		}
	}
	cols := append([]types.Array{}, left.Columns()...)
	for _, b := range buildCols {
		cols = append(cols, b.NewArray())
	}
	return types.NewBatch(len(leftRows), cols...)
}

// gatherColumns builds a batch containing only rows, preserving column
// order, since this is the probe-side counterpart of FilterOperator's
// row selection.
func gatherColumns(in types.Batch, rows []int) (types.Batch, error) {
	cols := make([]types.Array, in.NumCols())
	for c := 0; c < in.NumCols(); c++ {
		cols[c] = selectRows(in.Column(c), rows)
	}
	return types.NewBatch(len(rows), cols...)
}
