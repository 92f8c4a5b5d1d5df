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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/plan"
	"github.com/pipeql/pipeql/types"
)

func literalRows(vals...[]interface{}) [][]expr.ScalarExpression {
	rows := make([][]expr.ScalarExpression, len(vals))
	for i, row := range vals {
		cells := make([]expr.ScalarExpression, len(row))
		for j, v := range row {
			t := types.Int64
			if _, ok := v.(string); ok {
				t = types.Utf8
			}
			cells[j] = &expr.Literal{Type: t, Value: v}
		}
		rows[i] = cells
	}
	return rows
}

func valuesScan(bc *expr.BindContext, names []string, colTypes []types.LogicalType, rows [][]expr.ScalarExpression) *plan.Scan {
	ref := bc.PushTable("", colTypes, names)
	projection := make([]int, len(colTypes))
	for i := range projection {
		projection[i] = i
	}
	return plan.NewScan(ref, colTypes, names, projection, plan.ScanSource{
		Kind: plan.ScanSourceExpressionList,
		ExpressionListRows: rows,
	})
}

// TestValuesSourceEndToEnd drives through a full
// Pipeline: VALUES (1,'a'), (2,'b') lowered from a Scan into a
// CollectSink.
func TestValuesSourceEndToEnd(t *testing.T) {
	bc := expr.NewBindContext()
	rows := literalRows([]interface{}{int64(1), "a"}, []interface{}{int64(2), "b"})
	scan := valuesScan(bc, []string{"n", "s"}, []types.LogicalType{types.Int64, types.Utf8}, rows)

	planner := NewPhysicalPlanner(nil, bc, nil, nil)
	sink := NewCollectSink()
	pipeline, err := planner.CreatePlan(scan, sink)
	require.NoError(t, err)
	require.NoError(t, pipeline.Execute(context.Background()))

	require.Len(t, sink.Batches, 1)
	require.Equal(t, 2, sink.Batches[0].NumRows())
	v0, _ := types.GetI64(sink.Batches[0].Column(0), 0)
	v1, _ := types.GetI64(sink.Batches[0].Column(0), 1)
	require.Equal(t, int64(1), v0)
	require.Equal(t, int64(2), v1)
	s0, _ := types.GetUtf8(sink.Batches[0].Column(1), 0)
	s1, _ := types.GetUtf8(sink.Batches[0].Column(1), 1)
	require.Equal(t, "a", s0)
	require.Equal(t, "b", s1)
}

// TestLeftMarkJoinEndToEnd drives through a full
// Pipeline: left {id:[1,2,3]}, right {id:[2]}, LeftMark join on
// left.id = right.id, expecting {id:[1,2,3], mark:[false,true,false]}.
func TestLeftMarkJoinEndToEnd(t *testing.T) {
	bc := expr.NewBindContext()
	left := valuesScan(bc, []string{"id"}, []types.LogicalType{types.Int64}, literalRows(
		[]interface{}{int64(1)}, []interface{}{int64(2)}, []interface{}{int64(3)}))
	right := valuesScan(bc, []string{"id"}, []types.LogicalType{types.Int64}, literalRows(
		[]interface{}{int64(2)}))
	markRef := bc.PushTable("", []types.LogicalType{types.Boolean}, []string{"mark"})

	join := plan.NewComparisonJoin(left, right, plan.JoinType{Kind: plan.JoinLeftMark, MarkRef: markRef}, []plan.JoinCondition{
		{
			Left: &expr.Column{Table: left.TableRef, Index: 0, Name: "id"},
			Right: &expr.Column{Table: right.TableRef, Index: 0, Name: "id"},
			Op: expr.Eq,
		},
	})

	planner := NewPhysicalPlanner(nil, bc, nil, nil)
	sink := NewCollectSink()
	pipeline, err := planner.CreatePlan(join, sink)
	require.NoError(t, err)
	require.NoError(t, pipeline.Execute(context.Background()))

	require.Len(t, sink.Batches, 1)
	out := sink.Batches[0]
	require.Equal(t, 3, out.NumRows())
	require.Equal(t, 2, out.NumCols())

	wantID := []int64{1, 2, 3}
	wantMark := []bool{false, true, false}
	for i := 0; i < 3; i++ {
		id, _ := types.GetI64(out.Column(0), i)
		mark, _ := types.GetBool(out.Column(1), i)
		require.Equal(t, wantID[i], id, "row %d id", i)
		require.Equal(t, wantMark[i], mark, "row %d mark", i)
	}
}

// TestGroupingSetsEndToEnd drives through a full
// Pipeline: input {a:[1,1,2], b:["x","y","y"]}, grouping sets
// [{0},{1},{}] (group by a; group by b; grand total), aggregate
// count(*). Expect 2+2+1 = 5 output rows across three distinct
// grouping-set ids.
func TestGroupingSetsEndToEnd(t *testing.T) {
	bc := expr.NewBindContext()
	scan := valuesScan(bc, []string{"a", "b"}, []types.LogicalType{types.Int64, types.Utf8}, literalRows(
		[]interface{}{int64(1), "x"},
		[]interface{}{int64(1), "y"},
		[]interface{}{int64(2), "y"},
	))

	groupTable := expr.TableRef(100)
	aggTable := expr.TableRef(101)
	groupingSetTable := expr.TableRef(102)

	aggregate := plan.NewAggregate(scan, aggTable, &groupTable,
		[]expr.ScalarExpression{
			&expr.Column{Table: scan.TableRef, Index: 0, Name: "a"},
			&expr.Column{Table: scan.TableRef, Index: 1, Name: "b"},
		},
		[]expr.AggregateCall{{Name: "count", ReturnType: types.Int64}},
	).WithGroupingSets([]plan.GroupingSet{
		{Columns: map[int]bool{0: true}},
		{Columns: map[int]bool{1: true}},
		{Columns: map[int]bool{}},
	}, groupingSetTable)

	planner := NewPhysicalPlanner(nil, bc, nil, nil)
	sink := NewCollectSink()
	pipeline, err := planner.CreatePlan(aggregate, sink)
	require.NoError(t, err)
	require.NoError(t, pipeline.Execute(context.Background()))

	require.Len(t, sink.Batches, 1)
	out := sink.Batches[0]
	require.Equal(t, 5, out.NumRows())

	idCol := out.Column(out.NumCols() - 1)
	seen := make(map[int64]int)
	for i := 0; i < out.NumRows(); i++ {
		id, _ := types.GetI64(idCol, i)
		seen[id]++
	}
	require.Len(t, seen, 3)
}
