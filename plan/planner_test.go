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

package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/types"
)

// TestPlanValuesLowersToExpressionListScan is 's
// planning step: VALUES (1,'a'),(2,'b') becomes a single Scan over an
// ExpressionList source, projecting every column.
func TestPlanValuesLowersToExpressionListScan(t *testing.T) {
	bc := expr.NewBindContext()
	ref := bc.PushTable("", []types.LogicalType{types.Int32, types.Utf8}, []string{"c0", "c1"})
	rows := [][]expr.ScalarExpression{
		{&expr.Literal{Type: types.Int32, Value: int32(1)}, &expr.Literal{Type: types.Utf8, Value: "a"}},
		{&expr.Literal{Type: types.Int32, Value: int32(2)}, &expr.Literal{Type: types.Utf8, Value: "b"}},
	}

	planner := NewQueryPlanner(bc)
	op, err := planner.Plan(BoundQuery{Kind: BoundValues, Values: &BoundValuesQuery{
		TableRef: ref,
		ColumnNames: []string{"c0", "c1"},
		Rows: rows,
	}})
	require.NoError(t, err)

	scan, ok := op.(*Scan)
	require.True(t, ok)
	require.Equal(t, ScanSourceExpressionList, scan.Source.Kind)
	require.Equal(t, []int{0, 1}, scan.Projection)
	require.Len(t, scan.Source.ExpressionListRows, 2)
}

func TestPlanSelectComposesProjectionFilterOrderLimit(t *testing.T) {
	bc := expr.NewBindContext()
	scan := newTestScan(bc, []string{"a"}, []types.LogicalType{types.Int32})
	planner := NewQueryPlanner(bc)

	limit := int64(10)
	op, err := planner.Plan(BoundQuery{Kind: BoundSelect, Select: &BoundSelectQuery{
		From: scan,
		Where: &expr.Literal{Type: types.Boolean, Value: true},
		Projections: []ProjectionExpr{
			{Expr: &expr.Column{Table: scan.TableRef, Index: 0, Name: "a"}, Name: "a", Ref: scan.TableRef},
		},
		OrderBy: []OrderKey{{Expr: &expr.Column{Table: scan.TableRef, Index: 0, Name: "a"}, Dir: Ascending}},
		Limit: &limit,
	}})
	require.NoError(t, err)

	lim, ok := op.(*Limit)
	require.True(t, ok)
	require.Equal(t, int64(10), lim.Count)

	order, ok := lim.Children()[0].(*Order)
	require.True(t, ok)

	proj, ok := order.Children()[0].(*Projection)
	require.True(t, ok)

	_, ok = proj.Children()[0].(*Filter)
	require.True(t, ok)
}

func TestPlanSelectWithGroupByInsertsAggregate(t *testing.T) {
	bc := expr.NewBindContext()
	scan := newTestScan(bc, []string{"a", "b"}, []types.LogicalType{types.Int32, types.Int32})
	aggTable := bc.PushTable("", []types.LogicalType{types.Int32, types.Int64}, []string{"a", "cnt"})
	planner := NewQueryPlanner(bc)

	op, err := planner.Plan(BoundQuery{Kind: BoundSelect, Select: &BoundSelectQuery{
		From: scan,
		GroupExprs: []expr.ScalarExpression{&expr.Column{Table: scan.TableRef, Index: 0, Name: "a"}},
		Aggregates: []expr.AggregateCall{{Name: "count", ReturnType: types.Int64}},
		AggTable: &aggTable,
	}})
	require.NoError(t, err)

	agg, ok := op.(*Aggregate)
	require.True(t, ok)
	require.Equal(t, aggTable, agg.AggregatesTable)
}

func TestPlanSetopBuildsSetOpNode(t *testing.T) {
	bc := expr.NewBindContext()
	left := newTestScan(bc, []string{"a"}, []types.LogicalType{types.Int32})
	right := newTestScan(bc, []string{"a"}, []types.LogicalType{types.Int32})
	outRef := bc.PushTable("", []types.LogicalType{types.Int32}, []string{"a"})
	planner := NewQueryPlanner(bc)

	op, err := planner.Plan(BoundQuery{Kind: BoundSetop, Setop: &BoundSetopQuery{
		Left: left, Right: right, Kind: SetOpUnion, All: false, TableRef: outRef,
	}})
	require.NoError(t, err)

	setop, ok := op.(*SetOp)
	require.True(t, ok)
	require.Equal(t, SetOpUnion, setop.Kind)
	require.False(t, setop.All)
}
