// Copyright 2024 The pipeql Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serialize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/memcatalog"
	"github.com/pipeql/pipeql/plan"
	"github.com/pipeql/pipeql/types"
)

// TestExprRoundTrip checks from_proto(to_proto(N)) == N for every
// supported ScalarExpression variant.
func TestExprRoundTrip(t *testing.T) {
	cases := []expr.ScalarExpression{
		&expr.Literal{Type: types.Int64, Value: int64(42)},
		&expr.Literal{Type: types.Utf8, Value: nil},
		&expr.Column{Table: 3, Index: 1, Name: "b"},
		&expr.Comparison{
			Op:    expr.Eq,
			Left:  &expr.Column{Table: 0, Index: 0, Name: "a"},
			Right: &expr.Literal{Type: types.Int32, Value: int32(7)},
		},
		&expr.Arith{
			Op:         expr.ArithAdd,
			Left:       &expr.Column{Table: 0, Index: 0, Name: "a"},
			Right:      &expr.Literal{Type: types.Int32, Value: int32(1)},
			ReturnType: types.Int32,
		},
		&expr.Conjunction{
			Kind: expr.ConjunctionAnd,
			Operands: []expr.ScalarExpression{
				&expr.Comparison{Op: expr.Lt, Left: &expr.Column{Table: 0, Index: 0, Name: "a"}, Right: &expr.Literal{Type: types.Int32, Value: int32(10)}},
				&expr.Comparison{Op: expr.GtEq, Left: &expr.Column{Table: 0, Index: 1, Name: "b"}, Right: &expr.Literal{Type: types.Int32, Value: int32(0)}},
			},
		},
	}

	for _, want := range cases {
		wire, err := MarshalExpr(want)
		require.NoError(t, err)
		got, err := UnmarshalExpr(wire)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestUnmarshalExprUnknownKindFails(t *testing.T) {
	_, err := UnmarshalExpr(ExprNode{Kind: "window_call"})
	require.True(t, errkind.NotImplemented.Is(err))
}

func TestMarshalExprUnsupportedVariantFails(t *testing.T) {
	_, err := MarshalExpr(&expr.Cast{Input: &expr.Literal{Type: types.Int32, Value: int32(1)}, To: types.Int64})
	require.True(t, errkind.NotImplemented.Is(err))
}

// TestScanRoundTrip covers both ScanSource variants.
func TestScanRoundTrip(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		want := plan.NewScan(
			5,
			[]types.LogicalType{types.Int64, types.Utf8},
			[]string{"id", "name"},
			[]int{1, 0},
			plan.ScanSource{Kind: plan.ScanSourceTable, Table: &plan.TableSource{Catalog: "system", Schema: "public", Entry: "widgets"}},
		)
		wire, err := MarshalPlan(nil, want)
		require.NoError(t, err)
		got, err := UnmarshalPlan(nil, wire)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("expression_list", func(t *testing.T) {
		want := plan.NewScan(
			2,
			[]types.LogicalType{types.Int32, types.Int32},
			[]string{"x", "y"},
			[]int{0, 1},
			plan.ScanSource{Kind: plan.ScanSourceExpressionList, ExpressionListRows: [][]expr.ScalarExpression{
				{&expr.Literal{Type: types.Int32, Value: int32(1)}, &expr.Literal{Type: types.Int32, Value: int32(2)}},
				{&expr.Literal{Type: types.Int32, Value: int32(3)}, &expr.Literal{Type: types.Int32, Value: int32(4)}},
			}},
		)
		wire, err := MarshalPlan(nil, want)
		require.NoError(t, err)
		got, err := UnmarshalPlan(nil, wire)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}

// TestScanRoundTripWithDatabaseContext checks a live registry
// validates the table source during context-aware conversion, and
// rejects one that names a missing catalog entry.
func TestScanRoundTripWithDatabaseContext(t *testing.T) {
	reg := memcatalog.NewRegistry()
	cat := memcatalog.NewCatalog()
	require.NoError(t, reg.Attach("system", cat))
	db, err := cat.CreateDatabase("public")
	require.NoError(t, err)
	_, err = db.CreateTable("widgets", []string{"id"}, []types.LogicalType{types.Int64})
	require.NoError(t, err)

	ctx := NewDatabaseContext(reg)
	want := plan.NewScan(0, []types.LogicalType{types.Int64}, []string{"id"}, []int{0},
		plan.ScanSource{Kind: plan.ScanSourceTable, Table: &plan.TableSource{Catalog: "system", Schema: "public", Entry: "widgets"}})

	wire, err := MarshalPlan(ctx, want)
	require.NoError(t, err)
	got, err := UnmarshalPlan(ctx, wire)
	require.NoError(t, err)
	require.Equal(t, want, got)

	missing := plan.NewScan(0, []types.LogicalType{types.Int64}, []string{"id"}, []int{0},
		plan.ScanSource{Kind: plan.ScanSourceTable, Table: &plan.TableSource{Catalog: "system", Schema: "public", Entry: "nosuchtable"}})
	_, err = MarshalPlan(ctx, missing)
	require.True(t, errkind.NotFound.Is(err))
}

func TestFilterRoundTrip(t *testing.T) {
	scan := plan.NewScan(0, []types.LogicalType{types.Int32}, []string{"a"}, []int{0},
		plan.ScanSource{Kind: plan.ScanSourceExpressionList, ExpressionListRows: nil})
	want := plan.NewFilter(scan, &expr.Comparison{Op: expr.Gt, Left: &expr.Column{Table: 0, Index: 0, Name: "a"}, Right: &expr.Literal{Type: types.Int32, Value: int32(0)}})

	wire, err := MarshalPlan(nil, want)
	require.NoError(t, err)
	got, err := UnmarshalPlan(nil, wire)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestProjectionRoundTrip(t *testing.T) {
	scan := plan.NewScan(0, []types.LogicalType{types.Int32, types.Int32}, []string{"a", "b"}, []int{0, 1},
		plan.ScanSource{Kind: plan.ScanSourceExpressionList})
	want := plan.NewProjection(scan, []plan.ProjectionExpr{
		{Expr: &expr.Column{Table: 0, Index: 1, Name: "b"}, Name: "b", Ref: 1},
		{Expr: &expr.Arith{Op: expr.ArithMul, Left: &expr.Column{Table: 0, Index: 0, Name: "a"}, Right: &expr.Literal{Type: types.Int32, Value: int32(2)}, ReturnType: types.Int32}, Name: "double_a", Ref: 1},
	})

	wire, err := MarshalPlan(nil, want)
	require.NoError(t, err)
	got, err := UnmarshalPlan(nil, wire)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLimitRoundTrip(t *testing.T) {
	scan := plan.NewScan(0, []types.LogicalType{types.Int32}, []string{"a"}, []int{0},
		plan.ScanSource{Kind: plan.ScanSourceExpressionList})
	offset := int64(5)
	want := plan.NewLimit(scan, 10, &offset)

	wire, err := MarshalPlan(nil, want)
	require.NoError(t, err)
	got, err := UnmarshalPlan(nil, wire)
	require.NoError(t, err)
	require.Equal(t, want, got)

	withoutOffset := plan.NewLimit(scan, 3, nil)
	wire2, err := MarshalPlan(nil, withoutOffset)
	require.NoError(t, err)
	got2, err := UnmarshalPlan(nil, wire2)
	require.NoError(t, err)
	require.Equal(t, withoutOffset, got2)
}

func TestOrderRoundTrip(t *testing.T) {
	scan := plan.NewScan(0, []types.LogicalType{types.Int32, types.Utf8}, []string{"a", "b"}, []int{0, 1},
		plan.ScanSource{Kind: plan.ScanSourceExpressionList})
	want := plan.NewOrder(scan, []plan.OrderKey{
		{Expr: &expr.Column{Table: 0, Index: 1, Name: "b"}, Dir: plan.Descending, Nulls: plan.NullsFirst},
		{Expr: &expr.Column{Table: 0, Index: 0, Name: "a"}, Dir: plan.Ascending, Nulls: plan.NullsLast},
	})

	wire, err := MarshalPlan(nil, want)
	require.NoError(t, err)
	got, err := UnmarshalPlan(nil, wire)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestCopyToRoundTrip(t *testing.T) {
	scan := plan.NewScan(0, []types.LogicalType{types.Int32}, []string{"a"}, []int{0},
		plan.ScanSource{Kind: plan.ScanSourceExpressionList})
	want := plan.NewCopyTo(scan,
		[]expr.ScalarExpression{&expr.Column{Table: 0, Index: 0, Name: "a"}},
		"/tmp/out.csv",
		plan.CopyToFunction{Name: "csv_writer", Args: map[string]string{"delimiter": ","}},
	)

	wire, err := MarshalPlan(nil, want)
	require.NoError(t, err)
	got, err := UnmarshalPlan(nil, wire)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestUnmarshalPlanUnknownKindFails(t *testing.T) {
	_, err := UnmarshalPlan(nil, PlanNode{Kind: "aggregate"})
	require.True(t, errkind.NotImplemented.Is(err))
}
