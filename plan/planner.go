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
	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/internal/errkind"
)

// BoundQueryKind discriminates the BoundQuery sum type a binder hands
// the QueryPlanner : Select | Setop | Values.
type BoundQueryKind uint8

const (
	BoundSelect BoundQueryKind = iota
	BoundSetop
	BoundValues
)

// BoundSelectQuery carries the pieces of a bound SELECT the planner
// composes into projection-over-filter-over-join-over-scans.
type BoundSelectQuery struct {
	From LogicalOperator
	Where expr.ScalarExpression
	Projections []ProjectionExpr
	GroupExprs []expr.ScalarExpression
	GroupTable *expr.TableRef
	Aggregates []expr.AggregateCall
	AggTable *expr.TableRef
	GroupingSets []GroupingSet
	Having expr.ScalarExpression
	OrderBy []OrderKey
	Limit *int64
	Offset *int64
}

// BoundSetopQuery carries the two sides of a bound set operation.
type BoundSetopQuery struct {
	Left, Right LogicalOperator
	Kind SetOpKind
	All bool
	TableRef expr.TableRef
}

// BoundValuesQuery carries an inline row literal list.
type BoundValuesQuery struct {
	TableRef expr.TableRef
	ColumnNames []string
	Rows [][]expr.ScalarExpression
}

// BoundQuery is the sum type over Select | Setop | Values the binder
// produces and QueryPlanner.Plan consumes.
type BoundQuery struct {
	Kind BoundQueryKind
	Select *BoundSelectQuery
	Setop *BoundSetopQuery
	Values *BoundValuesQuery
}

// QueryPlanner lowers a BoundQuery into a LogicalOperator tree,
// applying 's three rules.
type QueryPlanner struct {
	Bind *expr.BindContext
}

// NewQueryPlanner builds a QueryPlanner bound to bc.
func NewQueryPlanner(bc *expr.BindContext) *QueryPlanner {
	return &QueryPlanner{Bind: bc}
}

// Plan dispatches on q.Kind and builds the corresponding tree.
func (p *QueryPlanner) Plan(q BoundQuery) (LogicalOperator, error) {
	switch q.Kind {
	case BoundValues:
		return p.planValues(q.Values)
	case BoundSelect:
		return p.planSelect(q.Select)
	case BoundSetop:
		return p.planSetop(q.Setop)
	default:
		return nil, errkind.Internal.New("unknown bound query kind")
	}
}

// planValues lowers VALUES to a single Scan whose source is an
// ExpressionList, projecting every column ("Values").
func (p *QueryPlanner) planValues(v *BoundValuesQuery) (LogicalOperator, error) {
	if v == nil {
		return nil, errkind.Internal.New("nil Values query")
	}
	desc, err := p.Bind.GetTable(v.TableRef)
	if err != nil {
		return nil, err
	}
	projection := make([]int, len(desc.ColumnTypes))
	for i := range projection {
		projection[i] = i
	}
	return NewScan(v.TableRef, desc.ColumnTypes, desc.ColumnNames, projection, ScanSource{
		Kind: ScanSourceExpressionList,
		ExpressionListRows: v.Rows,
	}), nil
}

// planSelect composes projection over (having-)filter over aggregate
// over filter over From, in the order describes for
// Select: "projection over filter over join over scans"; GROUP BY
// inserts an Aggregate, HAVING wraps it in a Filter, and ORDER
// BY/LIMIT each get their own node appended last.
func (p *QueryPlanner) planSelect(s *BoundSelectQuery) (LogicalOperator, error) {
	if s == nil {
		return nil, errkind.Internal.New("nil Select query")
	}
	var cur LogicalOperator = s.From
	if s.Where != nil {
		cur = NewFilter(cur, s.Where)
	}
	if len(s.Aggregates) > 0 || len(s.GroupExprs) > 0 {
		if s.AggTable == nil {
			return nil, errkind.Internal.New("aggregate select missing aggregates table ref")
		}
		agg := NewAggregate(cur, *s.AggTable, s.GroupTable, s.GroupExprs, s.Aggregates)
		if len(s.GroupingSets) > 0 {
			if s.GroupTable == nil {
				return nil, errkind.Internal.New("grouping sets require a group table ref")
			}
			agg = agg.WithGroupingSets(s.GroupingSets, *s.GroupTable)
		}
		cur = agg
		if s.Having != nil {
			cur = NewFilter(cur, s.Having)
		}
	}
	if len(s.Projections) > 0 {
		cur = NewProjection(cur, s.Projections)
	}
	if len(s.OrderBy) > 0 {
		cur = NewOrder(cur, s.OrderBy)
	}
	if s.Limit != nil {
		cur = NewLimit(cur, *s.Limit, s.Offset)
	}
	return cur, nil
}

// planSetop lowers a bound set operation directly to a SetOp node.
func (p *QueryPlanner) planSetop(s *BoundSetopQuery) (LogicalOperator, error) {
	if s == nil {
		return nil, errkind.Internal.New("nil Setop query")
	}
	return NewSetOp(s.Left, s.Right, s.Kind, s.All, s.TableRef), nil
}
