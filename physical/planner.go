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
	"strings"

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/expr/function"
	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/plan"
	"github.com/pipeql/pipeql/types"
)

// SchemaColumn names which (TableRef, column index) a physical batch
// column at some position holds, and its LogicalType, the bookkeeping
// calls "resolving each ColumnExpr to a batch
// column index".
type SchemaColumn struct {
	Table expr.TableRef
	Index int
	Type types.LogicalType
}

// OutputSchema is an ordered list of SchemaColumns, one per physical
// batch column, used to build a function.ColumnResolver for every
// operator appended along the way.
type OutputSchema []SchemaColumn

func (s OutputSchema) resolve(table expr.TableRef, index int) (int, error) {
	for pos, c := range s {
		if c.Table == table && c.Index == index {
			return pos, nil
		}
	}
	return 0, errkind.Internal.New("column not found in physical schema")
}

func (s OutputSchema) types() []types.LogicalType {
	out := make([]types.LogicalType, len(s))
	for i, c := range s {
		out[i] = c.Type
	}
	return out
}

// chainBuilder accumulates a linear chain under construction: a Source
// feeding it, an operator list appended so far, and the OutputSchema
// describing its current column shape.
type chainBuilder struct {
	source Source
	ops []Operator
	schema OutputSchema
}

// WriterFactory builds the terminal Sink a CopyTo node's
// CopyToFunction names, looked up by name (;
// round-trip equality for the handle itself is name-equality, 
// §9 open question 3).
type WriterFactory func(args map[string]string) (Sink, error)

// PhysicalPlanner lowers a plan.LogicalOperator into a Pipeline,
// implementing the seven rules.
type PhysicalPlanner struct {
	Registry *function.Registry
	Bind *expr.BindContext
	CatalogLookup func(plan.TableSource) (TableProvider, error)
	Writers map[string]WriterFactory

	chains []*OperatorChain
	materializations map[plan.MaterializationRef]*materializedRelation
}

// materializedRelation is what a Materialization node leaves behind
// for a later ScanSourceMaterialization to read back.
type materializedRelation struct {
	sink *BufferSink
	schema OutputSchema
}

// NewPhysicalPlanner builds a planner over reg/bc, resolving table
// scans via lookup and CopyTo sinks via writers.
func NewPhysicalPlanner(reg *function.Registry, bc *expr.BindContext, lookup func(plan.TableSource) (TableProvider, error), writers map[string]WriterFactory) *PhysicalPlanner {
	return &PhysicalPlanner{Registry: reg, Bind: bc, CatalogLookup: lookup, Writers: writers}
}

// CreatePlan lowers root, terminating its final chain into sink:
// create_plan(logical_operator, sink) -> Pipeline. CopyTo nodes supply
// their own terminal sink from the CopyToFunction handle, so sink is
// ignored for a root CopyTo.
func (p *PhysicalPlanner) CreatePlan(root plan.LogicalOperator, sink Sink) (*Pipeline, error) {
	p.chains = nil
	p.materializations = make(map[plan.MaterializationRef]*materializedRelation)
	final, err := p.lower(root)
	if err != nil {
		return nil, err
	}
	if _, isCopyTo := root.(*plan.CopyTo); !isCopyTo {
		p.chains = append(p.chains, NewOperatorChain(final.source, final.ops, sink))
	}
	return NewPipeline(p.chains...), nil
}

func (p *PhysicalPlanner) evaluator(schema OutputSchema) function.Evaluator {
	return function.Evaluator{Registry: p.Registry, Bind: p.Bind, Resolve: schema.resolve}
}

func (p *PhysicalPlanner) lower(op plan.LogicalOperator) (*chainBuilder, error) {
	switch n := op.(type) {
	case *plan.Scan:
		return p.lowerScan(n)
	case *plan.Filter:
		return p.lowerFilter(n)
	case *plan.Projection:
		return p.lowerProjection(n)
	case *plan.Order:
		return p.lowerOrder(n)
	case *plan.Limit:
		return p.lowerLimit(n)
	case *plan.Aggregate:
		return p.lowerAggregate(n)
	case *plan.Join:
		return p.lowerJoin(n)
	case *plan.SetOp:
		return p.lowerSetOp(n)
	case *plan.CopyTo:
		return p.lowerCopyTo(n)
	case *plan.Materialization:
		return p.lowerMaterialization(n)
	default:
		return nil, errkind.NotImplemented.New("physical lowering of a logical operator")
	}
}

// lowerScan implements the leaves-become-Sources rule: ExpressionList
// becomes a ValuesSource, Table a catalog-backed ScanSource, and
// Materialization a ReplaySource reading back an earlier chain's
// buffered output.
func (p *PhysicalPlanner) lowerScan(n *plan.Scan) (*chainBuilder, error) {
	schema := make(OutputSchema, len(n.Projection))
	for i, colIdx := range n.Projection {
		schema[i] = SchemaColumn{Table: n.TableRef, Index: colIdx, Type: n.ColumnTypes[colIdx]}
	}

	switch n.Source.Kind {
	case plan.ScanSourceExpressionList:
		return &chainBuilder{
			source: &ValuesSource{Rows: n.Source.ExpressionListRows, ColumnTypes: n.ColumnTypes, Evaluator: p.evaluator(schema)},
			schema: schema,
		}, nil
	case plan.ScanSourceTable:
		if p.CatalogLookup == nil {
			return nil, errkind.NotImplemented.New("scan requires a CatalogLookup")
		}
		provider, err := p.CatalogLookup(*n.Source.Table)
		if err != nil {
			return nil, err
		}
		return &chainBuilder{
			source: &ScanSource{Provider: provider, Projection: n.Projection},
			schema: schema,
		}, nil
	case plan.ScanSourceMaterialization:
		rel, ok := p.materializations[n.Source.Materialization]
		if !ok {
			return nil, errkind.NotFound.New("materialization " + n.Source.Materialization.String())
		}
		return &chainBuilder{
			source: &ReplaySource{Sink: rel.sink, Projection: n.Projection},
			schema: schema,
		}, nil
	default:
		return nil, errkind.NotImplemented.New("scan source kind")
	}
}

// lowerMaterialization implements "Materialization": the
// child chain is terminated into a BufferSink keyed by Ref, and every
// ScanSourceMaterialization referencing it later reads that buffer
// back via ReplaySource instead of recomputing the child.
func (p *PhysicalPlanner) lowerMaterialization(n *plan.Materialization) (*chainBuilder, error) {
	child, err := p.lower(n.Children()[0])
	if err != nil {
		return nil, err
	}
	buf := NewBufferSink()
	p.chains = append(p.chains, NewOperatorChain(child.source, child.ops, buf))
	p.materializations[n.Ref] = &materializedRelation{sink: buf, schema: child.schema}
	return &chainBuilder{source: &ReplaySource{Sink: buf}, schema: child.schema}, nil
}

func (p *PhysicalPlanner) lowerFilter(n *plan.Filter) (*chainBuilder, error) {
	cb, err := p.lower(n.Children()[0])
	if err != nil {
		return nil, err
	}
	cb.ops = append(cb.ops, &FilterOperator{Evaluator: p.evaluator(cb.schema), Predicate: n.Predicate})
	return cb, nil
}

func (p *PhysicalPlanner) lowerProjection(n *plan.Projection) (*chainBuilder, error) {
	cb, err := p.lower(n.Children()[0])
	if err != nil {
		return nil, err
	}
	exprs := make([]expr.ScalarExpression, len(n.Projections))
	schema := make(OutputSchema, len(n.Projections))
	perRefIdx := make(map[expr.TableRef]int)
	for i, pr := range n.Projections {
		exprs[i] = pr.Expr
		idx := perRefIdx[pr.Ref]
		t, err := pr.Expr.Datatype(p.Bind)
		if err != nil {
			return nil, err
		}
		schema[i] = SchemaColumn{Table: pr.Ref, Index: idx, Type: t}
		perRefIdx[pr.Ref] = idx + 1
	}
	cb.ops = append(cb.ops, &ProjectionOperator{Evaluator: p.evaluator(cb.schema), Expressions: exprs})
	cb.schema = schema
	return cb, nil
}

func (p *PhysicalPlanner) lowerOrder(n *plan.Order) (*chainBuilder, error) {
	cb, err := p.lower(n.Children()[0])
	if err != nil {
		return nil, err
	}
	cb.ops = append(cb.ops, &SortOperator{Evaluator: p.evaluator(cb.schema), Keys: n.Keys})
	return cb, nil
}

func (p *PhysicalPlanner) lowerLimit(n *plan.Limit) (*chainBuilder, error) {
	cb, err := p.lower(n.Children()[0])
	if err != nil {
		return nil, err
	}
	cb.ops = append(cb.ops, &LimitOperator{Count: n.Count, Offset: n.Offset})
	return cb, nil
}

// lowerAggregate implements : only Column-valued
// GroupExprs and single-Column aggregate arguments are supported,
// sufficient for every scenario and law this core exercises; richer
// aggregate expressions are planner work beyond this core.
func (p *PhysicalPlanner) lowerAggregate(n *plan.Aggregate) (*chainBuilder, error) {
	child, err := p.lower(n.Children()[0])
	if err != nil {
		return nil, err
	}

	groupCols := make([]int, len(n.GroupExprs))
	groupColTypes := make([]types.LogicalType, len(n.GroupExprs))
	for i, e := range n.GroupExprs {
		col, ok := e.(*expr.Column)
		if !ok {
			return nil, errkind.NotImplemented.New("aggregate grouping by a non-column expression")
		}
		pos, err := child.schema.resolve(col.Table, col.Index)
		if err != nil {
			return nil, err
		}
		groupCols[i] = pos
		groupColTypes[i] = child.schema[pos].Type
	}

	aggArgs := make([]int, len(n.Aggregates))
	aggFns := make([]string, len(n.Aggregates))
	aggTypes := make([]types.LogicalType, len(n.Aggregates))
	for i, agg := range n.Aggregates {
		aggFns[i] = agg.Name
		aggTypes[i] = agg.ReturnType
		if strings.EqualFold(agg.Name, "count") && len(agg.Args) == 0 {
			aggArgs[i] = -1
			continue
		}
		if len(agg.Args) != 1 {
			return nil, errkind.NotImplemented.New("aggregate with other than exactly one column argument")
		}
		col, ok := agg.Args[0].(*expr.Column)
		if !ok {
			return nil, errkind.NotImplemented.New("aggregate over a non-column expression")
		}
		pos, err := child.schema.resolve(col.Table, col.Index)
		if err != nil {
			return nil, err
		}
		aggArgs[i] = pos
	}

	sink := NewAggregateSink(groupCols, aggArgs, aggFns, n.GroupingSets)
	p.chains = append(p.chains, NewOperatorChain(child.source, child.ops, sink))

	schema := make(OutputSchema, 0, len(groupCols)+len(aggTypes)+1)
	if n.GroupTable != nil {
		for i := range groupCols {
			schema = append(schema, SchemaColumn{Table: *n.GroupTable, Index: i, Type: groupColTypes[i]})
		}
	}
	for i, t := range aggTypes {
		schema = append(schema, SchemaColumn{Table: n.AggregatesTable, Index: i, Type: t})
	}
	if n.GroupingSetTable != nil {
		schema = append(schema, SchemaColumn{Table: *n.GroupingSetTable, Index: 0, Type: types.Int64})
	}

	return &chainBuilder{
		source: &aggregateResultSource{sink: sink, groupColTypes: groupColTypes, aggTypes: aggTypes},
		schema: schema,
	}, nil
}

func (p *PhysicalPlanner) lowerJoin(n *plan.Join) (*chainBuilder, error) {
	left, err := p.lower(n.Children()[0])
	if err != nil {
		return nil, err
	}
	right, err := p.lower(n.Children()[1])
	if err != nil {
		return nil, err
	}

	if n.Kind == plan.CrossJoinKind {
		return p.lowerCrossJoin(n, left, right)
	}
	if n.Kind != plan.ComparisonJoinKind && n.Kind != plan.MagicJoinKind {
		return nil, errkind.NotImplemented.New("arbitrary-predicate join lowering")
	}

	leftKeyCols := make([]int, len(n.Conditions))
	rightKeyCols := make([]int, len(n.Conditions))
	for i, c := range n.Conditions {
		if c.Op != expr.Eq {
			return nil, errkind.NotImplemented.New("non-equality join condition lowering")
		}
		lcol, lok := c.Left.(*expr.Column)
		rcol, rok := c.Right.(*expr.Column)
		if !lok || !rok {
			return nil, errkind.NotImplemented.New("join condition over a non-column expression")
		}
		lp, err := left.schema.resolve(lcol.Table, lcol.Index)
		if err != nil {
			return nil, err
		}
		rp, err := right.schema.resolve(rcol.Table, rcol.Index)
		if err != nil {
			return nil, err
		}
		leftKeyCols[i] = lp
		rightKeyCols[i] = rp
	}

	buildSink := NewHashTableBuildSink(rightKeyCols)
	p.chains = append(p.chains, NewOperatorChain(right.source, right.ops, buildSink))

	left.ops = append(left.ops, &JoinProbeOperator{
		Table: buildSink.Table,
		ProbeKeyCols: leftKeyCols,
		BuildColumnTypes: right.schema.types(),
		Type: n.Type,
	})

	switch n.Type.Kind {
	case plan.JoinSemi, plan.JoinAnti:
		return left, nil
	case plan.JoinLeftMark:
		left.schema = append(append(OutputSchema{}, left.schema...), SchemaColumn{Table: n.Type.MarkRef, Index: 0, Type: types.Boolean})
		return left, nil
	default:
		left.schema = append(append(OutputSchema{}, left.schema...), right.schema...)
		return left, nil
	}
}

// lowerCrossJoin implements : the right side is
// buffered in full, whichever side is smaller, and a nested-loop
// operator on the left chain emits the cartesian product against it.
func (p *PhysicalPlanner) lowerCrossJoin(n *plan.Join, left, right *chainBuilder) (*chainBuilder, error) {
	buffered := NewBufferSink()
	p.chains = append(p.chains, NewOperatorChain(right.source, right.ops, buffered))
	left.ops = append(left.ops, &NestedLoopOperator{Right: buffered, RightColumnTypes: right.schema.types()})
	left.schema = append(append(OutputSchema{}, left.schema...), right.schema...)
	return left, nil
}

// lowerSetOp implements : both children are
// buffered in full before the combining source can run, since
// Union/Intersect/Except are whole-relation operations.
func (p *PhysicalPlanner) lowerSetOp(n *plan.SetOp) (*chainBuilder, error) {
	left, err := p.lower(n.Children()[0])
	if err != nil {
		return nil, err
	}
	right, err := p.lower(n.Children()[1])
	if err != nil {
		return nil, err
	}

	leftBuf := NewBufferSink()
	p.chains = append(p.chains, NewOperatorChain(left.source, left.ops, leftBuf))
	rightBuf := NewBufferSink()
	p.chains = append(p.chains, NewOperatorChain(right.source, right.ops, rightBuf))

	schema := make(OutputSchema, len(left.schema))
	for i, c := range left.schema {
		schema[i] = SchemaColumn{Table: n.TableRef, Index: i, Type: c.Type}
	}

	return &chainBuilder{
		source: &SetOpCombineSource{Left: leftBuf, Right: rightBuf, Kind: n.Kind, All: n.All},
		schema: schema,
	}, nil
}

// lowerCopyTo implements rule 7: the chain terminates into the sink
// its CopyToFunction handle names, looked up by name in p.Writers.
func (p *PhysicalPlanner) lowerCopyTo(n *plan.CopyTo) (*chainBuilder, error) {
	child, err := p.lower(n.Children()[0])
	if err != nil {
		return nil, err
	}
	factory, ok := p.Writers[n.Sink.Name]
	if !ok {
		return nil, errkind.NotFound.New("copy-to sink " + n.Sink.Name)
	}
	sink, err := factory(n.Sink.Args)
	if err != nil {
		return nil, err
	}
	p.chains = append(p.chains, NewOperatorChain(child.source, child.ops, sink))
	return &chainBuilder{source: &EmptySource{}, schema: nil}, nil
}

// aggregateResultSource replays an AggregateSink's single finished
// result batch, the "opens a new chain whose source is the finalized
// hash table" half.
type aggregateResultSource struct {
	sink *AggregateSink
	groupColTypes []types.LogicalType
	aggTypes []types.LogicalType
	emitted bool
}

// Next implements Source: the aggregated result is a single batch,
// returned with Ready on the first call and followed by Exhausted.
func (a *aggregateResultSource) Next(context.Context) (types.Batch, Signal, error) {
	if a.emitted {
		return types.Batch{}, Exhausted, nil
	}
	a.emitted = true
	batch, err := a.sink.Results(a.groupColTypes, a.aggTypes)
	if err != nil {
		return types.Batch{}, Ready, err
	}
	return batch, Ready, nil
}
