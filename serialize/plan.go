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

package serialize

import (
	"strconv"
	"strings"

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/plan"
	"github.com/pipeql/pipeql/types"
)

// MarshalPlan converts a logical node (and, recursively, its children)
// to its wire shape. ctx is consulted only by node kinds that carry a
// live catalog reference (Scan over ScanSourceTable); pass nil when
// marshaling a tree that contains none. Bare conversion is for
// context-free structures.
func MarshalPlan(ctx *DatabaseContext, op plan.LogicalOperator) (PlanNode, error) {
	switch n := op.(type) {
	case *plan.Scan:
		return marshalScan(ctx, n)
	case *plan.Filter:
		child, err := MarshalPlan(ctx, n.Children()[0])
		if err != nil {
			return PlanNode{}, err
		}
		pred, err := MarshalExpr(n.Predicate)
		if err != nil {
			return PlanNode{}, err
		}
		return PlanNode{Kind: "filter", Exprs: map[string]ExprNode{"predicate": pred}, Children: []PlanNode{child}}, nil

	case *plan.Projection:
		child, err := MarshalPlan(ctx, n.Children()[0])
		if err != nil {
			return PlanNode{}, err
		}
		cols := make([]ExprNode, len(n.Projections))
		names := make([]string, len(n.Projections))
		refs := make([]string, len(n.Projections))
		for i, pr := range n.Projections {
			c, err := MarshalExpr(pr.Expr)
			if err != nil {
				return PlanNode{}, err
			}
			cols[i] = c
			names[i] = pr.Name
			refs[i] = strconv.FormatUint(uint64(pr.Ref), 10)
		}
		return PlanNode{
			Kind: "projection",
			Fields: map[string]string{"names": strings.Join(names, ","), "refs": strings.Join(refs, ",")},
			ExprLists: map[string][]ExprNode{"columns": cols},
			Children: []PlanNode{child},
		}, nil

	case *plan.Limit:
		child, err := MarshalPlan(ctx, n.Children()[0])
		if err != nil {
			return PlanNode{}, err
		}
		fields := map[string]string{"count": strconv.FormatInt(n.Count, 10)}
		if n.Offset != nil {
			fields["offset"] = strconv.FormatInt(*n.Offset, 10)
			fields["has_offset"] = "true"
		}
		return PlanNode{Kind: "limit", Fields: fields, Children: []PlanNode{child}}, nil

	case *plan.Order:
		child, err := MarshalPlan(ctx, n.Children()[0])
		if err != nil {
			return PlanNode{}, err
		}
		keys := make([]ExprNode, len(n.Keys))
		dirs := make([]string, len(n.Keys))
		nulls := make([]string, len(n.Keys))
		for i, k := range n.Keys {
			e, err := MarshalExpr(k.Expr)
			if err != nil {
				return PlanNode{}, err
			}
			keys[i] = e
			dirs[i] = strconv.Itoa(int(k.Dir))
			nulls[i] = strconv.Itoa(int(k.Nulls))
		}
		return PlanNode{
			Kind: "order",
			Fields: map[string]string{"dirs": strings.Join(dirs, ","), "nulls": strings.Join(nulls, ",")},
			ExprLists: map[string][]ExprNode{"keys": keys},
			Children: []PlanNode{child},
		}, nil

	case *plan.CopyTo:
		child, err := MarshalPlan(ctx, n.Children()[0])
		if err != nil {
			return PlanNode{}, err
		}
		schema := make([]ExprNode, len(n.SourceSchema))
		for i, e := range n.SourceSchema {
			w, err := MarshalExpr(e)
			if err != nil {
				return PlanNode{}, err
			}
			schema[i] = w
		}
		fields := map[string]string{"location": n.Location, "sink_name": n.Sink.Name}
		for k, v := range n.Sink.Args {
			fields["sink_arg."+k] = v
		}
		return PlanNode{Kind: "copy_to", Fields: fields, ExprLists: map[string][]ExprNode{"source_schema": schema}, Children: []PlanNode{child}}, nil

	default:
		return PlanNode{}, errkind.NotImplemented.New("serialization of logical operator")
	}
}

func marshalScan(ctx *DatabaseContext, n *plan.Scan) (PlanNode, error) {
	names := make([]string, len(n.ColumnTypes))
	for i, t := range n.ColumnTypes {
		tn, err := typeName(t)
		if err != nil {
			return PlanNode{}, err
		}
		names[i] = tn
	}
	projection := make([]string, len(n.Projection))
	for i, p := range n.Projection {
		projection[i] = strconv.Itoa(p)
	}
	fields := map[string]string{
		"table_ref": strconv.FormatUint(uint64(n.TableRef), 10),
		"column_types": strings.Join(names, ","),
		"column_names": strings.Join(n.ColumnNames, ","),
		"projection": strings.Join(projection, ","),
		"source_kind": strconv.Itoa(int(n.Source.Kind)),
	}

	switch n.Source.Kind {
	case plan.ScanSourceTable:
		if ctx != nil {
			if err := ctx.resolveTable(*n.Source.Table); err != nil {
				return PlanNode{}, err
			}
		}
		fields["catalog"] = n.Source.Table.Catalog
		fields["schema"] = n.Source.Table.Schema
		fields["entry"] = n.Source.Table.Entry
		return PlanNode{Kind: "scan", Fields: fields}, nil

	case plan.ScanSourceExpressionList:
		var cells []ExprNode
		lengths := make([]string, len(n.Source.ExpressionListRows))
		for i, row := range n.Source.ExpressionListRows {
			lengths[i] = strconv.Itoa(len(row))
			for _, c := range row {
				w, err := MarshalExpr(c)
				if err != nil {
					return PlanNode{}, err
				}
				cells = append(cells, w)
			}
		}
		fields["row_lengths"] = strings.Join(lengths, ",")
		return PlanNode{Kind: "scan", Fields: fields, ExprLists: map[string][]ExprNode{"rows": cells}}, nil

	default:
		return PlanNode{}, errkind.NotImplemented.New("serialization of scan source kind")
	}
}

// UnmarshalPlan is MarshalPlan's inverse.
func UnmarshalPlan(ctx *DatabaseContext, n PlanNode) (plan.LogicalOperator, error) {
	switch n.Kind {
	case "scan":
		return unmarshalScan(ctx, n)

	case "filter":
		if len(n.Children) != 1 {
			return nil, errkind.MissingField.New("filter child")
		}
		child, err := UnmarshalPlan(ctx, n.Children[0])
		if err != nil {
			return nil, err
		}
		pred, err := UnmarshalExpr(n.Exprs["predicate"])
		if err != nil {
			return nil, err
		}
		return plan.NewFilter(child, pred), nil

	case "projection":
		if len(n.Children) != 1 {
			return nil, errkind.MissingField.New("projection child")
		}
		child, err := UnmarshalPlan(ctx, n.Children[0])
		if err != nil {
			return nil, err
		}
		names := splitNonEmpty(n.Fields["names"])
		refs := splitNonEmpty(n.Fields["refs"])
		cols := n.ExprLists["columns"]
		if len(names) != len(cols) || len(refs) != len(cols) {
			return nil, errkind.MissingField.New("projection column list")
		}
		projections := make([]plan.ProjectionExpr, len(cols))
		for i, c := range cols {
			e, err := UnmarshalExpr(c)
			if err != nil {
				return nil, err
			}
			ref, err := strconv.ParseUint(refs[i], 10, 32)
			if err != nil {
				return nil, err
			}
			projections[i] = plan.ProjectionExpr{Expr: e, Name: names[i], Ref: expr.TableRef(ref)}
		}
		return plan.NewProjection(child, projections), nil

	case "limit":
		if len(n.Children) != 1 {
			return nil, errkind.MissingField.New("limit child")
		}
		child, err := UnmarshalPlan(ctx, n.Children[0])
		if err != nil {
			return nil, err
		}
		count, err := strconv.ParseInt(n.Fields["count"], 10, 64)
		if err != nil {
			return nil, err
		}
		var offset *int64
		if n.Fields["has_offset"] == "true" {
			o, err := strconv.ParseInt(n.Fields["offset"], 10, 64)
			if err != nil {
				return nil, err
			}
			offset = &o
		}
		return plan.NewLimit(child, count, offset), nil

	case "order":
		if len(n.Children) != 1 {
			return nil, errkind.MissingField.New("order child")
		}
		child, err := UnmarshalPlan(ctx, n.Children[0])
		if err != nil {
			return nil, err
		}
		dirs := splitNonEmpty(n.Fields["dirs"])
		nulls := splitNonEmpty(n.Fields["nulls"])
		exprs := n.ExprLists["keys"]
		if len(dirs) != len(exprs) || len(nulls) != len(exprs) {
			return nil, errkind.MissingField.New("order key list")
		}
		keys := make([]plan.OrderKey, len(exprs))
		for i, w := range exprs {
			e, err := UnmarshalExpr(w)
			if err != nil {
				return nil, err
			}
			dir, err := strconv.Atoi(dirs[i])
			if err != nil {
				return nil, err
			}
			nullOrd, err := strconv.Atoi(nulls[i])
			if err != nil {
				return nil, err
			}
			keys[i] = plan.OrderKey{Expr: e, Dir: plan.SortDirection(dir), Nulls: plan.NullOrdering(nullOrd)}
		}
		return plan.NewOrder(child, keys), nil

	case "copy_to":
		if len(n.Children) != 1 {
			return nil, errkind.MissingField.New("copy_to child")
		}
		child, err := UnmarshalPlan(ctx, n.Children[0])
		if err != nil {
			return nil, err
		}
		schemaWire := n.ExprLists["source_schema"]
		schema := make([]expr.ScalarExpression, len(schemaWire))
		for i, w := range schemaWire {
			e, err := UnmarshalExpr(w)
			if err != nil {
				return nil, err
			}
			schema[i] = e
		}
		args := make(map[string]string)
		for k, v := range n.Fields {
			if strings.HasPrefix(k, "sink_arg.") {
				args[strings.TrimPrefix(k, "sink_arg.")] = v
			}
		}
		sinkName, ok := n.Fields["sink_name"]
		if !ok {
			return nil, errkind.MissingField.New("sink_name")
		}
		return plan.NewCopyTo(child, schema, n.Fields["location"], plan.CopyToFunction{Name: sinkName, Args: args}), nil

	default:
		return nil, errkind.NotImplemented.New("deserialization of logical operator kind " + n.Kind)
	}
}

func unmarshalScan(ctx *DatabaseContext, n PlanNode) (plan.LogicalOperator, error) {
	tableRef, err := strconv.ParseUint(n.Fields["table_ref"], 10, 32)
	if err != nil {
		return nil, err
	}
	typeNames := splitNonEmpty(n.Fields["column_types"])
	colTypes := make([]types.LogicalType, len(typeNames))
	for i, name := range typeNames {
		t, err := typeByName(name)
		if err != nil {
			return nil, err
		}
		colTypes[i] = t
	}
	colNames := splitNonEmpty(n.Fields["column_names"])
	projStrs := splitNonEmpty(n.Fields["projection"])
	projection := make([]int, len(projStrs))
	for i, p := range projStrs {
		idx, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		projection[i] = idx
	}
	sourceKind, err := strconv.Atoi(n.Fields["source_kind"])
	if err != nil {
		return nil, err
	}

	var source plan.ScanSource
	switch plan.ScanSourceKind(sourceKind) {
	case plan.ScanSourceTable:
		ts := plan.TableSource{Catalog: n.Fields["catalog"], Schema: n.Fields["schema"], Entry: n.Fields["entry"]}
		if ctx != nil {
			if err := ctx.resolveTable(ts); err != nil {
				return nil, err
			}
		}
		source = plan.ScanSource{Kind: plan.ScanSourceTable, Table: &ts}

	case plan.ScanSourceExpressionList:
		lengths := splitNonEmpty(n.Fields["row_lengths"])
		cells := n.ExprLists["rows"]
		rows := make([][]expr.ScalarExpression, len(lengths))
		pos := 0
		for i, ls := range lengths {
			l, err := strconv.Atoi(ls)
			if err != nil {
				return nil, err
			}
			row := make([]expr.ScalarExpression, l)
			for j := 0; j < l; j++ {
				e, err := UnmarshalExpr(cells[pos])
				if err != nil {
					return nil, err
				}
				row[j] = e
				pos++
			}
			rows[i] = row
		}
		source = plan.ScanSource{Kind: plan.ScanSourceExpressionList, ExpressionListRows: rows}

	default:
		return nil, errkind.NotImplemented.New("deserialization of scan source kind")
	}

	return plan.NewScan(expr.TableRef(tableRef), colTypes, colNames, projection, source), nil
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
