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

import "github.com/pipeql/pipeql/expr"

// SortDirection orders ascending or descending.
type SortDirection uint8

const (
	Ascending SortDirection = iota
	Descending
)

// NullOrdering controls whether nulls sort first or last, independent
// of SortDirection.
type NullOrdering uint8

const (
	NullsLast NullOrdering = iota
	NullsFirst
)

// OrderKey is one ORDER BY term.
type OrderKey struct {
	Expr expr.ScalarExpression
	Dir SortDirection
	Nulls NullOrdering
}

// Order sorts its child's rows by Keys, lexicographically. Since
// "order-sensitive operators are inserted explicitly by the planner"
// rather than being implicit properties of other nodes, Order is its
// own node.
type Order struct {
	Base

	Keys []OrderKey
}

// NewOrder builds an Order over a single child.
func NewOrder(child LogicalOperator, keys []OrderKey) *Order {
	return &Order{Base: Base{Loc: child.Location(), Kids: []LogicalOperator{child}}, Keys: keys}
}

// GetOutputTableRefs delegates to the child: Order reorders rows, it
// never changes their shape.
func (o *Order) GetOutputTableRefs() []expr.TableRef { return childRefs(o.Kids) }

// ExplainEntry renders Order's self-description.
func (o *Order) ExplainEntry(ExplainConfig) ExplainEntry {
	pairs := make([][2]string, 0, len(o.Keys))
	for _, k := range o.Keys {
		dir := "ASC"
		if k.Dir == Descending {
			dir = "DESC"
		}
		pairs = append(pairs, [2]string{k.Expr.String(), dir})
	}
	return ExplainEntry{Name: "Order", Pairs: pairs}
}
