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

// Package serialize is the wire-representation contract: logical
// nodes round-trip to and from a wire representation that carries
// enough context to reconstruct across processes. MarshalPlan and
// UnmarshalPlan cover Scan, Filter, Projection, Limit, Order and
// CopyTo; every other node kind fails with NotImplemented, and catalog
// entries have no wire form in this package. An actual wire codec
// (protobuf) is out of scope for this reference driver; this package
// provides Go-level Marshal*/Unmarshal* functions over a small
// struct-shaped mirror of what a protobuf message would carry, so the
// round-trip law is testable without that dependency.
package serialize

// ExprNode is the wire shape of one expr.ScalarExpression: a kind tag,
// its scalar fields (already string-encoded), and its operand
// subtree.
type ExprNode struct {
	Kind string
	Fields map[string]string
	Children []ExprNode
}

// PlanNode is the wire shape of one plan.LogicalOperator. Named
// expression fields (e.g. Filter's predicate) live in Exprs; named
// expression-list fields (e.g. Projection's column list, Scan's
// VALUES rows) live in ExprLists, keyed by field name. Plan children
// live in Children, in order.
type PlanNode struct {
	Kind string
	Fields map[string]string
	Exprs map[string]ExprNode
	ExprLists map[string][]ExprNode
	Children []PlanNode
}


