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

// Filter keeps only rows for which Predicate evaluates true, passing
// every input column through unchanged ("Filter").
type Filter struct {
	Base

	Predicate expr.ScalarExpression
}

// NewFilter builds a Filter over a single child.
func NewFilter(child LogicalOperator, predicate expr.ScalarExpression) *Filter {
	return &Filter{
		Base: Base{Loc: child.Location(), Kids: []LogicalOperator{child}},
		Predicate: predicate,
	}
}

// GetOutputTableRefs delegates to the child: Filter never adds, drops,
// or renames columns.
func (f *Filter) GetOutputTableRefs() []expr.TableRef { return childRefs(f.Kids) }

// ExplainEntry renders Filter's self-description.
func (f *Filter) ExplainEntry(ExplainConfig) ExplainEntry {
	return ExplainEntry{Name: "Filter", Pairs: [][2]string{{"predicate", f.Predicate.String()}}}
}
