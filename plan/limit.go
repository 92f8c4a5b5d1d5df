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
	"fmt"

	"github.com/pipeql/pipeql/expr"
)

// Limit caps its child's row count at Count, skipping the first Offset
// rows first when Offset is non-nil. Limit is inserted explicitly by
// the planner rather than as an implicit property of Scan.
type Limit struct {
	Base

	Count int64
	Offset *int64
}

// NewLimit builds a Limit over a single child.
func NewLimit(child LogicalOperator, count int64, offset *int64) *Limit {
	return &Limit{Base: Base{Loc: child.Location(), Kids: []LogicalOperator{child}}, Count: count, Offset: offset}
}

// GetOutputTableRefs delegates to the child: Limit truncates rows, it
// never changes their shape.
func (l *Limit) GetOutputTableRefs() []expr.TableRef { return childRefs(l.Kids) }

// ExplainEntry renders Limit's self-description.
func (l *Limit) ExplainEntry(ExplainConfig) ExplainEntry {
	pairs := [][2]string{{"count", fmt.Sprint(l.Count)}}
	if l.Offset != nil {
		pairs = append(pairs, [2]string{"offset", fmt.Sprint(*l.Offset)})
	}
	return ExplainEntry{Name: "Limit", Pairs: pairs}
}
