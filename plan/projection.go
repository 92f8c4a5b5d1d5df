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

// ProjectionExpr is one computed output column: an expression plus the
// TableRef its result is attributed to in the bind context.
type ProjectionExpr struct {
	Expr expr.ScalarExpression
	Name string
	Ref expr.TableRef
}

// Projection computes a fixed list of scalar expressions over its
// child's rows ("Projection").
type Projection struct {
	Base

	Projections []ProjectionExpr
}

// NewProjection builds a Projection over a single child.
func NewProjection(child LogicalOperator, projections []ProjectionExpr) *Projection {
	return &Projection{
		Base: Base{Loc: child.Location(), Kids: []LogicalOperator{child}},
		Projections: projections,
	}
}

// GetOutputTableRefs returns the distinct set of refs its projection
// list attributes output columns to.
func (p *Projection) GetOutputTableRefs() []expr.TableRef {
	seen := make(map[expr.TableRef]bool)
	var out []expr.TableRef
	for _, pr := range p.Projections {
		if !seen[pr.Ref] {
			seen[pr.Ref] = true
			out = append(out, pr.Ref)
		}
	}
	return out
}

// ExplainEntry renders Projection's self-description.
func (p *Projection) ExplainEntry(conf ExplainConfig) ExplainEntry {
	pairs := make([][2]string, 0, len(p.Projections))
	for _, pr := range p.Projections {
		val := pr.Expr.String()
		if conf.Verbose {
			val = fmt.Sprintf("%s AS %s", val, pr.Name)
		}
		pairs = append(pairs, [2]string{pr.Name, val})
	}
	return ExplainEntry{Name: "Projection", Pairs: pairs}
}
