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

// SetOpKind enumerates UNION/INTERSECT/EXCEPT ("SetOp").
type SetOpKind uint8

const (
	SetOpUnion SetOpKind = iota
	SetOpIntersect
	SetOpExcept
)

func (k SetOpKind) String() string {
	switch k {
	case SetOpIntersect:
		return "Intersect"
	case SetOpExcept:
		return "Except"
	default:
		return "Union"
	}
}

// SetOp combines Left and Right rows, which must agree on column
// count and type by construction of the query planner, deduplicating
// unless All is set ("SetOp").
type SetOp struct {
	Base

	Kind SetOpKind
	All bool
	TableRef expr.TableRef
}

// NewSetOp builds a SetOp over exactly two children.
func NewSetOp(left, right LogicalOperator, kind SetOpKind, all bool, ref expr.TableRef) *SetOp {
	return &SetOp{
		Base: Base{Loc: Any, Kids: []LogicalOperator{left, right}},
		Kind: kind,
		All: all,
		TableRef: ref,
	}
}

// GetOutputTableRefs returns SetOp's own declared ref: output columns
// take their names/types from the left side by convention but are a
// fresh row shape distinct from either input.
func (s *SetOp) GetOutputTableRefs() []expr.TableRef { return []expr.TableRef{s.TableRef} }

// ExplainEntry renders SetOp's self-description.
func (s *SetOp) ExplainEntry(ExplainConfig) ExplainEntry {
	name := s.Kind.String()
	if s.All {
		name += "All"
	}
	return ExplainEntry{Name: name, Pairs: nil}
}
