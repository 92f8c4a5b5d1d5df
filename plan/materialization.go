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
	"github.com/google/uuid"

	"github.com/pipeql/pipeql/expr"
)

// MaterializationRef identifies a Materialization by a process-unique
// id, so a Scan can reference it (ScanSourceMaterialization) without
// holding a pointer into the plan tree ("Materialization").
type MaterializationRef uuid.UUID

func (r MaterializationRef) String() string { return uuid.UUID(r).String() }

// NewMaterializationRef mints a fresh ref.
func NewMaterializationRef() MaterializationRef {
	return MaterializationRef(uuid.New())
}

// Materialization forces its child to be fully computed and spilled to
// a reusable buffer before any Scan referencing Ref may read it,
// letting a CTE or subquery result be scanned more than once without
// recomputation ("Materialization").
type Materialization struct {
	Base

	Ref MaterializationRef
}

// NewMaterialization builds a Materialization over a single child.
func NewMaterialization(child LogicalOperator, ref MaterializationRef) *Materialization {
	return &Materialization{
		Base: Base{Loc: child.Location(), Kids: []LogicalOperator{child}},
		Ref: ref,
	}
}

// GetOutputTableRefs delegates to the child: a Materialization is
// transparent to the refs its rows belong to.
func (m *Materialization) GetOutputTableRefs() []expr.TableRef { return childRefs(m.Kids) }

// ExplainEntry renders Materialization's self-description.
func (m *Materialization) ExplainEntry(ExplainConfig) ExplainEntry {
	return ExplainEntry{Name: "Materialization", Pairs: [][2]string{{"ref", m.Ref.String()}}}
}
