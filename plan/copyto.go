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

// CopyToFunction is an erased sink factory identified by Name, the
// handle a CopyTo node carries instead of a concrete sink
// implementation. Equality for round-trip serialization is
// name-equality: the process registry that creates concrete sinks is
// looked up by Name at deserialization time, not compared
// structurally.
type CopyToFunction struct {
	Name string
	Args map[string]string
}

// Equal compares two handles by name, the documented round-trip
// equality for an otherwise-opaque function reference.
func (f CopyToFunction) Equal(o CopyToFunction) bool { return f.Name == o.Name }

// CopyTo routes its child's rows to the writer CopyToFunction
// constructs, carrying the originating schema so the writer can be
// planned without re-deriving it from the child ("CopyTo").
type CopyTo struct {
	Base

	SourceSchema []expr.ScalarExpression
	Location string
	Sink CopyToFunction
}

// NewCopyTo builds a CopyTo over a single child.
func NewCopyTo(child LogicalOperator, sourceSchema []expr.ScalarExpression, location string, sink CopyToFunction) *CopyTo {
	return &CopyTo{
		Base: Base{Loc: child.Location(), Kids: []LogicalOperator{child}},
		SourceSchema: sourceSchema,
		Location: location,
		Sink: sink,
	}
}

// GetOutputTableRefs is empty: CopyTo is a terminal node, it produces
// no rows for a parent to consume.
func (c *CopyTo) GetOutputTableRefs() []expr.TableRef { return nil }

// ExplainEntry renders CopyTo's self-description.
func (c *CopyTo) ExplainEntry(ExplainConfig) ExplainEntry {
	return ExplainEntry{Name: "CopyTo", Pairs: [][2]string{
		{"location", c.Location},
		{"sink", c.Sink.Name},
	}}
}
