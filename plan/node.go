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

// Package plan is the L3 layer: the typed relational node tree
// ("Logical operator node") plus the QueryPlanner that
// lowers a bound query into it.
package plan

import "github.com/pipeql/pipeql/expr"

// LocationRequirement constrains where a node's pipeline must run.
type LocationRequirement uint8

const (
	Any LocationRequirement = iota
	ClientLocal
	Remote
)

func (l LocationRequirement) String() string {
	switch l {
	case ClientLocal:
		return "ClientLocal"
	case Remote:
		return "Remote"
	default:
		return "Any"
	}
}

// ExplainConfig controls the verbosity of ExplainEntry output.
type ExplainConfig struct {
	Verbose bool
}

// ExplainEntry is one node's self-describing explain output: a node
// name plus ordered key/value pairs ("Explain contract").
type ExplainEntry struct {
	Name string
	Pairs [][2]string
}

// Explainable is implemented by every concrete logical node.
type Explainable interface {
	ExplainEntry(conf ExplainConfig) ExplainEntry
}

// LogicalOperator is the uniform node interface every concrete node
// type implements: the Node<T> wrapper, generalized here
// as an interface plus an embeddable Base rather than a literal
// generic struct, since Go idiomatically expresses "typed node with
// shared bookkeeping" via embedding, the same way a UnaryNode/BinaryNode
// pair embeds shared fields across a plan tree's node kinds.
type LogicalOperator interface {
	Explainable
	// Location reports this node's LocationRequirement.
	Location() LocationRequirement
	// Children returns this node's ordered child operators.
	Children() []LogicalOperator
	// GetOutputTableRefs enumerates the TableRefs this node's output
	// columns belong to ("Output-ref propagation").
	GetOutputTableRefs() []expr.TableRef
}

// Base is the embeddable {location, children} pair every concrete node
// composes, matching Node<T> = {node, location, children}.
type Base struct {
	Loc LocationRequirement
	Kids []LogicalOperator
}

// Location implements LogicalOperator.
func (b *Base) Location() LocationRequirement { return b.Loc }

// Children implements LogicalOperator.
func (b *Base) Children() []LogicalOperator { return b.Kids }

// childRefs is a small helper most Filter/CrossJoin-style "delegate to
// child" nodes use for GetOutputTableRefs.
func childRefs(kids []LogicalOperator) []expr.TableRef {
	var out []expr.TableRef
	for _, k := range kids {
		out = append(out, k.GetOutputTableRefs()...)
	}
	return out
}
