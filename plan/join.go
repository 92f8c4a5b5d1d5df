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

// JoinTypeKind discriminates JoinType's variants, including the
// parameterized LeftMark{table_ref} form ("Join").
type JoinTypeKind uint8

const (
	JoinInner JoinTypeKind = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinSemi
	JoinAnti
	// JoinLeftMark tags each left row with whether it found a match,
	// writing the boolean into a synthetic column owned by MarkRef
	// rather than dropping/duplicating rows like Semi/Anti.
	JoinLeftMark
)

// JoinType is JoinTypeKind plus the extra TableRef LeftMark carries for
// its synthetic mark column.
type JoinType struct {
	Kind JoinTypeKind
	MarkRef expr.TableRef
}

func (jt JoinType) String() string {
	switch jt.Kind {
	case JoinLeft:
		return "Left"
	case JoinRight:
		return "Right"
	case JoinFull:
		return "Full"
	case JoinSemi:
		return "Semi"
	case JoinAnti:
		return "Anti"
	case JoinLeftMark:
		return fmt.Sprintf("LeftMark{%d}", jt.MarkRef)
	default:
		return "Inner"
	}
}

// JoinKind distinguishes the four join-condition shapes Join supports:
// a list of per-column equi/theta comparisons, the decorrelation-produced
// variant of the same shape, an arbitrary predicate tree, or none at all
// (CrossJoin).
type JoinKind uint8

const (
	ComparisonJoinKind JoinKind = iota
	MagicJoinKind
	ArbitraryJoinKind
	CrossJoinKind
)

// JoinCondition is one `{left_expr, right_expr, op}` term of a
// ComparisonJoin/MagicJoin; a join may carry several, ANDed together.
type JoinCondition struct {
	Left, Right expr.ScalarExpression
	Op expr.ComparisonOperator
}

func (c JoinCondition) String() string {
	return c.Left.String() + " " + c.Op.String() + " " + c.Right.String()
}

// Join is a two-child node combining Left and Right rows per Type and
// Kind ("ComparisonJoin"/"MagicJoin"/"ArbitraryJoin"/"CrossJoin").
type Join struct {
	Base

	Type JoinType
	Kind JoinKind

	// Conditions is populated when Kind is ComparisonJoinKind or
	// MagicJoinKind.
	Conditions []JoinCondition
	// DecorrelationRef is populated when Kind == MagicJoinKind: it
	// names the shared left-child materialization subquery
	// decorrelation introduced this join to probe against.
	DecorrelationRef MaterializationRef
	// Predicate is populated when Kind == ArbitraryJoinKind.
	Predicate expr.ScalarExpression
}

// NewComparisonJoin builds a Join whose condition is a list of
// per-column comparisons, the shape the physical planner prefers for
// hash join.
func NewComparisonJoin(left, right LogicalOperator, jt JoinType, conditions []JoinCondition) *Join {
	return &Join{
		Base: Base{Loc: Any, Kids: []LogicalOperator{left, right}},
		Type: jt,
		Kind: ComparisonJoinKind,
		Conditions: conditions,
	}
}

// NewMagicJoin builds the comparison join subquery decorrelation
// produces, additionally naming the shared left-child materialization
// ("Join", MagicJoin).
func NewMagicJoin(left, right LogicalOperator, jt JoinType, conditions []JoinCondition, decorrelationRef MaterializationRef) *Join {
	return &Join{
		Base: Base{Loc: Any, Kids: []LogicalOperator{left, right}},
		Type: jt,
		Kind: MagicJoinKind,
		Conditions: conditions,
		DecorrelationRef: decorrelationRef,
	}
}

// NewArbitraryJoin builds a Join whose condition is an arbitrary
// predicate tree. The physical planner does not lower this kind; it
// reports NotImplemented.
func NewArbitraryJoin(left, right LogicalOperator, jt JoinType, predicate expr.ScalarExpression) *Join {
	return &Join{
		Base: Base{Loc: Any, Kids: []LogicalOperator{left, right}},
		Type: jt,
		Kind: ArbitraryJoinKind,
		Predicate: predicate,
	}
}

// NewCrossJoin builds an unconditional Cartesian product Join.
func NewCrossJoin(left, right LogicalOperator, jt JoinType) *Join {
	return &Join{
		Base: Base{Loc: Any, Kids: []LogicalOperator{left, right}},
		Type: jt,
		Kind: CrossJoinKind,
	}
}

// GetOutputTableRefs concatenates the left and right child's refs, plus
// the synthetic MarkRef when this is a LeftMark join.
func (j *Join) GetOutputTableRefs() []expr.TableRef {
	out := childRefs(j.Kids)
	if j.Type.Kind == JoinLeftMark {
		out = append(out, j.Type.MarkRef)
	}
	return out
}

// ExplainEntry renders Join's self-description.
func (j *Join) ExplainEntry(conf ExplainConfig) ExplainEntry {
	pairs := [][2]string{{"type", j.Type.String()}}
	switch j.Kind {
	case ComparisonJoinKind, MagicJoinKind:
		for _, c := range j.Conditions {
			pairs = append(pairs, [2]string{"condition", c.String()})
		}
		if j.Kind == MagicJoinKind && conf.Verbose {
			pairs = append(pairs, [2]string{"decorrelation_ref", j.DecorrelationRef.String()})
		}
	case ArbitraryJoinKind:
		pairs = append(pairs, [2]string{"condition", j.Predicate.String()})
	case CrossJoinKind:
		pairs = append(pairs, [2]string{"condition", "(none)"})
	}
	return ExplainEntry{Name: "Join", Pairs: pairs}
}
