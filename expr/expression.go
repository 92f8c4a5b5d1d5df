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

package expr

import (
	"fmt"

	"github.com/pipeql/pipeql/types"
)

// ScalarExpression is the sum type over every expression variant:
// Literal, Column, Arith, Comparison, Conjunction, Cast,
// ScalarFunctionCall, Subquery, Case, In, Between, IsNull, Like,
// Negate, AggregateCall, WindowCall, GroupingFunc. Every variant can
// answer Datatype without side effects and enumerates its own operand
// expressions via Children.
type ScalarExpression interface {
	// Datatype resolves this expression's output type against b,
	// lazily resolving any Column operands.
	Datatype(b *BindContext) (types.LogicalType, error)
	// Children returns this expression's operand subtree, in order.
	Children() []ScalarExpression
	// String renders a debug/explain form of the expression.
	String() string
}

// Literal is a constant scalar value of a known type.
type Literal struct {
	Type types.LogicalType
	Value interface{}
}

func (l *Literal) Datatype(*BindContext) (types.LogicalType, error) { return l.Type, nil }
func (l *Literal) Children() []ScalarExpression { return nil }
func (l *Literal) String() string { return literalString(l.Value) }

// Column is a lazily-typed reference to (TableRef, column_index),
// resolved against the bind context only when a type is needed
// ("Column expression").
type Column struct {
	Table TableRef
	Index int
	Name string
}

func (c *Column) Datatype(b *BindContext) (types.LogicalType, error) {
	return b.GetColumnType(c.Table, c.Index)
}
func (c *Column) Children() []ScalarExpression { return nil }
func (c *Column) String() string { return c.Name }

// ArithOp enumerates the arithmetic family.
type ArithOp uint8

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithDiv
	ArithRem
)

func (op ArithOp) String() string {
	switch op {
	case ArithAdd:
		return "+"
	case ArithSub:
		return "-"
	case ArithMul:
		return "*"
	case ArithDiv:
		return "/"
	case ArithRem:
		return "%"
	default:
		return "?"
	}
}

// Arith is a binary arithmetic expression, planned through the scalar
// function registry the same way a named function call is, resolving
// to a member of the arithmetic family by operand type.
type Arith struct {
	Op ArithOp
	Left, Right ScalarExpression
	ReturnType types.LogicalType
}

func (a *Arith) Datatype(*BindContext) (types.LogicalType, error) { return a.ReturnType, nil }
func (a *Arith) Children() []ScalarExpression { return []ScalarExpression{a.Left, a.Right} }
func (a *Arith) String() string { return "(" + a.Left.String() + " " + a.Op.String() + " " + a.Right.String() + ")" }

// Comparison is a binary comparison expression using ComparisonOperator.
type Comparison struct {
	Op ComparisonOperator
	Left, Right ScalarExpression
}

func (c *Comparison) Datatype(*BindContext) (types.LogicalType, error) { return types.Boolean, nil }
func (c *Comparison) Children() []ScalarExpression {
	return []ScalarExpression{c.Left, c.Right}
}
func (c *Comparison) String() string {
	return "(" + c.Left.String() + " " + c.Op.String() + " " + c.Right.String() + ")"
}

// FlipSides returns the operand-swapped equivalent of this comparison,
// using ComparisonOperator.Flip so that `C.FlipSides(); C.FlipSides()`
// is the identity.
func (c *Comparison) FlipSides() *Comparison {
	return &Comparison{Op: c.Op.Flip(), Left: c.Right, Right: c.Left}
}

// ConjunctionKind distinguishes AND from OR.
type ConjunctionKind uint8

const (
	ConjunctionAnd ConjunctionKind = iota
	ConjunctionOr
)

// Conjunction is a variadic AND/OR over boolean operands.
type Conjunction struct {
	Kind ConjunctionKind
	Operands []ScalarExpression
}

func (c *Conjunction) Datatype(*BindContext) (types.LogicalType, error) { return types.Boolean, nil }
func (c *Conjunction) Children() []ScalarExpression { return c.Operands }
func (c *Conjunction) String() string {
	sep := " AND "
	if c.Kind == ConjunctionOr {
		sep = " OR "
	}
	s := ""
	for i, op := range c.Operands {
		if i > 0 {
			s += sep
		}
		s += op.String()
	}
	return "(" + s + ")"
}

// Cast converts Input to To. function.Evaluator has no case for Cast:
// evaluating one fails with NotImplemented, and CastFailed is not
// raised.
type Cast struct {
	Input ScalarExpression
	To types.LogicalType
}

func (c *Cast) Datatype(*BindContext) (types.LogicalType, error) { return c.To, nil }
func (c *Cast) Children() []ScalarExpression { return []ScalarExpression{c.Input} }
func (c *Cast) String() string { return "CAST(" + c.Input.String() + " AS " + c.To.String() + ")" }

// Negate is unary arithmetic negation.
type Negate struct {
	Input ScalarExpression
	ReturnType types.LogicalType
}

func (n *Negate) Datatype(*BindContext) (types.LogicalType, error) { return n.ReturnType, nil }
func (n *Negate) Children() []ScalarExpression { return []ScalarExpression{n.Input} }
func (n *Negate) String() string { return "-" + n.Input.String() }

// IsNull tests its operand for nullity; Negated turns it into IS NOT
// NULL without a separate variant.
type IsNull struct {
	Input ScalarExpression
	Negated bool
}

func (i *IsNull) Datatype(*BindContext) (types.LogicalType, error) { return types.Boolean, nil }
func (i *IsNull) Children() []ScalarExpression { return []ScalarExpression{i.Input} }
func (i *IsNull) String() string {
	if i.Negated {
		return i.Input.String() + " IS NOT NULL"
	}
	return i.Input.String() + " IS NULL"
}

// Like is a pattern-match predicate over Utf8 operands.
type Like struct {
	Input, Pattern ScalarExpression
	Negated bool
}

func (l *Like) Datatype(*BindContext) (types.LogicalType, error) { return types.Boolean, nil }
func (l *Like) Children() []ScalarExpression { return []ScalarExpression{l.Input, l.Pattern} }
func (l *Like) String() string {
	if l.Negated {
		return l.Input.String() + " NOT LIKE " + l.Pattern.String()
	}
	return l.Input.String() + " LIKE " + l.Pattern.String()
}

// Between is a conjunction of Low <= Input <= High expressed as its own
// variant so the planner can choose a dedicated ternary kernel.
type Between struct {
	Input, Low, High ScalarExpression
	Negated bool
}

func (b *Between) Datatype(*BindContext) (types.LogicalType, error) { return types.Boolean, nil }
func (b *Between) Children() []ScalarExpression {
	return []ScalarExpression{b.Input, b.Low, b.High}
}
func (b *Between) String() string {
	s := b.Input.String() + " BETWEEN " + b.Low.String() + " AND " + b.High.String()
	if b.Negated {
		return "NOT " + s
	}
	return s
}

// In tests membership of Input in List.
type In struct {
	Input ScalarExpression
	List []ScalarExpression
	Negated bool
}

func (i *In) Datatype(*BindContext) (types.LogicalType, error) { return types.Boolean, nil }
func (i *In) Children() []ScalarExpression {
	out := make([]ScalarExpression, 0, len(i.List)+1)
	out = append(out, i.Input)
	return append(out, i.List...)
}
func (i *In) String() string {
	s := i.Input.String() + " IN (...)"
	if i.Negated {
		return i.Input.String() + " NOT IN (...)"
	}
	return s
}

// CaseBranch is one WHEN/THEN pair of a Case expression.
type CaseBranch struct {
	When ScalarExpression
	Then ScalarExpression
}

// Case is a SQL CASE WHEN... THEN... ELSE... expression.
type Case struct {
	Branches []CaseBranch
	Else ScalarExpression
	ReturnType types.LogicalType
}

func (c *Case) Datatype(*BindContext) (types.LogicalType, error) { return c.ReturnType, nil }
func (c *Case) Children() []ScalarExpression {
	out := make([]ScalarExpression, 0, len(c.Branches)*2+1)
	for _, br := range c.Branches {
		out = append(out, br.When, br.Then)
	}
	if c.Else != nil {
		out = append(out, c.Else)
	}
	return out
}
func (c *Case) String() string { return "CASE... END" }

// ScalarFunctionCall is a planned or unplanned call to a named scalar
// function; planning resolves it to a PlannedScalarFunction (expr/function).
type ScalarFunctionCall struct {
	Name string
	Args []ScalarExpression
	ReturnType types.LogicalType
}

func (f *ScalarFunctionCall) Datatype(*BindContext) (types.LogicalType, error) {
	return f.ReturnType, nil
}
func (f *ScalarFunctionCall) Children() []ScalarExpression { return f.Args }
func (f *ScalarFunctionCall) String() string { return f.Name + "(...)" }

// AggregateCall names an aggregate function reference stored as an
// opaque handle inside the expression tree, an erased function
// reference resolved by name at execution time.
type AggregateCall struct {
	Name string
	Args []ScalarExpression
	Distinct bool
	ReturnType types.LogicalType
}

func (a *AggregateCall) Datatype(*BindContext) (types.LogicalType, error) {
	return a.ReturnType, nil
}
func (a *AggregateCall) Children() []ScalarExpression { return a.Args }
func (a *AggregateCall) String() string { return a.Name + "(...)" }

// WindowCall is a window-function invocation; out of scope for
// execution (no window operator is lowered) but representable in the
// tree so binding/explain machinery is uniform.
type WindowCall struct {
	Name string
	Args []ScalarExpression
	ReturnType types.LogicalType
}

func (w *WindowCall) Datatype(*BindContext) (types.LogicalType, error) {
	return w.ReturnType, nil
}
func (w *WindowCall) Children() []ScalarExpression { return w.Args }
func (w *WindowCall) String() string { return w.Name + "(...) OVER (...)" }

// GroupingFunc answers "was this column part of the grouping set that
// produced this row", reading the grouping-set id tag an Aggregate
// stamps onto each output row.
type GroupingFunc struct {
	ColumnIndexes []int
}

func (g *GroupingFunc) Datatype(*BindContext) (types.LogicalType, error) { return types.Int64, nil }
func (g *GroupingFunc) Children() []ScalarExpression { return nil }
func (g *GroupingFunc) String() string { return "GROUPING(...)" }

// Subquery wraps a scalar/exists/in subquery; its logical plan is
// stored as an opaque interface{} since plan.LogicalOperator lives in
// a higher layer than expr and importing it here would invert the
// L2-depends-on-L3 layering the component design lays out.
type Subquery struct {
	Plan interface{}
	ReturnType types.LogicalType
}

func (s *Subquery) Datatype(*BindContext) (types.LogicalType, error) { return s.ReturnType, nil }
func (s *Subquery) Children() []ScalarExpression { return nil }
func (s *Subquery) String() string { return "(SUBQUERY)" }

func literalString(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	switch t := v.(type) {
	case string:
		return "'" + t + "'"
	default:
		return fmt.Sprint(t)
	}
}
