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

package function

import (
	"strings"

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

// ColumnResolver maps a Column expression's (TableRef, index) to its
// physical position within the batch being evaluated, the "resolving
// each ColumnExpr to a batch column index" step.
type ColumnResolver func(table expr.TableRef, index int) (int, error)

// Evaluator evaluates a bound scalar expression tree against a
// columnar batch, batch at a time ("Execution"). It is
// the runtime counterpart of expr.ScalarExpression.Datatype: given
// identical inputs it is referentially transparent.
type Evaluator struct {
	Registry *Registry
	Resolve ColumnResolver
	Bind *expr.BindContext
}

// Eval dispatches on the dynamic type of e and returns the resulting
// column. The caller is responsible for releasing the returned array.
func (ev Evaluator) Eval(e expr.ScalarExpression, batch types.Batch) (types.Array, error) {
	switch v := e.(type) {
	case *expr.Literal:
		return ev.evalLiteral(v, batch.NumRows())
	case *expr.Column:
		idx, err := ev.Resolve(v.Table, v.Index)
		if err != nil {
			return types.Array{}, err
		}
		if idx < 0 || idx >= batch.NumCols() {
			return types.Array{}, errkind.Internal.New("resolved column index out of range")
		}
		return batch.Column(idx), nil
	case *expr.Arith:
		return ev.evalArith(v, batch)
	case *expr.Comparison:
		left, err := ev.Eval(v.Left, batch)
		if err != nil {
			return types.Array{}, err
		}
		right, err := ev.Eval(v.Right, batch)
		if err != nil {
			return types.Array{}, err
		}
		return EvalComparison(v.Op, left, right)
	case *expr.Conjunction:
		return ev.evalConjunction(v, batch)
	case *expr.Negate:
		return ev.evalNegate(v, batch)
	case *expr.IsNull:
		return ev.evalIsNull(v, batch)
	case *expr.ScalarFunctionCall:
		return ev.evalFunctionCall(v, batch)
	default:
		return types.Array{}, errkind.NotImplemented.New("evaluation of " + e.String())
	}
}

func (ev Evaluator) evalLiteral(l *expr.Literal, n int) (types.Array, error) {
	b := types.NewArrayBuilder(l.Type, nil)
	for i := 0; i < n; i++ {
		if l.Value == nil {
			b.AppendNull()
			continue
		}
		if err := appendLiteralValue(b, l.Type, l.Value); err != nil {
			return types.Array{}, err
		}
	}
	return b.NewArray(), nil
}

func appendLiteralValue(b types.ArrayBuilder, t types.LogicalType, v interface{}) error {
	switch t.Physical() {
	case types.PhysicalI32:
		types.PutI32(b, v.(int32))
	case types.PhysicalI64:
		types.PutI64(b, v.(int64))
	case types.PhysicalI16:
		types.PutI16(b, v.(int16))
	case types.PhysicalI8:
		types.PutI8(b, v.(int8))
	case types.PhysicalU8:
		types.PutU8(b, v.(uint8))
	case types.PhysicalU16:
		types.PutU16(b, v.(uint16))
	case types.PhysicalU32:
		types.PutU32(b, v.(uint32))
	case types.PhysicalU64:
		types.PutU64(b, v.(uint64))
	case types.PhysicalF32:
		types.PutF32(b, v.(float32))
	case types.PhysicalF64:
		types.PutF64(b, v.(float64))
	case types.PhysicalBool:
		types.PutBool(b, v.(bool))
	case types.PhysicalUtf8:
		types.PutUtf8(b, v.(string))
	default:
		return errkind.NotImplemented.New("literal of physical type " + t.Physical().String())
	}
	return nil
}

func (ev Evaluator) evalArith(a *expr.Arith, batch types.Batch) (types.Array, error) {
	left, err := ev.Eval(a.Left, batch)
	if err != nil {
		return types.Array{}, err
	}
	right, err := ev.Eval(a.Right, batch)
	if err != nil {
		return types.Array{}, err
	}
	leftType, err := a.Left.Datatype(ev.Bind)
	if err != nil {
		return types.Array{}, err
	}
	rightType, err := a.Right.Datatype(ev.Bind)
	if err != nil {
		return types.Array{}, err
	}
	name := arithOpName(a.Op)
	planned, err := ev.Registry.PlanCall(name, []types.LogicalType{leftType, rightType})
	if err != nil {
		return types.Array{}, err
	}
	return planned.Execute([]types.Array{left, right})
}

func arithOpName(op expr.ArithOp) string {
	switch op {
	case expr.ArithAdd:
		return "add"
	case expr.ArithSub:
		return "sub"
	case expr.ArithMul:
		return "mul"
	case expr.ArithDiv:
		return "div"
	case expr.ArithRem:
		return "rem"
	default:
		return "add"
	}
}

func (ev Evaluator) evalConjunction(c *expr.Conjunction, batch types.Batch) (types.Array, error) {
	if len(c.Operands) == 0 {
		return types.Array{}, errkind.Internal.New("empty conjunction")
	}
	acc, err := ev.Eval(c.Operands[0], batch)
	if err != nil {
		return types.Array{}, err
	}
	for _, operand := range c.Operands[1:] {
		next, err := ev.Eval(operand, batch)
		if err != nil {
			return types.Array{}, err
		}
		out := types.NewArrayBuilder(types.Boolean, nil)
		exec := types.BinaryExecutor[bool, bool, bool]{GetA: types.GetBool, GetB: types.GetBool, Put: types.PutBool}
		err = exec.Execute(acc, next, types.PhysicalBool, types.PhysicalBool, out, func(x, y bool) (bool, error) {
			if c.Kind == expr.ConjunctionOr {
				return x || y, nil
			}
			return x && y, nil
		})
		if err != nil {
			return types.Array{}, err
		}
		acc = out.NewArray()
	}
	return acc, nil
}

func (ev Evaluator) evalNegate(n *expr.Negate, batch types.Batch) (types.Array, error) {
	in, err := ev.Eval(n.Input, batch)
	if err != nil {
		return types.Array{}, err
	}
	out := types.NewArrayBuilder(n.ReturnType, nil)
	switch in.Physical() {
	case types.PhysicalI32:
		exec := types.UnaryExecutor[int32, int32]{Get: types.GetI32, Put: types.PutI32}
		if err := exec.Execute(in, types.PhysicalI32, out, func(v int32) int32 { return -v }); err != nil {
			return types.Array{}, err
		}
	case types.PhysicalI64:
		exec := types.UnaryExecutor[int64, int64]{Get: types.GetI64, Put: types.PutI64}
		if err := exec.Execute(in, types.PhysicalI64, out, func(v int64) int64 { return -v }); err != nil {
			return types.Array{}, err
		}
	case types.PhysicalF64:
		exec := types.UnaryExecutor[float64, float64]{Get: types.GetF64, Put: types.PutF64}
		if err := exec.Execute(in, types.PhysicalF64, out, func(v float64) float64 { return -v }); err != nil {
			return types.Array{}, err
		}
	default:
		return types.Array{}, errkind.NotImplemented.New("negate over " + in.Physical().String())
	}
	return out.NewArray(), nil
}

func (ev Evaluator) evalIsNull(in *expr.IsNull, batch types.Batch) (types.Array, error) {
	arr, err := ev.Eval(in.Input, batch)
	if err != nil {
		return types.Array{}, err
	}
	out := types.NewArrayBuilder(types.Boolean, nil)
	out.Reserve(arr.Len())
	for i := 0; i < arr.Len(); i++ {
		isNull := arr.IsNull(i)
		if in.Negated {
			types.PutBool(out, !isNull)
		} else {
			types.PutBool(out, isNull)
		}
	}
	return out.NewArray(), nil
}

func (ev Evaluator) evalFunctionCall(f *expr.ScalarFunctionCall, batch types.Batch) (types.Array, error) {
	args := make([]types.Array, len(f.Args))
	argTypes := make([]types.LogicalType, len(f.Args))
	for i, a := range f.Args {
		arr, err := ev.Eval(a, batch)
		if err != nil {
			return types.Array{}, err
		}
		args[i] = arr
		t, err := a.Datatype(ev.Bind)
		if err != nil {
			return types.Array{}, err
		}
		argTypes[i] = t
	}
	planned, err := ev.Registry.PlanCall(strings.ToLower(f.Name), argTypes)
	if err != nil {
		return types.Array{}, err
	}
	return planned.Execute(args)
}
