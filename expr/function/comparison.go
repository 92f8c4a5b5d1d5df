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
	"cmp"

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

// EvalComparison executes op pairwise over left and right, producing a
// Boolean array. It is the kernel comparison joins and Filter
// predicates both drive ("Comparison").
func EvalComparison(op expr.ComparisonOperator, left, right types.Array) (types.Array, error) {
	if left.Physical() != right.Physical() {
		return types.Array{}, errkind.PhysicalMismatch.New(left.Physical(), right.Physical())
	}
	switch left.Physical() {
	case types.PhysicalI32:
		return compareOrdered(op, left, right, types.GetI32)
	case types.PhysicalI64:
		return compareOrdered(op, left, right, types.GetI64)
	case types.PhysicalI16:
		return compareOrdered(op, left, right, types.GetI16)
	case types.PhysicalI8:
		return compareOrdered(op, left, right, types.GetI8)
	case types.PhysicalU8:
		return compareOrdered(op, left, right, types.GetU8)
	case types.PhysicalU16:
		return compareOrdered(op, left, right, types.GetU16)
	case types.PhysicalU32:
		return compareOrdered(op, left, right, types.GetU32)
	case types.PhysicalU64:
		return compareOrdered(op, left, right, types.GetU64)
	case types.PhysicalF32:
		return compareOrdered(op, left, right, types.GetF32)
	case types.PhysicalF64:
		return compareOrdered(op, left, right, types.GetF64)
	case types.PhysicalUtf8:
		return compareOrdered(op, left, right, types.GetUtf8)
	case types.PhysicalBool:
		return compareBool(op, left, right)
	default:
		return types.Array{}, errkind.NotImplemented.New("comparison over " + left.Physical().String())
	}
}

func compareOrdered[T cmp.Ordered](op expr.ComparisonOperator, left, right types.Array, get types.Getter[T]) (types.Array, error) {
	out := types.NewArrayBuilder(types.Boolean, nil)
	exec := types.BinaryExecutor[T, T, bool]{GetA: get, GetB: get, Put: types.PutBool}
	err := exec.Execute(left, right, left.Physical(), right.Physical(), out, func(a, b T) (bool, error) {
		return applyOp(op, cmp.Compare(a, b)), nil
	})
	if err != nil {
		return types.Array{}, err
	}
	return out.NewArray(), nil
}

func compareBool(op expr.ComparisonOperator, left, right types.Array) (types.Array, error) {
	out := types.NewArrayBuilder(types.Boolean, nil)
	exec := types.BinaryExecutor[bool, bool, bool]{GetA: types.GetBool, GetB: types.GetBool, Put: types.PutBool}
	err := exec.Execute(left, right, types.PhysicalBool, types.PhysicalBool, out, func(a, b bool) (bool, error) {
		c := 0
		if a != b {
			if a {
				c = 1
			} else {
				c = -1
			}
		}
		return applyOp(op, c), nil
	})
	if err != nil {
		return types.Array{}, err
	}
	return out.NewArray(), nil
}

func applyOp(op expr.ComparisonOperator, c int) bool {
	switch op {
	case expr.Eq:
		return c == 0
	case expr.NotEq:
		return c != 0
	case expr.Lt:
		return c < 0
	case expr.LtEq:
		return c <= 0
	case expr.Gt:
		return c > 0
	case expr.GtEq:
		return c >= 0
	default:
		return false
	}
}
