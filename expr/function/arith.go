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
	"math"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

// Integer is the constraint over Go's native integer element types
// backing physical storage PhysicalI8..PhysicalU64. Integer overflow
// wraps in two's complement for both signed and unsigned kernels, per
// and the open-question decision in DESIGN.md.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Float is the constraint over Go's native floating-point element
// types. Float ops follow IEEE-754 including NaN propagation and
// signed zero — exactly what Go's arithmetic operators
// already do, so no special-casing is required.
type Float interface {
	~float32 | ~float64
}

type intArithImpl[T Integer] struct {
	op arithKind
	get types.Getter[T]
	put types.Appender[T]
	returnLog types.LogicalType
	physical types.PhysicalStorage
}

type arithKind uint8

const (
	arithAdd arithKind = iota
	arithSub
	arithMul
	arithDiv
	arithRem
)

func (impl intArithImpl[T]) Execute(inputs []types.Array) (types.Array, error) {
	left, right := inputs[0], inputs[1]
	out := types.NewArrayBuilder(impl.returnLog, nil)
	exec := types.BinaryExecutor[T, T, T]{GetA: impl.get, GetB: impl.get, Put: impl.put}
	err := exec.Execute(left, right, impl.physical, impl.physical, out, func(a, b T) (T, error) {
		switch impl.op {
		case arithAdd:
			return a + b, nil
		case arithSub:
			return a - b, nil
		case arithMul:
			return a * b, nil
		case arithDiv:
			if b == 0 {
				return 0, errkind.DivideByZero.New()
			}
			return a / b, nil
		case arithRem:
			if b == 0 {
				return 0, errkind.DivideByZero.New()
			}
			return a % b, nil
		default:
			return 0, errkind.Internal.New("unknown arith op")
		}
	})
	if err != nil {
		return types.Array{}, err
	}
	return out.NewArray(), nil
}

type floatArithImpl[T Float] struct {
	op arithKind
	get types.Getter[T]
	put types.Appender[T]
	returnLog types.LogicalType
	physical types.PhysicalStorage
}

func (impl floatArithImpl[T]) Execute(inputs []types.Array) (types.Array, error) {
	left, right := inputs[0], inputs[1]
	out := types.NewArrayBuilder(impl.returnLog, nil)
	exec := types.BinaryExecutor[T, T, T]{GetA: impl.get, GetB: impl.get, Put: impl.put}
	err := exec.Execute(left, right, impl.physical, impl.physical, out, func(a, b T) (T, error) {
		switch impl.op {
		case arithAdd:
			return a + b, nil
		case arithSub:
			return a - b, nil
		case arithMul:
			return a * b, nil
		case arithDiv:
			return a / b, nil // IEEE-754: b==0 yields +/-Inf or NaN, not an error.
		case arithRem:
			return T(math.Mod(float64(a), float64(b))), nil
		default:
			return 0, errkind.Internal.New("unknown float arith op")
		}
	})
	if err != nil {
		return types.Array{}, err
	}
	return out.NewArray(), nil
}

func registerIntegerArith[T Integer](
	reg *Registry, id types.LogicalTypeID, returnLog types.LogicalType, physical types.PhysicalStorage,
	get types.Getter[T], put types.Appender[T],
) {
	ops := []struct {
		name string
		kind arithKind
	}{
		{"add", arithAdd}, {"sub", arithSub}, {"mul", arithMul}, {"div", arithDiv}, {"rem", arithRem},
	}
	for _, o := range ops {
		kind := o.kind
		reg.Register(&ScalarFunction{
			Info: FunctionInfo{
				Name: o.name,
				Signatures: []Signature{{
					Input: []types.LogicalTypeID{id, id},
					ReturnType: returnLog,
				}},
			},
			Impls: []Implementer{
				func() ScalarFunctionImpl {
					return intArithImpl[T]{op: kind, get: get, put: put, returnLog: returnLog, physical: physical}
				},
			},
		})
	}
}

func registerFloatArith[T Float](
	reg *Registry, id types.LogicalTypeID, returnLog types.LogicalType, physical types.PhysicalStorage,
	get types.Getter[T], put types.Appender[T],
) {
	ops := []struct {
		name string
		kind arithKind
	}{
		{"add", arithAdd}, {"sub", arithSub}, {"mul", arithMul}, {"div", arithDiv}, {"rem", arithRem},
	}
	for _, o := range ops {
		kind := o.kind
		reg.Register(&ScalarFunction{
			Info: FunctionInfo{
				Name: o.name,
				Signatures: []Signature{{
					Input: []types.LogicalTypeID{id, id},
					ReturnType: returnLog,
				}},
			},
			Impls: []Implementer{
				func() ScalarFunctionImpl {
					return floatArithImpl[T]{op: kind, get: get, put: put, returnLog: returnLog, physical: physical}
				},
			},
		})
	}
}

// RegisterArithmeticFamily registers Add/Sub/Mul/Div/Rem over the 13
// numeric physical types: the 8 native-width integer types, the 2
// native-width float types, and Float16/Int128/UInt128 — the latter
// three registered by RegisterDecimalArith (arith_decimal.go), which
// computes through shopspring/decimal over the Decimal128 Arrow
// buffers those types are stored in. Each call below
// registers one physical type's overload under the shared names
// ("add", "sub", ...); Register merges them into a single overload
// set per name rather than letting a later call shadow an earlier one.
func RegisterArithmeticFamily(reg *Registry) {
	registerIntegerArith[int8](reg, types.IDInt8, types.Int8, types.PhysicalI8, types.GetI8, types.PutI8)
	registerIntegerArith[int16](reg, types.IDInt16, types.Int16, types.PhysicalI16, types.GetI16, types.PutI16)
	registerIntegerArith[int32](reg, types.IDInt32, types.Int32, types.PhysicalI32, types.GetI32, types.PutI32)
	registerIntegerArith[int64](reg, types.IDInt64, types.Int64, types.PhysicalI64, types.GetI64, types.PutI64)
	registerIntegerArith[uint8](reg, types.IDUInt8, types.UInt8, types.PhysicalU8, types.GetU8, types.PutU8)
	registerIntegerArith[uint16](reg, types.IDUInt16, types.UInt16, types.PhysicalU16, types.GetU16, types.PutU16)
	registerIntegerArith[uint32](reg, types.IDUInt32, types.UInt32, types.PhysicalU32, types.GetU32, types.PutU32)
	registerIntegerArith[uint64](reg, types.IDUInt64, types.UInt64, types.PhysicalU64, types.GetU64, types.PutU64)

	registerFloatArith[float32](reg, types.IDFloat32, types.Float32, types.PhysicalF32, types.GetF32, types.PutF32)
	registerFloatArith[float64](reg, types.IDFloat64, types.Float64, types.PhysicalF64, types.GetF64, types.PutF64)

	RegisterDecimalArith(reg)
}
