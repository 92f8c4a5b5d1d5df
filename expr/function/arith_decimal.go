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
	"github.com/shopspring/decimal"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

type decimalArithImpl struct {
	op arithKind
	physical types.PhysicalStorage
	returnLog types.LogicalType
	put types.Appender[decimal.Decimal]
}

func (impl decimalArithImpl) Execute(inputs []types.Array) (types.Array, error) {
	left, right := inputs[0], inputs[1]
	out := types.NewArrayBuilder(impl.returnLog, nil)
	var get types.Getter[decimal.Decimal]
	if impl.physical == types.PhysicalDecimal64 {
		get = types.GetDecimal64
	} else {
		get = types.GetDecimal128
	}
	exec := types.BinaryExecutor[decimal.Decimal, decimal.Decimal, decimal.Decimal]{GetA: get, GetB: get, Put: impl.put}
	err := exec.Execute(left, right, impl.physical, impl.physical, out, func(a, b decimal.Decimal) (decimal.Decimal, error) {
		switch impl.op {
		case arithAdd:
			return a.Add(b), nil
		case arithSub:
			return a.Sub(b), nil
		case arithMul:
			return a.Mul(b), nil
		case arithDiv:
			if b.IsZero() {
				return decimal.Decimal{}, errkind.DivideByZero.New()
			}
			return a.Div(b), nil
		case arithRem:
			if b.IsZero() {
				return decimal.Decimal{}, errkind.DivideByZero.New()
			}
			return a.Mod(b), nil
		default:
			return decimal.Decimal{}, errkind.Internal.New("unknown decimal arith op")
		}
	})
	if err != nil {
		return types.Array{}, err
	}
	return out.NewArray(), nil
}

func registerDecimalArithFor(reg *Registry, id types.LogicalTypeID, returnLog types.LogicalType, physical types.PhysicalStorage) {
	put := types.PutDecimal128
	if physical == types.PhysicalDecimal64 {
		put = func(b types.ArrayBuilder, v decimal.Decimal) { types.PutDecimal64(b, v) }
	}
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
					return decimalArithImpl{op: kind, physical: physical, returnLog: returnLog, put: put}
				},
			},
		})
	}
}

// RegisterDecimalArith registers Add/Sub/Mul/Div/Rem for Decimal64 and
// Decimal128, plus the three remaining entries 's "13
// numeric physical types" that Go has no native arithmetic for
// (Int128, UInt128, Float16): all three are stored in Decimal128-
// backed Arrow buffers (see types.LogicalType.ArrowDataType) and
// computed through shopspring/decimal the same way Decimal128 is,
// since Go lacks a native 128-bit integer or half-float ALU.
func RegisterDecimalArith(reg *Registry) {
	registerDecimalArithFor(reg, types.IDDecimal64, types.NewDecimal64(18, 4), types.PhysicalDecimal64)
	registerDecimalArithFor(reg, types.IDDecimal128, types.NewDecimal128(38, 6), types.PhysicalDecimal128)
	registerDecimalArithFor(reg, types.IDInt128, types.NewDecimal128(38, 0), types.PhysicalDecimal128)
	registerDecimalArithFor(reg, types.IDUInt128, types.NewDecimal128(38, 0), types.PhysicalDecimal128)
	registerDecimalArithFor(reg, types.IDFloat16, types.NewDecimal128(18, 6), types.PhysicalDecimal128)
}
