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
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/require"

	"github.com/pipeql/pipeql/types"
)

func buildI32(vals []int32) types.Array {
	b := types.NewArrayBuilder(types.Int32, nil)
	ib := b.Inner().(*array.Int32Builder)
	for _, v := range vals {
		ib.Append(v)
	}
	return b.NewArray()
}

// TestArithmeticModulo is scenario 1.
func TestArithmeticModulo(t *testing.T) {
	reg := NewRegistry()
	RegisterArithmeticFamily(reg)

	a := buildI32([]int32{4, 5, 6})
	b := buildI32([]int32{1, 2, 3})

	planned, err := reg.PlanCall("rem", []types.LogicalType{types.Int32, types.Int32})
	require.NoError(t, err)
	require.True(t, planned.ReturnType.Equal(types.Int32))

	out, err := planned.Execute([]types.Array{a, b})
	require.NoError(t, err)

	v0, _ := types.GetI32(out, 0)
	v1, _ := types.GetI32(out, 1)
	v2, _ := types.GetI32(out, 2)
	require.Equal(t, []int32{0, 1, 0}, []int32{v0, v1, v2})
}

func TestArithmeticDivideByZero(t *testing.T) {
	reg := NewRegistry()
	RegisterArithmeticFamily(reg)

	a := buildI32([]int32{4})
	b := buildI32([]int32{0})

	planned, err := reg.PlanCall("div", []types.LogicalType{types.Int32, types.Int32})
	require.NoError(t, err)

	_, err = planned.Execute([]types.Array{a, b})
	require.Error(t, err)
}

func TestArithmeticOverflowWraps(t *testing.T) {
	reg := NewRegistry()
	RegisterArithmeticFamily(reg)

	b := types.NewArrayBuilder(types.Int8, nil)
	ib := b.Inner().(*array.Int8Builder)
	ib.Append(127)
	a := b.NewArray()

	b2 := types.NewArrayBuilder(types.Int8, nil)
	ib2 := b2.Inner().(*array.Int8Builder)
	ib2.Append(1)
	c := b2.NewArray()

	planned, err := reg.PlanCall("add", []types.LogicalType{types.Int8, types.Int8})
	require.NoError(t, err)

	out, err := planned.Execute([]types.Array{a, c})
	require.NoError(t, err)
	v, _ := types.GetI8(out, 0)
	require.Equal(t, int8(-128), v) // wraps, 
}

func TestInvalidInputTypes(t *testing.T) {
	reg := NewRegistry()
	RegisterArithmeticFamily(reg)

	_, err := reg.PlanCall("add", []types.LogicalType{types.Int32, types.Utf8})
	require.Error(t, err)
}
