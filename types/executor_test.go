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

package types

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/require"
)

func buildI32(t *testing.T, mem bool, vals []int32, valid []bool) Array {
	b := NewArrayBuilder(Int32, nil)
	ib := b.Inner().(*array.Int32Builder)
	for i, v := range vals {
		if valid != nil && !valid[i] {
			ib.AppendNull()
			continue
		}
		ib.Append(v)
	}
	return b.NewArray()
}

func TestUnaryExecutorAddOne(t *testing.T) {
	in := buildI32(t, false, []int32{1, 2, 3}, nil)
	out := NewArrayBuilder(Int32, nil)

	exec := UnaryExecutor[int32, int32]{Get: GetI32, Put: PutI32}
	err := exec.Execute(in, PhysicalI32, out, func(v int32) int32 { return v + 1 })
	require.NoError(t, err)

	arr := out.NewArray()
	require.Equal(t, 3, arr.Len())
	v, ok := GetI32(arr, 0)
	require.True(t, ok)
	require.Equal(t, int32(2), v)
}

func TestUnaryExecutorNullPropagates(t *testing.T) {
	in := buildI32(t, false, []int32{1, 0, 3}, []bool{true, false, true})
	out := NewArrayBuilder(Int32, nil)

	exec := UnaryExecutor[int32, int32]{Get: GetI32, Put: PutI32}
	err := exec.Execute(in, PhysicalI32, out, func(v int32) int32 { return v * 2 })
	require.NoError(t, err)

	arr := out.NewArray()
	require.True(t, arr.IsNull(1))
	require.False(t, arr.IsNull(0))
}

func TestUnaryExecutorPhysicalMismatch(t *testing.T) {
	in := buildI32(t, false, []int32{1, 2}, nil)
	out := NewArrayBuilder(Int32, nil)

	exec := UnaryExecutor[int64, int64]{Get: GetI64, Put: PutI64}
	err := exec.Execute(in, PhysicalI64, out, func(v int64) int64 { return v })
	require.Error(t, err)
}

func TestBinaryExecutorModulo(t *testing.T) {
	// Scenario 1 : a=[4,5,6], b=[1,2,3], '%': [0,1,0].
	a := buildI32(t, false, []int32{4, 5, 6}, nil)
	b := buildI32(t, false, []int32{1, 2, 3}, nil)
	out := NewArrayBuilder(Int32, nil)

	exec := BinaryExecutor[int32, int32, int32]{GetA: GetI32, GetB: GetI32, Put: PutI32}
	err := exec.Execute(a, b, PhysicalI32, PhysicalI32, out, func(x, y int32) (int32, error) {
		return x % y, nil
	})
	require.NoError(t, err)

	arr := out.NewArray()
	v0, _ := GetI32(arr, 0)
	v1, _ := GetI32(arr, 1)
	v2, _ := GetI32(arr, 2)
	require.Equal(t, []int32{0, 1, 0}, []int32{v0, v1, v2})
}

func TestBinaryExecutorLengthMismatch(t *testing.T) {
	a := buildI32(t, false, []int32{1, 2, 3}, nil)
	b := buildI32(t, false, []int32{1, 2}, nil)
	out := NewArrayBuilder(Int32, nil)

	exec := BinaryExecutor[int32, int32, int32]{GetA: GetI32, GetB: GetI32, Put: PutI32}
	err := exec.Execute(a, b, PhysicalI32, PhysicalI32, out, func(x, y int32) (int32, error) {
		return x + y, nil
	})
	require.Error(t, err)
}

func TestUnaryExecutorEmptyArray(t *testing.T) {
	in := buildI32(t, false, nil, nil)
	out := NewArrayBuilder(Int32, nil)
	exec := UnaryExecutor[int32, int32]{Get: GetI32, Put: PutI32}
	err := exec.Execute(in, PhysicalI32, out, func(v int32) int32 { return v })
	require.NoError(t, err)
	require.Equal(t, 0, out.NewArray().Len())
}
