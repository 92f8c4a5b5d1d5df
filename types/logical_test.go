// Copyright 2024 The pipeql Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogicalTypePhysical(t *testing.T) {
	var testCases = []struct {
		name string
		typ  LogicalType
		want PhysicalStorage
	}{
		{"int32", Int32, PhysicalI32},
		{"int64", Int64, PhysicalI64},
		{"uint8", UInt8, PhysicalU8},
		{"float64", Float64, PhysicalF64},
		{"utf8", Utf8, PhysicalUtf8},
		{"boolean", Boolean, PhysicalBool},
		{"decimal64", NewDecimal64(10, 2), PhysicalDecimal64},
		{"decimal128", NewDecimal128(38, 4), PhysicalDecimal128},
		{"list<int32>", List(Int32), PhysicalList},
		{"struct", Struct(StructField{Name: "a", Type: Int32}), PhysicalStruct},
		{"null", Null, PhysicalNull},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.typ.Physical())
		})
	}
}

func TestLogicalTypeIsNumeric(t *testing.T) {
	require.True(t, Int32.IsNumeric())
	require.True(t, UInt64.IsNumeric())
	require.True(t, Float32.IsNumeric())
	require.False(t, Utf8.IsNumeric())
	require.False(t, Boolean.IsNumeric())
	require.False(t, List(Int32).IsNumeric())
}

func TestLogicalTypeEqual(t *testing.T) {
	require.True(t, NewDecimal64(10, 2).Equal(NewDecimal64(10, 2)))
	require.False(t, NewDecimal64(10, 2).Equal(NewDecimal64(10, 3)))
	require.True(t, List(Int32).Equal(List(Int32)))
	require.False(t, List(Int32).Equal(List(Int64)))
	require.False(t, Int32.Equal(Int64))
}
