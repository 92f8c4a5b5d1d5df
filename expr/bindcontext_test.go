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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipeql/pipeql/types"
)

func TestBindContextPushAndGet(t *testing.T) {
	b := NewBindContext()
	ref := b.PushTable("", []types.LogicalType{types.Int32, types.Int32}, []string{"a", "b"})

	typ, err := b.GetColumnType(ref, 0)
	require.NoError(t, err)
	require.True(t, typ.Equal(types.Int32))

	name, err := b.GetColumnName(ref, 1)
	require.NoError(t, err)
	require.Equal(t, "b", name)
}

func TestBindContextUnknownRef(t *testing.T) {
	b := NewBindContext()
	_, err := b.GetTable(TableRef(5))
	require.Error(t, err)
}

func TestBindContextColumnOutOfRange(t *testing.T) {
	b := NewBindContext()
	ref := b.PushTable("", []types.LogicalType{types.Int32}, []string{"a"})
	_, err := b.GetColumnType(ref, 1)
	require.Error(t, err)
}

// TestArithDatatypeRoundTrip is scenario 2 : push a table
// (None, [Int32,Int32], ["a","b"]), plan col(0) + col(1); result type
// is Int32.
func TestArithDatatypeRoundTrip(t *testing.T) {
	b := NewBindContext()
	ref := b.PushTable("", []types.LogicalType{types.Int32, types.Int32}, []string{"a", "b"})

	col0 := &Column{Table: ref, Index: 0, Name: "a"}
	col1 := &Column{Table: ref, Index: 1, Name: "b"}

	t0, err := col0.Datatype(b)
	require.NoError(t, err)
	t1, err := col1.Datatype(b)
	require.NoError(t, err)
	require.True(t, t0.Equal(types.Int32))
	require.True(t, t1.Equal(types.Int32))

	add := &Arith{Op: ArithAdd, Left: col0, Right: col1, ReturnType: types.Int32}
	result, err := add.Datatype(b)
	require.NoError(t, err)
	require.True(t, result.Equal(types.Int32))
}
