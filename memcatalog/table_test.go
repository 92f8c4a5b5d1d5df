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

package memcatalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipeql/pipeql/physical"
	"github.com/pipeql/pipeql/types"
)

func TestTableName(t *testing.T) {
	table := NewTable("foo", []string{"a"}, []types.LogicalType{types.Int64})
	require.Equal(t, "foo", table.Name())
}

func TestTableInsertRowArityMismatch(t *testing.T) {
	table := NewTable("foo", []string{"a", "b"}, []types.LogicalType{types.Int64, types.Utf8})
	err := table.Insert([]interface{}{int64(1)})
	require.Error(t, err)
}

func TestTableScanProjection(t *testing.T) {
	table := NewTable("foo", []string{"a", "b"}, []types.LogicalType{types.Int64, types.Utf8})
	require.NoError(t, table.Insert([]interface{}{int64(1), "x"}))
	require.NoError(t, table.Insert([]interface{}{int64(2), nil}))

	src, err := table.Scan(context.Background(), []int{1, 0}, nil)
	require.NoError(t, err)

	batch, sig, err := src.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, physical.Ready, sig)
	require.Equal(t, 2, batch.NumRows())
	require.Equal(t, 2, batch.NumCols())

	s0, ok := types.GetUtf8(batch.Column(0), 0)
	require.True(t, ok)
	require.Equal(t, "x", s0)
	_, ok = types.GetUtf8(batch.Column(0), 1)
	require.False(t, ok, "row 1's b column was inserted as null")

	id0, _ := types.GetI64(batch.Column(1), 0)
	require.Equal(t, int64(1), id0)

	_, sig, err = src.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, physical.Exhausted, sig)
}
