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

package plan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGroupingSetsPartitionCounts is the grouping-sets shape of
// : grouping sets {0},{1},{} over two columns
// produce three distinct partitions, each with a distinct id.
func TestGroupingSetsPartitionCounts(t *testing.T) {
	sets := []GroupingSet{
		{Columns: map[int]bool{0: true}},
		{Columns: map[int]bool{1: true}},
		{Columns: map[int]bool{}},
	}
	ids := make(map[uint64]bool)
	for _, s := range sets {
		ids[s.ID(2)] = true
	}
	require.Len(t, ids, 3)
}

func TestRollupGroupingSetsCount(t *testing.T) {
	sets := RollupGroupingSets(3)
	require.Len(t, sets, 4)
	require.Len(t, sets[0].Columns, 3)
	require.Len(t, sets[3].Columns, 0)
}

func TestCubeGroupingSetsCount(t *testing.T) {
	sets := CubeGroupingSets(3)
	require.Len(t, sets, 8)
}
