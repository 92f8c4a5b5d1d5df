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

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/physical"
	"github.com/pipeql/pipeql/plan"
	"github.com/pipeql/pipeql/types"
)

// TestScanTableEndToEnd drives a Scan(ScanSourceTable) all the way
// through PhysicalPlanner.CreatePlan into a CollectSink, with the
// planner's CatalogLookup hook wired to a Registry.
func TestScanTableEndToEnd(t *testing.T) {
	reg := NewRegistry()
	cat := NewCatalog()
	require.NoError(t, reg.Attach("system", cat))
	db, err := cat.CreateDatabase("public")
	require.NoError(t, err)
	table, err := db.CreateTable("widgets", []string{"id", "name"}, []types.LogicalType{types.Int64, types.Utf8})
	require.NoError(t, err)
	require.NoError(t, table.Insert([]interface{}{int64(1), "a"}))
	require.NoError(t, table.Insert([]interface{}{int64(2), "b"}))

	bc := expr.NewBindContext()
	ref := bc.PushTable("widgets", []types.LogicalType{types.Int64, types.Utf8}, []string{"id", "name"})
	scan := plan.NewScan(ref, []types.LogicalType{types.Int64, types.Utf8}, []string{"id", "name"}, []int{0, 1}, plan.ScanSource{
		Kind:  plan.ScanSourceTable,
		Table: &plan.TableSource{Catalog: "system", Schema: "public", Entry: "widgets"},
	})

	planner := physical.NewPhysicalPlanner(nil, bc, reg.Lookup, nil)
	sink := physical.NewCollectSink()
	pipeline, err := planner.CreatePlan(scan, sink)
	require.NoError(t, err)
	require.NoError(t, pipeline.Execute(context.Background()))

	require.Len(t, sink.Batches, 1)
	out := sink.Batches[0]
	require.Equal(t, 2, out.NumRows())
	id0, _ := types.GetI64(out.Column(0), 0)
	require.Equal(t, int64(1), id0)
	name1, _ := types.GetUtf8(out.Column(1), 1)
	require.Equal(t, "b", name1)
}
