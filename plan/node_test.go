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

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/types"
)

func newTestScan(bc *expr.BindContext, names []string, types_ []types.LogicalType) *Scan {
	ref := bc.PushTable("", types_, names)
	projection := make([]int, len(types_))
	for i := range projection {
		projection[i] = i
	}
	return NewScan(ref, types_, names, projection, ScanSource{
		Kind: ScanSourceTable,
		Table: &TableSource{Catalog: "system", Schema: "public", Entry: "t"},
	})
}

// TestOutputTableRefsOnlyReferenceBindContext is the quantified
// invariant : for every logical plan P,
// get_output_table_refs(P) references only TableRefs defined in the
// bind context used to plan P.
func TestOutputTableRefsOnlyReferenceBindContext(t *testing.T) {
	bc := expr.NewBindContext()
	left := newTestScan(bc, []string{"id"}, []types.LogicalType{types.Int32})
	right := newTestScan(bc, []string{"id"}, []types.LogicalType{types.Int32})

	markRef := bc.PushTable("", []types.LogicalType{types.Boolean}, []string{"mark"})
	join := NewComparisonJoin(left, right, JoinType{Kind: JoinLeftMark, MarkRef: markRef}, []JoinCondition{
		{Left: &expr.Column{Table: left.TableRef, Index: 0}, Right: &expr.Column{Table: right.TableRef, Index: 0}, Op: expr.Eq},
	})

	for _, ref := range join.GetOutputTableRefs() {
		require.Less(t, int(ref), bc.NumTables())
	}
}

func TestScanExplainEntry(t *testing.T) {
	bc := expr.NewBindContext()
	s := newTestScan(bc, []string{"a", "b"}, []types.LogicalType{types.Int32, types.Utf8})
	entry := s.ExplainEntry(ExplainConfig{Verbose: true})
	require.Equal(t, "Scan", entry.Name)
}

func TestFilterDelegatesOutputRefs(t *testing.T) {
	bc := expr.NewBindContext()
	s := newTestScan(bc, []string{"a"}, []types.LogicalType{types.Int32})
	f := NewFilter(s, &expr.Literal{Type: types.Boolean, Value: true})
	require.Equal(t, s.GetOutputTableRefs(), f.GetOutputTableRefs())
}
