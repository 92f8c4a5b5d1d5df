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

// TestLeftMarkJoinShape builds the LeftMark join scenario's plan shape:
// left {id:[1,2,3]}, right {id:[2]}, condition left.id = right.id,
// LeftMark join. The physical execution of this scenario is exercised
// in package physical; here we check the logical node carries the
// condition, the mark ref, and propagates both children's refs plus
// its own synthetic one.
func TestLeftMarkJoinShape(t *testing.T) {
	bc := expr.NewBindContext()
	left := newTestScan(bc, []string{"id"}, []types.LogicalType{types.Int32})
	right := newTestScan(bc, []string{"id"}, []types.LogicalType{types.Int32})
	markRef := bc.PushTable("", []types.LogicalType{types.Boolean}, []string{"mark"})

	cond := JoinCondition{
		Left: &expr.Column{Table: left.TableRef, Index: 0, Name: "id"},
		Right: &expr.Column{Table: right.TableRef, Index: 0, Name: "id"},
		Op: expr.Eq,
	}
	join := NewComparisonJoin(left, right, JoinType{Kind: JoinLeftMark, MarkRef: markRef}, []JoinCondition{cond})

	require.Equal(t, ComparisonJoinKind, join.Kind)
	require.Equal(t, JoinLeftMark, join.Type.Kind)
	require.Equal(t, markRef, join.Type.MarkRef)

	refs := join.GetOutputTableRefs()
	require.Contains(t, refs, left.TableRef)
	require.Contains(t, refs, right.TableRef)
	require.Contains(t, refs, markRef)
}

func TestJoinTypeStringIncludesMarkRef(t *testing.T) {
	jt := JoinType{Kind: JoinLeftMark, MarkRef: expr.TableRef(7)}
	require.Equal(t, "LeftMark{7}", jt.String())
}

func TestCrossJoinHasNoCondition(t *testing.T) {
	bc := expr.NewBindContext()
	left := newTestScan(bc, []string{"id"}, []types.LogicalType{types.Int32})
	right := newTestScan(bc, []string{"id"}, []types.LogicalType{types.Int32})
	join := NewCrossJoin(left, right, JoinType{Kind: JoinInner})
	entry := join.ExplainEntry(ExplainConfig{})
	require.Equal(t, [2]string{"condition", "(none)"}, entry.Pairs[1])
}
