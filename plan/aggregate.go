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
	"fmt"

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/types"
)

// GroupingSet is one member of an Aggregate's grouping-set list: the
// indexes of GroupExprs present in this set, used by ROLLUP/CUBE/
// GROUPING SETS to partition rows and tag each partition with a
// distinct id ("Aggregate").
type GroupingSet struct {
	Columns map[int]bool
}

// Bitmap packs Columns into a types.Bitmap over n grouping columns, the
// form GroupingFunc reads to answer "was column i part of the set that
// produced this row".
func (g GroupingSet) Bitmap(n int) types.Bitmap {
	bm := types.NewBitmap(n, false)
	for i := range g.Columns {
		bm.Set(i, true)
	}
	return bm
}

// ID returns this set's compact grouping-set identifier over n columns.
func (g GroupingSet) ID(n int) uint64 { return g.Bitmap(n).GroupingSetID() }

// RollupGroupingSets builds the n+1 grouping sets ROLLUP(e1..en)
// produces: the full set, then each prefix down to the empty set.
func RollupGroupingSets(n int) []GroupingSet {
	sets := make([]GroupingSet, 0, n+1)
	for k := n; k >= 0; k-- {
		cols := make(map[int]bool, k)
		for i := 0; i < k; i++ {
			cols[i] = true
		}
		sets = append(sets, GroupingSet{Columns: cols})
	}
	return sets
}

// CubeGroupingSets builds the 2^n grouping sets CUBE(e1..en) produces:
// every subset of the grouping columns.
func CubeGroupingSets(n int) []GroupingSet {
	total := 1 << uint(n)
	sets := make([]GroupingSet, 0, total)
	for mask := 0; mask < total; mask++ {
		cols := make(map[int]bool)
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				cols[i] = true
			}
		}
		sets = append(sets, GroupingSet{Columns: cols})
	}
	return sets
}

// Aggregate groups its child's rows by GroupExprs and computes
// Aggregates per group. GroupingSets, when non-nil, replicates the
// grouping across multiple partitions for ROLLUP/CUBE/GROUPING SETS,
// with GroupingSetTable naming the ref GroupingFunc reads to recover
// which set produced a given row — disambiguating the SQL-NULLs that
// scheme introduces from genuine column NULLs ("Aggregate").
type Aggregate struct {
	Base

	AggregatesTable expr.TableRef
	Aggregates []expr.AggregateCall
	GroupTable *expr.TableRef
	GroupExprs []expr.ScalarExpression
	GroupingSets []GroupingSet
	GroupingSetTable *expr.TableRef
}

// NewAggregate builds an Aggregate over a single child.
func NewAggregate(child LogicalOperator, aggregatesTable expr.TableRef, groupTable *expr.TableRef, groupExprs []expr.ScalarExpression, aggs []expr.AggregateCall) *Aggregate {
	return &Aggregate{
		Base: Base{Loc: child.Location(), Kids: []LogicalOperator{child}},
		AggregatesTable: aggregatesTable,
		Aggregates: aggs,
		GroupTable: groupTable,
		GroupExprs: groupExprs,
	}
}

// WithGroupingSets attaches a grouping-set list and the ref that tags
// each output row with its originating set, for ROLLUP/CUBE/GROUPING
// SETS aggregates.
func (a *Aggregate) WithGroupingSets(sets []GroupingSet, groupingSetTable expr.TableRef) *Aggregate {
	a.GroupingSets = sets
	a.GroupingSetTable = &groupingSetTable
	return a
}

// GetOutputTableRefs returns the aggregates table ref, plus the group
// table and grouping-set table refs when present.
func (a *Aggregate) GetOutputTableRefs() []expr.TableRef {
	out := []expr.TableRef{a.AggregatesTable}
	if a.GroupTable != nil {
		out = append(out, *a.GroupTable)
	}
	if a.GroupingSetTable != nil {
		out = append(out, *a.GroupingSetTable)
	}
	return out
}

// ExplainEntry renders Aggregate's self-description.
func (a *Aggregate) ExplainEntry(conf ExplainConfig) ExplainEntry {
	pairs := [][2]string{
		{"group_by", fmt.Sprint(len(a.GroupExprs))},
		{"aggregates", fmt.Sprint(len(a.Aggregates))},
	}
	if conf.Verbose && len(a.GroupingSets) > 0 {
		pairs = append(pairs, [2]string{"grouping_sets", fmt.Sprint(len(a.GroupingSets))})
	}
	return ExplainEntry{Name: "Aggregate", Pairs: pairs}
}
