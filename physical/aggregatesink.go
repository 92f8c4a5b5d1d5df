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

package physical

import (
	"context"
	"strconv"
	"strings"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/plan"
	"github.com/pipeql/pipeql/types"
)

// aggregateAccumulator folds one physical-typed column value into a
// running per-group state; the small fixed set below covers the
// commonly needed aggregate functions without growing into a general
// aggregate-function registry, which is deliberately out of scope:
// query optimization policy and SQL surface coverage beyond what is
// needed here are not this package's concern.
type aggregateAccumulator interface {
	accumulate(arg types.Array, row int)
	finish(b types.ArrayBuilder)
}

type countAcc struct{ n int64 }

func (c *countAcc) accumulate(arg types.Array, row int) {
	if arg.Len() == 0 || !arg.IsNull(row) {
		c.n++
	}
}
func (c *countAcc) finish(b types.ArrayBuilder) { types.PutI64(b, c.n) }

type sumAcc struct{ sum float64 }

func (s *sumAcc) accumulate(arg types.Array, row int) {
	if arg.IsNull(row) {
		return
	}
	s.sum += floatCell(arg, row)
}
func (s *sumAcc) finish(b types.ArrayBuilder) { types.PutF64(b, s.sum) }

type minMaxAcc struct {
	isMax bool
	set bool
	value float64
}

func (m *minMaxAcc) accumulate(arg types.Array, row int) {
	if arg.IsNull(row) {
		return
	}
	v := floatCell(arg, row)
	if !m.set || (m.isMax && v > m.value) || (!m.isMax && v < m.value) {
		m.value, m.set = v, true
	}
}
func (m *minMaxAcc) finish(b types.ArrayBuilder) { types.PutF64(b, m.value) }

func floatCell(a types.Array, row int) float64 {
	switch a.Physical() {
	case types.PhysicalF64:
		v, _ := types.GetF64(a, row)
		return v
	case types.PhysicalF32:
		v, _ := types.GetF32(a, row)
		return float64(v)
	case types.PhysicalI32:
		v, _ := types.GetI32(a, row)
		return float64(v)
	case types.PhysicalI64:
		v, _ := types.GetI64(a, row)
		return float64(v)
	default:
		return 0
	}
}

func newAccumulator(name string) (aggregateAccumulator, error) {
	switch strings.ToLower(name) {
	case "count":
		return &countAcc{}, nil
	case "sum":
		return &sumAcc{}, nil
	case "min":
		return &minMaxAcc{isMax: false}, nil
	case "max":
		return &minMaxAcc{isMax: true}, nil
	default:
		return nil, errkind.NotImplemented.New("aggregate function " + name)
	}
}

// groupState is one grouping-set partition's per-group accumulator
// bank, keyed by the group-by columns' row values.
type groupState struct {
	keyRow rowRef
	groupingSet int
	accumulators []aggregateAccumulator
}

// AggregateSink is the chain-terminating sink an Aggregate node lowers
// into: it buckets rows by GroupCols and, when GroupingSets is non-empty,
// replicates each bucket across every grouping set so GroupingFunc can
// recover which set produced a given output row from its grouping-set
// id ("Aggregate").
type AggregateSink struct {
	GroupCols []int
	AggregateArgs []int
	AggregateFns []string
	GroupingSets []plan.GroupingSet

	batches []types.Batch
	states map[string][]*groupState
	order []string
}

// NewAggregateSink builds a sink grouping on groupCols and computing
// one aggregate per (AggregateArgs[i], AggregateFns[i]) pair, optionally
// replicated per groupingSets.
func NewAggregateSink(groupCols []int, aggArgs []int, aggFns []string, groupingSets []plan.GroupingSet) *AggregateSink {
	return &AggregateSink{
		GroupCols: groupCols,
		AggregateArgs: aggArgs,
		AggregateFns: aggFns,
		GroupingSets: groupingSets,
		states: make(map[string][]*groupState),
	}
}

// Push implements Sink: buckets every row of batch.
func (a *AggregateSink) Push(_ context.Context, batch types.Batch) (Signal, error) {
	a.batches = append(a.batches, batch)
	sets := a.GroupingSets
	if len(sets) == 0 {
		sets = []plan.GroupingSet{{Columns: allColumns(len(a.GroupCols))}}
	}
	for row := 0; row < batch.NumRows(); row++ {
		for setIdx, set := range sets {
			key := groupKey(batch, row, a.GroupCols, set) + "|" + strconv.Itoa(setIdx)
			bucket, ok := a.states[key]
			if !ok {
				states := make([]*groupState, 1)
				accs := make([]aggregateAccumulator, len(a.AggregateFns))
				for i, fn := range a.AggregateFns {
					acc, err := newAccumulator(fn)
					if err != nil {
						return Ready, err
					}
					accs[i] = acc
				}
				states[0] = &groupState{keyRow: rowRef{batch: batch, row: row}, groupingSet: setIdx, accumulators: accs}
				a.states[key] = states
				a.order = append(a.order, key)
				bucket = states
			}
			for i, argCol := range a.AggregateArgs {
				var arg types.Array
				if argCol >= 0 {
					arg = batch.Column(argCol)
				}
				bucket[0].accumulators[i].accumulate(arg, row)
			}
		}
	}
	return Ready, nil
}

// Finish implements Sink; aggregation has no buffered flush beyond
// Finalize reading the accumulated state.
func (a *AggregateSink) Finish(context.Context) error { return nil }

// Abort implements Sink.
func (a *AggregateSink) Abort(context.Context, error) error { return nil }

// Results materializes one output row per distinct (group, grouping
// set), group columns first, then aggregate results, then — when
// GroupingSets is non-empty — a trailing grouping-set id column.
func (a *AggregateSink) Results(groupColTypes []types.LogicalType, aggTypes []types.LogicalType) (types.Batch, error) {
	n := len(a.order)
	groupBuilders := make([]types.ArrayBuilder, len(groupColTypes))
	for i, t := range groupColTypes {
		groupBuilders[i] = types.NewArrayBuilder(t, nil)
	}
	aggBuilders := make([]types.ArrayBuilder, len(aggTypes))
	for i, t := range aggTypes {
		aggBuilders[i] = types.NewArrayBuilder(t, nil)
	}
	var idBuilder types.ArrayBuilder
	if len(a.GroupingSets) > 0 {
		idBuilder = types.NewArrayBuilder(types.Int64, nil)
	}

	for _, key := range a.order {
		st := a.states[key][0]
		for i := range groupBuilders {
			if st.keyRow.batch.NumCols() == 0 {
				groupBuilders[i].AppendNull()
				continue
			}
			copyCell(groupBuilders[i], st.keyRow.batch.Column(a.GroupCols[i]), st.keyRow.row)
		}
		for i, acc := range st.accumulators {
			acc.finish(aggBuilders[i])
		}
		if len(a.GroupingSets) > 0 {
			types.PutI64(idBuilder, int64(a.GroupingSets[st.groupingSet].ID(len(a.GroupCols))))
		}
	}

	cols := make([]types.Array, 0, len(groupBuilders)+len(aggBuilders)+1)
	for _, b := range groupBuilders {
		cols = append(cols, b.NewArray())
	}
	for _, b := range aggBuilders {
		cols = append(cols, b.NewArray())
	}
	if len(a.GroupingSets) > 0 {
		cols = append(cols, idBuilder.NewArray())
	}
	return types.NewBatch(n, cols...)
}

func allColumns(n int) map[int]bool {
	m := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		m[i] = true
	}
	return m
}

func groupKey(batch types.Batch, row int, groupCols []int, set plan.GroupingSet) string {
	var sb strings.Builder
	for _, c := range groupCols {
		if !set.Columns[c] {
			sb.WriteString("*,")
			continue
		}
		col := batch.Column(c)
		if col.IsNull(row) {
			sb.WriteString("NULL,")
			continue
		}
		sb.WriteString(cellString(col, row))
		sb.WriteByte(',')
	}
	return sb.String()
}

