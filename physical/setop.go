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

	"github.com/pipeql/pipeql/plan"
	"github.com/pipeql/pipeql/types"
)

// BufferSink collects every pushed batch in memory. The planner uses it
// to terminate both input chains of every SetOp form before the
// combining source below can run, the right side of a CrossJoin, and a
// Materialization.
type BufferSink struct {
	Batches []types.Batch
}

// NewBufferSink returns an empty BufferSink.
func NewBufferSink() *BufferSink { return &BufferSink{} }

// Push implements Sink.
func (b *BufferSink) Push(_ context.Context, batch types.Batch) (Signal, error) {
	b.Batches = append(b.Batches, batch)
	return Ready, nil
}

// Finish implements Sink.
func (b *BufferSink) Finish(context.Context) error { return nil }

// Abort implements Sink.
func (b *BufferSink) Abort(context.Context, error) error { return nil }

// SetOpCombineSource is the new-chain source a SetOp terminates into:
// it reads both sides' fully buffered results and applies union-all
// concatenation, or a hash-based dedup/intersection/difference.
type SetOpCombineSource struct {
	Left, Right *BufferSink
	Kind plan.SetOpKind
	All bool

	done bool
}

// Next implements Source.
func (s *SetOpCombineSource) Next(context.Context) (types.Batch, Signal, error) {
	if s.done {
		return types.Batch{}, Exhausted, nil
	}
	s.done = true

	if s.All && s.Kind == plan.SetOpUnion {
		return s.concatAll()
	}
	return s.combineDeduped()
}

func (s *SetOpCombineSource) concatAll() (types.Batch, Signal, error) {
	var rows int
	var numCols int
	for _, b := range append(append([]types.Batch{}, s.Left.Batches...), s.Right.Batches...) {
		rows += b.NumRows()
		numCols = b.NumCols()
	}
	if numCols == 0 {
		empty, err := types.NewBatch(rows)
		return empty, Ready, err
	}
	builders := make([]types.ArrayBuilder, numCols)
	var logical []types.LogicalType
	for _, b := range s.Left.Batches {
		if logical == nil {
			logical = make([]types.LogicalType, numCols)
			for i := 0; i < numCols; i++ {
				logical[i] = b.Column(i).LogicalType()
			}
			for i, t := range logical {
				builders[i] = types.NewArrayBuilder(t, nil)
			}
		}
		appendBatch(builders, b)
	}
	for _, b := range s.Right.Batches {
		appendBatch(builders, b)
	}
	cols := make([]types.Array, numCols)
	for i, b := range builders {
		cols[i] = b.NewArray()
	}
	out, err := types.NewBatch(rows, cols...)
	return out, Ready, err
}

func appendBatch(builders []types.ArrayBuilder, b types.Batch) {
	for row := 0; row < b.NumRows(); row++ {
		for c := range builders {
			copyCell(builders[c], b.Column(c), row)
		}
	}
}

func (s *SetOpCombineSource) combineDeduped() (types.Batch, Signal, error) {
	numCols := 0
	for _, b := range s.Left.Batches {
		numCols = b.NumCols()
		break
	}
	if numCols == 0 {
		for _, b := range s.Right.Batches {
			numCols = b.NumCols()
			break
		}
	}
	allCols := make([]int, numCols)
	for i := range allCols {
		allCols[i] = i
	}

	rightSeen := NewHashTable(allCols)
	for _, b := range s.Right.Batches {
		for row := 0; row < b.NumRows(); row++ {
			rightSeen.Insert(b, row)
		}
	}
	rightSeen.Freeze()

	dedup := NewHashTable(allCols)
	var builders []types.ArrayBuilder
	var logical []types.LogicalType
	count := 0

	emit := func(b types.Batch, row int) {
		if logical == nil {
			logical = make([]types.LogicalType, numCols)
			for i := 0; i < numCols; i++ {
				logical[i] = b.Column(i).LogicalType()
			}
			builders = make([]types.ArrayBuilder, numCols)
			for i, t := range logical {
				builders[i] = types.NewArrayBuilder(t, nil)
			}
		}
		for c := range builders {
			copyCell(builders[c], b.Column(c), row)
		}
		dedup.Insert(b, row)
		count++
	}

	switch s.Kind {
	case plan.SetOpUnion:
		for _, side := range [][]types.Batch{s.Left.Batches, s.Right.Batches} {
			for _, b := range side {
				for row := 0; row < b.NumRows(); row++ {
					if len(dedup.Probe(b, row, allCols)) == 0 {
						emit(b, row)
					}
				}
			}
		}
	case plan.SetOpIntersect:
		for _, b := range s.Left.Batches {
			for row := 0; row < b.NumRows(); row++ {
				if len(rightSeen.Probe(b, row, allCols)) > 0 && len(dedup.Probe(b, row, allCols)) == 0 {
					emit(b, row)
				}
			}
		}
	case plan.SetOpExcept:
		for _, b := range s.Left.Batches {
			for row := 0; row < b.NumRows(); row++ {
				if len(rightSeen.Probe(b, row, allCols)) == 0 && len(dedup.Probe(b, row, allCols)) == 0 {
					emit(b, row)
				}
			}
		}
	}

	if builders == nil {
		empty, err := types.NewBatch(0)
		return empty, Ready, err
	}
	cols := make([]types.Array, numCols)
	for i, b := range builders {
		cols[i] = b.NewArray()
	}
	out, err := types.NewBatch(count, cols...)
	return out, Ready, err
}
