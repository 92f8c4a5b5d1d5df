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

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

// ReplaySource reads back a BufferSink's fully materialized batches,
// applying projection to each: a Scan referencing a Materialization
// may read it more than once without recomputation.
type ReplaySource struct {
	Sink *BufferSink
	Projection []int

	idx int
}

// Next implements Source.
func (r *ReplaySource) Next(context.Context) (types.Batch, Signal, error) {
	if r.idx >= len(r.Sink.Batches) {
		return types.Batch{}, Exhausted, nil
	}
	batch := r.Sink.Batches[r.idx]
	r.idx++

	if r.Projection == nil {
		return batch, Ready, nil
	}
	cols := make([]types.Array, len(r.Projection))
	for i, c := range r.Projection {
		if c < 0 || c >= batch.NumCols() {
			return types.Batch{}, Ready, errkind.Internal.New("materialization projection index out of range")
		}
		cols[i] = batch.Column(c)
	}
	out, err := types.NewBatch(batch.NumRows(), cols...)
	return out, Ready, err
}
