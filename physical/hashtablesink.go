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

	"github.com/pipeql/pipeql/types"
)

// HashTableBuildSink is the chain-terminating sink for an aggregate's
// or join's build side: it inserts every row of every pushed batch
// into Table, keyed on KeyCols, and Freezes the table on Finish so a
// subsequent probe chain may safely read it. Once the build-side chain
// signals Finalized, the hash table is frozen and safely readable by
// all probe workers.
type HashTableBuildSink struct {
	Table *HashTable
	KeyCols []int
}

// NewHashTableBuildSink builds a sink over a fresh HashTable keyed on
// keyCols. The table is reachable through the sink's Table field, so
// the probe side can be wired to the same table.
func NewHashTableBuildSink(keyCols []int) *HashTableBuildSink {
	return &HashTableBuildSink{Table: NewHashTable(keyCols), KeyCols: keyCols}
}

// Push implements Sink.
func (h *HashTableBuildSink) Push(_ context.Context, batch types.Batch) (Signal, error) {
	for row := 0; row < batch.NumRows(); row++ {
		h.Table.Insert(batch, row)
	}
	return Ready, nil
}

// Finish implements Sink: freezes the table for probe-side reads.
func (h *HashTableBuildSink) Finish(context.Context) error {
	h.Table.Freeze()
	return nil
}

// Abort implements Sink: an aborted build leaves the table unfrozen,
// so any probe chain wired to it fails fast rather than reading a
// partial table.
func (h *HashTableBuildSink) Abort(context.Context, error) error { return nil }
