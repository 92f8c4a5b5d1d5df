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
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/pipeql/pipeql/types"
)

// rowRef names one row of one batch retained by a HashTable build side.
type rowRef struct {
	batch types.Batch
	row int
}

// HashTable is the build-then-probe structure backing hash joins and
// SetOp dedup ( rules 4/6, §5 "the build-side sink is the
// only writer; once the build-side chain signals Finalized, the hash
// table is frozen and safely readable by all probe workers").
// AggregateSink does not use it; it groups rows in its own map.
// cespare/xxhash/v2 computes bucket keys; rowsEqual compares the key
// cells to resolve collisions exactly.
type HashTable struct {
	keyCols []int
	buckets map[uint64][]rowRef
	frozen bool
}

// NewHashTable returns an empty, writable HashTable keyed on keyCols.
func NewHashTable(keyCols []int) *HashTable {
	return &HashTable{keyCols: keyCols, buckets: make(map[uint64][]rowRef)}
}

// Insert adds one row of batch to the table. Panics-never: the caller
// guarantees Insert is not called after Freeze (the build-side sink is
// the only writer).
func (h *HashTable) Insert(batch types.Batch, row int) {
	h.Retain(batch)
	key := rowHash(batch, row, h.keyCols)
	h.buckets[key] = append(h.buckets[key], rowRef{batch: batch, row: row})
}

// Retain keeps batch's underlying Arrow buffers alive for the table's
// lifetime, since rows are referenced by position rather than copied.
func (h *HashTable) Retain(batch types.Batch) { batch.Retain() }

// Freeze marks the table read-only; this is the
// happens-before edge between build completion and any probe read.
func (h *HashTable) Freeze() { h.frozen = true }

// Frozen reports whether Freeze has been called.
func (h *HashTable) Frozen() bool { return h.frozen }

// Probe returns every build-side row whose key columns equal probeBatch's
// row at probeRow, comparing probeKeyCols on the probe side against
// the table's own keyCols on the build side.
func (h *HashTable) Probe(probeBatch types.Batch, probeRow int, probeKeyCols []int) []rowRef {
	key := rowHash(probeBatch, probeRow, probeKeyCols)
	candidates := h.buckets[key]
	if len(candidates) == 0 {
		return nil
	}
	out := make([]rowRef, 0, len(candidates))
	for _, c := range candidates {
		if rowsEqual(c.batch, c.row, h.keyCols, probeBatch, probeRow, probeKeyCols) {
			out = append(out, c)
		}
	}
	return out
}

// rowHash derives a bucket key from the values of cols at row in batch.
func rowHash(batch types.Batch, row int, cols []int) uint64 {
	d := xxhash.New()
	for _, c := range cols {
		writeCellBytes(d, batch.Column(c), row)
	}
	return d.Sum64()
}

func writeCellBytes(d *xxhash.Digest, a types.Array, row int) {
	if a.IsNull(row) {
		d.Write([]byte{0})
		return
	}
	var buf [8]byte
	switch a.Physical() {
	case types.PhysicalI32:
		v, _ := types.GetI32(a, row)
		binary.LittleEndian.PutUint32(buf[:4], uint32(v))
		d.Write(buf[:4])
	case types.PhysicalI64:
		v, _ := types.GetI64(a, row)
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		d.Write(buf[:])
	case types.PhysicalF64:
		v, _ := types.GetF64(a, row)
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		d.Write(buf[:])
	case types.PhysicalBool:
		v, _ := types.GetBool(a, row)
		if v {
			d.Write([]byte{1})
		} else {
			d.Write([]byte{0})
		}
	case types.PhysicalUtf8:
		v, _ := types.GetUtf8(a, row)
		d.Write([]byte(v))
	default:
		d.Write([]byte(fmt.Sprint(row)))
	}
}

// rowsEqual compares cell values exactly, since hash equality alone
// admits collisions.
func rowsEqual(a types.Batch, aRow int, aCols []int, b types.Batch, bRow int, bCols []int) bool {
	if len(aCols) != len(bCols) {
		return false
	}
	for i := range aCols {
		ac, bc := a.Column(aCols[i]), b.Column(bCols[i])
		if ac.IsNull(aRow) || bc.IsNull(bRow) {
			return false
		}
		if cellString(ac, aRow) != cellString(bc, bRow) {
			return false
		}
	}
	return true
}

func cellString(a types.Array, row int) string {
	switch a.Physical() {
	case types.PhysicalI32:
		v, _ := types.GetI32(a, row)
		return fmt.Sprint(v)
	case types.PhysicalI64:
		v, _ := types.GetI64(a, row)
		return fmt.Sprint(v)
	case types.PhysicalF64:
		v, _ := types.GetF64(a, row)
		return fmt.Sprint(v)
	case types.PhysicalBool:
		v, _ := types.GetBool(a, row)
		return fmt.Sprint(v)
	case types.PhysicalUtf8:
		v, _ := types.GetUtf8(a, row)
		return v
	default:
		return fmt.Sprint(row)
	}
}
