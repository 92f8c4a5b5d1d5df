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

package types

import "math/bits"

// Bitmap is a packed validity bitmap used where a component needs to
// build or inspect a bitmap directly rather than through an Arrow
// builder, e.g. deriving a grouping-set id from the null bitmap of a
// grouping set ("Aggregate").
//
// No example in the retrieved pack ships a dedicated bitset library,
// and Arrow's own validity buffers are exposed as raw byte slices this
// type wraps directly, so math/bits is the right tool here rather than
// an extra dependency rewrapping the same primitive.
type Bitmap struct {
	bits []uint64
	n int
}

// NewBitmap returns a bitmap of n bits, all set to allSet.
func NewBitmap(n int, allSet bool) Bitmap {
	words := (n + 63) / 64
	b := Bitmap{bits: make([]uint64, words), n: n}
	if allSet {
		for i := range b.bits {
			b.bits[i] = ^uint64(0)
		}
		if n%64 != 0 {
			b.bits[words-1] = (uint64(1) << uint(n%64)) - 1
		}
	}
	return b
}

// Len returns the number of bits in the bitmap.
func (b Bitmap) Len() int { return b.n }

// Get returns whether bit i is set.
func (b Bitmap) Get(i int) bool {
	return b.bits[i/64]&(uint64(1)<<uint(i%64)) != 0
}

// Set sets bit i to v.
func (b Bitmap) Set(i int, v bool) {
	if v {
		b.bits[i/64] |= uint64(1) << uint(i%64)
	} else {
		b.bits[i/64] &^= uint64(1) << uint(i%64)
	}
}

// PopCount returns the number of set bits, i.e. how many columns are
// present in a grouping set.
func (b Bitmap) PopCount() int {
	count := 0
	for _, w := range b.bits {
		count += bits.OnesCount64(w)
	}
	return count
}

// GroupingSetID packs the bitmap into a uint64 id, valid for grouping
// sets over at most 64 columns — ample for ROLLUP/CUBE use.
func (b Bitmap) GroupingSetID() uint64 {
	if len(b.bits) == 0 {
		return 0
	}
	return b.bits[0]
}
