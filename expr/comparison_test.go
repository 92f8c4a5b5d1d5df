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

package expr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComparisonOperatorFlip(t *testing.T) {
	var testCases = []struct {
		op ComparisonOperator
		want ComparisonOperator
	}{
		{Eq, Eq},
		{NotEq, NotEq},
		{Lt, Gt},
		{LtEq, GtEq},
		{Gt, Lt},
		{GtEq, LtEq},
	}
	for _, tt := range testCases {
		t.Run(tt.op.String(), func(t *testing.T) {
			require.Equal(t, tt.want, tt.op.Flip())
		})
	}
}

func TestComparisonFlipSidesIsIdentity(t *testing.T) {
	// : "For all comparison conditions C, C.flip_sides();
	// C.flip_sides() is the identity."
	left := &Column{Table: 0, Index: 0, Name: "a"}
	right := &Column{Table: 0, Index: 1, Name: "b"}

	for _, op := range []ComparisonOperator{Eq, NotEq, Lt, LtEq, Gt, GtEq} {
		c := &Comparison{Op: op, Left: left, Right: right}
		flipped := c.FlipSides()
		twice := flipped.FlipSides()
		require.Equal(t, c.Op, twice.Op)
		require.Same(t, c.Left, twice.Left)
		require.Same(t, c.Right, twice.Right)
	}
}
