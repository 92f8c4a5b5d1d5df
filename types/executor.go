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

import (
	"github.com/pipeql/pipeql/internal/errkind"
)

// Getter reads the row-i value of physical storage type S out of an
// Array, returning ok=false if the row is null.
type Getter[S any] func(a Array, i int) (S, bool)

// Appender writes a value of builder element type B into an
// ArrayBuilder, or appends null.
type Appender[B any] func(b ArrayBuilder, v B)

// UnaryExecutor executes a row-at-a-time scalar kernel over one input
// array into a builder. NULL-in maps to NULL-out unless
// f opts into null-aware execution by returning ok=false itself — that
// is left to the caller via the wrapped function shape below.
type UnaryExecutor[S, B any] struct {
	Get Getter[S]
	Put Appender[B]
}

// Execute runs f(x) for every valid row of in, writing results (or
// null, for null/invalid rows) into out. It never panics on valid
// input; it returns InvalidArgument on a physical-type mismatch.
func (e UnaryExecutor[S, B]) Execute(in Array, want PhysicalStorage, out ArrayBuilder, f func(S) B) error {
	if err := in.CheckPhysical(want); err != nil {
		return err
	}
	n := in.Len()
	out.Reserve(n)
	for i := 0; i < n; i++ {
		if in.IsNull(i) {
			out.AppendNull()
			continue
		}
		v, ok := e.Get(in, i)
		if !ok {
			out.AppendNull()
			continue
		}
		e.Put(out, f(v))
	}
	return nil
}

// BinaryExecutor executes a row-at-a-time scalar kernel pairwise over
// two input arrays. Length mismatch is an error;
// validity is the intersection of both inputs' validity.
type BinaryExecutor[SA, SB, B any] struct {
	GetA Getter[SA]
	GetB Getter[SB]
	Put Appender[B]
}

// Execute runs f(a, b) for every row where both inputs are valid.
func (e BinaryExecutor[SA, SB, B]) Execute(a, b Array, wantA, wantB PhysicalStorage, out ArrayBuilder, f func(SA, SB) (B, error)) error {
	if err := a.CheckPhysical(wantA); err != nil {
		return err
	}
	if err := b.CheckPhysical(wantB); err != nil {
		return err
	}
	if a.Len() != b.Len() {
		return errkind.LengthMismatch.New(a.Len(), b.Len())
	}
	n := a.Len()
	out.Reserve(n)
	for i := 0; i < n; i++ {
		if a.IsNull(i) || b.IsNull(i) {
			out.AppendNull()
			continue
		}
		av, aok := e.GetA(a, i)
		bv, bok := e.GetB(b, i)
		if !aok || !bok {
			out.AppendNull()
			continue
		}
		r, err := f(av, bv)
		if err != nil {
			return err
		}
		e.Put(out, r)
	}
	return nil
}

// TernaryExecutor executes a row-at-a-time scalar kernel over three
// input arrays of the same element type (e.g. Between, Case-branch
// select-if).
type TernaryExecutor[S, B any] struct {
	Get Getter[S]
	Put Appender[B]
}

// Execute runs f(a, b, c) for every row where all three inputs are
// valid and length-matched.
func (e TernaryExecutor[S, B]) Execute(a, b, c Array, want PhysicalStorage, out ArrayBuilder, f func(S, S, S) (B, error)) error {
	for _, arr := range []Array{a, b, c} {
		if err := arr.CheckPhysical(want); err != nil {
			return err
		}
	}
	if a.Len() != b.Len() || a.Len() != c.Len() {
		return errkind.LengthMismatch.New(a.Len(), b.Len())
	}
	n := a.Len()
	out.Reserve(n)
	for i := 0; i < n; i++ {
		if a.IsNull(i) || b.IsNull(i) || c.IsNull(i) {
			out.AppendNull()
			continue
		}
		av, _ := e.Get(a, i)
		bv, _ := e.Get(b, i)
		cv, _ := e.Get(c, i)
		r, err := f(av, bv, cv)
		if err != nil {
			return err
		}
		e.Put(out, r)
	}
	return nil
}

// VariadicExecutor executes a row-at-a-time scalar kernel over an
// arbitrary number of same-typed input arrays (e.g. Coalesce,
// Conjunction over N operands, variadic scalar-function arguments).
type VariadicExecutor[S, B any] struct {
	Get Getter[S]
	Put Appender[B]
}

// Execute runs f(values, valid) for every row, where valid[k] reports
// whether inputs[k] was non-null at that row. All inputs must share
// the same logical length.
func (e VariadicExecutor[S, B]) Execute(inputs []Array, want PhysicalStorage, out ArrayBuilder, f func(values []S, valid []bool) (B, bool)) error {
	if len(inputs) == 0 {
		return nil
	}
	n := inputs[0].Len()
	for _, a := range inputs {
		if err := a.CheckPhysical(want); err != nil {
			return err
		}
		if a.Len() != n {
			return errkind.LengthMismatch.New(n, a.Len())
		}
	}
	out.Reserve(n)
	values := make([]S, len(inputs))
	valid := make([]bool, len(inputs))
	for i := 0; i < n; i++ {
		for k, a := range inputs {
			if a.IsNull(i) {
				valid[k] = false
				continue
			}
			v, ok := e.Get(a, i)
			valid[k] = ok
			values[k] = v
		}
		r, ok := f(values, valid)
		if !ok {
			out.AppendNull()
			continue
		}
		e.Put(out, r)
	}
	return nil
}
