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

// Package function is the scalar-function registry and dispatch core:
// FunctionInfo/Signature declaration, case-insensitive name/alias
// resolution, and planning a call into a monomorphized
// ScalarFunctionImpl.
package function

import (
	"strings"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

// Signature is one entry in a FunctionInfo's overload set: a fixed
// input type tuple, an optional variadic tail type, and the return
// type produced when the tuple matches.
type Signature struct {
	Input []types.LogicalTypeID
	Variadic *types.LogicalTypeID
	ReturnType types.LogicalType
}

// Matches reports whether argTypes satisfies this signature: either an
// exact-arity match against Input, or an Input prefix followed by zero
// or more arguments of Variadic's type.
func (s Signature) Matches(argTypes []types.LogicalType) bool {
	if s.Variadic == nil {
		if len(argTypes) != len(s.Input) {
			return false
		}
		for i, want := range s.Input {
			if argTypes[i].ID != want {
				return false
			}
		}
		return true
	}
	if len(argTypes) < len(s.Input) {
		return false
	}
	for i, want := range s.Input {
		if argTypes[i].ID != want {
			return false
		}
	}
	for _, at := range argTypes[len(s.Input):] {
		if at.ID != *s.Variadic {
			return false
		}
	}
	return true
}

// FunctionInfo is what every scalar function declares: a canonical
// name, aliases, and the overload set of signatures it supports.
type FunctionInfo struct {
	Name string
	Aliases []string
	Signatures []Signature
}

// ScalarFunctionImpl executes a planned, monomorphized scalar function
// over columnar inputs. It is pure: no I/O, no external state,
// referentially transparent given identical inputs.
type ScalarFunctionImpl interface {
	Execute(inputs []types.Array) (types.Array, error)
}

// PlannedScalarFunction is the result of ScalarFunction.Plan: the
// resolved return type plus the monomorphized implementation to
// execute at runtime.
type PlannedScalarFunction struct {
	FunctionName string
	ReturnType types.LogicalType
	Impl ScalarFunctionImpl
}

// Execute runs the planned implementation.
func (p PlannedScalarFunction) Execute(inputs []types.Array) (types.Array, error) {
	return p.Impl.Execute(inputs)
}

// Implementer builds a ScalarFunctionImpl for one matched signature.
// Functions register one Implementer per signature so the inner loop
// of each physical-type combination compiles to a tight, dedicated
// kernel rather than branching on type at execute time.
type Implementer func() ScalarFunctionImpl

// ScalarFunction is a registry entry: its declared info plus a planner
// that verifies arity, resolves input types, dispatches to a matching
// signature, and builds the monomorphized implementation.
type ScalarFunction struct {
	Info FunctionInfo
	Impls []Implementer // parallel to Info.Signatures
}

// Plan verifies argument count, resolves each input's type tuple
// against its overload set, and returns the chosen implementation
// together with its return type ("Planning").
func (f *ScalarFunction) Plan(argTypes []types.LogicalType) (PlannedScalarFunction, error) {
	for i, sig := range f.Info.Signatures {
		if sig.Matches(argTypes) {
			return PlannedScalarFunction{
				FunctionName: f.Info.Name,
				ReturnType: sig.ReturnType,
				Impl: f.Impls[i](),
			}, nil
		}
	}
	return PlannedScalarFunction{}, errkind.InvalidInputTypes.New(f.Info.Name, argTypes)
}

// Registry is a case-insensitive mapping from function name (or alias)
// to the registered ScalarFunction.
type Registry struct {
	byName map[string]*ScalarFunction
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*ScalarFunction)}
}

// Register adds fn's signatures under its canonical name and every
// declared alias, all case-insensitively. A name already holding a
// registered function is not replaced: fn's Signatures and Impls are
// merged into the existing entry instead, so that successive calls
// registering "add" for Int32, Float64, Decimal128, and so on all
// widen one overload set rather than having each call shadow the last.
func (r *Registry) Register(fn *ScalarFunction) {
	target := r.merge(strings.ToLower(fn.Info.Name), fn)
	for _, alias := range fn.Info.Aliases {
		key := strings.ToLower(alias)
		if existing, ok := r.byName[key]; ok && existing != target {
			target.Info.Signatures = append(target.Info.Signatures, existing.Info.Signatures...)
			target.Impls = append(target.Impls, existing.Impls...)
		}
		r.byName[key] = target
		if !containsFold(target.Info.Aliases, alias) {
			target.Info.Aliases = append(target.Info.Aliases, alias)
		}
	}
}

// merge folds fn's Signatures/Impls into the ScalarFunction already
// registered under key, if any, and returns the resulting shared
// entry; absent a prior entry it registers fn itself under key.
func (r *Registry) merge(key string, fn *ScalarFunction) *ScalarFunction {
	existing, ok := r.byName[key]
	if !ok {
		r.byName[key] = fn
		return fn
	}
	if existing == fn {
		return existing
	}
	existing.Info.Signatures = append(existing.Info.Signatures, fn.Info.Signatures...)
	existing.Impls = append(existing.Impls, fn.Impls...)
	return existing
}

func containsFold(ss []string, s string) bool {
	for _, v := range ss {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// Lookup resolves name (case-insensitively, alias or canonical) to its
// registered function.
func (r *Registry) Lookup(name string) (*ScalarFunction, error) {
	fn, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, errkind.NotFound.New("function " + name)
	}
	return fn, nil
}

// PlanCall verifies arity against fn's overload set and resolves
// argTypes to a PlannedScalarFunction; fails with InvalidInputTypes
// describing the offending tuple if no signature matches.
func (r *Registry) PlanCall(name string, argTypes []types.LogicalType) (PlannedScalarFunction, error) {
	fn, err := r.Lookup(name)
	if err != nil {
		return PlannedScalarFunction{}, err
	}
	return fn.Plan(argTypes)
}
