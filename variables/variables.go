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

// Package variables is the session-variable backing store for the
// names under "Configuration": SetVar assigns, ResetVar restores a
// default (or every default, for VariableScopeAll), ShowVar reads.
// Names are case-insensitive; values are validated against the
// variable's declared type at set time. SetVar/ResetVar/ShowVar carry
// zero output table-refs and so are never lowered by
// PhysicalPlanner — a session executor consults a Store directly.
package variables

import (
	"strings"
	"sync"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

// Definition declares one session variable's name, type, and default
// value, mirroring the shape of a MySQL system variable declaration:
// {Name, Type, Default}.
type Definition struct {
	Name string
	Type types.LogicalType
	Default interface{}
}

// Store holds the current value of every declared session variable.
type Store struct {
	mu sync.RWMutex
	defs map[string]Definition
	values map[string]interface{}
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		defs: make(map[string]Definition),
		values: make(map[string]interface{}),
	}
}

func key(name string) string { return strings.ToLower(name) }

// Declare registers a new variable at its default value. Declaring an
// already-declared name fails with AlreadyExists.
func (s *Store) Declare(def Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(def.Name)
	if _, ok := s.defs[k]; ok {
		return errkind.AlreadyExists.New(def.Name)
	}
	s.defs[k] = def
	s.values[k] = def.Default
	return nil
}

// Set assigns value to the variable named name, validating it against
// the variable's declared type first.
func (s *Store) Set(name string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(name)
	def, ok := s.defs[k]
	if !ok {
		return errkind.NotFound.New(name)
	}
	if err := validate(def.Type, value); err != nil {
		return err
	}
	s.values[k] = value
	return nil
}

// Get returns the current value of the variable named name.
func (s *Store) Get(name string) (interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k := key(name)
	v, ok := s.values[k]
	if !ok {
		return nil, errkind.NotFound.New(name)
	}
	return v, nil
}

// Reset restores the variable named name to its declared default.
func (s *Store) Reset(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(name)
	def, ok := s.defs[k]
	if !ok {
		return errkind.NotFound.New(name)
	}
	s.values[k] = def.Default
	return nil
}

// ResetAll restores every declared variable to its default, the
// VariableScopeAll behavior of plan.ResetVar.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, def := range s.defs {
		s.values[k] = def.Default
	}
}

// validate checks that v's Go type matches t's physical storage, the
// same per-physical-type switch appendLiteralValue/appendCell use to
// route a scalar value into the right Arrow builder.
func validate(t types.LogicalType, v interface{}) error {
	if v == nil {
		return nil
	}
	ok := false
	switch t.Physical() {
	case types.PhysicalI8:
		_, ok = v.(int8)
	case types.PhysicalI16:
		_, ok = v.(int16)
	case types.PhysicalI32:
		_, ok = v.(int32)
	case types.PhysicalI64:
		_, ok = v.(int64)
	case types.PhysicalU8:
		_, ok = v.(uint8)
	case types.PhysicalU16:
		_, ok = v.(uint16)
	case types.PhysicalU32:
		_, ok = v.(uint32)
	case types.PhysicalU64:
		_, ok = v.(uint64)
	case types.PhysicalF32:
		_, ok = v.(float32)
	case types.PhysicalF64:
		_, ok = v.(float64)
	case types.PhysicalBool:
		_, ok = v.(bool)
	case types.PhysicalUtf8:
		_, ok = v.(string)
	default:
		return errkind.NotImplemented.New("variable of physical type " + t.Physical().String())
	}
	if !ok {
		return errkind.InvalidArgument.New("value does not match the variable's declared type")
	}
	return nil
}
